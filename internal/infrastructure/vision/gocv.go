//go:build gocv
// +build gocv

package vision

import (
	"errors"
	"image"
	"math"
	"sort"

	"gocv.io/x/gocv"

	"beach-vision/internal/domain/entity"
	"beach-vision/internal/domain/port"
)

// GoCVImaging реализация на OpenCV. Собирается с тегом gocv.
type GoCVImaging struct {
	// параметры HoughCircles
	HoughDP     float64
	HoughParam1 float64
	HoughParam2 float64
	// EdgeBlur размер ядра размытия перед Canny
	EdgeBlur int
}

// NewGoCVImaging создаёт бэкенд с параметрами Хафа, подобранными на тренировочных кадрах.
func NewGoCVImaging() (port.Imaging, error) {
	return &GoCVImaging{
		HoughDP:     1,
		HoughParam1: 100,
		HoughParam2: 20,
		EdgeBlur:    5,
	}, nil
}

func (g *GoCVImaging) ToHSV(img image.Image) (*entity.HSVImage, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, entity.NewImagingError("to_hsv", errors.New("empty image"))
	}
	bgr, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return nil, entity.NewImagingError("to_hsv", err)
	}
	defer bgr.Close()

	hsv := gocv.NewMat()
	defer hsv.Close()
	gocv.CvtColor(bgr, &hsv, gocv.ColorBGRToHSV)

	out := entity.NewHSVImage(image.Rect(0, 0, hsv.Cols(), hsv.Rows()))
	copy(out.Pix, hsv.ToBytes())
	return out, nil
}

func (g *GoCVImaging) InRange(hsv *entity.HSVImage, lower, upper entity.HSV) (entity.Mask, error) {
	if hsv == nil || hsv.Rect.Empty() {
		return entity.Mask{}, entity.NewImagingError("in_range", errors.New("empty hsv image"))
	}
	src, err := gocv.NewMatFromBytes(hsv.Rect.Dy(), hsv.Rect.Dx(), gocv.MatTypeCV8UC3, hsvBytes(hsv))
	if err != nil {
		return entity.Mask{}, entity.NewImagingError("in_range", err)
	}
	defer src.Close()

	dst := gocv.NewMat()
	defer dst.Close()
	gocv.InRangeWithScalar(src,
		gocv.NewScalar(float64(lower.H), float64(lower.S), float64(lower.V), 0),
		gocv.NewScalar(float64(upper.H), float64(upper.S), float64(upper.V), 0),
		&dst)
	return maskFromMat(dst, hsv.Rect.Min), nil
}

func (g *GoCVImaging) Erode(mask entity.Mask, kernelSize, iterations int) (entity.Mask, error) {
	return g.morph("erode", mask, kernelSize, iterations, gocv.Erode)
}

func (g *GoCVImaging) Dilate(mask entity.Mask, kernelSize, iterations int) (entity.Mask, error) {
	return g.morph("dilate", mask, kernelSize, iterations, gocv.Dilate)
}

func (g *GoCVImaging) morph(op string, mask entity.Mask, kernelSize, iterations int, fn func(gocv.Mat, *gocv.Mat, gocv.Mat)) (entity.Mask, error) {
	if err := checkMorph(mask, kernelSize); err != nil {
		return entity.Mask{}, entity.NewImagingError(op, err)
	}
	src, err := matFromMask(mask)
	if err != nil {
		return entity.Mask{}, entity.NewImagingError(op, err)
	}
	defer src.Close()

	kernel := gocv.GetStructuringElement(gocv.MorphRect, image.Pt(kernelSize, kernelSize))
	defer kernel.Close()

	for i := 0; i < iterations; i++ {
		dst := gocv.NewMat()
		fn(src, &dst, kernel)
		src.Close()
		src = dst
	}
	return maskFromMat(src, mask.Rect.Min), nil
}

// FindRegions внешние контуры; площадь: площадь контура, центр: среднее точек контура.
func (g *GoCVImaging) FindRegions(mask entity.Mask) ([]entity.Region, error) {
	if mask.Gray == nil {
		return nil, entity.NewImagingError("find_regions", errEmptyMask)
	}
	src, err := matFromMask(mask)
	if err != nil {
		return nil, entity.NewImagingError("find_regions", err)
	}
	defer src.Close()

	contours := gocv.FindContours(src, gocv.RetrievalExternal, gocv.ChainApproxNone)
	defer contours.Close()

	off := mask.Rect.Min
	regions := make([]entity.Region, 0, contours.Size())
	for i := 0; i < contours.Size(); i++ {
		c := contours.At(i)
		area := gocv.ContourArea(c)
		rect := gocv.BoundingRect(c).Add(off)
		points := c.ToPoints()
		var sx, sy float64
		for j := range points {
			points[j] = points[j].Add(off)
			sx += float64(points[j].X)
			sy += float64(points[j].Y)
		}
		n := math.Max(float64(len(points)), 1)
		regions = append(regions, entity.Region{
			Area:        max(1, int(math.Round(area))),
			ContourArea: area,
			Perimeter:   gocv.ArcLength(c, true),
			Box:         entity.BoxFromRect(rect),
			CentroidX:   sx / n,
			CentroidY:   sy / n,
			Contour:     points,
		})
	}
	// OpenCV отдаёт контуры снизу вверх; приводим к порядку обхода строк
	sort.SliceStable(regions, func(i, j int) bool {
		a, b := regions[i].Box, regions[j].Box
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		return a.X < b.X
	})
	return regions, nil
}

func (g *GoCVImaging) FindCircles(mask entity.Mask, minRadius, maxRadius int) ([]entity.Circle, error) {
	if mask.Gray == nil {
		return nil, entity.NewImagingError("find_circles", errEmptyMask)
	}
	if minRadius <= 0 || maxRadius < minRadius {
		return nil, entity.NewImagingError("find_circles", errors.New("bad radius range"))
	}
	src, err := matFromMask(mask)
	if err != nil {
		return nil, entity.NewImagingError("find_circles", err)
	}
	defer src.Close()

	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.GaussianBlur(src, &blurred, image.Pt(g.EdgeBlur, g.EdgeBlur), 0, 0, gocv.BorderDefault)

	found := gocv.NewMat()
	defer found.Close()
	gocv.HoughCirclesWithParams(blurred, &found, gocv.HoughGradient, g.HoughDP,
		float64(minRadius), g.HoughParam1, g.HoughParam2, minRadius, maxRadius)

	off := mask.Rect.Min
	circles := make([]entity.Circle, 0, found.Cols())
	for i := 0; i < found.Cols(); i++ {
		v := found.GetVecfAt(0, i)
		if len(v) < 3 {
			continue
		}
		c := entity.Circle{
			Center: entity.Point{X: int(math.Round(float64(v[0]))) + off.X, Y: int(math.Round(float64(v[1]))) + off.Y},
			Radius: int(math.Round(float64(v[2]))),
		}
		c.Score = scoreCircle(mask, c)
		circles = append(circles, c)
	}
	sort.SliceStable(circles, func(i, j int) bool { return circles[i].Score > circles[j].Score })
	return circles, nil
}

func (g *GoCVImaging) EdgeMap(img image.Image, low, high uint8) (entity.Mask, error) {
	if img == nil || img.Bounds().Empty() {
		return entity.Mask{}, entity.NewImagingError("edge_map", errors.New("empty image"))
	}
	bgr, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return entity.Mask{}, entity.NewImagingError("edge_map", err)
	}
	defer bgr.Close()

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(bgr, &gray, gocv.ColorBGRToGray)

	blur := gocv.NewMat()
	defer blur.Close()
	gocv.GaussianBlur(gray, &blur, image.Pt(g.EdgeBlur, g.EdgeBlur), 0, 0, gocv.BorderDefault)

	edges := gocv.NewMat()
	defer edges.Close()
	gocv.Canny(blur, &edges, float32(low), float32(high))

	out := maskFromMat(edges, image.Point{})
	clearBorder(out, edgeBorder)
	return out, nil
}

func hsvBytes(m *entity.HSVImage) []byte {
	w, h := m.Rect.Dx(), m.Rect.Dy()
	if m.Stride == 3*w {
		return m.Pix[:3*w*h]
	}
	out := make([]byte, 0, 3*w*h)
	for y := m.Rect.Min.Y; y < m.Rect.Max.Y; y++ {
		i := m.PixOffset(m.Rect.Min.X, y)
		out = append(out, m.Pix[i:i+3*w]...)
	}
	return out
}

func matFromMask(mask entity.Mask) (gocv.Mat, error) {
	w, h := mask.Rect.Dx(), mask.Rect.Dy()
	if w == 0 || h == 0 {
		return gocv.NewMat(), errEmptyMask
	}
	buf := make([]byte, 0, w*h)
	for y := mask.Rect.Min.Y; y < mask.Rect.Max.Y; y++ {
		i := mask.PixOffset(mask.Rect.Min.X, y)
		buf = append(buf, mask.Pix[i:i+w]...)
	}
	return gocv.NewMatFromBytes(h, w, gocv.MatTypeCV8U, buf)
}

func maskFromMat(m gocv.Mat, origin image.Point) entity.Mask {
	out := entity.NewMask(image.Rect(origin.X, origin.Y, origin.X+m.Cols(), origin.Y+m.Rows()))
	copy(out.Pix, m.ToBytes())
	return out
}
