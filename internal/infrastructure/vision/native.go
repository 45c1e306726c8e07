package vision

import (
	"errors"
	"image"
	"math"

	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/convolution"
	"github.com/anthonynsimon/bild/effect"
	"github.com/lucasb-eyer/go-colorful"

	"beach-vision/internal/domain/entity"
	"beach-vision/internal/domain/port"
)

var errEmptyMask = errors.New("empty mask")

// edgeBorder ширина рамки без границ: там работают размытие и Собель
const edgeBorder = 4

// NativeImaging реализация на чистом Go: не требует OpenCV, работает в тестах и на стенде.
type NativeImaging struct {
	// EdgeBlurRadius радиус гауссова размытия перед поиском границ
	EdgeBlurRadius float64
}

var _ port.Imaging = (*NativeImaging)(nil)

func NewNativeImaging() *NativeImaging {
	return &NativeImaging{EdgeBlurRadius: 1.5}
}

// ToHSV переводит кадр в HSV в шкале OpenCV: H = градусы/2, S и V умножены на 255.
func (n *NativeImaging) ToHSV(img image.Image) (*entity.HSVImage, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, entity.NewImagingError("to_hsv", errors.New("empty image"))
	}
	b := img.Bounds()
	out := entity.NewHSVImage(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			r, g, bl, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			c := colorful.Color{R: float64(r) / 65535, G: float64(g) / 65535, B: float64(bl) / 65535}
			h, s, v := c.Hsv()
			out.SetHSV(x, y, entity.HSV{
				H: uint8(math.Min(math.Round(h/2), 180)),
				S: uint8(math.Round(s * 255)),
				V: uint8(math.Round(v * 255)),
			})
		}
	}
	return out, nil
}

func (n *NativeImaging) InRange(hsv *entity.HSVImage, lower, upper entity.HSV) (entity.Mask, error) {
	if hsv == nil {
		return entity.Mask{}, entity.NewImagingError("in_range", errors.New("nil hsv image"))
	}
	out := entity.NewMask(hsv.Rect)
	for y := hsv.Rect.Min.Y; y < hsv.Rect.Max.Y; y++ {
		for x := hsv.Rect.Min.X; x < hsv.Rect.Max.X; x++ {
			if hsv.HSVAt(x, y).InRange(lower, upper) {
				out.Mark(x, y)
			}
		}
	}
	return out, nil
}

func (n *NativeImaging) Erode(mask entity.Mask, kernelSize, iterations int) (entity.Mask, error) {
	if err := checkMorph(mask, kernelSize); err != nil {
		return entity.Mask{}, entity.NewImagingError("erode", err)
	}
	return morph(mask, kernelSize, iterations, true), nil
}

func (n *NativeImaging) Dilate(mask entity.Mask, kernelSize, iterations int) (entity.Mask, error) {
	if err := checkMorph(mask, kernelSize); err != nil {
		return entity.Mask{}, entity.NewImagingError("dilate", err)
	}
	return morph(mask, kernelSize, iterations, false), nil
}

func (n *NativeImaging) FindRegions(mask entity.Mask) ([]entity.Region, error) {
	if mask.Gray == nil {
		return nil, entity.NewImagingError("find_regions", errEmptyMask)
	}
	return findRegions(mask), nil
}

func (n *NativeImaging) FindCircles(mask entity.Mask, minRadius, maxRadius int) ([]entity.Circle, error) {
	if mask.Gray == nil {
		return nil, entity.NewImagingError("find_circles", errEmptyMask)
	}
	if minRadius <= 0 || maxRadius < minRadius {
		return nil, entity.NewImagingError("find_circles", errors.New("bad radius range"))
	}
	return findCircles(mask, minRadius, maxRadius), nil
}

// EdgeMap серый -> размытие -> модуль градиента Собеля -> порог с гистерезисом
// (слабые границы остаются, только если касаются сильных). Учитываются перепады
// обеих полярностей: тёмный объект на светлом фоне даёт замкнутый контур.
// Рамка шириной edgeBorder обнуляется.
func (n *NativeImaging) EdgeMap(img image.Image, low, high uint8) (entity.Mask, error) {
	if img == nil || img.Bounds().Empty() {
		return entity.Mask{}, entity.NewImagingError("edge_map", errors.New("empty image"))
	}
	if low > high {
		return entity.Mask{}, entity.NewImagingError("edge_map", errors.New("low threshold above high"))
	}

	gray := effect.Grayscale(img)
	blurred := blur.Gaussian(gray, n.EdgeBlurRadius)
	magnitude, w, h := gradientMagnitude(blurred)
	strong, weak := float64(high), float64(low)

	out := entity.NewMask(image.Rect(0, 0, w, h))
	var stack []image.Point
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if magnitude[y*w+x] >= strong && !out.IsSet(x, y) {
				out.Mark(x, y)
				stack = append(stack, image.Pt(x, y))
			}
			for len(stack) > 0 {
				p := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				for _, d := range neighbours8 {
					q := p.Add(d)
					if !q.In(out.Rect) || out.IsSet(q.X, q.Y) {
						continue
					}
					if magnitude[q.Y*w+q.X] >= weak {
						out.Mark(q.X, q.Y)
						stack = append(stack, q)
					}
				}
			}
		}
	}
	clearBorder(out, edgeBorder)
	return out, nil
}

var (
	sobelX = &convolution.Kernel{Matrix: []float64{-1, 0, 1, -2, 0, 2, -1, 0, 1}, Width: 3, Height: 3}
	sobelY = &convolution.Kernel{Matrix: []float64{-1, -2, -1, 0, 0, 0, 1, 2, 1}, Width: 3, Height: 3}
)

// gradientMagnitude модуль градиента Собеля по каждому пикселю, построчно.
// Свёртка bild обрезает результат до [0, 255], поэтому отрицательная часть
// каждой оси берётся свёрткой негатива.
func gradientMagnitude(img image.Image) ([]float64, int, int) {
	inverted := effect.Invert(img)
	opts := &convolution.Options{KeepAlpha: true}
	gxPos := convolution.Convolve(img, sobelX, opts)
	gxNeg := convolution.Convolve(inverted, sobelX, opts)
	gyPos := convolution.Convolve(img, sobelY, opts)
	gyNeg := convolution.Convolve(inverted, sobelY, opts)

	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	out := make([]float64, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*gxPos.Stride + x*4
			gx := float64(gxPos.Pix[i]) - float64(gxNeg.Pix[i])
			gy := float64(gyPos.Pix[i]) - float64(gyNeg.Pix[i])
			out[y*w+x] = math.Hypot(gx, gy)
		}
	}
	return out, w, h
}

func clearBorder(m entity.Mask, width int) {
	r := m.Rect
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if x-r.Min.X < width || r.Max.X-1-x < width || y-r.Min.Y < width || r.Max.Y-1-y < width {
				m.Pix[m.PixOffset(x, y)] = 0
			}
		}
	}
}

func checkMorph(mask entity.Mask, kernelSize int) error {
	if mask.Gray == nil {
		return errEmptyMask
	}
	if kernelSize <= 0 {
		return errors.New("kernel size must be positive")
	}
	return nil
}
