package perception

import (
	"errors"
	"image"
	"sync"

	"beach-vision/internal/domain/entity"
)

// fakeImaging честно считает InRange, остальное отдаёт заготовки.
type fakeImaging struct {
	mu          sync.Mutex
	kernels     []int
	regionsFn   func(mask entity.Mask) ([]entity.Region, error)
	circlesFn   func(mask entity.Mask, minR, maxR int) ([]entity.Circle, error)
	edges       entity.Mask
	edgeErr     error
	toHSVErr    error
	morphCalled int
}

func (f *fakeImaging) ToHSV(img image.Image) (*entity.HSVImage, error) {
	if f.toHSVErr != nil {
		return nil, f.toHSVErr
	}
	b := img.Bounds()
	return entity.NewHSVImage(image.Rect(0, 0, b.Dx(), b.Dy())), nil
}

func (f *fakeImaging) InRange(hsv *entity.HSVImage, lower, upper entity.HSV) (entity.Mask, error) {
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

func (f *fakeImaging) Erode(mask entity.Mask, kernelSize, iterations int) (entity.Mask, error) {
	f.record(kernelSize)
	return mask, nil
}

func (f *fakeImaging) Dilate(mask entity.Mask, kernelSize, iterations int) (entity.Mask, error) {
	f.record(kernelSize)
	return mask, nil
}

func (f *fakeImaging) FindRegions(mask entity.Mask) ([]entity.Region, error) {
	if f.regionsFn == nil {
		return nil, nil
	}
	return f.regionsFn(mask)
}

func (f *fakeImaging) FindCircles(mask entity.Mask, minRadius, maxRadius int) ([]entity.Circle, error) {
	if f.circlesFn == nil {
		return nil, nil
	}
	return f.circlesFn(mask, minRadius, maxRadius)
}

func (f *fakeImaging) EdgeMap(img image.Image, low, high uint8) (entity.Mask, error) {
	if f.edgeErr != nil {
		return entity.Mask{}, f.edgeErr
	}
	if f.edges.Gray != nil {
		return f.edges, nil
	}
	b := img.Bounds()
	return entity.NewMask(image.Rect(0, 0, b.Dx(), b.Dy())), nil
}

func (f *fakeImaging) record(kernel int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.kernels = append(f.kernels, kernel)
	f.morphCalled++
}

var (
	hsvBlack  = entity.HSV{H: 0, S: 0, V: 20}
	hsvYellow = entity.HSV{H: 28, S: 200, V: 200}
	hsvBlue   = entity.HSV{H: 115, S: 200, V: 200}
	hsvRedLo  = entity.HSV{H: 5, S: 200, V: 200}
	hsvRedHi  = entity.HSV{H: 175, S: 200, V: 200}
	hsvGreen  = entity.HSV{H: 60, S: 200, V: 200}
	hsvSand   = entity.HSV{H: 0, S: 0, V: 200}
)

func newHSV(w, h int) *entity.HSVImage {
	img := entity.NewHSVImage(image.Rect(0, 0, w, h))
	fillHSV(img, img.Rect, hsvSand)
	return img
}

func fillHSV(img *entity.HSVImage, r image.Rectangle, c entity.HSV) {
	r = r.Intersect(img.Rect)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			img.SetHSV(x, y, c)
		}
	}
}

// sceneFor строит сцену по HSV-кадру через настоящий Segmenter.
func sceneFor(img *entity.HSVImage, seg *Segmenter) *Scene {
	masks, err := seg.MaskForAll(img)
	if err != nil {
		panic(err)
	}
	frame := entity.Frame{Seq: 1, Image: image.NewRGBA(img.Rect), HSV: img}
	return NewScene(frame, masks)
}

func newTestSegmenter(f *fakeImaging, cfg Config) *Segmenter {
	seg, err := NewSegmenter(f, cfg)
	if err != nil {
		panic(err)
	}
	return seg
}

var errTest = errors.New("backend rejected input")
