package vision

import (
	"bytes"
	"errors"
	"image"

	"github.com/anthonynsimon/bild/effect"
	"github.com/disintegration/imaging"

	"beach-vision/internal/domain/entity"
	"beach-vision/internal/domain/port"
)

// Decoder разбирает снимки: учитывает EXIF-ориентацию, уменьшает до MaxSide
// и при необходимости подавляет шум медианным фильтром.
type Decoder struct {
	MaxSide      int
	MedianRadius float64
}

var _ port.FrameDecoder = (*Decoder)(nil)

func NewDecoder(maxSide int, medianRadius float64) *Decoder {
	return &Decoder{MaxSide: maxSide, MedianRadius: medianRadius}
}

// Decode байты JPEG/PNG -> подготовленный кадр.
func (d *Decoder) Decode(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, entity.NewImagingError("decode", errors.New("empty input"))
	}
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, entity.NewImagingError("decode", err)
	}
	return d.prepare(img), nil
}

// Open читает снимок с диска.
func (d *Decoder) Open(path string) (image.Image, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, entity.NewImagingError("open", err)
	}
	return d.prepare(img), nil
}

func (d *Decoder) prepare(img image.Image) image.Image {
	b := img.Bounds()
	if d.MaxSide > 0 && (b.Dx() > d.MaxSide || b.Dy() > d.MaxSide) {
		img = imaging.Fit(img, d.MaxSide, d.MaxSide, imaging.Lanczos)
	}
	if d.MedianRadius > 0 {
		img = effect.Median(img, d.MedianRadius)
	}
	return img
}
