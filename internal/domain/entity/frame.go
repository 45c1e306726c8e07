package entity

import (
	"image"
	"time"
)

// HSV цвет в 8-битной шкале OpenCV: H 0–180, S и V 0–255.
type HSV struct {
	H uint8 `json:"h" yaml:"h"`
	S uint8 `json:"s" yaml:"s"`
	V uint8 `json:"v" yaml:"v"`
}

// InRange сообщает, что цвет лежит в диапазоне [lower, upper] по всем трём каналам.
func (c HSV) InRange(lower, upper HSV) bool {
	return c.H >= lower.H && c.H <= upper.H &&
		c.S >= lower.S && c.S <= upper.S &&
		c.V >= lower.V && c.V <= upper.V
}

// HSVImage кадр в пространстве HSV, три байта на пиксель.
type HSVImage struct {
	Pix    []uint8
	Stride int
	Rect   image.Rectangle
}

// NewHSVImage создаёт пустой HSV-кадр.
func NewHSVImage(r image.Rectangle) *HSVImage {
	return &HSVImage{
		Pix:    make([]uint8, 3*r.Dx()*r.Dy()),
		Stride: 3 * r.Dx(),
		Rect:   r,
	}
}

func (m *HSVImage) Bounds() image.Rectangle { return m.Rect }

// PixOffset индекс первого байта пикселя (x, y) в Pix.
func (m *HSVImage) PixOffset(x, y int) int {
	return (y-m.Rect.Min.Y)*m.Stride + (x-m.Rect.Min.X)*3
}

// HSVAt возвращает цвет пикселя; за границами кадра: нулевой цвет.
func (m *HSVImage) HSVAt(x, y int) HSV {
	if !(image.Point{X: x, Y: y}.In(m.Rect)) {
		return HSV{}
	}
	i := m.PixOffset(x, y)
	return HSV{H: m.Pix[i], S: m.Pix[i+1], V: m.Pix[i+2]}
}

// SetHSV записывает цвет пикселя.
func (m *HSVImage) SetHSV(x, y int, c HSV) {
	if !(image.Point{X: x, Y: y}.In(m.Rect)) {
		return
	}
	i := m.PixOffset(x, y)
	m.Pix[i], m.Pix[i+1], m.Pix[i+2] = c.H, c.S, c.V
}

// SubImage возвращает окно кадра без копирования пикселей.
func (m *HSVImage) SubImage(r image.Rectangle) *HSVImage {
	r = r.Intersect(m.Rect)
	if r.Empty() {
		return &HSVImage{}
	}
	i := m.PixOffset(r.Min.X, r.Min.Y)
	return &HSVImage{Pix: m.Pix[i:], Stride: m.Stride, Rect: r}
}

// Mask бинарная маска: 255: передний план, 0: фон.
type Mask struct {
	*image.Gray
}

// NewMask создаёт пустую маску.
func NewMask(r image.Rectangle) Mask {
	return Mask{Gray: image.NewGray(r)}
}

// IsSet сообщает, что пиксель принадлежит переднему плану.
func (m Mask) IsSet(x, y int) bool {
	if m.Gray == nil || !(image.Point{X: x, Y: y}.In(m.Rect)) {
		return false
	}
	return m.Pix[m.PixOffset(x, y)] != 0
}

// Mark отмечает пиксель как передний план.
func (m Mask) Mark(x, y int) {
	if m.Gray == nil || !(image.Point{X: x, Y: y}.In(m.Rect)) {
		return
	}
	m.Pix[m.PixOffset(x, y)] = 255
}

// Size количество пикселей маски.
func (m Mask) Size() int {
	if m.Gray == nil {
		return 0
	}
	return m.Rect.Dx() * m.Rect.Dy()
}

// Count количество пикселей переднего плана.
func (m Mask) Count() int {
	if m.Gray == nil {
		return 0
	}
	n := 0
	for y := m.Rect.Min.Y; y < m.Rect.Max.Y; y++ {
		row := m.Pix[m.PixOffset(m.Rect.Min.X, y):m.PixOffset(m.Rect.Max.X-1, y)+1]
		for _, v := range row {
			if v != 0 {
				n++
			}
		}
	}
	return n
}

// Sub возвращает окно маски без копирования.
func (m Mask) Sub(r image.Rectangle) Mask {
	if m.Gray == nil {
		return Mask{}
	}
	r = r.Intersect(m.Rect)
	if r.Empty() {
		return Mask{Gray: &image.Gray{}}
	}
	return Mask{Gray: m.Gray.SubImage(r).(*image.Gray)}
}

// Or возвращает попиксельное объединение двух масок одинакового размера.
func (m Mask) Or(other Mask) Mask {
	out := NewMask(m.Rect)
	for y := m.Rect.Min.Y; y < m.Rect.Max.Y; y++ {
		for x := m.Rect.Min.X; x < m.Rect.Max.X; x++ {
			if m.IsSet(x, y) || other.IsSet(x, y) {
				out.Pix[out.PixOffset(x, y)] = 255
			}
		}
	}
	return out
}

// Clone возвращает независимую копию маски.
func (m Mask) Clone() Mask {
	out := NewMask(m.Rect)
	for y := m.Rect.Min.Y; y < m.Rect.Max.Y; y++ {
		copy(out.Pix[out.PixOffset(m.Rect.Min.X, y):], m.Pix[m.PixOffset(m.Rect.Min.X, y):m.PixOffset(m.Rect.Min.X, y)+m.Rect.Dx()])
	}
	return out
}

// Capture кадр в исходном виде, как его отдал источник.
type Capture struct {
	Image     image.Image
	Timestamp time.Time
}

// Frame кадр одного цикла восприятия: исходный цвет и HSV с одинаковыми размерами.
// Кадр неизменяем и живёт ровно один цикл.
type Frame struct {
	Seq       uint64
	Image     image.Image
	HSV       *HSVImage
	Timestamp time.Time
}

// Bounds границы кадра
func (f Frame) Bounds() image.Rectangle {
	return f.HSV.Rect
}

// Width ширина кадра
func (f Frame) Width() int { return f.HSV.Rect.Dx() }

// Height высота кадра
func (f Frame) Height() int { return f.HSV.Rect.Dy() }
