package entity

import (
	"image"
	"math"
)

// Point точка в пикселях кадра
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Box прямоугольная область в пикселях: левый верхний угол и размеры
type Box struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// BoxFromRect переводит image.Rectangle в Box.
func BoxFromRect(r image.Rectangle) Box {
	r = r.Canon()
	return Box{X: r.Min.X, Y: r.Min.Y, Width: r.Dx(), Height: r.Dy()}
}

// Rect возвращает область как image.Rectangle (правая и нижняя границы не включаются).
func (b Box) Rect() image.Rectangle {
	return image.Rect(b.X, b.Y, b.X+b.Width, b.Y+b.Height)
}

// Area площадь области
func (b Box) Area() int {
	if b.Empty() {
		return 0
	}
	return b.Width * b.Height
}

// Empty сообщает, что у области нулевая площадь
func (b Box) Empty() bool {
	return b.Width <= 0 || b.Height <= 0
}

// Center возвращает центр области
func (b Box) Center() Point {
	return Point{X: b.X + b.Width/2, Y: b.Y + b.Height/2}
}

// Expand расширяет область на margin пикселей с каждой стороны.
func (b Box) Expand(margin int) Box {
	return Box{
		X:      b.X - margin,
		Y:      b.Y - margin,
		Width:  b.Width + 2*margin,
		Height: b.Height + 2*margin,
	}
}

// Clamp обрезает область по границам кадра. Результат может быть пустым, но не вывернутым.
func (b Box) Clamp(bounds image.Rectangle) Box {
	r := b.Rect().Intersect(bounds)
	if r.Empty() {
		return Box{X: clampInt(b.X, bounds.Min.X, bounds.Max.X), Y: clampInt(b.Y, bounds.Min.Y, bounds.Max.Y)}
	}
	return BoxFromRect(r)
}

// Contains сообщает, что other целиком лежит внутри b.
func (b Box) Contains(other Box) bool {
	return other.X >= b.X && other.Y >= b.Y &&
		other.X+other.Width <= b.X+b.Width &&
		other.Y+other.Height <= b.Y+b.Height
}

// Within сообщает, что область целиком лежит в границах кадра.
func (b Box) Within(bounds image.Rectangle) bool {
	return BoxFromRect(bounds).Contains(b)
}

// NormalizeDegrees приводит угол к диапазону (-180, 180].
func NormalizeDegrees(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg <= -180 {
		deg += 360
	}
	if deg > 180 {
		deg -= 360
	}
	return deg
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
