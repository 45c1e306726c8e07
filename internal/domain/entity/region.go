package entity

import "image"

// Region связная область переднего плана маски.
type Region struct {
	// Area площадь в пикселях (у бэкенда OpenCV: площадь контура)
	Area int
	// ContourArea площадь многоугольника внешнего контура
	ContourArea float64
	// Perimeter длина внешнего контура
	Perimeter float64
	Box       Box
	// CentroidX, CentroidY центр масс области
	CentroidX float64
	CentroidY float64
	Contour   []image.Point
}

// Centroid центр масс, округлённый до пикселя
func (r Region) Centroid() Point {
	return Point{X: int(r.CentroidX + 0.5), Y: int(r.CentroidY + 0.5)}
}

// Circle окружность, найденная поиском Хафа.
type Circle struct {
	Center Point
	Radius int
	// Score доля окружности, подтверждённая граничными пикселями, 0..1
	Score float64
}
