package entity

import (
	"image"
	"math"
)

// ContourArea площадь замкнутого многоугольника по формуле шнурования.
func ContourArea(points []image.Point) float64 {
	if len(points) < 3 {
		return 0
	}
	var sum float64
	for i, p := range points {
		q := points[(i+1)%len(points)]
		sum += float64(p.X*q.Y - q.X*p.Y)
	}
	return math.Abs(sum) / 2
}

// ArcLength длина ломаной; closed замыкает последнюю точку на первую.
func ArcLength(points []image.Point, closed bool) float64 {
	if len(points) < 2 {
		return 0
	}
	var length float64
	for i := 1; i < len(points); i++ {
		length += math.Hypot(float64(points[i].X-points[i-1].X), float64(points[i].Y-points[i-1].Y))
	}
	if closed {
		last, first := points[len(points)-1], points[0]
		length += math.Hypot(float64(first.X-last.X), float64(first.Y-last.Y))
	}
	return length
}
