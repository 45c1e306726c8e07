package perception

import (
	"math"

	"beach-vision/internal/domain/entity"
)

// Circularity 4π·S/P², не больше 1. Для вырожденного периметра: 0.
func Circularity(area, perimeter float64) float64 {
	if perimeter <= 0 || area <= 0 {
		return 0
	}
	return math.Min(4*math.Pi*area/(perimeter*perimeter), 1)
}

// AspectRatio отношение высоты к ширине
func AspectRatio(b entity.Box) float64 {
	if b.Width <= 0 {
		return 0
	}
	return float64(b.Height) / float64(b.Width)
}

// PinholeDistance оценка дальности по модели камеры-обскуры: размер·фокус/размер в пикселях.
func PinholeDistance(sizeCm, focalPx, sizePx float64) float64 {
	if sizePx <= 0 {
		return 0
	}
	return sizeCm * focalPx / sizePx
}

// bearing угол от курса камеры до столбца x, положительный: вправо.
func bearing(x float64, width int, focalPx float64) float64 {
	return math.Atan2(x-float64(width)/2, focalPx) * 180 / math.Pi
}
