package port

import (
	"image"

	"beach-vision/internal/domain/entity"
)

// Imaging узкий набор операций библиотеки обработки изображений, которые нужны восприятию.
// Реализации не хранят состояние между вызовами и безопасны для параллельного чтения.
type Imaging interface {
	// ToHSV переводит цветной кадр в HSV (шкала OpenCV); результат начинается в (0, 0)
	ToHSV(img image.Image) (*entity.HSVImage, error)

	// InRange строит маску пикселей, попадающих в диапазон включительно
	InRange(hsv *entity.HSVImage, lower, upper entity.HSV) (entity.Mask, error)

	// Erode выполняет эрозию квадратным ядром kernelSize×kernelSize
	Erode(mask entity.Mask, kernelSize, iterations int) (entity.Mask, error)

	// Dilate выполняет дилатацию квадратным ядром kernelSize×kernelSize
	Dilate(mask entity.Mask, kernelSize, iterations int) (entity.Mask, error)

	// FindRegions возвращает внешние связные области в порядке обхода строк
	FindRegions(mask entity.Mask) ([]entity.Region, error)

	// FindCircles ищет окружности на маске с радиусом в [minRadius, maxRadius]
	FindCircles(mask entity.Mask, minRadius, maxRadius int) ([]entity.Circle, error)

	// EdgeMap строит карту границ цветного кадра; результат начинается в (0, 0)
	EdgeMap(img image.Image, low, high uint8) (entity.Mask, error)
}
