package perception

import "beach-vision/internal/domain/entity"

// Scene кадр вместе с цветовыми масками, посчитанными один раз за цикл.
// После создания только читается, поэтому детекторы работают с ней параллельно.
type Scene struct {
	Frame entity.Frame
	masks map[string]entity.Mask
}

func NewScene(frame entity.Frame, masks map[string]entity.Mask) *Scene {
	return &Scene{Frame: frame, masks: masks}
}

// Mask маска цвета name; ConfigurationError, если такой цвет не настроен.
func (s *Scene) Mask(name string) (entity.Mask, error) {
	mask, ok := s.masks[name]
	if !ok {
		return entity.Mask{}, &entity.ConfigurationError{Key: "colors." + name}
	}
	return mask, nil
}
