package vision

import (
	"fmt"

	"beach-vision/internal/domain/port"
)

// Имена бэкендов обработки изображений
const (
	BackendNative = "native"
	BackendGoCV   = "gocv"
)

// NewImaging выбирает бэкенд по имени; пустое имя: native.
func NewImaging(backend string) (port.Imaging, error) {
	switch backend {
	case "", BackendNative:
		return NewNativeImaging(), nil
	case BackendGoCV:
		return NewGoCVImaging()
	default:
		return nil, fmt.Errorf("unknown imaging backend %q", backend)
	}
}
