package port

import (
	"context"
	"image"

	"beach-vision/internal/domain/entity"
)

// FrameSource источник кадров с камеры или из записи
type FrameSource interface {
	// Next блокируется до следующего кадра; entity.ErrNoFrame: кадры кончились
	Next(ctx context.Context) (entity.Capture, error)

	Close() error
}

// FrameDecoder превращает байты снимка в изображение рабочего размера
type FrameDecoder interface {
	Decode(data []byte) (image.Image, error)
}
