package entity

import (
	"errors"
	"fmt"
)

// ErrNoFrame источник кадров исчерпан
var ErrNoFrame = errors.New("no more frames")

// ConfigurationError отсутствует или испорчен обязательный ключ конфигурации.
type ConfigurationError struct {
	Key    string
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("configuration: missing key %q", e.Key)
	}
	return fmt.Sprintf("configuration: key %q: %s", e.Key, e.Reason)
}

// InvalidRegionError область кандидата вырождается после обрезки по кадру.
type InvalidRegionError struct {
	ID     int
	Box    Box
	Reason string
}

func (e *InvalidRegionError) Error() string {
	return fmt.Sprintf("invalid region for candidate %d %+v: %s", e.ID, e.Box, e.Reason)
}

// ImagingOperationError библиотека обработки изображений отвергла входные данные.
type ImagingOperationError struct {
	Op  string
	Err error
}

func (e *ImagingOperationError) Error() string {
	return fmt.Sprintf("imaging %s: %v", e.Op, e.Err)
}

func (e *ImagingOperationError) Unwrap() error { return e.Err }

// NewImagingError оборачивает ошибку бэкенда.
func NewImagingError(op string, err error) error {
	return &ImagingOperationError{Op: op, Err: err}
}
