//go:build !gocv
// +build !gocv

package vision

import (
	"errors"

	"beach-vision/internal/domain/port"
)

// NewGoCVImaging возвращает ошибку, если сборка без тега gocv.
func NewGoCVImaging() (port.Imaging, error) {
	return nil, errors.New("gocv build tag is not enabled")
}
