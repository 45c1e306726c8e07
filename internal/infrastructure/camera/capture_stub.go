//go:build !gocv
// +build !gocv

package camera

import (
	"context"
	"errors"

	"beach-vision/internal/domain/entity"
)

var errNoGoCV = errors.New("camera capture requires the gocv build tag")

// Capture без тега gocv недоступна.
type Capture struct{}

func NewCapture(deviceID int, width, height int) (*Capture, error) {
	return nil, errNoGoCV
}

func (c *Capture) Next(ctx context.Context) (entity.Capture, error) {
	return entity.Capture{}, errNoGoCV
}

func (c *Capture) Close() error { return nil }
