//go:build gocv
// +build gocv

package camera

import (
	"context"
	"fmt"
	"sync"
	"time"

	"gocv.io/x/gocv"

	"beach-vision/internal/domain/entity"
	"beach-vision/internal/domain/port"
)

// Capture живая камера через OpenCV VideoCapture.
type Capture struct {
	device *gocv.VideoCapture
	frame  gocv.Mat
	mu     sync.Mutex
}

var _ port.FrameSource = (*Capture)(nil)

// NewCapture открывает устройство по номеру.
func NewCapture(deviceID int, width, height int) (*Capture, error) {
	device, err := gocv.OpenVideoCapture(deviceID)
	if err != nil {
		return nil, fmt.Errorf("open camera %d: %w", deviceID, err)
	}
	if width > 0 && height > 0 {
		device.Set(gocv.VideoCaptureFrameWidth, float64(width))
		device.Set(gocv.VideoCaptureFrameHeight, float64(height))
	}
	return &Capture{device: device, frame: gocv.NewMat()}, nil
}

func (c *Capture) Next(ctx context.Context) (entity.Capture, error) {
	if err := ctx.Err(); err != nil {
		return entity.Capture{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if ok := c.device.Read(&c.frame); !ok {
		return entity.Capture{}, entity.ErrNoFrame
	}
	if c.frame.Empty() {
		return entity.Capture{}, entity.NewImagingError("capture", fmt.Errorf("empty frame"))
	}
	ts := time.Now()

	img, err := c.frame.ToImage()
	if err != nil {
		return entity.Capture{}, entity.NewImagingError("capture", err)
	}
	return entity.Capture{Image: img, Timestamp: ts}, nil
}

func (c *Capture) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.frame.Close()
	return c.device.Close()
}
