package camera

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"beach-vision/internal/domain/port"
)

const devicePrefix = "camera:"

// Open выбирает источник по FRAME_SOURCE: "camera:N": устройство N, иначе каталог с записью.
func Open(source string, opener ImageOpener, interval time.Duration) (port.FrameSource, error) {
	if rest, ok := strings.CutPrefix(source, devicePrefix); ok {
		id, err := strconv.Atoi(rest)
		if err != nil {
			return nil, fmt.Errorf("bad camera id %q: %w", rest, err)
		}
		capture, err := NewCapture(id, 0, 0)
		if err != nil {
			return nil, err
		}
		return capture, nil
	}
	return NewDirSource(source, opener, interval, true)
}
