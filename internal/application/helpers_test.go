package app

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/require"

	"beach-vision/internal/domain/perception"
	"beach-vision/internal/infrastructure/vision"
)

var (
	sand = color.NRGBA{R: 230, G: 210, B: 160, A: 255}
	sea  = color.NRGBA{R: 30, G: 60, B: 200, A: 255}
)

// beach песок, верхние seaRows строк заняты морем
func beach(w, h, seaRows int) *image.NRGBA {
	img := imaging.New(w, h, sand)
	for y := 0; y < seaRows; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, sea)
		}
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, imaging.Encode(&buf, img, imaging.PNG))
	return buf.Bytes()
}

func newPipeline(t *testing.T, opts ...perception.Option) *perception.Pipeline {
	t.Helper()
	p, err := perception.NewPipeline(vision.NewNativeImaging(), perception.DefaultConfig(), opts...)
	require.NoError(t, err)
	return p
}
