package vision

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"beach-vision/internal/domain/entity"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, newCanvas(w, h)))
	return buf.Bytes()
}

func TestDecoder_Decode(t *testing.T) {
	d := NewDecoder(640, 0)

	img, err := d.Decode(encodePNG(t, 320, 240))
	require.NoError(t, err)
	require.Equal(t, 320, img.Bounds().Dx())

	img, err = d.Decode(encodePNG(t, 1280, 960))
	require.NoError(t, err)
	require.Equal(t, 640, img.Bounds().Dx())
	require.Equal(t, 480, img.Bounds().Dy())
}

func TestDecoder_Decode_Median(t *testing.T) {
	img, err := NewDecoder(0, 1).Decode(encodePNG(t, 64, 48))
	require.NoError(t, err)
	require.Equal(t, 64, img.Bounds().Dx())
}

func TestDecoder_Decode_Invalid(t *testing.T) {
	d := NewDecoder(640, 0)
	var imgErr *entity.ImagingOperationError

	_, err := d.Decode(nil)
	require.ErrorAs(t, err, &imgErr)

	_, err = d.Decode([]byte("not an image"))
	require.ErrorAs(t, err, &imgErr)
	require.Equal(t, "decode", imgErr.Op)
}

func TestDecoder_Open(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frame.png")
	require.NoError(t, os.WriteFile(path, encodePNG(t, 100, 50), 0o644))

	img, err := NewDecoder(40, 0).Open(path)
	require.NoError(t, err)
	require.Equal(t, 40, img.Bounds().Dx())
	require.Equal(t, 20, img.Bounds().Dy())

	_, err = NewDecoder(40, 0).Open(filepath.Join(t.TempDir(), "missing.png"))
	require.Error(t, err)
}
