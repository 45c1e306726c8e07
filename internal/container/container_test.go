package container

import (
	"image/color"
	"path/filepath"
	"testing"
	"time"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/require"

	"beach-vision/config"
	"beach-vision/internal/logger"
)

func TestNew_InspectionOnly(t *testing.T) {
	c, err := New(&config.Config{ImagingBackend: "native", MaxFrameSide: 640}, logger.Discard())
	require.NoError(t, err)
	defer c.Close()

	require.NotNil(t, c.OperatorService)
	require.NotNil(t, c.InspectionService)
	require.NotNil(t, c.Server)
	require.Nil(t, c.PerceptionService)
	require.Nil(t, c.Latest())
}

func TestNew_LiveWithJournal(t *testing.T) {
	frames := t.TempDir()
	img := imaging.New(64, 48, color.NRGBA{R: 230, G: 210, B: 160, A: 255})
	require.NoError(t, imaging.Save(img, filepath.Join(frames, "0001.png")))

	c, err := New(&config.Config{
		ImagingBackend: "native",
		FrameSource:    frames,
		FrameInterval:  time.Millisecond,
		JournalPath:    filepath.Join(t.TempDir(), "journal.db"),
	}, logger.Discard())
	require.NoError(t, err)
	defer c.Close()

	require.NotNil(t, c.PerceptionService)
	require.Len(t, c.closers, 2)
}

func TestNew_Errors(t *testing.T) {
	_, err := New(&config.Config{ImagingBackend: "opencl"}, logger.Discard())
	require.Error(t, err)

	_, err = New(&config.Config{ImagingBackend: "native", PerceptionConfig: filepath.Join(t.TempDir(), "missing.yaml")}, logger.Discard())
	require.Error(t, err)

	_, err = New(&config.Config{ImagingBackend: "native", FrameSource: t.TempDir()}, logger.Discard())
	require.Error(t, err)
}
