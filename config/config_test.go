package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"FRAME_INTERVAL", "IMAGING_BACKEND", "HTTP_ADDR", "MAX_FRAME_SIDE", "LOG_LEVEL"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 200*time.Millisecond, cfg.FrameInterval)
	require.Equal(t, "native", cfg.ImagingBackend)
	require.Equal(t, ":8080", cfg.HTTPAddr)
	require.Equal(t, 1280, cfg.MaxFrameSide)
	require.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "123:abc")
	t.Setenv("FRAME_SOURCE", "camera:0")
	t.Setenv("FRAME_INTERVAL", "1s")
	t.Setenv("IMAGING_BACKEND", "gocv")
	t.Setenv("MAX_FRAME_SIDE", "640")
	t.Setenv("JOURNAL_PATH", "/tmp/journal.db")
	t.Setenv("ZMQ_ENDPOINT", "tcp://*:5556")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "123:abc", cfg.TelegramToken)
	require.Equal(t, "camera:0", cfg.FrameSource)
	require.Equal(t, time.Second, cfg.FrameInterval)
	require.Equal(t, "gocv", cfg.ImagingBackend)
	require.Equal(t, 640, cfg.MaxFrameSide)
	require.Equal(t, "/tmp/journal.db", cfg.JournalPath)
	require.Equal(t, "tcp://*:5556", cfg.ZMQEndpoint)
}

func TestLoad_BadNumbersFallBack(t *testing.T) {
	t.Setenv("FRAME_INTERVAL", "soon")
	t.Setenv("MAX_FRAME_SIDE", "big")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 200*time.Millisecond, cfg.FrameInterval)
	require.Equal(t, 1280, cfg.MaxFrameSide)
}
