package entity

import (
	"image"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBoxCenter(t *testing.T) {
	b := Box{X: 10, Y: 20, Width: 8, Height: 6}
	require.Equal(t, Point{X: 14, Y: 23}, b.Center())
	require.Equal(t, 48, b.Area())
}

func TestBoxExpandAndClamp(t *testing.T) {
	frame := image.Rect(0, 0, 640, 480)

	b := Box{X: 20, Y: 400, Width: 100, Height: 70}
	zone := b.Expand(50).Clamp(frame)

	require.Equal(t, Box{X: 0, Y: 350, Width: 170, Height: 130}, zone)
	require.True(t, zone.Contains(b))
	require.True(t, zone.Within(frame))
}

func TestBoxClampOutsideIsEmptyNotInverted(t *testing.T) {
	frame := image.Rect(0, 0, 100, 100)

	zone := Box{X: 150, Y: -40, Width: 10, Height: 10}.Clamp(frame)
	require.True(t, zone.Empty())
	require.GreaterOrEqual(t, zone.Width, 0)
	require.GreaterOrEqual(t, zone.Height, 0)
}

func TestNormalizeDegrees(t *testing.T) {
	require.InDelta(t, 180.0, NormalizeDegrees(-180), 1e-9)
	require.InDelta(t, -90.0, NormalizeDegrees(270), 1e-9)
	require.InDelta(t, 10.0, NormalizeDegrees(370), 1e-9)
	require.InDelta(t, 0.0, NormalizeDegrees(0), 1e-9)
}
