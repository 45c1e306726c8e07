package perception

import (
	"image"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"beach-vision/internal/domain/entity"
)

func TestCircularity(t *testing.T) {
	var circle []image.Point
	for i := 0; i < 360; i++ {
		a := float64(i) * math.Pi / 180
		circle = append(circle, image.Pt(int(math.Round(1000*math.Cos(a))), int(math.Round(1000*math.Sin(a)))))
	}
	c := Circularity(entity.ContourArea(circle), entity.ArcLength(circle, true))
	require.InDelta(t, 1.0, c, 0.01)
	require.LessOrEqual(t, c, 1.0)

	square := []image.Point{{0, 0}, {100, 0}, {100, 100}, {0, 100}}
	require.InDelta(t, math.Pi/4, Circularity(entity.ContourArea(square), entity.ArcLength(square, true)), 1e-9)

	require.Zero(t, Circularity(10, 0))
	require.Equal(t, 1.0, Circularity(1000, 10))
}

func TestAspectRatio(t *testing.T) {
	require.Equal(t, 2.0, AspectRatio(entity.Box{Width: 10, Height: 20}))
	require.Zero(t, AspectRatio(entity.Box{Height: 20}))
}

func TestPinholeDistance(t *testing.T) {
	// контейнер 75 см в 150 пикселях при фокусе 600: три метра
	require.InDelta(t, 300.0, PinholeDistance(75, 600, 150), 1e-9)
	require.Zero(t, PinholeDistance(75, 600, 0))
}

func TestBearing(t *testing.T) {
	require.InDelta(t, 0.0, bearing(320, 640, 600), 1e-9)
	require.InDelta(t, 45.0, bearing(920, 640, 600), 1e-9)
	require.Less(t, bearing(100, 640, 600), 0.0)
}
