package perception

import (
	"image"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"beach-vision/internal/domain/entity"
)

func drawRing(img *entity.HSVImage, center entity.Point, radius, thickness int, c entity.HSV) {
	for y := center.Y - radius; y <= center.Y+radius; y++ {
		for x := center.X - radius; x <= center.X+radius; x++ {
			d := math.Hypot(float64(x-center.X), float64(y-center.Y))
			if d <= float64(radius)+0.5 && d >= float64(radius-thickness)+0.5 {
				img.SetHSV(x, y, c)
			}
		}
	}
}

func TestRimCoverage(t *testing.T) {
	mask := entity.NewMask(image.Rect(0, 0, 200, 200))
	c := entity.Circle{Center: entity.Point{X: 100, Y: 100}, Radius: 50}
	require.Zero(t, RimCoverage(mask, c, 5))

	for y := 0; y < 200; y++ {
		for x := 0; x < 200; x++ {
			if math.Hypot(float64(x-100), float64(y-100)) <= 50.5 {
				mask.Mark(x, y)
			}
		}
	}
	require.InDelta(t, 1.0, RimCoverage(mask, c, 5), 1e-9)

	// правая половина кольца вне маски
	half := mask.Sub(image.Rect(0, 0, 100, 200))
	require.InDelta(t, 1.0, RimCoverage(half, c, 5), 1e-9)
	require.Zero(t, RimCoverage(entity.Mask{}, c, 5))
}

func TestContainerDetector_Detect(t *testing.T) {
	cfg := DefaultConfig()
	img := newHSV(640, 480)
	red := entity.Point{X: 200, Y: 240}
	green := entity.Point{X: 480, Y: 240}
	drawRing(img, red, 75, 10, hsvRedLo)
	drawRing(img, green, 60, 10, hsvGreen)

	f := &fakeImaging{circlesFn: func(m entity.Mask, minR, maxR int) ([]entity.Circle, error) {
		return []entity.Circle{
			{Center: red, Radius: 75},
			{Center: green, Radius: 60},
			{Center: entity.Point{X: 320, Y: 100}, Radius: 40},
		}, nil
	}}
	seg := newTestSegmenter(f, cfg)

	containers, err := NewContainerDetector(seg, cfg).Detect(sceneFor(img, seg))
	require.NoError(t, err)
	require.Len(t, containers, 2)

	r := containers[0]
	require.Equal(t, entity.ContainerRed, r.Color)
	require.Equal(t, red, r.Center)
	require.Equal(t, 75, r.Radius)
	require.InDelta(t, 300.0, r.DistanceEstimate, 1e-9)
	require.Less(t, r.BearingDegrees, 0.0)
	require.GreaterOrEqual(t, r.RimCoverage, cfg.Containers.MinRimCoverage)

	g := containers[1]
	require.Equal(t, entity.ContainerGreen, g.Color)
	require.Equal(t, green, g.Center)
	require.Greater(t, g.BearingDegrees, 0.0)
	require.InDelta(t, math.Atan2(160, 600)*180/math.Pi, g.BearingDegrees, 1e-9)
}

func TestContainerDetector_Detect_NoneQualify(t *testing.T) {
	cfg := DefaultConfig()
	f := &fakeImaging{circlesFn: func(entity.Mask, int, int) ([]entity.Circle, error) {
		return []entity.Circle{{Center: entity.Point{X: 100, Y: 100}, Radius: 50}}, nil
	}}
	seg := newTestSegmenter(f, cfg)

	containers, err := NewContainerDetector(seg, cfg).Detect(sceneFor(newHSV(320, 240), seg))
	require.NoError(t, err)
	require.Empty(t, containers)
}

func TestContainerDetector_Detect_TiePrefersLargerRadius(t *testing.T) {
	cfg := DefaultConfig()
	img := newHSV(400, 400)
	center := entity.Point{X: 200, Y: 200}
	fillHSV(img, image.Rect(0, 0, 400, 400), hsvGreen)

	f := &fakeImaging{circlesFn: func(m entity.Mask, minR, maxR int) ([]entity.Circle, error) {
		return []entity.Circle{
			{Center: center, Radius: 50},
			{Center: center, Radius: 90},
			{Center: center, Radius: 500},
		}, nil
	}}
	seg := newTestSegmenter(f, cfg)

	containers, err := NewContainerDetector(seg, cfg).Detect(sceneFor(img, seg))
	require.NoError(t, err)
	require.Len(t, containers, 1)
	require.Equal(t, entity.ContainerGreen, containers[0].Color)
	require.Equal(t, 90, containers[0].Radius)
}
