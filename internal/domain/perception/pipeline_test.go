package perception

import (
	"context"
	"errors"
	"image"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"beach-vision/internal/domain/entity"
)

func frameOf(img *entity.HSVImage) entity.Frame {
	return entity.Frame{Seq: 1, Image: image.NewRGBA(img.Rect), HSV: img, Timestamp: time.Unix(1700000000, 0)}
}

func canRegion() entity.Region {
	return entity.Region{
		Area: 1257, Perimeter: 2 * math.Pi * 20, ContourArea: 1250,
		Box:       entity.Box{X: 80, Y: 80, Width: 40, Height: 40},
		CentroidX: 100, CentroidY: 100,
	}
}

func TestNewPipeline_InvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Optics.FocalLengthPx = 0

	_, err := NewPipeline(&fakeImaging{}, cfg)
	requireConfigKey(t, err, "optics.focal_length_px")
}

func TestPipeline_Prepare(t *testing.T) {
	p, err := NewPipeline(&fakeImaging{}, DefaultConfig())
	require.NoError(t, err)

	ts := time.Now()
	first, err := p.Prepare(image.NewRGBA(image.Rect(0, 0, 64, 48)), ts)
	require.NoError(t, err)
	require.Equal(t, 64, first.Width())
	require.Equal(t, 48, first.Height())
	require.Equal(t, ts, first.Timestamp)

	second, err := p.Prepare(image.NewRGBA(image.Rect(0, 0, 64, 48)), ts)
	require.NoError(t, err)
	require.Greater(t, second.Seq, first.Seq)

	_, err = p.Prepare(image.NewRGBA(image.Rect(0, 0, 0, 0)), ts)
	var imgErr *entity.ImagingOperationError
	require.ErrorAs(t, err, &imgErr)
}

func TestPipeline_Prepare_BackendFailure(t *testing.T) {
	p, err := NewPipeline(&fakeImaging{toHSVErr: errTest}, DefaultConfig())
	require.NoError(t, err)

	_, err = p.Prepare(image.NewRGBA(image.Rect(0, 0, 4, 4)), time.Now())
	var imgErr *entity.ImagingOperationError
	require.ErrorAs(t, err, &imgErr)
	require.Equal(t, "to_hsv", imgErr.Op)
}

func TestPipeline_Process(t *testing.T) {
	f := &fakeImaging{regionsFn: func(entity.Mask) ([]entity.Region, error) {
		return []entity.Region{canRegion()}, nil
	}}
	p, err := NewPipeline(f, DefaultConfig())
	require.NoError(t, err)

	img := newHSV(640, 480)
	// море первым: банка у кромки рисуется поверх и сохраняет жёлтую полосу
	fillHSV(img, image.Rect(0, 0, 640, 120), hsvBlue)
	fillHSV(img, image.Rect(80, 80, 120, 120), hsvBlack)
	fillHSV(img, image.Rect(80, 115, 120, 120), hsvYellow)

	report, err := p.Process(context.Background(), frameOf(img))
	require.NoError(t, err)
	require.Empty(t, report.Errors)
	require.Equal(t, 640, report.FrameWidth)
	require.Equal(t, 480, report.FrameHeight)

	require.Len(t, report.Cans, 1)
	require.Equal(t, entity.CanOrganic, report.Cans[0].Type)
	require.Equal(t, entity.ContainerGreen, report.Cans[0].TargetContainer)
	require.Greater(t, report.Cans[0].Confidence, 0.5)

	require.Empty(t, report.Containers)
	require.Empty(t, report.Obstacles)
	require.Equal(t, entity.BoundaryDanger, report.Boundary.State)
	require.NotNil(t, report.Boundary.SafeDirectionDegrees)
}

func TestPipeline_Process_IsolatesDetectorFailure(t *testing.T) {
	f := &fakeImaging{
		regionsFn: func(entity.Mask) ([]entity.Region, error) {
			return []entity.Region{canRegion()}, nil
		},
		circlesFn: func(entity.Mask, int, int) ([]entity.Circle, error) {
			return nil, &entity.ConfigurationError{Key: "containers.max_radius", Reason: "rejected by backend"}
		},
	}
	p, err := NewPipeline(f, DefaultConfig())
	require.NoError(t, err)

	img := newHSV(640, 480)
	fillHSV(img, image.Rect(80, 80, 120, 120), hsvBlack)

	report, err := p.Process(context.Background(), frameOf(img))
	require.NoError(t, err)
	require.True(t, report.Failed(ComponentContainers))
	require.False(t, report.Failed(ComponentCans))
	require.Len(t, report.Cans, 1)
	require.Equal(t, entity.CanInorganic, report.Cans[0].Type)
	require.Equal(t, entity.BoundarySafe, report.Boundary.State)
}

func TestPipeline_Process_ImagingFailureIsFatal(t *testing.T) {
	f := &fakeImaging{edgeErr: errTest}
	p, err := NewPipeline(f, DefaultConfig())
	require.NoError(t, err)

	report, err := p.Process(context.Background(), frameOf(newHSV(64, 48)))
	require.Nil(t, report)
	var imgErr *entity.ImagingOperationError
	require.ErrorAs(t, err, &imgErr)
	require.ErrorIs(t, err, errTest)
}

func TestPipeline_Process_Cancelled(t *testing.T) {
	p, err := NewPipeline(&fakeImaging{}, DefaultConfig())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = p.Process(ctx, frameOf(newHSV(64, 48)))
	require.True(t, errors.Is(err, context.Canceled))
}

func TestPipeline_Process_Debounced(t *testing.T) {
	p, err := NewPipeline(&fakeImaging{}, DefaultConfig(), WithDebounce())
	require.NoError(t, err)
	ctx := context.Background()

	calm := newHSV(640, 480)
	sea := newHSV(640, 480)
	fillHSV(sea, image.Rect(0, 0, 640, 160), hsvBlue)

	report, err := p.Process(ctx, frameOf(calm))
	require.NoError(t, err)
	require.Equal(t, entity.BoundarySafe, report.Boundary.State)

	for i := 0; i < 2; i++ {
		report, err = p.Process(ctx, frameOf(sea))
		require.NoError(t, err)
		require.Equal(t, entity.BoundaryDanger, report.Boundary.RawState)
		require.Equal(t, entity.BoundarySafe, report.Boundary.State)
		require.Nil(t, report.Boundary.SafeDirectionDegrees)
	}

	report, err = p.Process(ctx, frameOf(sea))
	require.NoError(t, err)
	require.Equal(t, entity.BoundaryDanger, report.Boundary.State)
	require.NotNil(t, report.Boundary.SafeDirectionDegrees)
}

func TestPipeline_Process_StatelessWithoutDebounce(t *testing.T) {
	p, err := NewPipeline(&fakeImaging{}, DefaultConfig())
	require.NoError(t, err)

	sea := newHSV(640, 480)
	fillHSV(sea, image.Rect(0, 0, 640, 160), hsvBlue)

	for _, img := range []*entity.HSVImage{newHSV(640, 480), sea} {
		report, err := p.Process(context.Background(), frameOf(img))
		require.NoError(t, err)
		require.Equal(t, report.Boundary.RawState, report.Boundary.State)
	}
}

func TestWithoutContainers(t *testing.T) {
	containers := []entity.DetectedContainer{{Color: entity.ContainerRed, Center: entity.Point{X: 200, Y: 200}, Radius: 80}}
	obstacles := []entity.DetectedObstacle{
		{Type: entity.ObstacleUnknown, Center: entity.Point{X: 205, Y: 198}},
		{Type: entity.ObstacleMannequin, Center: entity.Point{X: 500, Y: 240}},
	}

	out := withoutContainers(obstacles, containers)
	require.Len(t, out, 1)
	require.Equal(t, entity.ObstacleMannequin, out[0].Type)
	require.Len(t, obstacles, 2)
}
