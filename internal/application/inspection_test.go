package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"beach-vision/internal/domain/entity"
	"beach-vision/internal/infrastructure/storage"
	"beach-vision/internal/infrastructure/vision"
)

func newInspection(t *testing.T) (*InspectionService, *OperatorService) {
	t.Helper()
	operators := NewOperatorService(storage.NewMemoryOperatorRepository())
	svc := NewInspectionService(operators, vision.NewDecoder(0, 0), newPipeline(t), vision.NewRenderer())
	return svc, operators
}

func TestInspectionService_Inspect(t *testing.T) {
	svc, _ := newInspection(t)

	out, err := svc.Inspect(context.Background(), encodePNG(t, beach(320, 240, 100)))
	require.NoError(t, err)
	require.Equal(t, 320, out.Report.FrameWidth)
	require.Empty(t, out.Report.Cans)
	require.Equal(t, entity.BoundaryDanger, out.Report.Boundary.State)
	require.Equal(t, entity.BoundaryDanger, out.Report.Boundary.RawState)
	require.Contains(t, out.Summary, "Банки: 0")
	require.Contains(t, out.Summary, "край воды")
	require.Greater(t, len(out.Overlay), 2)
	require.Equal(t, []byte{0xFF, 0xD8}, out.Overlay[:2])
}

func TestInspectionService_ProcessPhoto(t *testing.T) {
	svc, operators := newInspection(t)
	ctx := context.Background()

	_, err := operators.BeginCheck(ctx, 1, 10)
	require.NoError(t, err)

	out, err := svc.ProcessPhoto(ctx, 1, 10, encodePNG(t, beach(160, 120, 0)))
	require.NoError(t, err)
	require.Equal(t, entity.BoundarySafe, out.Report.Boundary.State)

	op, err := operators.Get(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, entity.StateMainMenu, op.State)
	require.Equal(t, 1, op.Inspections)
}

func TestInspectionService_ProcessPhoto_BadImage(t *testing.T) {
	svc, operators := newInspection(t)
	ctx := context.Background()

	_, err := svc.ProcessPhoto(ctx, 1, 10, []byte("not an image"))
	var imgErr *entity.ImagingOperationError
	require.ErrorAs(t, err, &imgErr)

	op, err := operators.Get(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, entity.StateMainMenu, op.State)
	require.Zero(t, op.Inspections)
}

func TestInspectionService_ProcessPhoto_Busy(t *testing.T) {
	svc, operators := newInspection(t)
	ctx := context.Background()

	_, err := operators.SetState(ctx, 1, 10, entity.StateProcessing)
	require.NoError(t, err)

	_, err = svc.ProcessPhoto(ctx, 1, 10, encodePNG(t, beach(32, 32, 0)))
	require.ErrorIs(t, err, ErrBusy)
}

func TestInspectionService_NotConfigured(t *testing.T) {
	svc := NewInspectionService(NewOperatorService(storage.NewMemoryOperatorRepository()), nil, nil, nil)

	_, err := svc.Inspect(context.Background(), []byte{1})
	require.Error(t, err)
}
