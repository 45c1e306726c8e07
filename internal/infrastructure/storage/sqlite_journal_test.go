package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"beach-vision/internal/domain/entity"
)

func newJournal(t *testing.T) *SQLiteJournal {
	t.Helper()
	j, err := NewSQLiteJournal(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { j.Close() })
	return j
}

func report(seq uint64, state entity.BoundaryState) *entity.DetectionReport {
	return &entity.DetectionReport{
		FrameSeq:       seq,
		FrameTimestamp: time.Date(2026, 6, 1, 12, 0, int(seq), 0, time.UTC),
		FrameWidth:     640,
		FrameHeight:    480,
		Cans:           []entity.DetectedCan{{ID: 1, Type: entity.CanOrganic, TargetContainer: entity.ContainerGreen}},
		Boundary:       entity.BoundaryStatus{State: state, RawState: state},
	}
}

func TestSQLiteJournal_PublishRecent(t *testing.T) {
	j := newJournal(t)
	ctx := context.Background()

	for seq := uint64(1); seq <= 3; seq++ {
		require.NoError(t, j.Publish(ctx, report(seq, entity.BoundarySafe)))
	}

	entries, err := j.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, uint64(3), entries[0].Report.FrameSeq)
	require.Equal(t, uint64(2), entries[1].Report.FrameSeq)
	require.Greater(t, entries[0].ID, entries[1].ID)
	require.Equal(t, entity.CanOrganic, entries[0].Report.Cans[0].Type)
	require.True(t, entries[0].Report.FrameTimestamp.Equal(report(3, entity.BoundarySafe).FrameTimestamp))

	empty, err := j.Recent(ctx, 0)
	require.NoError(t, err)
	require.Empty(t, empty)
}

func TestSQLiteJournal_CountByState(t *testing.T) {
	j := newJournal(t)
	ctx := context.Background()

	require.NoError(t, j.Publish(ctx, report(1, entity.BoundarySafe)))
	require.NoError(t, j.Publish(ctx, report(2, entity.BoundaryDanger)))
	require.NoError(t, j.Publish(ctx, report(3, entity.BoundaryDanger)))

	counts, err := j.CountByState(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, counts[entity.BoundarySafe])
	require.Equal(t, 2, counts[entity.BoundaryDanger])
}

func TestSQLiteJournal_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")
	ctx := context.Background()

	j, err := NewSQLiteJournal(path)
	require.NoError(t, err)
	require.NoError(t, j.Publish(ctx, report(7, entity.BoundaryWarning)))
	require.NoError(t, j.Close())

	j, err = NewSQLiteJournal(path)
	require.NoError(t, err)
	defer j.Close()
	entries, err := j.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, entity.BoundaryWarning, entries[0].Report.Boundary.State)
}
