package perception

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"beach-vision/internal/domain/entity"
)

func requireConfigKey(t *testing.T, err error, key string) {
	t.Helper()
	var cfgErr *entity.ConfigurationError
	require.True(t, errors.As(err, &cfgErr), "want ConfigurationError, got %v", err)
	require.Equal(t, key, cfgErr.Key)
}

func TestDefaultConfig_Validate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())
}

func TestConfig_Validate_RedNeedsTwoRanges(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Colors["red"] = ColorSpec{Lower: []int{0, 100, 100}, Upper: []int{10, 255, 255}}

	requireConfigKey(t, cfg.Validate(), "colors.red.lower1")
}

func TestConfig_Validate_MissingReferencedColor(t *testing.T) {
	cfg := DefaultConfig()
	delete(cfg.Colors, "blue")

	requireConfigKey(t, cfg.Validate(), "colors.blue")
}

func TestConfig_Validate_MalformedRange(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Colors["green"] = ColorSpec{Lower: []int{40, 80}, Upper: []int{85, 255, 255}}

	requireConfigKey(t, cfg.Validate(), "colors.green.lower")
}

func TestConfig_Validate_ObstacleAreaAboveCans(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Obstacles.MinArea = cfg.Cans.MaxArea

	requireConfigKey(t, cfg.Validate(), "obstacles.min_area")
}

func TestConfig_Validate_Thresholds(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Boundary.WarningThreshold = 0.5
	cfg.Boundary.DangerThreshold = 0.3

	requireConfigKey(t, cfg.Validate(), "boundary.warning_threshold")
}

func TestColorSpec_Ranges(t *testing.T) {
	ranges, err := DefaultConfig().Colors["red"].Ranges("red")
	require.NoError(t, err)
	require.Len(t, ranges, 2)
	require.Equal(t, entity.HSV{H: 170, S: 100, V: 100}, ranges[1].Lower)

	ranges, err = DefaultConfig().Colors["yellow"].Ranges("yellow")
	require.NoError(t, err)
	require.Len(t, ranges, 1)
}
