package app

import (
	"testing"

	"github.com/stretchr/testify/require"

	"beach-vision/internal/domain/entity"
)

func TestSummarize(t *testing.T) {
	escape := 170.0
	r := &entity.DetectionReport{
		FrameSeq: 3, FrameWidth: 640, FrameHeight: 480,
		Cans: []entity.DetectedCan{{
			ID: 1, Type: entity.CanOrganic, TargetContainer: entity.ContainerGreen,
			DistanceEstimate: 55, Confidence: 0.9,
		}},
		Containers: []entity.DetectedContainer{{Color: entity.ContainerRed, DistanceEstimate: 300, BearingDegrees: -12}},
		Obstacles:  []entity.DetectedObstacle{{Type: entity.ObstacleChair, DistanceEstimate: 140}},
		Boundary: entity.BoundaryStatus{
			State: entity.BoundaryWarning, RawState: entity.BoundaryDanger,
			SafeDirectionDegrees: &escape, DistanceToBoundaryPx: 80,
		},
		Errors: []entity.ComponentError{{Component: "obstacle_detector", Message: "boom"}},
	}

	s := Summarize(r)
	require.Contains(t, s, "Кадр #3, 640x480")
	require.Contains(t, s, "#1 органика -> зелёный контейнер, 55 см, уверенность 90%")
	require.Contains(t, s, "красный, 300 см, курс -12°")
	require.Contains(t, s, "стул, 140 см")
	require.Contains(t, s, "море рядом (по кадру: 🛑 край воды)")
	require.Contains(t, s, "до воды 80 px, уходить на +170°")
	require.Contains(t, s, "obstacle_detector: boom")
}

func TestSummarize_Safe(t *testing.T) {
	r := &entity.DetectionReport{Boundary: entity.BoundaryStatus{State: entity.BoundarySafe, RawState: entity.BoundarySafe}}

	s := Summarize(r)
	require.Contains(t, s, "море далеко")
	require.NotContains(t, s, "до воды")
	require.NotContains(t, s, "Ошибки")
}
