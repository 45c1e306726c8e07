package app

import (
	"fmt"
	"strings"

	"beach-vision/internal/domain/entity"
)

var (
	canNames = map[entity.CanType]string{
		entity.CanOrganic:   "органика",
		entity.CanInorganic: "неорганика",
		entity.CanUnknown:   "не определена",
	}
	containerNames = map[entity.ContainerColor]string{
		entity.ContainerRed:   "красный",
		entity.ContainerGreen: "зелёный",
		entity.ContainerNone:  "-",
	}
	obstacleNames = map[entity.ObstacleType]string{
		entity.ObstacleMannequin: "манекен",
		entity.ObstacleChair:     "стул",
		entity.ObstacleUmbrella:  "зонт",
		entity.ObstacleUnknown:   "неизвестное",
	}
	boundaryNames = map[entity.BoundaryState]string{
		entity.BoundarySafe:    "✅ море далеко",
		entity.BoundaryWarning: "⚠️ море рядом",
		entity.BoundaryDanger:  "🛑 край воды",
	}
)

// Summarize текстовая сводка отчёта для оператора.
func Summarize(r *entity.DetectionReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Кадр #%d, %dx%d\n", r.FrameSeq, r.FrameWidth, r.FrameHeight)

	fmt.Fprintf(&b, "\n🥫 Банки: %d\n", len(r.Cans))
	for _, c := range r.Cans {
		fmt.Fprintf(&b, "• #%d %s -> %s контейнер, %.0f см, уверенность %.0f%%\n",
			c.ID, canNames[c.Type], containerNames[c.TargetContainer], c.DistanceEstimate, c.Confidence*100)
	}

	fmt.Fprintf(&b, "\n🗑 Контейнеры: %d\n", len(r.Containers))
	for _, c := range r.Containers {
		fmt.Fprintf(&b, "• %s, %.0f см, курс %+.0f°\n", containerNames[c.Color], c.DistanceEstimate, c.BearingDegrees)
	}

	fmt.Fprintf(&b, "\n🚧 Препятствия: %d\n", len(r.Obstacles))
	for _, o := range r.Obstacles {
		fmt.Fprintf(&b, "• %s, %.0f см\n", obstacleNames[o.Type], o.DistanceEstimate)
	}

	fmt.Fprintf(&b, "\n🌊 Граница: %s", boundaryNames[r.Boundary.State])
	if r.Boundary.RawState != r.Boundary.State {
		fmt.Fprintf(&b, " (по кадру: %s)", boundaryNames[r.Boundary.RawState])
	}
	b.WriteString("\n")
	if r.Boundary.State != entity.BoundarySafe {
		fmt.Fprintf(&b, "до воды %d px", r.Boundary.DistanceToBoundaryPx)
		if r.Boundary.SafeDirectionDegrees != nil {
			fmt.Fprintf(&b, ", уходить на %+.0f°", *r.Boundary.SafeDirectionDegrees)
		}
		b.WriteString("\n")
	}

	if len(r.Errors) > 0 {
		b.WriteString("\n❗ Ошибки компонентов:\n")
		for _, e := range r.Errors {
			fmt.Fprintf(&b, "• %s: %s\n", e.Component, e.Message)
		}
	}

	return b.String()
}
