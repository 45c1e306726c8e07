package entity

// BoundaryState уровень опасности у границы песок/море
type BoundaryState string

const (
	BoundarySafe    BoundaryState = "safe"
	BoundaryWarning BoundaryState = "warning"
	BoundaryDanger  BoundaryState = "danger"
)

// Level порядковый номер состояния: чем больше, тем опаснее.
func (s BoundaryState) Level() int {
	switch s {
	case BoundaryWarning:
		return 1
	case BoundaryDanger:
		return 2
	default:
		return 0
	}
}

// BoundaryRegion доля синего в одной из зон кадра
type BoundaryRegion struct {
	Name      string  `json:"name"`
	BlueRatio float64 `json:"blue_ratio"`
}

// BoundaryStatus оценка близости моря на кадре.
type BoundaryStatus struct {
	// State подтверждённое состояние (после подавления дребезга)
	State BoundaryState `json:"state"`
	// RawState состояние, посчитанное только по текущему кадру
	RawState        BoundaryState    `json:"raw_state"`
	BlueRatio       float64          `json:"blue_ratio"`
	BoundaryRegions []BoundaryRegion `json:"boundary_regions"`
	// SafeDirectionDegrees есть только при State != safe
	SafeDirectionDegrees *float64 `json:"safe_direction_degrees,omitempty"`
	DistanceToBoundaryPx int      `json:"distance_to_boundary_px"`
}
