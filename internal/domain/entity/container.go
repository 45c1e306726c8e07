package entity

// DetectedContainer найденный контейнер-обруч. В кадре не больше одного на цвет.
type DetectedContainer struct {
	Color            ContainerColor `json:"color"`
	Center           Point          `json:"center"`
	Radius           int            `json:"radius"`
	RimCoverage      float64        `json:"rim_coverage"`
	DistanceEstimate float64        `json:"distance_estimate"`
	// BearingDegrees угол от курса робота, положительный: вправо, (-180, 180]
	BearingDegrees float64 `json:"bearing_degrees"`
}
