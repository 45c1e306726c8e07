package entity

// ObstacleType грубая оценка типа препятствия
type ObstacleType string

const (
	ObstacleMannequin ObstacleType = "mannequin"
	ObstacleChair     ObstacleType = "chair"
	ObstacleUmbrella  ObstacleType = "umbrella"
	ObstacleUnknown   ObstacleType = "unknown"
)

// DetectedObstacle крупное препятствие с зоной, в которую нельзя заезжать.
type DetectedObstacle struct {
	Type             ObstacleType `json:"type"`
	Box              Box          `json:"bounding_box"`
	Center           Point        `json:"center"`
	Area             int          `json:"area"`
	DistanceEstimate float64      `json:"distance_estimate"`
	// ExclusionZone содержит Box и лежит в границах кадра
	ExclusionZone Box `json:"exclusion_zone"`
}
