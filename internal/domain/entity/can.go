package entity

// CanType тип банки по цветовой полосе
type CanType string

const (
	CanUnknown   CanType = "unknown"
	CanOrganic   CanType = "organic"   // чёрная с жёлтой полосой внизу
	CanInorganic CanType = "inorganic" // полностью чёрная
)

// ContainerColor цвет контейнера
type ContainerColor string

const (
	ContainerNone  ContainerColor = "none"
	ContainerRed   ContainerColor = "red"
	ContainerGreen ContainerColor = "green"
)

// DetectedCan найденная банка. Поля классификации остаются нулевыми до работы классификатора.
type DetectedCan struct {
	ID               int            `json:"id"`
	Center           Point          `json:"center"`
	Radius           float64        `json:"radius"`
	Area             int            `json:"area"`
	Box              Box            `json:"bounding_box"`
	Circularity      float64        `json:"circularity"`
	AspectRatio      float64        `json:"aspect_ratio"`
	Type             CanType        `json:"type"`
	TargetContainer  ContainerColor `json:"target_container"`
	YellowRatio      float64        `json:"yellow_ratio"`
	// Confidence уверенность классификации в [0.5, 1]: 0.5 при доле жёлтого ровно
	// на пороге (равные шансы), 1 при доле 0 или 1. Ноль: банка не классифицирована.
	Confidence       float64        `json:"confidence"`
	DistanceEstimate float64        `json:"distance_estimate"`
}

// Classified сообщает, что классификатор уже отработал.
func (c DetectedCan) Classified() bool {
	return c.Type == CanOrganic || c.Type == CanInorganic
}
