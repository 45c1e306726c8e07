package entity

import "time"

// ComponentError отметка об отказе одного компонента конвейера
type ComponentError struct {
	Component string `json:"component"`
	Message   string `json:"message"`
}

// DetectionReport итог обработки одного кадра. После возврата не меняется.
type DetectionReport struct {
	FrameSeq       uint64              `json:"frame_seq"`
	FrameTimestamp time.Time           `json:"frame_timestamp"`
	FrameWidth     int                 `json:"frame_width"`
	FrameHeight    int                 `json:"frame_height"`
	Cans           []DetectedCan       `json:"cans"`
	Containers     []DetectedContainer `json:"containers"`
	Obstacles      []DetectedObstacle  `json:"obstacles"`
	Boundary       BoundaryStatus      `json:"boundary"`
	Errors         []ComponentError    `json:"errors,omitempty"`
}

// Container возвращает контейнер заданного цвета, если он найден.
func (r *DetectionReport) Container(color ContainerColor) (DetectedContainer, bool) {
	for _, c := range r.Containers {
		if c.Color == color {
			return c, true
		}
	}
	return DetectedContainer{}, false
}

// Failed сообщает, отказал ли компонент на этом кадре.
func (r *DetectionReport) Failed(component string) bool {
	for _, e := range r.Errors {
		if e.Component == component {
			return true
		}
	}
	return false
}
