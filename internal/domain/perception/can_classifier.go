package perception

import (
	"errors"
	"image"
	"math"
	"sync"

	"beach-vision/internal/domain/entity"
)

// CanClassifier определяет тип банки по жёлтой полосе в нижней части её рамки.
type CanClassifier struct {
	cfg Config
}

func NewCanClassifier(cfg Config) *CanClassifier {
	return &CanClassifier{cfg: cfg}
}

// Classify возвращает классифицированную копию банки; исходное значение не меняется.
func (c *CanClassifier) Classify(can entity.DetectedCan, scene *Scene) (entity.DetectedCan, error) {
	box := can.Box.Clamp(scene.Frame.Bounds())
	if box.Empty() {
		return entity.DetectedCan{}, &entity.InvalidRegionError{ID: can.ID, Box: can.Box, Reason: "empty after clamping to frame"}
	}
	mask, err := scene.Mask(c.cfg.Classifier.Color)
	if err != nil {
		return entity.DetectedCan{}, err
	}

	rows := int(math.Ceil(float64(box.Height) * c.cfg.Classifier.BottomFraction))
	if rows < 1 {
		rows = 1
	}
	bottom := image.Rect(box.X, box.Y+box.Height-rows, box.X+box.Width, box.Y+box.Height)
	ratio := CoverageRatio(mask.Sub(bottom))

	out := can
	out.YellowRatio = ratio
	out.Confidence = c.confidence(ratio)
	if ratio >= c.cfg.Classifier.YellowThreshold {
		out.Type = entity.CanOrganic
		out.TargetContainer = entity.ContainerGreen
	} else {
		out.Type = entity.CanInorganic
		out.TargetContainer = entity.ContainerRed
	}
	return out, nil
}

// ClassifyBatch классифицирует банки параллельно с сохранением порядка.
// Банки с вырожденной рамкой пропускаются, их ошибки возвращаются вместе.
func (c *CanClassifier) ClassifyBatch(cans []entity.DetectedCan, scene *Scene) ([]entity.DetectedCan, error) {
	results := make([]entity.DetectedCan, len(cans))
	errs := make([]error, len(cans))

	var wg sync.WaitGroup
	for i, can := range cans {
		wg.Add(1)
		go func(i int, can entity.DetectedCan) {
			defer wg.Done()
			results[i], errs[i] = c.Classify(can, scene)
		}(i, can)
	}
	wg.Wait()

	out := make([]entity.DetectedCan, 0, len(cans))
	var skipped []error
	for i, err := range errs {
		if err == nil {
			out = append(out, results[i])
			continue
		}
		var invalid *entity.InvalidRegionError
		if !errors.As(err, &invalid) {
			return nil, err
		}
		skipped = append(skipped, err)
	}
	return out, errors.Join(skipped...)
}

// confidence 0.5 на пороге, 1.0 на краях шкалы.
func (c *CanClassifier) confidence(ratio float64) float64 {
	thr := c.cfg.Classifier.YellowThreshold
	span := thr
	if ratio >= thr {
		span = 1 - thr
	}
	margin := math.Abs(ratio-thr) / span
	return 0.5 + 0.5*math.Min(margin, 1)
}
