package perception

import (
	"math"

	"beach-vision/internal/domain/entity"
)

// ContainerDetector ищет обручи-контейнеры: не больше одного на цвет.
type ContainerDetector struct {
	seg *Segmenter
	cfg Config
}

func NewContainerDetector(seg *Segmenter, cfg Config) *ContainerDetector {
	return &ContainerDetector{seg: seg, cfg: cfg}
}

// Detect возвращает найденные контейнеры в порядке red, green. Пустой результат: не ошибка.
func (d *ContainerDetector) Detect(scene *Scene) ([]entity.DetectedContainer, error) {
	targets := []struct {
		color entity.ContainerColor
		mask  string
	}{
		{entity.ContainerRed, d.cfg.Containers.RedColor},
		{entity.ContainerGreen, d.cfg.Containers.GreenColor},
	}

	var out []entity.DetectedContainer
	for _, t := range targets {
		container, ok, err := d.detectColor(scene, t.color, t.mask)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, container)
		}
	}
	return out, nil
}

func (d *ContainerDetector) detectColor(scene *Scene, color entity.ContainerColor, maskName string) (entity.DetectedContainer, bool, error) {
	mask, err := scene.Mask(maskName)
	if err != nil {
		return entity.DetectedContainer{}, false, err
	}
	morph := d.cfg.Morphology
	clean, err := d.seg.Cleanup(mask, morph.KernelSize, morph.ErosionIterations, morph.DilationIterations)
	if err != nil {
		return entity.DetectedContainer{}, false, err
	}
	cc := d.cfg.Containers
	circles, err := d.seg.Circles(clean, cc.MinRadius, cc.MaxRadius)
	if err != nil {
		return entity.DetectedContainer{}, false, err
	}

	var (
		best      entity.Circle
		bestScore float64
		found     bool
	)
	for _, c := range circles {
		if c.Radius < cc.MinRadius || c.Radius > cc.MaxRadius {
			continue
		}
		score := RimCoverage(clean, c, rimWidth(c.Radius, cc.RimWidthFraction))
		if score < cc.MinRimCoverage {
			continue
		}
		if !found || score > bestScore || (score == bestScore && c.Radius > best.Radius) {
			best, bestScore, found = c, score, true
		}
	}
	if !found {
		return entity.DetectedContainer{}, false, nil
	}

	optics := d.cfg.Optics
	return entity.DetectedContainer{
		Color:            color,
		Center:           best.Center,
		Radius:           best.Radius,
		RimCoverage:      bestScore,
		DistanceEstimate: PinholeDistance(optics.ContainerDiameterCm, optics.FocalLengthPx, float64(2*best.Radius)),
		BearingDegrees:   bearing(float64(best.Center.X), scene.Frame.Width(), optics.FocalLengthPx),
	}, true, nil
}

func rimWidth(radius int, fraction float64) int {
	w := int(math.Round(float64(radius) * fraction))
	if w < 2 {
		w = 2
	}
	return w
}

// RimCoverage доля переднего плана в кольце [r-width, r] внутри окружности.
// Пиксели за пределами маски не учитываются.
func RimCoverage(mask entity.Mask, c entity.Circle, width int) float64 {
	if mask.Gray == nil || c.Radius <= 0 {
		return 0
	}
	outer := float64(c.Radius) + 0.5
	inner := float64(c.Radius-width) + 0.5
	if inner < 0 {
		inner = 0
	}
	b := mask.Rect
	total, hit := 0, 0
	for y := max(b.Min.Y, c.Center.Y-c.Radius); y <= min(b.Max.Y-1, c.Center.Y+c.Radius); y++ {
		for x := max(b.Min.X, c.Center.X-c.Radius); x <= min(b.Max.X-1, c.Center.X+c.Radius); x++ {
			dist := math.Hypot(float64(x-c.Center.X), float64(y-c.Center.Y))
			if dist > outer || dist < inner {
				continue
			}
			total++
			if mask.IsSet(x, y) {
				hit++
			}
		}
	}
	if total == 0 {
		return 0
	}
	return float64(hit) / float64(total)
}
