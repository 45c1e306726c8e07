package perception

import (
	"image"
	"math"

	"beach-vision/internal/domain/entity"
)

// Имена зон кадра в порядке выдачи
const (
	RegionTop    = "top"
	RegionLeft   = "left"
	RegionRight  = "right"
	RegionBottom = "bottom"
)

// BoundaryDetector оценивает близость моря по синему в зонах кадра.
type BoundaryDetector struct {
	seg *Segmenter
	cfg Config
}

func NewBoundaryDetector(seg *Segmenter, cfg Config) *BoundaryDetector {
	return &BoundaryDetector{seg: seg, cfg: cfg}
}

// BoundaryReading замер по одному кадру до подавления дребезга.
type BoundaryReading struct {
	Status entity.BoundaryStatus
	// escape направление прочь от синего; 180, если синего нет
	escape float64
}

// Resolve итоговый статус с подтверждённым состоянием state.
func (r BoundaryReading) Resolve(state entity.BoundaryState) entity.BoundaryStatus {
	status := r.Status
	status.BoundaryRegions = append([]entity.BoundaryRegion(nil), r.Status.BoundaryRegions...)
	status.State = state
	status.SafeDirectionDegrees = nil
	if state != entity.BoundarySafe {
		dir := r.escape
		status.SafeDirectionDegrees = &dir
	}
	return status
}

// Detect статус по одному кадру, без истории.
func (d *BoundaryDetector) Detect(scene *Scene) (entity.BoundaryStatus, error) {
	reading, err := d.Read(scene)
	if err != nil {
		return entity.BoundaryStatus{}, err
	}
	return reading.Resolve(reading.Status.RawState), nil
}

// Read считает зоны, сырое состояние, направление и расстояние до границы.
func (d *BoundaryDetector) Read(scene *Scene) (BoundaryReading, error) {
	bc := d.cfg.Boundary
	mask, err := scene.Mask(bc.Color)
	if err != nil {
		return BoundaryReading{}, err
	}
	morph := d.cfg.Morphology
	clean, err := d.seg.Cleanup(mask, morph.KernelSize, morph.ErosionIterations, morph.DilationIterations)
	if err != nil {
		return BoundaryReading{}, err
	}

	bounds := scene.Frame.Bounds()
	regions := boundaryRegions(bounds, bc.RegionFraction)
	status := entity.BoundaryStatus{
		BlueRatio:       CoverageRatio(clean),
		BoundaryRegions: make([]entity.BoundaryRegion, 0, len(regions)),
	}
	worst := 0.0
	for _, r := range regions {
		ratio := CoverageRatio(clean.Sub(r.rect))
		status.BoundaryRegions = append(status.BoundaryRegions, entity.BoundaryRegion{Name: r.name, BlueRatio: ratio})
		if r.name != RegionBottom && ratio > worst {
			worst = ratio
		}
	}

	switch {
	case worst > bc.DangerThreshold:
		status.RawState = entity.BoundaryDanger
	case worst > bc.WarningThreshold:
		status.RawState = entity.BoundaryWarning
	default:
		status.RawState = entity.BoundarySafe
	}
	status.State = status.RawState
	status.DistanceToBoundaryPx = distanceToBoundary(clean, bc.NoiseFloor)

	return BoundaryReading{Status: status, escape: escapeBearing(clean)}, nil
}

type namedRect struct {
	name string
	rect image.Rectangle
}

// boundaryRegions верх и низ во всю ширину, бока: по средней полосе.
func boundaryRegions(b image.Rectangle, fraction float64) []namedRect {
	w, h := b.Dx(), b.Dy()
	sh := max(1, int(float64(h)*fraction))
	sw := max(1, int(float64(w)*fraction))
	return []namedRect{
		{RegionTop, image.Rect(b.Min.X, b.Min.Y, b.Max.X, b.Min.Y+sh)},
		{RegionLeft, image.Rect(b.Min.X, b.Min.Y+sh, b.Min.X+sw, b.Max.Y-sh)},
		{RegionRight, image.Rect(b.Max.X-sw, b.Min.Y+sh, b.Max.X, b.Max.Y-sh)},
		{RegionBottom, image.Rect(b.Min.X, b.Max.Y-sh, b.Max.X, b.Max.Y)},
	}
}

// distanceToBoundary идёт от нижней строки вверх до первой строки с заметным синим.
// Это ближайшая к роботу кромка, а не самая верхняя синяя строка: при нескольких
// полосах воды считается расстояние до нижней.
func distanceToBoundary(mask entity.Mask, noiseFloor float64) int {
	b := mask.Rect
	w := b.Dx()
	for y := b.Max.Y - 1; y >= b.Min.Y; y-- {
		row := mask.Sub(image.Rect(b.Min.X, y, b.Max.X, y+1))
		if CoverageRatioOf(row, w) >= noiseFloor {
			return b.Max.Y - 1 - y
		}
	}
	return b.Dy()
}

// escapeBearing угол от центра кадра к центру масс синего, развёрнутый на 180°.
func escapeBearing(mask entity.Mask) float64 {
	b := mask.Rect
	var sx, sy, n float64
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if mask.IsSet(x, y) {
				sx += float64(x)
				sy += float64(y)
				n++
			}
		}
	}
	if n == 0 {
		return 180
	}
	cx := float64(b.Min.X) + float64(b.Dx()-1)/2
	cy := float64(b.Min.Y) + float64(b.Dy()-1)/2
	dx, dy := sx/n-cx, sy/n-cy
	if dx == 0 && dy == 0 {
		return 180
	}
	// 0°: вверх по кадру (вперёд), положительные углы: вправо
	toward := math.Atan2(dx, -dy) * 180 / math.Pi
	return entity.NormalizeDegrees(toward + 180)
}
