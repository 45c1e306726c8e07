package perception

import (
	"math"

	"beach-vision/internal/domain/entity"
)

// CanDetector ищет банки: чёрные силуэты, в том числе с жёлтой полосой.
type CanDetector struct {
	seg *Segmenter
	cfg Config
}

func NewCanDetector(seg *Segmenter, cfg Config) *CanDetector {
	return &CanDetector{seg: seg, cfg: cfg}
}

// Detect возвращает неклассифицированных кандидатов в порядке обнаружения, ID с 1.
func (d *CanDetector) Detect(scene *Scene) ([]entity.DetectedCan, error) {
	mask, err := d.canMask(scene)
	if err != nil {
		return nil, err
	}
	morph := d.cfg.Morphology
	clean, err := d.seg.Cleanup(mask, morph.KernelSize, morph.ErosionIterations, morph.DilationIterations)
	if err != nil {
		return nil, err
	}
	regions, err := d.seg.Regions(clean)
	if err != nil {
		return nil, err
	}

	cans := make([]entity.DetectedCan, 0, len(regions))
	for _, r := range regions {
		can, ok := d.candidate(r)
		if !ok {
			continue
		}
		can.ID = len(cans) + 1
		cans = append(cans, can)
	}
	return cans, nil
}

func (d *CanDetector) canMask(scene *Scene) (entity.Mask, error) {
	mask, err := scene.Mask(d.cfg.Cans.Color)
	if err != nil {
		return entity.Mask{}, err
	}
	if d.cfg.Cans.BandColor == "" {
		return mask, nil
	}
	band, err := scene.Mask(d.cfg.Cans.BandColor)
	if err != nil {
		return entity.Mask{}, err
	}
	return mask.Or(band), nil
}

func (d *CanDetector) candidate(r entity.Region) (entity.DetectedCan, bool) {
	c := d.cfg.Cans
	if r.Area < c.MinArea || r.Area > c.MaxArea {
		return entity.DetectedCan{}, false
	}
	circularity := Circularity(float64(r.Area), r.Perimeter)
	aspect := AspectRatio(r.Box)
	if circularity < c.CircularityThreshold && (aspect < c.AspectMin || aspect > c.AspectMax) {
		return entity.DetectedCan{}, false
	}

	radius := math.Sqrt(float64(r.Area) / math.Pi)
	return entity.DetectedCan{
		Center:           r.Centroid(),
		Radius:           radius,
		Area:             r.Area,
		Box:              r.Box,
		Circularity:      circularity,
		AspectRatio:      aspect,
		Type:             entity.CanUnknown,
		TargetContainer:  entity.ContainerNone,
		DistanceEstimate: PinholeDistance(d.cfg.Optics.CanDiameterCm, d.cfg.Optics.FocalLengthPx, 2*radius),
	}, true
}
