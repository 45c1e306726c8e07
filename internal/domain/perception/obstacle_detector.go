package perception

import (
	"image"

	"beach-vision/internal/domain/entity"
	"beach-vision/internal/domain/port"
)

// ObstacleDetector находит крупные объекты по карте границ и строит вокруг них запретные зоны.
type ObstacleDetector struct {
	imaging port.Imaging
	seg     *Segmenter
	cfg     Config
}

func NewObstacleDetector(imaging port.Imaging, seg *Segmenter, cfg Config) *ObstacleDetector {
	return &ObstacleDetector{imaging: imaging, seg: seg, cfg: cfg}
}

func (d *ObstacleDetector) Detect(scene *Scene) ([]entity.DetectedObstacle, error) {
	oc := d.cfg.Obstacles
	edges, err := d.imaging.EdgeMap(scene.Frame.Image, oc.EdgeLow, oc.EdgeHigh)
	if err != nil {
		return nil, imagingError("edge_map", err)
	}
	closed, err := d.seg.Close(edges, oc.CloseKernel, oc.CloseIterations)
	if err != nil {
		return nil, err
	}
	regions, err := d.seg.Regions(closed)
	if err != nil {
		return nil, err
	}

	bounds := scene.Frame.Bounds()
	var out []entity.DetectedObstacle
	for _, r := range regions {
		if r.ContourArea < float64(oc.MinArea) || r.Box.Empty() {
			continue
		}
		kind := d.classify(r.Box)
		out = append(out, entity.DetectedObstacle{
			Type:             kind,
			Box:              r.Box,
			Center:           r.Box.Center(),
			Area:             int(r.ContourArea),
			DistanceEstimate: PinholeDistance(d.knownHeight(kind), d.cfg.Optics.FocalLengthPx, float64(r.Box.Height)),
			ExclusionZone:    ExclusionZone(r.Box, oc.Margin, bounds),
		})
	}
	return out, nil
}

// classify грубо по пропорциям рамки; зонты по форме не отличить, они остаются unknown.
func (d *ObstacleDetector) classify(b entity.Box) entity.ObstacleType {
	aspect := AspectRatio(b)
	switch {
	case aspect >= d.cfg.Obstacles.TallAspect:
		return entity.ObstacleMannequin
	case aspect <= d.cfg.Obstacles.WideAspect:
		return entity.ObstacleChair
	default:
		return entity.ObstacleUnknown
	}
}

func (d *ObstacleDetector) knownHeight(kind entity.ObstacleType) float64 {
	if h, ok := d.cfg.Obstacles.KnownHeightsCm[string(kind)]; ok && h > 0 {
		return h
	}
	return d.cfg.Obstacles.KnownHeightsCm[string(entity.ObstacleUnknown)]
}

// ExclusionZone рамка, расширенная на margin и обрезанная по кадру.
// Для непустой рамки внутри кадра результат её содержит.
func ExclusionZone(b entity.Box, margin int, bounds image.Rectangle) entity.Box {
	return b.Expand(margin).Clamp(bounds)
}
