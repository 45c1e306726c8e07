package perception

import (
	"errors"
	"sort"

	"beach-vision/internal/domain/entity"
	"beach-vision/internal/domain/port"
)

// Segmenter строит цветовые маски и чистит их морфологией.
// Не хранит состояние между кадрами.
type Segmenter struct {
	imaging port.Imaging
	ranges  map[string][]HSVRange
	names   []string
}

// NewSegmenter разбирает все цвета конфигурации заранее.
func NewSegmenter(imaging port.Imaging, cfg Config) (*Segmenter, error) {
	s := &Segmenter{imaging: imaging, ranges: make(map[string][]HSVRange, len(cfg.Colors))}
	for name, spec := range cfg.Colors {
		ranges, err := spec.Ranges(name)
		if err != nil {
			return nil, err
		}
		s.ranges[name] = ranges
		s.names = append(s.names, name)
	}
	sort.Strings(s.names)
	return s, nil
}

// Colors имена настроенных цветов по алфавиту
func (s *Segmenter) Colors() []string {
	return append([]string(nil), s.names...)
}

// MaskFor маска одного цвета. Для нескольких диапазонов маски объединяются.
func (s *Segmenter) MaskFor(hsv *entity.HSVImage, name string) (entity.Mask, error) {
	ranges, ok := s.ranges[name]
	if !ok {
		return entity.Mask{}, &entity.ConfigurationError{Key: "colors." + name}
	}
	var out entity.Mask
	for i, r := range ranges {
		mask, err := s.imaging.InRange(hsv, r.Lower, r.Upper)
		if err != nil {
			return entity.Mask{}, imagingError("in_range", err)
		}
		if i == 0 {
			out = mask
			continue
		}
		out = out.Or(mask)
	}
	return out, nil
}

// MaskForAll маски всех настроенных цветов, каждая считается независимо.
func (s *Segmenter) MaskForAll(hsv *entity.HSVImage) (map[string]entity.Mask, error) {
	masks := make(map[string]entity.Mask, len(s.names))
	for _, name := range s.names {
		mask, err := s.MaskFor(hsv, name)
		if err != nil {
			return nil, err
		}
		masks[name] = mask
	}
	return masks, nil
}

// Cleanup эрозия, затем дилатация квадратным ядром. Чётное ядро округляется вверх до нечётного.
func (s *Segmenter) Cleanup(mask entity.Mask, kernelSize, erosionIterations, dilationIterations int) (entity.Mask, error) {
	if kernelSize <= 0 {
		return entity.Mask{}, &entity.ConfigurationError{Key: "morphology.kernel_size", Reason: "must be positive"}
	}
	if kernelSize%2 == 0 {
		kernelSize++
	}
	out := mask
	var err error
	if erosionIterations > 0 {
		if out, err = s.imaging.Erode(out, kernelSize, erosionIterations); err != nil {
			return entity.Mask{}, imagingError("erode", err)
		}
	}
	if dilationIterations > 0 {
		if out, err = s.imaging.Dilate(out, kernelSize, dilationIterations); err != nil {
			return entity.Mask{}, imagingError("dilate", err)
		}
	}
	return out, nil
}

// Close замыкает разрывы: дилатация, затем эрозия вполовину меньшим числом проходов.
func (s *Segmenter) Close(mask entity.Mask, kernelSize, iterations int) (entity.Mask, error) {
	if kernelSize <= 0 {
		return entity.Mask{}, &entity.ConfigurationError{Key: "obstacles.close_kernel", Reason: "must be positive"}
	}
	if kernelSize%2 == 0 {
		kernelSize++
	}
	if iterations <= 0 {
		return mask, nil
	}
	out, err := s.imaging.Dilate(mask, kernelSize, iterations)
	if err != nil {
		return entity.Mask{}, imagingError("dilate", err)
	}
	if back := iterations / 2; back > 0 {
		if out, err = s.imaging.Erode(out, kernelSize, back); err != nil {
			return entity.Mask{}, imagingError("erode", err)
		}
	}
	return out, nil
}

// Regions все внешние связные области маски в порядке обхода строк.
func (s *Segmenter) Regions(mask entity.Mask) ([]entity.Region, error) {
	regions, err := s.imaging.FindRegions(mask)
	if err != nil {
		return nil, imagingError("find_regions", err)
	}
	return regions, nil
}

// Circles окружности на маске с радиусом в [minRadius, maxRadius].
func (s *Segmenter) Circles(mask entity.Mask, minRadius, maxRadius int) ([]entity.Circle, error) {
	circles, err := s.imaging.FindCircles(mask, minRadius, maxRadius)
	if err != nil {
		return nil, imagingError("find_circles", err)
	}
	return circles, nil
}

// LargestRegion самая большая область. При равенстве площадей побеждает найденная первой.
func (s *Segmenter) LargestRegion(mask entity.Mask) (entity.Region, bool, error) {
	regions, err := s.Regions(mask)
	if err != nil {
		return entity.Region{}, false, err
	}
	var (
		best  entity.Region
		found bool
	)
	for _, r := range regions {
		if !found || r.Area > best.Area {
			best, found = r, true
		}
	}
	return best, found, nil
}

// CoverageRatio доля переднего плана в маске
func CoverageRatio(mask entity.Mask) float64 {
	return CoverageRatioOf(mask, mask.Size())
}

// CoverageRatioOf доля переднего плана относительно denominator; 0 при нулевом знаменателе.
func CoverageRatioOf(mask entity.Mask, denominator int) float64 {
	if denominator <= 0 {
		return 0
	}
	return float64(mask.Count()) / float64(denominator)
}

// imagingError оборачивает ошибку бэкенда; доменные ошибки проходят как есть.
func imagingError(op string, err error) error {
	var (
		imgErr *entity.ImagingOperationError
		cfgErr *entity.ConfigurationError
	)
	if errors.As(err, &imgErr) || errors.As(err, &cfgErr) {
		return err
	}
	return entity.NewImagingError(op, err)
}
