package perception

import (
	"fmt"
	"sort"

	"beach-vision/internal/domain/entity"
)

// Config параметры восприятия. После NewPipeline значение не меняется.
type Config struct {
	Colors     map[string]ColorSpec `yaml:"colors"`
	Morphology MorphologyConfig     `yaml:"morphology"`
	Optics     OpticsConfig         `yaml:"optics"`
	Cans       CanConfig            `yaml:"cans"`
	Classifier ClassifierConfig     `yaml:"classifier"`
	Containers ContainerConfig      `yaml:"containers"`
	Obstacles  ObstacleConfig       `yaml:"obstacles"`
	Boundary   BoundaryConfig       `yaml:"boundary"`
	Preprocess PreprocessConfig     `yaml:"preprocess"`
}

// ColorSpec диапазоны HSV одного цвета. Для red задаются два диапазона (оттенок переходит через 0).
type ColorSpec struct {
	Lower  []int `yaml:"lower,omitempty"`
	Upper  []int `yaml:"upper,omitempty"`
	Lower1 []int `yaml:"lower1,omitempty"`
	Upper1 []int `yaml:"upper1,omitempty"`
	Lower2 []int `yaml:"lower2,omitempty"`
	Upper2 []int `yaml:"upper2,omitempty"`
}

// HSVRange диапазон включительно
type HSVRange struct {
	Lower entity.HSV
	Upper entity.HSV
}

type MorphologyConfig struct {
	KernelSize         int `yaml:"kernel_size"`
	ErosionIterations  int `yaml:"erosion_iterations"`
	DilationIterations int `yaml:"dilation_iterations"`
}

type OpticsConfig struct {
	FocalLengthPx       float64 `yaml:"focal_length_px"`
	CanDiameterCm       float64 `yaml:"can_diameter_cm"`
	ContainerDiameterCm float64 `yaml:"container_diameter_cm"`
}

type CanConfig struct {
	Color string `yaml:"color"`
	// BandColor цвет полосы органических банок, входит в силуэт банки; пусто: не учитывать
	BandColor            string  `yaml:"band_color"`
	MinArea              int     `yaml:"min_area"`
	MaxArea              int     `yaml:"max_area"`
	CircularityThreshold float64 `yaml:"circularity_threshold"`
	AspectMin            float64 `yaml:"aspect_min"`
	AspectMax            float64 `yaml:"aspect_max"`
}

type ClassifierConfig struct {
	Color           string  `yaml:"color"`
	YellowThreshold float64 `yaml:"yellow_threshold"`
	BottomFraction  float64 `yaml:"bottom_fraction"`
}

type ContainerConfig struct {
	RedColor   string `yaml:"red_color"`
	GreenColor string `yaml:"green_color"`
	MinRadius  int    `yaml:"min_radius"`
	MaxRadius  int    `yaml:"max_radius"`
	// RimWidthFraction ширина проверяемого кольца внутри окружности в долях радиуса
	RimWidthFraction float64 `yaml:"rim_width_fraction"`
	MinRimCoverage   float64 `yaml:"min_rim_coverage"`
}

type ObstacleConfig struct {
	MinArea         int                `yaml:"min_area"`
	SafetyFactor    float64            `yaml:"safety_factor"`
	Margin          int                `yaml:"margin"`
	TallAspect      float64            `yaml:"tall_aspect"`
	WideAspect      float64            `yaml:"wide_aspect"`
	EdgeLow         uint8              `yaml:"edge_low"`
	EdgeHigh        uint8              `yaml:"edge_high"`
	CloseKernel     int                `yaml:"close_kernel"`
	CloseIterations int                `yaml:"close_iterations"`
	KnownHeightsCm  map[string]float64 `yaml:"known_heights_cm"`
}

type BoundaryConfig struct {
	Color            string  `yaml:"color"`
	RegionFraction   float64 `yaml:"region_fraction"`
	WarningThreshold float64 `yaml:"warning_threshold"`
	DangerThreshold  float64 `yaml:"danger_threshold"`
	NoiseFloor       float64 `yaml:"noise_floor"`
	EscalationFrames int     `yaml:"escalation_frames"`
	ReleaseFrames    int     `yaml:"release_frames"`
}

type PreprocessConfig struct {
	// MedianRadius радиус медианного фильтра при декодировании кадров; 0: выключен
	MedianRadius float64 `yaml:"median_radius"`
}

// DefaultConfig значения, откалиброванные на тренировочной площадке. Пороги границы
// обязательно перепроверяются на месте соревнований.
func DefaultConfig() Config {
	return Config{
		Colors: map[string]ColorSpec{
			"black":  {Lower: []int{0, 0, 0}, Upper: []int{180, 255, 50}},
			"yellow": {Lower: []int{20, 100, 100}, Upper: []int{35, 255, 255}},
			"red": {
				Lower1: []int{0, 100, 100}, Upper1: []int{10, 255, 255},
				Lower2: []int{170, 100, 100}, Upper2: []int{180, 255, 255},
			},
			"green": {Lower: []int{40, 80, 60}, Upper: []int{85, 255, 255}},
			"blue":  {Lower: []int{100, 120, 60}, Upper: []int{130, 255, 255}},
		},
		Morphology: MorphologyConfig{KernelSize: 5, ErosionIterations: 1, DilationIterations: 1},
		Optics:     OpticsConfig{FocalLengthPx: 600, CanDiameterCm: 6.6, ContainerDiameterCm: 75},
		Cans: CanConfig{
			Color:                "black",
			BandColor:            "yellow",
			MinArea:              200,
			MaxArea:              5000,
			CircularityThreshold: 0.7,
			AspectMin:            0.5,
			AspectMax:            2.0,
		},
		Classifier: ClassifierConfig{Color: "yellow", YellowThreshold: 0.15, BottomFraction: 0.25},
		Containers: ContainerConfig{
			RedColor:         "red",
			GreenColor:       "green",
			MinRadius:        30,
			MaxRadius:        160,
			RimWidthFraction: 0.1,
			MinRimCoverage:   0.6,
		},
		Obstacles: ObstacleConfig{
			MinArea:         30000,
			SafetyFactor:    2,
			Margin:          50,
			TallAspect:      1.8,
			WideAspect:      0.7,
			EdgeLow:         50,
			EdgeHigh:        150,
			CloseKernel:     5,
			CloseIterations: 2,
			KnownHeightsCm: map[string]float64{
				string(entity.ObstacleMannequin): 170,
				string(entity.ObstacleChair):     80,
				string(entity.ObstacleUmbrella):  200,
				string(entity.ObstacleUnknown):   100,
			},
		},
		Boundary: BoundaryConfig{
			Color:            "blue",
			RegionFraction:   0.25,
			WarningThreshold: 0.10,
			DangerThreshold:  0.30,
			NoiseFloor:       0.05,
			EscalationFrames: 3,
			ReleaseFrames:    0,
		},
	}
}

// Validate проверяет конфигурацию целиком и называет первый сломанный ключ.
func (c Config) Validate() error {
	if len(c.Colors) == 0 {
		return &entity.ConfigurationError{Key: "colors"}
	}
	names := make([]string, 0, len(c.Colors))
	for name := range c.Colors {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if _, err := c.Colors[name].Ranges(name); err != nil {
			return err
		}
	}

	refs := []struct{ key, color string }{
		{"cans.color", c.Cans.Color},
		{"classifier.color", c.Classifier.Color},
		{"containers.red_color", c.Containers.RedColor},
		{"containers.green_color", c.Containers.GreenColor},
		{"boundary.color", c.Boundary.Color},
	}
	if c.Cans.BandColor != "" {
		refs = append(refs, struct{ key, color string }{"cans.band_color", c.Cans.BandColor})
	}
	for _, ref := range refs {
		if ref.color == "" {
			return &entity.ConfigurationError{Key: ref.key}
		}
		if _, ok := c.Colors[ref.color]; !ok {
			return &entity.ConfigurationError{Key: "colors." + ref.color, Reason: "referenced by " + ref.key}
		}
	}

	checks := []struct {
		key string
		ok  bool
	}{
		{"morphology.kernel_size", c.Morphology.KernelSize > 0},
		{"morphology.erosion_iterations", c.Morphology.ErosionIterations >= 0},
		{"morphology.dilation_iterations", c.Morphology.DilationIterations >= 0},
		{"optics.focal_length_px", c.Optics.FocalLengthPx > 0},
		{"optics.can_diameter_cm", c.Optics.CanDiameterCm > 0},
		{"optics.container_diameter_cm", c.Optics.ContainerDiameterCm > 0},
		{"cans.min_area", c.Cans.MinArea > 0},
		{"cans.max_area", c.Cans.MaxArea >= c.Cans.MinArea},
		{"cans.circularity_threshold", c.Cans.CircularityThreshold > 0 && c.Cans.CircularityThreshold <= 1},
		{"cans.aspect_max", c.Cans.AspectMin >= 0 && c.Cans.AspectMax >= c.Cans.AspectMin},
		{"classifier.yellow_threshold", c.Classifier.YellowThreshold > 0 && c.Classifier.YellowThreshold < 1},
		{"classifier.bottom_fraction", c.Classifier.BottomFraction > 0 && c.Classifier.BottomFraction <= 1},
		{"containers.min_radius", c.Containers.MinRadius > 0},
		{"containers.max_radius", c.Containers.MaxRadius >= c.Containers.MinRadius},
		{"containers.rim_width_fraction", c.Containers.RimWidthFraction > 0 && c.Containers.RimWidthFraction <= 1},
		{"containers.min_rim_coverage", c.Containers.MinRimCoverage >= 0 && c.Containers.MinRimCoverage <= 1},
		{"obstacles.safety_factor", c.Obstacles.SafetyFactor >= 1},
		{"obstacles.min_area", float64(c.Obstacles.MinArea) >= float64(c.Cans.MaxArea)*c.Obstacles.SafetyFactor},
		{"obstacles.margin", c.Obstacles.Margin >= 0},
		{"obstacles.wide_aspect", c.Obstacles.WideAspect > 0 && c.Obstacles.WideAspect < c.Obstacles.TallAspect},
		{"obstacles.edge_high", c.Obstacles.EdgeHigh > c.Obstacles.EdgeLow},
		{"obstacles.close_kernel", c.Obstacles.CloseKernel > 0 && c.Obstacles.CloseIterations >= 0},
		{"obstacles.known_heights_cm", c.Obstacles.KnownHeightsCm[string(entity.ObstacleUnknown)] > 0},
		{"boundary.region_fraction", c.Boundary.RegionFraction > 0 && c.Boundary.RegionFraction <= 0.5},
		{"boundary.warning_threshold", c.Boundary.WarningThreshold > 0 && c.Boundary.WarningThreshold < c.Boundary.DangerThreshold},
		{"boundary.danger_threshold", c.Boundary.DangerThreshold < 1},
		{"boundary.noise_floor", c.Boundary.NoiseFloor > 0 && c.Boundary.NoiseFloor <= 1},
		{"boundary.escalation_frames", c.Boundary.EscalationFrames >= 0},
		{"boundary.release_frames", c.Boundary.ReleaseFrames >= 0},
		{"preprocess.median_radius", c.Preprocess.MedianRadius >= 0},
	}
	for _, check := range checks {
		if !check.ok {
			return &entity.ConfigurationError{Key: check.key, Reason: "out of range"}
		}
	}
	return nil
}

// Ranges разбирает диапазоны цвета name.
func (s ColorSpec) Ranges(name string) ([]HSVRange, error) {
	key := "colors." + name
	if name == "red" {
		first, err := parseRange(key, "lower1", "upper1", s.Lower1, s.Upper1)
		if err != nil {
			return nil, err
		}
		second, err := parseRange(key, "lower2", "upper2", s.Lower2, s.Upper2)
		if err != nil {
			return nil, err
		}
		return []HSVRange{first, second}, nil
	}
	r, err := parseRange(key, "lower", "upper", s.Lower, s.Upper)
	if err != nil {
		return nil, err
	}
	return []HSVRange{r}, nil
}

func parseRange(key, lowerKey, upperKey string, lower, upper []int) (HSVRange, error) {
	lo, err := parseHSV(key+"."+lowerKey, lower)
	if err != nil {
		return HSVRange{}, err
	}
	hi, err := parseHSV(key+"."+upperKey, upper)
	if err != nil {
		return HSVRange{}, err
	}
	return HSVRange{Lower: lo, Upper: hi}, nil
}

func parseHSV(key string, v []int) (entity.HSV, error) {
	if v == nil {
		return entity.HSV{}, &entity.ConfigurationError{Key: key}
	}
	if len(v) != 3 {
		return entity.HSV{}, &entity.ConfigurationError{Key: key, Reason: fmt.Sprintf("want 3 values, got %d", len(v))}
	}
	if v[0] < 0 || v[0] > 180 || v[1] < 0 || v[1] > 255 || v[2] < 0 || v[2] > 255 {
		return entity.HSV{}, &entity.ConfigurationError{Key: key, Reason: fmt.Sprintf("value %v out of HSV range", v)}
	}
	return entity.HSV{H: uint8(v[0]), S: uint8(v[1]), V: uint8(v[2])}, nil
}
