package perception

import (
	"context"
	"errors"
	"fmt"
	"image"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"beach-vision/internal/domain/entity"
	"beach-vision/internal/domain/port"
)

// Имена компонентов в DetectionReport.Errors
const (
	ComponentCans       = "can_detector"
	ComponentClassifier = "can_classifier"
	ComponentContainers = "container_detector"
	ComponentObstacles  = "obstacle_detector"
	ComponentBoundary   = "boundary_detector"
)

// Pipeline один цикл восприятия: кадр -> маски -> детекторы -> отчёт.
type Pipeline struct {
	imaging    port.Imaging
	cfg        Config
	segmenter  *Segmenter
	cans       *CanDetector
	classifier *CanClassifier
	containers *ContainerDetector
	obstacles  *ObstacleDetector
	boundary   *BoundaryDetector
	debouncer  *BoundaryDebouncer
	seq        atomic.Uint64
}

type Option func(*Pipeline)

// WithDebounce включает подавление дребезга границы. Только для живого потока кадров.
func WithDebounce() Option {
	return func(p *Pipeline) {
		p.debouncer = NewBoundaryDebouncer(p.cfg.Boundary.EscalationFrames, p.cfg.Boundary.ReleaseFrames)
	}
}

// NewPipeline проверяет конфигурацию и собирает все компоненты.
func NewPipeline(imaging port.Imaging, cfg Config, opts ...Option) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	seg, err := NewSegmenter(imaging, cfg)
	if err != nil {
		return nil, err
	}
	p := &Pipeline{
		imaging:    imaging,
		cfg:        cfg,
		segmenter:  seg,
		cans:       NewCanDetector(seg, cfg),
		classifier: NewCanClassifier(cfg),
		containers: NewContainerDetector(seg, cfg),
		obstacles:  NewObstacleDetector(imaging, seg, cfg),
		boundary:   NewBoundaryDetector(seg, cfg),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Config конфигурация, с которой собран конвейер
func (p *Pipeline) Config() Config {
	return p.cfg
}

// Prepare переводит снимок в кадр цикла.
func (p *Pipeline) Prepare(img image.Image, ts time.Time) (entity.Frame, error) {
	if img == nil || img.Bounds().Empty() {
		return entity.Frame{}, entity.NewImagingError("prepare", errors.New("empty image"))
	}
	hsv, err := p.imaging.ToHSV(img)
	if err != nil {
		return entity.Frame{}, imagingError("to_hsv", err)
	}
	return entity.Frame{
		Seq:       p.seq.Add(1),
		Image:     img,
		HSV:       hsv,
		Timestamp: ts,
	}, nil
}

// Run Prepare и Process за один вызов
func (p *Pipeline) Run(ctx context.Context, capture entity.Capture) (*entity.DetectionReport, error) {
	frame, err := p.Prepare(capture.Image, capture.Timestamp)
	if err != nil {
		return nil, err
	}
	return p.Process(ctx, frame)
}

type componentResult struct {
	name string
	err  error
}

// Process прогоняет кадр через все детекторы. Отказ отдельного детектора попадает
// в отчёт, ошибка библиотеки обработки изображений прерывает цикл.
func (p *Pipeline) Process(ctx context.Context, frame entity.Frame) (*entity.DetectionReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	masks, err := p.segmenter.MaskForAll(frame.HSV)
	if err != nil {
		return nil, fmt.Errorf("segmentation: %w", err)
	}
	scene := NewScene(frame, masks)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var (
		wg         sync.WaitGroup
		cans       []entity.DetectedCan
		containers []entity.DetectedContainer
		obstacles  []entity.DetectedObstacle
		reading    BoundaryReading
		results    [5]componentResult
	)
	wg.Add(4)
	go func() {
		defer wg.Done()
		found, err := p.cans.Detect(scene)
		results[0] = componentResult{ComponentCans, err}
		if err != nil || ctx.Err() != nil {
			return
		}
		cans, err = p.classifier.ClassifyBatch(found, scene)
		results[1] = componentResult{ComponentClassifier, err}
	}()
	go func() {
		defer wg.Done()
		var err error
		containers, err = p.containers.Detect(scene)
		results[2] = componentResult{ComponentContainers, err}
	}()
	go func() {
		defer wg.Done()
		var err error
		obstacles, err = p.obstacles.Detect(scene)
		results[3] = componentResult{ComponentObstacles, err}
	}()
	go func() {
		defer wg.Done()
		var err error
		reading, err = p.boundary.Read(scene)
		results[4] = componentResult{ComponentBoundary, err}
	}()
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	report := &entity.DetectionReport{
		FrameSeq:       frame.Seq,
		FrameTimestamp: frame.Timestamp,
		FrameWidth:     frame.Width(),
		FrameHeight:    frame.Height(),
		Cans:           nonNil(cans),
		Containers:     nonNil(containers),
		Obstacles:      nonNil(withoutContainers(obstacles, containers)),
	}
	for _, r := range results {
		if r.err == nil {
			continue
		}
		var imgErr *entity.ImagingOperationError
		if errors.As(r.err, &imgErr) {
			return nil, fmt.Errorf("%s: %w", r.name, r.err)
		}
		report.Errors = append(report.Errors, entity.ComponentError{Component: r.name, Message: r.err.Error()})
	}

	if results[4].err != nil {
		// граница неизвестна: не считаем путь свободным
		report.Boundary = entity.BoundaryStatus{
			State:           entity.BoundaryWarning,
			RawState:        entity.BoundaryWarning,
			BoundaryRegions: []entity.BoundaryRegion{},
		}
		return report, nil
	}
	state := reading.Status.RawState
	if p.debouncer != nil {
		state = p.debouncer.Observe(state)
	}
	report.Boundary = reading.Resolve(state)
	return report, nil
}

// withoutContainers убирает препятствия, которые на деле являются найденным обручем.
func withoutContainers(obstacles []entity.DetectedObstacle, containers []entity.DetectedContainer) []entity.DetectedObstacle {
	if len(containers) == 0 {
		return obstacles
	}
	out := obstacles[:0:0]
	for _, o := range obstacles {
		if !coversContainer(o, containers) {
			out = append(out, o)
		}
	}
	return out
}

func coversContainer(o entity.DetectedObstacle, containers []entity.DetectedContainer) bool {
	for _, c := range containers {
		dx := float64(o.Center.X - c.Center.X)
		dy := float64(o.Center.Y - c.Center.Y)
		if math.Hypot(dx, dy) <= float64(c.Radius) {
			return true
		}
	}
	return false
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
