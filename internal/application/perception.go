package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"beach-vision/internal/domain/entity"
	"beach-vision/internal/domain/perception"
	"beach-vision/internal/domain/port"
	"beach-vision/internal/logger"
)

// maxSourceFailures подряд идущих ошибок источника, после которых цикл останавливается
const maxSourceFailures = 10

// Publisher именованный получатель отчётов
type Publisher struct {
	Name string
	port.ReportPublisher
}

// PerceptionStats счётчики живого цикла
type PerceptionStats struct {
	Frames        uint64
	FailedFrames  uint64
	PublishErrors uint64
}

// PerceptionService живой цикл: кадр -> конвейер -> получатели.
// Кадры обрабатываются строго по одному, порядок отчётов совпадает с порядком кадров.
type PerceptionService struct {
	source     port.FrameSource
	pipeline   *perception.Pipeline
	publishers []Publisher
	logger     *logger.Logger

	latest        atomic.Pointer[entity.DetectionReport]
	frames        atomic.Uint64
	failedFrames  atomic.Uint64
	publishErrors atomic.Uint64
}

// NewPerceptionService pipeline должен быть собран с perception.WithDebounce.
func NewPerceptionService(source port.FrameSource, pipeline *perception.Pipeline, log *logger.Logger, publishers ...Publisher) *PerceptionService {
	return &PerceptionService{
		source:     source,
		pipeline:   pipeline,
		publishers: publishers,
		logger:     log,
	}
}

// Run крутит цикл до отмены ctx или конца записи.
func (s *PerceptionService) Run(ctx context.Context) error {
	failures := 0
	for {
		capture, err := s.source.Next(ctx)
		switch {
		case err == nil:
			failures = 0
		case errors.Is(err, entity.ErrNoFrame):
			s.logger.Info("Frame source exhausted after %d frames", s.frames.Load())
			return nil
		case ctx.Err() != nil:
			return nil
		default:
			failures++
			s.logger.Warning("Frame source error (%d in a row): %v", failures, err)
			if failures >= maxSourceFailures {
				return fmt.Errorf("frame source failed %d times in a row: %w", failures, err)
			}
			continue
		}

		report, err := s.pipeline.Run(ctx, capture)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			s.failedFrames.Add(1)
			s.logger.Error("Perception cycle failed: %v", err)
			continue
		}

		s.frames.Add(1)
		s.latest.Store(report)
		for _, e := range report.Errors {
			s.logger.Warning("Frame %d: %s failed: %s", report.FrameSeq, e.Component, e.Message)
		}
		s.logger.Debug("Frame %d: cans=%d containers=%d obstacles=%d boundary=%s",
			report.FrameSeq, len(report.Cans), len(report.Containers), len(report.Obstacles), report.Boundary.State)

		s.publish(ctx, report)
	}
}

// publish раздаёт отчёт всем получателям параллельно; отказ получателя не останавливает цикл.
func (s *PerceptionService) publish(ctx context.Context, report *entity.DetectionReport) {
	var wg sync.WaitGroup
	for _, p := range s.publishers {
		wg.Add(1)
		go func(p Publisher) {
			defer wg.Done()
			if err := p.Publish(ctx, report); err != nil {
				s.publishErrors.Add(1)
				s.logger.Warning("Publisher %s failed on frame %d: %v", p.Name, report.FrameSeq, err)
			}
		}(p)
	}
	wg.Wait()
}

// Latest последний отчёт или nil, если кадров ещё не было.
func (s *PerceptionService) Latest() *entity.DetectionReport {
	return s.latest.Load()
}

func (s *PerceptionService) Stats() PerceptionStats {
	return PerceptionStats{
		Frames:        s.frames.Load(),
		FailedFrames:  s.failedFrames.Load(),
		PublishErrors: s.publishErrors.Load(),
	}
}
