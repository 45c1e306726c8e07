package app

import (
	"context"
	"errors"
	"time"

	"beach-vision/internal/domain/entity"
	"beach-vision/internal/domain/perception"
	"beach-vision/internal/domain/port"
)

// ErrBusy предыдущий снимок оператора ещё обрабатывается
var ErrBusy = errors.New("previous photo is still processing")

// InspectionService проверяет отдельные снимки, присланные оператором.
// Конвейер без подавления дребезга: каждый снимок оценивается сам по себе.
type InspectionService struct {
	operators *OperatorService
	decoder   port.FrameDecoder
	pipeline  *perception.Pipeline
	renderer  port.ReportRenderer
}

// InspectionOutput отчёт по снимку, подпись и картинка с разметкой.
type InspectionOutput struct {
	Report  *entity.DetectionReport
	Summary string
	Overlay []byte
}

// NewInspectionService renderer может быть nil, тогда картинка не рисуется.
func NewInspectionService(operators *OperatorService, decoder port.FrameDecoder, pipeline *perception.Pipeline, renderer port.ReportRenderer) *InspectionService {
	return &InspectionService{
		operators: operators,
		decoder:   decoder,
		pipeline:  pipeline,
		renderer:  renderer,
	}
}

// Inspect прогоняет снимок через конвейер восприятия.
func (s *InspectionService) Inspect(ctx context.Context, photo []byte) (*InspectionOutput, error) {
	if s.pipeline == nil || s.decoder == nil {
		return nil, errors.New("pipeline is not configured")
	}

	img, err := s.decoder.Decode(photo)
	if err != nil {
		return nil, err
	}

	report, err := s.pipeline.Run(ctx, entity.Capture{Image: img, Timestamp: time.Now()})
	if err != nil {
		return nil, err
	}

	out := &InspectionOutput{Report: report, Summary: Summarize(report)}
	if s.renderer != nil {
		// ошибка отрисовки не мешает ответу
		out.Overlay, _ = s.renderer.Render(img, report)
	}
	return out, nil
}

// ProcessPhoto проверяет снимок от имени оператора и возвращает его в главное меню.
func (s *InspectionService) ProcessPhoto(ctx context.Context, operatorID, chatID int64, photo []byte) (*InspectionOutput, error) {
	op, err := s.operators.Get(ctx, operatorID, chatID)
	if err != nil {
		return nil, err
	}
	if op.Busy() {
		return nil, ErrBusy
	}
	if _, err := s.operators.SetState(ctx, operatorID, chatID, entity.StateProcessing); err != nil {
		return nil, err
	}

	out, err := s.Inspect(ctx, photo)
	if err != nil {
		if _, cerr := s.operators.Cancel(ctx, operatorID, chatID); cerr != nil {
			return nil, errors.Join(err, cerr)
		}
		return nil, err
	}

	if _, err := s.operators.Complete(ctx, operatorID, chatID); err != nil {
		return nil, err
	}
	return out, nil
}
