package app

import (
	"context"

	"beach-vision/internal/domain/entity"
	"beach-vision/internal/domain/port"
)

type OperatorService struct {
	repo port.OperatorRepository
}

func NewOperatorService(repo port.OperatorRepository) *OperatorService {
	return &OperatorService{repo: repo}
}

func (s *OperatorService) Get(ctx context.Context, operatorID, chatID int64) (*entity.Operator, error) {
	return s.repo.Get(ctx, operatorID, chatID)
}

func (s *OperatorService) SetState(ctx context.Context, operatorID, chatID int64, state entity.OperatorState) (*entity.Operator, error) {
	op, err := s.repo.Get(ctx, operatorID, chatID)
	if err != nil {
		return nil, err
	}

	op.SetState(state)
	if err := s.repo.Save(ctx, op); err != nil {
		return nil, err
	}

	return op, nil
}

func (s *OperatorService) BeginCheck(ctx context.Context, operatorID, chatID int64) (*entity.Operator, error) {
	return s.SetState(ctx, operatorID, chatID, entity.StateAwaitingPhoto)
}

func (s *OperatorService) Cancel(ctx context.Context, operatorID, chatID int64) (*entity.Operator, error) {
	return s.SetState(ctx, operatorID, chatID, entity.StateMainMenu)
}

// Complete возвращает оператора в меню и засчитывает проверенный снимок.
func (s *OperatorService) Complete(ctx context.Context, operatorID, chatID int64) (*entity.Operator, error) {
	op, err := s.repo.Get(ctx, operatorID, chatID)
	if err != nil {
		return nil, err
	}

	op.SetState(entity.StateMainMenu)
	op.Inspections++
	if err := s.repo.Save(ctx, op); err != nil {
		return nil, err
	}

	return op, nil
}
