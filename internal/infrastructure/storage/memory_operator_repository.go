package storage

import (
	"context"
	"sync"

	"beach-vision/internal/domain/entity"
	"beach-vision/internal/domain/port"
)

// MemoryOperatorRepository in-memory хранилище операторов бота
type MemoryOperatorRepository struct {
	mu        sync.RWMutex
	operators map[int64]*entity.Operator
}

// NewMemoryOperatorRepository создаёт новое in-memory хранилище
func NewMemoryOperatorRepository() *MemoryOperatorRepository {
	return &MemoryOperatorRepository{
		operators: make(map[int64]*entity.Operator),
	}
}

// Get возвращает копию оператора по ID, создаёт нового если не найден
func (r *MemoryOperatorRepository) Get(ctx context.Context, operatorID, chatID int64) (*entity.Operator, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	op, exists := r.operators[operatorID]
	if !exists {
		op = entity.NewOperator(operatorID, chatID)
		r.operators[operatorID] = op
	}
	cp := *op
	return &cp, nil
}

// Save сохраняет состояние оператора
func (r *MemoryOperatorRepository) Save(ctx context.Context, operator *entity.Operator) error {
	cp := *operator
	r.mu.Lock()
	r.operators[operator.ID] = &cp
	r.mu.Unlock()

	return nil
}

// UpdateState обновляет состояние оператора
func (r *MemoryOperatorRepository) UpdateState(ctx context.Context, operatorID int64, state entity.OperatorState) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if op, exists := r.operators[operatorID]; exists {
		op.SetState(state)
	}

	return nil
}

// Проверка реализации интерфейса
var _ port.OperatorRepository = (*MemoryOperatorRepository)(nil)
