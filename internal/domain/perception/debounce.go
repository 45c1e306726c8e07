package perception

import (
	"sync"

	"beach-vision/internal/domain/entity"
)

// BoundaryDebouncer подавляет дребезг состояния границы между кадрами.
// Повышение уровня подтверждается после escalation кадров подряд, понижение: после release.
// Принадлежит одному живому конвейеру.
type BoundaryDebouncer struct {
	mu         sync.Mutex
	escalation int
	release    int

	primed    bool
	confirmed entity.BoundaryState
	// направление текущей серии: +1 вверх, -1 вниз, 0 нет серии
	direction int
	streak    int
	bound     entity.BoundaryState
}

func NewBoundaryDebouncer(escalation, release int) *BoundaryDebouncer {
	return &BoundaryDebouncer{escalation: escalation, release: release}
}

// Observe учитывает сырое состояние кадра и возвращает подтверждённое.
func (d *BoundaryDebouncer) Observe(raw entity.BoundaryState) entity.BoundaryState {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.primed {
		d.primed = true
		d.confirmed = raw
		return raw
	}

	switch {
	case raw.Level() > d.confirmed.Level():
		// подтверждается наименьший уровень, державшийся всю серию
		if d.direction != 1 {
			d.direction, d.streak, d.bound = 1, 0, raw
		}
		d.streak++
		if raw.Level() < d.bound.Level() {
			d.bound = raw
		}
		if d.streak >= d.escalation {
			d.confirm(d.bound)
		}
	case raw.Level() < d.confirmed.Level():
		if d.direction != -1 {
			d.direction, d.streak, d.bound = -1, 0, raw
		}
		d.streak++
		if raw.Level() > d.bound.Level() {
			d.bound = raw
		}
		if d.streak >= d.release {
			d.confirm(d.bound)
		}
	default:
		d.direction, d.streak = 0, 0
	}
	return d.confirmed
}

// State текущее подтверждённое состояние; safe до первого кадра.
func (d *BoundaryDebouncer) State() entity.BoundaryState {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.primed {
		return entity.BoundarySafe
	}
	return d.confirmed
}

// Reset забывает историю, следующий кадр примется как есть.
func (d *BoundaryDebouncer) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.primed = false
	d.direction, d.streak = 0, 0
}

func (d *BoundaryDebouncer) confirm(state entity.BoundaryState) {
	d.confirmed = state
	d.direction, d.streak = 0, 0
}
