package entity

// OperatorState состояние оператора в диалоге с ботом
type OperatorState string

const (
	StateMainMenu      OperatorState = "main_menu"      // В главном меню
	StateAwaitingPhoto OperatorState = "awaiting_photo" // Ждём снимок пляжа для проверки
	StateProcessing    OperatorState = "processing"     // Кадр обрабатывается
)

// Operator человек, отлаживающий восприятие через бота
type Operator struct {
	ID          int64         // Telegram User ID
	ChatID      int64         // Telegram Chat ID
	State       OperatorState // Текущее состояние диалога
	Inspections int           // Сколько снимков проверено
}

// NewOperator создаёт оператора в главном меню
func NewOperator(operatorID, chatID int64) *Operator {
	return &Operator{
		ID:     operatorID,
		ChatID: chatID,
		State:  StateMainMenu,
	}
}

// SetState обновляет состояние диалога
func (o *Operator) SetState(state OperatorState) {
	o.State = state
}

// Busy сообщает, что снимок оператора ещё обрабатывается.
func (o *Operator) Busy() bool {
	return o.State == StateProcessing
}
