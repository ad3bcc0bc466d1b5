package models

import "time"

// Статусы записи о покупке курса.
const (
	PurchasePending   = "pending"
	PurchaseCompleted = "completed"
	PurchaseFailed    = "failed"
)

// Purchase — запись о покупке курса пользователем.
//
// Инвариант "не более одной завершенной покупки на пару (пользователь, курс)"
// обеспечивается частичным уникальным индексом в базе, а не только проверкой
// в коде.
type Purchase struct {
	ID          int
	UserUID     string
	CourseID    int
	Method      string  // Способ оплаты, например "stripe"
	Reference   string  // Идентификатор платежа во внешнем шлюзе
	AmountPaid  float64 // Сумма, зафиксированная при подтверждении
	Status      string
	PurchasedAt time.Time
}
