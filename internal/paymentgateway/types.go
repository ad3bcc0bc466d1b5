package paymentgateway

// Статусы платежного намерения, которые различает система.
// Любой другой статус шлюза трактуется как "оплата не прошла".
const (
	StatusSucceeded = "succeeded"
)

// Intent — локальное представление платежного намерения.
// Сервисы зависят от этой формы, а не от типов конкретного шлюза.
type Intent struct {
	ID             string
	ClientSecret   string
	Status         string
	AmountReceived int64             // В минимальных единицах валюты (центах)
	Metadata       map[string]string // user_uid и course_id, заложенные при создании
}
