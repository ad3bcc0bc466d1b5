// Package models содержит доменные структуры приложения: учетные записи,
// контент, курсы, покупки и прогресс уроков, а также вспомогательные
// типы для приёма данных из JSON-запросов.
package models

import "time"

// User представляет зарегистрированного пользователя системы.
//
// Поле Plan хранит заявленный тариф и само по себе не дает доступа:
// решение о доступе всегда принимается по эффективному тарифу с учетом
// сроков подписки и пробного периода. Инвариант: для тарифа rookie поля
// SubscriptionInterval, SubscriptionStartedAt и SubscriptionEndsAt пусты.
type User struct {
	UID                   string     // Уникальный идентификатор пользователя
	Email                 string     // Электронная почта
	Username              string     // Имя пользователя (уникальное)
	PasswordHash          string     // Хэш пароля пользователя
	Role                  string     // Роль пользователя, admin или user
	Plan                  string     // Заявленный тариф: rookie, skilled или master
	SubscriptionInterval  *string    // Интервал оплаты: monthly или yearly
	SubscriptionStartedAt *time.Time // Начало оплаченного периода
	SubscriptionEndsAt    *time.Time // Конец оплаченного периода
	TrialEndsAt           *time.Time // Конец пробного периода
	HasUsedTrial          bool       // Использован ли пробный период
	LastSubscriptionRef   *string    // Ссылка платежного шлюза последней активации
	CreatedAt             time.Time
}

// Интервалы оплаты подписки.
const (
	IntervalMonthly = "monthly"
	IntervalYearly  = "yearly"
)

// UserReminderInfo используется планировщиком напоминаний:
// данные пользователя, у которого завтра заканчивается подписка.
type UserReminderInfo struct {
	Email    string
	Username string
	Plan     string
	EndsAt   time.Time
}
