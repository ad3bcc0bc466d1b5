package models

import "time"

// SubscriptionStatus описывает текущее состояние подписки пользователя
// для ответа API.
type SubscriptionStatus struct {
	Plan          string     `json:"plan"`
	EffectivePlan string     `json:"effective_plan"`
	IsActive      bool       `json:"is_active"`
	Interval      *string    `json:"interval,omitempty"`
	StartedAt     *time.Time `json:"started_at,omitempty"`
	EndsAt        *time.Time `json:"ends_at,omitempty"`
	TrialEndsAt   *time.Time `json:"trial_ends_at,omitempty"`
}
