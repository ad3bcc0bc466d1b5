// Package services содержит бизнес-логику жизненного цикла подписки
// и вычисления действующего тарифа.
package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/remedies-backend/internal/models"
	"github.com/magabrotheeeer/remedies-backend/internal/plan"
)

// ErrIntervalRequired возвращается при активации платного тарифа без интервала.
var ErrIntervalRequired = errors.New("subscription interval is required for paid plans")

// UserRepository описывает методы хранилища, нужные сервису подписок.
type UserRepository interface {
	// GetUser возвращает пользователя по UID.
	GetUser(ctx context.Context, uid string) (*models.User, error)
	// ActivateSubscription записывает платный тариф и срок его действия.
	ActivateSubscription(ctx context.Context, uid, planName, interval string,
		startedAt, endsAt time.Time, reference string) error
	// DowngradeSubscription сбрасывает пользователя на бесплатный тариф.
	DowngradeSubscription(ctx context.Context, uid string, reference *string) error
	// StartTrial включает пробный период, если он ещё не использован.
	StartTrial(ctx context.Context, uid string, trialEndsAt time.Time) error
}

// SubscriptionService реализует переходы состояния подписки и вычисление
// действующего тарифа.
type SubscriptionService struct {
	users UserRepository
	log   *slog.Logger
	now   func() time.Time
}

// NewSubscriptionService создает новый экземпляр SubscriptionService.
func NewSubscriptionService(users UserRepository, log *slog.Logger) *SubscriptionService {
	return &SubscriptionService{
		users: users,
		log:   log,
		now:   time.Now,
	}
}

// HasActiveSubscription сообщает, действует ли сейчас подписка или пробный
// период пользователя. Отсутствие обеих дат означает неактивную подписку.
func (s *SubscriptionService) HasActiveSubscription(user *models.User) bool {
	if user == nil {
		return false
	}
	now := s.now()
	if user.SubscriptionEndsAt != nil && now.Before(*user.SubscriptionEndsAt) {
		return true
	}
	if user.TrialEndsAt != nil && now.Before(*user.TrialEndsAt) {
		return true
	}
	return false
}

// EffectivePlan возвращает тариф, которым пользователь может пользоваться
// прямо сейчас. Гость получает rookie. Платный тариф без действующей
// подписки понижается до rookie: поле plan в базе лишь заявка, решение
// о доступе принимается только по действующему тарифу.
func (s *SubscriptionService) EffectivePlan(user *models.User) plan.Tier {
	if user == nil {
		return plan.TierRookie
	}
	tier := plan.NormalizeUser(user.Plan)
	if plan.IsPaid(tier) && !s.HasActiveSubscription(user) {
		return plan.TierRookie
	}
	return tier
}

// Activate переводит пользователя на указанный тариф. Для платного тарифа
// обязателен интервал monthly или yearly, срок действия считается от
// текущего момента. Активация rookie работает как понижение и сохраняет
// reference для аудита.
func (s *SubscriptionService) Activate(ctx context.Context, uid, rawPlan, interval, reference string) error {
	tier := plan.NormalizeUser(rawPlan)

	if !plan.IsPaid(tier) {
		var ref *string
		if reference != "" {
			ref = &reference
		}
		return s.users.DowngradeSubscription(ctx, uid, ref)
	}

	if interval != models.IntervalMonthly && interval != models.IntervalYearly {
		return ErrIntervalRequired
	}

	startedAt := s.now().UTC()
	var endsAt time.Time
	if interval == models.IntervalYearly {
		endsAt = startedAt.AddDate(1, 0, 0)
	} else {
		endsAt = startedAt.AddDate(0, 1, 0)
	}

	if err := s.users.ActivateSubscription(ctx, uid, string(tier), interval,
		startedAt, endsAt, reference); err != nil {
		return err
	}

	s.log.Info("subscription activated",
		slog.String("user_uid", uid),
		slog.String("plan", string(tier)),
		slog.String("interval", interval))
	return nil
}

// Cancel безусловно сбрасывает пользователя на rookie. Последний
// reference платежа при этом сохраняется.
func (s *SubscriptionService) Cancel(ctx context.Context, uid string) error {
	if err := s.users.DowngradeSubscription(ctx, uid, nil); err != nil {
		return err
	}
	s.log.Info("subscription cancelled", slog.String("user_uid", uid))
	return nil
}

// StartTrial включает пробный период на указанное число дней.
func (s *SubscriptionService) StartTrial(ctx context.Context, uid string, days int) error {
	trialEndsAt := s.now().UTC().AddDate(0, 0, days)
	if err := s.users.StartTrial(ctx, uid, trialEndsAt); err != nil {
		return err
	}
	s.log.Info("trial started",
		slog.String("user_uid", uid),
		slog.Time("trial_ends_at", trialEndsAt))
	return nil
}

// Status возвращает текущее состояние подписки пользователя.
func (s *SubscriptionService) Status(ctx context.Context, uid string) (*models.SubscriptionStatus, error) {
	user, err := s.users.GetUser(ctx, uid)
	if err != nil {
		return nil, err
	}
	return &models.SubscriptionStatus{
		Plan:          user.Plan,
		EffectivePlan: string(s.EffectivePlan(user)),
		IsActive:      s.HasActiveSubscription(user),
		Interval:      user.SubscriptionInterval,
		StartedAt:     user.SubscriptionStartedAt,
		EndsAt:        user.SubscriptionEndsAt,
		TrialEndsAt:   user.TrialEndsAt,
	}, nil
}
