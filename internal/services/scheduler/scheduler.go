// Package services содержит планировщик напоминаний об окончании подписки.
package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/remedies-backend/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/remedies-backend/internal/lib/sl"
	"github.com/magabrotheeeer/remedies-backend/internal/models"
)

// UserRepository описывает выборку пользователей для напоминаний.
type UserRepository interface {
	FindSubscriptionsEndingTomorrow(ctx context.Context) ([]*models.UserReminderInfo, error)
}

// SchedulerService периодически ищет подписки, заканчивающиеся завтра,
// и публикует напоминания в RabbitMQ.
type SchedulerService struct {
	repo UserRepository
	log  *slog.Logger
}

// NewSchedulerService создает новый экземпляр SchedulerService.
func NewSchedulerService(repo UserRepository, log *slog.Logger) *SchedulerService {
	return &SchedulerService{
		repo: repo,
		log:  log,
	}
}

// FindExpiringSubscriptions запускает цикл поиска: сразу при старте
// и далее каждые 12 часов, пока контекст не будет отменен.
func (s *SchedulerService) FindExpiringSubscriptions(ctx context.Context, channel *amqp.Channel) {
	s.runFindExpiringSubscriptions(ctx, channel)

	ticker := time.NewTicker(12 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runFindExpiringSubscriptions(ctx, channel)
		}
	}
}

func (s *SchedulerService) runFindExpiringSubscriptions(ctx context.Context, channel *amqp.Channel) {
	s.log.Info("starting service to find subscriptions expiring tomorrow")
	users, err := s.repo.FindSubscriptionsEndingTomorrow(ctx)
	if err != nil {
		s.log.Error("failed to find expiring subscriptions", sl.Err(err))
		return
	}
	if len(users) == 0 {
		s.log.Info("no expiring subscriptions found")
		return
	}
	s.log.Info("found expiring subscriptions", "count", len(users))
	for _, user := range users {
		if err = rabbitmq.PublishMessage(channel, "notifications", "expiring", user); err != nil {
			s.log.Error("failed to publish message", sl.Err(err))
		}
	}
}
