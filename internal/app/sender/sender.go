// Package sender собирает приложение отправки напоминаний: читает
// сообщения об истекающих подписках из RabbitMQ и шлет письма по SMTP.
package sender

import (
	"context"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/remedies-backend/internal/config"
	"github.com/magabrotheeeer/remedies-backend/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/remedies-backend/internal/lib/smtp"
	senderservice "github.com/magabrotheeeer/remedies-backend/internal/services/sender"
)

// App представляет приложение отправки напоминаний.
type App struct {
	conn          *amqp.Connection
	ch            *amqp.Channel
	senderService *senderservice.SenderService
	logger        *slog.Logger
}

// New создает новый экземпляр приложения отправки напоминаний.
func New(_ context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	conn, err := rabbitmq.Connect(cfg.RabbitMQ.AmqpURL, cfg.RabbitMQ.MaxRetries, cfg.RabbitMQ.RetryDelay)
	if err != nil {
		return nil, err
	}

	queues := rabbitmq.GetReminderQueues()
	ch, err := rabbitmq.SetupChannel(conn, queues)
	if err != nil {
		if closeErr := conn.Close(); closeErr != nil {
			logger.Error("failed to close connection", slog.Any("err", closeErr))
		}
		return nil, err
	}

	transport := smtp.NewTransport(cfg, logger)
	senderService := senderservice.NewSenderService(logger, transport)

	return &App{
		conn:          conn,
		ch:            ch,
		senderService: senderService,
		logger:        logger,
	}, nil
}

// Run запускает потребителя очереди напоминаний до отмены контекста.
func (a *App) Run(ctx context.Context) error {
	err := rabbitmq.ConsumeMessages(ctx, a.ch, "subscription.expiring", a.senderService.SendExpiringSubscriptionInfo)
	if err != nil {
		a.logger.Error("failed to start subscription.expiring consumer", slog.Any("err", err))
		return err
	}

	<-ctx.Done()
	a.logger.Info("sender service shutting down gracefully")

	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", slog.Any("err", err))
	}

	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", slog.Any("err", err))
	}

	return nil
}
