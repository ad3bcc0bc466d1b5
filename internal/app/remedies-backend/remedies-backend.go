// Package remediesbackend собирает основное HTTP-приложение:
// хранилище, кеш, платежный шлюз, сервисы и маршруты.
package remediesbackend

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/magabrotheeeer/remedies-backend/internal/cache"
	"github.com/magabrotheeeer/remedies-backend/internal/config"
	"github.com/magabrotheeeer/remedies-backend/internal/lib/jwt"
	"github.com/magabrotheeeer/remedies-backend/internal/migrations"
	"github.com/magabrotheeeer/remedies-backend/internal/paymentgateway"
	"github.com/magabrotheeeer/remedies-backend/internal/services/access"
	authservice "github.com/magabrotheeeer/remedies-backend/internal/services/auth"
	contentservice "github.com/magabrotheeeer/remedies-backend/internal/services/content"
	courseservice "github.com/magabrotheeeer/remedies-backend/internal/services/course"
	subservice "github.com/magabrotheeeer/remedies-backend/internal/services/subscription"
	"github.com/magabrotheeeer/remedies-backend/internal/storage/repository"
)

// App инкапсулирует HTTP-сервер и его зависимости.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	cache  *cache.Cache
}

// New создает приложение: подключает PostgreSQL и Redis, применяет
// миграции и связывает сервисы с обработчиками.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	jwtMaker := jwt.NewMaker(cfg.JWTSecretKey, cfg.TokenTTL)
	gateway := paymentgateway.NewClient(cfg.Stripe.SecretKey, cfg.Stripe.Currency)

	authService := authservice.NewAuthService(db, jwtMaker)
	subscriptionService := subservice.NewSubscriptionService(db, logger)
	accessService := access.New(subscriptionService)
	contentService := contentservice.New(db, db, accessService, cacheRedis, logger)
	courseService := courseservice.New(db, gateway, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, authService, subscriptionService, contentService, courseService)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		cache:  cacheRedis,
	}, nil
}

// Run запускает HTTP-сервер и останавливает его при отмене контекста.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if closeErr := a.db.DB.Close(); closeErr != nil {
			a.logger.Error("failed to close database", slog.Any("err", closeErr))
		}
		if closeErr := a.cache.Db.Close(); closeErr != nil {
			a.logger.Error("failed to close redis client", slog.Any("err", closeErr))
		}
		return err
	}
}
