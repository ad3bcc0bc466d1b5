// Package remediesbackend предоставляет маршруты для основного приложения.
package remediesbackend

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/remedies-backend/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/remedies-backend/internal/http/handlers/auth/register"
	contentlist "github.com/magabrotheeeer/remedies-backend/internal/http/handlers/content/list"
	contentread "github.com/magabrotheeeer/remedies-backend/internal/http/handlers/content/read"
	"github.com/magabrotheeeer/remedies-backend/internal/http/handlers/course/completelesson"
	"github.com/magabrotheeeer/remedies-backend/internal/http/handlers/course/confirm"
	courseprogress "github.com/magabrotheeeer/remedies-backend/internal/http/handlers/course/progress"
	"github.com/magabrotheeeer/remedies-backend/internal/http/handlers/course/purchase"
	coursestart "github.com/magabrotheeeer/remedies-backend/internal/http/handlers/course/start"
	"github.com/magabrotheeeer/remedies-backend/internal/http/handlers/subscription/activate"
	"github.com/magabrotheeeer/remedies-backend/internal/http/handlers/subscription/cancel"
	substatus "github.com/magabrotheeeer/remedies-backend/internal/http/handlers/subscription/status"
	"github.com/magabrotheeeer/remedies-backend/internal/http/handlers/subscription/trial"
	"github.com/magabrotheeeer/remedies-backend/internal/http/middlewarectx"
	authservice "github.com/magabrotheeeer/remedies-backend/internal/services/auth"
	contentservice "github.com/magabrotheeeer/remedies-backend/internal/services/content"
	courseservice "github.com/magabrotheeeer/remedies-backend/internal/services/course"
	subservice "github.com/magabrotheeeer/remedies-backend/internal/services/subscription"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger,
	authService *authservice.AuthService,
	subscriptionService *subservice.SubscriptionService,
	contentService *contentservice.Service,
	courseService *courseservice.Service,
) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/register", register.New(logger, authService).ServeHTTP)
		r.Post("/login", login.New(logger, authService).ServeHTTP)

		// Материалы доступны и гостям, тарифное ограничение
		// применяется в сервисе
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.OptionalJWTMiddleware(authService, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))
			r.Get("/contents", contentlist.New(logger, contentService).ServeHTTP)
			r.Get("/contents/{id}", contentread.New(logger, contentService).ServeHTTP)
		})

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(authService, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))
			r.Get("/subscription", substatus.New(logger, subscriptionService).ServeHTTP)
			r.Post("/subscription/activate", activate.New(logger, subscriptionService).ServeHTTP)
			r.Post("/subscription/cancel", cancel.New(logger, subscriptionService).ServeHTTP)
			r.Post("/subscription/trial", trial.New(logger, subscriptionService).ServeHTTP)
			r.Post("/courses/{id}/purchase", purchase.New(logger, courseService).ServeHTTP)
			r.Post("/courses/{id}/confirm", confirm.New(logger, courseService).ServeHTTP)
			r.Post("/courses/{id}/start", coursestart.New(logger, courseService).ServeHTTP)
			r.Post("/courses/{id}/lessons/{lessonID}/complete", completelesson.New(logger, courseService).ServeHTTP)
			r.Get("/courses/{id}/progress", courseprogress.New(logger, courseService).ServeHTTP)
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
