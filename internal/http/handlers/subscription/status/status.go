// Package status реализует HTTP-обработчик чтения состояния подписки.
package status

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/remedies-backend/internal/http/middlewarectx"
	"github.com/magabrotheeeer/remedies-backend/internal/http/response"
	"github.com/magabrotheeeer/remedies-backend/internal/lib/sl"
	"github.com/magabrotheeeer/remedies-backend/internal/models"
)

// Service описывает интерфейс бизнес-логики состояния подписки.
type Service interface {
	Status(ctx context.Context, uid string) (*models.SubscriptionStatus, error)
}

// Handler обрабатывает запросы на чтение состояния подписки.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Состояние подписки
// @Description Возвращает заявленный и действующий тарифы, признак активности и сроки.
// @Tags Subscription
// @Produce json
// @Success 200 {object} map[string]any "Состояние подписки"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Security BearerAuth
// @Router /subscription [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.status"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID := middlewarectx.UserUID(r.Context())
	if userUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	status, err := h.service.Status(r.Context(), userUID)
	if err != nil {
		log.Error("failed to read subscription status", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read subscription status"))
		return
	}

	log.Info("subscription status read", slog.String("user_uid", userUID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"subscription": status,
	}))
}
