// Package cancel реализует HTTP-обработчик отмены подписки.
package cancel

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/remedies-backend/internal/http/middlewarectx"
	"github.com/magabrotheeeer/remedies-backend/internal/http/response"
	"github.com/magabrotheeeer/remedies-backend/internal/lib/sl"
)

// Service описывает интерфейс бизнес-логики отмены подписки.
type Service interface {
	Cancel(ctx context.Context, uid string) error
}

// Handler обрабатывает запросы на отмену подписки.
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
// @Summary Отменить подписку
// @Description Безусловно переводит пользователя на тариф rookie.
// @Tags Subscription
// @Produce json
// @Success 200 {object} map[string]any "Подписка отменена"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Security BearerAuth
// @Router /subscription/cancel [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.cancel"

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

	if err := h.service.Cancel(r.Context(), userUID); err != nil {
		log.Error("failed to cancel subscription", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not cancel subscription"))
		return
	}

	log.Info("subscription cancelled", slog.String("user_uid", userUID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"message": "subscription cancelled",
	}))
}
