// Package trial реализует HTTP-обработчик включения пробного периода.
//
// Пробный период выдается один раз на учетную запись, повторный запрос
// отклоняется.
package trial

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/remedies-backend/internal/http/middlewarectx"
	"github.com/magabrotheeeer/remedies-backend/internal/http/response"
	"github.com/magabrotheeeer/remedies-backend/internal/lib/sl"
	"github.com/magabrotheeeer/remedies-backend/internal/storage/repository"
)

// trialDays — длительность пробного периода.
const trialDays = 7

// Service описывает интерфейс бизнес-логики пробного периода.
type Service interface {
	StartTrial(ctx context.Context, uid string, days int) error
}

// Handler обрабатывает запросы на включение пробного периода.
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
// @Summary Включить пробный период
// @Description Дает 7 дней доступа. Повторное включение отклоняется.
// @Tags Subscription
// @Produce json
// @Success 200 {object} map[string]any "Пробный период включен"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 409 {object} response.ErrorResponse "Пробный период уже использован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Security BearerAuth
// @Router /subscription/trial [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.trial"

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

	if err := h.service.StartTrial(r.Context(), userUID, trialDays); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			log.Error("trial already used", slog.String("user_uid", userUID))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("trial has already been used"))
			return
		}
		log.Error("failed to start trial", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not start trial"))
		return
	}

	log.Info("trial started", slog.String("user_uid", userUID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"trial_days": trialDays,
		"message":    "trial started",
	}))
}
