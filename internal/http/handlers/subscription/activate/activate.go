// Package activate реализует HTTP-обработчик активации тарифа.
//
// Для платного тарифа обязателен интервал оплаты, без него запрос
// отклоняется как невалидный. Активация rookie работает как понижение.
package activate

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/remedies-backend/internal/http/middlewarectx"
	"github.com/magabrotheeeer/remedies-backend/internal/http/response"
	"github.com/magabrotheeeer/remedies-backend/internal/lib/sl"
	subservice "github.com/magabrotheeeer/remedies-backend/internal/services/subscription"
)

// Request — входные данные для активации тарифа
type Request struct {
	Plan      string `json:"plan" validate:"required"`
	Interval  string `json:"interval" validate:"omitempty,oneof=monthly yearly"`
	Reference string `json:"reference"`
}

// Service описывает интерфейс бизнес-логики активации подписки.
type Service interface {
	Activate(ctx context.Context, uid, rawPlan, interval, reference string) error
}

// Handler обрабатывает запросы на активацию тарифа.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Активировать тариф
// @Description Переводит пользователя на тариф. Для платного тарифа обязателен интервал monthly или yearly.
// @Tags Subscription
// @Accept json
// @Produce json
// @Param request body Request true "Тариф, интервал и reference платежа"
// @Success 200 {object} map[string]any "Тариф активирован"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации или нет интервала"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Security BearerAuth
// @Router /subscription/activate [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.activate"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	log.Info("request body decoded", slog.Any("request", req))

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	userUID := middlewarectx.UserUID(r.Context())
	if userUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	err := h.service.Activate(r.Context(), userUID, req.Plan, req.Interval, req.Reference)
	if err != nil {
		if errors.Is(err, subservice.ErrIntervalRequired) {
			log.Error("interval is required for paid plan", slog.String("plan", req.Plan))
			w.WriteHeader(http.StatusUnprocessableEntity)
			render.JSON(w, r, response.Error("interval is required for paid plans"))
			return
		}
		log.Error("failed to activate subscription", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not activate subscription"))
		return
	}

	log.Info("subscription activated", slog.String("user_uid", userUID), slog.String("plan", req.Plan))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"plan":     req.Plan,
		"interval": req.Interval,
		"message":  "subscription activated",
	}))
}
