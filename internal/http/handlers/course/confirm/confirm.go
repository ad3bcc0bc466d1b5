// Package confirm реализует HTTP-обработчик подтверждения покупки курса.
//
// Handler проверяет платеж в шлюзе: статус, владельца из метаданных и
// совпадение суммы с текущей ценой курса. Только после всех проверок
// покупка переводится в completed.
package confirm

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/remedies-backend/internal/http/middlewarectx"
	"github.com/magabrotheeeer/remedies-backend/internal/http/response"
	"github.com/magabrotheeeer/remedies-backend/internal/lib/sl"
	"github.com/magabrotheeeer/remedies-backend/internal/models"
	courseservice "github.com/magabrotheeeer/remedies-backend/internal/services/course"
)

// Request — входные данные для подтверждения покупки
type Request struct {
	PaymentIntentID string `json:"payment_intent_id" validate:"required"`
}

// Service описывает интерфейс бизнес-логики подтверждения покупки.
type Service interface {
	ConfirmPurchase(ctx context.Context, userUID string, courseID int, paymentIntentID string) (*models.Purchase, error)
}

// Handler обрабатывает запросы на подтверждение покупки курса.
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
// @Summary Подтвердить покупку курса
// @Description Сверяет платеж со шлюзом и переводит покупку в completed.
// @Tags Courses
// @Accept json
// @Produce json
// @Param id path int true "ID курса"
// @Param request body Request true "Идентификатор платежного намерения"
// @Success 200 {object} map[string]any "Покупка завершена"
// @Failure 400 {object} response.ErrorResponse "Некорректный запрос"
// @Failure 401 {object} response.ErrorResponse "Платеж принадлежит другому пользователю"
// @Failure 404 {object} response.ErrorResponse "Курс или платеж не найдены"
// @Failure 409 {object} response.ErrorResponse "Курс уже куплен"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 502 {object} response.ErrorResponse "Платеж не прошел или сумма не совпала"
// @Security BearerAuth
// @Router /courses/{id}/confirm [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.course.confirm"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	courseID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		log.Error("failed to decode course id from url", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("failed to decode course id from url"))
		return
	}

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

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

	purchase, err := h.service.ConfirmPurchase(r.Context(), userUID, courseID, req.PaymentIntentID)
	if err != nil {
		switch {
		case errors.Is(err, courseservice.ErrNotFound):
			log.Error("course not found", slog.Int("course_id", courseID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("course not found"))
		case errors.Is(err, courseservice.ErrAlreadyPurchased):
			log.Error("course already purchased", slog.Int("course_id", courseID))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("course already purchased"))
		case errors.Is(err, courseservice.ErrPaymentOwnerMismatch):
			log.Error("payment owner mismatch",
				slog.String("user_uid", userUID),
				slog.String("payment_intent_id", req.PaymentIntentID))
			w.WriteHeader(http.StatusUnauthorized)
			render.JSON(w, r, response.Error("payment belongs to another user"))
		case errors.Is(err, courseservice.ErrPaymentNotSucceeded):
			log.Error("payment not succeeded", slog.String("payment_intent_id", req.PaymentIntentID))
			w.WriteHeader(http.StatusBadGateway)
			render.JSON(w, r, response.Error("payment has not succeeded"))
		case errors.Is(err, courseservice.ErrAmountMismatch):
			log.Error("paid amount mismatch", slog.String("payment_intent_id", req.PaymentIntentID))
			w.WriteHeader(http.StatusBadGateway)
			render.JSON(w, r, response.Error("paid amount does not match course price"))
		default:
			log.Error("failed to confirm purchase", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not confirm purchase"))
		}
		return
	}

	log.Info("purchase confirmed",
		slog.String("user_uid", userUID),
		slog.Int("course_id", courseID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"purchase_id": purchase.ID,
		"status":      purchase.Status,
		"message":     "purchase completed",
	}))
}
