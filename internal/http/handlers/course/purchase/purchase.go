// Package purchase реализует HTTP-обработчик начала покупки курса.
//
// Handler создает платежное намерение и запись покупки в статусе pending,
// возвращая клиенту client secret для завершения оплаты.
package purchase

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/remedies-backend/internal/http/middlewarectx"
	"github.com/magabrotheeeer/remedies-backend/internal/http/response"
	"github.com/magabrotheeeer/remedies-backend/internal/lib/sl"
	courseservice "github.com/magabrotheeeer/remedies-backend/internal/services/course"
)

// Service описывает интерфейс бизнес-логики начала покупки.
type Service interface {
	Purchase(ctx context.Context, userUID string, courseID int) (*courseservice.Checkout, error)
}

// Handler обрабатывает запросы на начало покупки курса.
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
// @Summary Купить курс
// @Description Создает платежное намерение и pending-покупку, возвращает client secret.
// @Tags Courses
// @Produce json
// @Param id path int true "ID курса"
// @Success 200 {object} map[string]any "Данные для завершения оплаты"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Курс не найден"
// @Failure 409 {object} response.ErrorResponse "Курс уже куплен"
// @Failure 502 {object} response.ErrorResponse "Платежный шлюз недоступен"
// @Security BearerAuth
// @Router /courses/{id}/purchase [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.course.purchase"

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

	userUID := middlewarectx.UserUID(r.Context())
	if userUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	checkout, err := h.service.Purchase(r.Context(), userUID, courseID)
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
		default:
			log.Error("failed to start purchase", sl.Err(err))
			w.WriteHeader(http.StatusBadGateway)
			render.JSON(w, r, response.Error("could not start purchase"))
		}
		return
	}

	log.Info("purchase started",
		slog.String("user_uid", userUID),
		slog.Int("course_id", courseID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"checkout": checkout,
	}))
}
