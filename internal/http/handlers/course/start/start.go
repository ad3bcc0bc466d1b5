// Package start реализует HTTP-обработчик начала прохождения курса.
//
// Handler идемпотентно создает записи прогресса not_started для всех
// активных уроков купленного курса.
package start

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

// Service описывает интерфейс бизнес-логики начала курса.
type Service interface {
	StartCourse(ctx context.Context, userUID string, courseID int) (int, error)
}

// Handler обрабатывает запросы на начало прохождения курса.
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
// @Summary Начать курс
// @Description Создает записи прогресса для всех активных уроков. Требует купленный курс.
// @Tags Courses
// @Produce json
// @Param id path int true "ID курса"
// @Success 200 {object} map[string]any "Курс начат"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Курс не куплен"
// @Failure 404 {object} response.ErrorResponse "Курс не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Security BearerAuth
// @Router /courses/{id}/start [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.course.start"

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

	created, err := h.service.StartCourse(r.Context(), userUID, courseID)
	if err != nil {
		switch {
		case errors.Is(err, courseservice.ErrNotFound):
			log.Error("course not found", slog.Int("course_id", courseID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("course not found"))
		case errors.Is(err, courseservice.ErrPurchaseRequired):
			log.Error("purchase required", slog.Int("course_id", courseID))
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("course must be purchased first"))
		default:
			log.Error("failed to start course", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not start course"))
		}
		return
	}

	log.Info("course started",
		slog.String("user_uid", userUID),
		slog.Int("course_id", courseID),
		slog.Int("lessons_created", created))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"lessons_created": created,
		"message":         "course started",
	}))
}
