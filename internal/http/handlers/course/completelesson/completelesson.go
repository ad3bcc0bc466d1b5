// Package completelesson реализует HTTP-обработчик завершения урока.
//
// Урок должен принадлежать указанному курсу, а курс должен быть куплен.
package completelesson

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

// Service описывает интерфейс бизнес-логики завершения урока.
type Service interface {
	CompleteLesson(ctx context.Context, userUID string, courseID, lessonID int) error
}

// Handler обрабатывает запросы на завершение урока.
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
// @Summary Завершить урок
// @Description Помечает урок курса завершенным. Требует купленный курс.
// @Tags Courses
// @Produce json
// @Param id path int true "ID курса"
// @Param lessonID path int true "ID урока"
// @Success 200 {object} map[string]any "Урок завершен"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Курс не куплен"
// @Failure 404 {object} response.ErrorResponse "Курс или урок не найдены"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Security BearerAuth
// @Router /courses/{id}/lessons/{lessonID}/complete [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.course.completelesson"

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
	lessonID, err := strconv.Atoi(chi.URLParam(r, "lessonID"))
	if err != nil {
		log.Error("failed to decode lesson id from url", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("failed to decode lesson id from url"))
		return
	}

	userUID := middlewarectx.UserUID(r.Context())
	if userUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	if err := h.service.CompleteLesson(r.Context(), userUID, courseID, lessonID); err != nil {
		switch {
		case errors.Is(err, courseservice.ErrNotFound):
			log.Error("lesson not found in course",
				slog.Int("course_id", courseID), slog.Int("lesson_id", lessonID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("lesson not found in this course"))
		case errors.Is(err, courseservice.ErrPurchaseRequired):
			log.Error("purchase required", slog.Int("course_id", courseID))
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("course must be purchased first"))
		default:
			log.Error("failed to complete lesson", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not complete lesson"))
		}
		return
	}

	log.Info("lesson completed",
		slog.String("user_uid", userUID),
		slog.Int("course_id", courseID),
		slog.Int("lesson_id", lessonID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"message": "lesson completed",
	}))
}
