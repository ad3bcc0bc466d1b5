// Package read реализует HTTP-обработчик чтения материала по ID.
//
// Handler извлекает ID из URL-параметров, вызывает бизнес-логику, которая
// проверяет тарифное ограничение материала, и возвращает материал в JSON.
package read

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
	"github.com/magabrotheeeer/remedies-backend/internal/models"
	contentservice "github.com/magabrotheeeer/remedies-backend/internal/services/content"
)

// Service описывает интерфейс бизнес-логики чтения материала.
type Service interface {
	Get(ctx context.Context, userUID string, id int) (*models.Content, error)
}

// Handler обрабатывает запросы на чтение материала по ID.
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
// @Summary Прочитать материал
// @Description Возвращает материал по ID, если действующего тарифа пользователя достаточно.
// @Tags Contents
// @Produce json
// @Param id path int true "ID материала"
// @Success 200 {object} map[string]any "Материал"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 403 {object} response.ErrorResponse "Недостаточный тариф"
// @Failure 404 {object} response.ErrorResponse "Материал не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Security BearerAuth
// @Router /contents/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.content.read"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		log.Error("failed to decode id from url", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("failed to decode id from url"))
		return
	}

	userUID := middlewarectx.UserUID(r.Context())

	content, err := h.service.Get(r.Context(), userUID, id)
	if err != nil {
		switch {
		case errors.Is(err, contentservice.ErrNotFound):
			log.Error("content not found", slog.Int("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("content not found"))
		case errors.Is(err, contentservice.ErrPlanRequired):
			log.Info("plan is not sufficient", slog.Int("id", id), slog.String("user_uid", userUID))
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("your plan does not allow access to this content"))
		default:
			log.Error("failed to read content", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not read content"))
		}
		return
	}

	log.Info("content read", slog.Int("id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"content": content,
	}))
}
