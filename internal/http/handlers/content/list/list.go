// Package list реализует HTTP-обработчик списка материалов.
//
// Список не фильтруется по тарифу: закрытые позиции возвращаются вместе
// с их тарифной меткой, чтобы клиент мог показать замок.
package list

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/remedies-backend/internal/http/response"
	"github.com/magabrotheeeer/remedies-backend/internal/lib/sl"
	"github.com/magabrotheeeer/remedies-backend/internal/models"
)

// Service описывает интерфейс бизнес-логики списка материалов.
type Service interface {
	List(ctx context.Context, kind string, limit, offset int) ([]*models.Content, error)
}

// Handler обрабатывает запросы на список материалов.
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
// @Summary Список материалов
// @Description Возвращает материалы с пагинацией, опционально по виду (remedy, article, video).
// @Tags Contents
// @Produce json
// @Param kind query string false "Вид материала"
// @Param limit query int false "Размер страницы, по умолчанию 20"
// @Param offset query int false "Смещение, по умолчанию 0"
// @Success 200 {object} map[string]any "Список материалов"
// @Failure 422 {object} response.ErrorResponse "Неизвестный вид материала"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Security BearerAuth
// @Router /contents [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.content.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	kind := r.URL.Query().Get("kind")
	if kind != "" && !models.ContentKind(kind).Valid() {
		log.Error("unknown content kind", slog.String("kind", kind))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.Error("unknown content kind"))
		return
	}

	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 || limit > 100 {
		limit = 20
	}
	offset, err := strconv.Atoi(r.URL.Query().Get("offset"))
	if err != nil || offset < 0 {
		offset = 0
	}

	contents, err := h.service.List(r.Context(), kind, limit, offset)
	if err != nil {
		log.Error("failed to list contents", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list contents"))
		return
	}

	log.Info("contents listed", slog.Int("count", len(contents)))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"contents": contents,
	}))
}
