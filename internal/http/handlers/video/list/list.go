// Package list реализует HTTP-обработчик списка записей о видео.
package list

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/saeifmanya/membership-portal/internal/http/response"
	"github.com/saeifmanya/membership-portal/internal/lib/sl"
	"github.com/saeifmanya/membership-portal/internal/models"
	"github.com/saeifmanya/membership-portal/internal/services/content"
)

// Handler обрабатывает HTTP-запросы списка видео.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс чтения списка видео.
type Service interface {
	ListVideos(ctx context.Context, limit, offset int) ([]*models.Video, error)
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Список видео
// @Description Возвращает записи о видео от новых к старым с пагинацией.
// @Tags Video
// @Produce  json
// @Param page query int false "Номер страницы, с 1"
// @Param limit query int false "Размер страницы"
// @Success 200 {object} map[string]any "Список видео"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /videos [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.video.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	limit := content.DefaultPageSize
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 && v <= 100 {
		limit = v
	}
	page := 1
	if v, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && v > 0 {
		page = v
	}

	videos, err := h.service.ListVideos(r.Context(), limit, (page-1)*limit)
	if err != nil {
		log.Error("failed to list videos", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal service error"))
		return
	}

	log.Info("videos listed", slog.Int("count", len(videos)))
	render.JSON(w, r, response.StatusOKWithData(videos))
}
