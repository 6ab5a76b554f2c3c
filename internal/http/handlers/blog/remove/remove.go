// Package remove реализует HTTP-обработчик удаления статьи блога.
package remove

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/saeifmanya/membership-portal/internal/http/response"
	"github.com/saeifmanya/membership-portal/internal/lib/sl"
	"github.com/saeifmanya/membership-portal/internal/storage/repository"
)

// Handler обрабатывает HTTP-запросы удаления статьи.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс удаления статьи.
type Service interface {
	RemoveBlog(ctx context.Context, id int) error
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Удаление статьи
// @Description Удаляет статью по id.
// @Tags Blog
// @Produce  json
// @Param id path int true "Идентификатор статьи"
// @Success 200 {object} response.Response "Статья удалена"
// @Failure 400 {object} response.ErrorResponse "Некорректный id"
// @Failure 404 {object} response.ErrorResponse "Статья не найдена"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Security BearerAuth
// @Router /admin/blogs/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.blog.remove"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		log.Error("invalid blog id", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid blog id"))
		return
	}

	if err := h.service.RemoveBlog(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrBlogNotFound) {
			log.Info("blog not found", slog.Int("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("blog not found"))
			return
		}
		log.Error("failed to remove blog", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal service error"))
		return
	}

	log.Info("blog removed", slog.Int("id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{"id": id}))
}
