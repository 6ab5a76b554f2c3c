// Package list реализует HTTP-обработчик списка статей блога.
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

// Handler обрабатывает HTTP-запросы списка статей.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс чтения списка статей.
type Service interface {
	ListBlogs(ctx context.Context, limit, offset int) ([]*models.Blog, error)
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Список статей
// @Description Возвращает статьи от новых к старым с пагинацией через query-параметры page и limit.
// @Tags Blog
// @Produce  json
// @Param page query int false "Номер страницы, с 1"
// @Param limit query int false "Размер страницы"
// @Success 200 {object} map[string]any "Список статей"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /blogs [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.blog.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	limit, offset := pagination(r)
	blogs, err := h.service.ListBlogs(r.Context(), limit, offset)
	if err != nil {
		log.Error("failed to list blogs", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal service error"))
		return
	}

	log.Info("blogs listed", slog.Int("count", len(blogs)))
	render.JSON(w, r, response.StatusOKWithData(blogs))
}

// pagination читает page и limit из query, подставляя значения по умолчанию.
func pagination(r *http.Request) (limit, offset int) {
	limit = content.DefaultPageSize
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 && v <= 100 {
		limit = v
	}
	page := 1
	if v, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && v > 0 {
		page = v
	}
	return limit, (page - 1) * limit
}
