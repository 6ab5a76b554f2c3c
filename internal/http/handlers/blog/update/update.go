// Package update реализует HTTP-обработчик обновления статьи блога.
//
// Форма приходит как multipart/form-data. Если новая обложка не передана,
// прежняя остаётся без изменений.
package update

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/saeifmanya/membership-portal/internal/http/handlers/blog/create"
	"github.com/saeifmanya/membership-portal/internal/http/response"
	"github.com/saeifmanya/membership-portal/internal/lib/sl"
	"github.com/saeifmanya/membership-portal/internal/models"
	"github.com/saeifmanya/membership-portal/internal/storage/repository"
)

const maxUploadSize = 10 << 20

// Request — поля формы обновления статьи.
type Request struct {
	Title   string `validate:"required,min=1,max=200"`
	Content string `validate:"required"`
	Author  string `validate:"required,min=1,max=100"`
}

// Handler обрабатывает HTTP-запросы обновления статьи.
type Handler struct {
	log       *slog.Logger
	service   Service
	validate  *validator.Validate
	uploadDir string
}

// Service описывает интерфейс обновления статьи.
type Service interface {
	UpdateBlog(ctx context.Context, blog models.Blog, id int) error
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service, uploadDir string) *Handler {
	return &Handler{
		log:       log,
		service:   service,
		validate:  validator.New(),
		uploadDir: uploadDir,
	}
}

// ServeHTTP godoc
// @Summary Обновление статьи
// @Description Обновляет статью по id; обложка меняется только если передан новый файл.
// @Tags Blog
// @Accept  mpfd
// @Produce  json
// @Param id path int true "Идентификатор статьи"
// @Success 200 {object} response.Response "Статья обновлена"
// @Failure 400 {object} response.ErrorResponse "Некорректная форма или id"
// @Failure 404 {object} response.ErrorResponse "Статья не найдена"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Security BearerAuth
// @Router /admin/blogs/{id} [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.blog.update"

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

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		log.Error("failed to parse multipart form", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid multipart form"))
		return
	}

	req := Request{
		Title:   r.FormValue("title"),
		Content: r.FormValue("content"),
		Author:  r.FormValue("author"),
	}
	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	coverPath, err := create.SaveCover(r, h.uploadDir)
	if err != nil {
		log.Error("failed to save cover image", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to save cover image"))
		return
	}

	err = h.service.UpdateBlog(r.Context(), models.Blog{
		Title:      req.Title,
		Content:    req.Content,
		Author:     req.Author,
		CoverImage: coverPath,
	}, id)
	if err != nil {
		if errors.Is(err, repository.ErrBlogNotFound) {
			log.Info("blog not found", slog.Int("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("blog not found"))
			return
		}
		log.Error("failed to update blog", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal service error"))
		return
	}

	log.Info("blog updated", slog.Int("id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{"id": id}))
}
