// Package create реализует HTTP-обработчик создания статьи блога.
//
// Запрос приходит как multipart/form-data: текстовые поля статьи и
// необязательный файл обложки coverImage. Обложка сохраняется в каталог
// загрузок под именем на основе UUID.
package create

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"
	"github.com/google/uuid"

	"github.com/saeifmanya/membership-portal/internal/http/response"
	"github.com/saeifmanya/membership-portal/internal/lib/sl"
	"github.com/saeifmanya/membership-portal/internal/models"
)

// maxUploadSize ограничивает размер multipart-запроса.
const maxUploadSize = 10 << 20

// Request — поля формы создания статьи.
type Request struct {
	Title   string `validate:"required,min=1,max=200"`
	Content string `validate:"required"`
	Author  string `validate:"required,min=1,max=100"`
}

// Handler обрабатывает HTTP-запросы создания статьи.
type Handler struct {
	log       *slog.Logger
	service   Service
	validate  *validator.Validate
	uploadDir string
}

// Service описывает интерфейс создания статьи.
type Service interface {
	CreateBlog(ctx context.Context, blog models.Blog) (int, error)
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
// @Summary Создание статьи
// @Description Создает статью с необязательной обложкой (multipart/form-data).
// @Tags Blog
// @Accept  mpfd
// @Produce  json
// @Param title formData string true "Заголовок"
// @Param content formData string true "Текст статьи"
// @Param author formData string true "Автор"
// @Param coverImage formData file false "Обложка"
// @Success 200 {object} map[string]any "Идентификатор статьи"
// @Failure 400 {object} response.ErrorResponse "Некорректная форма"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Security BearerAuth
// @Router /admin/blogs [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.blog.create"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

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

	coverPath, err := SaveCover(r, h.uploadDir)
	if err != nil {
		log.Error("failed to save cover image", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to save cover image"))
		return
	}

	id, err := h.service.CreateBlog(r.Context(), models.Blog{
		Title:      req.Title,
		Content:    req.Content,
		Author:     req.Author,
		CoverImage: coverPath,
	})
	if err != nil {
		log.Error("failed to create blog", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal service error"))
		return
	}

	log.Info("blog created", slog.Int("id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{"id": id}))
}

// SaveCover сохраняет файл coverImage из формы в uploadDir и возвращает
// имя сохранённого файла. Отсутствие файла не является ошибкой: тогда
// возвращается пустая строка.
func SaveCover(r *http.Request, uploadDir string) (string, error) {
	file, header, err := r.FormFile("coverImage")
	if err != nil {
		if err == http.ErrMissingFile {
			return "", nil
		}
		return "", err
	}
	defer file.Close()

	name := uuid.NewString() + filepath.Ext(header.Filename)
	dst, err := os.Create(filepath.Join(uploadDir, name))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		return "", err
	}
	return name, nil
}
