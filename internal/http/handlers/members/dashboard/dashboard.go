// Package dashboard реализует HTTP-обработчик закрытой страницы участников.
//
// Маршрут защищён middleware уровня "активный участник": сюда попадают
// только субъекты с действующим членством и администраторы.
package dashboard

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/saeifmanya/membership-portal/internal/http/middlewarectx"
	"github.com/saeifmanya/membership-portal/internal/http/response"
	"github.com/saeifmanya/membership-portal/internal/lib/sl"
	"github.com/saeifmanya/membership-portal/internal/services/membership"
)

// Handler обрабатывает HTTP-запросы страницы участников.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс чтения статуса членства.
type Service interface {
	Status(ctx context.Context, subjectUID string, now time.Time) (*membership.Status, error)
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Страница участников
// @Description Возвращает данные закрытой страницы: личность субъекта и статус его членства.
// @Tags Members
// @Produce  json
// @Success 200 {object} map[string]any "Данные страницы"
// @Failure 401 {object} response.ErrorResponse "Не аутентифицирован"
// @Failure 403 {object} response.ErrorResponse "Членство неактивно"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Security BearerAuth
// @Router /members/dashboard [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.members.dashboard"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	subjectUID, _ := r.Context().Value(middlewarectx.SubjectUID).(string)
	role, _ := r.Context().Value(middlewarectx.Role).(string)

	st, err := h.service.Status(r.Context(), subjectUID, time.Now())
	if err != nil {
		log.Error("failed to get membership status", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal service error"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"subject_uid": subjectUID,
		"role":        role,
		"membership":  st,
	}))
}
