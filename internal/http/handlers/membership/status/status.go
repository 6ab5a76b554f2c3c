// Package status реализует HTTP-обработчик запроса статуса членства.
//
// Маршрут закрыт middleware: субъект видит только свой статус,
// администратор — любой.
package status

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/saeifmanya/membership-portal/internal/http/response"
	"github.com/saeifmanya/membership-portal/internal/lib/sl"
	"github.com/saeifmanya/membership-portal/internal/services/membership"
)

// Handler обрабатывает HTTP-запросы статуса членства.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс вычисления статуса членства.
type Service interface {
	Status(ctx context.Context, subjectUID string, now time.Time) (*membership.Status, error)
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Статус членства
// @Description Возвращает текущий статус членства субъекта: активность, тариф, срок.
// @Tags Membership
// @Produce  json
// @Param uid path string true "UID субъекта"
// @Success 200 {object} membership.Status "Статус членства"
// @Failure 401 {object} response.ErrorResponse "Не аутентифицирован"
// @Failure 403 {object} response.ErrorResponse "Чужие данные"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Security BearerAuth
// @Router /membership/status/{uid} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.membership.status"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	subjectUID := chi.URLParam(r, "uid")
	st, err := h.service.Status(r.Context(), subjectUID, time.Now())
	if err != nil {
		log.Error("failed to get membership status", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal service error"))
		return
	}

	log.Info("membership status served",
		slog.String("subject_uid", subjectUID),
		slog.Bool("is_active", st.IsActive),
		slog.String("reason", st.Reason))
	render.JSON(w, r, response.StatusOKWithData(st))
}
