package middlewarectx

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/render"

	"github.com/saeifmanya/membership-portal/internal/http/response"
	"github.com/saeifmanya/membership-portal/internal/models"
)

// CheckSubject создает middleware, пропускающий запрос только к собственным
// данным субъекта. Администратор может запрашивать данные любого субъекта.
// Сравнивается uid из URL-параметра с uid из контекста запроса.
func CheckSubject(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			subjectUID, ok := r.Context().Value(SubjectUID).(string)
			if !ok || subjectUID == "" {
				log.Error("subject identification missing")
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Error("authentication required"))
				return
			}

			role, _ := r.Context().Value(Role).(string)
			requestedUID := chi.URLParam(r, "uid")
			if requestedUID != subjectUID && role != models.RoleAdmin {
				log.Info("cross-subject access denied",
					slog.String("subject_uid", subjectUID),
					slog.String("requested_uid", requestedUID))
				w.WriteHeader(http.StatusForbidden)
				render.JSON(w, r, response.Error("access denied: wrong-subject"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
