// Package middlewarectx содержит HTTP middleware контроля доступа.
//
// RequireCapability извлекает токен из заголовка Authorization, передаёт его
// движку решений о доступе и по итогу либо кладёт личность субъекта в контекст
// запроса, либо отвечает отказом. Отказ по правилам и сбой инфраструктуры
// дают разные статусы: 401/403 против 500.
package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/saeifmanya/membership-portal/internal/http/response"
	"github.com/saeifmanya/membership-portal/internal/lib/sl"
	"github.com/saeifmanya/membership-portal/internal/services/access"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

const (
	// SubjectUID — ключ для uid субъекта в контексте
	SubjectUID Key = "subject_uid"
	// Role — ключ для роли субъекта в контексте
	Role Key = "role"
)

// AccessEngine описывает интерфейс движка решений о доступе.
type AccessEngine interface {
	Authorize(ctx context.Context, tokenStr string, capability access.Capability) (*access.Decision, error)
}

// BearerToken извлекает токен из заголовка Authorization.
// Возвращает пустую строку, если заголовок отсутствует или не Bearer.
func BearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(authHeader, "Bearer ")
}

// RequireCapability возвращает middleware, пропускающий запрос только если
// движок разрешил операцию уровня capability.
//
// Отсутствие аутентификации даёт 401, отказ по роли или членству — 403,
// сбой инфраструктуры — 500 без выдачи доступа.
func RequireCapability(log *slog.Logger, engine AccessEngine, capability access.Capability) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.RequireCapability"

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			decision, err := engine.Authorize(r.Context(), BearerToken(r), capability)
			if err != nil {
				log.Error("access check failed", sl.Err(err))
				w.WriteHeader(http.StatusInternalServerError)
				render.JSON(w, r, response.Error("internal service error"))
				return
			}
			if !decision.Allowed {
				switch decision.Reason {
				case access.ReasonUnauthenticated:
					log.Info("access denied", slog.String("reason", decision.Reason))
					w.WriteHeader(http.StatusUnauthorized)
					render.JSON(w, r, response.Error("authentication required"))
				default:
					log.Info("access denied", slog.String("reason", decision.Reason))
					w.WriteHeader(http.StatusForbidden)
					render.JSON(w, r, response.Error("access denied: "+decision.Reason))
				}
				return
			}

			ctx := r.Context()
			if decision.Identity != nil {
				ctx = context.WithValue(ctx, SubjectUID, decision.Identity.SubjectUID)
				ctx = context.WithValue(ctx, Role, decision.Identity.Role)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
