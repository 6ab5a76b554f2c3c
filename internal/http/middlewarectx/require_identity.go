package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/saeifmanya/membership-portal/internal/http/response"
	"github.com/saeifmanya/membership-portal/internal/services/access"
)

// IdentityResolver проверяет токен и возвращает личность субъекта.
type IdentityResolver interface {
	Identify(tokenStr string) (*access.Identity, error)
}

// RequireIdentity возвращает middleware, требующий только аутентификацию:
// валидный токен кладёт uid субъекта и роль в контекст, членство не
// проверяется. Используется маршрутами, где достаточно знать, кто пришёл.
func RequireIdentity(log *slog.Logger, resolver IdentityResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.RequireIdentity"

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			tokenStr := BearerToken(r)
			if tokenStr == "" {
				log.Info("missing bearer token")
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Error("authentication required"))
				return
			}

			identity, err := resolver.Identify(tokenStr)
			if err != nil {
				log.Info("token rejected")
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Error("authentication required"))
				return
			}

			ctx := context.WithValue(r.Context(), SubjectUID, identity.SubjectUID)
			ctx = context.WithValue(ctx, Role, identity.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
