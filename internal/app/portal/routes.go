// Package portal предоставляет маршруты для основного приложения.
package portal

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/saeifmanya/membership-portal/internal/config"
	"github.com/saeifmanya/membership-portal/internal/http/handlers/auth/login"
	"github.com/saeifmanya/membership-portal/internal/http/handlers/auth/register"
	blogcreate "github.com/saeifmanya/membership-portal/internal/http/handlers/blog/create"
	bloglist "github.com/saeifmanya/membership-portal/internal/http/handlers/blog/list"
	blogread "github.com/saeifmanya/membership-portal/internal/http/handlers/blog/read"
	blogremove "github.com/saeifmanya/membership-portal/internal/http/handlers/blog/remove"
	blogupdate "github.com/saeifmanya/membership-portal/internal/http/handlers/blog/update"
	"github.com/saeifmanya/membership-portal/internal/http/handlers/health"
	"github.com/saeifmanya/membership-portal/internal/http/handlers/members/dashboard"
	"github.com/saeifmanya/membership-portal/internal/http/handlers/membership/status"
	"github.com/saeifmanya/membership-portal/internal/http/handlers/payment/paymentwebhook"
	videocreate "github.com/saeifmanya/membership-portal/internal/http/handlers/video/create"
	videolist "github.com/saeifmanya/membership-portal/internal/http/handlers/video/list"
	videoremove "github.com/saeifmanya/membership-portal/internal/http/handlers/video/remove"
	videoupdate "github.com/saeifmanya/membership-portal/internal/http/handlers/video/update"
	"github.com/saeifmanya/membership-portal/internal/http/middlewarectx"
	accessservice "github.com/saeifmanya/membership-portal/internal/services/access"
	authservice "github.com/saeifmanya/membership-portal/internal/services/auth"
	contentservice "github.com/saeifmanya/membership-portal/internal/services/content"
	membershipservice "github.com/saeifmanya/membership-portal/internal/services/membership"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, cfg *config.Config,
	authService *authservice.AuthService,
	membershipService *membershipservice.MembershipService,
	accessEngine *accessservice.Engine,
	contentService *contentservice.ContentService,
) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки: витрина и аутентификация
		r.Get("/health", health.New(logger).ServeHTTP)
		r.Get("/blogs", bloglist.New(logger, contentService).ServeHTTP)
		r.Get("/blogs/{id}", blogread.New(logger, contentService).ServeHTTP)
		r.Get("/videos", videolist.New(logger, contentService).ServeHTTP)

		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.RateLimitMiddleware(logger))
			r.Post("/register", register.New(logger, authService).ServeHTTP)
			r.Post("/login", login.New(logger, authService).ServeHTTP)
		})

		// Статус членства: субъект видит свой, администратор — любой
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.RequireIdentity(logger, accessEngine))
			r.Use(middlewarectx.CheckSubject(logger))
			r.Get("/membership/status/{uid}", status.New(logger, membershipService).ServeHTTP)
		})

		// Закрытая зона участников
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.RequireCapability(logger, accessEngine, accessservice.CapabilityActiveMember))
			r.Get("/members/dashboard", dashboard.New(logger, membershipService).ServeHTTP)
		})

		// Административная зона: управление контентом
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.RequireCapability(logger, accessEngine, accessservice.CapabilityAdmin))
			r.Post("/admin/blogs", blogcreate.New(logger, contentService, cfg.UploadDir).ServeHTTP)
			r.Put("/admin/blogs/{id}", blogupdate.New(logger, contentService, cfg.UploadDir).ServeHTTP)
			r.Delete("/admin/blogs/{id}", blogremove.New(logger, contentService).ServeHTTP)
			r.Post("/admin/videos", videocreate.New(logger, contentService).ServeHTTP)
			r.Put("/admin/videos/{id}", videoupdate.New(logger, contentService).ServeHTTP)
			r.Delete("/admin/videos/{id}", videoremove.New(logger, contentService).ServeHTTP)
		})

		// Webhook endpoint (подпись вместо аутентификации)
		r.Post("/payments/webhook", paymentwebhook.New(logger, membershipService, cfg.WebhookSecret).ServeHTTP)
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
