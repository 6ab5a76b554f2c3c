// Package portal собирает HTTP-приложение портала: хранилище, кеш,
// миграции, сервисы и маршруты.
package portal

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/saeifmanya/membership-portal/internal/cache"
	"github.com/saeifmanya/membership-portal/internal/config"
	"github.com/saeifmanya/membership-portal/internal/lib/jwt"
	"github.com/saeifmanya/membership-portal/internal/migrations"
	accessservice "github.com/saeifmanya/membership-portal/internal/services/access"
	authservice "github.com/saeifmanya/membership-portal/internal/services/auth"
	contentservice "github.com/saeifmanya/membership-portal/internal/services/content"
	membershipservice "github.com/saeifmanya/membership-portal/internal/services/membership"
	"github.com/saeifmanya/membership-portal/internal/storage/repository"
)

type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	cache  *cache.Cache
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, "./migrations"); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	jwtMaker := jwt.NewMaker(cfg.JWTSecretKey, cfg.TokenTTL)
	authService := authservice.NewAuthService(db, jwtMaker)
	membershipService := membershipservice.NewMembershipService(db, cfg.MembershipPlans)
	accessEngine := accessservice.NewEngine(logger, jwtMaker, membershipService)
	contentService := contentservice.NewContentService(logger, db, cacheRedis)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, cfg,
		authService, membershipService, accessEngine, contentService)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		cache:  cacheRedis,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if closeErr := a.db.DB.Close(); closeErr != nil {
			a.logger.Error("failed to close database", slog.Any("err", closeErr))
		}
		return err
	}
}
