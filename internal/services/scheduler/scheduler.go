// Package services содержит планировщик напоминаний об истечении членства.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/saeifmanya/membership-portal/internal/lib/rabbitmq"
	"github.com/saeifmanya/membership-portal/internal/lib/sl"
	"github.com/saeifmanya/membership-portal/internal/models"
)

const routingKeyExpiring = "expiring"

// MembershipRepository описывает выборку членств для напоминаний.
type MembershipRepository interface {
	FindMembershipsExpiringTomorrow(ctx context.Context) ([]*models.ReminderInfo, error)
}

// Publisher публикует сообщения в очередь.
type Publisher interface {
	Publish(exchange, routingKey string, message any) error
}

// SchedulerService раз в сутки находит истекающие членства и отправляет
// напоминания в очередь.
type SchedulerService struct {
	log       *slog.Logger
	repo      MembershipRepository
	publisher Publisher
	interval  time.Duration
}

// NewSchedulerService создает новый экземпляр SchedulerService.
func NewSchedulerService(log *slog.Logger, repo MembershipRepository, publisher Publisher, interval time.Duration) *SchedulerService {
	return &SchedulerService{
		log:       log,
		repo:      repo,
		publisher: publisher,
		interval:  interval,
	}
}

// Start запускает цикл планировщика. Блокирует до отмены контекста.
func (s *SchedulerService) Start(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.log.Info("scheduler started", slog.Duration("interval", s.interval))
	for {
		select {
		case <-ctx.Done():
			s.log.Info("scheduler stopped")
			return
		case <-ticker.C:
			if err := s.PublishExpiringReminders(ctx); err != nil {
				s.log.Error("failed to publish reminders", sl.Err(err))
			}
		}
	}
}

// PublishExpiringReminders находит членства, истекающие завтра, и публикует
// по одному сообщению на каждое. Ошибка публикации одного письма не
// останавливает остальные.
func (s *SchedulerService) PublishExpiringReminders(ctx context.Context) error {
	const op = "services.scheduler.PublishExpiringReminders"

	reminders, err := s.repo.FindMembershipsExpiringTomorrow(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if len(reminders) == 0 {
		s.log.Info("no memberships expiring tomorrow")
		return nil
	}

	var failed int
	for _, info := range reminders {
		if err := s.publisher.Publish(rabbitmq.Exchange, routingKeyExpiring, info); err != nil {
			failed++
			s.log.Error("failed to publish reminder",
				slog.String("identifier", info.Identifier), sl.Err(err))
		}
	}
	s.log.Info("reminders published",
		slog.Int("total", len(reminders)), slog.Int("failed", failed))
	if failed > 0 {
		return fmt.Errorf("%s: %d of %d reminders failed", op, failed, len(reminders))
	}
	return nil
}
