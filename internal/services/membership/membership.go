// Package membership содержит логику учёта членства: тарифы, продление по
// оплате и вычисление текущего статуса.
package membership

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/saeifmanya/membership-portal/internal/config"
	"github.com/saeifmanya/membership-portal/internal/models"
	"github.com/saeifmanya/membership-portal/internal/storage/repository"
)

// ErrUnknownTier возвращается, когда тариф из платежа не входит в прайс.
var ErrUnknownTier = errors.New("unknown membership tier")

// Причины, объясняющие неактивный статус. "active" ставится для единообразия
// и в успешном случае.
const (
	ReasonActive  = "active"
	ReasonExpired = "membership-expired"
	ReasonAbsent  = "membership-absent"
)

// Status описывает текущее состояние членства субъекта.
type Status struct {
	IsActive  bool       `json:"is_active"`
	Tier      string     `json:"tier,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	Reason    string     `json:"reason"`
}

// MembershipRepository описывает контракт для работы с членствами в базе данных.
type MembershipRepository interface {
	// UpsertMembership продлевает или создает членство. months == nil означает
	// пожизненный тариф без даты окончания.
	UpsertMembership(ctx context.Context, subjectUID, tier, paymentRef string, months *int) (*models.Membership, error)

	// GetMembership возвращает членство субъекта.
	GetMembership(ctx context.Context, subjectUID string) (*models.Membership, error)
}

// MembershipService отвечает за продление членства по оплате и статусы.
type MembershipService struct {
	repo  MembershipRepository
	plans config.MembershipPlans
}

// NewMembershipService создает новый экземпляр MembershipService.
func NewMembershipService(repo MembershipRepository, plans config.MembershipPlans) *MembershipService {
	return &MembershipService{repo: repo, plans: plans}
}

// PlanMonths возвращает длительность тарифа в месяцах.
// Для пожизненного тарифа возвращает nil.
func (s *MembershipService) PlanMonths(tier string) (*int, error) {
	switch tier {
	case models.TierSixMonth:
		months := s.plans.SixMonthMonths
		return &months, nil
	case models.TierOneYear:
		months := s.plans.OneYearMonths
		return &months, nil
	case models.TierLifetime:
		return nil, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownTier, tier)
	}
}

// PlanPrice возвращает цену тарифа в рупиях.
func (s *MembershipService) PlanPrice(tier string) (int, error) {
	switch tier {
	case models.TierSixMonth:
		return s.plans.SixMonthPrice, nil
	case models.TierOneYear:
		return s.plans.OneYearPrice, nil
	case models.TierLifetime:
		return s.plans.LifetimePrice, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownTier, tier)
	}
}

// RecordPayment продлевает членство после подтверждённой оплаты и возвращает
// обновлённую запись. Продление идёт от максимума из текущей даты окончания и
// настоящего момента, так что ранний платёж не съедает оплаченные дни.
func (s *MembershipService) RecordPayment(ctx context.Context, subjectUID, tier, paymentRef string) (*models.Membership, error) {
	const op = "services.membership.RecordPayment"
	months, err := s.PlanMonths(tier)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	m, err := s.repo.UpsertMembership(ctx, subjectUID, tier, paymentRef, months)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return m, nil
}

// Status вычисляет текущий статус членства субъекта.
// Отсутствие записи о членстве это обычный ответ, а не ошибка.
func (s *MembershipService) Status(ctx context.Context, subjectUID string, now time.Time) (*Status, error) {
	const op = "services.membership.Status"
	m, err := s.repo.GetMembership(ctx, subjectUID)
	if err != nil {
		if errors.Is(err, repository.ErrMembershipNotFound) {
			return &Status{IsActive: false, Reason: ReasonAbsent}, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !m.Active(now) {
		return &Status{
			IsActive:  false,
			Tier:      m.Tier,
			ExpiresAt: m.ExpiresAt,
			Reason:    ReasonExpired,
		}, nil
	}
	return &Status{
		IsActive:  true,
		Tier:      m.Tier,
		ExpiresAt: m.ExpiresAt,
		Reason:    ReasonActive,
	}, nil
}
