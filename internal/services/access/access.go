// Package access реализует принятие решений о доступе: кто, с каким токеном
// и с каким членством может выполнить операцию заданного уровня.
package access

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/saeifmanya/membership-portal/internal/lib/jwt"
	"github.com/saeifmanya/membership-portal/internal/lib/sl"
	"github.com/saeifmanya/membership-portal/internal/models"
	"github.com/saeifmanya/membership-portal/internal/services/membership"
)

// Capability задает требуемый уровень доступа операции.
type Capability int

const (
	// CapabilityPublic доступно всем, токен не требуется.
	CapabilityPublic Capability = iota
	// CapabilityAdmin доступно только администраторам.
	CapabilityAdmin
	// CapabilityActiveMember доступно субъектам с активным членством
	// и администраторам.
	CapabilityActiveMember
)

// Причины отказа в доступе. Просроченный и повреждённый токен снаружи
// не различаются: оба дают ReasonUnauthenticated, различие остаётся в логах.
const (
	ReasonAllowed         = "allowed"
	ReasonUnauthenticated = "unauthenticated"
	ReasonWrongRole       = "wrong-role"
	ReasonExpired         = "membership-expired"
	ReasonAbsent          = "membership-absent"
)

// Identity описывает аутентифицированного субъекта запроса.
type Identity struct {
	SubjectUID string
	Role       string
}

// Decision результат проверки доступа.
type Decision struct {
	Allowed  bool
	Reason   string
	Identity *Identity
}

// TokenVerifier проверяет токен сессии и возвращает его claims.
type TokenVerifier interface {
	ParseToken(tokenStr string) (*jwt.Claims, error)
}

// MembershipReader возвращает статус членства субъекта.
type MembershipReader interface {
	Status(ctx context.Context, subjectUID string, now time.Time) (*membership.Status, error)
}

// Engine принимает решения о доступе. Решения закрыты по умолчанию:
// при любой ошибке инфраструктуры доступ не выдается.
type Engine struct {
	log         *slog.Logger
	tokens      TokenVerifier
	memberships MembershipReader
}

// NewEngine создает новый экземпляр Engine.
func NewEngine(log *slog.Logger, tokens TokenVerifier, memberships MembershipReader) *Engine {
	return &Engine{
		log:         log,
		tokens:      tokens,
		memberships: memberships,
	}
}

// Identify проверяет токен и возвращает личность субъекта без проверки
// членства. Используется маршрутами, где достаточно знать, кто пришёл.
func (e *Engine) Identify(tokenStr string) (*Identity, error) {
	claims, err := e.tokens.ParseToken(tokenStr)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			e.log.Info("token rejected", slog.String("cause", "expired"))
		} else {
			e.log.Info("token rejected", slog.String("cause", "invalid"))
		}
		return nil, err
	}
	return &Identity{SubjectUID: claims.SubjectUID, Role: claims.Role}, nil
}

// Authorize проверяет, может ли предъявитель токена выполнить операцию
// уровня capability. Публичные операции разрешаются без токена.
//
// Ненулевая ошибка означает сбой инфраструктуры, а не отказ по правилам:
// вызывающий обязан трактовать её как отказ и отвечать 500.
func (e *Engine) Authorize(ctx context.Context, tokenStr string, capability Capability) (*Decision, error) {
	const op = "services.access.Authorize"

	if capability == CapabilityPublic {
		return &Decision{Allowed: true, Reason: ReasonAllowed}, nil
	}

	if tokenStr == "" {
		return &Decision{Allowed: false, Reason: ReasonUnauthenticated}, nil
	}
	identity, err := e.Identify(tokenStr)
	if err != nil {
		return &Decision{Allowed: false, Reason: ReasonUnauthenticated}, nil
	}

	switch capability {
	case CapabilityAdmin:
		if identity.Role != models.RoleAdmin {
			return &Decision{Allowed: false, Reason: ReasonWrongRole, Identity: identity}, nil
		}
		return &Decision{Allowed: true, Reason: ReasonAllowed, Identity: identity}, nil

	case CapabilityActiveMember:
		// Администратор проходит без обращения к реестру членств.
		if identity.Role == models.RoleAdmin {
			return &Decision{Allowed: true, Reason: ReasonAllowed, Identity: identity}, nil
		}
		st, err := e.memberships.Status(ctx, identity.SubjectUID, time.Now())
		if err != nil {
			e.log.Error("membership lookup failed, denying", sl.Err(err))
			return &Decision{Allowed: false, Reason: ReasonAbsent, Identity: identity},
				fmt.Errorf("%s: %w", op, err)
		}
		if !st.IsActive {
			reason := ReasonAbsent
			if st.Reason == membership.ReasonExpired {
				reason = ReasonExpired
			}
			return &Decision{Allowed: false, Reason: reason, Identity: identity}, nil
		}
		return &Decision{Allowed: true, Reason: ReasonAllowed, Identity: identity}, nil

	default:
		return &Decision{Allowed: false, Reason: ReasonUnauthenticated, Identity: identity},
			fmt.Errorf("%s: unknown capability %d", op, capability)
	}
}
