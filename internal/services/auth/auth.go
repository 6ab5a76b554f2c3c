// Package services содержит логику бизнес-уровня для работы с пользователями и аутентификацией.
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/saeifmanya/membership-portal/internal/lib/jwt"
	"github.com/saeifmanya/membership-portal/internal/lib/password"
	"github.com/saeifmanya/membership-portal/internal/models"
	"github.com/saeifmanya/membership-portal/internal/storage/repository"
)

// ErrInvalidCredentials возвращается и для неизвестного идентификатора,
// и для неверного пароля: снаружи эти случаи неразличимы, чтобы по ответу
// нельзя было перебирать существующие учётки.
var ErrInvalidCredentials = errors.New("invalid credentials")

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// CreateUser сохраняет нового пользователя и возвращает его UID.
	CreateUser(ctx context.Context, user models.User) (string, error)

	// GetUserByIdentifier возвращает пользователя по идентификатору для входа.
	GetUserByIdentifier(ctx context.Context, identifier string) (*models.User, error)
}

// AuthService отвечает за регистрацию, вход и валидацию JWT.
type AuthService struct {
	users    UserRepository
	jwtMaker jwt.Maker
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(users UserRepository, jwtMaker jwt.Maker) *AuthService {
	return &AuthService{
		users:    users,
		jwtMaker: jwtMaker,
	}
}

// Register создает нового пользователя с хэшированием пароля и ролью "member".
// Учётки администраторов заводятся вручную, через регистрацию их не создать.
func (s *AuthService) Register(ctx context.Context, identifier, username, rawPassword string) (string, error) {
	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return "", err
	}
	user := models.User{
		Identifier:   identifier,
		Username:     username,
		PasswordHash: hashed,
		Role:         models.RoleMember,
	}
	return s.users.CreateUser(ctx, user)
}

// Login проверяет пароль пользователя и генерирует JWT.
//
// Идентификатор ищется строгим совпадением без проверки формата:
// служебный логин администратора не обязан быть email-адресом.
// Возвращает токен, роль и UID субъекта.
func (s *AuthService) Login(ctx context.Context, identifier, rawPassword string) (token, role, subjectUID string, err error) {
	const op = "services.auth.Login"
	user, err := s.users.GetUserByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return "", "", "", ErrInvalidCredentials
		}
		return "", "", "", fmt.Errorf("%s: %w", op, err)
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return "", "", "", ErrInvalidCredentials
	}
	token, err = s.jwtMaker.GenerateToken(user.UID, user.Role)
	if err != nil {
		return "", "", "", fmt.Errorf("%s: %w", op, err)
	}
	return token, user.Role, user.UID, nil
}

// ValidateToken проверяет JWT и возвращает claims с uid субъекта и ролью.
func (s *AuthService) ValidateToken(_ context.Context, token string) (*jwt.Claims, error) {
	return s.jwtMaker.ParseToken(token)
}
