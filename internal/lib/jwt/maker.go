// Package jwt реализует генерацию и парсинг JWT токенов с пользовательскими claim полями.
//
// Maker определяет интерфейс для создания и проверки токенов с uid субъекта и ролью.
// MakerImpl — конкретная реализация с использованием секретного ключа и срока жизни.
package jwt

import (
	"errors"
	"time"
)

// ErrTokenExpired возвращается, когда подпись токена корректна, но срок его
// действия истёк. Отличается от ErrTokenInvalid, чтобы вызывающий код мог
// предложить пользователю войти заново, а не просто отказать в доступе.
var ErrTokenExpired = errors.New("token expired")

// ErrTokenInvalid возвращается для повреждённых токенов и токенов
// с некорректной подписью.
var ErrTokenInvalid = errors.New("token invalid")

// Maker описывает интерфейс для генерации и парсинга JWT токенов.
//
// Методы позволяют создавать токен с указанием uid субъекта и роли,
// а также разбирать токен и извлекать из него кастомные данные.
type Maker interface {
	// GenerateToken создает подписанный токен для субъекта с указанной ролью.
	GenerateToken(subjectUID, role string) (string, error)
	// ParseToken возвращает *Claims, если токен корректен.
	ParseToken(tokenStr string) (*Claims, error)
}

// MakerImpl реализует интерфейс Maker с использованием секретного ключа
// и времени жизни токена (TTL).
type MakerImpl struct {
	secretKey string        // Секретный ключ для подписи токенов.
	tokenTTL  time.Duration // Время жизни токена.
}

// NewMaker создаёт новый экземпляр MakerImpl на основе секретного ключа и TTL.
func NewMaker(secretKey string, ttl time.Duration) *MakerImpl {
	return &MakerImpl{
		secretKey: secretKey,
		tokenTTL:  ttl,
	}
}
