// Package models содержит доменную модель пользователя системы,
// включающую данные учётной записи, хэш пароля и роль.
// Структуры используются в бизнес‑логике и при работе с хранилищем.
package models

import "time"

// Роли пользователей. Проверки ролей выполняются только движком
// авторизации, обработчики этими константами напрямую не оперируют.
const (
	// RoleAdmin — администратор сайта, имеет доступ к CMS и обходит
	// проверку членства.
	RoleAdmin = "admin"
	// RoleMember — обычный зарегистрированный пользователь. Доступ к
	// закрытому разделу определяется записью о членстве, а не ролью.
	RoleMember = "member"
)

// User представляет зарегистрированного пользователя системы.
//
// Identifier — это email для обычных пользователей, но для администраторов
// может быть произвольной строкой без символа "@" (учётка заводится вручную),
// поэтому при поиске пользователя формат идентификатора не проверяется.
type User struct {
	UID          string    // Уникальный идентификатор пользователя
	Identifier   string    // Идентификатор для входа (email или служебный логин)
	Username     string    // Отображаемое имя
	PasswordHash string    // Хэш пароля пользователя
	Role         string    // Роль пользователя, admin или member
	CreatedAt    time.Time // Дата создания учётной записи
}
