// Package repository реализует хранилище данных на основе PostgreSQL
// для учётных записей, членства и публикуемого контента. Предоставляет
// методы создания, чтения, обновления и удаления записей.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	// Регистрация драйвера pgx для использования с database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"
)

// ErrUserNotFound возвращается, когда пользователь с указанным
// идентификатором или uid отсутствует в базе.
var ErrUserNotFound = errors.New("user not found")

// ErrMembershipNotFound возвращается, когда у пользователя нет записи о членстве.
var ErrMembershipNotFound = errors.New("membership not found")

// ErrBlogNotFound возвращается, когда статья с указанным id отсутствует.
var ErrBlogNotFound = errors.New("blog not found")

// ErrVideoNotFound возвращается, когда видео с указанным id отсутствует.
var ErrVideoNotFound = errors.New("video not found")

// Storage инкапсулирует соединение с базой данных PostgreSQL
// и реализует методы работы с пользователями, членством и контентом.
type Storage struct {
	DB *sql.DB
}

// New создаёт подключение к PostgreSQL и проверяет его доступность.
func New(storageConnectionString string) (*Storage, error) {
	const op = "storage.New"

	db, err := sql.Open("pgx", storageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = db.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{
		DB: db,
	}, nil
}

// CheckDatabaseReady проверяет готовность базы данных.
func CheckDatabaseReady(storage *Storage) error {
	var exists bool
	err := storage.DB.QueryRow(`SELECT EXISTS (
        SELECT FROM information_schema.tables
        WHERE table_name = 'users'
    )`).Scan(&exists)
	if err != nil || !exists {
		return fmt.Errorf("required table users missing or query error: %w", err)
	}
	return nil
}
