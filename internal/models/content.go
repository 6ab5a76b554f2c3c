// Package models содержит доменные структуры публикуемого контента,
// а также вспомогательные типы для приёма данных из внешних источников.
package models

import "time"

// Blog представляет статью блога. CoverImage — путь к загруженной
// обложке относительно каталога загрузок, пустая строка без обложки.
type Blog struct {
	ID         int       // Идентификатор статьи
	Title      string    // Заголовок
	Content    string    // Текст статьи
	Author     string    // Автор
	CoverImage string    // Путь к обложке
	CreatedAt  time.Time // Дата публикации
	UpdatedAt  time.Time // Дата последнего изменения
}

// Video представляет запись о видео (ссылка на YouTube).
type Video struct {
	ID          int       // Идентификатор записи
	Title       string    // Название
	URL         string    // Ссылка на видео
	Description string    // Описание
	CreatedAt   time.Time // Дата добавления
}

// DummyVideo используется для приёма данных из JSON-запроса,
// прежде чем конвертировать их в Video.
type DummyVideo struct {
	Title       string `json:"title" validate:"required,min=1,max=200"`
	URL         string `json:"url" validate:"required,url"`
	Description string `json:"description" validate:"max=2000"`
}
