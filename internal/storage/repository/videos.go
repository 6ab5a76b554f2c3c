package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/saeifmanya/membership-portal/internal/models"
)

// CreateVideo добавляет новую запись о видео и возвращает её id.
func (s *Storage) CreateVideo(ctx context.Context, video models.Video) (int, error) {
	const op = "storage.CreateVideo"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newID int
	query := `INSERT INTO videos (title, url, description)
			  VALUES ($1, $2, $3)
			  RETURNING id;`
	if err := s.DB.QueryRowContext(ctx, query,
		video.Title, video.URL, video.Description).Scan(&newID); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetVideo возвращает запись о видео по id.
func (s *Storage) GetVideo(ctx context.Context, id int) (*models.Video, error) {
	const op = "storage.GetVideo"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, title, url, description, created_at
			  FROM videos
			  WHERE id = $1`
	v := &models.Video{}
	row := s.DB.QueryRowContext(ctx, query, id)
	if err := row.Scan(&v.ID, &v.Title, &v.URL, &v.Description, &v.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrVideoNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return v, nil
}

// ListVideos возвращает записи о видео от новых к старым с пагинацией.
func (s *Storage) ListVideos(ctx context.Context, limit, offset int) ([]*models.Video, error) {
	const op = "storage.ListVideos"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, title, url, description, created_at
			  FROM videos
			  ORDER BY created_at DESC
			  LIMIT $1 OFFSET $2`
	rows, err := s.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()
	var result []*models.Video
	for rows.Next() {
		var v models.Video
		if err = rows.Scan(&v.ID, &v.Title, &v.URL, &v.Description, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &v)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateVideo обновляет запись о видео по id и возвращает количество обновлённых строк.
func (s *Storage) UpdateVideo(ctx context.Context, video models.Video, id int) (int, error) {
	const op = "storage.UpdateVideo"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE videos
			  SET title = $1,
			      url = $2,
			      description = $3
			  WHERE id = $4`
	res, err := s.DB.ExecContext(ctx, query, video.Title, video.URL, video.Description, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	count, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(count), nil
}

// RemoveVideo удаляет запись о видео по id и возвращает количество удалённых строк.
func (s *Storage) RemoveVideo(ctx context.Context, id int) (int, error) {
	const op = "storage.RemoveVideo"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM videos WHERE id = $1`
	res, err := s.DB.ExecContext(ctx, query, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	count, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(count), nil
}
