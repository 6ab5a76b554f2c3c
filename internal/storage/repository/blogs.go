package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/saeifmanya/membership-portal/internal/models"
)

// CreateBlog добавляет новую статью и возвращает её id.
func (s *Storage) CreateBlog(ctx context.Context, blog models.Blog) (int, error) {
	const op = "storage.CreateBlog"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newID int
	query := `INSERT INTO blogs (title, content, author, cover_image)
			  VALUES ($1, $2, $3, $4)
			  RETURNING id;`
	if err := s.DB.QueryRowContext(ctx, query,
		blog.Title, blog.Content, blog.Author, blog.CoverImage).Scan(&newID); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetBlog возвращает статью по id.
func (s *Storage) GetBlog(ctx context.Context, id int) (*models.Blog, error) {
	const op = "storage.GetBlog"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, title, content, author, cover_image, created_at, updated_at
			  FROM blogs
			  WHERE id = $1`
	b := &models.Blog{}
	row := s.DB.QueryRowContext(ctx, query, id)
	if err := row.Scan(&b.ID, &b.Title, &b.Content, &b.Author, &b.CoverImage,
		&b.CreatedAt, &b.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrBlogNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return b, nil
}

// ListBlogs возвращает статьи в порядке от новых к старым с пагинацией.
func (s *Storage) ListBlogs(ctx context.Context, limit, offset int) ([]*models.Blog, error) {
	const op = "storage.ListBlogs"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, title, content, author, cover_image, created_at, updated_at
			  FROM blogs
			  ORDER BY created_at DESC
			  LIMIT $1 OFFSET $2`
	rows, err := s.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()
	var result []*models.Blog
	for rows.Next() {
		var b models.Blog
		if err = rows.Scan(&b.ID, &b.Title, &b.Content, &b.Author, &b.CoverImage,
			&b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &b)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateBlog обновляет статью по id и возвращает количество обновлённых строк.
// Пустой cover_image оставляет прежнюю обложку.
func (s *Storage) UpdateBlog(ctx context.Context, blog models.Blog, id int) (int, error) {
	const op = "storage.UpdateBlog"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE blogs
			  SET title = $1,
			      content = $2,
			      author = $3,
			      cover_image = CASE WHEN $4 = '' THEN cover_image ELSE $4 END,
			      updated_at = now()
			  WHERE id = $5`
	res, err := s.DB.ExecContext(ctx, query, blog.Title, blog.Content, blog.Author, blog.CoverImage, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	count, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(count), nil
}

// RemoveBlog удаляет статью по id и возвращает количество удалённых строк.
func (s *Storage) RemoveBlog(ctx context.Context, id int) (int, error) {
	const op = "storage.RemoveBlog"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM blogs WHERE id = $1`
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
