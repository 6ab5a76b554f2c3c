// Package content содержит логику работы с публикуемым контентом:
// статьи блога и записи о видео, с кешированием списков первой страницы.
package content

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/saeifmanya/membership-portal/internal/lib/sl"
	"github.com/saeifmanya/membership-portal/internal/models"
	"github.com/saeifmanya/membership-portal/internal/storage/repository"
)

// Ключи кеша. Кешируется только первая страница списков: именно её
// запрашивает публичная витрина.
const (
	cacheKeyBlogs  = "blogs:list"
	cacheKeyVideos = "videos:list"
	cacheTTL       = 5 * time.Minute

	// DefaultPageSize размер страницы списков по умолчанию.
	DefaultPageSize = 20
)

// ContentRepository описывает контракт для работы с контентом в базе данных.
type ContentRepository interface {
	CreateBlog(ctx context.Context, blog models.Blog) (int, error)
	GetBlog(ctx context.Context, id int) (*models.Blog, error)
	ListBlogs(ctx context.Context, limit, offset int) ([]*models.Blog, error)
	UpdateBlog(ctx context.Context, blog models.Blog, id int) (int, error)
	RemoveBlog(ctx context.Context, id int) (int, error)

	CreateVideo(ctx context.Context, video models.Video) (int, error)
	ListVideos(ctx context.Context, limit, offset int) ([]*models.Video, error)
	UpdateVideo(ctx context.Context, video models.Video, id int) (int, error)
	RemoveVideo(ctx context.Context, id int) (int, error)
}

// ListCache описывает кеш списков контента.
type ListCache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// ContentService отвечает за CRUD контента поверх хранилища с кешом списков.
type ContentService struct {
	log   *slog.Logger
	repo  ContentRepository
	cache ListCache
}

// NewContentService создает новый экземпляр ContentService.
func NewContentService(log *slog.Logger, repo ContentRepository, cache ListCache) *ContentService {
	return &ContentService{log: log, repo: repo, cache: cache}
}

// ListBlogs возвращает страницу статей. Первая страница со стандартным
// размером читается через кеш; ошибки кеша не фатальны.
func (s *ContentService) ListBlogs(ctx context.Context, limit, offset int) ([]*models.Blog, error) {
	const op = "services.content.ListBlogs"
	useCache := limit == DefaultPageSize && offset == 0

	if useCache {
		var cached []*models.Blog
		found, err := s.cache.Get(cacheKeyBlogs, &cached)
		if err != nil {
			s.log.Warn("blog cache read failed", sl.Err(err))
		}
		if found {
			return cached, nil
		}
	}

	blogs, err := s.repo.ListBlogs(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if useCache {
		if err := s.cache.Set(cacheKeyBlogs, blogs, cacheTTL); err != nil {
			s.log.Warn("blog cache write failed", sl.Err(err))
		}
	}
	return blogs, nil
}

// GetBlog возвращает статью по id.
func (s *ContentService) GetBlog(ctx context.Context, id int) (*models.Blog, error) {
	return s.repo.GetBlog(ctx, id)
}

// CreateBlog добавляет статью и сбрасывает кеш списка.
func (s *ContentService) CreateBlog(ctx context.Context, blog models.Blog) (int, error) {
	const op = "services.content.CreateBlog"
	id, err := s.repo.CreateBlog(ctx, blog)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	s.invalidate(cacheKeyBlogs)
	return id, nil
}

// UpdateBlog обновляет статью. Отсутствующий id даёт ErrBlogNotFound.
func (s *ContentService) UpdateBlog(ctx context.Context, blog models.Blog, id int) error {
	const op = "services.content.UpdateBlog"
	count, err := s.repo.UpdateBlog(ctx, blog, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if count == 0 {
		return fmt.Errorf("%s: %w", op, repository.ErrBlogNotFound)
	}
	s.invalidate(cacheKeyBlogs)
	return nil
}

// RemoveBlog удаляет статью. Отсутствующий id даёт ErrBlogNotFound.
func (s *ContentService) RemoveBlog(ctx context.Context, id int) error {
	const op = "services.content.RemoveBlog"
	count, err := s.repo.RemoveBlog(ctx, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if count == 0 {
		return fmt.Errorf("%s: %w", op, repository.ErrBlogNotFound)
	}
	s.invalidate(cacheKeyBlogs)
	return nil
}

// ListVideos возвращает страницу записей о видео, первая страница через кеш.
func (s *ContentService) ListVideos(ctx context.Context, limit, offset int) ([]*models.Video, error) {
	const op = "services.content.ListVideos"
	useCache := limit == DefaultPageSize && offset == 0

	if useCache {
		var cached []*models.Video
		found, err := s.cache.Get(cacheKeyVideos, &cached)
		if err != nil {
			s.log.Warn("video cache read failed", sl.Err(err))
		}
		if found {
			return cached, nil
		}
	}

	videos, err := s.repo.ListVideos(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if useCache {
		if err := s.cache.Set(cacheKeyVideos, videos, cacheTTL); err != nil {
			s.log.Warn("video cache write failed", sl.Err(err))
		}
	}
	return videos, nil
}

// CreateVideo добавляет запись о видео и сбрасывает кеш списка.
func (s *ContentService) CreateVideo(ctx context.Context, video models.Video) (int, error) {
	const op = "services.content.CreateVideo"
	id, err := s.repo.CreateVideo(ctx, video)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	s.invalidate(cacheKeyVideos)
	return id, nil
}

// UpdateVideo обновляет запись о видео. Отсутствующий id даёт ErrVideoNotFound.
func (s *ContentService) UpdateVideo(ctx context.Context, video models.Video, id int) error {
	const op = "services.content.UpdateVideo"
	count, err := s.repo.UpdateVideo(ctx, video, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if count == 0 {
		return fmt.Errorf("%s: %w", op, repository.ErrVideoNotFound)
	}
	s.invalidate(cacheKeyVideos)
	return nil
}

// RemoveVideo удаляет запись о видео. Отсутствующий id даёт ErrVideoNotFound.
func (s *ContentService) RemoveVideo(ctx context.Context, id int) error {
	const op = "services.content.RemoveVideo"
	count, err := s.repo.RemoveVideo(ctx, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if count == 0 {
		return fmt.Errorf("%s: %w", op, repository.ErrVideoNotFound)
	}
	s.invalidate(cacheKeyVideos)
	return nil
}

func (s *ContentService) invalidate(key string) {
	if err := s.cache.Invalidate(key); err != nil {
		s.log.Warn("cache invalidation failed", slog.String("key", key), sl.Err(err))
	}
}
