// Package content отдает закрытые материалы через шлюз доступа.
//
// Материалы хранятся в PostgreSQL, чтение идет через кеш Redis по slug.
// Любая запись инвалидирует ключ материала.
package content

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/awfixer-portal/internal/access"
	"github.com/magabrotheeeer/awfixer-portal/internal/lib/sl"
	"github.com/magabrotheeeer/awfixer-portal/internal/lib/validation"
	"github.com/magabrotheeeer/awfixer-portal/internal/metrics"
	"github.com/magabrotheeeer/awfixer-portal/internal/models"
	"github.com/magabrotheeeer/awfixer-portal/internal/storage/repository"
)

// ErrNotFound материал не найден.
var ErrNotFound = errors.New("content not found")

// DefaultLimit и MaxLimit ограничивают размер страницы списка.
const (
	DefaultLimit = 20
	MaxLimit     = 100
)

const cacheName = "content"

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// Repository хранилище материалов.
type Repository interface {
	GetContent(ctx context.Context, slug string) (*models.ContentItem, error)
	ListContent(ctx context.Context, limit, offset int) ([]*models.ContentItem, error)
	UpsertContent(ctx context.Context, slug string, in models.ContentInput) (*models.ContentItem, bool, error)
	DeleteContent(ctx context.Context, slug string) error
}

// Cache кеш материалов.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Invalidate(ctx context.Context, key string) error
}

// View материал глазами конкретной сессии. Body заполнен только при
// Decision.State == authorized.
type View struct {
	Item     models.ContentItem `json:"item"`
	Decision access.Decision    `json:"decision"`
}

// Service сервис материалов.
type Service struct {
	log      *slog.Logger
	repo     Repository
	cache    Cache
	ttl      time.Duration
	validate *validator.Validate
}

// New создает Service. cache может быть nil, тогда чтение идет напрямую из БД.
func New(log *slog.Logger, repo Repository, cache Cache, ttl time.Duration) *Service {
	return &Service{
		log:      log,
		repo:     repo,
		cache:    cache,
		ttl:      ttl,
		validate: validation.New(),
	}
}

func cacheKey(slug string) string {
	return "content:" + slug
}

// ValidSlug сообщает, подходит ли slug: строчные латинские буквы, цифры
// и одиночные дефисы, не длиннее 128 символов.
func ValidSlug(slug string) bool {
	return len(slug) <= 128 && slugPattern.MatchString(slug)
}

// Get возвращает материал целиком, сначала из кеша.
func (s *Service) Get(ctx context.Context, slug string) (*models.ContentItem, error) {
	const op = "content.Get"

	if !ValidSlug(slug) {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}

	if s.cache != nil {
		var cached models.ContentItem
		found, err := s.cache.Get(ctx, cacheKey(slug), &cached)
		switch {
		case err != nil:
			metrics.CacheLookups.WithLabelValues(cacheName, "error").Inc()
			s.log.Warn("content cache read failed", slog.String("slug", slug), sl.Err(err))
		case found:
			metrics.CacheLookups.WithLabelValues(cacheName, "hit").Inc()
			return &cached, nil
		default:
			metrics.CacheLookups.WithLabelValues(cacheName, "miss").Inc()
		}
	}

	item, err := s.repo.GetContent(ctx, slug)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey(slug), item, s.ttl); err != nil {
			s.log.Warn("content cache write failed", slog.String("slug", slug), sl.Err(err))
		}
	}
	return item, nil
}

// View применяет шлюз доступа к материалу для сессии.
func (s *Service) View(ctx context.Context, slug string, session models.Session) (*View, error) {
	item, err := s.Get(ctx, slug)
	if err != nil {
		return nil, err
	}

	d := access.Decide(session, access.Requirement{
		Tier:          item.RequiredTier,
		RequireActive: item.RequireActive,
	})
	v := &View{Item: *item, Decision: d}
	if !d.Allowed() {
		v.Item = item.Preview()
	}
	return v, nil
}

// List возвращает страницу материалов без тела.
func (s *Service) List(ctx context.Context, limit, offset int) ([]*models.ContentItem, error) {
	const op = "content.List"

	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	if offset < 0 {
		offset = 0
	}

	items, err := s.repo.ListContent(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if items == nil {
		items = []*models.ContentItem{}
	}
	return items, nil
}

// Upsert проверяет и сохраняет материал. Возвращает *validation.Error при
// неверных данных.
func (s *Service) Upsert(ctx context.Context, slug string, in models.ContentInput) (*models.ContentItem, bool, error) {
	const op = "content.Upsert"

	verr := &validation.Error{}
	if err := validation.Struct(s.validate, in); err != nil && !errors.As(err, &verr) {
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}
	if !ValidSlug(slug) {
		verr.Add("slug", "must contain only lowercase letters, digits and single dashes")
	}
	if len(verr.Fields) > 0 {
		return nil, false, fmt.Errorf("%s: %w", op, verr)
	}

	item, created, err := s.repo.UpsertContent(ctx, slug, in)
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}
	s.invalidate(ctx, slug)
	return item, created, nil
}

// Delete удаляет материал.
func (s *Service) Delete(ctx context.Context, slug string) error {
	const op = "content.Delete"

	if !ValidSlug(slug) {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	err := s.repo.DeleteContent(ctx, slug)
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.invalidate(ctx, slug)
	return nil
}

func (s *Service) invalidate(ctx context.Context, slug string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, cacheKey(slug)); err != nil {
		s.log.Error("content cache invalidation failed", slog.String("slug", slug), sl.Err(err))
	}
}
