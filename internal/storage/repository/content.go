package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/awfixer-portal/internal/models"
)

const contentColumns = `slug, title, summary, body, required_tier, require_active, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanContent(row rowScanner) (*models.ContentItem, error) {
	var c models.ContentItem
	if err := row.Scan(&c.Slug, &c.Title, &c.Summary, &c.Body,
		&c.RequiredTier, &c.RequireActive, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

// GetContent возвращает материал по slug.
func (s *Storage) GetContent(ctx context.Context, slug string) (*models.ContentItem, error) {
	const op = "storage.GetContent"

	row := s.DB.QueryRowContext(ctx,
		`SELECT `+contentColumns+` FROM content_items WHERE slug = $1`, slug)
	c, err := scanContent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return c, nil
}

// ListContent возвращает материалы без тела, новые первыми.
func (s *Storage) ListContent(ctx context.Context, limit, offset int) ([]*models.ContentItem, error) {
	const op = "storage.ListContent"

	rows, err := s.DB.QueryContext(ctx,
		`SELECT slug, title, summary, '' AS body, required_tier, require_active, created_at, updated_at
		   FROM content_items
		  ORDER BY updated_at DESC, slug
		  LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var result []*models.ContentItem
	for rows.Next() {
		c, err := scanContent(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpsertContent создает или заменяет материал. created сообщает, была ли
// запись создана.
func (s *Storage) UpsertContent(ctx context.Context, slug string, in models.ContentInput) (item *models.ContentItem, created bool, err error) {
	const op = "storage.UpsertContent"

	row := s.DB.QueryRowContext(ctx, `
		INSERT INTO content_items (slug, title, summary, body, required_tier, require_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (slug) DO UPDATE SET
			title          = EXCLUDED.title,
			summary        = EXCLUDED.summary,
			body           = EXCLUDED.body,
			required_tier  = EXCLUDED.required_tier,
			require_active = EXCLUDED.require_active,
			updated_at     = NOW()
		RETURNING `+contentColumns+`, (xmax = 0) AS inserted`,
		slug, in.Title, in.Summary, in.Body, in.RequiredTier, in.RequireActive)

	var c models.ContentItem
	if err := row.Scan(&c.Slug, &c.Title, &c.Summary, &c.Body,
		&c.RequiredTier, &c.RequireActive, &c.CreatedAt, &c.UpdatedAt, &created); err != nil {
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}
	return &c, created, nil
}

// DeleteContent удаляет материал по slug.
func (s *Storage) DeleteContent(ctx context.Context, slug string) error {
	const op = "storage.DeleteContent"

	res, err := s.DB.ExecContext(ctx, `DELETE FROM content_items WHERE slug = $1`, slug)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}
