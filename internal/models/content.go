package models

import "time"

// ContentItem закрытый материал портала, хранится в PostgreSQL.
// Пустой RequiredTier означает, что уровень подписки не проверяется.
type ContentItem struct {
	Slug          string    `json:"slug"`
	Title         string    `json:"title"`
	Summary       string    `json:"summary,omitempty"`
	Body          string    `json:"body,omitempty"`
	RequiredTier  string    `json:"requiredTier,omitempty"`
	RequireActive bool      `json:"requireActive"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Preview возвращает копию без тела материала.
func (c ContentItem) Preview() ContentItem {
	c.Body = ""
	return c
}

// ContentInput тело запроса на создание или изменение материала.
type ContentInput struct {
	Title         string `json:"title" validate:"required,max=300"`
	Summary       string `json:"summary" validate:"max=1000"`
	Body          string `json:"body" validate:"required"`
	RequiredTier  string `json:"requiredTier" validate:"max=100"`
	RequireActive bool   `json:"requireActive"`
}
