// Package index отдает поисковый индекс целиком для поиска на клиенте.
package index

import (
	"net/http"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/awfixer-portal/internal/models"
)

// Index источник записей.
type Index interface {
	Entries() []models.SearchIndexEntry
}

// Handler обрабатывает GET /api/v1/search/index.
type Handler struct {
	index Index
}

// New создает новый Handler.
func New(index Index) *Handler {
	return &Handler{index: index}
}

// ServeHTTP godoc
// @Summary Поисковый индекс
// @Tags Search
// @Produce json
// @Success 200 {array} models.SearchIndexEntry
// @Router /search/index [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	entries := h.index.Entries()
	if entries == nil {
		entries = []models.SearchIndexEntry{}
	}
	w.Header().Set("Cache-Control", "public, max-age=300")
	render.JSON(w, r, entries)
}
