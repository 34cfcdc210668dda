// Package query реализует поиск по индексу сайта.
package query

import (
	"log/slog"
	"net/http"
	"unicode/utf8"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/awfixer-portal/internal/http/response"
	"github.com/magabrotheeeer/awfixer-portal/internal/models"
)

const maxQueryLength = 200

// Index поисковый индекс.
type Index interface {
	Search(query string) []models.SearchIndexEntry
}

// Handler обрабатывает GET /api/v1/search?q=.
type Handler struct {
	log   *slog.Logger
	index Index
}

// New создает новый Handler.
func New(log *slog.Logger, index Index) *Handler {
	return &Handler{log: log, index: index}
}

// ServeHTTP godoc
// @Summary Поиск по сайту
// @Description Регистронезависимый поиск подстроки, не больше 10 результатов. Пустой запрос дает пустой список.
// @Tags Search
// @Produce json
// @Param q query string false "Строка поиска"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse "Слишком длинный запрос"
// @Router /search [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.search.query"

	q := r.URL.Query().Get("q")
	if utf8.RuneCountInString(q) > maxQueryLength {
		h.log.Info("search query too long",
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("query is too long"))
		return
	}

	results := h.index.Search(q)
	if results == nil {
		results = []models.SearchIndexEntry{}
	}
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"query":   q,
		"results": results,
	}))
}
