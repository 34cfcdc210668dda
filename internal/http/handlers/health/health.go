// Package health отдает состояние портала и его зависимостей.
package health

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/awfixer-portal/internal/http/response"
	"github.com/magabrotheeeer/awfixer-portal/internal/lib/sl"
)

// Checker проверяет одну зависимость.
type Checker interface {
	Ping(ctx context.Context) error
}

// Handler обрабатывает GET /health.
type Handler struct {
	log     *slog.Logger
	checks  map[string]Checker
	timeout time.Duration
}

// New создает Handler. Nil-зависимости пропускаются.
func New(log *slog.Logger, checks map[string]Checker) *Handler {
	active := make(map[string]Checker, len(checks))
	for name, c := range checks {
		if c != nil {
			active[name] = c
		}
	}
	return &Handler{
		log:     log,
		checks:  active,
		timeout: 2 * time.Second,
	}
}

// ServeHTTP godoc
// @Summary Проверка состояния
// @Tags Health
// @Produce json
// @Success 200 {object} response.Response
// @Failure 503 {object} response.Response
// @Router /health [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.health"

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	deps := make(map[string]string, len(h.checks))
	healthy := true
	for name, c := range h.checks {
		if err := c.Ping(ctx); err != nil {
			h.log.Warn("dependency is unhealthy",
				slog.String("op", op),
				slog.String("dependency", name),
				sl.Err(err),
			)
			deps[name] = "unavailable"
			healthy = false
			continue
		}
		deps[name] = "ok"
	}

	if !healthy {
		render.Status(r, http.StatusServiceUnavailable)
		render.JSON(w, r, response.Response{
			Status: response.StatusError,
			Error:  "dependencies unavailable",
			Data:   map[string]any{"dependencies": deps},
		})
		return
	}
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"status":       "ok",
		"dependencies": deps,
	}))
}
