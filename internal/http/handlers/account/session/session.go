// Package session отдает сессию текущего запроса.
package session

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/awfixer-portal/internal/http/middlewarectx"
	"github.com/magabrotheeeer/awfixer-portal/internal/http/response"
)

// Handler обрабатывает GET /api/v1/account/session.
// Сессию кладет в контекст middlewarectx.SessionMiddleware.
type Handler struct {
	log *slog.Logger
}

// New создает новый Handler.
func New(log *slog.Logger) *Handler {
	return &Handler{log: log}
}

// ServeHTTP godoc
// @Summary Текущая сессия
// @Tags Account
// @Produce json
// @Success 200 {object} response.Response
// @Router /account/session [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.account.session"

	s, ok := middlewarectx.SessionFrom(r.Context())
	if !ok {
		h.log.Error("session missing in context",
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal error"))
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"authenticated": s.Authenticated(),
		"session":       s,
	}))
}
