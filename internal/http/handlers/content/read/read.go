// Package read отдает закрытый материал по slug через шлюз доступа.
//
// При отказе тело материала не возвращается: ответ содержит подсказку
// {state, required_tier, current_tier} и HTTP-статус решения шлюза.
package read

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/awfixer-portal/internal/http/middlewarectx"
	"github.com/magabrotheeeer/awfixer-portal/internal/http/response"
	"github.com/magabrotheeeer/awfixer-portal/internal/lib/sl"
	"github.com/magabrotheeeer/awfixer-portal/internal/models"
	"github.com/magabrotheeeer/awfixer-portal/internal/services/content"
)

// Handler обрабатывает GET /api/v1/content/{slug}.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает чтение материала для сессии.
type Service interface {
	View(ctx context.Context, slug string, session models.Session) (*content.View, error)
}

// Prompt подсказка при отказе в доступе.
type Prompt struct {
	State        string             `json:"state"`
	Message      string             `json:"message"`
	RequiredTier string             `json:"required_tier,omitempty"`
	CurrentTier  string             `json:"current_tier,omitempty"`
	Item         models.ContentItem `json:"item"`
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Получить материал
// @Tags Content
// @Produce json
// @Param slug path string true "Slug материала"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response "Нужен вход"
// @Failure 403 {object} response.Response "Подписка неактивна или уровень недостаточен"
// @Failure 404 {object} response.ErrorResponse
// @Router /content/{slug} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.content.read"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	slug := chi.URLParam(r, "slug")
	session, _ := middlewarectx.SessionFrom(r.Context())

	v, err := h.service.View(r.Context(), slug, session)
	if errors.Is(err, content.ErrNotFound) {
		log.Info("content not found", slog.String("slug", slug))
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, response.Error("content not found"))
		return
	}
	if err != nil {
		log.Error("failed to read content", slog.String("slug", slug), sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read content"))
		return
	}

	w.Header().Set("Cache-Control", "private, no-store")
	if !v.Decision.Allowed() {
		log.Info("content access denied",
			slog.String("slug", slug),
			slog.String("state", string(v.Decision.State)),
		)
		render.Status(r, v.Decision.HTTPStatus())
		render.JSON(w, r, response.Response{
			Status: response.StatusError,
			Error:  v.Decision.Err().Error(),
			Data: Prompt{
				State:        string(v.Decision.State),
				Message:      v.Decision.Message,
				RequiredTier: v.Decision.RequiredTier,
				CurrentTier:  v.Decision.CurrentTier,
				Item:         v.Item,
			},
		})
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"item": v.Item,
	}))
}
