// Package upsert создает или изменяет материал. Доступен только администратору.
package upsert

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/awfixer-portal/internal/http/response"
	"github.com/magabrotheeeer/awfixer-portal/internal/lib/sl"
	"github.com/magabrotheeeer/awfixer-portal/internal/lib/validation"
	"github.com/magabrotheeeer/awfixer-portal/internal/models"
)

// Handler обрабатывает PUT /api/v1/admin/content/{slug}.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает сохранение материала.
type Service interface {
	Upsert(ctx context.Context, slug string, in models.ContentInput) (*models.ContentItem, bool, error)
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Создать или изменить материал
// @Tags Admin
// @Accept json
// @Produce json
// @Security AdminToken
// @Param slug path string true "Slug материала"
// @Param request body models.ContentInput true "Материал"
// @Success 200 {object} response.Response "Изменен"
// @Success 201 {object} response.Response "Создан"
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Failure 422 {object} response.ValidationErrorResponse
// @Router /admin/content/{slug} [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.content.upsert"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.ContentInput
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		log.Info("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("failed to decode request"))
		return
	}

	slug := chi.URLParam(r, "slug")
	item, created, err := h.service.Upsert(r.Context(), slug, req)
	var verr *validation.Error
	if errors.As(err, &verr) {
		log.Info("validation failed", sl.Err(err))
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(verr.Fields))
		return
	}
	if err != nil {
		log.Error("failed to save content", slog.String("slug", slug), sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not save content"))
		return
	}

	log.Info("content saved", slog.String("slug", slug), slog.Bool("created", created))
	if created {
		w.Header().Set("Location", "/api/v1/content/"+slug)
		render.Status(r, http.StatusCreated)
	}
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"item":    item,
		"created": created,
	}))
}
