// Package verify проксирует проверку токена Cloudflare Turnstile.
//
// Принимает {token}, передает его в siteverify вместе с IP клиента и
// возвращает {success, error?}. Отсутствующий или отклоненный токен дает 400,
// сбой сервиса проверки дает 500.
package verify

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/awfixer-portal/internal/http/middlewarectx"
	"github.com/magabrotheeeer/awfixer-portal/internal/lib/sl"
	"github.com/magabrotheeeer/awfixer-portal/internal/lib/validation"
	"github.com/magabrotheeeer/awfixer-portal/internal/turnstile"
)

// Request тело запроса.
type Request struct {
	Token string `json:"token" validate:"required,max=2048"`
}

// Response тело ответа.
type Response struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// Service проверяет токен.
type Service interface {
	Verify(ctx context.Context, token, remoteIP string) (*turnstile.Result, error)
}

// Handler обрабатывает POST /api/v1/turnstile/verify.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validation.New(),
	}
}

// ServeHTTP godoc
// @Summary Проверка токена Turnstile
// @Tags Turnstile
// @Accept json
// @Produce json
// @Param request body Request true "Токен Turnstile"
// @Success 200 {object} Response
// @Failure 400 {object} Response "Нет токена или проверка не пройдена"
// @Failure 500 {object} Response "Сервис проверки недоступен"
// @Router /turnstile/verify [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.turnstile.verify"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<14)).Decode(&req); err != nil {
		log.Info("failed to decode request body", sl.Err(err))
		h.fail(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.fail(w, r, http.StatusBadRequest, "Token is required")
		return
	}

	_, err := h.service.Verify(r.Context(), req.Token, middlewarectx.ClientIP(r))
	switch {
	case err == nil:
		render.JSON(w, r, Response{Success: true})
	case errors.Is(err, turnstile.ErrVerificationFailed):
		log.Info("turnstile token rejected", sl.Err(err))
		h.fail(w, r, http.StatusBadRequest, "Verification failed")
	default:
		log.Error("turnstile verification error", sl.Err(err))
		h.fail(w, r, http.StatusInternalServerError, "Verification service unavailable")
	}
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, status int, msg string) {
	render.Status(r, status)
	render.JSON(w, r, Response{Success: false, Error: msg})
}
