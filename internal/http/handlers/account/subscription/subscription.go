// Package subscription реализует HTTP-обработчик моста OAuth-сессии.
//
// Handler читает cookie аккаунта, запрашивает у Patreon данные о подписке
// и возвращает исходный ответ провайдера. Ошибки отдаются как JSON
// с полем error и статусом 401, 400 или 500.
package subscription

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/awfixer-portal/internal/http/response"
	"github.com/magabrotheeeer/awfixer-portal/internal/lib/sl"
	"github.com/magabrotheeeer/awfixer-portal/internal/services/session"
)

// Service описывает источник данных о подписке.
type Service interface {
	Subscription(r *http.Request) (json.RawMessage, error)
}

// Handler обрабатывает GET /api/v1/account/subscription.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Данные подписки Patreon
// @Description Декодирует cookie аккаунта и возвращает исходный ответ Patreon identity.
// @Tags Account
// @Produce json
// @Success 200 {object} map[string]any "Ответ Patreon"
// @Failure 400 {object} response.ErrorResponse "Поврежденная cookie"
// @Failure 401 {object} response.ErrorResponse "Нет cookie аккаунта"
// @Failure 500 {object} response.ErrorResponse "Ошибка Patreon"
// @Router /account/subscription [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.account.subscription"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	raw, err := h.service.Subscription(r)
	if err != nil {
		status := session.StatusCode(err)
		if status >= http.StatusInternalServerError {
			log.Error("failed to fetch subscription", sl.Err(err))
		} else {
			log.Info("subscription request rejected", sl.Err(err))
		}
		render.Status(r, status)
		render.JSON(w, r, response.Error(session.ErrorMessage(err)))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(raw); err != nil {
		log.Error("failed to write response", sl.Err(err))
	}
}
