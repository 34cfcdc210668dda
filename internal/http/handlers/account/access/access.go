// Package access отдает решение шлюза доступа для текущей сессии.
//
// Параметры запроса: tier (требуемый уровень, сравнивается строго)
// и active (требовать активную подписку). Решение возвращается со
// статусом 200 независимо от результата: это запрос, а не доступ к материалу.
package access

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	gate "github.com/magabrotheeeer/awfixer-portal/internal/access"
	"github.com/magabrotheeeer/awfixer-portal/internal/http/middlewarectx"
	"github.com/magabrotheeeer/awfixer-portal/internal/http/response"
	"github.com/magabrotheeeer/awfixer-portal/internal/lib/sl"
)

// Handler обрабатывает GET /api/v1/account/access.
type Handler struct {
	log *slog.Logger
}

// New создает новый Handler.
func New(log *slog.Logger) *Handler {
	return &Handler{log: log}
}

// ServeHTTP godoc
// @Summary Решение шлюза доступа
// @Tags Account
// @Produce json
// @Param tier query string false "Требуемый уровень подписки"
// @Param active query bool false "Требовать активную подписку"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse "Некорректный параметр active"
// @Router /account/access [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.account.access"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	q := r.URL.Query()
	req := gate.Requirement{Tier: q.Get("tier")}
	if v := q.Get("active"); v != "" {
		active, err := strconv.ParseBool(v)
		if err != nil {
			log.Info("invalid active parameter", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid value for parameter active"))
			return
		}
		req.RequireActive = active
	}

	s, ok := middlewarectx.SessionFrom(r.Context())
	if !ok {
		log.Error("session missing in context")
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal error"))
		return
	}

	d := gate.Decide(s, req)
	log.Debug("access decided", slog.String("state", string(d.State)))

	w.Header().Set("Cache-Control", "no-store")
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"allowed":  d.Allowed(),
		"decision": d,
	}))
}
