// Package membership проверяет, состоит ли пользователь в гильдии Discord.
//
// Токен Discord берется из cookie аккаунта (discordAccessToken).
package membership

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/awfixer-portal/internal/discord"
	"github.com/magabrotheeeer/awfixer-portal/internal/http/response"
	"github.com/magabrotheeeer/awfixer-portal/internal/lib/sl"
	"github.com/magabrotheeeer/awfixer-portal/internal/models"
	"github.com/magabrotheeeer/awfixer-portal/internal/services/session"
)

// Accounts декодирует cookie аккаунта.
type Accounts interface {
	Account(r *http.Request) (*models.Account, error)
}

// Service проверяет участие в гильдии.
type Service interface {
	Membership(ctx context.Context, accessToken string) (*discord.Membership, error)
}

// Handler обрабатывает GET /api/v1/discord/membership.
type Handler struct {
	log      *slog.Logger
	accounts Accounts
	service  Service
}

// New создает новый Handler.
func New(log *slog.Logger, accounts Accounts, service Service) *Handler {
	return &Handler{
		log:      log,
		accounts: accounts,
		service:  service,
	}
}

// ServeHTTP godoc
// @Summary Участие в гильдии Discord
// @Tags Discord
// @Produce json
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse "Поврежденная cookie"
// @Failure 401 {object} response.ErrorResponse "Нет cookie или Discord не привязан"
// @Failure 500 {object} response.ErrorResponse "Ошибка Discord"
// @Router /discord/membership [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.discord.membership"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	acc, err := h.accounts.Account(r)
	if err != nil {
		render.Status(r, session.StatusCode(err))
		render.JSON(w, r, response.Error(session.ErrorMessage(err)))
		return
	}
	if acc.DiscordAccessToken == "" {
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error("Discord account is not linked"))
		return
	}

	m, err := h.service.Membership(r.Context(), acc.DiscordAccessToken)
	switch {
	case err == nil:
	case errors.Is(err, discord.ErrUnauthorized):
		log.Info("discord token rejected", sl.Err(err))
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error("Discord authorization expired"))
		return
	default:
		log.Error("failed to check discord membership", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("Failed to check Discord membership"))
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	render.JSON(w, r, response.StatusOKWithData(m))
}
