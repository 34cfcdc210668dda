package oauth

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/awfixer-portal/internal/http/response"
	"github.com/magabrotheeeer/awfixer-portal/internal/lib/accountcookie"
	"github.com/magabrotheeeer/awfixer-portal/internal/lib/sl"
	"github.com/magabrotheeeer/awfixer-portal/internal/models"
)

// Callback завершает вход: проверяет state, обменивает код на токен,
// получает профиль и выставляет cookie аккаунта.
type Callback struct {
	log      *slog.Logger
	provider Provider
	states   StateMaker
	cfg      Config
	now      func() time.Time
}

// NewCallback создает обработчик GET /api/v1/auth/patreon/callback.
func NewCallback(log *slog.Logger, provider Provider, states StateMaker, cfg Config) *Callback {
	return &Callback{log: log, provider: provider, states: states, cfg: cfg, now: time.Now}
}

// ServeHTTP godoc
// @Summary Callback авторизации Patreon
// @Tags Auth
// @Param code query string true "OAuth-код"
// @Param state query string true "Токен state"
// @Success 302
// @Failure 400 {object} response.ErrorResponse "Отказ в доступе или неверный state"
// @Failure 500 {object} response.ErrorResponse "Ошибка Patreon"
// @Router /auth/patreon/callback [get]
func (h *Callback) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.oauth.callback"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	q := r.URL.Query()
	if e := q.Get("error"); e != "" {
		log.Info("patreon authorization denied", slog.String("error", e))
		h.fail(w, r, http.StatusBadRequest, "Patreon authorization was denied")
		return
	}

	code, state := q.Get("code"), q.Get("state")
	if code == "" || state == "" {
		h.fail(w, r, http.StatusBadRequest, "missing code or state")
		return
	}

	stateCookie, err := r.Cookie(StateCookieName)
	if err != nil || stateCookie.Value != state {
		log.Warn("oauth state does not match cookie")
		h.fail(w, r, http.StatusBadRequest, "invalid oauth state")
		return
	}
	claims, err := h.states.Parse(state)
	if err != nil {
		log.Warn("invalid oauth state", sl.Err(err))
		h.fail(w, r, http.StatusBadRequest, "invalid oauth state")
		return
	}

	token, err := h.provider.ExchangeCode(r.Context(), code)
	if err != nil {
		log.Error("failed to exchange oauth code", sl.Err(err))
		h.fail(w, r, http.StatusInternalServerError, "Failed to complete Patreon sign-in")
		return
	}
	identity, err := h.provider.Identity(r.Context(), token.AccessToken)
	if err != nil {
		log.Error("failed to fetch identity", sl.Err(err))
		h.fail(w, r, http.StatusInternalServerError, "Failed to complete Patreon sign-in")
		return
	}

	user := identity.User
	acc := models.Account{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		User:         &user,
	}
	if token.ExpiresIn > 0 {
		acc.ExpiresAt = h.now().Add(time.Duration(token.ExpiresIn) * time.Second).Unix()
	}
	if prev, err := accountcookie.Read(r, h.cfg.Cookie.Name); err == nil {
		acc.DiscordAccessToken = prev.DiscordAccessToken
	} else if !errors.Is(err, accountcookie.ErrNoAccountData) {
		log.Debug("replacing invalid account cookie", sl.Err(err))
	}

	if err := accountcookie.Write(w, h.cfg.Cookie, acc); err != nil {
		log.Error("failed to write account cookie", sl.Err(err))
		h.fail(w, r, http.StatusInternalServerError, "Failed to complete Patreon sign-in")
		return
	}
	setStateCookie(w, h.cfg, "", -1)

	log.Info("patreon sign-in completed", slog.String("user_id", user.ID))
	http.Redirect(w, r, SafeReturnPath(claims.ReturnTo, h.cfg.LoginRedirect), http.StatusFound)
}

func (h *Callback) fail(w http.ResponseWriter, r *http.Request, status int, msg string) {
	setStateCookie(w, h.cfg, "", -1)
	render.Status(r, status)
	render.JSON(w, r, response.Error(msg))
}
