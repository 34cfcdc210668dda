package oauth

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/awfixer-portal/internal/http/response"
	"github.com/magabrotheeeer/awfixer-portal/internal/lib/sl"
)

// Login перенаправляет на страницу авторизации Patreon.
type Login struct {
	log      *slog.Logger
	provider Provider
	states   StateMaker
	cfg      Config
}

// NewLogin создает обработчик GET /api/v1/auth/patreon/login.
func NewLogin(log *slog.Logger, provider Provider, states StateMaker, cfg Config) *Login {
	return &Login{log: log, provider: provider, states: states, cfg: cfg}
}

// ServeHTTP godoc
// @Summary Вход через Patreon
// @Tags Auth
// @Param return_to query string false "Локальный путь для возврата после входа"
// @Success 302
// @Failure 500 {object} response.ErrorResponse
// @Router /auth/patreon/login [get]
func (h *Login) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.oauth.login"

	returnTo := SafeReturnPath(r.URL.Query().Get("return_to"), h.cfg.LoginRedirect)
	state, err := h.states.Generate(returnTo)
	if err != nil {
		h.log.Error("failed to generate oauth state",
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
			sl.Err(err),
		)
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to start sign-in"))
		return
	}

	setStateCookie(w, h.cfg, state, int(h.cfg.StateTTL.Seconds()))
	http.Redirect(w, r, h.provider.AuthorizeURL(state), http.StatusFound)
}
