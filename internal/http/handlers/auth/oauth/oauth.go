// Package oauth реализует вход через Patreon: переход на страницу
// авторизации, обработку callback и выход.
//
// Параметр state: короткоживущий JWT с путем возврата. Он же кладется в
// отдельную cookie, и callback принимает только state, совпадающий с ней.
// После обмена кода на токен выставляется cookie аккаунта (base64 от JSON).
package oauth

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/magabrotheeeer/awfixer-portal/internal/lib/accountcookie"
	"github.com/magabrotheeeer/awfixer-portal/internal/lib/jwt"
	"github.com/magabrotheeeer/awfixer-portal/internal/patreon"
)

// StateCookieName имя cookie с токеном state.
const StateCookieName = "awfixer_oauth_state"

const stateCookiePath = "/api/v1/auth"

// Provider OAuth-провайдер.
type Provider interface {
	AuthorizeURL(state string) string
	ExchangeCode(ctx context.Context, code string) (*patreon.Token, error)
	Identity(ctx context.Context, accessToken string) (*patreon.Identity, error)
}

// StateMaker выпускает и проверяет токены state.
type StateMaker interface {
	Generate(returnTo string) (string, error)
	Parse(token string) (*jwt.StateClaims, error)
}

// Config параметры обработчиков входа.
type Config struct {
	Cookie         accountcookie.Options
	StateTTL       time.Duration
	LoginRedirect  string
	LogoutRedirect string
}

// SafeReturnPath возвращает p, если это локальный путь сайта, иначе fallback.
func SafeReturnPath(p, fallback string) string {
	if p == "" || !strings.HasPrefix(p, "/") || strings.HasPrefix(p, "//") || strings.ContainsAny(p, "\\\r\n") {
		return fallback
	}
	u, err := url.Parse(p)
	if err != nil || u.IsAbs() || u.Host != "" {
		return fallback
	}
	return p
}

func setStateCookie(w http.ResponseWriter, cfg Config, value string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     StateCookieName,
		Value:    value,
		Path:     stateCookiePath,
		Domain:   cfg.Cookie.Domain,
		MaxAge:   maxAge,
		Secure:   cfg.Cookie.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
