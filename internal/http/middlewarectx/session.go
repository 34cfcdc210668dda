// Package middlewarectx содержит HTTP middleware портала: ограничение
// частоты запросов, проверку токена администратора и разрешение сессии.
package middlewarectx

import (
	"context"
	"net/http"

	"github.com/magabrotheeeer/awfixer-portal/internal/models"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

// SessionKey ключ сессии в контексте.
const SessionKey Key = "session"

// SessionResolver строит сессию по запросу.
type SessionResolver interface {
	Resolve(r *http.Request) models.Session
}

// SessionMiddleware один раз разрешает сессию и кладет ее в контекст.
func SessionMiddleware(resolver SessionResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s := resolver.Resolve(r)
			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), s)))
		})
	}
}

// WithSession возвращает контекст с сессией.
func WithSession(ctx context.Context, s models.Session) context.Context {
	return context.WithValue(ctx, SessionKey, s)
}

// SessionFrom достает сессию из контекста.
func SessionFrom(ctx context.Context) (models.Session, bool) {
	s, ok := ctx.Value(SessionKey).(models.Session)
	return s, ok
}
