package middlewarectx

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/awfixer-portal/internal/http/response"
	"github.com/magabrotheeeer/awfixer-portal/internal/lib/password"
	"github.com/magabrotheeeer/awfixer-portal/internal/lib/sl"
)

// AdminTokenHeader заголовок с токеном администратора.
const AdminTokenHeader = "X-Admin-Token"

// AdminMiddleware пропускает запрос, только если токен из заголовка
// X-Admin-Token совпадает с bcrypt-хешем tokenHash. Пустой tokenHash
// отключает административный API.
func AdminMiddleware(log *slog.Logger, tokenHash string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.AdminMiddleware"
			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			token := r.Header.Get(AdminTokenHeader)
			if token == "" {
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("missing admin token"))
				return
			}

			err := password.CompareHash(tokenHash, token)
			switch {
			case err == nil:
				next.ServeHTTP(w, r)
			case errors.Is(err, password.ErrNoHash):
				log.Error("admin API is not configured")
				render.Status(r, http.StatusServiceUnavailable)
				render.JSON(w, r, response.Error("admin API is not configured"))
			default:
				log.Warn("invalid admin token", sl.Err(err))
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("invalid admin token"))
			}
		})
	}
}
