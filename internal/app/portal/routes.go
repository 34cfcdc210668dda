// Package portal собирает HTTP-приложение портала: маршруты, middleware
// и зависимости.
package portal

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/awfixer-portal/internal/http/middlewarectx"
)

// Handlers обработчики всех маршрутов портала.
type Handlers struct {
	Health http.Handler

	Search      http.Handler
	SearchIndex http.Handler
	Turnstile   http.Handler
	Contact     http.Handler

	Login    http.Handler
	Callback http.Handler
	Logout   http.Handler

	Subscription http.Handler
	Session      http.Handler
	Access       http.Handler
	Discord      http.Handler

	ContentList   http.Handler
	ContentRead   http.Handler
	ContentUpsert http.Handler
	ContentRemove http.Handler
}

// RouteOptions middleware, которые зависят от конфигурации.
type RouteOptions struct {
	Sessions       middlewarectx.SessionResolver
	Limiter        *middlewarectx.RateLimiter
	AdminTokenHash string
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, h Handlers, opts RouteOptions) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Logger,
		middleware.Recoverer,
		middlewarectx.MetricsMiddleware,
	)

	r.Get("/health", h.Health.ServeHTTP)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/search", h.Search.ServeHTTP)
		r.Get("/search/index", h.SearchIndex.ServeHTTP)

		// Публичные формы ограничены по частоте запросов с одного адреса
		r.Group(func(r chi.Router) {
			r.Use(opts.Limiter.Middleware(logger))
			r.Post("/turnstile/verify", h.Turnstile.ServeHTTP)
			r.Post("/contact", h.Contact.ServeHTTP)
		})

		r.Route("/auth", func(r chi.Router) {
			r.Get("/patreon/login", h.Login.ServeHTTP)
			r.Get("/patreon/callback", h.Callback.ServeHTTP)
			r.Post("/logout", h.Logout.ServeHTTP)
		})

		// Мост сессии: отдает ответ провайдера как есть
		r.Get("/account/subscription", h.Subscription.ServeHTTP)
		r.Get("/discord/membership", h.Discord.ServeHTTP)
		r.Get("/content", h.ContentList.ServeHTTP)

		// Группа с разрешенной сессией в контексте
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.SessionMiddleware(opts.Sessions))
			r.Get("/account/session", h.Session.ServeHTTP)
			r.Get("/account/access", h.Access.ServeHTTP)
			r.Get("/content/{slug}", h.ContentRead.ServeHTTP)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(middlewarectx.AdminMiddleware(logger, opts.AdminTokenHash))
			r.Put("/content/{slug}", h.ContentUpsert.ServeHTTP)
			r.Delete("/content/{slug}", h.ContentRemove.ServeHTTP)
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
