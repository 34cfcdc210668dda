package portal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/awfixer-portal/internal/cache"
	"github.com/magabrotheeeer/awfixer-portal/internal/config"
	"github.com/magabrotheeeer/awfixer-portal/internal/discord"
	grpcserver "github.com/magabrotheeeer/awfixer-portal/internal/grpc/server"
	"github.com/magabrotheeeer/awfixer-portal/internal/http/handlers/account/access"
	accountsession "github.com/magabrotheeeer/awfixer-portal/internal/http/handlers/account/session"
	"github.com/magabrotheeeer/awfixer-portal/internal/http/handlers/account/subscription"
	"github.com/magabrotheeeer/awfixer-portal/internal/http/handlers/auth/oauth"
	"github.com/magabrotheeeer/awfixer-portal/internal/http/handlers/contact"
	"github.com/magabrotheeeer/awfixer-portal/internal/http/handlers/content/list"
	"github.com/magabrotheeeer/awfixer-portal/internal/http/handlers/content/read"
	"github.com/magabrotheeeer/awfixer-portal/internal/http/handlers/content/remove"
	"github.com/magabrotheeeer/awfixer-portal/internal/http/handlers/content/upsert"
	"github.com/magabrotheeeer/awfixer-portal/internal/http/handlers/discord/membership"
	"github.com/magabrotheeeer/awfixer-portal/internal/http/handlers/health"
	searchindex "github.com/magabrotheeeer/awfixer-portal/internal/http/handlers/search/index"
	"github.com/magabrotheeeer/awfixer-portal/internal/http/handlers/search/query"
	"github.com/magabrotheeeer/awfixer-portal/internal/http/handlers/turnstile/verify"
	"github.com/magabrotheeeer/awfixer-portal/internal/http/middlewarectx"
	"github.com/magabrotheeeer/awfixer-portal/internal/lib/accountcookie"
	"github.com/magabrotheeeer/awfixer-portal/internal/lib/jwt"
	"github.com/magabrotheeeer/awfixer-portal/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/awfixer-portal/internal/lib/sl"
	"github.com/magabrotheeeer/awfixer-portal/internal/migrations"
	"github.com/magabrotheeeer/awfixer-portal/internal/patreon"
	"github.com/magabrotheeeer/awfixer-portal/internal/search"
	contactsvc "github.com/magabrotheeeer/awfixer-portal/internal/services/contact"
	contentsvc "github.com/magabrotheeeer/awfixer-portal/internal/services/content"
	"github.com/magabrotheeeer/awfixer-portal/internal/services/session"
	"github.com/magabrotheeeer/awfixer-portal/internal/storage/repository"
	"github.com/magabrotheeeer/awfixer-portal/internal/turnstile"
)

// App HTTP-приложение портала и его ресурсы.
type App struct {
	server  *http.Server
	health  *grpcserver.HealthServer
	grpcLis net.Listener
	logger  *slog.Logger
	db      *repository.Storage
	cache   *cache.Cache
	conn    *amqp.Connection
	ch      *amqp.Channel
}

// New подключается к PostgreSQL, Redis и RabbitMQ, применяет миграции,
// загружает поисковый индекс и собирает маршруты.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "portal.New"

	db, err := repository.New(ctx, cfg.Storage.ConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = migrations.Run(db.DB, cfg.Storage.MigrationsPath); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = db.CheckDatabaseReady(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.Redis)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	conn, err := rabbitmq.Connect(cfg.RabbitMQ.URL, cfg.RabbitMQ.Retries, cfg.RabbitMQ.RetryDelay)
	if err != nil {
		_ = cacheRedis.Close()
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.ContactExchange, rabbitmq.ContactQueues())
	if err != nil {
		_ = conn.Close()
		_ = cacheRedis.Close()
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	index, err := search.Load(ctx, cfg.Search.IndexSource)
	switch {
	case errors.Is(err, search.ErrEmptySource):
		logger.Warn("search index source is not configured, search is empty")
		index = search.NewIndex(nil)
	case err != nil:
		_ = ch.Close()
		_ = conn.Close()
		_ = cacheRedis.Close()
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	default:
		logger.Info("search index loaded", slog.Int("entries", index.Len()))
	}

	a := &App{
		logger: logger,
		db:     db,
		cache:  cacheRedis,
		conn:   conn,
		ch:     ch,
	}

	patreonClient := patreon.NewClient(patreon.Config{
		BaseURL:      cfg.Patreon.BaseURL,
		ClientID:     cfg.Patreon.ClientID,
		ClientSecret: cfg.Patreon.ClientSecret,
		RedirectURI:  cfg.Patreon.RedirectURI,
		CampaignID:   cfg.Patreon.CampaignID,
		Timeout:      cfg.Patreon.Timeout,
	})
	sessionService := session.New(logger, patreonClient, cfg.Account.CookieName)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, a.handlers(cfg, index, patreonClient, sessionService), RouteOptions{
		Sessions:       sessionService,
		Limiter:        middlewarectx.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst),
		AdminTokenHash: cfg.Admin.TokenHash,
	})

	a.server = &http.Server{
		Addr:         cfg.HTTPServer.Address,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	if cfg.GRPCServer.Address != "" {
		lis, err := net.Listen("tcp", cfg.GRPCServer.Address)
		if err != nil {
			a.close()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		a.grpcLis = lis
		a.health = grpcserver.NewHealthServer(logger, map[string]grpcserver.Checker{
			"postgres": db,
			"redis":    cacheRedis,
		}, 10*time.Second)
	}

	return a, nil
}

func (a *App) handlers(cfg *config.Config, index *search.Index, patreonClient *patreon.Client, sessionService *session.Service) Handlers {
	logger := a.logger

	turnstileClient := turnstile.NewClient(cfg.Turnstile.SecretKey, cfg.Turnstile.VerifyURL, cfg.Turnstile.Timeout)
	var verifier contactsvc.Verifier
	if cfg.Turnstile.SecretKey != "" {
		verifier = turnstileClient
	}
	contactService := contactsvc.New(logger,
		rabbitmq.NewPublisher(a.ch, rabbitmq.ContactExchange, rabbitmq.ContactRoutingKey),
		verifier,
		contactsvc.Options{
			Recipients:       cfg.Contact.Recipients,
			RequireTurnstile: cfg.Contact.RequireTurnstile,
		},
	)

	discordClient := discord.NewClient(logger, discord.Config{
		BaseURL:  cfg.Discord.BaseURL,
		GuildID:  cfg.Discord.GuildID,
		Timeout:  cfg.Discord.Timeout,
		CacheTTL: cfg.Discord.CacheTTL,
	}, a.cache)

	contentService := contentsvc.New(logger, a.db, a.cache, cfg.Redis.ContentTTL)

	oauthCfg := oauth.Config{
		Cookie: accountcookie.Options{
			Name:   cfg.Account.CookieName,
			Domain: cfg.Account.CookieDomain,
			TTL:    cfg.Account.CookieTTL,
			Secure: !cfg.Account.Insecure,
		},
		StateTTL:       cfg.Patreon.StateTTL,
		LoginRedirect:  cfg.Account.LoginRedirect,
		LogoutRedirect: cfg.Account.LogoutRedirect,
	}
	states := jwt.NewStateMaker(cfg.Patreon.StateSecret, cfg.Patreon.StateTTL)

	return Handlers{
		Health: health.New(logger, map[string]health.Checker{
			"postgres": a.db,
			"redis":    a.cache,
		}),

		Search:      query.New(logger, index),
		SearchIndex: searchindex.New(index),
		Turnstile:   verify.New(logger, turnstileClient),
		Contact:     contact.New(logger, contactService),

		Login:    oauth.NewLogin(logger, patreonClient, states, oauthCfg),
		Callback: oauth.NewCallback(logger, patreonClient, states, oauthCfg),
		Logout:   oauth.NewLogout(oauthCfg),

		Subscription: subscription.New(logger, sessionService),
		Session:      accountsession.New(logger),
		Access:       access.New(logger),
		Discord:      membership.New(logger, sessionService, discordClient),

		ContentList:   list.New(logger, contentService),
		ContentRead:   read.New(logger, contentService),
		ContentUpsert: upsert.New(logger, contentService),
		ContentRemove: remove.New(logger, contentService),
	}
}

// Run запускает HTTP-сервер (и gRPC health, если настроен) и останавливает
// их мягко при отмене ctx.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 2)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	grpcCtx, cancelGRPC := context.WithCancel(ctx)
	defer cancelGRPC()
	if a.health != nil {
		go func() {
			if err := a.health.Serve(grpcCtx, a.grpcLis); err != nil {
				errCh <- fmt.Errorf("grpc health: %w", err)
			}
		}()
	}

	var runErr error
	select {
	case runErr = <-errCh:
	case <-ctx.Done():
	}

	cancelGRPC()
	timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	a.logger.Info("shutting down HTTP server gracefully")
	if err := a.server.Shutdown(timeoutCtx); err != nil && runErr == nil {
		runErr = err
	}
	a.close()
	return runErr
}

func (a *App) close() {
	if a.ch != nil {
		if err := a.ch.Close(); err != nil {
			a.logger.Error("failed to close channel", sl.Err(err))
		}
	}
	if a.conn != nil {
		if err := a.conn.Close(); err != nil {
			a.logger.Error("failed to close connection", sl.Err(err))
		}
	}
	if err := a.cache.Close(); err != nil {
		a.logger.Error("failed to close redis", sl.Err(err))
	}
	if err := a.db.Close(); err != nil {
		a.logger.Error("failed to close database", sl.Err(err))
	}
}
