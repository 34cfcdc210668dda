// Package main AWFixer Portal API
//
// @title           AWFixer Portal API
// @version         1.0
// @description     API портала участников AWFixer: сессия Patreon, закрытые материалы, контактная форма, поиск

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey AdminToken
// @in header
// @name X-Admin-Token
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/magabrotheeeer/awfixer-portal/docs"
	"github.com/magabrotheeeer/awfixer-portal/internal/app/portal"
	"github.com/magabrotheeeer/awfixer-portal/internal/config"
	"github.com/magabrotheeeer/awfixer-portal/internal/lib/sl"
)

func main() {
	cfg := config.MustLoad()
	logger := sl.New(cfg.Env, os.Stdout)

	logger.Info("starting awfixer-portal", slog.String("env", cfg.Env))
	logger.Debug("debug messages are enabled")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := portal.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize app", sl.Err(err))
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil {
		logger.Error("app stopped with error", sl.Err(err))
		os.Exit(1)
	}

	logger.Info("awfixer-portal stopped gracefully")
}
