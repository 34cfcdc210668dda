// Package contactsender собирает обработчик очереди заявок с контактной формы:
// сообщения из RabbitMQ отправляются письмом через SMTP.
package contactsender

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/awfixer-portal/internal/config"
	"github.com/magabrotheeeer/awfixer-portal/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/awfixer-portal/internal/lib/sl"
	"github.com/magabrotheeeer/awfixer-portal/internal/lib/smtp"
	"github.com/magabrotheeeer/awfixer-portal/internal/services/sender"
)

const workers = 4

// App обработчик очереди заявок.
type App struct {
	conn          *amqp.Connection
	ch            *amqp.Channel
	senderService *sender.Service
	logger        *slog.Logger
}

// New подключается к RabbitMQ и объявляет топологию очереди заявок.
func New(_ context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "contactsender.New"

	conn, err := rabbitmq.Connect(cfg.RabbitMQ.URL, cfg.RabbitMQ.Retries, cfg.RabbitMQ.RetryDelay)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.ContactExchange, rabbitmq.ContactQueues())
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	transport := smtp.NewTransport(cfg.SMTP, logger)

	return &App{
		conn:          conn,
		ch:            ch,
		senderService: sender.New(logger, transport),
		logger:        logger,
	}, nil
}

// Run обрабатывает очередь до отмены ctx.
func (a *App) Run(ctx context.Context) error {
	err := rabbitmq.Consume(ctx, a.logger, a.ch, rabbitmq.ContactQueue, workers, a.senderService.HandleContact)

	a.logger.Info("contact sender shutting down gracefully")
	if cerr := a.ch.Close(); cerr != nil {
		a.logger.Error("failed to close channel", sl.Err(cerr))
	}
	if cerr := a.conn.Close(); cerr != nil {
		a.logger.Error("failed to close connection", sl.Err(cerr))
	}

	if err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}
