package rabbitmq

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/awfixer-portal/internal/lib/sl"
)

// Handler обрабатывает тело сообщения.
type Handler func(ctx context.Context, body []byte) error

// Consume читает очередь queueName и обрабатывает до workers сообщений
// одновременно. Успешно обработанные сообщения подтверждаются, неуспешные
// отклоняются без возврата в очередь. Блокируется до отмены ctx или закрытия
// канала доставки и дожидается завершения обработчиков.
func Consume(ctx context.Context, log *slog.Logger, ch *amqp.Channel, queueName string, workers int, handler Handler) error {
	const op = "rabbitmq.Consume"

	deliveries, err := ch.Consume(queueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return serve(ctx, log, deliveries, workers, handler)
}

// acknowledger часть amqp.Delivery, нужная для подтверждения.
type acknowledger interface {
	Ack(multiple bool) error
	Nack(multiple, requeue bool) error
}

type delivery struct {
	ack  acknowledger
	body []byte
}

func serve(ctx context.Context, log *slog.Logger, deliveries <-chan amqp.Delivery, workers int, handler Handler) error {
	in := make(chan delivery)
	go func() {
		defer close(in)
		for {
			select {
			case <-ctx.Done():
				return
			case d, ok := <-deliveries:
				if !ok {
					return
				}
				select {
				case in <- delivery{ack: d, body: d.Body}:
				case <-ctx.Done():
					_ = d.Nack(false, true)
					return
				}
			}
		}
	}()
	return process(ctx, log, in, workers, handler)
}

func process(ctx context.Context, log *slog.Logger, in <-chan delivery, workers int, handler Handler) error {
	if workers < 1 {
		workers = 1
	}

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for d := range in {
				if err := handler(ctx, d.body); err != nil {
					log.Error("failed to handle message, dropping", sl.Err(err))
					if nackErr := d.ack.Nack(false, false); nackErr != nil {
						log.Error("failed to nack message", sl.Err(nackErr))
					}
					continue
				}
				if ackErr := d.ack.Ack(false); ackErr != nil {
					log.Error("failed to ack message", sl.Err(ackErr))
				}
			}
		}()
	}
	wg.Wait()
	return ctx.Err()
}
