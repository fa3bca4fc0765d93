// Package rabbitmq содержит обвязку над amqp: подключение с повторами,
// объявление топологии, публикацию JSON-событий и конкурентного потребителя.
package rabbitmq

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/barbershop-booking/internal/lib/sl"
)

type dialFunc func(url string) (*amqp.Connection, error)

// Connect подключается к брокеру: не больше retries попыток с паузой delay между ними.
// Каждая неудачная попытка логируется, URL в лог не попадает. Отмена ctx прерывает ожидание.
func Connect(ctx context.Context, log *slog.Logger, url string, retries int, delay time.Duration) (*amqp.Connection, error) {
	return dialWithRetry(ctx, log, amqp.Dial, url, retries, delay)
}

func dialWithRetry(ctx context.Context, log *slog.Logger, dial dialFunc, url string, retries int, delay time.Duration) (*amqp.Connection, error) {
	const op = "rabbitmq.Connect"
	attempts := max(retries, 1)
	log = log.With(slog.String("op", op))

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		conn, err := dial(url)
		if err == nil {
			log.Info("connected to broker", slog.Int("attempt", attempt))
			return conn, nil
		}
		lastErr = err
		if attempt == attempts {
			break
		}

		log.Warn("broker unavailable, retrying",
			slog.Int("attempt", attempt),
			slog.Int("attempts", attempts),
			slog.Duration("retry_in", delay),
			sl.Err(err),
		)
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%s: %w", op, ctx.Err())
		case <-time.After(delay):
		}
	}

	log.Error("broker unreachable", slog.Int("attempts", attempts), sl.Err(lastErr))
	return nil, fmt.Errorf("%s: after %d attempts: %w", op, attempts, lastErr)
}
