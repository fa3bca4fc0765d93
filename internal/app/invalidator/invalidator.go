// Package invalidator собирает воркер, который сбрасывает кэш истории по событиям из брокера.
package invalidator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/barbershop-booking/internal/cache"
	"github.com/magabrotheeeer/barbershop-booking/internal/config"
	"github.com/magabrotheeeer/barbershop-booking/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/barbershop-booking/internal/lib/sl"
	invalidatorservice "github.com/magabrotheeeer/barbershop-booking/internal/services/invalidator"
)

// ErrDeliveryClosed брокер закрыл канал доставки, воркер больше ничего не получит.
var ErrDeliveryClosed = errors.New("delivery channel closed")

// consumeFunc запускает чтение очереди и возвращает канал завершения обработчиков.
type consumeFunc func(ctx context.Context) (<-chan struct{}, error)

// App воркер инвалидации кэша.
type App struct {
	conn    *amqp.Connection
	ch      *amqp.Channel
	cache   *cache.Cache
	queue   string
	consume consumeFunc
	logger  *slog.Logger
}

// New подключается к брокеру и redis.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "invalidator.New"

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	conn, err := rabbitmq.Connect(ctx, logger, cfg.RabbitMQ.URL, cfg.RabbitMQ.MaxRetries, cfg.RabbitMQ.RetryDelay)
	if err != nil {
		_ = cacheRedis.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	ch, err := rabbitmq.SetupChannel(conn, cfg.RabbitMQ.Exchange, rabbitmq.HistoryInvalidationQueues(cfg.RabbitMQ.Queue))
	if err != nil {
		_ = conn.Close()
		_ = cacheRedis.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	service := invalidatorservice.NewService(logger, cacheRedis)
	queue := cfg.RabbitMQ.Queue
	return &App{
		conn:  conn,
		ch:    ch,
		cache: cacheRedis,
		queue: queue,
		consume: func(ctx context.Context) (<-chan struct{}, error) {
			return rabbitmq.ConsumerMessage(ctx, logger, ch, queue, service.Handle)
		},
		logger: logger,
	}, nil
}

// Run читает очередь до отмены ctx и дожидается обработки уже полученных сообщений.
// Если брокер закрыл доставку раньше, возвращает ErrDeliveryClosed, чтобы процесс перезапустили.
func (a *App) Run(ctx context.Context) error {
	defer a.close()

	done, err := a.consume(ctx)
	if err != nil {
		a.logger.Error("failed to start consumer", slog.String("queue", a.queue), sl.Err(err))
		return err
	}

	select {
	case <-ctx.Done():
		a.logger.Info("history invalidator shutting down gracefully")
		<-done
		return nil
	case <-done:
		if ctx.Err() != nil {
			return nil
		}
		a.logger.Error("consumer stopped while running", slog.String("queue", a.queue))
		return fmt.Errorf("invalidator.Run: %s: %w", a.queue, ErrDeliveryClosed)
	}
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
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.logger.Error("failed to close redis", sl.Err(err))
		}
	}
}
