package barbershop

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/streadway/amqp"
	"google.golang.org/grpc"

	"github.com/magabrotheeeer/barbershop-booking/internal/access"
	"github.com/magabrotheeeer/barbershop-booking/internal/cache"
	"github.com/magabrotheeeer/barbershop-booking/internal/config"
	grpchealth "github.com/magabrotheeeer/barbershop-booking/internal/grpc/health"
	"github.com/magabrotheeeer/barbershop-booking/internal/http/middlewarectx"
	"github.com/magabrotheeeer/barbershop-booking/internal/lib/jwt"
	"github.com/magabrotheeeer/barbershop-booking/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/barbershop-booking/internal/lib/sl"
	"github.com/magabrotheeeer/barbershop-booking/internal/metrics"
	"github.com/magabrotheeeer/barbershop-booking/internal/migrations"
	authservice "github.com/magabrotheeeer/barbershop-booking/internal/services/auth"
	"github.com/magabrotheeeer/barbershop-booking/internal/services/booking"
	"github.com/magabrotheeeer/barbershop-booking/internal/storage/repository"
)

const (
	shutdownTimeout     = 15 * time.Second
	healthCheckInterval = 10 * time.Second
	limiterCleanup      = time.Minute
	pastSkew            = 5 * time.Minute
)

// App сервис записи: HTTP API и gRPC health.
type App struct {
	server   *http.Server
	grpc     *grpc.Server
	listener net.Listener
	checker  *grpchealth.Checker
	limiter  *middlewarectx.RateLimiter
	logger   *slog.Logger
	db       *repository.Storage
	cache    *cache.Cache
	conn     *amqp.Connection
	ch       *amqp.Channel
}

// New поднимает зависимости и собирает приложение.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "barbershop.New"

	loc, err := time.LoadLocation(cfg.Booking.Location)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	db, err := repository.New(ctx, cfg.StorageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	conn, err := rabbitmq.Connect(ctx, logger, cfg.RabbitMQ.URL, cfg.RabbitMQ.MaxRetries, cfg.RabbitMQ.RetryDelay)
	if err != nil {
		_ = cacheRedis.Close()
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	ch, err := rabbitmq.SetupChannel(conn, cfg.RabbitMQ.Exchange, rabbitmq.HistoryInvalidationQueues(cfg.RabbitMQ.Queue))
	if err != nil {
		_ = conn.Close()
		_ = cacheRedis.Close()
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	m := metrics.New(prometheus.DefaultRegisterer)
	tokens := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL, cfg.RenewAfter)
	authorizer, err := access.New(tokens, access.DefaultRules(cfg.Access))
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		_ = cacheRedis.Close()
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	authService := authservice.NewService(logger, db, tokens, cfg.TokenTTL, m)
	bookingService := booking.NewService(logger, db, cacheRedis, rabbitmq.NewPublisher(ch, cfg.RabbitMQ.Exchange), m, booking.Options{
		HistoryTTL:  cfg.HistoryTTL,
		MaxDuration: cfg.MaxDuration,
		PastSkew:    pastSkew,
		Location:    loc,
	})
	limiter := middlewarectx.NewRateLimiter(cfg.RPS, cfg.Burst)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, cfg.Access, cfg.RequestTimeout, Deps{
		Auth:           authService,
		Booking:        bookingService,
		Catalogue:      db,
		DB:             db,
		Authorizer:     authorizer,
		Limiter:        limiter,
		Metrics:        m,
		MetricsHandler: promhttp.Handler(),
	})

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	lis, err := net.Listen("tcp", cfg.AddressGRPC)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		_ = cacheRedis.Close()
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	grpcServer := grpc.NewServer()
	checker := grpchealth.New(logger, map[string]grpchealth.Pinger{
		"postgres": db,
		"redis":    cacheRedis,
	})
	checker.Register(grpcServer)

	return &App{
		server:   srv,
		grpc:     grpcServer,
		listener: lis,
		checker:  checker,
		limiter:  limiter,
		logger:   logger,
		db:       db,
		cache:    cacheRedis,
		conn:     conn,
		ch:       ch,
	}, nil
}

// Run запускает серверы и блокируется до отмены ctx или ошибки одного из них.
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
	go func() {
		a.logger.Info("gRPC health listening on", slog.String("address", a.listener.Addr().String()))
		errCh <- a.grpc.Serve(a.listener)
	}()

	bgCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go a.checker.Run(bgCtx, healthCheckInterval)
	go a.limiter.Cleanup(bgCtx, limiterCleanup)

	var runErr error
	select {
	case runErr = <-errCh:
	case <-ctx.Done():
	}
	cancel()
	return errors.Join(runErr, a.shutdown())
}

func (a *App) shutdown() error {
	timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	a.logger.Info("shutting down HTTP server gracefully")
	err := a.server.Shutdown(timeoutCtx)
	a.grpc.GracefulStop()

	if cerr := a.ch.Close(); cerr != nil {
		a.logger.Error("failed to close channel", sl.Err(cerr))
	}
	if cerr := a.conn.Close(); cerr != nil {
		a.logger.Error("failed to close connection", sl.Err(cerr))
	}
	if cerr := a.cache.Close(); cerr != nil {
		a.logger.Error("failed to close redis", sl.Err(cerr))
	}
	if cerr := a.db.Close(); cerr != nil {
		a.logger.Error("failed to close database", sl.Err(cerr))
	}
	return err
}
