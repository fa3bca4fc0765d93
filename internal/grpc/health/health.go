// Package health публикует стандартный gRPC health-сервис (grpc.health.v1) для оркестраторов.
//
// Статус каждой зависимости отдаётся под её именем, общий статус под пустым именем:
// SERVING только когда доступны все зависимости.
package health

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/magabrotheeeer/barbershop-booking/internal/lib/sl"
)

const checkTimeout = 2 * time.Second

// Pinger проверяет доступность зависимости.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Checker периодически опрашивает зависимости и обновляет статусы health-сервиса.
type Checker struct {
	srv  *health.Server
	deps map[string]Pinger
	log  *slog.Logger
}

// New создаёт Checker. До первой проверки все статусы NOT_SERVING.
func New(log *slog.Logger, deps map[string]Pinger) *Checker {
	c := &Checker{
		srv:  health.NewServer(),
		deps: deps,
		log:  log,
	}
	c.srv.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	for name := range deps {
		c.srv.SetServingStatus(name, healthpb.HealthCheckResponse_NOT_SERVING)
	}
	return c
}

// Register регистрирует health-сервис на gRPC-сервере.
func (c *Checker) Register(s *grpc.Server) {
	healthpb.RegisterHealthServer(s, c.srv)
}

// Check опрашивает все зависимости один раз.
func (c *Checker) Check(ctx context.Context) {
	const op = "health.Check"
	overall := healthpb.HealthCheckResponse_SERVING

	names := make([]string, 0, len(c.deps))
	for name := range c.deps {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		pingCtx, cancel := context.WithTimeout(ctx, checkTimeout)
		err := c.deps[name].Ping(pingCtx)
		cancel()

		status := healthpb.HealthCheckResponse_SERVING
		if err != nil {
			c.log.Warn("dependency unavailable", slog.String("op", op), slog.String("dependency", name), sl.Err(err))
			status = healthpb.HealthCheckResponse_NOT_SERVING
			overall = healthpb.HealthCheckResponse_NOT_SERVING
		}
		c.srv.SetServingStatus(name, status)
	}
	c.srv.SetServingStatus("", overall)
}

// Run проверяет зависимости каждые interval до отмены ctx, затем переводит все статусы в NOT_SERVING.
func (c *Checker) Run(ctx context.Context, interval time.Duration) {
	c.Check(ctx)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			c.srv.Shutdown()
			return
		case <-ticker.C:
			c.Check(ctx)
		}
	}
}
