package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/magabrotheeeer/barbershop-booking/internal/app/invalidator"
	"github.com/magabrotheeeer/barbershop-booking/internal/config"
	"github.com/magabrotheeeer/barbershop-booking/internal/lib/sl"
)

func main() {
	cfg := config.MustLoad()
	logger := sl.SetupLogger(cfg.Env)

	logger.Info("starting history-invalidator", slog.String("env", cfg.Env), slog.String("queue", cfg.RabbitMQ.Queue))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := invalidator.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize history-invalidator", sl.Err(err))
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil {
		logger.Error("history-invalidator stopped with error", sl.Err(err))
		os.Exit(1)
	}

	logger.Info("history-invalidator stopped gracefully")
}
