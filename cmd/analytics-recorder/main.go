package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/startuplense/content-platform/internal/app/analyticsrecorder"
	"github.com/startuplense/content-platform/internal/config"
)

func main() {
	cfg := config.MustLoad()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	logger.Info("starting analytics-recorder", slog.String("env", cfg.Env))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := analyticsrecorder.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize analytics-recorder", slog.Any("err", err))
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil {
		logger.Error("analytics-recorder stopped with error", slog.Any("err", err))
		os.Exit(1)
	}

	logger.Info("analytics-recorder stopped gracefully")
}
