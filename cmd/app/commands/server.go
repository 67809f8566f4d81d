package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shipdocs/employee-onboarding-sub012/internal/app"
	"github.com/shipdocs/employee-onboarding-sub012/internal/config"
)

// shutdownTimeout bounds graceful shutdown of the metrics server.
const shutdownTimeout = 15 * time.Second

// RunMetricsServer starts the metrics HTTP server with graceful shutdown
// support. Blocks until receiving SIGINT/SIGTERM or encountering a fatal
// server error.
func RunMetricsServer(ctx context.Context, version string) error {
	cfg := config.Load()
	container := app.NewContainer(cfg)

	logger := container.Logger()
	logger.Info("starting metrics server", slog.String("version", version))

	defer closeContainer(container, logger)

	server, err := container.MetricsServer(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize metrics server: %w", err)
	}

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	serverErr := make(chan error, 1)
	go func() {
		if err := server.Start(ctx); err != nil {
			serverErr <- fmt.Errorf("metrics server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("metrics server shutdown: %w", err)
		}
	case err := <-serverErr:
		logger.Error("server error", slog.Any("error", err))
		return err
	}

	return nil
}
