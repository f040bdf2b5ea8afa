package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/eshaffer321/recurscan/internal/api"
	"github.com/eshaffer321/recurscan/internal/infrastructure/storage"
)

// shutdownTimeout bounds graceful shutdown.
const shutdownTimeout = 30 * time.Second

// RunServe runs the API server until SIGINT or SIGTERM.
func RunServe(flags *ServeFlags, stderr io.Writer) error {
	cfg, err := LoadConfig(flags.Config)
	if err != nil {
		return err
	}
	logger := newLogger(cfg, flags.Verbose, stderr, "api")

	store, err := storage.NewStorage(cfg.Storage.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open database %s: %w", cfg.Storage.DatabasePath, err)
	}
	defer func() { _ = store.Close() }()

	svc, err := newService(cfg, store, logger)
	if err != nil {
		return err
	}

	apiCfg := api.DefaultConfig()
	apiCfg.Port = cfg.Server.Port
	if flags.Port != 0 {
		apiCfg.Port = flags.Port
	}
	if len(cfg.Server.AllowedOrigins) > 0 {
		apiCfg.AllowedOrigins = cfg.Server.AllowedOrigins
	}

	server := api.NewServer(apiCfg, svc, logger)

	// Handle graceful shutdown
	done := make(chan struct{})
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	go func() {
		<-quit
		logger.Info("received shutdown signal")

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			logger.Error("server shutdown error", slog.Any("error", err))
		}
		close(done)
	}()

	// Start server (blocks until shutdown)
	if err := server.Start(); err != nil {
		return err
	}

	<-done
	logger.Info("server stopped")
	return nil
}
