package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/JonMunkholm/OrderTrack/internal/config"
	"github.com/JonMunkholm/OrderTrack/internal/core"
	"github.com/JonMunkholm/OrderTrack/internal/events"
	"github.com/JonMunkholm/OrderTrack/internal/logging"
	"github.com/JonMunkholm/OrderTrack/internal/storage"
	"github.com/JonMunkholm/OrderTrack/internal/web"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Info("configuration loaded", "config", cfg.String())

	opts, err := core.OptionsFromConfig(cfg)
	if err != nil {
		slog.Error("invalid dashboard settings", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	slot, err := storage.Open(ctx, cfg.Storage)
	if err != nil {
		slog.Error("failed to open storage", "driver", cfg.Storage.Driver, "error", err)
		os.Exit(1)
	}

	pub, err := events.Open(cfg.Events)
	if err != nil {
		slog.Error("failed to connect event publisher", "error", err)
		_ = slot.Close()
		os.Exit(1)
	}

	service := core.NewService(slot, pub, opts)
	defer func() {
		if err := service.Close(); err != nil {
			slog.Error("failed to close service", "error", err)
		}
	}()

	if err := service.Load(ctx); err != nil {
		slog.Error("failed to load orders", "error", err)
		os.Exit(1)
	}

	server := web.NewServer(service, cfg)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		// Let running imports finish before closing connections
		if active := service.ImportLimiter().Active(); active > 0 {
			slog.Info("waiting for imports to complete", "active", active)
			if err := service.ImportLimiter().WaitForDrain(shutdownCtx); err != nil {
				slog.Warn("imports did not complete in time", "error", err)
			}
		}

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	if err := server.Start(); err != nil {
		slog.Error("server stopped", "error", err)
	}
	slog.Info("server stopped")
}
