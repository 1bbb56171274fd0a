// Command orderctl inspects and maintains the order list in the configured
// storage slot without going through the web server.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/JonMunkholm/OrderTrack/internal/config"
	"github.com/JonMunkholm/OrderTrack/internal/core"
	"github.com/JonMunkholm/OrderTrack/internal/events"
	"github.com/JonMunkholm/OrderTrack/internal/logging"
	"github.com/JonMunkholm/OrderTrack/internal/storage"
)

func main() {
	if err := newRootCmd(openService).Execute(); err != nil {
		os.Exit(1)
	}
}

// openService wires the service from the environment the same way the
// server does. Logs go to stderr so exports on stdout stay clean.
func openService(ctx context.Context) (*core.Service, error) {
	// Unlike the server, existing environment variables win over .env.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logging.New(os.Stderr, cfg.Logging.Level, cfg.Logging.Format))

	opts, err := core.OptionsFromConfig(cfg)
	if err != nil {
		return nil, err
	}

	slot, err := storage.Open(ctx, cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	pub, err := events.Open(cfg.Events)
	if err != nil {
		_ = slot.Close()
		return nil, fmt.Errorf("open event publisher: %w", err)
	}

	svc := core.NewService(slot, pub, opts)
	if err := svc.Load(ctx); err != nil {
		_ = svc.Close()
		return nil, err
	}
	return svc, nil
}
