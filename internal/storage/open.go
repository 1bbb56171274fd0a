package storage

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/JonMunkholm/OrderTrack/internal/config"
)

// Open builds the slot selected by cfg.Driver.
func Open(ctx context.Context, cfg config.StorageConfig) (Slot, error) {
	driver := strings.ToLower(cfg.Driver)

	var (
		slot Slot
		err  error
	)
	switch driver {
	case "memory":
		slot = NewMemorySlot()
	case "file":
		slot = NewFileSlot(cfg.FilePath)
	case "sqlite":
		slot, err = OpenSQLite(ctx, cfg.SQLitePath, cfg.Key)
	case "postgres":
		slot, err = OpenPostgres(ctx, PostgresOptions{
			URL:      cfg.DatabaseURL,
			Key:      cfg.Key,
			MaxConns: int32(cfg.MaxConns),
			MinConns: int32(cfg.MinConns),

			MaxConnLifetime: cfg.MaxConnLifetime,
		})
	case "dynamodb":
		slot, err = OpenDynamo(ctx, DynamoOptions{
			Region:   cfg.DynamoRegion,
			Endpoint: cfg.DynamoEndpoint,
			Table:    cfg.DynamoTable,
			Key:      cfg.Key,
		})
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}

	slog.Info("storage opened", "driver", driver, "key", cfg.Key)
	return slot, nil
}
