package repository

import (
	"context"
	"fmt"
	"log/slog"
)

// StoreOptions selects and configures the KVStore backend.
type StoreOptions struct {
	Driver      string
	DatabaseURL string
	RedisURL    string
}

// OpenStore builds the KVStore for opts. The returned close function
// releases the underlying connection and is never nil.
func OpenStore(ctx context.Context, opts StoreOptions, logger *slog.Logger) (KVStore, func() error, error) {
	noop := func() error { return nil }

	switch opts.Driver {
	case DriverMemory:
		logger.Warn("Using in-memory storage; nothing survives a restart")
		return NewMemoryKVStore(), noop, nil

	case DriverRedis:
		client, err := NewRedisClient(ctx, opts.RedisURL)
		if err != nil {
			return nil, noop, err
		}
		logger.Info("Redis connection established")
		return NewRedisKVStore(client), client.Close, nil

	case DriverSQLite, DriverPostgres, "":
		db, err := NewDB(opts.Driver, opts.DatabaseURL, logger)
		if err != nil {
			return nil, noop, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, noop, err
		}
		if err := Migrate(db); err != nil {
			sqlDB.Close()
			return nil, noop, err
		}
		return NewGormKVStore(db), sqlDB.Close, nil

	default:
		return nil, noop, fmt.Errorf("repository.OpenStore: unsupported storage driver %q", opts.Driver)
	}
}
