package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/redis/go-redis/v9"
	_ "modernc.org/sqlite"

	"github.com/rl1809/inventory-tracker/internal/adapter/storage"
	"github.com/rl1809/inventory-tracker/internal/config"
	"github.com/rl1809/inventory-tracker/internal/port"
)

// backend bundles the configured repository with the idempotency store
// that pairs with it and whatever connections must be closed afterwards.
type backend struct {
	repo    port.InventoryRepository
	idem    port.IdempotencyStore
	closers []func() error
}

func (b *backend) Close() error {
	var firstErr error
	for i := len(b.closers) - 1; i >= 0; i-- {
		if err := b.closers[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func openBackend(ctx context.Context, cfg *config.Config, logger port.Logger) (*backend, error) {
	switch cfg.Backend {
	case config.BackendFile:
		return &backend{
			repo: storage.NewJSONFileAdapter(cfg.DataFile, logger),
			idem: storage.NewMemoryIdempotency(),
		}, nil

	case config.BackendRedis:
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			PoolSize: 100,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			rdb.Close()
			return nil, fmt.Errorf("failed to connect redis: %w", err)
		}
		logger.Infof("connected to redis at %s", cfg.Redis.Addr)

		adapter := storage.NewRedisAdapter(rdb, cfg.Redis.KeyPrefix, logger)
		return &backend{repo: adapter, idem: adapter, closers: []func() error{rdb.Close}}, nil

	case config.BackendMySQL:
		db, err := openSQL(ctx, "mysql", cfg.MySQL.DSN)
		if err != nil {
			return nil, fmt.Errorf("failed to connect mysql: %w", err)
		}
		logger.Infof("connected to mysql")
		return migrated(ctx, db, storage.DialectMySQL, logger)

	case config.BackendSQLite:
		db, err := openSQL(ctx, "sqlite", cfg.SQLite.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite: %w", err)
		}
		// SQLite allows a single writer.
		db.SetMaxOpenConns(1)
		return migrated(ctx, db, storage.DialectSQLite, logger)

	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownBackend, cfg.Backend)
	}
}

func openSQL(ctx context.Context, driver, dsn string) (*sql.DB, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(50)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func migrated(ctx context.Context, db *sql.DB, dialect storage.Dialect, logger port.Logger) (*backend, error) {
	adapter := storage.NewSQLAdapter(db, dialect, logger)
	if err := adapter.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return &backend{
		repo:    adapter,
		idem:    storage.NewMemoryIdempotency(),
		closers: []func() error{db.Close},
	}, nil
}
