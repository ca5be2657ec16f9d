package docstore

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/tair/inventory-tracker/internal/inventory/domain"
	"github.com/tair/inventory-tracker/internal/inventory/metrics"
	"github.com/tair/inventory-tracker/pkg/database"
	"github.com/tair/inventory-tracker/pkg/logger"
)

// Supported backends
const (
	DriverBadger   = "badger"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
)

// Options selects and configures a document store backend
type Options struct {
	Driver         string
	BadgerPath     string
	Postgres       database.Config
	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	RedisPrefix    string
	BreakerEnabled bool
}

// Open connects the configured backend and wraps it with tracing and,
// when enabled, a circuit breaker.
func Open(ctx context.Context, opts Options, m *metrics.Metrics) (domain.DocumentStore, error) {
	var store domain.DocumentStore

	switch opts.Driver {
	case DriverBadger, "":
		badgerStore, err := NewBadgerStore(opts.BadgerPath)
		if err != nil {
			return nil, err
		}
		store = badgerStore

	case DriverPostgres:
		db, err := database.NewGormConnection(opts.Postgres)
		if err != nil {
			return nil, err
		}
		gormStore := NewGormStore(db)
		if err := gormStore.AutoMigrate(); err != nil {
			_ = gormStore.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		store = gormStore

	case DriverRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     opts.RedisAddr,
			Password: opts.RedisPassword,
			DB:       opts.RedisDB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("failed to connect redis: %w", err)
		}
		store = NewRedisStore(client, opts.RedisPrefix)

	default:
		return nil, fmt.Errorf("unknown document store driver %q", opts.Driver)
	}

	driver := opts.Driver
	if driver == "" {
		driver = DriverBadger
	}
	logger.Logger.Info().
		Str("driver", driver).
		Bool("circuit_breaker", opts.BreakerEnabled).
		Msg("Document store opened")

	store = NewTracingStore(store, driver)
	if opts.BreakerEnabled {
		store = NewBreakerStore(store, "docstore-"+driver, m)
	}
	return store, nil
}
