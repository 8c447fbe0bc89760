// Package lock serializes reconciliation commits per store.
//
// A store lock only guards commits against each other; issue and receive
// never take it.
package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/erp/stockledger/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// DefaultTTL bounds how long a crashed holder can block a store
const DefaultTTL = 2 * time.Minute

// StoreLocker acquires an exclusive lock on a store.
// The returned release function is safe to call once.
type StoreLocker interface {
	Acquire(ctx context.Context, storeID uuid.UUID) (release func(context.Context) error, err error)
}

// New builds the locker selected by cfg. It returns nil for the "none" (or empty) backend,
// in which case commits run unserialized. The Redis client is only used by the
// redis backend and may be nil otherwise.
func New(cfg config.LedgerConfig, rdb *redis.Client, logger *zap.Logger) (StoreLocker, error) {
	ttl := cfg.CommitLockTTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	switch cfg.CommitLockBackend {
	case config.LockBackendNone, "":
		return nil, nil
	case config.LockBackendMemory:
		return NewMemoryStoreLocker(ttl), nil
	case config.LockBackendRedis:
		if rdb == nil {
			return nil, fmt.Errorf("redis lock backend requires a redis client")
		}
		return NewRedisStoreLocker(rdb, ttl, logger), nil
	default:
		return nil, fmt.Errorf("unknown commit lock backend %q", cfg.CommitLockBackend)
	}
}

// NewRedisClient connects to Redis and verifies the connection
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

func storeKey(prefix string, storeID uuid.UUID) string {
	return prefix + storeID.String()
}
