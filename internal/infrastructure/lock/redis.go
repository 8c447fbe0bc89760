package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/erp/stockledger/internal/domain/inventory"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const redisKeyPrefix = "stockledger:commit:"

// RedisStoreLocker locks stores across processes with redislock.
// A second Acquire on a held store fails immediately with inventory.ErrStoreLocked.
type RedisStoreLocker struct {
	client *redislock.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisStoreLocker creates a RedisStoreLocker on rdb
func NewRedisStoreLocker(rdb *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisStoreLocker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisStoreLocker{
		client: redislock.New(rdb),
		ttl:    ttl,
		logger: logger,
	}
}

// Acquire obtains the store's lock for the configured TTL
func (l *RedisStoreLocker) Acquire(ctx context.Context, storeID uuid.UUID) (func(context.Context) error, error) {
	key := storeKey(redisKeyPrefix, storeID)

	lk, err := l.client.Obtain(ctx, key, l.ttl, nil)
	if errors.Is(err, redislock.ErrNotObtained) {
		l.logger.Info("Store commit lock held elsewhere", zap.String("store_id", storeID.String()))
		return nil, inventory.ErrStoreLocked
	}
	if err != nil {
		return nil, fmt.Errorf("failed to obtain store lock: %w", err)
	}

	return func(ctx context.Context) error {
		err := lk.Release(ctx)
		if errors.Is(err, redislock.ErrLockNotHeld) {
			l.logger.Warn("Store commit lock expired before release",
				zap.String("store_id", storeID.String()),
				zap.Duration("ttl", l.ttl),
			)
			return nil
		}
		return err
	}, nil
}

var _ StoreLocker = (*RedisStoreLocker)(nil)
