package lock

import (
	"testing"
	"time"

	"github.com/erp/stockledger/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew(t *testing.T) {
	t.Run("none disables locking", func(t *testing.T) {
		l, err := New(config.LedgerConfig{CommitLockBackend: config.LockBackendNone}, nil, zap.NewNop())
		require.NoError(t, err)
		assert.Nil(t, l)
	})

	t.Run("empty backend disables locking", func(t *testing.T) {
		l, err := New(config.LedgerConfig{}, nil, zap.NewNop())
		require.NoError(t, err)
		assert.Nil(t, l)
	})

	t.Run("memory uses default ttl", func(t *testing.T) {
		l, err := New(config.LedgerConfig{CommitLockBackend: config.LockBackendMemory}, nil, zap.NewNop())
		require.NoError(t, err)
		mem, ok := l.(*MemoryStoreLocker)
		require.True(t, ok)
		assert.Equal(t, DefaultTTL, mem.ttl)
	})

	t.Run("memory honours configured ttl", func(t *testing.T) {
		l, err := New(config.LedgerConfig{CommitLockBackend: config.LockBackendMemory, CommitLockTTL: 5 * time.Second}, nil, nil)
		require.NoError(t, err)
		assert.Equal(t, 5*time.Second, l.(*MemoryStoreLocker).ttl)
	})

	t.Run("redis requires a client", func(t *testing.T) {
		_, err := New(config.LedgerConfig{CommitLockBackend: config.LockBackendRedis}, nil, zap.NewNop())
		assert.Error(t, err)
	})

	t.Run("unknown backend", func(t *testing.T) {
		_, err := New(config.LedgerConfig{CommitLockBackend: "etcd"}, nil, zap.NewNop())
		assert.ErrorContains(t, err, "unknown commit lock backend")
	})
}
