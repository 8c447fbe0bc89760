package lock

import (
	"context"
	"sync"
	"time"

	"github.com/erp/stockledger/internal/domain/inventory"
	"github.com/google/uuid"
)

type heldLock struct {
	token     uint64
	expiresAt time.Time
}

// MemoryStoreLocker locks stores within one process.
// Locks expire after the TTL like their Redis counterparts.
type MemoryStoreLocker struct {
	mu    sync.Mutex
	held  map[uuid.UUID]heldLock
	next  uint64
	ttl   time.Duration
	clock func() time.Time
}

// NewMemoryStoreLocker creates an in-process locker
func NewMemoryStoreLocker(ttl time.Duration) *MemoryStoreLocker {
	return &MemoryStoreLocker{
		held:  make(map[uuid.UUID]heldLock),
		ttl:   ttl,
		clock: time.Now,
	}
}

// Acquire locks the store or returns inventory.ErrStoreLocked
func (l *MemoryStoreLocker) Acquire(_ context.Context, storeID uuid.UUID) (func(context.Context) error, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock()
	if h, ok := l.held[storeID]; ok && now.Before(h.expiresAt) {
		return nil, inventory.ErrStoreLocked
	}

	l.next++
	token := l.next
	l.held[storeID] = heldLock{token: token, expiresAt: now.Add(l.ttl)}

	var once sync.Once
	return func(context.Context) error {
		once.Do(func() {
			l.mu.Lock()
			defer l.mu.Unlock()
			// An expired lock may have been taken over; leave the new holder alone.
			if h, ok := l.held[storeID]; ok && h.token == token {
				delete(l.held, storeID)
			}
		})
		return nil
	}, nil
}

var _ StoreLocker = (*MemoryStoreLocker)(nil)
