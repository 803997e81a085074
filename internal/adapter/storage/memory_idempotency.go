package storage

import (
	"context"
	"sync"
	"time"
)

const pruneInterval = time.Minute

// MemoryIdempotency claims request keys in process memory. Claims expire after
// the same TTL the Redis store uses and are lost on restart; use RedisAdapter
// when they must survive one.
type MemoryIdempotency struct {
	mu        sync.Mutex
	keys      map[string]time.Time
	ttl       time.Duration
	now       func() time.Time
	lastPrune time.Time
}

func NewMemoryIdempotency() *MemoryIdempotency {
	return NewMemoryIdempotencyWithTTL(idempotencyKeyTTL, time.Now)
}

func NewMemoryIdempotencyWithTTL(ttl time.Duration, now func() time.Time) *MemoryIdempotency {
	return &MemoryIdempotency{
		keys:      make(map[string]time.Time),
		ttl:       ttl,
		now:       now,
		lastPrune: now(),
	}
}

func (m *MemoryIdempotency) SetIdempotency(ctx context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if now.Sub(m.lastPrune) >= pruneInterval {
		m.prune(now)
	}

	if expiresAt, ok := m.keys[key]; ok && now.Before(expiresAt) {
		return false, nil
	}
	m.keys[key] = now.Add(m.ttl)
	return true, nil
}

func (m *MemoryIdempotency) ReleaseIdempotency(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.keys, key)
	return nil
}

// Len reports how many claims are held, expired ones included until the next prune.
func (m *MemoryIdempotency) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.keys)
}

// prune must be called with mu held.
func (m *MemoryIdempotency) prune(now time.Time) {
	for key, expiresAt := range m.keys {
		if !now.Before(expiresAt) {
			delete(m.keys, key)
		}
	}
	m.lastPrune = now
}
