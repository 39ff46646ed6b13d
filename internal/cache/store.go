// Package cache memoises decoded backend responses and collapses identical
// in-flight requests.
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/spacesedan/sentimap/internal/clients"
)

// Store holds encoded values with a time-to-live.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

type memoryEntry struct {
	value   []byte
	expires time.Time
}

// MemoryStore is the in-process default. Expired entries are dropped lazily
// on read and by Sweep.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]memoryEntry), now: time.Now}
}

func (m *MemoryStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok {
		return nil, false, nil
	}
	if !e.expires.IsZero() && !m.now().Before(e.expires) {
		delete(m.entries, key)
		return nil, false, nil
	}
	return e.value, true, nil
}

func (m *MemoryStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e := memoryEntry{value: append([]byte(nil), value...)}
	if ttl > 0 {
		e.expires = m.now().Add(ttl)
	}
	m.entries[key] = e
	return nil
}

// Sweep removes expired entries and returns how many were dropped.
func (m *MemoryStore) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	dropped := 0
	for k, e := range m.entries {
		if !e.expires.IsZero() && !now.Before(e.expires) {
			delete(m.entries, k)
			dropped++
		}
	}
	return dropped
}

func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// ValkeyStore shares cached responses between dashboard instances.
type ValkeyStore struct {
	Client *clients.ValkeyClient
	Prefix string
}

func NewValkeyStore(c *clients.ValkeyClient) *ValkeyStore {
	return &ValkeyStore{Client: c, Prefix: "sentimap:"}
}

func (v *ValkeyStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return v.Client.Get(ctx, v.Prefix+key)
}

func (v *ValkeyStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return v.Client.Set(ctx, v.Prefix+key, value, ttl)
}
