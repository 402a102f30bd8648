package watchlist

import (
	"context"
	"sync"

	"github.com/patrickmn/go-cache"
)

// MemoryStore keeps lists in process memory.  Entries never expire.
type MemoryStore struct {
	listStore
	c *cache.Cache
}

func NewMemoryStore() *MemoryStore {
	c := cache.New(cache.NoExpiration, 0)
	return &MemoryStore{listStore: listStore{kv: &memKV{c: c}}, c: c}
}

// SetRaw stores an arbitrary raw value under key, bypassing validation.
func (m *MemoryStore) SetRaw(key, raw string) { m.c.Set(key, raw, cache.NoExpiration) }

type memKV struct {
	mu sync.Mutex // serializes updates; go-cache has no compare-and-set
	c  *cache.Cache
}

func (m *memKV) get(_ context.Context, key string) (string, bool, error) {
	v, ok := m.c.Get(key)
	if !ok {
		return "", false, nil
	}
	s, ok := v.(string)
	return s, ok, nil
}

func (m *memKV) update(ctx context.Context, key string, fn func(string) (string, bool)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, _, _ := m.get(ctx, key)
	if next, changed := fn(raw); changed {
		m.c.Set(key, next, cache.NoExpiration)
	}
	return nil
}
