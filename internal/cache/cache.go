// Package cache provides the process-local TTL cache that sits between
// the drive layer and the object store.
//
// The cache is deliberately untyped: listings, search results, and stat
// lookups all share one store. Callers keep the shapes apart with an
// operation-tagged key scheme (see Key) so that Invalidate with a path
// substring cannot evict unrelated cached data.
//
// Coherence is single-process only. Running multiple instances leaves a
// staleness window bounded by the TTL; a deployment that needs better can
// substitute a shared external cache behind the same Store interface.
package cache

import (
	"strings"
	"sync"
	"time"
)

// DefaultTTL applies when Set is called with a non-positive ttl.
const DefaultTTL = 5 * time.Minute

// Store is the cache contract consumed by the drive layer. All methods
// must be safe for concurrent use.
type Store interface {
	// Get returns the payload stored under key, or ok=false when the key
	// is absent or its entry has expired.
	Get(key string) (any, bool)

	// Set stores payload under key with an absolute expiry of now+ttl.
	// A non-positive ttl falls back to the store's default.
	Set(key string, payload any, ttl time.Duration)

	// Invalidate removes every stored key whose string representation
	// contains substr and returns the number of entries removed.
	Invalidate(substr string) int

	// Clear empties the entire store.
	Clear()

	// Len returns the number of entries currently stored, including any
	// expired entries not yet lazily evicted.
	Len() int
}

// Key builds a cache key from an operation tag and its identifying parts.
// The tag keeps heterogeneous payload shapes from colliding; the parts
// carry the object-key prefix so prefix invalidation finds the entry.
//
//	Key("list", "u1/Photos/")        -> "list!u1/Photos/"
//	Key("search", "u1/", "pho", "")  -> "search!u1/!pho!"
func Key(op string, parts ...string) string {
	return op + "!" + strings.Join(parts, "!")
}

type entry struct {
	payload  any
	expireAt time.Time
}

// Memory is an in-process Store backed by a mutex-guarded map. Expiry is
// lazy: an expired entry is evicted when a Get finds it stale; there is
// no background sweep.
type Memory struct {
	mu         sync.Mutex
	entries    map[string]entry
	defaultTTL time.Duration
	now        func() time.Time // overridable for tests
}

// NewMemory returns an empty Memory store. A non-positive defaultTTL
// falls back to DefaultTTL.
func NewMemory(defaultTTL time.Duration) *Memory {
	if defaultTTL <= 0 {
		defaultTTL = DefaultTTL
	}
	return &Memory{
		entries:    make(map[string]entry),
		defaultTTL: defaultTTL,
		now:        time.Now,
	}
}

func (m *Memory) Get(key string) (any, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok {
		return nil, false
	}
	if !m.now().Before(e.expireAt) {
		delete(m.entries, key)
		return nil, false
	}
	return e.payload, true
}

func (m *Memory) Set(key string, payload any, ttl time.Duration) {
	if ttl <= 0 {
		ttl = m.defaultTTL
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = entry{payload: payload, expireAt: m.now().Add(ttl)}
}

func (m *Memory) Invalidate(substr string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for k := range m.entries {
		if strings.Contains(k, substr) {
			delete(m.entries, k)
			removed++
		}
	}
	return removed
}

func (m *Memory) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make(map[string]entry)
}

func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}
