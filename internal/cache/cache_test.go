package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// withClock pins the store's clock to a controllable instant.
func withClock(m *Memory) *time.Time {
	now := time.Unix(1700000000, 0)
	m.now = func() time.Time { return now }
	return &now
}

func TestSetGet(t *testing.T) {
	m := NewMemory(time.Minute)
	m.Set("k", "payload", 0)

	got, ok := m.Get("k")
	require.True(t, ok)
	assert.Equal(t, "payload", got)
}

func TestGetMissing(t *testing.T) {
	m := NewMemory(time.Minute)
	_, ok := m.Get("absent")
	assert.False(t, ok)
}

func TestExpiry(t *testing.T) {
	m := NewMemory(time.Minute)
	now := withClock(m)

	m.Set("k", "v", 100*time.Millisecond)

	_, ok := m.Get("k")
	require.True(t, ok, "entry should be live before its ttl")

	*now = now.Add(150 * time.Millisecond)
	_, ok = m.Get("k")
	assert.False(t, ok, "entry should expire after its ttl")
	assert.Equal(t, 0, m.Len(), "expired entry should be evicted on the miss")
}

func TestExpiryExactBoundary(t *testing.T) {
	m := NewMemory(time.Minute)
	now := withClock(m)

	m.Set("k", "v", 100*time.Millisecond)
	*now = now.Add(100 * time.Millisecond)

	_, ok := m.Get("k")
	assert.False(t, ok, "now >= storedAt+ttl is a miss")
}

func TestInvalidateBySubstring(t *testing.T) {
	m := NewMemory(time.Minute)
	m.Set(Key("list", "u1/Photos/"), "photos", 0)
	m.Set(Key("stat", "u1/Photos/cat.jpg"), "cat", 0)
	m.Set(Key("list", "u1/Videos/"), "videos", 0)
	m.Set(Key("list", "u2/Photos/"), "other tenant", 0)

	removed := m.Invalidate("u1/Photos")
	assert.Equal(t, 2, removed)

	_, ok := m.Get(Key("list", "u1/Photos/"))
	assert.False(t, ok)
	_, ok = m.Get(Key("stat", "u1/Photos/cat.jpg"))
	assert.False(t, ok)

	got, ok := m.Get(Key("list", "u1/Videos/"))
	require.True(t, ok, "unrelated path must survive invalidation")
	assert.Equal(t, "videos", got)
	_, ok = m.Get(Key("list", "u2/Photos/"))
	assert.True(t, ok, "other tenant must survive invalidation")
}

func TestClear(t *testing.T) {
	m := NewMemory(time.Minute)
	m.Set("a", 1, 0)
	m.Set("b", 2, 0)

	m.Clear()
	assert.Equal(t, 0, m.Len())
	_, ok := m.Get("a")
	assert.False(t, ok)
}

func TestKeyScheme(t *testing.T) {
	// Distinct operation kinds over the same path never collide.
	assert.NotEqual(t, Key("list", "u1/Photos/"), Key("stat", "u1/Photos/"))
	assert.Equal(t, "search!u1/!pho!", Key("search", "u1/", "pho", ""))
}

func TestConcurrentAccess(t *testing.T) {
	m := NewMemory(time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				key := fmt.Sprintf("g%d/k%d", n, j)
				m.Set(key, j, 0)
				m.Get(key)
				if j%10 == 0 {
					m.Invalidate(fmt.Sprintf("g%d/k1", n))
				}
			}
		}(i)
	}
	wg.Wait()
}
