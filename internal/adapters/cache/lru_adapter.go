package cache

import (
	"context"
	"fmt"
	"path"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/zatekoja/holistic-provider-directory/internal/domain/providers"
)

type lruEntry struct {
	value     []byte
	expiresAt time.Time
}

// LRUAdapter is an in-process CacheProvider bounded by entry count. Each
// entry keeps its own expiry.
type LRUAdapter struct {
	cache *lru.Cache[string, lruEntry]
	now   func() time.Time
}

// NewLRUAdapter creates an in-process cache holding at most size entries
func NewLRUAdapter(size int) (*LRUAdapter, error) {
	if size <= 0 {
		return nil, fmt.Errorf("cache size must be positive, got %d", size)
	}
	c, err := lru.New[string, lruEntry](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create LRU cache: %w", err)
	}
	return &LRUAdapter{cache: c, now: time.Now}, nil
}

var _ providers.CacheProvider = (*LRUAdapter)(nil)

// Get retrieves a value, returning ErrCacheMiss for absent or expired keys
func (a *LRUAdapter) Get(_ context.Context, key string) ([]byte, error) {
	entry, ok := a.cache.Get(key)
	if !ok {
		return nil, providers.ErrCacheMiss
	}
	if !entry.expiresAt.IsZero() && !a.now().Before(entry.expiresAt) {
		a.cache.Remove(key)
		return nil, providers.ErrCacheMiss
	}
	out := make([]byte, len(entry.value))
	copy(out, entry.value)
	return out, nil
}

// Set stores a copy of value. A non-positive expiration never expires.
func (a *LRUAdapter) Set(_ context.Context, key string, value []byte, expirationSeconds int) error {
	entry := lruEntry{value: make([]byte, len(value))}
	copy(entry.value, value)
	if expirationSeconds > 0 {
		entry.expiresAt = a.now().Add(time.Duration(expirationSeconds) * time.Second)
	}
	a.cache.Add(key, entry)
	return nil
}

// Delete removes a value
func (a *LRUAdapter) Delete(_ context.Context, key string) error {
	a.cache.Remove(key)
	return nil
}

// DeletePattern removes every key matching a glob pattern
func (a *LRUAdapter) DeletePattern(_ context.Context, pattern string) error {
	if _, err := path.Match(pattern, ""); err != nil {
		return fmt.Errorf("invalid cache pattern %q: %w", pattern, err)
	}
	for _, key := range a.cache.Keys() {
		if ok, _ := path.Match(pattern, key); ok {
			a.cache.Remove(key)
		}
	}
	return nil
}

// Len returns the number of cached entries, expired ones included
func (a *LRUAdapter) Len() int {
	return a.cache.Len()
}
