package records

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/zatekoja/holistic-provider-directory/internal/domain/entities"
	"github.com/zatekoja/holistic-provider-directory/internal/domain/providers"
	"github.com/zatekoja/holistic-provider-directory/internal/domain/repositories"
	"github.com/zatekoja/holistic-provider-directory/internal/infrastructure/observability"
)

// Cache key prefixes
const (
	ProviderKeyPrefix     = "provider:"
	ProviderListKeyPrefix = "providers:list:"
)

// Default cache TTLs (in seconds)
const (
	defaultProviderTTL = 300
	defaultListTTL     = 120
)

// CachedProviderAdapter wraps a ProviderRepository with caching
type CachedProviderAdapter struct {
	adapter     repositories.ProviderRepository
	cache       providers.CacheProvider
	providerTTL int
	listTTL     int

	// generation is bumped by every write; fills loaded under an older
	// generation never stay in the cache.
	generation atomic.Uint64
}

// NewCachedProviderAdapter creates a new cached provider adapter. Zero TTLs
// fall back to the defaults.
func NewCachedProviderAdapter(adapter repositories.ProviderRepository, cache providers.CacheProvider, providerTTL, listTTL time.Duration) repositories.ProviderRepository {
	c := &CachedProviderAdapter{
		adapter:     adapter,
		cache:       cache,
		providerTTL: int(providerTTL / time.Second),
		listTTL:     int(listTTL / time.Second),
	}
	if c.providerTTL <= 0 {
		c.providerTTL = defaultProviderTTL
	}
	if c.listTTL <= 0 {
		c.listTTL = defaultListTTL
	}
	return c
}

// ProviderCacheKey returns the cache key of a single provider
func ProviderCacheKey(id int64) string {
	return fmt.Sprintf("%s%d", ProviderKeyPrefix, id)
}

// ProviderListCacheKey returns the cache key of a FetchAll result
func ProviderListCacheKey(spec entities.FilterSpec) string {
	data, _ := json.Marshal(QueryFromSpec(spec))
	sum := sha256.Sum256(data)
	return ProviderListKeyPrefix + hex.EncodeToString(sum[:8])
}

// FetchAll retrieves candidate providers with caching
func (a *CachedProviderAdapter) FetchAll(ctx context.Context, spec entities.FilterSpec) ([]*entities.Provider, error) {
	cacheKey := ProviderListCacheKey(spec)
	logger := observability.LoggerFromContext(ctx)

	if cached, err := a.cache.Get(ctx, cacheKey); err == nil {
		var list []*entities.Provider
		if err := json.Unmarshal(cached, &list); err == nil {
			observability.RecordCacheHit(ctx, "providers_list")
			return list, nil
		}
		logger.Warn().Err(err).Msg("failed to unmarshal cached provider list")
	}
	observability.RecordCacheMiss(ctx, "providers_list")

	gen := a.generation.Load()
	list, err := a.adapter.FetchAll(ctx, spec)
	if err != nil {
		return nil, err
	}

	go func() {
		if data, err := json.Marshal(list); err == nil {
			if err := a.fill(cacheKey, data, a.listTTL, gen); err != nil {
				logger.Warn().Err(err).Msg("failed to cache provider list")
			}
		}
	}()

	return cloneAll(list), nil
}

// FetchByID retrieves a provider with caching. Absent providers are not cached.
func (a *CachedProviderAdapter) FetchByID(ctx context.Context, id int64) (*entities.Provider, bool, error) {
	cacheKey := ProviderCacheKey(id)
	logger := observability.LoggerFromContext(ctx)

	if cached, err := a.cache.Get(ctx, cacheKey); err == nil {
		var provider entities.Provider
		if err := json.Unmarshal(cached, &provider); err == nil {
			observability.RecordCacheHit(ctx, "provider")
			return &provider, true, nil
		}
		logger.Warn().Err(err).Int64("provider_id", id).Msg("failed to unmarshal cached provider")
	}
	observability.RecordCacheMiss(ctx, "provider")

	gen := a.generation.Load()
	provider, found, err := a.adapter.FetchByID(ctx, id)
	if err != nil || !found {
		return nil, found, err
	}

	go func() {
		if data, err := json.Marshal(provider); err == nil {
			if err := a.fill(cacheKey, data, a.providerTTL, gen); err != nil {
				logger.Warn().Err(err).Int64("provider_id", id).Msg("failed to cache provider")
			}
		}
	}()

	return provider.Clone(), true, nil
}

// Create creates a provider and invalidates list caches
func (a *CachedProviderAdapter) Create(ctx context.Context, provider *entities.Provider) (*entities.Provider, error) {
	created, err := a.adapter.Create(ctx, provider)
	if err != nil {
		return nil, err
	}

	a.invalidate(ctx, 0)
	return created, nil
}

// Update updates a provider and invalidates its cache
func (a *CachedProviderAdapter) Update(ctx context.Context, id int64, provider *entities.Provider) (*entities.Provider, error) {
	updated, err := a.adapter.Update(ctx, id, provider)
	if err != nil {
		return nil, err
	}

	a.invalidate(ctx, id)
	return updated, nil
}

// Delete deletes a provider and invalidates its cache
func (a *CachedProviderAdapter) Delete(ctx context.Context, id int64) (bool, error) {
	deleted, err := a.adapter.Delete(ctx, id)
	if err != nil {
		return false, err
	}

	if deleted {
		a.invalidate(ctx, id)
	}
	return deleted, nil
}

// fill stores a value loaded under generation gen. A write that bumped the
// generation before the Set landed has already run its evictions, so the
// value is removed again here.
func (a *CachedProviderAdapter) fill(key string, data []byte, ttl int, gen uint64) error {
	if a.generation.Load() != gen {
		return nil
	}
	ctx := context.Background()
	if err := a.cache.Set(ctx, key, data, ttl); err != nil {
		return err
	}
	if a.generation.Load() != gen {
		return a.cache.Delete(ctx, key)
	}
	return nil
}

// invalidate evicts the provider entry (when id > 0) and every cached list.
// Invalidation runs synchronously and bumps the generation first, so a read
// after a write never sees the previous value from this process.
func (a *CachedProviderAdapter) invalidate(ctx context.Context, id int64) {
	logger := observability.LoggerFromContext(ctx)
	a.generation.Add(1)

	if id > 0 {
		if err := a.cache.Delete(ctx, ProviderCacheKey(id)); err != nil {
			logger.Warn().Err(err).Int64("provider_id", id).Msg("failed to invalidate provider cache")
		}
	}
	if err := a.cache.DeletePattern(ctx, ProviderListKeyPrefix+"*"); err != nil {
		logger.Warn().Err(err).Msg("failed to invalidate provider list cache")
	}
}

func cloneAll(list []*entities.Provider) []*entities.Provider {
	out := make([]*entities.Provider, len(list))
	for i, p := range list {
		out[i] = p.Clone()
	}
	return out
}
