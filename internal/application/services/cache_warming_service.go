package services

import (
	"context"
	"fmt"
	"time"

	"github.com/zatekoja/holistic-provider-directory/internal/domain/entities"
	"github.com/zatekoja/holistic-provider-directory/internal/domain/repositories"
	"github.com/zatekoja/holistic-provider-directory/internal/infrastructure/observability"
	querysvc "github.com/zatekoja/holistic-provider-directory/internal/query/services"
)

// CacheWarmingService primes a caching repository by reading through it.
// The repository is expected to be a CachedProviderAdapter, which fills the
// cache as a side effect of every read.
type CacheWarmingService struct {
	repo      repositories.ProviderRepository
	threshold float64
}

// NewCacheWarmingService creates a new cache warming service
func NewCacheWarmingService(repo repositories.ProviderRepository, featuredThreshold float64) *CacheWarmingService {
	if featuredThreshold <= 0 {
		featuredThreshold = querysvc.DefaultFeaturedThreshold
	}
	return &CacheWarmingService{repo: repo, threshold: featuredThreshold}
}

// WarmCache reads the unfiltered list, the rating-sorted list and every
// featured provider, returning how many providers were read by id.
func (s *CacheWarmingService) WarmCache(ctx context.Context) (int, error) {
	logger := observability.LoggerFromContext(ctx)
	start := time.Now()

	all, err := s.repo.FetchAll(ctx, entities.FilterSpec{})
	if err != nil {
		return 0, fmt.Errorf("failed to warm provider list: %w", err)
	}
	if _, err := s.repo.FetchAll(ctx, entities.FilterSpec{SortBy: entities.SortByRating}); err != nil {
		logger.Warn().Err(err).Msg("Failed to warm rating-sorted provider list")
	}

	warmed := 0
	for _, p := range all {
		if p == nil || p.Rating < s.threshold {
			continue
		}
		if _, _, err := s.repo.FetchByID(ctx, p.ID); err != nil {
			logger.Warn().Err(err).Int64("provider_id", p.ID).Msg("Failed to warm provider")
			continue
		}
		warmed++
	}

	logger.Info().
		Int("providers", len(all)).
		Int("featured", warmed).
		Dur("duration", time.Since(start)).
		Msg("Cache warming completed")
	return warmed, nil
}

// StartPeriodicWarming warms once, then again on every tick until ctx is done
func (s *CacheWarmingService) StartPeriodicWarming(ctx context.Context, interval time.Duration) {
	logger := observability.GetLogger()
	if _, err := s.WarmCache(ctx); err != nil {
		logger.Warn().Err(err).Msg("Initial cache warming failed")
	}
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				logger.Info().Msg("Stopping cache warming service")
				return
			case <-ticker.C:
				if _, err := s.WarmCache(ctx); err != nil {
					logger.Warn().Err(err).Msg("Periodic cache warming failed")
				}
			}
		}
	}()
	logger.Info().Dur("interval", interval).Msg("Started periodic cache warming")
}
