package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/zatekoja/holistic-provider-directory/internal/adapters/records"
	"github.com/zatekoja/holistic-provider-directory/internal/domain/entities"
	"github.com/zatekoja/holistic-provider-directory/internal/domain/providers"
	"github.com/zatekoja/holistic-provider-directory/internal/infrastructure/observability"
)

const invalidationTimeout = 5 * time.Second

// CacheInvalidationService evicts cached providers when another instance
// publishes a change on the provider update channel.
type CacheInvalidationService struct {
	cache    providers.CacheProvider
	eventBus providers.EventBus
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

// NewCacheInvalidationService creates a new cache invalidation service
func NewCacheInvalidationService(cache providers.CacheProvider, eventBus providers.EventBus) *CacheInvalidationService {
	ctx, cancel := context.WithCancel(context.Background())
	return &CacheInvalidationService{
		cache:    cache,
		eventBus: eventBus,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start begins listening for events and invalidating cache
func (s *CacheInvalidationService) Start() error {
	eventChan, err := s.eventBus.Subscribe(s.ctx, providers.EventChannelProviderUpdates)
	if err != nil {
		return fmt.Errorf("failed to subscribe to provider updates: %w", err)
	}

	s.wg.Add(1)
	go s.processEvents(eventChan)
	observability.GetLogger().Info().Msg("Cache invalidation service started")
	return nil
}

// Stop stops the service and waits for the event loop to exit
func (s *CacheInvalidationService) Stop() {
	s.cancel()
	s.wg.Wait()
	observability.GetLogger().Info().Msg("Cache invalidation service stopped")
}

func (s *CacheInvalidationService) processEvents(eventChan <-chan *entities.ProviderEvent) {
	defer s.wg.Done()
	for {
		select {
		case <-s.ctx.Done():
			return
		case event, ok := <-eventChan:
			if !ok {
				return
			}
			if event == nil {
				continue
			}
			s.handleEvent(event)
		}
	}
}

func (s *CacheInvalidationService) handleEvent(event *entities.ProviderEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), invalidationTimeout)
	defer cancel()

	logger := observability.GetLogger().With().
		Str("event_id", event.ID).
		Int64("provider_id", event.ProviderID).
		Str("event_type", string(event.EventType)).
		Logger()

	if err := s.InvalidateProvider(ctx, event.ProviderID); err != nil {
		logger.Warn().Err(err).Msg("Failed to invalidate provider cache")
		return
	}
	logger.Debug().Msg("Invalidated provider cache")
}

// InvalidateProvider evicts one provider and every cached list. Lists are
// dropped because any of them may contain the changed provider.
func (s *CacheInvalidationService) InvalidateProvider(ctx context.Context, providerID int64) error {
	if err := s.cache.Delete(ctx, records.ProviderCacheKey(providerID)); err != nil {
		return fmt.Errorf("failed to invalidate provider %d: %w", providerID, err)
	}
	return s.InvalidateLists(ctx)
}

// InvalidateLists evicts every cached provider list
func (s *CacheInvalidationService) InvalidateLists(ctx context.Context) error {
	pattern := records.ProviderListKeyPrefix + "*"
	if err := s.cache.DeletePattern(ctx, pattern); err != nil {
		return fmt.Errorf("failed to invalidate pattern %s: %w", pattern, err)
	}
	return nil
}
