package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/zatekoja/holistic-provider-directory/internal/adapters/cache"
	"github.com/zatekoja/holistic-provider-directory/internal/adapters/events"
	"github.com/zatekoja/holistic-provider-directory/internal/adapters/records"
	"github.com/zatekoja/holistic-provider-directory/internal/adapters/search"
	"github.com/zatekoja/holistic-provider-directory/internal/api/handlers"
	"github.com/zatekoja/holistic-provider-directory/internal/api/routes"
	"github.com/zatekoja/holistic-provider-directory/internal/application/services"
	"github.com/zatekoja/holistic-provider-directory/internal/bootstrap"
	"github.com/zatekoja/holistic-provider-directory/internal/domain/providers"
	"github.com/zatekoja/holistic-provider-directory/internal/domain/repositories"
	"github.com/zatekoja/holistic-provider-directory/internal/infrastructure/clients/redis"
	"github.com/zatekoja/holistic-provider-directory/internal/infrastructure/clients/typesense"
	"github.com/zatekoja/holistic-provider-directory/internal/infrastructure/observability"
	querysvc "github.com/zatekoja/holistic-provider-directory/internal/query/services"
	"github.com/zatekoja/holistic-provider-directory/pkg/config"
)

const cacheWarmingInterval = 5 * time.Minute

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Env, cfg.Log.Level)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(ctx, cfg.OTEL.ServiceName, cfg.OTEL.ServiceVersion, cfg.OTEL.Endpoint)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to set up OpenTelemetry")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					log.Error().Err(err).Msg("Error shutting down OpenTelemetry")
				}
			}()
			log.Info().Str("endpoint", cfg.OTEL.Endpoint).Msg("OpenTelemetry initialized")
		}
	}
	if _, err := observability.InitMetrics(); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize metrics")
	}

	store, err := bootstrap.OpenStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.Store.Backend).Msg("Failed to open record store")
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Error().Err(err).Msg("Error closing record store")
		}
	}()

	// Redis backs both the shared cache and the event bus; without it each
	// process keeps its own LRU and in-memory bus.
	var (
		cacheProvider providers.CacheProvider
		eventBus      providers.EventBus
	)
	if cfg.Redis.Enabled {
		redisClient, err := redis.NewClient(ctx, &cfg.Redis)
		if err != nil {
			log.Warn().Err(err).Msg("Redis unavailable; falling back to process-local cache")
		} else {
			defer redisClient.Close()
			cacheProvider = cache.NewRedisAdapter(redisClient)
			eventBus = events.NewRedisEventBus(redisClient)
		}
	}
	if cacheProvider == nil && cfg.Cache.Enabled {
		lru, err := cache.NewLRUAdapter(cfg.Cache.LocalSize)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create local cache")
		}
		cacheProvider = lru
	}
	if eventBus == nil {
		eventBus = events.NewMemoryEventBus()
	}
	defer func() {
		if err := eventBus.Close(); err != nil {
			log.Error().Err(err).Msg("Error closing event bus")
		}
	}()

	var providerRepo repositories.ProviderRepository = records.NewProviderAdapter(store.Records)
	if cacheProvider != nil && cfg.Cache.Enabled {
		providerRepo = records.NewCachedProviderAdapter(providerRepo, cacheProvider, cfg.Cache.ProviderTTL, cfg.Cache.ListTTL)
		log.Info().Msg("Provider repository wrapped with caching layer")
	}

	var searchRepo repositories.ProviderSearchRepository
	if cfg.Typesense.Enabled {
		tsClient, err := typesense.NewClient(ctx, &cfg.Typesense)
		if err != nil {
			log.Warn().Err(err).Msg("Typesense unavailable; suggestions use the record store")
		} else {
			if err := tsClient.InitSchema(ctx); err != nil {
				log.Warn().Err(err).Msg("Failed to init Typesense schema")
			}
			searchRepo = search.NewTypesenseAdapter(tsClient)
		}
	}

	keywords := querysvc.DefaultSymptomKeywords
	if cfg.Matching.SymptomKeywordsPath != "" {
		loaded, err := querysvc.LoadSymptomKeywords(cfg.Matching.SymptomKeywordsPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.Matching.SymptomKeywordsPath).Msg("Failed to load symptom keywords")
		}
		keywords = loaded
		log.Info().Int("keywords", len(keywords)).Msg("Loaded symptom keywords")
	}

	providerService := services.NewProviderService(providerRepo, querysvc.NewProviderQueryService(keywords), searchRepo, eventBus)
	providerService.SetFeaturedThreshold(cfg.Matching.FeaturedThreshold)
	applicationService := services.NewApplicationService(store.Applications)

	var invalidation *services.CacheInvalidationService
	if cacheProvider != nil {
		invalidation = services.NewCacheInvalidationService(cacheProvider, eventBus)
		if err := invalidation.Start(); err != nil {
			log.Warn().Err(err).Msg("Failed to start cache invalidation service")
			invalidation = nil
		}

		warming := services.NewCacheWarmingService(providerRepo, cfg.Matching.FeaturedThreshold)
		go warming.StartPeriodicWarming(ctx, cacheWarmingInterval)
	}

	router := routes.NewRouter(
		handlers.NewProviderHandler(providerService),
		handlers.NewApplicationHandler(applicationService),
		cfg.Server.AllowedOrigins,
	)

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router.SetupRoutes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", serverAddr).Str("store", cfg.Store.Backend).Msg("Server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Server shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error during server shutdown")
	}

	if invalidation != nil {
		invalidation.Stop()
	}
	log.Info().Msg("Server stopped")
}
