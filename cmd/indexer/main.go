package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/zatekoja/holistic-provider-directory/internal/adapters/records"
	"github.com/zatekoja/holistic-provider-directory/internal/adapters/search"
	"github.com/zatekoja/holistic-provider-directory/internal/bootstrap"
	"github.com/zatekoja/holistic-provider-directory/internal/domain/entities"
	"github.com/zatekoja/holistic-provider-directory/internal/domain/repositories"
	"github.com/zatekoja/holistic-provider-directory/internal/infrastructure/clients/typesense"
	"github.com/zatekoja/holistic-provider-directory/internal/infrastructure/observability"
	"github.com/zatekoja/holistic-provider-directory/pkg/config"
)

func main() {
	var reset bool
	var intervalFlag string
	flag.BoolVar(&reset, "reset", false, "drop the Typesense providers collection before reindexing")
	flag.StringVar(&intervalFlag, "interval", "", "repeat interval for reindexing (e.g. 6h, 30m)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	observability.InitLogger(cfg.OTEL.ServiceName+"-indexer", cfg.Env, cfg.Log.Level)

	intervalValue := strings.TrimSpace(intervalFlag)
	if intervalValue == "" {
		intervalValue = strings.TrimSpace(os.Getenv("REINDEX_INTERVAL"))
	}

	var interval time.Duration
	if intervalValue != "" {
		interval, err = time.ParseDuration(intervalValue)
		if err != nil {
			log.Fatal().Err(err).Str("interval", intervalValue).Msg("Invalid interval")
		}
		if interval <= 0 {
			log.Fatal().Msg("Interval must be greater than zero")
		}
	}
	if os.Getenv("RESET_TYPESENSE") == "true" {
		reset = true
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	for {
		if n, err := indexOnce(ctx, cfg, reset); err != nil {
			log.Error().Err(err).Msg("Reindex failed")
		} else {
			log.Info().Int("indexed", n).Msg("Reindex complete")
		}

		if interval <= 0 {
			break
		}
		reset = false

		select {
		case <-ctx.Done():
			log.Info().Msg("Reindexer shutting down")
			return
		case <-time.After(interval):
		}
	}
}

func indexOnce(ctx context.Context, cfg *config.Config, reset bool) (int, error) {
	store, err := bootstrap.OpenStore(ctx, cfg)
	if err != nil {
		return 0, err
	}
	defer store.Close()

	tsClient, err := typesense.NewClient(ctx, &cfg.Typesense)
	if err != nil {
		return 0, err
	}

	if reset {
		log.Info().Str("collection", typesense.ProvidersCollection).Msg("Dropping collection before reindex")
		if err := tsClient.DropSchema(ctx); err != nil {
			log.Warn().Err(err).Msg("Failed to drop collection")
		}
	}
	if err := tsClient.InitSchema(ctx); err != nil {
		return 0, err
	}

	repo := records.NewProviderAdapter(store.Records)
	all, err := repo.FetchAll(ctx, entities.FilterSpec{})
	if err != nil {
		return 0, err
	}

	return indexProviders(ctx, search.NewTypesenseAdapter(tsClient), all), nil
}

// indexProviders upserts every provider and returns how many succeeded.
// Failures are logged and skipped.
func indexProviders(ctx context.Context, index repositories.ProviderSearchRepository, all []*entities.Provider) int {
	indexed := 0
	for _, p := range all {
		if err := ctx.Err(); err != nil {
			return indexed
		}
		if err := index.Index(ctx, p); err != nil {
			log.Warn().Err(err).Int64("provider_id", p.ID).Msg("Failed to index provider")
			continue
		}
		indexed++
	}
	return indexed
}
