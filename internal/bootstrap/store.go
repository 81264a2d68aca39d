// Package bootstrap wires the configured record store for the commands.
package bootstrap

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/zatekoja/holistic-provider-directory/internal/adapters/database"
	"github.com/zatekoja/holistic-provider-directory/internal/adapters/memory"
	"github.com/zatekoja/holistic-provider-directory/internal/domain/providers"
	"github.com/zatekoja/holistic-provider-directory/internal/domain/repositories"
	"github.com/zatekoja/holistic-provider-directory/internal/infrastructure/clients/postgres"
	"github.com/zatekoja/holistic-provider-directory/internal/infrastructure/clients/recordapi"
	"github.com/zatekoja/holistic-provider-directory/pkg/config"
)

// Store is an opened record store and the application repository that
// lives beside it.
type Store struct {
	Records      providers.RecordStore
	Applications repositories.ApplicationRepository

	pg *postgres.Client
}

// OpenStore builds the stores for cfg.Store.Backend. The postgres schema is
// created when missing.
func OpenStore(ctx context.Context, cfg *config.Config) (*Store, error) {
	switch cfg.Store.Backend {
	case config.StoreBackendPostgres:
		pgClient, err := postgres.NewClient(ctx, &cfg.Database)
		if err != nil {
			return nil, err
		}
		if err := database.EnsureSchema(ctx, pgClient); err != nil {
			_ = pgClient.Close()
			return nil, err
		}
		return &Store{
			Records:      database.NewProviderRecordStore(pgClient),
			Applications: database.NewApplicationAdapter(pgClient),
			pg:           pgClient,
		}, nil

	case config.StoreBackendRemote:
		return &Store{
			Records:      recordapi.NewClient(&cfg.RecordAPI),
			Applications: memory.NewApplicationStore(),
		}, nil

	default:
		seed, err := memory.LoadSeed(cfg.Store.SeedPath)
		if err != nil {
			return nil, err
		}
		log.Info().Int("providers", len(seed)).Msg("Loaded provider catalogue into memory store")
		return &Store{
			Records:      memory.NewRecordStore(seed),
			Applications: memory.NewApplicationStore(),
		}, nil
	}
}

// Postgres returns the database client, or nil for other backends.
func (s *Store) Postgres() *postgres.Client {
	return s.pg
}

// Close releases the database connection, if any.
func (s *Store) Close() error {
	if s.pg == nil {
		return nil
	}
	return s.pg.Close()
}
