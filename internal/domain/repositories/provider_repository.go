package repositories

import (
	"context"

	"github.com/zatekoja/holistic-provider-directory/internal/domain/entities"
)

// ProviderRepository defines the persistence operations on canonical providers
type ProviderRepository interface {
	// FetchAll returns candidates for spec. The list may be a superset of the
	// exact match when the store cannot express every predicate.
	FetchAll(ctx context.Context, spec entities.FilterSpec) ([]*entities.Provider, error)

	// FetchByID returns found=false, with no error, when the provider does not exist
	FetchByID(ctx context.Context, id int64) (provider *entities.Provider, found bool, err error)

	// Create stores a new provider and returns it as persisted
	Create(ctx context.Context, provider *entities.Provider) (*entities.Provider, error)

	// Update replaces the provider with the given id
	Update(ctx context.Context, id int64, provider *entities.Provider) (*entities.Provider, error)

	// Delete removes a provider, reporting whether anything was deleted
	Delete(ctx context.Context, id int64) (bool, error)
}

// ProviderSearchRepository defines the interface for the provider search index (Typesense)
type ProviderSearchRepository interface {
	// Suggest returns index hits for a typeahead query
	Suggest(ctx context.Context, query string, limit int) ([]*entities.Provider, error)

	// Index upserts a provider document
	Index(ctx context.Context, provider *entities.Provider) error

	// Delete removes a provider from the index
	Delete(ctx context.Context, id int64) error
}
