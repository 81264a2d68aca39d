package records

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/zatekoja/holistic-provider-directory/internal/domain/entities"
	"github.com/zatekoja/holistic-provider-directory/internal/domain/providers"
	"github.com/zatekoja/holistic-provider-directory/internal/domain/repositories"
	"github.com/zatekoja/holistic-provider-directory/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/holistic-provider-directory/pkg/errors"
)

// ProviderAdapter implements ProviderRepository on top of a RecordStore.
// It holds no state between calls.
type ProviderAdapter struct {
	store providers.RecordStore
}

// NewProviderAdapter creates a new provider adapter
func NewProviderAdapter(store providers.RecordStore) repositories.ProviderRepository {
	return &ProviderAdapter{store: store}
}

// FetchAll returns the candidates the store selects for spec.
func (a *ProviderAdapter) FetchAll(ctx context.Context, spec entities.FilterSpec) ([]*entities.Provider, error) {
	resp, err := a.store.Query(ctx, QueryFromSpec(spec))
	if err != nil {
		return nil, apperrors.NewPersistenceError("failed to query providers", err)
	}
	if err := checkResponse(resp, "query providers"); err != nil {
		return nil, err
	}

	return normalizeAll(resp.Data), nil
}

// FetchByID returns the provider with the given id, or found=false.
func (a *ProviderAdapter) FetchByID(ctx context.Context, id int64) (*entities.Provider, bool, error) {
	if id <= 0 {
		return nil, false, nil
	}

	resp, err := a.store.Get(ctx, id)
	if err != nil {
		return nil, false, apperrors.NewPersistenceError(fmt.Sprintf("failed to fetch provider %d", id), err)
	}
	if err := checkResponse(resp, fmt.Sprintf("fetch provider %d", id)); err != nil {
		return nil, false, err
	}

	for _, rec := range resp.Data {
		if rec.ID == id {
			return Normalize(rec), true, nil
		}
	}
	return nil, false, nil
}

// Create stores a new provider. The store assigns the id.
func (a *ProviderAdapter) Create(ctx context.Context, provider *entities.Provider) (*entities.Provider, error) {
	if err := validateProvider(provider); err != nil {
		return nil, apperrors.NewPersistenceError("invalid provider", err)
	}

	rec := Denormalize(provider)
	rec.ID = 0

	resp, err := a.store.Create(ctx, &rec)
	if err != nil {
		return nil, apperrors.NewPersistenceError("failed to create provider", err)
	}
	if err := checkResponse(resp, "create provider"); err != nil {
		return nil, err
	}
	if len(resp.Data) == 0 {
		return nil, apperrors.NewPersistenceError("create provider: store returned no record", nil)
	}

	return Normalize(resp.Data[0]), nil
}

// Update replaces the provider with the given id.
func (a *ProviderAdapter) Update(ctx context.Context, id int64, provider *entities.Provider) (*entities.Provider, error) {
	if id <= 0 {
		return nil, apperrors.NewPersistenceError("invalid provider",
			apperrors.NewValidationError(fmt.Sprintf("provider id must be positive, got %d", id)))
	}
	if err := validateProvider(provider); err != nil {
		return nil, apperrors.NewPersistenceError("invalid provider", err)
	}

	rec := Denormalize(provider)
	rec.ID = id

	resp, err := a.store.Update(ctx, id, &rec)
	if err != nil {
		return nil, apperrors.NewPersistenceError(fmt.Sprintf("failed to update provider %d", id), err)
	}
	if err := checkResponse(resp, fmt.Sprintf("update provider %d", id)); err != nil {
		return nil, err
	}
	if len(resp.Data) == 0 {
		return nil, apperrors.NewPersistenceError(fmt.Sprintf("update provider %d", id),
			apperrors.NewNotFoundError(fmt.Sprintf("provider %d not found", id)))
	}

	return Normalize(resp.Data[0]), nil
}

// Delete removes a provider. It reports false when nothing was deleted.
func (a *ProviderAdapter) Delete(ctx context.Context, id int64) (bool, error) {
	if id <= 0 {
		return false, nil
	}

	resp, err := a.store.Delete(ctx, id)
	if err != nil {
		return false, apperrors.NewPersistenceError(fmt.Sprintf("failed to delete provider %d", id), err)
	}
	if err := checkResponse(resp, fmt.Sprintf("delete provider %d", id)); err != nil {
		return false, err
	}

	deleted := len(resp.Data) > 0
	if !deleted {
		observability.LoggerFromContext(ctx).Debug().Int64("provider_id", id).Msg("delete matched no provider")
	}
	return deleted, nil
}

// checkResponse turns a missing or refused store response into a
// persistence error carrying the store's message.
func checkResponse(resp *providers.RecordResponse, op string) error {
	if resp == nil {
		return apperrors.NewPersistenceError(op+": empty response from record store", nil)
	}
	if !resp.Success {
		msg := strings.TrimSpace(resp.Message)
		if msg == "" {
			msg = "record store reported failure"
		}
		return apperrors.NewPersistenceError(op+": "+msg, nil)
	}
	return nil
}

func validateProvider(p *entities.Provider) error {
	if p == nil {
		return apperrors.NewValidationError("provider is required")
	}
	if strings.TrimSpace(p.Name) == "" {
		return apperrors.NewValidationError("provider name is required")
	}
	if math.IsNaN(p.Rating) || p.Rating < 0 || p.Rating > maxRating {
		return apperrors.NewValidationError(fmt.Sprintf("rating must be between 0 and 5, got %v", p.Rating))
	}
	return nil
}

func normalizeAll(recs []entities.ProviderRecord) []*entities.Provider {
	out := make([]*entities.Provider, 0, len(recs))
	for _, rec := range recs {
		out = append(out, Normalize(rec))
	}
	return out
}
