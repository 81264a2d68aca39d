package services

import (
	"context"
	"strconv"
	"strings"

	"github.com/zatekoja/holistic-provider-directory/internal/domain/entities"
	"github.com/zatekoja/holistic-provider-directory/internal/domain/providers"
	"github.com/zatekoja/holistic-provider-directory/internal/domain/repositories"
	"github.com/zatekoja/holistic-provider-directory/internal/infrastructure/observability"
	querysvc "github.com/zatekoja/holistic-provider-directory/internal/query/services"
)

const (
	defaultSuggestLimit = 10
	maxSuggestLimit     = 50
)

// MatchResult is the outcome of a symptom match
type MatchResult struct {
	Providers   []*entities.Provider `json:"providers"`
	Specialties []string             `json:"specialties"`
}

// ProviderService handles business logic for providers. Reads go through the
// repository and are narrowed locally by the query engine.
type ProviderService struct {
	repo       repositories.ProviderRepository
	engine     *querysvc.ProviderQueryService
	searchRepo repositories.ProviderSearchRepository
	eventBus   providers.EventBus

	featuredThreshold float64
}

// NewProviderService creates a new provider service. searchRepo and eventBus
// are optional.
func NewProviderService(
	repo repositories.ProviderRepository,
	engine *querysvc.ProviderQueryService,
	searchRepo repositories.ProviderSearchRepository,
	eventBus providers.EventBus,
) *ProviderService {
	if engine == nil {
		engine = querysvc.NewProviderQueryService(nil)
	}
	return &ProviderService{
		repo:       repo,
		engine:     engine,
		searchRepo: searchRepo,
		eventBus:   eventBus,
	}
}

// SetFeaturedThreshold changes the rating used by Featured when the caller
// passes none. Values <= 0 restore the engine default.
func (s *ProviderService) SetFeaturedThreshold(threshold float64) {
	s.featuredThreshold = threshold
}

// List returns the providers satisfying spec, paged by spec.Limit/Offset
func (s *ProviderService) List(ctx context.Context, spec entities.FilterSpec) ([]*entities.Provider, error) {
	ctx, span := observability.StartSpan(ctx, "ProviderService.List")
	defer span.End()

	candidates, err := s.repo.FetchAll(ctx, spec)
	if err != nil {
		observability.RecordError(span, err)
		return nil, err
	}
	return querysvc.Paginate(s.engine.Filter(candidates, spec), spec.Limit, spec.Offset), nil
}

// Get looks a provider up by its textual id. An id that does not parse as a
// positive integer is reported as not found.
func (s *ProviderService) Get(ctx context.Context, rawID string) (*entities.Provider, bool, error) {
	id, ok := ParseProviderID(rawID)
	if !ok {
		return nil, false, nil
	}
	return s.repo.FetchByID(ctx, id)
}

// MatchBySymptoms ranks providers whose specialties relate to the given
// statements. Unrecognised statements yield every provider.
func (s *ProviderService) MatchBySymptoms(ctx context.Context, statements []string) (*MatchResult, error) {
	ctx, span := observability.StartSpan(ctx, "ProviderService.MatchBySymptoms")
	defer span.End()

	all, err := s.repo.FetchAll(ctx, entities.FilterSpec{})
	if err != nil {
		observability.RecordError(span, err)
		return nil, err
	}

	specialties := s.engine.InferSpecialties(statements)
	matched := s.engine.MatchBySymptoms(all, statements)
	observability.RecordSymptomMatch(ctx, len(specialties) > 0, len(matched))

	observability.LoggerFromContext(ctx).Debug().
		Int("statements", len(statements)).
		Strs("specialties", specialties).
		Int("results", len(matched)).
		Msg("Matched providers by symptoms")

	return &MatchResult{Providers: matched, Specialties: specialties}, nil
}

// Featured returns providers rated at or above threshold; a non-positive
// threshold uses the default.
func (s *ProviderService) Featured(ctx context.Context, threshold float64) ([]*entities.Provider, error) {
	if threshold <= 0 {
		threshold = s.featuredThreshold
	}
	all, err := s.repo.FetchAll(ctx, entities.FilterSpec{})
	if err != nil {
		return nil, err
	}
	return s.engine.GetFeatured(all, threshold), nil
}

// Suggest returns typeahead matches for query. The search index is used when
// configured; otherwise, or when the index fails, the engine's search
// predicate runs over the repository.
func (s *ProviderService) Suggest(ctx context.Context, query string, limit int) ([]*entities.Provider, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []*entities.Provider{}, nil
	}
	if limit <= 0 {
		limit = defaultSuggestLimit
	}
	if limit > maxSuggestLimit {
		limit = maxSuggestLimit
	}

	if s.searchRepo != nil {
		hits, err := s.searchRepo.Suggest(ctx, query, limit)
		if err == nil {
			return hits, nil
		}
		observability.LoggerFromContext(ctx).Warn().Err(err).Str("query", query).Msg("Search index suggest failed, falling back to repository")
	}

	spec := entities.FilterSpec{Search: query}
	candidates, err := s.repo.FetchAll(ctx, spec)
	if err != nil {
		return nil, err
	}
	return querysvc.Paginate(s.engine.Filter(candidates, spec), limit, 0), nil
}

// Create stores a provider, indexes it and announces the change
func (s *ProviderService) Create(ctx context.Context, provider *entities.Provider) (*entities.Provider, error) {
	created, err := s.repo.Create(ctx, provider)
	if err != nil {
		return nil, err
	}
	s.index(ctx, created)
	s.publish(ctx, created.ID, entities.ProviderEventTypeCreated)
	return created, nil
}

// Update replaces a provider, reindexes it and announces the change
func (s *ProviderService) Update(ctx context.Context, id int64, provider *entities.Provider) (*entities.Provider, error) {
	updated, err := s.repo.Update(ctx, id, provider)
	if err != nil {
		return nil, err
	}
	s.index(ctx, updated)
	s.publish(ctx, updated.ID, entities.ProviderEventTypeUpdated)
	return updated, nil
}

// Delete removes a provider, reporting whether anything was deleted
func (s *ProviderService) Delete(ctx context.Context, id int64) (bool, error) {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil || !deleted {
		return deleted, err
	}

	if s.searchRepo != nil {
		if err := s.searchRepo.Delete(ctx, id); err != nil {
			observability.LoggerFromContext(ctx).Warn().Err(err).Int64("provider_id", id).Msg("Failed to delete provider from index")
		}
	}
	s.publish(ctx, id, entities.ProviderEventTypeDeleted)
	return true, nil
}

// index failures are logged; the record store stays authoritative
func (s *ProviderService) index(ctx context.Context, provider *entities.Provider) {
	if s.searchRepo == nil || provider == nil {
		return
	}
	if err := s.searchRepo.Index(ctx, provider); err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).Int64("provider_id", provider.ID).Msg("Failed to index provider")
	}
}

func (s *ProviderService) publish(ctx context.Context, id int64, eventType entities.ProviderEventType) {
	if s.eventBus == nil {
		return
	}
	event := entities.NewProviderEvent(id, eventType)
	if err := s.eventBus.Publish(ctx, providers.EventChannelProviderUpdates, event); err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).Int64("provider_id", id).Msg("Failed to publish provider event")
	}
}

// ParseProviderID parses a textual provider id. Only positive integers are valid.
func ParseProviderID(raw string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
