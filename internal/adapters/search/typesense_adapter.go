package search

import (
	"context"
	"fmt"
	"strconv"

	"github.com/typesense/typesense-go/v2/typesense/api"
	"github.com/typesense/typesense-go/v2/typesense/api/pointer"

	"github.com/zatekoja/holistic-provider-directory/internal/domain/entities"
	"github.com/zatekoja/holistic-provider-directory/internal/domain/repositories"
	tsclient "github.com/zatekoja/holistic-provider-directory/internal/infrastructure/clients/typesense"
)

const (
	collectionName = tsclient.ProvidersCollection
	suggestQueryBy = "name,specialty,services,bio"
)

// TypesenseAdapter implements provider suggestions using Typesense
type TypesenseAdapter struct {
	client *tsclient.Client
}

var _ repositories.ProviderSearchRepository = (*TypesenseAdapter)(nil)

// NewTypesenseAdapter creates a new Typesense adapter
func NewTypesenseAdapter(client *tsclient.Client) *TypesenseAdapter {
	return &TypesenseAdapter{client: client}
}

// Index upserts a provider document
func (a *TypesenseAdapter) Index(ctx context.Context, provider *entities.Provider) error {
	document := buildProviderDocument(provider)
	if document == nil {
		return fmt.Errorf("provider is nil")
	}

	if _, err := a.client.Client().Collection(collectionName).Documents().Upsert(ctx, document); err != nil {
		return fmt.Errorf("failed to index provider: %w", err)
	}
	return nil
}

// Delete removes a provider from index
func (a *TypesenseAdapter) Delete(ctx context.Context, id int64) error {
	if _, err := a.client.Client().Collection(collectionName).Document(strconv.FormatInt(id, 10)).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete provider from index: %w", err)
	}
	return nil
}

// Suggest runs a prefix search and rebuilds partial providers from the hits
func (a *TypesenseAdapter) Suggest(ctx context.Context, query string, limit int) ([]*entities.Provider, error) {
	searchParams := &api.SearchCollectionParams{
		Q:       pointer.String(query),
		QueryBy: pointer.String(suggestQueryBy),
		SortBy:  pointer.String("_text_match:desc,rating:desc"),
		PerPage: pointer.Int(limit),
		Page:    pointer.Int(1),
	}

	result, err := a.client.Client().Collection(collectionName).Documents().Search(ctx, searchParams)
	if err != nil {
		return nil, fmt.Errorf("failed to search providers: %w", err)
	}

	out := []*entities.Provider{}
	if result.Hits == nil {
		return out, nil
	}
	for _, hit := range *result.Hits {
		if hit.Document == nil {
			continue
		}
		if p := providerFromDocument(*hit.Document); p != nil {
			out = append(out, p)
		}
	}
	return out, nil
}

func buildProviderDocument(p *entities.Provider) map[string]interface{} {
	if p == nil {
		return nil
	}
	return map[string]interface{}{
		"id":        strconv.FormatInt(p.ID, 10),
		"name":      p.Name,
		"bio":       p.Bio,
		"specialty": nonNil(p.Specialty),
		"services":  nonNil(p.Services),
		"insurance": nonNil(p.Insurance),
		"city":      p.Location.City,
		"state":     p.Location.State,
		"rating":    p.Rating,
	}
}

// providerFromDocument casts safely since hits decode as generic JSON.
// Documents without a numeric id are skipped.
func providerFromDocument(doc map[string]interface{}) *entities.Provider {
	rawID, _ := doc["id"].(string)
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil || id <= 0 {
		return nil
	}

	p := &entities.Provider{
		ID:          id,
		Specialty:   stringsOf(doc["specialty"]),
		Services:    stringsOf(doc["services"]),
		Insurance:   stringsOf(doc["insurance"]),
		Credentials: []string{},
	}
	p.Name, _ = doc["name"].(string)
	p.Bio, _ = doc["bio"].(string)
	p.Location.City, _ = doc["city"].(string)
	p.Location.State, _ = doc["state"].(string)
	if rating, ok := doc["rating"].(float64); ok {
		p.Rating = rating
	}
	return p
}

func stringsOf(v interface{}) []string {
	items, _ := v.([]interface{})
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
