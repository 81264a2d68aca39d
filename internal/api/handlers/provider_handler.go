package handlers

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/zatekoja/holistic-provider-directory/internal/application/services"
	"github.com/zatekoja/holistic-provider-directory/internal/domain/entities"
)

// ProviderService is what the provider endpoints need from the application layer
type ProviderService interface {
	List(ctx context.Context, spec entities.FilterSpec) ([]*entities.Provider, error)
	Get(ctx context.Context, rawID string) (*entities.Provider, bool, error)
	MatchBySymptoms(ctx context.Context, statements []string) (*services.MatchResult, error)
	Featured(ctx context.Context, threshold float64) ([]*entities.Provider, error)
	Suggest(ctx context.Context, query string, limit int) ([]*entities.Provider, error)
	Create(ctx context.Context, provider *entities.Provider) (*entities.Provider, error)
	Update(ctx context.Context, id int64, provider *entities.Provider) (*entities.Provider, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

// ProviderHandler handles provider-related HTTP requests
type ProviderHandler struct {
	service ProviderService
}

// NewProviderHandler creates a new provider handler
func NewProviderHandler(service ProviderService) *ProviderHandler {
	return &ProviderHandler{service: service}
}

type matchRequest struct {
	Statements []string `json:"statements"`
}

type providerListResponse struct {
	Providers []*entities.Provider `json:"providers"`
	Count     int                  `json:"count"`
}

type matchResponse struct {
	Providers   []*entities.Provider `json:"providers"`
	Specialties []string             `json:"specialties"`
	Count       int                  `json:"count"`
}

// ListProviders handles GET /api/providers
func (h *ProviderHandler) ListProviders(w http.ResponseWriter, r *http.Request) {
	providers, err := h.service.List(r.Context(), parseFilterSpec(r))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, listResponse(providers))
}

// GetProvider handles GET /api/providers/{id}
func (h *ProviderHandler) GetProvider(w http.ResponseWriter, r *http.Request) {
	provider, found, err := h.service.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	if !found {
		respondWithError(w, http.StatusNotFound, "provider not found")
		return
	}
	respondWithJSON(w, http.StatusOK, provider)
}

// FeaturedProviders handles GET /api/providers/featured
func (h *ProviderHandler) FeaturedProviders(w http.ResponseWriter, r *http.Request) {
	threshold := parseFloat(r.URL.Query().Get("threshold"))
	providers, err := h.service.Featured(r.Context(), threshold)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, listResponse(providers))
}

// SuggestProviders handles GET /api/providers/suggest
func (h *ProviderHandler) SuggestProviders(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	providers, err := h.service.Suggest(r.Context(), query.Get("q"), parseInt(query.Get("limit")))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, listResponse(providers))
}

// MatchProviders handles POST /api/providers/match
func (h *ProviderHandler) MatchProviders(w http.ResponseWriter, r *http.Request) {
	var req matchRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	result, err := h.service.MatchBySymptoms(r.Context(), req.Statements)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, matchResponse{
		Providers:   nonNilProviders(result.Providers),
		Specialties: nonNilStrings(result.Specialties),
		Count:       len(result.Providers),
	})
}

// CreateProvider handles POST /api/providers
func (h *ProviderHandler) CreateProvider(w http.ResponseWriter, r *http.Request) {
	var provider entities.Provider
	if err := decodeJSON(w, r, &provider); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	created, err := h.service.Create(r.Context(), &provider)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, created)
}

// UpdateProvider handles PUT /api/providers/{id}
func (h *ProviderHandler) UpdateProvider(w http.ResponseWriter, r *http.Request) {
	id, ok := services.ParseProviderID(r.PathValue("id"))
	if !ok {
		respondWithError(w, http.StatusNotFound, "provider not found")
		return
	}

	var provider entities.Provider
	if err := decodeJSON(w, r, &provider); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	updated, err := h.service.Update(r.Context(), id, &provider)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, updated)
}

// DeleteProvider handles DELETE /api/providers/{id}
func (h *ProviderHandler) DeleteProvider(w http.ResponseWriter, r *http.Request) {
	id, ok := services.ParseProviderID(r.PathValue("id"))
	if !ok {
		respondWithError(w, http.StatusNotFound, "provider not found")
		return
	}

	deleted, err := h.service.Delete(r.Context(), id)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	if !deleted {
		respondWithError(w, http.StatusNotFound, "provider not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// parseFilterSpec reads the list query. Unparsable numbers fall back to zero.
func parseFilterSpec(r *http.Request) entities.FilterSpec {
	query := r.URL.Query()
	spec := entities.FilterSpec{
		Specialty: splitParam(query["specialty"]),
		Location:  query.Get("location"),
		Insurance: splitParam(query["insurance"]),
		MinRating: parseFloat(query.Get("minRating")),
		Search:    query.Get("search"),
		Limit:     parseInt(query.Get("limit")),
		Offset:    parseInt(query.Get("offset")),
	}
	if strings.EqualFold(strings.TrimSpace(query.Get("sort")), entities.SortByRating) {
		spec.SortBy = entities.SortByRating
	}
	return spec
}

// splitParam accepts repeated parameters and comma lists alike
func splitParam(values []string) []string {
	var out []string
	for _, v := range values {
		out = append(out, entities.NonBlank(strings.Split(v, ","))...)
	}
	return out
}

func parseFloat(raw string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0
	}
	return f
}

func parseInt(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func listResponse(providers []*entities.Provider) providerListResponse {
	providers = nonNilProviders(providers)
	return providerListResponse{Providers: providers, Count: len(providers)}
}

func nonNilProviders(providers []*entities.Provider) []*entities.Provider {
	if providers == nil {
		return []*entities.Provider{}
	}
	return providers
}

func nonNilStrings(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
