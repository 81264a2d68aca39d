package services

import (
	"sort"
	"strings"

	"github.com/zatekoja/holistic-provider-directory/internal/domain/entities"
)

// DefaultFeaturedThreshold is the minimum rating for a featured provider.
const DefaultFeaturedThreshold = 4.8

// ProviderQueryService filters, ranks and matches providers held in memory.
// It never mutates its input and always returns a fresh slice.
type ProviderQueryService struct {
	keywords []SymptomKeyword
}

// NewProviderQueryService creates a query service using the given keyword
// table. A nil or empty table falls back to DefaultSymptomKeywords.
func NewProviderQueryService(keywords []SymptomKeyword) *ProviderQueryService {
	if len(keywords) == 0 {
		keywords = DefaultSymptomKeywords
	}
	return &ProviderQueryService{keywords: normalizeKeywords(keywords)}
}

// compiledSpec holds the lower-cased predicate terms of a FilterSpec.
type compiledSpec struct {
	specialties []string
	insurance   []string
	location    string
	search      string
	minRating   float64
}

func compile(spec entities.FilterSpec) compiledSpec {
	return compiledSpec{
		specialties: lowerAll(entities.NonBlank(spec.Specialty)),
		insurance:   lowerAll(entities.NonBlank(spec.Insurance)),
		location:    strings.ToLower(strings.TrimSpace(spec.Location)),
		search:      strings.ToLower(strings.TrimSpace(spec.Search)),
		minRating:   spec.MinRating,
	}
}

func (c compiledSpec) matches(p *entities.Provider) bool {
	if len(c.specialties) > 0 && !anyContainsAny(p.Specialty, c.specialties) {
		return false
	}
	if c.location != "" &&
		!containsFold(p.Location.City, c.location) &&
		!containsFold(p.Location.State, c.location) {
		return false
	}
	if len(c.insurance) > 0 && !anyContainsAny(p.Insurance, c.insurance) {
		return false
	}
	if c.minRating > 0 && !(p.Rating >= c.minRating) {
		return false
	}
	if c.search != "" && !matchesSearch(p, c.search) {
		return false
	}
	return true
}

// Filter returns the providers satisfying every active predicate of spec.
// Input order is kept unless spec.SortBy asks for rating order. Paging
// fields are not applied here; see Paginate.
func (s *ProviderQueryService) Filter(providers []*entities.Provider, spec entities.FilterSpec) []*entities.Provider {
	result := make([]*entities.Provider, 0, len(providers))

	if spec.IsEmpty() {
		result = append(result, providers...)
	} else {
		c := compile(spec)
		for _, p := range providers {
			if p != nil && c.matches(p) {
				result = append(result, p)
			}
		}
	}

	if spec.SortBy == entities.SortByRating {
		SortByRating(result)
	}
	return result
}

// InferSpecialties returns the sorted, de-duplicated specialties whose
// keywords appear in any of the statements.
func (s *ProviderQueryService) InferSpecialties(statements []string) []string {
	seen := make(map[string]struct{})
	for _, statement := range statements {
		lowered := strings.ToLower(statement)
		if strings.TrimSpace(lowered) == "" {
			continue
		}
		for _, entry := range s.keywords {
			if !strings.Contains(lowered, entry.Keyword) {
				continue
			}
			for _, specialty := range entry.Specialties {
				seen[specialty] = struct{}{}
			}
		}
	}

	specialties := make([]string, 0, len(seen))
	for specialty := range seen {
		specialties = append(specialties, specialty)
	}
	sort.Strings(specialties)
	return specialties
}

// MatchBySymptoms ranks providers relevant to a patient's statements. When no
// keyword is recognised every provider is returned in input order.
func (s *ProviderQueryService) MatchBySymptoms(providers []*entities.Provider, statements []string) []*entities.Provider {
	specialties := s.InferSpecialties(statements)
	if len(specialties) == 0 {
		return s.Filter(providers, entities.FilterSpec{})
	}

	matched := s.Filter(providers, entities.FilterSpec{Specialty: specialties})
	SortByRating(matched)
	return matched
}

// GetFeatured returns providers rated at or above threshold, in input order.
// A non-positive threshold uses DefaultFeaturedThreshold.
func (s *ProviderQueryService) GetFeatured(providers []*entities.Provider, threshold float64) []*entities.Provider {
	if threshold <= 0 {
		threshold = DefaultFeaturedThreshold
	}

	result := make([]*entities.Provider, 0)
	for _, p := range providers {
		if p != nil && p.Rating >= threshold {
			result = append(result, p)
		}
	}
	return result
}

// SortByRating orders providers by rating, highest first. Ties keep their
// relative order.
func SortByRating(providers []*entities.Provider) {
	sort.SliceStable(providers, func(i, j int) bool {
		return ratingOf(providers[i]) > ratingOf(providers[j])
	})
}

func ratingOf(p *entities.Provider) float64 {
	if p == nil {
		return -1
	}
	return p.Rating
}

// Paginate applies offset and limit to an already filtered result. A
// non-positive limit means no limit.
func Paginate(providers []*entities.Provider, limit, offset int) []*entities.Provider {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(providers) {
		return []*entities.Provider{}
	}
	end := len(providers)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	page := make([]*entities.Provider, end-offset)
	copy(page, providers[offset:end])
	return page
}

// MatchesSearch reports whether a provider's name, services or bio contain
// the search term, ignoring case.
func MatchesSearch(p *entities.Provider, term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	return p != nil && matchesSearch(p, term)
}

func matchesSearch(p *entities.Provider, lowered string) bool {
	if containsFold(p.Name, lowered) || containsFold(p.Bio, lowered) {
		return true
	}
	for _, service := range p.Services {
		if containsFold(service, lowered) {
			return true
		}
	}
	return false
}

func anyContainsAny(values, lowered []string) bool {
	for _, v := range values {
		for _, term := range lowered {
			if containsFold(v, term) {
				return true
			}
		}
	}
	return false
}

// containsFold expects term to already be lower case.
func containsFold(value, term string) bool {
	return strings.Contains(strings.ToLower(value), term)
}

func lowerAll(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strings.ToLower(v)
	}
	return out
}
