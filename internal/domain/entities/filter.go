package entities

import "strings"

// Sort keys accepted by FilterSpec.SortBy
const (
	SortByInput  = ""
	SortByRating = "rating"
)

// FilterSpec constrains a provider query. The zero value places no
// restriction and keeps input order.
type FilterSpec struct {
	Specialty []string `json:"specialty,omitempty"`
	Location  string   `json:"location,omitempty"`
	Insurance []string `json:"insurance,omitempty"`
	MinRating float64  `json:"minRating,omitempty"`
	Search    string   `json:"search,omitempty"`

	SortBy string `json:"sortBy,omitempty"`
	Limit  int    `json:"limit,omitempty"`
	Offset int    `json:"offset,omitempty"`
}

// IsEmpty reports whether the spec has no active predicate.
func (s FilterSpec) IsEmpty() bool {
	return len(NonBlank(s.Specialty)) == 0 &&
		strings.TrimSpace(s.Location) == "" &&
		len(NonBlank(s.Insurance)) == 0 &&
		s.MinRating <= 0 &&
		strings.TrimSpace(s.Search) == ""
}

// NonBlank returns the trimmed, non-empty entries of values.
func NonBlank(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
