package records

import (
	"strings"

	"github.com/zatekoja/holistic-provider-directory/internal/domain/entities"
	"github.com/zatekoja/holistic-provider-directory/internal/domain/providers"
)

// QueryFromSpec translates the store-expressible part of spec into a
// RecordQuery. Stores evaluate multi-value fields against their joined form,
// so results may be a superset of the exact match and must still be filtered
// locally. Paging is left to the caller.
func QueryFromSpec(spec entities.FilterSpec) providers.RecordQuery {
	var query providers.RecordQuery

	if specialties := entities.NonBlank(spec.Specialty); len(specialties) > 0 {
		query.Filters = append(query.Filters, providers.FieldFilter{
			Fields:   []string{providers.FieldSpecialty},
			Operator: providers.OperatorContains,
			Values:   specialties,
		})
	}

	if location := strings.TrimSpace(spec.Location); location != "" {
		query.Filters = append(query.Filters, providers.FieldFilter{
			Fields:   []string{providers.FieldLocationCity, providers.FieldLocationState},
			Operator: providers.OperatorContains,
			Values:   []string{location},
		})
	}

	if insurance := entities.NonBlank(spec.Insurance); len(insurance) > 0 {
		query.Filters = append(query.Filters, providers.FieldFilter{
			Fields:   []string{providers.FieldInsurance},
			Operator: providers.OperatorContains,
			Values:   insurance,
		})
	}

	if spec.MinRating > 0 {
		query.Filters = append(query.Filters, providers.FieldFilter{
			Fields:   []string{providers.FieldRating},
			Operator: providers.OperatorGreaterOrEqual,
			Number:   spec.MinRating,
		})
	}

	if search := strings.TrimSpace(spec.Search); search != "" {
		query.Filters = append(query.Filters, providers.FieldFilter{
			Fields:   []string{providers.FieldName, providers.FieldBio, providers.FieldServices},
			Operator: providers.OperatorContains,
			Values:   []string{search},
		})
	}

	if spec.SortBy == entities.SortByRating {
		query.OrderBy = providers.FieldRating
		query.Descending = true
	}

	return query
}
