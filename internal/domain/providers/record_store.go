package providers

import (
	"context"

	"github.com/zatekoja/holistic-provider-directory/internal/domain/entities"
)

// RecordStore is the remote record store holding flat provider records.
// Transport failures are returned as errors; a store that answers but refuses
// the request reports Success=false with a Message.
type RecordStore interface {
	Query(ctx context.Context, query RecordQuery) (*RecordResponse, error)
	Get(ctx context.Context, id int64) (*RecordResponse, error)
	Create(ctx context.Context, record *entities.ProviderRecord) (*RecordResponse, error)
	Update(ctx context.Context, id int64, record *entities.ProviderRecord) (*RecordResponse, error)
	Delete(ctx context.Context, id int64) (*RecordResponse, error)
}

// Record field names understood by every store
const (
	FieldID            = "id"
	FieldName          = "name"
	FieldSpecialty     = "specialty"
	FieldLocationCity  = "location_city"
	FieldLocationState = "location_state"
	FieldBio           = "bio"
	FieldServices      = "services"
	FieldInsurance     = "insurance"
	FieldRating        = "rating"
)

// FilterOperator is how a FieldFilter compares
type FilterOperator string

const (
	// OperatorContains is a case-insensitive substring match
	OperatorContains FilterOperator = "contains"

	// OperatorGreaterOrEqual compares a numeric field against Number
	OperatorGreaterOrEqual FilterOperator = "gte"
)

// FieldFilter matches when any of Fields satisfies the operator against any
// of Values (or Number for numeric operators).
type FieldFilter struct {
	Fields   []string       `json:"fields"`
	Operator FilterOperator `json:"operator"`
	Values   []string       `json:"values,omitempty"`
	Number   float64        `json:"number,omitempty"`
}

// RecordQuery is the query description sent to a RecordStore. Filters are AND-ed.
type RecordQuery struct {
	Filters    []FieldFilter `json:"filters,omitempty"`
	OrderBy    string        `json:"orderBy,omitempty"`
	Descending bool          `json:"descending,omitempty"`
	Limit      int           `json:"limit,omitempty"`
	Offset     int           `json:"offset,omitempty"`
}

// RecordResponse is the envelope every store operation answers with
type RecordResponse struct {
	Success bool                      `json:"success"`
	Data    []entities.ProviderRecord `json:"data,omitempty"`
	Message string                    `json:"message,omitempty"`
}
