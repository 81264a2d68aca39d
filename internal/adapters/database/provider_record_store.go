package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/jmoiron/sqlx"

	"github.com/zatekoja/holistic-provider-directory/internal/domain/entities"
	"github.com/zatekoja/holistic-provider-directory/internal/domain/providers"
	"github.com/zatekoja/holistic-provider-directory/internal/infrastructure/clients/postgres"
	"github.com/zatekoja/holistic-provider-directory/internal/infrastructure/observability"
)

const providersTable = "providers"

var providerColumns = []interface{}{
	"id", "name", "specialty",
	"location_address", "location_city", "location_state", "location_zip_code",
	"bio", "credentials", "services", "insurance", "rating",
	"availability_next_available", "availability_wait_time",
	"photo", "contact_phone", "contact_email", "contact_website",
}

// Fields a RecordQuery may filter or order on
var queryableFields = map[string]bool{
	providers.FieldID:            true,
	providers.FieldName:          true,
	providers.FieldSpecialty:     true,
	providers.FieldLocationCity:  true,
	providers.FieldLocationState: true,
	providers.FieldBio:           true,
	providers.FieldServices:      true,
	providers.FieldInsurance:     true,
	providers.FieldRating:        true,
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ProviderRecordStore implements RecordStore on the PostgreSQL providers table
type ProviderRecordStore struct {
	db   *sqlx.DB
	goqu *goqu.Database
}

// NewProviderRecordStore creates a new PostgreSQL record store
func NewProviderRecordStore(client *postgres.Client) providers.RecordStore {
	return &ProviderRecordStore{
		db:   client.DB(),
		goqu: goqu.New("postgres", client.DB()),
	}
}

// Query selects the records matching every filter of query
func (s *ProviderRecordStore) Query(ctx context.Context, query providers.RecordQuery) (*providers.RecordResponse, error) {
	ds := s.goqu.From(providersTable).Select(providerColumns...).Prepared(true)

	for _, filter := range query.Filters {
		expr, err := filterExpression(filter)
		if err != nil {
			return &providers.RecordResponse{Success: false, Message: err.Error()}, nil
		}
		if expr != nil {
			ds = ds.Where(expr)
		}
	}

	if query.OrderBy != "" {
		if !queryableFields[query.OrderBy] {
			return &providers.RecordResponse{Success: false, Message: fmt.Sprintf("cannot order by %q", query.OrderBy)}, nil
		}
		if query.Descending {
			ds = ds.Order(goqu.I(query.OrderBy).Desc(), goqu.I("id").Asc())
		} else {
			ds = ds.Order(goqu.I(query.OrderBy).Asc(), goqu.I("id").Asc())
		}
	} else {
		ds = ds.Order(goqu.I("id").Asc())
	}

	if query.Limit > 0 {
		ds = ds.Limit(uint(query.Limit))
	}
	if query.Offset > 0 {
		ds = ds.Offset(uint(query.Offset))
	}

	sqlQuery, args, err := ds.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("failed to build provider query: %w", err)
	}

	return s.selectRecords(ctx, "query", sqlQuery, args)
}

// Get selects a single record; Data is empty when it does not exist
func (s *ProviderRecordStore) Get(ctx context.Context, id int64) (*providers.RecordResponse, error) {
	sqlQuery, args, err := s.goqu.From(providersTable).
		Select(providerColumns...).
		Where(goqu.Ex{"id": id}).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("failed to build provider get query: %w", err)
	}

	return s.selectRecords(ctx, "get", sqlQuery, args)
}

// Create inserts a record and returns it with its assigned id
func (s *ProviderRecordStore) Create(ctx context.Context, record *entities.ProviderRecord) (*providers.RecordResponse, error) {
	sqlQuery, args, err := s.goqu.Insert(providersTable).
		Rows(recordRow(record)).
		Returning(providerColumns...).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("failed to build provider insert query: %w", err)
	}

	return s.selectRecords(ctx, "create", sqlQuery, args)
}

// Update replaces the record with the given id; Data is empty when no row matched
func (s *ProviderRecordStore) Update(ctx context.Context, id int64, record *entities.ProviderRecord) (*providers.RecordResponse, error) {
	sqlQuery, args, err := s.goqu.Update(providersTable).
		Set(recordRow(record)).
		Where(goqu.Ex{"id": id}).
		Returning(providerColumns...).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("failed to build provider update query: %w", err)
	}

	return s.selectRecords(ctx, "update", sqlQuery, args)
}

// Delete removes the record and returns it; Data is empty when no row matched
func (s *ProviderRecordStore) Delete(ctx context.Context, id int64) (*providers.RecordResponse, error) {
	sqlQuery, args, err := s.goqu.Delete(providersTable).
		Where(goqu.Ex{"id": id}).
		Returning(providerColumns...).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("failed to build provider delete query: %w", err)
	}

	return s.selectRecords(ctx, "delete", sqlQuery, args)
}

func (s *ProviderRecordStore) selectRecords(ctx context.Context, op, sqlQuery string, args []interface{}) (*providers.RecordResponse, error) {
	start := time.Now()
	recs := make([]entities.ProviderRecord, 0)
	err := s.db.SelectContext(ctx, &recs, sqlQuery, args...)
	observability.RecordStoreMetric(ctx, "postgres", op, time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("provider %s failed: %w", op, err)
	}
	return &providers.RecordResponse{Success: true, Data: recs}, nil
}

// filterExpression renders a FieldFilter as an OR over its fields and values
func filterExpression(filter providers.FieldFilter) (exp.Expression, error) {
	var ors []exp.Expression

	for _, field := range filter.Fields {
		if !queryableFields[field] {
			return nil, fmt.Errorf("cannot filter on %q", field)
		}
		switch filter.Operator {
		case providers.OperatorContains:
			for _, v := range filter.Values {
				if v = strings.TrimSpace(v); v == "" {
					continue
				}
				ors = append(ors, goqu.I(field).ILike("%"+likeEscaper.Replace(v)+"%"))
			}
		case providers.OperatorGreaterOrEqual:
			ors = append(ors, goqu.I(field).Gte(filter.Number))
		default:
			return nil, fmt.Errorf("unsupported operator %q", filter.Operator)
		}
	}

	switch len(ors) {
	case 0:
		return nil, nil
	case 1:
		return ors[0], nil
	}
	return goqu.Or(ors...), nil
}

func recordRow(r *entities.ProviderRecord) goqu.Record {
	nextAvailable := sql.NullString{}
	if r.AvailabilityNextAvailable != nil {
		nextAvailable = sql.NullString{String: *r.AvailabilityNextAvailable, Valid: true}
	}
	return goqu.Record{
		"name":                        r.Name,
		"specialty":                   r.Specialty.String(),
		"location_address":            r.LocationAddress,
		"location_city":               r.LocationCity,
		"location_state":              r.LocationState,
		"location_zip_code":           r.LocationZipCode,
		"bio":                         r.Bio,
		"credentials":                 r.Credentials.String(),
		"services":                    r.Services.String(),
		"insurance":                   r.Insurance.String(),
		"rating":                      r.Rating,
		"availability_next_available": nextAvailable,
		"availability_wait_time":      r.AvailabilityWaitTime,
		"photo":                       r.Photo,
		"contact_phone":               r.ContactPhone,
		"contact_email":               r.ContactEmail,
		"contact_website":             r.ContactWebsite,
	}
}
