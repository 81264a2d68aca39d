// Package memory provides in-process stores used when no database is
// configured, and in tests.
package memory

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/zatekoja/holistic-provider-directory/internal/domain/entities"
	"github.com/zatekoja/holistic-provider-directory/internal/domain/providers"
)

//go:embed seed/providers.json
var seedProviders []byte

// LoadSeed reads provider records from path, or from the embedded catalogue
// when path is empty.
func LoadSeed(path string) ([]entities.ProviderRecord, error) {
	data := seedProviders
	if path != "" {
		var err error
		if data, err = os.ReadFile(path); err != nil {
			return nil, fmt.Errorf("failed to read provider seed: %w", err)
		}
	}

	var recs []entities.ProviderRecord
	if err := json.Unmarshal(data, &recs); err != nil {
		return nil, fmt.Errorf("failed to parse provider seed: %w", err)
	}
	return recs, nil
}

// RecordStore is a mutex-guarded RecordStore. Records are copied on the way
// in and out so callers never share state with the store.
type RecordStore struct {
	mu      sync.RWMutex
	records []entities.ProviderRecord
	nextID  int64
}

// NewRecordStore creates a store holding copies of seed
func NewRecordStore(seed []entities.ProviderRecord) *RecordStore {
	s := &RecordStore{nextID: 1}
	for _, rec := range seed {
		if rec.ID <= 0 {
			rec.ID = s.nextID
		}
		if rec.ID >= s.nextID {
			s.nextID = rec.ID + 1
		}
		s.records = append(s.records, flatten(rec))
	}
	return s
}

// Query evaluates query against the stored records
func (s *RecordStore) Query(_ context.Context, query providers.RecordQuery) (*providers.RecordResponse, error) {
	for _, f := range query.Filters {
		if err := validateFilter(f); err != nil {
			return &providers.RecordResponse{Success: false, Message: err.Error()}, nil
		}
	}
	if query.OrderBy != "" && !knownField(query.OrderBy) {
		return &providers.RecordResponse{Success: false, Message: fmt.Sprintf("cannot order by %q", query.OrderBy)}, nil
	}

	s.mu.RLock()
	matched := make([]entities.ProviderRecord, 0, len(s.records))
	for _, rec := range s.records {
		if matchesAll(rec, query.Filters) {
			matched = append(matched, copyRecord(rec))
		}
	}
	s.mu.RUnlock()

	if query.OrderBy != "" {
		sort.SliceStable(matched, func(i, j int) bool {
			less := compareField(matched[i], matched[j], query.OrderBy)
			if query.Descending {
				return less > 0
			}
			return less < 0
		})
	}

	if query.Offset > 0 {
		if query.Offset >= len(matched) {
			matched = matched[:0]
		} else {
			matched = matched[query.Offset:]
		}
	}
	if query.Limit > 0 && query.Limit < len(matched) {
		matched = matched[:query.Limit]
	}

	return &providers.RecordResponse{Success: true, Data: matched}, nil
}

// Get returns the record with id; Data is empty when it does not exist
func (s *RecordStore) Get(_ context.Context, id int64) (*providers.RecordResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	resp := &providers.RecordResponse{Success: true, Data: []entities.ProviderRecord{}}
	if i := s.indexOf(id); i >= 0 {
		resp.Data = append(resp.Data, copyRecord(s.records[i]))
	}
	return resp, nil
}

// Create stores a record under a new id
func (s *RecordStore) Create(_ context.Context, record *entities.ProviderRecord) (*providers.RecordResponse, error) {
	if record == nil {
		return &providers.RecordResponse{Success: false, Message: "record is required"}, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec := flatten(*record)
	rec.ID = s.nextID
	s.nextID++
	s.records = append(s.records, rec)

	return &providers.RecordResponse{Success: true, Data: []entities.ProviderRecord{copyRecord(rec)}}, nil
}

// Update replaces the record with id; Data is empty when it does not exist
func (s *RecordStore) Update(_ context.Context, id int64, record *entities.ProviderRecord) (*providers.RecordResponse, error) {
	if record == nil {
		return &providers.RecordResponse{Success: false, Message: "record is required"}, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return &providers.RecordResponse{Success: true, Data: []entities.ProviderRecord{}}, nil
	}

	rec := flatten(*record)
	rec.ID = id
	s.records[i] = rec
	return &providers.RecordResponse{Success: true, Data: []entities.ProviderRecord{copyRecord(rec)}}, nil
}

// Delete removes the record with id and returns it
func (s *RecordStore) Delete(_ context.Context, id int64) (*providers.RecordResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return &providers.RecordResponse{Success: true, Data: []entities.ProviderRecord{}}, nil
	}

	deleted := s.records[i]
	s.records = append(s.records[:i], s.records[i+1:]...)
	return &providers.RecordResponse{Success: true, Data: []entities.ProviderRecord{deleted}}, nil
}

// Len returns the number of stored records
func (s *RecordStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

func (s *RecordStore) indexOf(id int64) int {
	for i := range s.records {
		if s.records[i].ID == id {
			return i
		}
	}
	return -1
}

func knownField(field string) bool {
	switch field {
	case providers.FieldID, providers.FieldName, providers.FieldSpecialty,
		providers.FieldLocationCity, providers.FieldLocationState,
		providers.FieldBio, providers.FieldServices, providers.FieldInsurance,
		providers.FieldRating:
		return true
	}
	return false
}

func validateFilter(f providers.FieldFilter) error {
	for _, field := range f.Fields {
		if !knownField(field) {
			return fmt.Errorf("cannot filter on %q", field)
		}
	}
	switch f.Operator {
	case providers.OperatorContains, providers.OperatorGreaterOrEqual:
		return nil
	}
	return fmt.Errorf("unsupported operator %q", f.Operator)
}

func matchesAll(rec entities.ProviderRecord, filters []providers.FieldFilter) bool {
	for _, f := range filters {
		if !matches(rec, f) {
			return false
		}
	}
	return true
}

// matches is true when any field satisfies the operator against any value.
// A contains filter with only blank values places no restriction.
func matches(rec entities.ProviderRecord, f providers.FieldFilter) bool {
	if f.Operator == providers.OperatorGreaterOrEqual {
		for _, field := range f.Fields {
			if numericField(rec, field) >= f.Number {
				return true
			}
		}
		return false
	}

	values := make([]string, 0, len(f.Values))
	for _, v := range f.Values {
		if v = strings.ToLower(strings.TrimSpace(v)); v != "" {
			values = append(values, v)
		}
	}
	if len(values) == 0 {
		return true
	}

	for _, field := range f.Fields {
		text := strings.ToLower(textField(rec, field))
		for _, v := range values {
			if strings.Contains(text, v) {
				return true
			}
		}
	}
	return false
}

func textField(rec entities.ProviderRecord, field string) string {
	switch field {
	case providers.FieldID:
		return strconv.FormatInt(rec.ID, 10)
	case providers.FieldName:
		return rec.Name
	case providers.FieldSpecialty:
		return rec.Specialty.String()
	case providers.FieldLocationCity:
		return rec.LocationCity
	case providers.FieldLocationState:
		return rec.LocationState
	case providers.FieldBio:
		return rec.Bio
	case providers.FieldServices:
		return rec.Services.String()
	case providers.FieldInsurance:
		return rec.Insurance.String()
	case providers.FieldRating:
		return strconv.FormatFloat(rec.Rating, 'f', -1, 64)
	}
	return ""
}

func numericField(rec entities.ProviderRecord, field string) float64 {
	switch field {
	case providers.FieldRating:
		return rec.Rating
	case providers.FieldID:
		return float64(rec.ID)
	}
	return 0
}

func compareField(a, b entities.ProviderRecord, field string) int {
	switch field {
	case providers.FieldRating, providers.FieldID:
		x, y := numericField(a, field), numericField(b, field)
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		}
		return 0
	}
	return strings.Compare(strings.ToLower(textField(a, field)), strings.ToLower(textField(b, field)))
}

// flatten copies rec and moves nested sub-objects into the flat fields, so
// queries over location_* and the other prefixed fields see them. Flat
// values win when both are set.
func flatten(rec entities.ProviderRecord) entities.ProviderRecord {
	out := copyRecord(rec)
	if loc := out.NestedLocation; loc != nil {
		out.LocationAddress = firstNonEmpty(out.LocationAddress, loc.Address)
		out.LocationCity = firstNonEmpty(out.LocationCity, loc.City)
		out.LocationState = firstNonEmpty(out.LocationState, loc.State)
		out.LocationZipCode = firstNonEmpty(out.LocationZipCode, loc.ZipCode)
	}
	if avail := out.NestedAvailability; avail != nil {
		out.AvailabilityWaitTime = firstNonEmpty(out.AvailabilityWaitTime, avail.WaitTime)
		if out.AvailabilityNextAvailable == nil {
			out.AvailabilityNextAvailable = avail.NextAvailable
		}
	}
	if contact := out.NestedContactInfo; contact != nil {
		out.ContactPhone = firstNonEmpty(out.ContactPhone, contact.Phone)
		out.ContactEmail = firstNonEmpty(out.ContactEmail, contact.Email)
		out.ContactWebsite = firstNonEmpty(out.ContactWebsite, contact.Website)
	}
	out.NestedLocation, out.NestedAvailability, out.NestedContactInfo = nil, nil, nil
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func copyRecord(rec entities.ProviderRecord) entities.ProviderRecord {
	out := rec
	out.Specialty = copyMultiValue(rec.Specialty)
	out.Credentials = copyMultiValue(rec.Credentials)
	out.Services = copyMultiValue(rec.Services)
	out.Insurance = copyMultiValue(rec.Insurance)
	if rec.AvailabilityNextAvailable != nil {
		v := *rec.AvailabilityNextAvailable
		out.AvailabilityNextAvailable = &v
	}
	if rec.NestedLocation != nil {
		v := *rec.NestedLocation
		out.NestedLocation = &v
	}
	if rec.NestedContactInfo != nil {
		v := *rec.NestedContactInfo
		out.NestedContactInfo = &v
	}
	if rec.NestedAvailability != nil {
		v := *rec.NestedAvailability
		if v.NextAvailable != nil {
			next := *v.NextAvailable
			v.NextAvailable = &next
		}
		out.NestedAvailability = &v
	}
	return out
}

func copyMultiValue(v entities.MultiValue) entities.MultiValue {
	if v.Items != nil {
		items := make([]string, len(v.Items))
		copy(items, v.Items)
		v.Items = items
	}
	return v
}
