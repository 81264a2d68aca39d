// Package records converts between stored provider records and the canonical
// Provider shape, and implements ProviderRepository over a RecordStore.
package records

import (
	"math"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/zatekoja/holistic-provider-directory/internal/domain/entities"
)

const maxRating = 5.0

// Normalize converts a stored record into a canonical Provider. Missing
// fields become empty strings or empty slices, never nil.
func Normalize(rec entities.ProviderRecord) *entities.Provider {
	p := &entities.Provider{
		ID:          rec.ID,
		Name:        rec.Name,
		Specialty:   splitValues(rec.Specialty),
		Bio:         rec.Bio,
		Credentials: splitValues(rec.Credentials),
		Services:    splitValues(rec.Services),
		Insurance:   splitValues(rec.Insurance),
		Rating:      clampRating(rec.ID, rec.Rating),
		Photo:       rec.Photo,
	}

	var nestedLoc entities.Location
	if rec.NestedLocation != nil {
		nestedLoc = *rec.NestedLocation
	}
	p.Location = entities.Location{
		Address: firstNonEmpty(rec.LocationAddress, nestedLoc.Address),
		City:    firstNonEmpty(rec.LocationCity, nestedLoc.City),
		State:   firstNonEmpty(rec.LocationState, nestedLoc.State),
		ZipCode: firstNonEmpty(rec.LocationZipCode, nestedLoc.ZipCode),
	}

	var nestedAvail entities.Availability
	if rec.NestedAvailability != nil {
		nestedAvail = *rec.NestedAvailability
	}
	p.Availability = entities.Availability{
		NextAvailable: copyString(rec.AvailabilityNextAvailable),
		WaitTime:      firstNonEmpty(rec.AvailabilityWaitTime, nestedAvail.WaitTime),
	}
	if p.Availability.NextAvailable == nil {
		p.Availability.NextAvailable = copyString(nestedAvail.NextAvailable)
	}

	var nestedContact entities.ContactInfo
	if rec.NestedContactInfo != nil {
		nestedContact = *rec.NestedContactInfo
	}
	p.ContactInfo = entities.ContactInfo{
		Phone:   firstNonEmpty(rec.ContactPhone, nestedContact.Phone),
		Email:   firstNonEmpty(rec.ContactEmail, nestedContact.Email),
		Website: firstNonEmpty(rec.ContactWebsite, nestedContact.Website),
	}

	return p
}

// Denormalize flattens a Provider into the stored record shape. Multi-value
// fields are comma-joined.
func Denormalize(p *entities.Provider) entities.ProviderRecord {
	if p == nil {
		return entities.ProviderRecord{}
	}
	return entities.ProviderRecord{
		ID:                        p.ID,
		Name:                      p.Name,
		Specialty:                 joinValues(p.Specialty),
		LocationAddress:           p.Location.Address,
		LocationCity:              p.Location.City,
		LocationState:             p.Location.State,
		LocationZipCode:           p.Location.ZipCode,
		Bio:                       p.Bio,
		Credentials:               joinValues(p.Credentials),
		Services:                  joinValues(p.Services),
		Insurance:                 joinValues(p.Insurance),
		Rating:                    p.Rating,
		AvailabilityNextAvailable: copyString(p.Availability.NextAvailable),
		AvailabilityWaitTime:      p.Availability.WaitTime,
		Photo:                     p.Photo,
		ContactPhone:              p.ContactInfo.Phone,
		ContactEmail:              p.ContactInfo.Email,
		ContactWebsite:            p.ContactInfo.Website,
	}
}

// SplitValues splits a comma-joined string, trimming each piece and dropping
// empty ones.
func SplitValues(s string) []string {
	out := make([]string, 0)
	for _, piece := range strings.Split(s, ",") {
		if piece = strings.TrimSpace(piece); piece != "" {
			out = append(out, piece)
		}
	}
	return out
}

func splitValues(v entities.MultiValue) []string {
	if v.IsList {
		return entities.NonBlank(v.Items)
	}
	return SplitValues(v.Joined)
}

func joinValues(values []string) entities.MultiValue {
	return entities.JoinedValue(strings.Join(entities.NonBlank(values), ","))
}

// clampRating maps a stored rating into [0, 5].
func clampRating(id int64, rating float64) float64 {
	switch {
	case math.IsNaN(rating) || math.IsInf(rating, 0) || rating < 0:
		log.Debug().Int64("provider_id", id).Float64("rating", rating).Msg("invalid rating replaced with 0")
		return 0
	case rating > maxRating:
		log.Debug().Int64("provider_id", id).Float64("rating", rating).Msg("rating capped at 5")
		return maxRating
	}
	return rating
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
