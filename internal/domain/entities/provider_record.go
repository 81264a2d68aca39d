package entities

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// ProviderRecord is the storage shape of a provider. Sub-objects are flattened
// into prefixed columns and multi-value fields are comma-joined. Records that
// arrive in the nested UI shape carry the Nested* pointers instead.
type ProviderRecord struct {
	ID        int64      `json:"id" db:"id"`
	Name      string     `json:"name" db:"name"`
	Specialty MultiValue `json:"specialty" db:"specialty"`

	LocationAddress string `json:"location_address,omitempty" db:"location_address"`
	LocationCity    string `json:"location_city,omitempty" db:"location_city"`
	LocationState   string `json:"location_state,omitempty" db:"location_state"`
	LocationZipCode string `json:"location_zip_code,omitempty" db:"location_zip_code"`

	Bio         string     `json:"bio" db:"bio"`
	Credentials MultiValue `json:"credentials" db:"credentials"`
	Services    MultiValue `json:"services" db:"services"`
	Insurance   MultiValue `json:"insurance" db:"insurance"`
	Rating      float64    `json:"rating" db:"rating"`

	AvailabilityNextAvailable *string `json:"availability_next_available,omitempty" db:"availability_next_available"`
	AvailabilityWaitTime      string  `json:"availability_wait_time,omitempty" db:"availability_wait_time"`

	Photo string `json:"photo" db:"photo"`

	ContactPhone   string `json:"contact_phone,omitempty" db:"contact_phone"`
	ContactEmail   string `json:"contact_email,omitempty" db:"contact_email"`
	ContactWebsite string `json:"contact_website,omitempty" db:"contact_website"`

	NestedLocation     *Location     `json:"location,omitempty" db:"-"`
	NestedAvailability *Availability `json:"availability,omitempty" db:"-"`
	NestedContactInfo  *ContactInfo  `json:"contactInfo,omitempty" db:"-"`
}

// MultiValue is a multi-valued field as the backing store represents it:
// either a single comma-joined string or a native list.
type MultiValue struct {
	Joined string
	Items  []string
	IsList bool
}

// JoinedValue wraps a comma-joined string.
func JoinedValue(s string) MultiValue {
	return MultiValue{Joined: s}
}

// ListValue wraps a native list.
func ListValue(items ...string) MultiValue {
	return MultiValue{Items: items, IsList: true}
}

// IsZero reports whether the value carries no entries at all.
func (m MultiValue) IsZero() bool {
	if m.IsList {
		return len(m.Items) == 0
	}
	return m.Joined == ""
}

// String returns the comma-joined form.
func (m MultiValue) String() string {
	if m.IsList {
		return strings.Join(m.Items, ",")
	}
	return m.Joined
}

// UnmarshalJSON accepts a string, an array of strings or null. Any other JSON
// type decodes to the zero value.
func (m *MultiValue) UnmarshalJSON(data []byte) error {
	*m = MultiValue{}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil
	}

	switch trimmed[0] {
	case '"':
		return json.Unmarshal(trimmed, &m.Joined)
	case '[':
		var raw []interface{}
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			return err
		}
		items := make([]string, 0, len(raw))
		for _, v := range raw {
			if s, ok := v.(string); ok {
				items = append(items, s)
			}
		}
		m.Items = items
		m.IsList = true
	}
	return nil
}

// MarshalJSON keeps the representation the value was created with.
func (m MultiValue) MarshalJSON() ([]byte, error) {
	if m.IsList {
		items := m.Items
		if items == nil {
			items = []string{}
		}
		return json.Marshal(items)
	}
	return json.Marshal(m.Joined)
}

// Scan implements sql.Scanner for text columns.
func (m *MultiValue) Scan(src interface{}) error {
	*m = MultiValue{}
	switch v := src.(type) {
	case nil:
		return nil
	case string:
		m.Joined = v
	case []byte:
		m.Joined = string(v)
	default:
		return fmt.Errorf("cannot scan %T into MultiValue", src)
	}
	return nil
}

// Value implements driver.Valuer, always storing the joined form.
func (m MultiValue) Value() (driver.Value, error) {
	return m.String(), nil
}
