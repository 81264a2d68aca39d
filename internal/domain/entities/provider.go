package entities

// Provider is the canonical in-memory shape of a practitioner listed in the
// directory. Multi-value fields are always non-nil slices.
type Provider struct {
	ID           int64        `json:"id"`
	Name         string       `json:"name"`
	Specialty    []string     `json:"specialty"`
	Location     Location     `json:"location"`
	Bio          string       `json:"bio"`
	Credentials  []string     `json:"credentials"`
	Services     []string     `json:"services"`
	Insurance    []string     `json:"insurance"`
	Rating       float64      `json:"rating"`
	Availability Availability `json:"availability"`
	Photo        string       `json:"photo"`
	ContactInfo  ContactInfo  `json:"contactInfo"`
}

// Location is where a provider practices
type Location struct {
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
}

// Availability describes when a provider can next see patients
type Availability struct {
	NextAvailable *string `json:"nextAvailable,omitempty"`
	WaitTime      string  `json:"waitTime"`
}

// ContactInfo holds provider contact details
type ContactInfo struct {
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Website string `json:"website,omitempty"`
}

// Clone returns a deep copy of the provider.
func (p *Provider) Clone() *Provider {
	if p == nil {
		return nil
	}
	c := *p
	c.Specialty = cloneStrings(p.Specialty)
	c.Credentials = cloneStrings(p.Credentials)
	c.Services = cloneStrings(p.Services)
	c.Insurance = cloneStrings(p.Insurance)
	if p.Availability.NextAvailable != nil {
		next := *p.Availability.NextAvailable
		c.Availability.NextAvailable = &next
	}
	return &c
}

func cloneStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}
