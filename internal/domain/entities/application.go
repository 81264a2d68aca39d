package entities

import "time"

// ApplicationKind distinguishes the two application programmes
type ApplicationKind string

const (
	ApplicationKindPatient      ApplicationKind = "patient"
	ApplicationKindPractitioner ApplicationKind = "practitioner"
)

// ApplicationStatus tracks review progress
type ApplicationStatus string

const (
	ApplicationStatusSubmitted ApplicationStatus = "submitted"
)

// PatientApplication is a request for financial sponsorship of treatment.
type PatientApplication struct {
	ID     string            `json:"id" db:"id"`
	Status ApplicationStatus `json:"status" db:"status"`

	FirstName   string `json:"firstName" db:"first_name"`
	LastName    string `json:"lastName" db:"last_name"`
	Email       string `json:"email" db:"email"`
	Phone       string `json:"phone" db:"phone"`
	DateOfBirth string `json:"dateOfBirth,omitempty" db:"date_of_birth"`
	Address     string `json:"address,omitempty" db:"address"`
	City        string `json:"city,omitempty" db:"city"`
	State       string `json:"state,omitempty" db:"state"`
	ZipCode     string `json:"zipCode,omitempty" db:"zip_code"`

	PrimaryCondition   string `json:"primaryCondition" db:"primary_condition"`
	Symptoms           string `json:"symptoms" db:"symptoms"`
	CurrentTreatments  string `json:"currentTreatments,omitempty" db:"current_treatments"`
	PreviousTreatments string `json:"previousTreatments,omitempty" db:"previous_treatments"`
	Medications        string `json:"medications,omitempty" db:"medications"`
	PreferredProviders string `json:"preferredProviders,omitempty" db:"preferred_providers"`

	HouseholdIncome  string `json:"householdIncome" db:"household_income"`
	HouseholdSize    string `json:"householdSize" db:"household_size"`
	EmploymentStatus string `json:"employmentStatus,omitempty" db:"employment_status"`
	InsuranceStatus  string `json:"insuranceStatus,omitempty" db:"insurance_status"`

	TreatmentGoals string `json:"treatmentGoals" db:"treatment_goals"`
	AdditionalInfo string `json:"additionalInfo,omitempty" db:"additional_info"`
	AgreeToTerms   bool   `json:"agreeToTerms" db:"agree_to_terms"`

	SubmittedAt time.Time `json:"submittedAt" db:"submitted_at"`
}

// PractitionerApplication is a request to join the provider network.
type PractitionerApplication struct {
	ID     string            `json:"id" db:"id"`
	Status ApplicationStatus `json:"status" db:"status"`

	PracticeName string `json:"practiceName" db:"practice_name"`
	FirstName    string `json:"firstName" db:"first_name"`
	LastName     string `json:"lastName" db:"last_name"`
	Email        string `json:"email" db:"email"`
	Phone        string `json:"phone" db:"phone"`
	Website      string `json:"website,omitempty" db:"website"`
	Address      string `json:"address,omitempty" db:"address"`
	City         string `json:"city,omitempty" db:"city"`
	State        string `json:"state,omitempty" db:"state"`
	ZipCode      string `json:"zipCode,omitempty" db:"zip_code"`

	LicenseNumber   string   `json:"licenseNumber" db:"license_number"`
	LicenseState    string   `json:"licenseState" db:"license_state"`
	YearsExperience string   `json:"yearsExperience" db:"years_experience"`
	Specialties     []string `json:"specialties" db:"-"`
	Credentials     string   `json:"credentials,omitempty" db:"credentials"`
	Education       string   `json:"education,omitempty" db:"education"`

	ServicesOffered    string   `json:"servicesOffered" db:"services_offered"`
	InsuranceAccepted  []string `json:"insuranceAccepted" db:"-"`
	PaymentOptions     string   `json:"paymentOptions,omitempty" db:"payment_options"`
	AverageSessionCost string   `json:"averageSessionCost" db:"average_session_cost"`

	References           string `json:"references" db:"references"`
	MalpracticeInsurance string `json:"malpracticeInsurance,omitempty" db:"malpractice_insurance"`
	BackgroundCheck      bool   `json:"backgroundCheck" db:"background_check"`
	AgreeToTerms         bool   `json:"agreeToTerms" db:"agree_to_terms"`

	SubmittedAt time.Time `json:"submittedAt" db:"submitted_at"`
}

// ApplicationReceipt is returned for a stored application of either kind.
type ApplicationReceipt struct {
	ID          string            `json:"id"`
	Kind        ApplicationKind   `json:"kind"`
	Status      ApplicationStatus `json:"status"`
	SubmittedAt time.Time         `json:"submittedAt"`
}

// Receipt summarises a stored patient application.
func (a *PatientApplication) Receipt() ApplicationReceipt {
	return ApplicationReceipt{ID: a.ID, Kind: ApplicationKindPatient, Status: a.Status, SubmittedAt: a.SubmittedAt}
}

// Receipt summarises a stored practitioner application.
func (a *PractitionerApplication) Receipt() ApplicationReceipt {
	return ApplicationReceipt{ID: a.ID, Kind: ApplicationKindPractitioner, Status: a.Status, SubmittedAt: a.SubmittedAt}
}
