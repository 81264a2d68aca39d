package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/zatekoja/holistic-provider-directory/internal/domain/entities"
	"github.com/zatekoja/holistic-provider-directory/internal/domain/repositories"
	"github.com/zatekoja/holistic-provider-directory/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/holistic-provider-directory/pkg/errors"
)

// ApplicationService accepts sponsorship and network applications
type ApplicationService struct {
	repo repositories.ApplicationRepository
	now  func() time.Time
}

// NewApplicationService creates a new application service
func NewApplicationService(repo repositories.ApplicationRepository) *ApplicationService {
	return &ApplicationService{repo: repo, now: time.Now}
}

// SubmitPatientApplication validates and stores a patient application. The
// id, status and submission time are assigned here.
func (s *ApplicationService) SubmitPatientApplication(ctx context.Context, app *entities.PatientApplication) (*entities.ApplicationReceipt, error) {
	if app == nil {
		return nil, apperrors.NewValidationError("application body is required")
	}
	if missing := missingPatientFields(app); len(missing) > 0 {
		return nil, missingFieldsError(missing)
	}

	app.ID = uuid.New().String()
	app.Status = entities.ApplicationStatusSubmitted
	app.SubmittedAt = s.now().UTC()

	if err := s.repo.CreatePatient(ctx, app); err != nil {
		return nil, err
	}

	observability.LoggerFromContext(ctx).Info().Str("application_id", app.ID).Msg("Patient application submitted")
	receipt := app.Receipt()
	return &receipt, nil
}

// SubmitPractitionerApplication validates and stores a practitioner application
func (s *ApplicationService) SubmitPractitionerApplication(ctx context.Context, app *entities.PractitionerApplication) (*entities.ApplicationReceipt, error) {
	if app == nil {
		return nil, apperrors.NewValidationError("application body is required")
	}
	app.Specialties = entities.NonBlank(app.Specialties)
	app.InsuranceAccepted = entities.NonBlank(app.InsuranceAccepted)
	if missing := missingPractitionerFields(app); len(missing) > 0 {
		return nil, missingFieldsError(missing)
	}

	app.ID = uuid.New().String()
	app.Status = entities.ApplicationStatusSubmitted
	app.SubmittedAt = s.now().UTC()

	if err := s.repo.CreatePractitioner(ctx, app); err != nil {
		return nil, err
	}

	observability.LoggerFromContext(ctx).Info().Str("application_id", app.ID).Msg("Practitioner application submitted")
	receipt := app.Receipt()
	return &receipt, nil
}

// GetApplication returns the receipt of a stored application
func (s *ApplicationService) GetApplication(ctx context.Context, id string) (*entities.ApplicationReceipt, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperrors.NewNotFoundError("application not found")
	}
	return s.repo.GetReceipt(ctx, id)
}

type requiredField struct {
	name    string
	present bool
}

func missingOf(fields []requiredField) []string {
	var missing []string
	for _, f := range fields {
		if !f.present {
			missing = append(missing, f.name)
		}
	}
	return missing
}

func set(s string) bool { return strings.TrimSpace(s) != "" }

func missingPatientFields(app *entities.PatientApplication) []string {
	return missingOf([]requiredField{
		{"firstName", set(app.FirstName)},
		{"lastName", set(app.LastName)},
		{"email", set(app.Email)},
		{"phone", set(app.Phone)},
		{"primaryCondition", set(app.PrimaryCondition)},
		{"symptoms", set(app.Symptoms)},
		{"householdIncome", set(app.HouseholdIncome)},
		{"householdSize", set(app.HouseholdSize)},
		{"treatmentGoals", set(app.TreatmentGoals)},
		{"agreeToTerms", app.AgreeToTerms},
	})
}

func missingPractitionerFields(app *entities.PractitionerApplication) []string {
	return missingOf([]requiredField{
		{"firstName", set(app.FirstName)},
		{"lastName", set(app.LastName)},
		{"email", set(app.Email)},
		{"phone", set(app.Phone)},
		{"practiceName", set(app.PracticeName)},
		{"licenseNumber", set(app.LicenseNumber)},
		{"licenseState", set(app.LicenseState)},
		{"yearsExperience", set(app.YearsExperience)},
		{"specialties", len(app.Specialties) > 0},
		{"servicesOffered", set(app.ServicesOffered)},
		{"averageSessionCost", set(app.AverageSessionCost)},
		{"references", set(app.References)},
		{"agreeToTerms", app.AgreeToTerms},
		{"backgroundCheck", app.BackgroundCheck},
	})
}

func missingFieldsError(missing []string) error {
	return apperrors.NewValidationError(fmt.Sprintf("missing required fields: %s", strings.Join(missing, ", ")))
}
