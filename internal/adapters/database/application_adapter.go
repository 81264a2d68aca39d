package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/zatekoja/holistic-provider-directory/internal/domain/entities"
	"github.com/zatekoja/holistic-provider-directory/internal/domain/repositories"
	"github.com/zatekoja/holistic-provider-directory/internal/infrastructure/clients/postgres"
	apperrors "github.com/zatekoja/holistic-provider-directory/pkg/errors"
)

const (
	patientApplicationsTable      = "patient_applications"
	practitionerApplicationsTable = "practitioner_applications"
)

// ApplicationAdapter stores applications in PostgreSQL
type ApplicationAdapter struct {
	db   *sqlx.DB
	goqu *goqu.Database
}

// NewApplicationAdapter creates a new application adapter
func NewApplicationAdapter(client *postgres.Client) repositories.ApplicationRepository {
	return &ApplicationAdapter{
		db:   client.DB(),
		goqu: goqu.New("postgres", client.DB()),
	}
}

// CreatePatient inserts a patient sponsorship application
func (a *ApplicationAdapter) CreatePatient(ctx context.Context, app *entities.PatientApplication) error {
	if app == nil {
		return apperrors.NewInternalError("application is nil", fmt.Errorf("application is nil"))
	}

	record := goqu.Record{
		"id":                  app.ID,
		"status":              string(app.Status),
		"first_name":          app.FirstName,
		"last_name":           app.LastName,
		"email":               app.Email,
		"phone":               app.Phone,
		"date_of_birth":       nullString(app.DateOfBirth),
		"address":             nullString(app.Address),
		"city":                nullString(app.City),
		"state":               nullString(app.State),
		"zip_code":            nullString(app.ZipCode),
		"primary_condition":   app.PrimaryCondition,
		"symptoms":            app.Symptoms,
		"current_treatments":  nullString(app.CurrentTreatments),
		"previous_treatments": nullString(app.PreviousTreatments),
		"medications":         nullString(app.Medications),
		"preferred_providers": nullString(app.PreferredProviders),
		"household_income":    app.HouseholdIncome,
		"household_size":      app.HouseholdSize,
		"employment_status":   nullString(app.EmploymentStatus),
		"insurance_status":    nullString(app.InsuranceStatus),
		"treatment_goals":     app.TreatmentGoals,
		"additional_info":     nullString(app.AdditionalInfo),
		"agree_to_terms":      app.AgreeToTerms,
		"submitted_at":        app.SubmittedAt,
	}

	return a.insert(ctx, patientApplicationsTable, record)
}

// CreatePractitioner inserts a practitioner network application
func (a *ApplicationAdapter) CreatePractitioner(ctx context.Context, app *entities.PractitionerApplication) error {
	if app == nil {
		return apperrors.NewInternalError("application is nil", fmt.Errorf("application is nil"))
	}

	record := goqu.Record{
		"id":                    app.ID,
		"status":                string(app.Status),
		"practice_name":         app.PracticeName,
		"first_name":            app.FirstName,
		"last_name":             app.LastName,
		"email":                 app.Email,
		"phone":                 app.Phone,
		"website":               nullString(app.Website),
		"address":               nullString(app.Address),
		"city":                  nullString(app.City),
		"state":                 nullString(app.State),
		"zip_code":              nullString(app.ZipCode),
		"license_number":        app.LicenseNumber,
		"license_state":         app.LicenseState,
		"years_experience":      app.YearsExperience,
		"specialties":           pq.Array(app.Specialties),
		"credentials":           nullString(app.Credentials),
		"education":             nullString(app.Education),
		"services_offered":      app.ServicesOffered,
		"insurance_accepted":    pq.Array(app.InsuranceAccepted),
		"payment_options":       nullString(app.PaymentOptions),
		"average_session_cost":  app.AverageSessionCost,
		"references":            app.References,
		"malpractice_insurance": nullString(app.MalpracticeInsurance),
		"background_check":      app.BackgroundCheck,
		"agree_to_terms":        app.AgreeToTerms,
		"submitted_at":          app.SubmittedAt,
	}

	return a.insert(ctx, practitionerApplicationsTable, record)
}

// GetReceipt looks an application up in both tables
func (a *ApplicationAdapter) GetReceipt(ctx context.Context, id string) (*entities.ApplicationReceipt, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("application %s not found", id))
	}

	tables := []struct {
		name string
		kind entities.ApplicationKind
	}{
		{patientApplicationsTable, entities.ApplicationKindPatient},
		{practitionerApplicationsTable, entities.ApplicationKindPractitioner},
	}

	for _, table := range tables {
		query, args, err := a.goqu.From(table.name).
			Select("id", "status", "submitted_at").
			Where(goqu.Ex{"id": id}).
			Prepared(true).
			ToSQL()
		if err != nil {
			return nil, apperrors.NewInternalError("failed to build application query", err)
		}

		var row struct {
			ID          string    `db:"id"`
			Status      string    `db:"status"`
			SubmittedAt time.Time `db:"submitted_at"`
		}
		err = a.db.GetContext(ctx, &row, query, args...)
		if errors.Is(err, sql.ErrNoRows) {
			continue
		}
		if err != nil {
			return nil, apperrors.NewPersistenceError("failed to get application", err)
		}

		return &entities.ApplicationReceipt{
			ID:          row.ID,
			Kind:        table.kind,
			Status:      entities.ApplicationStatus(row.Status),
			SubmittedAt: row.SubmittedAt,
		}, nil
	}

	return nil, apperrors.NewNotFoundError(fmt.Sprintf("application %s not found", id))
}

func (a *ApplicationAdapter) insert(ctx context.Context, table string, record goqu.Record) error {
	query, args, err := a.goqu.Insert(table).Rows(record).Prepared(true).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build application insert query", err)
	}

	if _, err := a.db.ExecContext(ctx, query, args...); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return apperrors.NewConflictError("application already exists")
		}
		return apperrors.NewPersistenceError("failed to store application", err)
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
