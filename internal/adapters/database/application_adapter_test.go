package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zatekoja/holistic-provider-directory/internal/domain/entities"
	apperrors "github.com/zatekoja/holistic-provider-directory/pkg/errors"
)

func TestApplicationAdapter_CreatePatient(t *testing.T) {
	client, mock := setupMockDB(t)
	adapter := NewApplicationAdapter(client)

	mock.ExpectExec(`INSERT INTO "patient_applications"`).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := adapter.CreatePatient(context.Background(), &entities.PatientApplication{
		ID:               uuid.NewString(),
		Status:           entities.ApplicationStatusSubmitted,
		FirstName:        "Jane",
		LastName:         "Doe",
		Email:            "jane@example.com",
		Phone:            "555-0100",
		PrimaryCondition: "Fibromyalgia",
		Symptoms:         "chronic pain and fatigue",
		HouseholdIncome:  "25000-50000",
		HouseholdSize:    "3",
		TreatmentGoals:   "Return to work",
		AgreeToTerms:     true,
		SubmittedAt:      time.Now().UTC(),
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplicationAdapter_CreatePractitioner_Conflict(t *testing.T) {
	client, mock := setupMockDB(t)
	adapter := NewApplicationAdapter(client)

	mock.ExpectExec(`INSERT INTO "practitioner_applications"`).
		WillReturnError(&pq.Error{Code: "23505"})

	err := adapter.CreatePractitioner(context.Background(), &entities.PractitionerApplication{
		ID:          uuid.NewString(),
		Specialties: []string{"Acupuncture"},
	})

	require.Error(t, err)
	assert.True(t, apperrors.HasType(err, apperrors.ErrorTypeConflict))
}

func TestApplicationAdapter_CreatePatient_StoreFailure(t *testing.T) {
	client, mock := setupMockDB(t)
	adapter := NewApplicationAdapter(client)

	mock.ExpectExec(`INSERT INTO "patient_applications"`).
		WillReturnError(errors.New("disk full"))

	err := adapter.CreatePatient(context.Background(), &entities.PatientApplication{ID: uuid.NewString()})

	assert.True(t, apperrors.HasType(err, apperrors.ErrorTypePersistence))
}

func TestApplicationAdapter_GetReceipt(t *testing.T) {
	client, mock := setupMockDB(t)
	adapter := NewApplicationAdapter(client)
	id := uuid.NewString()
	submitted := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT "id", "status", "submitted_at" FROM "patient_applications"`).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"id", "status", "submitted_at"}))
	mock.ExpectQuery(`SELECT "id", "status", "submitted_at" FROM "practitioner_applications"`).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"id", "status", "submitted_at"}).AddRow(id, "submitted", submitted))

	receipt, err := adapter.GetReceipt(context.Background(), id)

	require.NoError(t, err)
	assert.Equal(t, entities.ApplicationKindPractitioner, receipt.Kind)
	assert.Equal(t, entities.ApplicationStatusSubmitted, receipt.Status)
	assert.Equal(t, submitted, receipt.SubmittedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplicationAdapter_GetReceipt_NotFound(t *testing.T) {
	client, mock := setupMockDB(t)
	adapter := NewApplicationAdapter(client)

	_, err := adapter.GetReceipt(context.Background(), "not-a-uuid")
	assert.True(t, apperrors.HasType(err, apperrors.ErrorTypeNotFound))

	id := uuid.NewString()
	mock.ExpectQuery(`FROM "patient_applications"`).WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"id", "status", "submitted_at"}))
	mock.ExpectQuery(`FROM "practitioner_applications"`).WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"id", "status", "submitted_at"}))

	_, err = adapter.GetReceipt(context.Background(), id)
	assert.True(t, apperrors.HasType(err, apperrors.ErrorTypeNotFound))
}
