package repositories

import (
	"context"

	"github.com/zatekoja/holistic-provider-directory/internal/domain/entities"
)

// ApplicationRepository stores sponsorship and network applications
type ApplicationRepository interface {
	CreatePatient(ctx context.Context, application *entities.PatientApplication) error
	CreatePractitioner(ctx context.Context, application *entities.PractitionerApplication) error

	// GetReceipt looks an application of either kind up by id
	GetReceipt(ctx context.Context, id string) (*entities.ApplicationReceipt, error)
}
