package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/zatekoja/holistic-provider-directory/internal/domain/entities"
	"github.com/zatekoja/holistic-provider-directory/internal/domain/repositories"
	apperrors "github.com/zatekoja/holistic-provider-directory/pkg/errors"
)

// ApplicationStore keeps applications in memory
type ApplicationStore struct {
	mu       sync.RWMutex
	receipts map[string]entities.ApplicationReceipt
	patients map[string]entities.PatientApplication
	network  map[string]entities.PractitionerApplication
}

// NewApplicationStore creates an empty application store
func NewApplicationStore() repositories.ApplicationRepository {
	return &ApplicationStore{
		receipts: make(map[string]entities.ApplicationReceipt),
		patients: make(map[string]entities.PatientApplication),
		network:  make(map[string]entities.PractitionerApplication),
	}
}

// CreatePatient stores a patient application
func (s *ApplicationStore) CreatePatient(_ context.Context, app *entities.PatientApplication) error {
	if app == nil {
		return apperrors.NewInternalError("application is nil", fmt.Errorf("application is nil"))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.receipts[app.ID]; exists {
		return apperrors.NewConflictError("application already exists")
	}
	s.patients[app.ID] = *app
	s.receipts[app.ID] = app.Receipt()
	return nil
}

// CreatePractitioner stores a practitioner application
func (s *ApplicationStore) CreatePractitioner(_ context.Context, app *entities.PractitionerApplication) error {
	if app == nil {
		return apperrors.NewInternalError("application is nil", fmt.Errorf("application is nil"))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.receipts[app.ID]; exists {
		return apperrors.NewConflictError("application already exists")
	}
	stored := *app
	stored.Specialties = append([]string(nil), app.Specialties...)
	stored.InsuranceAccepted = append([]string(nil), app.InsuranceAccepted...)
	s.network[app.ID] = stored
	s.receipts[app.ID] = app.Receipt()
	return nil
}

// GetReceipt returns the receipt of a stored application
func (s *ApplicationStore) GetReceipt(_ context.Context, id string) (*entities.ApplicationReceipt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	receipt, ok := s.receipts[id]
	if !ok {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("application %s not found", id))
	}
	return &receipt, nil
}
