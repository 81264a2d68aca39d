package handlers

import (
	"context"
	"net/http"

	"github.com/zatekoja/holistic-provider-directory/internal/domain/entities"
)

// ApplicationService is what the application endpoints need
type ApplicationService interface {
	SubmitPatientApplication(ctx context.Context, app *entities.PatientApplication) (*entities.ApplicationReceipt, error)
	SubmitPractitionerApplication(ctx context.Context, app *entities.PractitionerApplication) (*entities.ApplicationReceipt, error)
	GetApplication(ctx context.Context, id string) (*entities.ApplicationReceipt, error)
}

// ApplicationHandler handles sponsorship and network applications
type ApplicationHandler struct {
	service ApplicationService
}

// NewApplicationHandler creates a new application handler
func NewApplicationHandler(service ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{service: service}
}

// SubmitPatientApplication handles POST /api/applications/patient
func (h *ApplicationHandler) SubmitPatientApplication(w http.ResponseWriter, r *http.Request) {
	var app entities.PatientApplication
	if err := decodeJSON(w, r, &app); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	receipt, err := h.service.SubmitPatientApplication(r.Context(), &app)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, receipt)
}

// SubmitPractitionerApplication handles POST /api/applications/practitioner
func (h *ApplicationHandler) SubmitPractitionerApplication(w http.ResponseWriter, r *http.Request) {
	var app entities.PractitionerApplication
	if err := decodeJSON(w, r, &app); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	receipt, err := h.service.SubmitPractitionerApplication(r.Context(), &app)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, receipt)
}

// GetApplication handles GET /api/applications/{id}
func (h *ApplicationHandler) GetApplication(w http.ResponseWriter, r *http.Request) {
	receipt, err := h.service.GetApplication(r.Context(), r.PathValue("id"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, receipt)
}
