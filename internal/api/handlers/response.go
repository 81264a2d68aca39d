package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/zatekoja/holistic-provider-directory/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/holistic-provider-directory/pkg/errors"
)

const maxBodyBytes = 1 << 20

func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, map[string]string{
		"error": message,
	})
}

// respondWithAppError maps an error chain to a status code. Inner types win
// over PERSISTENCE so an update of a missing provider is still a 404.
func respondWithAppError(w http.ResponseWriter, r *http.Request, err error) {
	logger := observability.LoggerFromContext(r.Context())

	switch {
	case apperrors.HasType(err, apperrors.ErrorTypeNotFound):
		respondWithError(w, http.StatusNotFound, innermostMessage(err, apperrors.ErrorTypeNotFound))
	case apperrors.HasType(err, apperrors.ErrorTypeValidation):
		respondWithError(w, http.StatusBadRequest, innermostMessage(err, apperrors.ErrorTypeValidation))
	case apperrors.HasType(err, apperrors.ErrorTypeConflict):
		respondWithError(w, http.StatusConflict, apperrors.MessageOf(err))
	case apperrors.HasType(err, apperrors.ErrorTypePersistence), apperrors.HasType(err, apperrors.ErrorTypeExternal):
		logger.Error().Err(err).Str("path", r.URL.Path).Msg("Upstream failure")
		respondWithError(w, http.StatusBadGateway, apperrors.MessageOf(err))
	default:
		logger.Error().Err(err).Str("path", r.URL.Path).Msg("Internal error")
		respondWithError(w, http.StatusInternalServerError, "internal server error")
	}
}

// innermostMessage returns the message of the first AppError of errType in the chain
func innermostMessage(err error, errType apperrors.ErrorType) string {
	for err != nil {
		var appErr *apperrors.AppError
		if !errors.As(err, &appErr) {
			break
		}
		if appErr.Type == errType {
			return appErr.Message
		}
		err = appErr.Err
	}
	return apperrors.MessageOf(err)
}

// decodeJSON decodes a bounded request body, rejecting unknown trailing data
func decodeJSON(w http.ResponseWriter, r *http.Request, out interface{}) error {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := decoder.Decode(out); err != nil {
		return apperrors.NewValidationError("invalid request body: " + err.Error())
	}
	if _, err := decoder.Token(); !errors.Is(err, io.EOF) {
		return apperrors.NewValidationError("invalid request body: unexpected trailing data")
	}
	return nil
}
