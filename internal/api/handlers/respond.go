package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/zatekoja/grocerylist/backend/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/grocerylist/backend/pkg/errors"
)

// maxRequestBytes bounds request bodies; pasted pages may be large.
const maxRequestBytes = 6 << 20

func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		observability.GetLogger().Warn().Err(err).Msg("failed to write response")
	}
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, map[string]string{
		"error": message,
	})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return false
	}
	return true
}

// statusForErrorType maps a failed run's error type to an HTTP status.
func statusForErrorType(errorType string) int {
	switch apperrors.ErrorType(errorType) {
	case apperrors.ErrorTypeInvalidURL, apperrors.ErrorTypeValidation:
		return http.StatusBadRequest
	case apperrors.ErrorTypeFetchFailed, apperrors.ErrorTypeExternal:
		return http.StatusBadGateway
	case apperrors.ErrorTypeNoContentFound,
		apperrors.ErrorTypeParseFailed,
		apperrors.ErrorTypeLowConfidence,
		apperrors.ErrorTypeLowVerification:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
