package gateway

import (
	"encoding/json"
	"errors"
	"net/http"

	"tapsika/domain/entities"

	log "github.com/sirupsen/logrus"
)

type errorResponse struct {
	Error string `json:"error"`
}

// statusForError maps domain failure kinds to HTTP status codes.
func statusForError(err error) int {
	switch {
	case errors.Is(err, entities.ErrAccountNotFound),
		errors.Is(err, entities.ErrVoucherNotFound):
		return http.StatusNotFound
	case errors.Is(err, entities.ErrInvalidReferralCode),
		errors.Is(err, entities.ErrSelfReferral):
		return http.StatusBadRequest
	case errors.Is(err, entities.ErrAlreadyReferred),
		errors.Is(err, entities.ErrAlreadyEntered):
		return http.StatusConflict
	case errors.Is(err, entities.ErrQuotaExceeded):
		return http.StatusTooManyRequests
	case errors.Is(err, entities.ErrInsufficientBalance),
		errors.Is(err, entities.ErrBelowMinimumRedeem),
		errors.Is(err, entities.ErrNotEligible):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.WithError(err).Error("Failed to encode response")
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := statusForError(err)
	if status == http.StatusInternalServerError {
		log.WithError(err).Error("Request failed")
		writeJSON(w, status, errorResponse{Error: "internal error"})
		return
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func writeBadRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: message})
}
