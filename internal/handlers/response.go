package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"gl-reconciliation-service/internal/locking"
	"gl-reconciliation-service/internal/logger"
	"gl-reconciliation-service/internal/models"
)

type ErrorResponse struct {
	Error     string              `json:"error"`
	Details   []models.FieldError `json:"details,omitempty"`
	RequestID string              `json:"requestId,omitempty"`
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, ErrorResponse{Error: message, RequestID: w.Header().Get(requestIDHeader)})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": "Error marshaling JSON response"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// respondWithServiceError maps service errors onto status codes. Anything
// unrecognized is logged and reported as a bare 500.
func respondWithServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var verrs models.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		respondWithJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:     "request validation failed",
			Details:   verrs,
			RequestID: w.Header().Get(requestIDHeader),
		})
	case errors.Is(err, models.ErrNotFound):
		respondWithError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, locking.ErrBusy):
		respondWithError(w, http.StatusConflict, err.Error())
	default:
		logger.FromContext(r.Context()).Error("request failed", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "internal server error")
	}
}
