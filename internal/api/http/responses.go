package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"keyportal-backend/internal/domain"
	"keyportal-backend/internal/logger"
)

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}

// writeError maps the domain error taxonomy onto HTTP statuses:
// validation errors are 400, precondition failures 409, missing
// records 404 and partial-sequence failures 502 with the failed step
// preserved in the message.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case domain.IsValidation(err):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error(), Kind: "validation"})
	case domain.IsPrecondition(err):
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error(), Kind: "precondition"})
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found", Kind: "not_found"})
	default:
		var seqErr *domain.SequenceError
		if errors.As(err, &seqErr) {
			writeJSON(w, http.StatusBadGateway, errorResponse{Error: seqErr.Error(), Kind: "sequence"})
			return
		}
		logger.Error("Unhandled error", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error", Kind: "internal"})
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body", Kind: "validation"})
		return false
	}
	return true
}
