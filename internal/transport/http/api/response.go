package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"crewledger/internal/domain/ledger"
)

type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type Envelope struct {
	Success   bool   `json:"success"`
	Data      any    `json:"data,omitempty"`
	Error     *Error `json:"error,omitempty"`
	RequestID string `json:"requestId,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, payload Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		zap.L().Warn("write json failed", zap.Error(err))
	}
}

func Success(w http.ResponseWriter, data any, requestID string) {
	WriteJSON(w, http.StatusOK, Envelope{Success: true, Data: data, RequestID: requestID})
}

func Created(w http.ResponseWriter, data any, requestID string) {
	WriteJSON(w, http.StatusCreated, Envelope{Success: true, Data: data, RequestID: requestID})
}

func Fail(w http.ResponseWriter, status int, code, message, requestID string) {
	WriteJSON(w, status, Envelope{Success: false, Error: &Error{Code: code, Message: message}, RequestID: requestID})
}

// FailErr translates a ledger error into the matching HTTP status. Unknown
// errors come back as a plain 500 with no detail leaked.
func FailErr(w http.ResponseWriter, err error, requestID string) {
	switch {
	case errors.Is(err, ledger.ErrRoleNotEligible):
		Fail(w, http.StatusForbidden, "role_not_eligible", err.Error(), requestID)
	case ledger.IsNotFound(err):
		Fail(w, http.StatusNotFound, "not_found", err.Error(), requestID)
	case ledger.IsConflict(err):
		Fail(w, http.StatusConflict, "conflict", err.Error(), requestID)
	case errors.Is(err, ledger.ErrInvalidInput):
		Fail(w, http.StatusBadRequest, "invalid_input", err.Error(), requestID)
	default:
		Fail(w, http.StatusInternalServerError, "internal_error", "internal error", requestID)
	}
}
