package httpx

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// Error codes written in APIError.Code.
const (
	CodeInvalidRequest      = "invalid_request"
	CodeInvalidAmount       = "invalid_amount"
	CodePolicyViolation     = "policy_violation"
	CodeInsufficientBalance = "insufficient_balance"
	CodeNotFound            = "not_found"
	CodeRateLimited         = "rate_limited"
	CodeInternal            = "internal_error"
)

// InternalMessage is the only message clients see for unexpected failures.
const InternalMessage = "an error occurred"

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("failed to write response", "err", err)
	}
}

func WriteError(w http.ResponseWriter, status int, code, msg string, details any) {
	WriteJSON(w, status, APIError{
		Code:    code,
		Message: msg,
		Details: details,
	})
}

func WriteInternal(w http.ResponseWriter) {
	WriteError(w, http.StatusInternalServerError, CodeInternal, InternalMessage, nil)
}
