package authapi

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Error codes surfaced by the auth API.
const (
	ErrorCodeInvalidRequest     = "invalid_request"
	ErrorCodeEmailTaken         = "email_taken"
	ErrorCodeInvalidCredentials = "invalid_credentials"
	ErrorCodeEmailNotVerified   = "email_not_verified"
	ErrorCodeInvalidOrExpired   = "invalid_or_expired"
	ErrorCodeCodeStillActive    = "code_still_active"
	ErrorCodeInvalidToken       = "invalid_token"
	ErrorCodeServerError        = "server_error"
)

// APIError is the error envelope every failing endpoint returns. It
// implements the error interface so the same values can describe failures
// on the client side.
type APIError struct {
	// StatusCode is the HTTP status code for this error
	StatusCode int `json:"-"`

	// Code is the machine-readable error code (e.g. "email_taken")
	Code string `json:"error"`

	// Description is a human-readable description of the error
	Description string `json:"error_description"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

// WriteError writes this APIError to an HTTP response writer.
func (e *APIError) WriteError(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.StatusCode)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":             e.Code,
		"error_description": e.Description,
	})
}

var (
	// ErrInvalidRequest is returned when the request body is malformed or
	// missing required fields.
	ErrInvalidRequest = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeInvalidRequest,
		Description: "the request is malformed or missing required parameters",
	}

	// ErrEmailTaken is returned when registration is attempted for an
	// email that already has an account.
	ErrEmailTaken = &APIError{
		StatusCode:  http.StatusConflict,
		Code:        ErrorCodeEmailTaken,
		Description: "an account with this email already exists",
	}

	// ErrInvalidCredentials is returned on login with an unknown email or
	// wrong password. Deliberately does not distinguish the two.
	ErrInvalidCredentials = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeInvalidCredentials,
		Description: "email or password is incorrect",
	}

	// ErrEmailNotVerified is returned on login when the password is right
	// but the account never completed OTP verification.
	ErrEmailNotVerified = &APIError{
		StatusCode:  http.StatusForbidden,
		Code:        ErrorCodeEmailNotVerified,
		Description: "email address has not been verified",
	}

	// ErrInvalidOrExpired covers wrong, used, and expired one-time codes
	// and reset tokens alike.
	ErrInvalidOrExpired = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeInvalidOrExpired,
		Description: "code or token is invalid, already used, or expired",
	}

	// ErrCodeStillActive is the resend cooldown guard.
	ErrCodeStillActive = &APIError{
		StatusCode:  http.StatusConflict,
		Code:        ErrorCodeCodeStillActive,
		Description: "a code was already sent and is still valid",
	}

	// ErrInvalidToken is returned when a bearer token fails verification
	// or its user no longer exists.
	ErrInvalidToken = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeInvalidToken,
		Description: "bearer token is missing, invalid, or expired",
	}

	// ErrServerError is the catch-all for unexpected failures.
	ErrServerError = &APIError{
		StatusCode:  http.StatusInternalServerError,
		Code:        ErrorCodeServerError,
		Description: "an internal error occurred",
	}
)
