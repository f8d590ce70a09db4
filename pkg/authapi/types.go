// Package authapi carries the request and response payloads of the
// StoreKeep auth HTTP API, shared between the server handlers and any Go
// clients.
package authapi

// RegisterInitiateRequest starts registration by requesting an email OTP.
type RegisterInitiateRequest struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Password  string `json:"password"`
}

// RegisterCompleteRequest finishes registration. The profile fields are
// supplied again because the initiate step stages nothing server-side.
type RegisterCompleteRequest struct {
	Email     string `json:"email"`
	Code      string `json:"code"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Password  string `json:"password"`
}

// LoginRequest is a password login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ResendOTPRequest reissues a code for an in-flight flow.
type ResendOTPRequest struct {
	Email   string `json:"email"`
	Purpose string `json:"purpose"` // "register" or "reset-password"
}

// PasswordResetInitiateRequest requests a reset OTP.
type PasswordResetInitiateRequest struct {
	Email string `json:"email"`
}

// PasswordResetVerifyRequest exchanges a reset OTP for a reset token.
type PasswordResetVerifyRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

// PasswordResetCompleteRequest consumes a reset token to set a new password.
type PasswordResetCompleteRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

// UserPayload is the identity projection returned by the API. It never
// carries the password hash.
type UserPayload struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Verified  bool   `json:"verified"`
}

// AuthResponse is returned by login and completed registration.
type AuthResponse struct {
	User      UserPayload `json:"user"`
	Token     string      `json:"token"`
	TokenType string      `json:"token_type"` // always "Bearer"
	ExpiresIn int         `json:"expires_in"` // seconds
}

// ResetTokenResponse is returned by the verify-otp step.
type ResetTokenResponse struct {
	ResetToken string `json:"reset_token"`
	ExpiresIn  int    `json:"expires_in"` // seconds
}

// MessageResponse is a generic acknowledgement.
type MessageResponse struct {
	Message string `json:"message"`
}

// HealthResponse is returned by the livez/readyz probes.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

type HealthChecks struct {
	Database string `json:"database"`
	Signer   string `json:"signer"`
}
