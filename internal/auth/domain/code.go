package domain

import "time"

// CodePurpose scopes a one-time code to a single flow so codes can never be
// replayed across flows.
type CodePurpose string

const (
	PurposeRegister      CodePurpose = "register"
	PurposeResetPassword CodePurpose = "reset-password"
)

// Valid reports whether p is a known purpose.
func (p CodePurpose) Valid() bool {
	return p == PurposeRegister || p == PurposeResetPassword
}

// OneTimeCode is an emailed six-digit verification code. At most one
// active (unused, unexpired) code exists per (email, purpose); issuing a
// new one supersedes the old.
type OneTimeCode struct {
	ID        string
	Email     string
	Code      string // six digits
	Purpose   CodePurpose
	ExpiresAt time.Time
	Used      bool
	CreatedAt time.Time
}
