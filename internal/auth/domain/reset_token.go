package domain

import "time"

// ResetToken authorizes exactly one password change. Only the SHA-256
// fingerprint of the opaque token is stored; the raw value is handed to
// the caller once at mint time. At most one active token exists per email.
type ResetToken struct {
	ID        string
	Email     string
	TokenHash string // base64url SHA-256 of the raw hex token
	ExpiresAt time.Time
	Used      bool
	CreatedAt time.Time
}
