package jwtx

import (
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL is the default lifetime for bearer tokens. Sessions are
// re-established with a fresh login after a week.
const DefaultTokenTTL = 7 * 24 * time.Hour

// Claims are the bearer-token claims shared across the service. Keep
// changes additive to preserve compatibility with tokens already issued.
type Claims struct {
	jwt.RegisteredClaims

	// Email the token was issued for.
	Email string `json:"email,omitempty"`

	// FirstName and LastName mirror the profile at issue time. Display
	// convenience only; the store remains the source of truth.
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`

	// Verified mirrors the user's email-verification flag at issue time.
	Verified bool `json:"verified,omitempty"`
}

// NewClaims builds minimally-correct claims with subject = user id.
func NewClaims(
	subject, email, firstName, lastName string,
	verified bool,
	ttl time.Duration,
	issuer string,
	now time.Time,
) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        NewJTI(),
		},
		Email:     email,
		FirstName: firstName,
		LastName:  lastName,
		Verified:  verified,
	}
}

// NewJTI returns a URL-safe random identifier for the "jti" claim.
func NewJTI() string {
	var b [20]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}

// ValidateIssuer checks if the issuer matches expected value.
func (c *Claims) ValidateIssuer(expected string) error {
	if expected == "" {
		return nil // nothing to enforce
	}

	if c.Issuer != expected {
		return ErrIssuer
	}

	return nil
}

// ValidateExpiry ensures the token hasn't expired (exp) and isn't before nbf.
func (c *Claims) ValidateExpiry() error {
	now := time.Now().UTC()

	if c.ExpiresAt != nil && now.After(c.ExpiresAt.Time) {
		return ErrExpired
	}

	if c.NotBefore != nil && now.Before(c.NotBefore.Time) {
		return ErrNotYetValid
	}

	return nil
}
