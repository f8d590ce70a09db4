package service

import (
	"context"
	"errors"
	"time"

	"github.com/storekeep/storekeep/internal/auth/domain"
	"github.com/storekeep/storekeep/internal/auth/store"
	"github.com/storekeep/storekeep/pkg/jwtx"
)

// TokenService issues and verifies the service's bearer tokens.
type TokenService struct {
	Signer   jwtx.Signer
	Verifier jwtx.Verifier
	Store    store.Store
	Issuer   string
	TokenTTL time.Duration
}

// TTL returns the configured token lifetime, falling back to the shared
// default when unset.
func (s *TokenService) TTL() time.Duration {
	if s.TokenTTL > 0 {
		return s.TokenTTL
	}
	return jwtx.DefaultTokenTTL
}

// Issue signs a bearer token for the given user.
func (s *TokenService) Issue(u domain.User) (string, error) {
	claims := jwtx.NewClaims(
		u.ID, u.Email, u.FirstName, u.LastName, u.Verified,
		s.TTL(), s.Issuer, time.Now(),
	)
	return s.Signer.Sign(claims)
}

// ResolveIdentity loads the identity projection for an already
// authenticated user id, as resolved by the bearer middleware.
func (s *TokenService) ResolveIdentity(ctx context.Context, userID string) (domain.Identity, error) {
	u, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Identity{}, ErrInvalidToken
		}
		return domain.Identity{}, err
	}
	return u.Identity(), nil
}

// VerifyToken checks the token's signature, issuer, and expiry, then
// resolves the subject to a live user. Any failure collapses to
// ErrInvalidToken so callers never learn which check tripped.
func (s *TokenService) VerifyToken(ctx context.Context, token string) (domain.Identity, error) {
	claims, err := s.Verifier.Verify(token)
	if err != nil {
		return domain.Identity{}, ErrInvalidToken
	}

	u, err := s.Store.Users().GetUserByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Identity{}, ErrInvalidToken
		}
		return domain.Identity{}, err
	}

	return u.Identity(), nil
}
