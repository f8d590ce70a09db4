package service

import (
	"context"
	"errors"
	"time"

	"github.com/storekeep/storekeep/internal/auth/domain"
	"github.com/storekeep/storekeep/internal/auth/notify"
	"github.com/storekeep/storekeep/internal/auth/store"
	"github.com/storekeep/storekeep/pkg/cryptox"
	"github.com/storekeep/storekeep/pkg/idx"
)

// AuthService orchestrates registration, login, and code resends. The
// registration flow stages nothing server-side between the two steps:
// the initiate step only proves the email is reachable, and the profile
// fields travel again with the completion request.
type AuthService struct {
	Store    store.Store
	Notifier notify.Notifier
	Tokens   *TokenService
	CodeTTL  time.Duration
}

func (s *AuthService) codeTTL() time.Duration {
	if s.CodeTTL > 0 {
		return s.CodeTTL
	}
	return DefaultCodeTTL
}

// InitiateRegistration issues a register code to the email after checking
// no account already claims it.
func (s *AuthService) InitiateRegistration(ctx context.Context, email string) error {
	_, err := s.Store.Users().GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		return ErrEmailTaken
	case !errors.Is(err, store.ErrNotFound):
		return err
	}

	return issueCode(ctx, s.Store, s.Notifier, email, domain.PurposeRegister, s.codeTTL())
}

// CompleteRegistration consumes the register code, creates the verified
// user, and issues a bearer token for the fresh session.
func (s *AuthService) CompleteRegistration(
	ctx context.Context,
	email, code, firstName, lastName, password string,
) (domain.User, string, error) {
	active, err := s.Store.OneTimeCodes().GetActiveCode(ctx, email, code, domain.PurposeRegister)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, "", ErrInvalidOrExpired
		}
		return domain.User{}, "", err
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return domain.User{}, "", err
	}

	now := time.Now().UTC()
	u := domain.User{
		ID:           idx.New().String(),
		Email:        email,
		FirstName:    firstName,
		LastName:     lastName,
		PasswordHash: hash,
		Verified:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.OneTimeCodes().MarkCodeUsed(ctx, active.ID); err != nil {
			return err
		}
		return tx.Users().CreateUser(ctx, u)
	})
	if err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, "", ErrEmailTaken
		}
		return domain.User{}, "", err
	}

	token, err := s.Tokens.Issue(u)
	if err != nil {
		return domain.User{}, "", err
	}

	return u, token, nil
}

// Login verifies the password and issues a bearer token. An unverified
// account with the right password fails with ErrEmailNotVerified, never
// ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (domain.User, string, error) {
	u, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, "", ErrInvalidCredentials
		}
		return domain.User{}, "", err
	}

	if err := cryptox.VerifyPassword(password, u.PasswordHash); err != nil {
		return domain.User{}, "", ErrInvalidCredentials
	}

	if !u.Verified {
		return domain.User{}, "", ErrEmailNotVerified
	}

	token, err := s.Tokens.Issue(u)
	if err != nil {
		return domain.User{}, "", err
	}

	return u, token, nil
}

// ResendCode reissues a code for an in-flight flow. A still-active prior
// code blocks the resend; this is the cooldown guard against flooding a
// mailbox.
func (s *AuthService) ResendCode(ctx context.Context, email string, purpose domain.CodePurpose) error {
	if !purpose.Valid() {
		return ErrInvalidOrExpired
	}

	active, err := s.Store.OneTimeCodes().HasActiveCode(ctx, email, purpose)
	if err != nil {
		return err
	}
	if active {
		return ErrCodeStillActive
	}

	return issueCode(ctx, s.Store, s.Notifier, email, purpose, s.codeTTL())
}
