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

// PasswordResetService runs the three-step reset flow: emailed code,
// code-for-token exchange, then a single-use token spend.
type PasswordResetService struct {
	Store         store.Store
	Notifier      notify.Notifier
	CodeTTL       time.Duration
	ResetTokenTTL time.Duration
}

func (s *PasswordResetService) codeTTL() time.Duration {
	if s.CodeTTL > 0 {
		return s.CodeTTL
	}
	return DefaultCodeTTL
}

// TokenTTL returns the configured reset-token lifetime, falling back to
// the default when unset.
func (s *PasswordResetService) TokenTTL() time.Duration {
	if s.ResetTokenTTL > 0 {
		return s.ResetTokenTTL
	}
	return DefaultResetTokenTTL
}

// Initiate issues a reset code to the email. An unknown email returns
// nil without sending anything so the response never reveals whether an
// account exists.
func (s *PasswordResetService) Initiate(ctx context.Context, email string) error {
	_, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		return err
	}

	return issueCode(ctx, s.Store, s.Notifier, email, domain.PurposeResetPassword, s.codeTTL())
}

// VerifyOTP exchanges a valid reset code for an opaque reset token. The
// raw token is returned exactly once; only its fingerprint is stored.
func (s *PasswordResetService) VerifyOTP(ctx context.Context, email, code string) (string, error) {
	active, err := s.Store.OneTimeCodes().GetActiveCode(ctx, email, code, domain.PurposeResetPassword)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", ErrInvalidOrExpired
		}
		return "", err
	}

	raw, err := cryptox.GenerateHexToken(cryptox.ResetTokenSize)
	if err != nil {
		return "", err
	}

	now := time.Now().UTC()
	rec := domain.ResetToken{
		ID:        idx.New().String(),
		Email:     email,
		TokenHash: cryptox.FingerprintToken(raw),
		ExpiresAt: now.Add(s.TokenTTL()),
		CreatedAt: now,
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.OneTimeCodes().MarkCodeUsed(ctx, active.ID); err != nil {
			return err
		}
		if err := tx.ResetTokens().DeleteResetTokens(ctx, email); err != nil {
			return err
		}
		return tx.ResetTokens().CreateResetToken(ctx, rec)
	})
	if err != nil {
		return "", err
	}

	return raw, nil
}

// ResetPassword spends a reset token and sets the new password for the
// token's email. The token is the sole authority; no email is supplied
// alongside it.
func (s *PasswordResetService) ResetPassword(ctx context.Context, token, newPassword string) error {
	rec, err := s.Store.ResetTokens().GetActiveResetTokenByHash(ctx, cryptox.FingerprintToken(token))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrInvalidOrExpired
		}
		return err
	}

	hash, err := cryptox.HashPassword(newPassword)
	if err != nil {
		return err
	}

	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.ResetTokens().MarkResetTokenUsed(ctx, rec.ID); err != nil {
			return err
		}
		return tx.Users().UpdatePasswordHashByEmail(ctx, rec.Email, hash)
	})
}
