package service

import (
	"context"
	"time"

	"github.com/storekeep/storekeep/internal/auth/domain"
	"github.com/storekeep/storekeep/internal/auth/notify"
	"github.com/storekeep/storekeep/internal/auth/store"
	"github.com/storekeep/storekeep/pkg/cryptox"
	"github.com/storekeep/storekeep/pkg/idx"
	"github.com/storekeep/storekeep/pkg/slogx"
)

const (
	// DefaultCodeTTL is how long an emailed one-time code stays valid.
	DefaultCodeTTL = 10 * time.Minute

	// DefaultResetTokenTTL is how long a minted reset token stays valid.
	DefaultResetTokenTTL = 30 * time.Minute
)

// issueCode mints a fresh one-time code for (email, purpose), supersedes
// any previously active code in the same transaction, and hands the code
// to the notifier. A delivery failure is logged with the code id and
// returned so the caller can surface it; the stored code stays valid and
// a resend will supersede it.
func issueCode(
	ctx context.Context,
	st store.Store,
	notifier notify.Notifier,
	email string,
	purpose domain.CodePurpose,
	ttl time.Duration,
) error {
	code, err := cryptox.GenerateOTPCode()
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	rec := domain.OneTimeCode{
		ID:        idx.New().String(),
		Email:     email,
		Code:      code,
		Purpose:   purpose,
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}

	// Delete-then-insert must be atomic so two concurrent issuances can
	// never leave duplicate active codes behind.
	err = st.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.OneTimeCodes().DeleteCodes(ctx, email, purpose); err != nil {
			return err
		}
		return tx.OneTimeCodes().CreateCode(ctx, rec)
	})
	if err != nil {
		return err
	}

	if err := notifier.SendCode(ctx, email, code, purpose); err != nil {
		slogx.FromContext(ctx).Error("one-time code delivery failed",
			"code_id", rec.ID,
			"email", email,
			"purpose", string(purpose),
			"error", err,
		)
		return err
	}

	return nil
}
