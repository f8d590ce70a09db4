package store

import (
	"context"
	"errors"

	"github.com/storekeep/storekeep/internal/auth/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite for
// now) implement this. It exposes sub-repositories to keep concerns tidy
// and testable, and to stop callers from accidentally nesting transactions.
type Store interface {
	Users() Users
	OneTimeCodes() OneTimeCodes
	ResetTokens() ResetTokens

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes a function within a transaction. If fn returns an
	// error the transaction is rolled back, otherwise committed. This is
	// the recommended way to run multi-step operations that must be
	// atomic (e.g. superseding a code then inserting its replacement).
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail is used during login and registration conflict checks.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// CreateUser inserts a new user (id is provided by the app via ULID).
	// Returns ErrAlreadyExists when the email is taken.
	CreateUser(ctx context.Context, u domain.User) error

	// UpdatePasswordHash sets the password_hash (argon2) and bumps updated_at.
	UpdatePasswordHashByEmail(ctx context.Context, email string, newHash string) error
}

type OneTimeCodes interface {
	// CreateCode inserts a freshly issued code.
	CreateCode(ctx context.Context, c domain.OneTimeCode) error

	// GetActiveCode returns the unused, unexpired code matching
	// (email, code, purpose), or ErrNotFound.
	GetActiveCode(ctx context.Context, email, code string, purpose domain.CodePurpose) (domain.OneTimeCode, error)

	// HasActiveCode reports whether an unused, unexpired code exists for
	// (email, purpose). Backs the resend cooldown guard.
	HasActiveCode(ctx context.Context, email string, purpose domain.CodePurpose) (bool, error)

	// MarkCodeUsed flips used=1 for a code id.
	MarkCodeUsed(ctx context.Context, id string) error

	// DeleteCodes removes all codes for (email, purpose). Run before
	// CreateCode, inside a transaction, to enforce the single-active-code
	// invariant.
	DeleteCodes(ctx context.Context, email string, purpose domain.CodePurpose) error

	// DeleteExpiredCodes is housekeeping.
	DeleteExpiredCodes(ctx context.Context) error
}

type ResetTokens interface {
	// CreateResetToken stores a new token record (hash, not the raw token).
	CreateResetToken(ctx context.Context, t domain.ResetToken) error

	// GetActiveResetTokenByHash returns an unused, unexpired token by its
	// fingerprint, or ErrNotFound.
	GetActiveResetTokenByHash(ctx context.Context, hash string) (domain.ResetToken, error)

	// MarkResetTokenUsed flips used=1 for a token id.
	MarkResetTokenUsed(ctx context.Context, id string) error

	// DeleteResetTokens removes all tokens for an email. Run before
	// CreateResetToken, inside a transaction, to enforce the
	// single-active-token invariant.
	DeleteResetTokens(ctx context.Context, email string) error

	// DeleteExpiredResetTokens is housekeeping.
	DeleteExpiredResetTokens(ctx context.Context) error
}
