package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/storekeep/storekeep/internal/auth/domain"
	"github.com/storekeep/storekeep/internal/auth/store"
	"github.com/storekeep/storekeep/internal/auth/store/drivers/sqlite"
	"github.com/storekeep/storekeep/pkg/cryptox"
	"github.com/storekeep/storekeep/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	pepperPath := filepath.Join(os.TempDir(), "storekeep-service-test-pepper")
	cryptox.SetPepperPath(pepperPath)

	os.Remove(pepperPath)
	defer os.Remove(pepperPath)

	os.Exit(m.Run())
}

type sentCode struct {
	Email   string
	Code    string
	Purpose domain.CodePurpose
}

// recorderNotifier captures codes instead of emailing them. Setting fail
// makes every send report that error.
type recorderNotifier struct {
	mu   sync.Mutex
	sent []sentCode
	fail error
}

func (r *recorderNotifier) SendCode(ctx context.Context, email, code string, purpose domain.CodePurpose) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return r.fail
	}
	r.sent = append(r.sent, sentCode{Email: email, Code: code, Purpose: purpose})
	return nil
}

func (r *recorderNotifier) last(t *testing.T) sentCode {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	require.NotEmpty(t, r.sent)
	return r.sent[len(r.sent)-1]
}

func (r *recorderNotifier) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sent)
}

type testEnv struct {
	Store    store.Store
	Notifier *recorderNotifier
	Auth     *AuthService
	Reset    *PasswordResetService
	Tokens   *TokenService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	st, err := sqlite.NewStore(filepath.Join(t.TempDir(), "auth.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	pemKey, err := cryptox.GenerateEd25519Key()
	require.NoError(t, err)
	signer, err := jwtx.NewSignerEdDSA("test-key", pemKey)
	require.NoError(t, err)

	const issuer = "storekeep-auth-test"
	tokens := &TokenService{
		Signer:   signer,
		Verifier: jwtx.VerifierForSigner(signer, issuer),
		Store:    st,
		Issuer:   issuer,
	}

	notifier := &recorderNotifier{}
	return &testEnv{
		Store:    st,
		Notifier: notifier,
		Auth:     &AuthService{Store: st, Notifier: notifier, Tokens: tokens},
		Reset:    &PasswordResetService{Store: st, Notifier: notifier},
		Tokens:   tokens,
	}
}

// register walks a full registration for the given email.
func (e *testEnv) register(t *testing.T, email, password string) domain.User {
	t.Helper()
	ctx := context.Background()

	require.NoError(t, e.Auth.InitiateRegistration(ctx, email))
	code := e.Notifier.last(t)

	u, token, err := e.Auth.CompleteRegistration(ctx, email, code.Code, "Ada", "Lovelace", password)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	return u
}

func TestRegistrationFlow(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.Auth.InitiateRegistration(ctx, "ada@example.com"))

	sent := env.Notifier.last(t)
	require.Equal(t, "ada@example.com", sent.Email)
	require.Len(t, sent.Code, 6)
	require.Equal(t, domain.PurposeRegister, sent.Purpose)

	u, token, err := env.Auth.CompleteRegistration(ctx,
		"ada@example.com", sent.Code, "Ada", "Lovelace", "correct horse battery")
	require.NoError(t, err)
	require.True(t, u.Verified)
	require.Equal(t, "ada@example.com", u.Email)

	id, err := env.Tokens.VerifyToken(ctx, token)
	require.NoError(t, err)
	require.Equal(t, u.ID, id.ID)
	require.Equal(t, "Ada", id.FirstName)
}

func TestInitiateRegistrationEmailTaken(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "taken@example.com", "hunter22222")

	err := env.Auth.InitiateRegistration(context.Background(), "taken@example.com")
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestReinitiateSupersedesCode(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.Auth.InitiateRegistration(ctx, "ada@example.com"))
	first := env.Notifier.last(t)

	require.NoError(t, env.Auth.InitiateRegistration(ctx, "ada@example.com"))
	second := env.Notifier.last(t)

	// The first code is superseded; only the second completes.
	if first.Code != second.Code {
		_, _, err := env.Auth.CompleteRegistration(ctx,
			"ada@example.com", first.Code, "Ada", "Lovelace", "correct horse battery")
		require.ErrorIs(t, err, ErrInvalidOrExpired)
	}

	_, _, err := env.Auth.CompleteRegistration(ctx,
		"ada@example.com", second.Code, "Ada", "Lovelace", "correct horse battery")
	require.NoError(t, err)
}

func TestCompleteRegistrationWrongCode(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.Auth.InitiateRegistration(ctx, "ada@example.com"))
	sent := env.Notifier.last(t)

	wrong := "000000"
	if wrong == sent.Code {
		wrong = "000001"
	}
	_, _, err := env.Auth.CompleteRegistration(ctx,
		"ada@example.com", wrong, "Ada", "Lovelace", "correct horse battery")
	require.ErrorIs(t, err, ErrInvalidOrExpired)

	// Failed verification mutates nothing: no user, code still active.
	_, err = env.Store.Users().GetUserByEmail(ctx, "ada@example.com")
	require.ErrorIs(t, err, store.ErrNotFound)

	active, err := env.Store.OneTimeCodes().HasActiveCode(ctx, "ada@example.com", domain.PurposeRegister)
	require.NoError(t, err)
	require.True(t, active)
}

func TestCompleteRegistrationCodeIsSingleUse(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.Auth.InitiateRegistration(ctx, "ada@example.com"))
	sent := env.Notifier.last(t)

	_, _, err := env.Auth.CompleteRegistration(ctx,
		"ada@example.com", sent.Code, "Ada", "Lovelace", "correct horse battery")
	require.NoError(t, err)

	_, _, err = env.Auth.CompleteRegistration(ctx,
		"ada@example.com", sent.Code, "Ada", "Lovelace", "correct horse battery")
	require.ErrorIs(t, err, ErrInvalidOrExpired)
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.register(t, "ada@example.com", "correct horse battery")

	t.Run("success", func(t *testing.T) {
		u, token, err := env.Auth.Login(ctx, "ada@example.com", "correct horse battery")
		require.NoError(t, err)
		require.NotEmpty(t, token)
		require.Equal(t, "ada@example.com", u.Email)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, _, err := env.Auth.Login(ctx, "ada@example.com", "wrong")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, _, err := env.Auth.Login(ctx, "ghost@example.com", "correct horse battery")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestLoginUnverifiedUser(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// Seed an unverified user directly; registration always verifies.
	hash, err := cryptox.HashPassword("correct horse battery")
	require.NoError(t, err)
	now := time.Now().UTC()
	require.NoError(t, env.Store.Users().CreateUser(ctx, domain.User{
		ID:           "01TESTUSERUNVERIFIED000000",
		Email:        "pending@example.com",
		PasswordHash: hash,
		Verified:     false,
		CreatedAt:    now,
		UpdatedAt:    now,
	}))

	// Right password still fails, and with the verification error, not
	// the credentials one.
	_, _, err = env.Auth.Login(ctx, "pending@example.com", "correct horse battery")
	require.ErrorIs(t, err, ErrEmailNotVerified)

	_, _, err = env.Auth.Login(ctx, "pending@example.com", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestResendCooldown(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.Auth.InitiateRegistration(ctx, "ada@example.com"))

	err := env.Auth.ResendCode(ctx, "ada@example.com", domain.PurposeRegister)
	require.ErrorIs(t, err, ErrCodeStillActive)

	// Consuming the active code clears the cooldown.
	sent := env.Notifier.last(t)
	active, err := env.Store.OneTimeCodes().GetActiveCode(ctx,
		"ada@example.com", sent.Code, domain.PurposeRegister)
	require.NoError(t, err)
	require.NoError(t, env.Store.OneTimeCodes().MarkCodeUsed(ctx, active.ID))

	require.NoError(t, env.Auth.ResendCode(ctx, "ada@example.com", domain.PurposeRegister))
}

func TestResendRejectsUnknownPurpose(t *testing.T) {
	env := newTestEnv(t)

	err := env.Auth.ResendCode(context.Background(), "ada@example.com", domain.CodePurpose("mfa"))
	require.ErrorIs(t, err, ErrInvalidOrExpired)
}

func TestNotifierFailureSurfaced(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.Notifier.fail = errors.New("smtp: connection refused")

	err := env.Auth.InitiateRegistration(ctx, "ada@example.com")
	require.Error(t, err)

	// The code was stored before delivery failed, so the record exists
	// and a later resend is what recovers the flow.
	active, err := env.Store.OneTimeCodes().HasActiveCode(ctx, "ada@example.com", domain.PurposeRegister)
	require.NoError(t, err)
	require.True(t, active)
}

func TestPasswordResetFlow(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.register(t, "ada@example.com", "old password 123")

	require.NoError(t, env.Reset.Initiate(ctx, "ada@example.com"))
	sent := env.Notifier.last(t)
	require.Equal(t, domain.PurposeResetPassword, sent.Purpose)

	token, err := env.Reset.VerifyOTP(ctx, "ada@example.com", sent.Code)
	require.NoError(t, err)
	require.Len(t, token, cryptox.ResetTokenSize*2) // hex encoded

	require.NoError(t, env.Reset.ResetPassword(ctx, token, "new password 456"))

	// New password works, old one does not.
	_, _, err = env.Auth.Login(ctx, "ada@example.com", "new password 456")
	require.NoError(t, err)
	_, _, err = env.Auth.Login(ctx, "ada@example.com", "old password 123")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	// The token spends exactly once.
	err = env.Reset.ResetPassword(ctx, token, "third password 789")
	require.ErrorIs(t, err, ErrInvalidOrExpired)
}

func TestPasswordResetUnknownEmailIsSilent(t *testing.T) {
	env := newTestEnv(t)

	before := env.Notifier.count()
	require.NoError(t, env.Reset.Initiate(context.Background(), "ghost@example.com"))
	require.Equal(t, before, env.Notifier.count())
}

func TestVerifyOTPWrongCode(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.register(t, "ada@example.com", "old password 123")

	require.NoError(t, env.Reset.Initiate(ctx, "ada@example.com"))
	sent := env.Notifier.last(t)

	wrong := "000000"
	if wrong == sent.Code {
		wrong = "000001"
	}
	_, err := env.Reset.VerifyOTP(ctx, "ada@example.com", wrong)
	require.ErrorIs(t, err, ErrInvalidOrExpired)

	// The real code survives the failed attempt.
	_, err = env.Reset.VerifyOTP(ctx, "ada@example.com", sent.Code)
	require.NoError(t, err)
}

func TestVerifyOTPCodesDoNotCrossFlows(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.Auth.InitiateRegistration(ctx, "ada@example.com"))
	sent := env.Notifier.last(t)

	// A register code can never be exchanged for a reset token.
	_, err := env.Reset.VerifyOTP(ctx, "ada@example.com", sent.Code)
	require.ErrorIs(t, err, ErrInvalidOrExpired)
}

func TestVerifyTokenFailures(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	t.Run("garbage token", func(t *testing.T) {
		_, err := env.Tokens.VerifyToken(ctx, "not-a-jwt")
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("subject no longer exists", func(t *testing.T) {
		token, err := env.Tokens.Issue(domain.User{
			ID:    "01TESTGHOSTUSER00000000000",
			Email: "ghost@example.com",
		})
		require.NoError(t, err)

		_, err = env.Tokens.VerifyToken(ctx, token)
		require.ErrorIs(t, err, ErrInvalidToken)
	})
}

func slogxTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestHousekeepingCleansExpired(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, env.Store.OneTimeCodes().CreateCode(ctx, domain.OneTimeCode{
		ID:        "01TESTEXPIREDCODE000000000",
		Email:     "stale@example.com",
		Code:      "999999",
		Purpose:   domain.PurposeRegister,
		ExpiresAt: now.Add(-time.Hour),
		CreatedAt: now.Add(-2 * time.Hour),
	}))
	require.NoError(t, env.Store.ResetTokens().CreateResetToken(ctx, domain.ResetToken{
		ID:        "01TESTEXPIREDTOKEN00000000",
		Email:     "stale@example.com",
		TokenHash: "stale-fingerprint",
		ExpiresAt: now.Add(-time.Hour),
		CreatedAt: now.Add(-2 * time.Hour),
	}))

	hk := NewHousekeepingService(env.Store, slogxTestLogger(), time.Hour)
	hk.Start()
	hk.Stop()

	has, err := env.Store.OneTimeCodes().HasActiveCode(ctx, "stale@example.com", domain.PurposeRegister)
	require.NoError(t, err)
	require.False(t, has)

	_, err = env.Store.ResetTokens().GetActiveResetTokenByHash(ctx, "stale-fingerprint")
	require.ErrorIs(t, err, store.ErrNotFound)
}
