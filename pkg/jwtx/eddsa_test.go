package jwtx_test

import (
	"testing"
	"time"

	"github.com/storekeep/storekeep/pkg/cryptox"
	"github.com/storekeep/storekeep/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

const testIssuer = "storekeep-auth-test"

func newTestSigner(t *testing.T) *jwtx.EdDSASigner {
	t.Helper()

	pemKey, err := cryptox.GenerateEd25519Key()
	require.NoError(t, err)

	signer, err := jwtx.NewSignerEdDSA("test-key-1", pemKey)
	require.NoError(t, err)
	return signer
}

func TestSignAndVerifyRoundTrip(t *testing.T) {
	t.Parallel()

	signer := newTestSigner(t)
	verifier := jwtx.VerifierForSigner(signer, testIssuer)

	claims := jwtx.NewClaims(
		"01JTESTUSERID", "alice@example.com", "Alice", "Smith",
		true, jwtx.DefaultTokenTTL, testIssuer, time.Now(),
	)

	token, err := signer.Sign(claims)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	got, err := verifier.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "01JTESTUSERID", got.Subject)
	require.Equal(t, "alice@example.com", got.Email)
	require.Equal(t, "Alice", got.FirstName)
	require.True(t, got.Verified)
	require.Equal(t, testIssuer, got.Issuer)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	t.Parallel()

	signer := newTestSigner(t)
	verifier := jwtx.VerifierForSigner(signer, testIssuer)

	claims := jwtx.NewClaims(
		"u1", "a@x.com", "", "", true,
		time.Minute, testIssuer, time.Now().Add(-time.Hour),
	)
	token, err := signer.Sign(claims)
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	require.Error(t, err)
}

func TestVerifyRejectsWrongIssuer(t *testing.T) {
	t.Parallel()

	signer := newTestSigner(t)
	verifier := jwtx.VerifierForSigner(signer, "someone-else")

	claims := jwtx.NewClaims("u1", "a@x.com", "", "", true,
		time.Minute, testIssuer, time.Now())
	token, err := signer.Sign(claims)
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	require.ErrorIs(t, err, jwtx.ErrIssuer)
}

func TestVerifyRejectsForeignKey(t *testing.T) {
	t.Parallel()

	signer := newTestSigner(t)
	other := newTestSigner(t)
	verifier := jwtx.VerifierForSigner(other, testIssuer)

	claims := jwtx.NewClaims("u1", "a@x.com", "", "", true,
		time.Minute, testIssuer, time.Now())
	token, err := signer.Sign(claims)
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	require.Error(t, err)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	t.Parallel()

	signer := newTestSigner(t)
	verifier := jwtx.VerifierForSigner(signer, testIssuer)

	for _, tok := range []string{"", "garbage", "a.b.c"} {
		_, err := verifier.Verify(tok)
		require.Error(t, err)
	}
}
