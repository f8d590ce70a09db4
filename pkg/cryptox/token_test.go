package cryptox

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateHexToken(t *testing.T) {
	token, err := GenerateHexToken(ResetTokenSize)
	require.NoError(t, err)
	require.Len(t, token, ResetTokenSize*2)

	_, err = hex.DecodeString(token)
	require.NoError(t, err, "token should be valid hex")

	token2, err := GenerateHexToken(ResetTokenSize)
	require.NoError(t, err)
	require.NotEqual(t, token, token2, "tokens should be unique")
}

func TestGenerateHexToken_InvalidSize(t *testing.T) {
	for _, size := range []int{0, -1} {
		token, err := GenerateHexToken(size)
		require.Error(t, err)
		require.Empty(t, token)
	}
}

func TestFingerprintToken(t *testing.T) {
	fp1 := FingerprintToken("some-token")
	fp2 := FingerprintToken("some-token")
	fp3 := FingerprintToken("other-token")

	require.Equal(t, fp1, fp2, "fingerprints are deterministic")
	require.NotEqual(t, fp1, fp3)
	require.Len(t, fp1, 43, "base64url SHA-256 without padding")
}
