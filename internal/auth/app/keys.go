package app

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"

	"github.com/storekeep/storekeep/pkg/cryptox"
	"github.com/storekeep/storekeep/pkg/jwtx"
)

// InitAuthKeys loads the Ed25519 signing key and builds the signer and
// verifier pair for bearer tokens.
//
// When SigningKeyFile is set the PEM key is read from disk, so tokens
// survive restarts. Otherwise a fresh key is generated in memory and
// every previously issued token becomes invalid on startup.
func InitAuthKeys(cfg Config, logger *slog.Logger) (*jwtx.EdDSASigner, *jwtx.EdDSAVerifier, error) {
	var pemKey []byte

	if cfg.SigningKeyFile != "" {
		b, err := os.ReadFile(cfg.SigningKeyFile)
		if err != nil {
			return nil, nil, fmt.Errorf("read signing key file: %w", err)
		}
		pemKey = b
		logger.Info("signing key loaded", "path", cfg.SigningKeyFile)
	} else {
		b, err := cryptox.GenerateEd25519Key()
		if err != nil {
			return nil, nil, fmt.Errorf("generate signing key: %w", err)
		}
		pemKey = b
		logger.Warn("ephemeral signing key generated; existing tokens are now invalid")
	}

	signer, err := jwtx.NewSignerEdDSA(keyID(pemKey), pemKey)
	if err != nil {
		return nil, nil, fmt.Errorf("build signer: %w", err)
	}

	return signer, jwtx.VerifierForSigner(signer, cfg.Issuer), nil
}

// keyID derives a stable kid from the key material itself so a restarted
// service with the same key file keeps issuing tokens under the same kid.
func keyID(pemKey []byte) string {
	sum := sha256.Sum256(pemKey)
	return hex.EncodeToString(sum[:8])
}
