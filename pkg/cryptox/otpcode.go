package cryptox

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// Bounds for emailed verification codes. Codes are always six digits and
// never start with a zero, so they survive clients that strip leading
// zeroes.
const (
	otpCodeMin = 100000
	otpCodeMax = 999999
)

// GenerateOTPCode returns a uniform random six-digit numeric code in
// [100000, 999999] as a string.
func GenerateOTPCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(otpCodeMax-otpCodeMin+1))
	if err != nil {
		return "", fmt.Errorf("failed to generate otp code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+otpCodeMin), nil
}
