// Package notify delivers one-time verification codes to users. The SMTP
// implementation sends real email; the log implementation is for local
// development where no mail host is configured.
package notify

import (
	"context"
	"fmt"

	"github.com/storekeep/storekeep/internal/auth/domain"
)

// Notifier delivers a one-time code to an email address. Implementations
// must return an error when delivery fails so the caller can surface it
// instead of leaving the user waiting on a code that never arrives.
type Notifier interface {
	SendCode(ctx context.Context, email, code string, purpose domain.CodePurpose) error
}

func codeSubject(purpose domain.CodePurpose) string {
	if purpose == domain.PurposeResetPassword {
		return "Your password reset code"
	}
	return "Verify your email address"
}

func codeBody(code string, purpose domain.CodePurpose) string {
	if purpose == domain.PurposeResetPassword {
		return fmt.Sprintf(
			"Your password reset code is %v.\n\n"+
				"It expires in 10 minutes. If you did not request a password\n"+
				"reset you can ignore this email.\n", code)
	}
	return fmt.Sprintf(
		"Your verification code is %v.\n\n"+
			"It expires in 10 minutes. Enter it to finish creating your\n"+
			"account.\n", code)
}
