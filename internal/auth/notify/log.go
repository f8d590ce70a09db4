package notify

import (
	"context"

	"github.com/storekeep/storekeep/internal/auth/domain"
	"github.com/storekeep/storekeep/pkg/slogx"
)

// Log writes codes to the service log instead of emailing them. Useful
// for local development where no mail host is configured.
type Log struct{}

var _ Notifier = (*Log)(nil)

func (Log) SendCode(ctx context.Context, email, code string, purpose domain.CodePurpose) error {
	slogx.FromContext(ctx).Info("one-time code issued (mail disabled)",
		"email", email,
		"code", code,
		"purpose", string(purpose),
	)
	return nil
}
