package notify

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/mail"
	"net/url"

	"github.com/dajohi/goemail"
	"github.com/storekeep/storekeep/internal/auth/domain"
)

// SMTPConfig holds the connection settings for the mail host. An empty
// Host disables delivery entirely, in which case NewSMTP returns a client
// whose SendCode fails loudly rather than pretending the mail went out.
type SMTPConfig struct {
	Host        string // host:port of the SMTP server
	User        string
	Password    string
	FromAddress string // e.g. "StoreKeep <noreply@storekeep.example>"
	SkipVerify  bool   // skip TLS cert verification (dev only)
}

// SMTP sends one-time codes over SMTPS from a preset address.
type SMTP struct {
	smtp        *goemail.SMTP
	mailName    string
	mailAddress string
	disabled    bool
}

var _ Notifier = (*SMTP)(nil)

func NewSMTP(cfg SMTPConfig) (*SMTP, error) {
	if cfg.Host == "" {
		return &SMTP{disabled: true}, nil
	}

	h := fmt.Sprintf("smtps://%v:%v@%v", cfg.User, cfg.Password, cfg.Host)
	u, err := url.Parse(h)
	if err != nil {
		return nil, err
	}

	a, err := mail.ParseAddress(cfg.FromAddress)
	if err != nil {
		return nil, fmt.Errorf("parse from address: %w", err)
	}

	tlsConfig := &tls.Config{
		InsecureSkipVerify: cfg.SkipVerify,
	}

	smtp, err := goemail.NewSMTP(u.String(), tlsConfig)
	if err != nil {
		return nil, err
	}

	return &SMTP{
		smtp:        smtp,
		mailName:    a.Name,
		mailAddress: a.Address,
	}, nil
}

func (s *SMTP) SendCode(ctx context.Context, email, code string, purpose domain.CodePurpose) error {
	if s.disabled {
		return fmt.Errorf("mail delivery is disabled; cannot send code to %v", email)
	}

	msg := goemail.NewMessage(s.mailAddress, codeSubject(purpose), codeBody(code, purpose))
	msg.SetName(s.mailName)
	msg.AddTo(email)

	if err := s.smtp.Send(msg); err != nil {
		return fmt.Errorf("send mail to %v: %w", email, err)
	}
	return nil
}
