package service

import "errors"

var (
	ErrEmailTaken         = errors.New("email_taken")
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrEmailNotVerified   = errors.New("email_not_verified")
	ErrInvalidOrExpired   = errors.New("invalid_or_expired")
	ErrCodeStillActive    = errors.New("code_still_active")
	ErrInvalidToken       = errors.New("invalid_token")
)
