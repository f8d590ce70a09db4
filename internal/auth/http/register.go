package http

import (
	"net/http"
	"net/mail"
	"strings"

	"github.com/storekeep/storekeep/internal/auth/domain"
	"github.com/storekeep/storekeep/internal/auth/service"
	"github.com/storekeep/storekeep/pkg/authapi"
	"github.com/storekeep/storekeep/pkg/httpx"
)

const minPasswordLength = 8

// normalizeEmail lowercases and trims an address, and reports whether it
// parses at all.
func normalizeEmail(email string) (string, bool) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", false
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return "", false
	}
	return email, true
}

func domainPurpose(s string) domain.CodePurpose {
	return domain.CodePurpose(strings.ToLower(strings.TrimSpace(s)))
}

type RegisterInitiateHandler struct {
	AuthService *service.AuthService
}

// ServeHTTP issues a registration code. The profile fields may travel
// with the request but nothing is staged server-side; only the email is
// acted on here.
func (h *RegisterInitiateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req authapi.RegisterInitiateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		authapi.ErrInvalidRequest.WriteError(w)
		return
	}

	email, ok := normalizeEmail(req.Email)
	if !ok || len(req.Password) < minPasswordLength {
		authapi.ErrInvalidRequest.WriteError(w)
		return
	}

	if err := h.AuthService.InitiateRegistration(r.Context(), email); err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authapi.MessageResponse{
		Message: "a verification code has been sent to your email",
	})
}

type RegisterCompleteHandler struct {
	AuthService *service.AuthService
}

// ServeHTTP consumes the emailed code, creates the account, and returns
// the first bearer token.
func (h *RegisterCompleteHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req authapi.RegisterCompleteRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		authapi.ErrInvalidRequest.WriteError(w)
		return
	}

	email, ok := normalizeEmail(req.Email)
	if !ok || req.Code == "" || len(req.Password) < minPasswordLength {
		authapi.ErrInvalidRequest.WriteError(w)
		return
	}

	u, token, err := h.AuthService.CompleteRegistration(r.Context(),
		email, req.Code, strings.TrimSpace(req.FirstName), strings.TrimSpace(req.LastName), req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, authapi.AuthResponse{
		User: authapi.UserPayload{
			ID:        u.ID,
			Email:     u.Email,
			FirstName: u.FirstName,
			LastName:  u.LastName,
			Verified:  u.Verified,
		},
		Token:     token,
		TokenType: "Bearer",
		ExpiresIn: int(h.AuthService.Tokens.TTL().Seconds()),
	})
}

type ResendOTPHandler struct {
	AuthService *service.AuthService
}

// ServeHTTP reissues a code under the cooldown guard.
func (h *ResendOTPHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req authapi.ResendOTPRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		authapi.ErrInvalidRequest.WriteError(w)
		return
	}

	email, ok := normalizeEmail(req.Email)
	purpose := domainPurpose(req.Purpose)
	if !ok || !purpose.Valid() {
		authapi.ErrInvalidRequest.WriteError(w)
		return
	}

	err := h.AuthService.ResendCode(r.Context(), email, purpose)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authapi.MessageResponse{
		Message: "a new code has been sent to your email",
	})
}
