package http

import (
	"net/http"

	"github.com/storekeep/storekeep/internal/auth/service"
	"github.com/storekeep/storekeep/pkg/authapi"
	"github.com/storekeep/storekeep/pkg/httpx"
)

// resetInitiateMessage is returned for existing and unknown emails alike
// so the endpoint cannot be used to probe for accounts.
const resetInitiateMessage = "if an account exists for this email, a reset code has been sent"

type PasswordResetInitiateHandler struct {
	ResetService *service.PasswordResetService
}

func (h *PasswordResetInitiateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req authapi.PasswordResetInitiateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		authapi.ErrInvalidRequest.WriteError(w)
		return
	}

	email, ok := normalizeEmail(req.Email)
	if !ok {
		authapi.ErrInvalidRequest.WriteError(w)
		return
	}

	if err := h.ResetService.Initiate(r.Context(), email); err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authapi.MessageResponse{Message: resetInitiateMessage})
}

type PasswordResetVerifyHandler struct {
	ResetService *service.PasswordResetService
}

// ServeHTTP exchanges a valid reset code for the single-use reset token.
func (h *PasswordResetVerifyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req authapi.PasswordResetVerifyRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		authapi.ErrInvalidRequest.WriteError(w)
		return
	}

	email, ok := normalizeEmail(req.Email)
	if !ok || req.Code == "" {
		authapi.ErrInvalidRequest.WriteError(w)
		return
	}

	token, err := h.ResetService.VerifyOTP(r.Context(), email, req.Code)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authapi.ResetTokenResponse{
		ResetToken: token,
		ExpiresIn:  int(h.ResetService.TokenTTL().Seconds()),
	})
}

type PasswordResetCompleteHandler struct {
	ResetService *service.PasswordResetService
}

func (h *PasswordResetCompleteHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req authapi.PasswordResetCompleteRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		authapi.ErrInvalidRequest.WriteError(w)
		return
	}

	if req.Token == "" || len(req.NewPassword) < minPasswordLength {
		authapi.ErrInvalidRequest.WriteError(w)
		return
	}

	if err := h.ResetService.ResetPassword(r.Context(), req.Token, req.NewPassword); err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authapi.MessageResponse{
		Message: "password has been reset, you can now log in",
	})
}
