package http

import (
	"net/http"

	"github.com/storekeep/storekeep/internal/auth/service"
	"github.com/storekeep/storekeep/pkg/authapi"
	"github.com/storekeep/storekeep/pkg/httpx"
)

type LoginHandler struct {
	AuthService *service.AuthService
}

func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req authapi.LoginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		authapi.ErrInvalidRequest.WriteError(w)
		return
	}

	email, ok := normalizeEmail(req.Email)
	if !ok || req.Password == "" {
		authapi.ErrInvalidRequest.WriteError(w)
		return
	}

	u, token, err := h.AuthService.Login(r.Context(), email, req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authapi.AuthResponse{
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
