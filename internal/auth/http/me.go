package http

import (
	"net/http"

	"github.com/storekeep/storekeep/internal/auth/service"
	"github.com/storekeep/storekeep/pkg/authapi"
	"github.com/storekeep/storekeep/pkg/httpx"
	"github.com/storekeep/storekeep/pkg/slogx"
)

type MeHandler struct {
	TokenService *service.TokenService
}

// ServeHTTP resolves the authenticated user's identity. The bearer
// middleware has already verified the token; this re-reads the user so
// the response reflects the store, not stale claims.
func (h *MeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID := httpx.UserIDFromContext(ctx)
	if userID == "" {
		authapi.ErrInvalidToken.WriteError(w)
		return
	}

	id, err := h.TokenService.ResolveIdentity(ctx, userID)
	if err != nil {
		slogx.FromContext(ctx).Warn("failed to resolve identity", "user_id", userID, "err", err)
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authapi.UserPayload{
		ID:        id.ID,
		Email:     id.Email,
		FirstName: id.FirstName,
		LastName:  id.LastName,
		Verified:  id.Verified,
	})
}
