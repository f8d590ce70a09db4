package http

import (
	"net/http"

	"github.com/storekeep/storekeep/pkg/authapi"
	"github.com/storekeep/storekeep/pkg/httpx"
)

// LogoutHandler acknowledges a logout. Bearer tokens are stateless, so
// there is no server-side session to tear down; the client discards the
// token.
type LogoutHandler struct{}

func (h *LogoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, authapi.MessageResponse{
		Message: "logged out",
	})
}
