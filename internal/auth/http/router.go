package http

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/storekeep/storekeep/internal/auth/service"
	"github.com/storekeep/storekeep/internal/auth/store"
	"github.com/storekeep/storekeep/pkg/authapi"
	"github.com/storekeep/storekeep/pkg/httpx"
	"github.com/storekeep/storekeep/pkg/jwtx"
	"github.com/storekeep/storekeep/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier     jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store        store.Store
	AuthService  *service.AuthService
	ResetService *service.PasswordResetService
	TokenService *service.TokenService
}

func NewRouter(
	verifier jwtx.Verifier,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerRegistration()
	r.registerSessions()
	r.registerPasswordReset()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global
// middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerRegistration() {
	initiate := &RegisterInitiateHandler{AuthService: r.AuthService}
	complete := &RegisterCompleteHandler{AuthService: r.AuthService}
	resend := &ResendOTPHandler{AuthService: r.AuthService}

	// All three send email or mint accounts, so they get the strict
	// per-IP limit.
	r.Mux.Handle("POST /api/auth/register/initiate",
		httpx.Chain(initiate, httpx.RateLimitByIP(httpx.StrictLimit)))
	r.Mux.Handle("POST /api/auth/register/complete",
		httpx.Chain(complete, httpx.RateLimitByIP(httpx.StrictLimit)))
	r.Mux.Handle("POST /api/auth/resend-otp",
		httpx.Chain(resend, httpx.RateLimitByIP(httpx.StrictLimit)))
}

func (r *Router) registerSessions() {
	login := &LoginHandler{AuthService: r.AuthService}
	r.Mux.Handle("POST /api/auth/login",
		httpx.Chain(login, httpx.RateLimitByIP(httpx.StrictLimit)))

	me := &MeHandler{TokenService: r.TokenService}
	r.Mux.Handle("GET /api/auth/me",
		httpx.Chain(me,
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByUser(httpx.LenientLimit),
		))

	// Logout is a client-side discard; the handler only acknowledges.
	// Optional authn so an already-expired token does not error the call.
	logout := &LogoutHandler{}
	r.Mux.Handle("POST /api/auth/logout",
		httpx.Chain(logout,
			httpx.OptionalAuthnMiddleware(r.verifier),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		))
}

func (r *Router) registerPasswordReset() {
	initiate := &PasswordResetInitiateHandler{ResetService: r.ResetService}
	verify := &PasswordResetVerifyHandler{ResetService: r.ResetService}
	complete := &PasswordResetCompleteHandler{ResetService: r.ResetService}

	r.Mux.Handle("POST /api/auth/password-reset/initiate",
		httpx.Chain(initiate, httpx.RateLimitByIP(httpx.StrictLimit)))
	r.Mux.Handle("POST /api/auth/password-reset/verify-otp",
		httpx.Chain(verify, httpx.RateLimitByIP(httpx.StrictLimit)))
	r.Mux.Handle("POST /api/auth/password-reset/complete",
		httpx.Chain(complete, httpx.RateLimitByIP(httpx.StrictLimit)))
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.store, r.verifier))
}

// writeServiceError maps service sentinels onto the API error envelope.
// Anything unmapped is logged and reported as a server error.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrEmailTaken):
		authapi.ErrEmailTaken.WriteError(w)
	case errors.Is(err, service.ErrInvalidCredentials):
		authapi.ErrInvalidCredentials.WriteError(w)
	case errors.Is(err, service.ErrEmailNotVerified):
		authapi.ErrEmailNotVerified.WriteError(w)
	case errors.Is(err, service.ErrInvalidOrExpired):
		authapi.ErrInvalidOrExpired.WriteError(w)
	case errors.Is(err, service.ErrCodeStillActive):
		authapi.ErrCodeStillActive.WriteError(w)
	case errors.Is(err, service.ErrInvalidToken):
		authapi.ErrInvalidToken.WriteError(w)
	default:
		slogx.FromContext(r.Context()).Error("request failed", "err", err)
		authapi.ErrServerError.WriteError(w)
	}
}
