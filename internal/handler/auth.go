package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/rs/xid"

	"github.com/sakif/climate-hub/internal/apperror"
	"github.com/sakif/climate-hub/internal/auth"
	"github.com/sakif/climate-hub/internal/service"
)

const stateCookie = "oauth_state"

// OAuthProvider is the part of auth.GitHubProvider the handler needs.
type OAuthProvider interface {
	AuthURL(state string) string
	Exchange(ctx context.Context, code string) (*auth.GitHubUser, error)
}

// AuthHandler runs GitHub sign-in and sign-out.
type AuthHandler struct {
	provider   OAuthProvider
	auth       *service.AuthService
	sessionTTL int
	renderer   *Renderer
	logger     *slog.Logger
}

func NewAuthHandler(
	provider OAuthProvider,
	authService *service.AuthService,
	tokens *auth.TokenService,
	renderer *Renderer,
	logger *slog.Logger,
) *AuthHandler {
	return &AuthHandler{
		provider:   provider,
		auth:       authService,
		sessionTTL: int(tokens.TTL().Seconds()),
		renderer:   renderer,
		logger:     logger,
	}
}

// HandleGitHubLogin serves GET /auth/github/login.
//
// A random state goes into a short-lived cookie and into the GitHub URL; the
// callback only proceeds when the two match, which stops a third party from
// completing a sign-in on the visitor's behalf.
func (h *AuthHandler) HandleGitHubLogin(w http.ResponseWriter, r *http.Request) {
	state := xid.New().String()
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookie,
		Value:    state,
		Path:     "/",
		MaxAge:   600,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, h.provider.AuthURL(state), http.StatusTemporaryRedirect)
}

// HandleGitHubCallback serves GET /auth/github/callback?code=&state=.
func (h *AuthHandler) HandleGitHubCallback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	cookie, err := r.Cookie(stateCookie)
	if err != nil || cookie.Value == "" || q.Get("state") != cookie.Value {
		h.logger.Warn("auth callback: state mismatch")
		http.Error(w, "invalid OAuth state", http.StatusBadRequest)
		return
	}
	// Single use.
	http.SetCookie(w, &http.Cookie{Name: stateCookie, Value: "", Path: "/", MaxAge: -1})

	if denied := q.Get("error"); denied != "" {
		h.logger.Info("auth callback: sign-in declined", slog.String("error", denied))
		h.renderer.flash(r, "GitHub sign-in was cancelled.")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	code := q.Get("code")
	if code == "" {
		http.Error(w, "missing OAuth code", http.StatusBadRequest)
		return
	}

	ghUser, err := h.provider.Exchange(r.Context(), code)
	if err != nil {
		h.logger.Error("auth callback: GitHub exchange failed", slog.String("error", err.Error()))
		http.Error(w, "authentication failed", http.StatusBadGateway)
		return
	}

	result, err := h.auth.LoginOrRegisterGitHub(r.Context(), ghUser)
	if err != nil {
		h.logger.Error("auth callback: sign-in failed", slog.String("error", err.Error()))
		http.Error(w, "authentication failed", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookie,
		Value:    result.Token,
		Path:     "/",
		MaxAge:   h.sessionTTL,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
	h.renderer.flash(r, "Welcome, "+result.User.Login+"!")
	http.Redirect(w, r, "/forum", http.StatusSeeOther)
}

// HandleLogout serves POST /auth/logout. The token stays valid until it
// expires, but the browser no longer holds it.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	h.renderer.flash(r, "You have been signed out.")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// HandleMe serves GET /api/me with the signed-in member's profile.
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	user := h.auth.CurrentUser(r.Context())
	if user == nil {
		writeError(w, h.logger, apperror.Unauthorized("sign in required"))
		return
	}
	writeJSON(w, http.StatusOK, user)
}
