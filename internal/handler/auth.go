// Package handler contains the HTTP layer: parse the request into the
// service input structs, call the service, write the response. Form field
// names here ("username", "confirm_password", "stars", ...) are the site's
// public contract with its forms and must not drift.
package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/sakif/jibi/internal/auth"
	"github.com/sakif/jibi/internal/service"
)

// sessionCookieTTL matches the token lifetime, so the cookie and the JWT
// inside it expire together.
const sessionCookieTTL = 24 * time.Hour

// AuthHandler manages login and logout.
type AuthHandler struct {
	auths  *service.AuthService
	tokens *auth.TokenService
	logger *slog.Logger
}

// NewAuthHandler creates an AuthHandler with its dependencies injected.
func NewAuthHandler(auths *service.AuthService, tokens *auth.TokenService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		auths:  auths,
		tokens: tokens,
		logger: logger,
	}
}

// HandleLogin verifies credentials and establishes the session.
//
// HTTP: POST /login
// Form fields: username, password
//
// On success the Session rides back two ways: as the JSON body (so the
// frontend can greet the user) and as a signed HttpOnly cookie (so the
// browser carries it on every subsequent request). On failure the body is
// the single undifferentiated "Credentials do not match." — never a hint
// about which field was wrong.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form data", http.StatusBadRequest)
		return
	}

	sess, err := h.auths.Authenticate(r.Context(), service.LoginInput{
		Username: r.PostFormValue("username"),
		Password: r.PostFormValue("password"),
	})
	if err != nil {
		writeError(w, err)
		return
	}

	tokenStr, err := h.tokens.Issue(sess)
	if err != nil {
		h.logger.Error("failed to issue session token",
			slog.Int64("userID", sess.UserID),
			slog.String("error", err.Error()),
		)
		writeError(w, err)
		return
	}

	// HttpOnly keeps the token out of reach of page scripts; SameSite=Lax
	// keeps it off cross-site POSTs.
	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookie,
		Value:    tokenStr,
		Path:     "/",
		MaxAge:   int(sessionCookieTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	writeJSON(w, http.StatusOK, sess)
}

// HandleLogout clears the session cookie.
//
// HTTP: POST /logout
//
// Sessions are client-carried, so logout is purely a cookie deletion —
// there is no server-side state to tear down.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	writeJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// HandleMe returns the current session, or 401 when anonymous.
//
// HTTP: GET /api/me  (behind RequireSession)
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	sess, ok := auth.SessionFromContext(r.Context())
	if !ok {
		// Unreachable behind RequireSession, but be safe.
		http.Error(w, `{"error":"not_authenticated"}`, http.StatusUnauthorized)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}
