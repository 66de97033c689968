package auth

import (
	"context"
	"net/http"

	"github.com/sakif/jibi/internal/model"
)

// contextKey is an unexported type for context keys in this package.
// A package-private key type means only this package can read or write the
// session value — no string-key collisions with other packages.
type contextKey string

const sessionKey contextKey = "session"

// SessionCookie is the name of the HttpOnly cookie carrying the session token.
const SessionCookie = "session"

// RequireSession enforces authentication on protected routes.
//
// It reads the session token from the HttpOnly cookie, verifies it, and
// stores the reconstructed Session in the request context. A missing or
// invalid token ends the chain with 401 — the handler never runs, so no
// persistence can happen for anonymous submissions.
func RequireSession(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, err := extractSession(r, tokens)
			if err != nil {
				http.Error(w, `{"error":"not_authenticated","message":"You must be logged in to do that."}`, http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), sessionKey, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionFromContext retrieves the authenticated Session from the request
// context. Returns (nil, false) for anonymous requests.
func SessionFromContext(ctx context.Context) (*model.Session, bool) {
	sess, ok := ctx.Value(sessionKey).(*model.Session)
	return sess, ok && sess != nil
}

// extractSession reads the session cookie and verifies the token.
func extractSession(r *http.Request, tokens *TokenService) (*model.Session, error) {
	cookie, err := r.Cookie(SessionCookie)
	if err != nil {
		// http.ErrNoCookie — the visitor is simply anonymous
		return nil, err
	}
	return tokens.Verify(cookie.Value)
}
