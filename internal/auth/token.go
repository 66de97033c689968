package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/sakif/jibi/internal/model"
)

// TokenService signs and verifies the session tokens that carry a
// model.Session between requests.
//
// WHY A SIGNED TOKEN AND NOT A SERVER-SIDE SESSION TABLE?
// The design is single-process and stateless across requests: the client
// carries its own session, the server only verifies the signature. There is
// nothing to store, expire, or replicate — "logout" is simply the cookie
// disappearing.
//
// The token's claims ARE the Session: the subject is the user ID, and the
// username/first name display caches ride along as custom claims so pages
// can greet the user without touching the database.
type TokenService struct {
	secret []byte
}

// sessionTTL is how long an issued session token stays valid.
// After expiry the user logs in again — there is no refresh flow.
const sessionTTL = 24 * time.Hour

const issuer = "jibi"

// NewTokenService creates a TokenService with the given HMAC secret.
// The secret should be at least 32 bytes of random data in production,
// e.g. SESSION_SECRET=$(openssl rand -hex 32).
func NewTokenService(secret string) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: session secret must be at least 16 characters")
	}
	return &TokenService{secret: []byte(secret)}, nil
}

// sessionClaims is the JWT payload. Subject holds the user ID (as a decimal
// string, since JWT subjects are strings); Username and FirstName are the
// Session's display caches.
type sessionClaims struct {
	Username  string `json:"username"`
	FirstName string `json:"firstName"`
	jwt.RegisteredClaims
}

// Issue signs a new session token for the given Session.
//
// Signing algorithm: HS256. Symmetric HMAC is fine here — one process signs
// and the same process verifies.
func (s *TokenService) Issue(sess *model.Session) (string, error) {
	now := time.Now()

	c := sessionClaims{
		Username:  sess.Username,
		FirstName: sess.FirstName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(sess.UserID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(sessionTTL)),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing session token: %w", err)
	}

	return signed, nil
}

// Verify parses and validates a session token and reconstructs the Session
// it carries. Returns an error for expired, tampered, or foreign tokens —
// the middleware treats any such error as "no session".
func (s *TokenService) Verify(tokenStr string) (*model.Session, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&sessionClaims{},
		func(token *jwt.Token) (any, error) {
			// Reject tokens that aren't HMAC-signed — prevents algorithm
			// confusion attacks (e.g. alg=none).
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("auth: session expired")
		}
		return nil, fmt.Errorf("auth: invalid session token: %w", err)
	}

	c, ok := token.Claims.(*sessionClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("auth: invalid session claims")
	}

	userID, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return nil, fmt.Errorf("auth: session token has a bad subject")
	}

	return &model.Session{
		UserID:    userID,
		Username:  c.Username,
		FirstName: c.FirstName,
	}, nil
}
