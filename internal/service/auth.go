// Package service contains the business logic layer.
//
// Handlers parse HTTP into the explicit input structs defined here; services
// enforce the rules and return domain errors from apperror; repositories do
// the SQL. Services never import net/http and never see a form field.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/jibi/internal/apperror"
	"github.com/sakif/jibi/internal/auth"
	"github.com/sakif/jibi/internal/model"
	"github.com/sakif/jibi/internal/repository"
)

// AuthService verifies credentials and establishes sessions.
type AuthService struct {
	users  repository.UserRepository
	digest *auth.DigestService
	logger *slog.Logger
}

// NewAuthService creates an AuthService with its dependencies injected.
func NewAuthService(users repository.UserRepository, digest *auth.DigestService, logger *slog.Logger) *AuthService {
	return &AuthService{
		users:  users,
		digest: digest,
		logger: logger,
	}
}

// LoginInput is the explicit input for Authenticate. Both fields required.
type LoginInput struct {
	Username string
	Password string // plaintext; digested here, never stored or logged
}

// Authenticate verifies the credentials and, on success, constructs the
// Session that authorizes everything else.
//
// The check is one query with (username, digest) — a miss on either field
// produces the same apperror.ErrAuthFailed, so a login probe can't learn
// whether an account exists. Idempotent; no side effects on failure.
func (s *AuthService) Authenticate(ctx context.Context, in LoginInput) (*model.Session, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" {
		return nil, apperror.ValidationFailed("username", "username is required")
	}
	if in.Password == "" {
		return nil, apperror.ValidationFailed("password", "password is required")
	}

	user, err := s.users.FindByUsernameAndDigest(ctx, username, s.digest.Hash(in.Password))
	if err != nil {
		s.logger.Error("credential lookup failed",
			slog.String("username", username),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("service/auth: looking up credentials: %w", err)
	}

	if user == nil {
		// Normal outcome, not an incident — log at info without detail.
		s.logger.Info("login failed", slog.String("username", username))
		return nil, apperror.AuthFailed()
	}

	s.logger.Info("user logged in",
		slog.Int64("userID", user.ID),
		slog.String("username", user.Username),
	)

	return &model.Session{
		UserID:    user.ID,
		Username:  user.Username,
		FirstName: user.FirstName,
	}, nil
}
