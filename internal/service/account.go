package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/jibi/internal/apperror"
	"github.com/sakif/jibi/internal/auth"
	"github.com/sakif/jibi/internal/model"
	"github.com/sakif/jibi/internal/repository"
)

// MaxUsernameLength bounds usernames at the boundary. The database would
// happily store more; this is a sanity limit, not a storage one.
const MaxUsernameLength = 64

// AccountService creates new accounts.
type AccountService struct {
	users  repository.UserRepository
	digest *auth.DigestService
	logger *slog.Logger
}

// NewAccountService creates an AccountService with its dependencies injected.
func NewAccountService(users repository.UserRepository, digest *auth.DigestService, logger *slog.Logger) *AccountService {
	return &AccountService{
		users:  users,
		digest: digest,
		logger: logger,
	}
}

// RegisterInput is the explicit input for Register. Username and both
// password fields are required; the profile fields are optional.
type RegisterInput struct {
	FirstName       string
	LastName        string
	Email           string
	Username        string
	Password        string
	ConfirmPassword string
}

// Register validates the input and commits the new account.
//
// Order matters:
//  1. password != confirm fails with ErrPasswordMismatch BEFORE any
//     database access — a typo shouldn't cost a round trip.
//  2. The insert goes straight at the UNIQUE constraint; a duplicate
//     username comes back as ErrDuplicateUsername, propagated unchanged.
//
// On success the created User is returned with its server-assigned ID. The
// caller decides what happens next; registering does NOT log the user in —
// the site has always required an explicit login afterwards.
func (s *AccountService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	username := strings.TrimSpace(in.Username)

	if username == "" {
		return nil, apperror.ValidationFailed("username", "username is required")
	}
	if len(username) > MaxUsernameLength {
		return nil, apperror.ValidationFailed("username",
			fmt.Sprintf("username must be %d characters or less", MaxUsernameLength))
	}
	if in.Password == "" {
		return nil, apperror.ValidationFailed("password", "password is required")
	}

	if in.Password != in.ConfirmPassword {
		return nil, apperror.PasswordMismatch()
	}

	user := &model.User{
		Username:       username,
		PasswordDigest: s.digest.Hash(in.Password),
		FirstName:      strings.TrimSpace(in.FirstName),
		LastName:       strings.TrimSpace(in.LastName),
		Email:          strings.TrimSpace(in.Email),
	}

	if err := s.users.InsertUser(ctx, user); err != nil {
		if errors.Is(err, apperror.ErrDuplicateUsername) {
			// Expected under username contention; propagate unchanged.
			s.logger.Info("registration rejected: username taken",
				slog.String("username", username))
			return nil, err
		}
		s.logger.Error("failed to insert user",
			slog.String("username", username),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("service/account: inserting user: %w", err)
	}

	s.logger.Info("account created",
		slog.Int64("userID", user.ID),
		slog.String("username", user.Username),
	)

	return user, nil
}
