// Package repository defines the storage interfaces the services depend on.
// The sqlite subpackage implements them; tests substitute in-memory mocks.
package repository

import (
	"context"

	"github.com/sakif/jibi/internal/model"
)

// UserRepository is the credential store.
type UserRepository interface {
	// FindByUsernameAndDigest returns the unique user matching both the
	// username and the password digest, or (nil, nil) when no row matches.
	// Absence is NOT an error — it is the normal "wrong credentials" outcome,
	// and callers must not learn whether the username or the digest missed.
	FindByUsernameAndDigest(ctx context.Context, username, digest string) (*model.User, error)

	// Insert creates a new user record and fills in its ID.
	// Returns apperror.ErrDuplicateUsername when the username is taken; the
	// database's UNIQUE constraint is the single source of truth for this —
	// implementations must not pre-check existence, because two concurrent
	// registrations racing a pre-check could both pass it.
	InsertUser(ctx context.Context, user *model.User) error
}

// ReviewRepository stores submitted reviews and serves the feed.
type ReviewRepository interface {
	// Insert creates a review row attributed to user boundary-checked by the
	// service, and fills in its ID.
	InsertReview(ctx context.Context, review *model.Review) error

	// List returns reviews newest-first with the author's username joined in.
	List(ctx context.Context, limit int) ([]model.FeedEntry, error)
}
