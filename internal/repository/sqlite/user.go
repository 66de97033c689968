package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sakif/jibi/internal/apperror"
	"github.com/sakif/jibi/internal/model"
	"github.com/sakif/jibi/internal/repository"
)

// compile-time check that *DB implements repository.UserRepository
var _ repository.UserRepository = (*DB)(nil)

// FindByUsernameAndDigest looks up the user whose username AND password
// digest both match. This single query is the whole credential check — the
// caller never learns which of the two fields missed.
//
// (nil, nil) means "no such credentials", which is a normal outcome, not an
// error. Real errors are database failures only.
func (db *DB) FindByUsernameAndDigest(ctx context.Context, username, digest string) (*model.User, error) {
	var u model.User

	err := db.conn.QueryRowContext(ctx,
		`SELECT id, username, password, first_name, last_name, email, created_at
		 FROM users WHERE username = ? AND password = ?`,
		username, digest,
	).Scan(
		&u.ID,
		&u.Username,
		&u.PasswordDigest,
		&u.FirstName,
		&u.LastName,
		&u.Email,
		&u.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("sqlite: looking up credentials for %q: %w", username, err)
	}

	return &u, nil
}

// Insert creates a new user and fills in ID and CreatedAt.
//
// NO EXISTENCE PRE-CHECK — the INSERT goes straight at the UNIQUE constraint
// and a violation comes back as apperror.ErrDuplicateUsername. Checking
// first would open a race: two concurrent registrations of the same name
// could both pass the check, and then both "succeed". The constraint cannot
// be fooled that way, and nothing is written when it fires.
func (db *DB) InsertUser(ctx context.Context, user *model.User) error {
	user.CreatedAt = time.Now()

	res, err := db.conn.ExecContext(ctx,
		`INSERT INTO users (username, password, first_name, last_name, email, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		user.Username,
		user.PasswordDigest,
		user.FirstName,
		user.LastName,
		user.Email,
		user.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.DuplicateUsername(user.Username)
		}
		return fmt.Errorf("sqlite: inserting user %q: %w", user.Username, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading new user id: %w", err)
	}
	user.ID = id

	return nil
}
