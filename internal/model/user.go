// Package model defines the data structures used throughout the application.
package model

import "time"

// User represents a registered account.
//
// WHY ID int64?
// The users table uses SQLite's INTEGER PRIMARY KEY, so the database assigns
// the ID on insert. int64 matches what database/sql's LastInsertId returns.
//
// WHY IS PasswordDigest NEVER IN JSON?
// The digest is a secret-adjacent value. The `json:"-"` tag guarantees it can
// never leak through an API response, no matter how carelessly a handler
// serializes a User.
//
// Username is unique (enforced by the database) and case-sensitive: "JohnDoe"
// and "johndoe" are two different accounts. It never changes after creation.
type User struct {
	ID             int64     `json:"id"        db:"id"`
	Username       string    `json:"username"  db:"username"`
	PasswordDigest string    `json:"-"         db:"password"` // hex digest, never plaintext
	FirstName      string    `json:"firstName" db:"first_name"`
	LastName       string    `json:"lastName"  db:"last_name"`
	Email          string    `json:"email"     db:"email"` // no uniqueness constraint
	CreatedAt      time.Time `json:"createdAt" db:"created_at"`
}
