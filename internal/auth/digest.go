// Package auth provides password digesting and session token handling.
package auth

import (
	"crypto/sha256"
	"encoding/hex"
)

// DigestService turns a plaintext password into the fixed-length hex digest
// stored in the users table.
//
// THE CONTRACT IS DETERMINISM:
// The same plaintext always yields the same digest, because login works by
// querying the store with (username, digest) and requiring bit-for-bit
// equality. There is no per-user salt and SHA-256 is a fast general-purpose
// hash, not a deliberately slow password construction like bcrypt or argon2.
//
// KNOWN WEAKNESS, ON PURPOSE:
// Two users with the same password get the same digest, and a leaked table
// is vulnerable to rainbow tables. This matches the site's long-standing
// behaviour; upgrading the scheme means migrating every stored digest and
// changing the lookup query, so it must not be done quietly here.
type DigestService struct{}

// NewDigestService creates a DigestService. It is stateless; the struct
// exists so the hasher can be injected and swapped in tests like the other
// services.
func NewDigestService() *DigestService {
	return &DigestService{}
}

// Hash returns the lowercase hex SHA-256 digest of plaintext.
// Deterministic, one-way, no side effects. Always 64 hex characters.
func (d *DigestService) Hash(plaintext string) string {
	sum := sha256.Sum256([]byte(plaintext))
	return hex.EncodeToString(sum[:])
}
