package model

import "time"

// Review is a short write-up of a comic book, optionally with a cover image.
//
// WHY ImageFilename *string (not string)?
// A review without an image stores NULL, which is distinct from "". The
// pointer round-trips cleanly through database/sql: nil → NULL → nil.
// The filename is the SANITIZED storage name, not whatever the client sent.
//
// Reviews are immutable once created — there is no edit or delete flow.
type Review struct {
	ID            int64     `json:"id"            db:"id"`
	UserID        int64     `json:"userId"        db:"user_id"`
	Title         string    `json:"title"         db:"title"`
	ReviewText    string    `json:"review"        db:"review"`
	Stars         int       `json:"stars"         db:"stars"`
	ImageFilename *string   `json:"imageFilename" db:"image_filename"`
	CreatedAt     time.Time `json:"createdAt"     db:"created_at"`
}

// FeedEntry is a Review joined with its author's username, as shown on the
// public feed. Attribution comes from the users table at query time.
type FeedEntry struct {
	Review
	Username string `json:"username" db:"username"`
}
