package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/sakif/jibi/internal/model"
	"github.com/sakif/jibi/internal/repository"
)

// compile-time check that *DB implements repository.ReviewRepository
var _ repository.ReviewRepository = (*DB)(nil)

// Insert creates a review row and fills in ID and CreatedAt.
// ImageFilename may be nil — a review without a cover stores NULL.
func (db *DB) InsertReview(ctx context.Context, review *model.Review) error {
	review.CreatedAt = time.Now()

	res, err := db.conn.ExecContext(ctx,
		`INSERT INTO reviews (user_id, title, review, stars, image_filename, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		review.UserID,
		review.Title,
		review.ReviewText,
		review.Stars,
		review.ImageFilename,
		review.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting review %q for user %d: %w",
			review.Title, review.UserID, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading new review id: %w", err)
	}
	review.ID = id

	return nil
}

// List returns the newest reviews first, joined with the author's username
// for attribution on the feed page.
func (db *DB) List(ctx context.Context, limit int) ([]model.FeedEntry, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT r.id, r.user_id, r.title, r.review, r.stars, r.image_filename,
		        r.created_at, u.username
		 FROM reviews r
		 JOIN users u ON u.id = r.user_id
		 ORDER BY r.created_at DESC, r.id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing reviews: %w", err)
	}
	defer rows.Close()

	entries := []model.FeedEntry{}
	for rows.Next() {
		var e model.FeedEntry
		if err := rows.Scan(
			&e.ID,
			&e.UserID,
			&e.Title,
			&e.ReviewText,
			&e.Stars,
			&e.ImageFilename,
			&e.CreatedAt,
			&e.Username,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning review row: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating reviews: %w", err)
	}

	return entries, nil
}
