package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/sakif/jibi/internal/apperror"
	"github.com/sakif/jibi/internal/model"
	"github.com/sakif/jibi/internal/repository"
	"github.com/sakif/jibi/internal/upload"
)

const (
	MaxTitleLength  = 200
	MaxReviewLength = 10000
	MinStars        = 1
	MaxStars        = 5

	// DefaultFeedLimit caps how many reviews the feed returns.
	DefaultFeedLimit = 50
)

// ReviewService orchestrates review submission: session check, image
// validation, file write, row insert — in that order.
type ReviewService struct {
	reviews repository.ReviewRepository
	store   *upload.Store
	logger  *slog.Logger
}

// NewReviewService creates a ReviewService with its dependencies injected.
func NewReviewService(reviews repository.ReviewRepository, store *upload.Store, logger *slog.Logger) *ReviewService {
	return &ReviewService{
		reviews: reviews,
		store:   store,
		logger:  logger,
	}
}

// ImageUpload is an incoming cover image: the client's (untrusted) filename
// and its content. Content is read exactly once, only after validation.
type ImageUpload struct {
	Filename string
	Content  io.Reader
}

// SubmitInput is the explicit input for Submit. Image is optional — nil
// means a review without a cover.
type SubmitInput struct {
	Title      string
	ReviewText string
	Stars      int
	Image      *ImageUpload
}

// Submit validates and persists a review attributed to the session's user.
//
// Failure ordering guarantees "neither or both": any rejection — missing
// session, bad input, disallowed image — happens before the file write, and
// the file write happens before the row insert. So a failed submission
// leaves no file and no row.
//
// FAILURE WINDOW (documented, accepted): the file write and the row insert
// are not one transaction. If the insert fails after the file was written,
// an orphaned file is left in storage. That ordering is deliberate — an
// orphaned file is harmless and sweepable, while a row referencing a file
// that was never written would be a permanently broken review.
func (s *ReviewService) Submit(ctx context.Context, sess *model.Session, in SubmitInput) (*model.Review, error) {
	if sess == nil {
		return nil, apperror.NotAuthenticated()
	}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, apperror.ValidationFailed("title", "title is required")
	}
	if len(title) > MaxTitleLength {
		return nil, apperror.ValidationFailed("title",
			fmt.Sprintf("title must be %d characters or less", MaxTitleLength))
	}
	if len(in.ReviewText) > MaxReviewLength {
		return nil, apperror.ValidationFailed("review",
			fmt.Sprintf("review must be %d characters or less", MaxReviewLength))
	}
	if in.Stars < MinStars || in.Stars > MaxStars {
		return nil, apperror.ValidationFailed("stars",
			fmt.Sprintf("stars must be between %d and %d", MinStars, MaxStars))
	}

	var imageFilename *string
	if in.Image != nil {
		if !upload.Allowed(in.Image.Filename) {
			return nil, apperror.InvalidImage(in.Image.Filename)
		}

		stored, err := s.store.Save(in.Image.Filename, in.Image.Content)
		if err != nil {
			// Storage I/O failure is outside the user-correctable taxonomy;
			// let it propagate to the request handler.
			s.logger.Error("failed to store cover image",
				slog.String("filename", in.Image.Filename),
				slog.String("error", err.Error()),
			)
			return nil, fmt.Errorf("service/review: storing image: %w", err)
		}
		imageFilename = &stored
	}

	review := &model.Review{
		UserID:        sess.UserID,
		Title:         title,
		ReviewText:    in.ReviewText,
		Stars:         in.Stars,
		ImageFilename: imageFilename,
	}

	if err := s.reviews.InsertReview(ctx, review); err != nil {
		s.logger.Error("failed to insert review",
			slog.Int64("userID", sess.UserID),
			slog.String("title", title),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("service/review: inserting review: %w", err)
	}

	s.logger.Info("review submitted",
		slog.Int64("reviewID", review.ID),
		slog.Int64("userID", sess.UserID),
		slog.String("title", title),
	)

	return review, nil
}

// Feed returns the most recent reviews with author attribution.
func (s *ReviewService) Feed(ctx context.Context) ([]model.FeedEntry, error) {
	entries, err := s.reviews.List(ctx, DefaultFeedLimit)
	if err != nil {
		s.logger.Error("failed to list reviews", slog.String("error", err.Error()))
		return nil, fmt.Errorf("service/review: listing reviews: %w", err)
	}
	return entries, nil
}
