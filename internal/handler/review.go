package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/sakif/jibi/internal/apperror"
	"github.com/sakif/jibi/internal/auth"
	"github.com/sakif/jibi/internal/service"
)

// maxUploadBytes is the hard cap on a review submission body, enforced with
// http.MaxBytesReader. The same value serves as ParseMultipartForm's
// in-memory threshold, which on its own would only control spilling to temp
// files, not total size.
const maxUploadBytes = 10 << 20 // 10 MiB

// ReviewHandler manages review submission and the feed.
type ReviewHandler struct {
	reviews *service.ReviewService
	logger  *slog.Logger
}

// NewReviewHandler creates a ReviewHandler with its dependencies injected.
func NewReviewHandler(reviews *service.ReviewService, logger *slog.Logger) *ReviewHandler {
	return &ReviewHandler{
		reviews: reviews,
		logger:  logger,
	}
}

// HandleSubmit accepts a new review.
//
// HTTP: POST /api/reviews  (behind RequireSession)
// Multipart form fields: title, review, stars (numeric string), and an
// optional file field "image".
//
// The handler only translates HTTP to the service input: the session comes
// from the middleware, stars is parsed here (a non-numeric string is a
// boundary error, not a service concern), and the optional file part
// becomes a service.ImageUpload without being read — the service decides
// whether it is even allowed to touch storage.
func (h *ReviewHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	sess, ok := auth.SessionFromContext(r.Context())
	if !ok {
		writeError(w, apperror.NotAuthenticated())
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, "upload too large", http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, "bad multipart form data", http.StatusBadRequest)
		return
	}

	starsStr := r.PostFormValue("stars")
	stars, err := strconv.Atoi(starsStr)
	if err != nil {
		writeError(w, apperror.ValidationFailed("stars", "stars must be a number"))
		return
	}

	in := service.SubmitInput{
		Title:      r.PostFormValue("title"),
		ReviewText: r.PostFormValue("review"),
		Stars:      stars,
	}

	file, header, err := r.FormFile("image")
	switch {
	case errors.Is(err, http.ErrMissingFile):
		// No cover image — fine.
	case err != nil:
		http.Error(w, "bad image upload", http.StatusBadRequest)
		return
	default:
		defer file.Close()
		in.Image = &service.ImageUpload{
			Filename: header.Filename,
			Content:  file,
		}
	}

	review, err := h.reviews.Submit(r.Context(), sess, in)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, review)
}

// HandleFeed returns the most recent reviews, newest first.
//
// HTTP: GET /api/feed
func (h *ReviewHandler) HandleFeed(w http.ResponseWriter, r *http.Request) {
	entries, err := h.reviews.Feed(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
