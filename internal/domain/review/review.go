package review

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"quickstay/internal/domain/booking"
	"quickstay/internal/domain/hotel"
	"quickstay/internal/domain/room"
	"quickstay/internal/domain/user"
)

var (
	ErrInvalidRating  = errors.New("review: rating must be a number between 1 and 5")
	ErrCommentMissing = errors.New("review: comment is required")
	ErrCommentTooLong = errors.New("review: comment exceeds maximum length")
	ErrDuplicate      = errors.New("review: review already exists for booking")
	ErrNotFound       = errors.New("review: not found")
)

// MaxCommentLength mirrors the document schema bound.
const MaxCommentLength = 500

type ID string

// Review is a rating tied 1:1 to a completed booking.
type Review struct {
	ID        ID
	User      user.ID
	Room      room.ID
	Hotel     hotel.ID
	Booking   booking.ID
	Rating    float64
	Comment   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Stats aggregates a review set. Avg is 0 when Total is 0.
type Stats struct {
	Total     int64
	AvgRating float64
}

type Repository interface {
	ByID(ctx context.Context, id ID) (*Review, error)
	ByBooking(ctx context.Context, bookingID booking.ID) (*Review, error)
	ListByRoom(ctx context.Context, roomID room.ID, limit, skip int) ([]*Review, error)
	ListByHotel(ctx context.Context, hotelID hotel.ID, limit, skip int) ([]*Review, error)
	StatsByRoom(ctx context.Context, roomID room.ID) (Stats, error)
	StatsByHotel(ctx context.Context, hotelID hotel.ID) (Stats, error)
	Save(ctx context.Context, review *Review) error
	Delete(ctx context.Context, id ID) error
}

// ValidateRating rejects non-finite values and values outside [1,5].
// Fractional ratings are accepted.
func ValidateRating(rating float64) error {
	if math.IsNaN(rating) || math.IsInf(rating, 0) {
		return ErrInvalidRating
	}
	if rating < 1 || rating > 5 {
		return ErrInvalidRating
	}
	return nil
}

type SubmitParams struct {
	ID        ID
	User      user.ID
	Room      room.ID
	Hotel     hotel.ID
	Booking   booking.ID
	Rating    float64
	Comment   string
	CreatedAt time.Time
}

func Submit(params SubmitParams) (*Review, error) {
	if err := ValidateRating(params.Rating); err != nil {
		return nil, err
	}
	comment, err := normalizeComment(params.Comment)
	if err != nil {
		return nil, err
	}

	now := params.CreatedAt
	if now.IsZero() {
		now = time.Now()
	}
	now = now.UTC()

	return &Review{
		ID:        params.ID,
		User:      params.User,
		Room:      params.Room,
		Hotel:     params.Hotel,
		Booking:   params.Booking,
		Rating:    params.Rating,
		Comment:   comment,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (r *Review) UpdateRating(rating float64, now time.Time) error {
	if err := ValidateRating(rating); err != nil {
		return err
	}
	r.Rating = rating
	r.touch(now)
	return nil
}

func (r *Review) UpdateComment(comment string, now time.Time) error {
	normalized, err := normalizeComment(comment)
	if err != nil {
		return err
	}
	r.Comment = normalized
	r.touch(now)
	return nil
}

// AuthoredBy reports whether the given user wrote this review.
func (r *Review) AuthoredBy(id user.ID) bool {
	return r.User == id
}

func (r *Review) touch(now time.Time) {
	if now.IsZero() {
		now = time.Now()
	}
	r.UpdatedAt = now.UTC()
}

func normalizeComment(comment string) (string, error) {
	trimmed := strings.TrimSpace(comment)
	if trimmed == "" {
		return "", ErrCommentMissing
	}
	if len(trimmed) > MaxCommentLength {
		return "", ErrCommentTooLong
	}
	return trimmed, nil
}
