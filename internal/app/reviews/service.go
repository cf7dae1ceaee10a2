package reviews

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"quickstay/internal/app/policies"
	domainbooking "quickstay/internal/domain/booking"
	domainhotel "quickstay/internal/domain/hotel"
	domainreview "quickstay/internal/domain/review"
	domainroom "quickstay/internal/domain/room"
	domainuser "quickstay/internal/domain/user"
)

var (
	ErrBookingOwnership = errors.New("reviews: booking does not belong to current user")
	ErrBookingCancelled = errors.New("reviews: cannot review a cancelled booking")
	ErrStayNotFinished  = errors.New("reviews: stay is not finished yet")
	ErrDuplicateReview  = errors.New("reviews: review already exists for booking")
	ErrNotAuthor        = errors.New("reviews: only the author may edit this review")
	ErrNotAuthorized    = errors.New("reviews: not authorized to delete this review")
)

const defaultPageLimit = 10

// Service enforces review eligibility rules and computes rating aggregates.
type Service struct {
	Bookings domainbooking.Repository
	Hotels   domainhotel.Repository
	Reviews  domainreview.Repository
	Users    domainuser.Repository
	Events   policies.EventsPort
	Logger   *slog.Logger
}

type CreateParams struct {
	BookingID string
	Rating    float64
	Comment   string
	Now       time.Time
}

// Create persists a review for a finished, non-cancelled booking owned by
// the acting user. The duplicate pre-check is best effort; the store's
// unique index on the booking reference closes the race.
func (s *Service) Create(ctx context.Context, actor domainuser.ID, params CreateParams) (*domainreview.Review, error) {
	if err := domainreview.ValidateRating(params.Rating); err != nil {
		return nil, err
	}

	now := params.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}

	booking, err := s.Bookings.ByID(ctx, domainbooking.ID(params.BookingID))
	if err != nil {
		return nil, err
	}
	if booking.User != actor {
		return nil, ErrBookingOwnership
	}
	if booking.Status == domainbooking.StatusCancelled {
		return nil, ErrBookingCancelled
	}
	if !booking.CheckedOutBy(now) {
		return nil, ErrStayNotFinished
	}

	if existing, err := s.Reviews.ByBooking(ctx, booking.ID); err == nil && existing != nil {
		return nil, ErrDuplicateReview
	} else if err != nil && !errors.Is(err, domainreview.ErrNotFound) {
		return nil, err
	}

	review, err := domainreview.Submit(domainreview.SubmitParams{
		ID:        domainreview.ID(uuid.NewString()),
		User:      actor,
		Room:      booking.Room,
		Hotel:     booking.Hotel,
		Booking:   booking.ID,
		Rating:    params.Rating,
		Comment:   params.Comment,
		CreatedAt: now,
	})
	if err != nil {
		return nil, err
	}
	if err := s.Reviews.Save(ctx, review); err != nil {
		if errors.Is(err, domainreview.ErrDuplicate) {
			return nil, ErrDuplicateReview
		}
		return nil, err
	}

	s.publish(ctx, "review.created", review)
	if s.Logger != nil {
		s.Logger.Info("review created", "review_id", review.ID, "booking_id", booking.ID, "hotel_id", booking.Hotel, "rating", params.Rating)
	}
	return review, nil
}

// Author is the minimal projection joined onto listed reviews.
type Author struct {
	Username string `json:"username"`
	Image    string `json:"image"`
}

type AuthoredReview struct {
	Review *domainreview.Review
	Author Author
}

// Page is one page of reviews plus aggregate metadata.
type Page struct {
	Reviews   []AuthoredReview
	Total     int64
	Page      int
	Limit     int
	AvgRating float64
}

func (s *Service) ListByRoom(ctx context.Context, roomID domainroom.ID, page, limit int) (Page, error) {
	page, limit, skip := normalizePage(page, limit)
	items, err := s.Reviews.ListByRoom(ctx, roomID, limit, skip)
	if err != nil {
		return Page{}, err
	}
	stats, err := s.Reviews.StatsByRoom(ctx, roomID)
	if err != nil {
		return Page{}, err
	}
	return s.assemblePage(ctx, items, stats, page, limit)
}

func (s *Service) ListByHotel(ctx context.Context, hotelID domainhotel.ID, page, limit int) (Page, error) {
	page, limit, skip := normalizePage(page, limit)
	items, err := s.Reviews.ListByHotel(ctx, hotelID, limit, skip)
	if err != nil {
		return Page{}, err
	}
	stats, err := s.Reviews.StatsByHotel(ctx, hotelID)
	if err != nil {
		return Page{}, err
	}
	return s.assemblePage(ctx, items, stats, page, limit)
}

type UpdateParams struct {
	Rating  *float64
	Comment *string
	Now     time.Time
}

// Update applies partial edits. Only the author may edit; hotel owners
// cannot edit others' reviews.
func (s *Service) Update(ctx context.Context, actor domainuser.ID, reviewID domainreview.ID, params UpdateParams) (*domainreview.Review, error) {
	review, err := s.Reviews.ByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if !review.AuthoredBy(actor) {
		return nil, ErrNotAuthor
	}

	now := params.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}
	if params.Rating != nil {
		if err := review.UpdateRating(*params.Rating, now); err != nil {
			return nil, err
		}
	}
	if params.Comment != nil {
		if err := review.UpdateComment(*params.Comment, now); err != nil {
			return nil, err
		}
	}
	if err := s.Reviews.Save(ctx, review); err != nil {
		return nil, err
	}

	if s.Logger != nil {
		s.Logger.Info("review updated", "review_id", review.ID, "author_id", review.User)
	}
	return review, nil
}

// Delete removes a review on behalf of its author or the owner of the
// hotel it belongs to.
func (s *Service) Delete(ctx context.Context, actor domainuser.ID, reviewID domainreview.ID) error {
	review, err := s.Reviews.ByID(ctx, reviewID)
	if err != nil {
		return err
	}

	allowed := review.AuthoredBy(actor)
	if !allowed {
		hotel, err := s.Hotels.ByID(ctx, review.Hotel)
		if err != nil && !errors.Is(err, domainhotel.ErrNotFound) {
			return err
		}
		allowed = hotel != nil && hotel.OwnedBy(actor)
	}
	if !allowed {
		return ErrNotAuthorized
	}

	if err := s.Reviews.Delete(ctx, review.ID); err != nil {
		return err
	}

	s.publish(ctx, "review.deleted", review)
	if s.Logger != nil {
		s.Logger.Info("review deleted", "review_id", review.ID, "actor_id", actor, "author_id", review.User)
	}
	return nil
}

func (s *Service) assemblePage(ctx context.Context, items []*domainreview.Review, stats domainreview.Stats, page, limit int) (Page, error) {
	authored := make([]AuthoredReview, 0, len(items))
	authors := make(map[domainuser.ID]Author, len(items))
	for _, item := range items {
		author, ok := authors[item.User]
		if !ok {
			if u, err := s.Users.ByID(ctx, item.User); err == nil {
				author = Author{Username: u.Username, Image: u.Image}
			} else if !errors.Is(err, domainuser.ErrNotFound) {
				return Page{}, err
			}
			authors[item.User] = author
		}
		authored = append(authored, AuthoredReview{Review: item, Author: author})
	}
	return Page{
		Reviews:   authored,
		Total:     stats.Total,
		Page:      page,
		Limit:     limit,
		AvgRating: stats.AvgRating,
	}, nil
}

func (s *Service) publish(ctx context.Context, name string, review *domainreview.Review) {
	if s.Events == nil {
		return
	}
	payload, err := json.Marshal(map[string]any{
		"review_id":  review.ID,
		"booking_id": review.Booking,
		"room_id":    review.Room,
		"hotel_id":   review.Hotel,
		"rating":     review.Rating,
	})
	if err != nil {
		return
	}
	if err := s.Events.Publish(ctx, name, string(review.Hotel), payload); err != nil && s.Logger != nil {
		s.Logger.Warn("review event publish failed", "event", name, "error", err)
	}
}

func normalizePage(page, limit int) (normalizedPage, normalizedLimit, skip int) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = defaultPageLimit
	}
	return page, limit, (page - 1) * limit
}
