package memory

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainbooking "quickstay/internal/domain/booking"
	domainhotel "quickstay/internal/domain/hotel"
	domainreview "quickstay/internal/domain/review"
	domainuser "quickstay/internal/domain/user"
)

func seedReview(t *testing.T, repo *ReviewRepository, id, bookingID string, rating float64, createdAt time.Time) *domainreview.Review {
	t.Helper()
	review, err := domainreview.Submit(domainreview.SubmitParams{
		ID:        domainreview.ID(id),
		User:      "user_1",
		Room:      "room_1",
		Hotel:     "hotel_1",
		Booking:   domainbooking.ID(bookingID),
		Rating:    rating,
		Comment:   "fine",
		CreatedAt: createdAt,
	})
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), review))
	return review
}

func TestReviewRepositoryEnforcesBookingUniqueness(t *testing.T) {
	repo := NewReviewRepository()
	now := time.Now()
	seedReview(t, repo, "review_1", "booking_1", 4, now)

	rival, err := domainreview.Submit(domainreview.SubmitParams{
		ID:      "review_2",
		User:    "user_2",
		Room:    "room_1",
		Hotel:   "hotel_1",
		Booking: "booking_1",
		Rating:  2,
		Comment: "rival",
	})
	require.NoError(t, err)
	assert.ErrorIs(t, repo.Save(context.Background(), rival), domainreview.ErrDuplicate)
}

func TestReviewRepositoryResavingSameReviewIsNotDuplicate(t *testing.T) {
	repo := NewReviewRepository()
	review := seedReview(t, repo, "review_1", "booking_1", 4, time.Now())

	require.NoError(t, review.UpdateRating(5, time.Now()))
	assert.NoError(t, repo.Save(context.Background(), review))
}

func TestReviewRepositoryPaginationNewestFirst(t *testing.T) {
	repo := NewReviewRepository()
	base := time.Now().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		seedReview(t, repo, fmt.Sprintf("review_%d", i), fmt.Sprintf("booking_%d", i), 3, base.Add(time.Duration(i)*time.Minute))
	}

	page, err := repo.ListByRoom(context.Background(), "room_1", 2, 0)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, domainreview.ID("review_4"), page[0].ID)
	assert.Equal(t, domainreview.ID("review_3"), page[1].ID)

	page, err = repo.ListByRoom(context.Background(), "room_1", 2, 4)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, domainreview.ID("review_0"), page[0].ID)

	page, err = repo.ListByRoom(context.Background(), "room_1", 2, 10)
	require.NoError(t, err)
	assert.Empty(t, page)
}

func TestReviewRepositoryStats(t *testing.T) {
	repo := NewReviewRepository()
	now := time.Now()
	for i, rating := range []float64{5, 4, 3} {
		seedReview(t, repo, fmt.Sprintf("review_%d", i), fmt.Sprintf("booking_%d", i), rating, now)
	}

	stats, err := repo.StatsByHotel(context.Background(), "hotel_1")
	require.NoError(t, err)
	assert.EqualValues(t, 3, stats.Total)
	assert.InDelta(t, 4.0, stats.AvgRating, 0.001)

	empty, err := repo.StatsByHotel(context.Background(), "hotel_other")
	require.NoError(t, err)
	assert.EqualValues(t, 0, empty.Total)
	assert.Zero(t, empty.AvgRating)
}

func TestReviewRepositoryDeleteFreesBooking(t *testing.T) {
	repo := NewReviewRepository()
	seedReview(t, repo, "review_1", "booking_1", 4, time.Now())

	require.NoError(t, repo.Delete(context.Background(), "review_1"))
	assert.ErrorIs(t, repo.Delete(context.Background(), "review_1"), domainreview.ErrNotFound)

	// the booking can be reviewed again after deletion
	replacement, err := domainreview.Submit(domainreview.SubmitParams{
		ID:      "review_2",
		User:    "user_1",
		Room:    "room_1",
		Hotel:   "hotel_1",
		Booking: "booking_1",
		Rating:  5,
		Comment: "second take",
	})
	require.NoError(t, err)
	assert.NoError(t, repo.Save(context.Background(), replacement))
}

func TestHotelRepositoryListByOwnerNewestFirst(t *testing.T) {
	repo := NewHotelRepository()
	base := time.Now().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		hotel, err := domainhotel.New(domainhotel.CreateParams{
			ID:        domainhotel.ID(fmt.Sprintf("hotel_%d", i)),
			Name:      "Hotel",
			Address:   "Addr",
			Contact:   "123",
			City:      "City",
			Owner:     "owner_1",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
		require.NoError(t, repo.Save(context.Background(), hotel))
	}

	hotels, err := repo.ListByOwner(context.Background(), "owner_1")
	require.NoError(t, err)
	require.Len(t, hotels, 3)
	assert.Equal(t, domainhotel.ID("hotel_2"), hotels[0].ID)

	none, err := repo.ListByOwner(context.Background(), "owner_2")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestUserRepositoryReturnsCopies(t *testing.T) {
	repo := NewUserRepository()
	user, err := domainuser.New(domainuser.CreateParams{
		ID:    "user_1",
		Email: "a@example.com",
	})
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), user))

	loaded, err := repo.ByID(context.Background(), "user_1")
	require.NoError(t, err)
	loaded.Email = "mutated@example.com"

	fresh, err := repo.ByID(context.Background(), "user_1")
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", fresh.Email)
}
