package ginserver

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainbooking "quickstay/internal/domain/booking"
)

// pastBooking seeds a booking whose stay already finished, so it is
// eligible for review.
func (e *testEnv) pastBooking(t *testing.T, id, userID, roomID, hotelID string) *domainbooking.Booking {
	t.Helper()
	now := time.Now()
	return e.addBooking(t, id, userID, roomID, hotelID, now.AddDate(0, 0, -5), now.AddDate(0, 0, -3))
}

func setupReviewFixture(t *testing.T) *testEnv {
	env := newTestEnv(t)
	env.addUser(t, "guest_1", "guest@example.com", "Guest")
	env.addUser(t, "owner_1", "owner@example.com", "Owner")
	env.addUser(t, "other_1", "other@example.com", "Other")
	hotel := env.addHotel(t, "hotel_1", "owner_1")
	env.addRoom(t, "room_1", string(hotel.ID))
	env.pastBooking(t, "booking_1", "guest_1", "room_1", "hotel_1")
	return env
}

func TestCreateReviewHappyPath(t *testing.T) {
	env := setupReviewFixture(t)

	rec := env.do(t, http.MethodPost, "/api/reviews/create-review", "token-guest_1", map[string]any{
		"bookingId": "booking_1",
		"rating":    4.5,
		"comment":   "Great stay, clean rooms.",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	review, ok := body["review"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "booking_1", review["booking"])
	assert.Equal(t, "room_1", review["room"])
	assert.Equal(t, "hotel_1", review["hotel"])
	assert.EqualValues(t, 4.5, review["rating"])
}

func TestCreateReviewMissingFields(t *testing.T) {
	env := setupReviewFixture(t)

	rec := env.do(t, http.MethodPost, "/api/reviews/create-review", "token-guest_1", map[string]any{
		"comment": "no booking or rating",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Missing required fields", decodeBody(t, rec)["message"])
}

func TestCreateReviewRequiresComment(t *testing.T) {
	env := setupReviewFixture(t)

	rec := env.do(t, http.MethodPost, "/api/reviews/create-review", "token-guest_1", map[string]any{
		"bookingId": "booking_1",
		"rating":    4,
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Comment is required", body["message"])
}

func TestCreateReviewRejectsOverlongComment(t *testing.T) {
	env := setupReviewFixture(t)

	rec := env.do(t, http.MethodPost, "/api/reviews/create-review", "token-guest_1", map[string]any{
		"bookingId": "booking_1",
		"rating":    4,
		"comment":   strings.Repeat("a", 501),
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Comment must be at most 500 characters", decodeBody(t, rec)["message"])
}

func TestCreateReviewStatusMatrix(t *testing.T) {
	tests := []struct {
		name       string
		setup      func(t *testing.T, env *testEnv)
		token      string
		bookingID  string
		rating     float64
		wantStatus int
		wantMsg    string
	}{
		{
			name:       "invalid rating low",
			token:      "token-guest_1",
			bookingID:  "booking_1",
			rating:     0,
			wantStatus: http.StatusBadRequest,
			wantMsg:    "Rating must be a number between 1 and 5",
		},
		{
			name:       "invalid rating high",
			token:      "token-guest_1",
			bookingID:  "booking_1",
			rating:     6,
			wantStatus: http.StatusBadRequest,
			wantMsg:    "Rating must be a number between 1 and 5",
		},
		{
			name:       "unknown booking",
			token:      "token-guest_1",
			bookingID:  "missing",
			rating:     4,
			wantStatus: http.StatusNotFound,
			wantMsg:    "Booking not found",
		},
		{
			name:       "not booking owner",
			token:      "token-other_1",
			bookingID:  "booking_1",
			rating:     4,
			wantStatus: http.StatusForbidden,
			wantMsg:    "You are not allowed to review this booking",
		},
		{
			name: "cancelled booking",
			setup: func(t *testing.T, env *testEnv) {
				booking := env.pastBooking(t, "booking_c", "guest_1", "room_1", "hotel_1")
				require.NoError(t, booking.Cancel(time.Now()))
				require.NoError(t, env.bookings.Save(context.Background(), booking))
			},
			token:      "token-guest_1",
			bookingID:  "booking_c",
			rating:     4,
			wantStatus: http.StatusForbidden,
			wantMsg:    "Cannot review a cancelled booking",
		},
		{
			name: "stay not finished",
			setup: func(t *testing.T, env *testEnv) {
				now := time.Now()
				env.addBooking(t, "booking_f", "guest_1", "room_1", "hotel_1", now.AddDate(0, 0, 5), now.AddDate(0, 0, 7))
			},
			token:      "token-guest_1",
			bookingID:  "booking_f",
			rating:     4,
			wantStatus: http.StatusForbidden,
			wantMsg:    "You can only review after checkout",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			env := setupReviewFixture(t)
			if tc.setup != nil {
				tc.setup(t, env)
			}
			rec := env.do(t, http.MethodPost, "/api/reviews/create-review", tc.token, map[string]any{
				"bookingId": tc.bookingID,
				"rating":    tc.rating,
			})
			assert.Equal(t, tc.wantStatus, rec.Code)
			body := decodeBody(t, rec)
			assert.Equal(t, false, body["success"])
			assert.Equal(t, tc.wantMsg, body["message"])
		})
	}
}

func TestCreateReviewDuplicateConflict(t *testing.T) {
	env := setupReviewFixture(t)

	rec := env.do(t, http.MethodPost, "/api/reviews/create-review", "token-guest_1", map[string]any{
		"bookingId": "booking_1",
		"rating":    5,
		"comment":   "Lovely stay.",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/reviews/create-review", "token-guest_1", map[string]any{
		"bookingId": "booking_1",
		"rating":    3,
		"comment":   "Changed my mind.",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "Review for this booking already exists", decodeBody(t, rec)["message"])
}

func TestListRoomReviewsWithAuthorAndMeta(t *testing.T) {
	env := setupReviewFixture(t)

	ratings := []float64{5, 4, 3}
	for i, rating := range ratings {
		env.pastBooking(t, fmt.Sprintf("booking_l%d", i), "guest_1", "room_1", "hotel_1")
		rec := env.do(t, http.MethodPost, "/api/reviews/create-review", "token-guest_1", map[string]any{
			"bookingId": fmt.Sprintf("booking_l%d", i),
			"rating":    rating,
			"comment":   fmt.Sprintf("Stay number %d.", i),
		})
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := env.do(t, http.MethodGet, "/api/reviews/room/room_1", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)

	reviews, ok := body["reviews"].([]any)
	require.True(t, ok)
	require.Len(t, reviews, 3)
	first, ok := reviews[0].(map[string]any)
	require.True(t, ok)
	author, ok := first["author"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Guest", author["username"])

	meta, ok := body["meta"].(map[string]any)
	require.True(t, ok)
	assert.EqualValues(t, 3, meta["total"])
	assert.EqualValues(t, 1, meta["page"])
	assert.EqualValues(t, 10, meta["limit"])
	assert.InDelta(t, 4.0, meta["avgRating"], 0.001)
}

func TestListHotelReviewsEmpty(t *testing.T) {
	env := setupReviewFixture(t)

	rec := env.do(t, http.MethodGet, "/api/reviews/hotel/hotel_1", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Empty(t, body["reviews"])
	meta, ok := body["meta"].(map[string]any)
	require.True(t, ok)
	assert.EqualValues(t, 0, meta["total"])
	assert.EqualValues(t, 0, meta["avgRating"])
}

func createReview(t *testing.T, env *testEnv) string {
	t.Helper()
	rec := env.do(t, http.MethodPost, "/api/reviews/create-review", "token-guest_1", map[string]any{
		"bookingId": "booking_1",
		"rating":    4,
		"comment":   "Solid.",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	review, ok := decodeBody(t, rec)["review"].(map[string]any)
	require.True(t, ok)
	id, ok := review["_id"].(string)
	require.True(t, ok)
	return id
}

func TestUpdateReviewAuthorOnly(t *testing.T) {
	env := setupReviewFixture(t)
	reviewID := createReview(t, env)

	// hotel owner cannot edit
	rec := env.do(t, http.MethodPut, "/api/reviews/"+reviewID, "token-owner_1", map[string]any{
		"rating": 1,
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// author can, partially
	rec = env.do(t, http.MethodPut, "/api/reviews/"+reviewID, "token-guest_1", map[string]any{
		"rating": 2,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	review, ok := decodeBody(t, rec)["review"].(map[string]any)
	require.True(t, ok)
	assert.EqualValues(t, 2, review["rating"])
	assert.Equal(t, "Solid.", review["comment"])
}

func TestUpdateReviewInvalidRating(t *testing.T) {
	env := setupReviewFixture(t)
	reviewID := createReview(t, env)

	rec := env.do(t, http.MethodPut, "/api/reviews/"+reviewID, "token-guest_1", map[string]any{
		"rating": 0,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteReviewAuthorization(t *testing.T) {
	env := setupReviewFixture(t)

	t.Run("third party is rejected", func(t *testing.T) {
		reviewID := createReview(t, env)
		rec := env.do(t, http.MethodDelete, "/api/reviews/"+reviewID, "token-other_1", nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)

		rec = env.do(t, http.MethodDelete, "/api/reviews/"+reviewID, "token-guest_1", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "Review deleted", decodeBody(t, rec)["message"])
	})

	t.Run("hotel owner may delete", func(t *testing.T) {
		env.pastBooking(t, "booking_2", "guest_1", "room_1", "hotel_1")
		rec := env.do(t, http.MethodPost, "/api/reviews/create-review", "token-guest_1", map[string]any{
			"bookingId": "booking_2",
			"rating":    3,
			"comment":   "Average at best.",
		})
		require.Equal(t, http.StatusOK, rec.Code)
		review, ok := decodeBody(t, rec)["review"].(map[string]any)
		require.True(t, ok)
		reviewID, ok := review["_id"].(string)
		require.True(t, ok)

		rec = env.do(t, http.MethodDelete, "/api/reviews/"+reviewID, "token-owner_1", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("missing review is 404", func(t *testing.T) {
		rec := env.do(t, http.MethodDelete, "/api/reviews/nope", "token-guest_1", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
