package ginserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	gin "github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bookingsapp "quickstay/internal/app/bookings"
	hotelsapp "quickstay/internal/app/hotels"
	reviewsapp "quickstay/internal/app/reviews"
	roomsapp "quickstay/internal/app/rooms"
	usersapp "quickstay/internal/app/users"
	domainbooking "quickstay/internal/domain/booking"
	domainhotel "quickstay/internal/domain/hotel"
	domainroom "quickstay/internal/domain/room"
	domainuser "quickstay/internal/domain/user"
	"quickstay/internal/infra/identity"
	"quickstay/internal/infra/obs"
	"quickstay/internal/infra/storage/memory"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// staticVerifier maps bearer tokens to claims without real JWTs.
type staticVerifier map[string]identity.Claims

func (v staticVerifier) Verify(raw string) (identity.Claims, error) {
	claims, ok := v[raw]
	if !ok {
		return identity.Claims{}, identity.ErrInvalidToken
	}
	return claims, nil
}

type testEnv struct {
	router   *gin.Engine
	users    *memory.UserRepository
	hotels   *memory.HotelRepository
	rooms    *memory.RoomRepository
	bookings *memory.BookingRepository
	reviews  *memory.ReviewRepository
	verifier staticVerifier
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		users:    memory.NewUserRepository(),
		hotels:   memory.NewHotelRepository(),
		rooms:    memory.NewRoomRepository(),
		bookings: memory.NewBookingRepository(),
		reviews:  memory.NewReviewRepository(),
		verifier: staticVerifier{},
	}

	userService := &usersapp.Service{Users: env.users}
	hotelService := &hotelsapp.Service{Hotels: env.hotels, Users: env.users}
	roomService := &roomsapp.Service{Rooms: env.rooms, Hotels: env.hotels, Uploads: memory.NewUploader()}
	bookingService := &bookingsapp.Service{
		Bookings: env.bookings,
		Rooms:    env.rooms,
		Hotels:   env.hotels,
		Users:    env.users,
		Currency: "USD",
	}
	reviewService := &reviewsapp.Service{
		Bookings: env.bookings,
		Hotels:   env.hotels,
		Reviews:  env.reviews,
		Users:    env.users,
	}

	auth := AuthMiddleware{Verifier: env.verifier, Users: userService}
	env.router = NewRouter(obs.Middleware{}, obs.HealthHandlers{}, Handlers{
		User:           UserHandler{Users: userService},
		Hotel:          HotelHandler{Hotels: hotelService},
		Room:           RoomHandler{Rooms: roomService},
		Booking:        BookingHandler{Bookings: bookingService},
		Review:         ReviewHandler{Reviews: reviewService},
		AuthMiddleware: auth.Handle,
	})
	return env
}

func (e *testEnv) addUser(t *testing.T, id, email, username string) {
	t.Helper()
	user, err := domainuser.New(domainuser.CreateParams{
		ID:       domainuser.ID(id),
		Email:    email,
		Username: username,
	})
	require.NoError(t, err)
	require.NoError(t, e.users.Save(context.Background(), user))
	e.verifier["token-"+id] = identity.Claims{Subject: id, Email: email, Name: username}
}

func (e *testEnv) addHotel(t *testing.T, id, owner string) *domainhotel.Hotel {
	t.Helper()
	hotel, err := domainhotel.New(domainhotel.CreateParams{
		ID:      domainhotel.ID(id),
		Name:    "Test Hotel",
		Address: "1 Main St",
		Contact: "+100200300",
		City:    "Lisbon",
		Owner:   domainuser.ID(owner),
	})
	require.NoError(t, err)
	require.NoError(t, e.hotels.Save(context.Background(), hotel))
	return hotel
}

func (e *testEnv) addRoom(t *testing.T, id, hotelID string) *domainroom.Room {
	t.Helper()
	room, err := domainroom.New(domainroom.CreateParams{
		ID:            domainroom.ID(id),
		Hotel:         domainhotel.ID(hotelID),
		RoomType:      domainroom.DoubleBed,
		PricePerNight: 120,
		Images:        []string{"https://img.example.com/room.png"},
	})
	require.NoError(t, err)
	require.NoError(t, e.rooms.Save(context.Background(), room))
	return room
}

func (e *testEnv) addBooking(t *testing.T, id, userID, roomID, hotelID string, checkIn, checkOut time.Time) *domainbooking.Booking {
	t.Helper()
	booking, err := domainbooking.New(domainbooking.CreateParams{
		ID:         domainbooking.ID(id),
		User:       domainuser.ID(userID),
		Room:       domainroom.ID(roomID),
		Hotel:      domainhotel.ID(hotelID),
		Range:      domainbooking.DateRange{CheckIn: checkIn, CheckOut: checkOut},
		Guests:     2,
		TotalPrice: 240,
	})
	require.NoError(t, err)
	require.NoError(t, e.bookings.Save(context.Background(), booking))
	return booking
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestAuthRequiredEndpointsRejectAnonymous(t *testing.T) {
	env := newTestEnv(t)

	for _, tc := range []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/user"},
		{http.MethodGet, "/api/hotels/owner"},
		{http.MethodGet, "/api/bookings/user"},
		{http.MethodPost, "/api/reviews/create-review"},
	} {
		rec := env.do(t, tc.method, tc.path, "", map[string]any{})
		assert.Equal(t, http.StatusUnauthorized, rec.Code, tc.path)
		body := decodeBody(t, rec)
		assert.Equal(t, false, body["success"])
		assert.Equal(t, "User not authenticated", body["message"])
	}
}

func TestAuthMiddlewareSyncsUnknownUserFromClaims(t *testing.T) {
	env := newTestEnv(t)
	env.verifier["fresh-token"] = identity.Claims{
		Subject: "user_new",
		Email:   "new@example.com",
		Name:    "New User",
	}

	rec := env.do(t, http.MethodGet, "/api/user", "fresh-token", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "user", body["role"])

	stored, err := env.users.ByID(context.Background(), "user_new")
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", stored.Email)
}

func TestInvalidTokenIsTreatedAsAnonymous(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/user", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPublicHotelAndRoomListings(t *testing.T) {
	env := newTestEnv(t)
	env.addUser(t, "owner_1", "owner@example.com", "Owner")
	hotel := env.addHotel(t, "hotel_1", "owner_1")
	env.addRoom(t, "room_1", string(hotel.ID))

	rec := env.do(t, http.MethodGet, "/api/hotels", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	require.Len(t, body["hotels"], 1)

	rec = env.do(t, http.MethodGet, "/api/rooms", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body = decodeBody(t, rec)
	require.Len(t, body["rooms"], 1)
}

func TestRegisterHotelPromotesOwner(t *testing.T) {
	env := newTestEnv(t)
	env.addUser(t, "user_1", "ana@example.com", "Ana")

	rec := env.do(t, http.MethodPost, "/api/hotels", "token-user_1", map[string]any{
		"name":    "Seaside",
		"address": "2 Shore Rd",
		"contact": "+351000111",
		"city":    "Porto",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "Hotel Registered Successfully", body["message"])

	user, err := env.users.ByID(context.Background(), "user_1")
	require.NoError(t, err)
	assert.Equal(t, domainuser.RoleHotelOwner, user.Role)
}

func TestRegisterHotelValidation(t *testing.T) {
	env := newTestEnv(t)
	env.addUser(t, "user_1", "ana@example.com", "Ana")

	rec := env.do(t, http.MethodPost, "/api/hotels", "token-user_1", map[string]any{
		"address": "2 Shore Rd",
		"contact": "+351000111",
		"city":    "Porto",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStoreRecentSearchedCity(t *testing.T) {
	env := newTestEnv(t)
	env.addUser(t, "user_1", "ana@example.com", "Ana")

	for _, city := range []string{"Lisbon", "Porto", "Faro", "Braga"} {
		rec := env.do(t, http.MethodPost, "/api/user/store-recent-search", "token-user_1", map[string]any{
			"recentSearchedCity": city,
		})
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := env.do(t, http.MethodGet, "/api/user", "token-user_1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	cities, ok := body["recentSearchedCities"].([]any)
	require.True(t, ok)
	assert.Equal(t, []any{"Porto", "Faro", "Braga"}, cities)
}

func TestCheckAvailabilityAndBook(t *testing.T) {
	env := newTestEnv(t)
	env.addUser(t, "guest_1", "guest@example.com", "Guest")
	env.addUser(t, "owner_1", "owner@example.com", "Owner")
	hotel := env.addHotel(t, "hotel_1", "owner_1")
	env.addRoom(t, "room_1", string(hotel.ID))

	checkIn := time.Now().AddDate(0, 0, 7).Format("2006-01-02")
	checkOut := time.Now().AddDate(0, 0, 9).Format("2006-01-02")

	rec := env.do(t, http.MethodPost, "/api/bookings/check-availability", "", map[string]any{
		"room":         "room_1",
		"checkInDate":  checkIn,
		"checkOutDate": checkOut,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decodeBody(t, rec)["isAvailable"])

	rec = env.do(t, http.MethodPost, "/api/bookings/book", "token-guest_1", map[string]any{
		"room":         "room_1",
		"checkInDate":  checkIn,
		"checkOutDate": checkOut,
		"guests":       2,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	// the same range is now taken
	rec = env.do(t, http.MethodPost, "/api/bookings/check-availability", "", map[string]any{
		"room":         "room_1",
		"checkInDate":  checkIn,
		"checkOutDate": checkOut,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, decodeBody(t, rec)["isAvailable"])

	rec = env.do(t, http.MethodPost, "/api/bookings/book", "token-guest_1", map[string]any{
		"room":         "room_1",
		"checkInDate":  checkIn,
		"checkOutDate": checkOut,
		"guests":       2,
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestBookingRejectsMalformedDates(t *testing.T) {
	env := newTestEnv(t)
	env.addUser(t, "guest_1", "guest@example.com", "Guest")

	rec := env.do(t, http.MethodPost, "/api/bookings/book", "token-guest_1", map[string]any{
		"room":         "room_1",
		"checkInDate":  "not-a-date",
		"checkOutDate": "2026-09-10",
		"guests":       2,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHotelBookingsDashboard(t *testing.T) {
	env := newTestEnv(t)
	env.addUser(t, "guest_1", "guest@example.com", "Guest")
	env.addUser(t, "owner_1", "owner@example.com", "Owner")
	hotel := env.addHotel(t, "hotel_1", "owner_1")
	room := env.addRoom(t, "room_1", string(hotel.ID))

	now := time.Now()
	env.addBooking(t, "booking_1", "guest_1", string(room.ID), string(hotel.ID), now.AddDate(0, 0, 3), now.AddDate(0, 0, 5))
	env.addBooking(t, "booking_2", "guest_1", string(room.ID), string(hotel.ID), now.AddDate(0, 0, 10), now.AddDate(0, 0, 12))

	rec := env.do(t, http.MethodGet, "/api/bookings/hotel", "token-owner_1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	dashboard, ok := body["dashboardData"].(map[string]any)
	require.True(t, ok)
	assert.EqualValues(t, 2, dashboard["totalBookings"])
	assert.EqualValues(t, 480, dashboard["totalRevenue"])
}
