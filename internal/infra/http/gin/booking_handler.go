package ginserver

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	gin "github.com/gin-gonic/gin"

	bookingsapp "quickstay/internal/app/bookings"
	domainbooking "quickstay/internal/domain/booking"
	domainroom "quickstay/internal/domain/room"
	domainuser "quickstay/internal/domain/user"
)

type BookingHandler struct {
	Bookings *bookingsapp.Service
	Logger   *slog.Logger
}

type checkAvailabilityRequest struct {
	Room         string `json:"room"`
	CheckInDate  string `json:"checkInDate"`
	CheckOutDate string `json:"checkOutDate"`
}

func (h BookingHandler) CheckAvailability(c *gin.Context) {
	var req checkAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	rng, err := parseDateRange(req.CheckInDate, req.CheckOutDate)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid check-in or check-out date")
		return
	}
	available, err := h.Bookings.CheckAvailability(c.Request.Context(), domainroom.ID(req.Room), rng)
	if err != nil {
		if errors.Is(err, domainbooking.ErrInvalidRange) {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}
		h.fail(c, "check availability", err)
		return
	}
	respondOK(c, gin.H{"isAvailable": available})
}

type createBookingRequest struct {
	Room         string `json:"room"`
	CheckInDate  string `json:"checkInDate"`
	CheckOutDate string `json:"checkOutDate"`
	Guests       int    `json:"guests"`
}

func (h BookingHandler) Create(c *gin.Context) {
	p, ok := requireUser(c)
	if !ok {
		return
	}
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	rng, err := parseDateRange(req.CheckInDate, req.CheckOutDate)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid check-in or check-out date")
		return
	}
	booking, err := h.Bookings.Create(c.Request.Context(), domainuser.ID(p.ID), bookingsapp.CreateParams{
		RoomID: req.Room,
		Range:  rng,
		Guests: req.Guests,
	})
	if err != nil {
		h.handleCreateError(c, err)
		return
	}
	respondOK(c, gin.H{"message": "Booking created successfully", "booking": newBookingView(booking)})
}

func (h BookingHandler) handleCreateError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domainbooking.ErrInvalidRange),
		errors.Is(err, domainbooking.ErrInvalidGuests):
		respondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, domainroom.ErrNotFound):
		respondError(c, http.StatusNotFound, "Room not found")
	case errors.Is(err, bookingsapp.ErrRoomUnavailable):
		respondError(c, http.StatusConflict, "Room is not available")
	default:
		h.fail(c, "create booking", err)
	}
}

func (h BookingHandler) ListUserBookings(c *gin.Context) {
	p, ok := requireUser(c)
	if !ok {
		return
	}
	bookings, err := h.Bookings.ListByUser(c.Request.Context(), domainuser.ID(p.ID))
	if err != nil {
		h.fail(c, "list user bookings", err)
		return
	}
	respondOK(c, gin.H{"bookings": newBookingViews(bookings)})
}

func (h BookingHandler) HotelBookings(c *gin.Context) {
	p, ok := requireUser(c)
	if !ok {
		return
	}
	report, err := h.Bookings.HotelBookings(c.Request.Context(), domainuser.ID(p.ID))
	if err != nil {
		h.fail(c, "hotel bookings", err)
		return
	}
	respondOK(c, gin.H{"dashboardData": gin.H{
		"totalBookings": report.TotalBookings,
		"totalRevenue":  report.TotalRevenue,
		"bookings":      newBookingViews(report.Bookings),
	}})
}

type stripePaymentRequest struct {
	BookingID string `json:"bookingId"`
}

func (h BookingHandler) StripePayment(c *gin.Context) {
	p, ok := requireUser(c)
	if !ok {
		return
	}
	var req stripePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	url, err := h.Bookings.CreateCheckoutSession(c.Request.Context(), domainuser.ID(p.ID), req.BookingID, c.GetHeader("Origin"))
	if err != nil {
		switch {
		case errors.Is(err, domainbooking.ErrNotFound):
			respondError(c, http.StatusNotFound, "Booking not found")
		case errors.Is(err, bookingsapp.ErrNotBookingOwner):
			respondError(c, http.StatusForbidden, "Booking does not belong to current user")
		case errors.Is(err, bookingsapp.ErrAlreadyPaid):
			respondError(c, http.StatusConflict, "Booking is already paid")
		default:
			h.fail(c, "stripe payment", err)
		}
		return
	}
	respondOK(c, gin.H{"url": url})
}

// parseDateRange accepts plain dates or RFC3339 timestamps.
func parseDateRange(checkIn, checkOut string) (domainbooking.DateRange, error) {
	in, err := parseDate(checkIn)
	if err != nil {
		return domainbooking.DateRange{}, err
	}
	out, err := parseDate(checkOut)
	if err != nil {
		return domainbooking.DateRange{}, err
	}
	return domainbooking.DateRange{CheckIn: in, CheckOut: out}, nil
}

func parseDate(raw string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, raw)
}

func (h BookingHandler) fail(c *gin.Context, op string, err error) {
	if h.Logger != nil {
		h.Logger.Error("booking handler error", "op", op, "error", err)
	}
	respondError(c, http.StatusInternalServerError, "Internal server error")
}
