package bookings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"quickstay/internal/app/policies"
	domainbooking "quickstay/internal/domain/booking"
	domainhotel "quickstay/internal/domain/hotel"
	domainroom "quickstay/internal/domain/room"
	domainuser "quickstay/internal/domain/user"
)

var (
	ErrRoomUnavailable = errors.New("bookings: room is not available for the selected dates")
	ErrNotBookingOwner = errors.New("bookings: booking does not belong to current user")
	ErrAlreadyPaid     = errors.New("bookings: booking is already paid")
)

// Service handles availability checks, booking creation and owner reports.
type Service struct {
	Bookings domainbooking.Repository
	Rooms    domainroom.Repository
	Hotels   domainhotel.Repository
	Users    domainuser.Repository
	Payments policies.PaymentsPort
	Mailer   policies.MailerPort
	Events   policies.EventsPort
	Currency string
	Logger   *slog.Logger
}

// CheckAvailability reports whether the room has no overlapping
// non-cancelled booking in the given range.
func (s *Service) CheckAvailability(ctx context.Context, roomID domainroom.ID, rng domainbooking.DateRange) (bool, error) {
	if err := rng.Validate(); err != nil {
		return false, err
	}
	existing, err := s.Bookings.ListByRoom(ctx, roomID)
	if err != nil {
		return false, err
	}
	for _, b := range existing {
		if b.Status == domainbooking.StatusCancelled {
			continue
		}
		if b.Range.Overlaps(rng) {
			return false, nil
		}
	}
	return true, nil
}

type CreateParams struct {
	RoomID string
	Range  domainbooking.DateRange
	Guests int
	Now    time.Time
}

// Create books a room for the acting user, pricing the stay at the
// room's nightly rate. The confirmation email and the domain event are
// best effort.
func (s *Service) Create(ctx context.Context, userID domainuser.ID, params CreateParams) (*domainbooking.Booking, error) {
	if err := params.Range.Validate(); err != nil {
		return nil, err
	}

	room, err := s.Rooms.ByID(ctx, domainroom.ID(params.RoomID))
	if err != nil {
		return nil, err
	}
	if !room.IsAvailable {
		return nil, ErrRoomUnavailable
	}
	available, err := s.CheckAvailability(ctx, room.ID, params.Range)
	if err != nil {
		return nil, err
	}
	if !available {
		return nil, ErrRoomUnavailable
	}

	booking, err := domainbooking.New(domainbooking.CreateParams{
		ID:         domainbooking.ID(uuid.NewString()),
		User:       userID,
		Room:       room.ID,
		Hotel:      room.Hotel,
		Range:      params.Range,
		Guests:     params.Guests,
		TotalPrice: domainbooking.TotalFor(room.PricePerNight, params.Range),
		CreatedAt:  params.Now,
	})
	if err != nil {
		return nil, err
	}
	if err := s.Bookings.Save(ctx, booking); err != nil {
		return nil, err
	}

	s.publishConfirmed(ctx, booking)
	s.sendConfirmation(ctx, booking)

	if s.Logger != nil {
		s.Logger.Info("booking created", "booking_id", booking.ID, "room_id", room.ID, "hotel_id", room.Hotel, "total", booking.TotalPrice)
	}
	return booking, nil
}

func (s *Service) ListByUser(ctx context.Context, userID domainuser.ID) ([]*domainbooking.Booking, error) {
	return s.Bookings.ListByUser(ctx, userID)
}

// HotelReport is the owner dashboard projection.
type HotelReport struct {
	Bookings      []*domainbooking.Booking
	TotalBookings int
	TotalRevenue  float64
}

// HotelBookings aggregates bookings across every hotel the user owns.
func (s *Service) HotelBookings(ctx context.Context, owner domainuser.ID) (HotelReport, error) {
	hotels, err := s.Hotels.ListByOwner(ctx, owner)
	if err != nil {
		return HotelReport{}, err
	}

	report := HotelReport{Bookings: []*domainbooking.Booking{}}
	for _, h := range hotels {
		bookings, err := s.Bookings.ListByHotel(ctx, h.ID)
		if err != nil {
			return HotelReport{}, err
		}
		for _, b := range bookings {
			report.Bookings = append(report.Bookings, b)
			report.TotalBookings++
			report.TotalRevenue += b.TotalPrice
		}
	}
	return report, nil
}

// CreateCheckoutSession asks the payment provider for a redirect URL for
// an unpaid booking owned by the acting user.
func (s *Service) CreateCheckoutSession(ctx context.Context, userID domainuser.ID, bookingID string, originURL string) (string, error) {
	if s.Payments == nil {
		return "", errors.New("bookings: payment provider not configured")
	}
	booking, err := s.Bookings.ByID(ctx, domainbooking.ID(bookingID))
	if err != nil {
		return "", err
	}
	if booking.User != userID {
		return "", ErrNotBookingOwner
	}
	if booking.IsPaid {
		return "", ErrAlreadyPaid
	}

	description := "Hotel stay"
	if room, err := s.Rooms.ByID(ctx, booking.Room); err == nil {
		description = string(room.RoomType)
	}

	url, err := s.Payments.CreateCheckoutSession(ctx, policies.CheckoutParams{
		BookingID:   string(booking.ID),
		Amount:      booking.TotalPrice,
		Currency:    s.Currency,
		Description: description,
		OriginURL:   originURL,
	})
	if err != nil {
		return "", err
	}

	booking.PaymentMethod = domainbooking.PaymentStripe
	if err := s.Bookings.Save(ctx, booking); err != nil {
		return "", err
	}
	return url, nil
}

func (s *Service) publishConfirmed(ctx context.Context, booking *domainbooking.Booking) {
	if s.Events == nil {
		return
	}
	payload, err := json.Marshal(map[string]any{
		"booking_id": booking.ID,
		"room_id":    booking.Room,
		"hotel_id":   booking.Hotel,
		"check_in":   booking.Range.CheckIn,
		"check_out":  booking.Range.CheckOut,
		"total":      booking.TotalPrice,
	})
	if err != nil {
		return
	}
	if err := s.Events.Publish(ctx, "booking.confirmed", string(booking.Hotel), payload); err != nil && s.Logger != nil {
		s.Logger.Warn("booking event publish failed", "booking_id", booking.ID, "error", err)
	}
}

func (s *Service) sendConfirmation(ctx context.Context, booking *domainbooking.Booking) {
	if s.Mailer == nil {
		return
	}
	user, err := s.Users.ByID(ctx, booking.User)
	if err != nil || user.Email == "" {
		return
	}
	body := fmt.Sprintf(
		"Hi %s,\n\nYour booking is confirmed.\n\nCheck-in: %s\nCheck-out: %s\nGuests: %d\nTotal: %.2f %s\n",
		user.Username,
		booking.Range.CheckIn.Format("Mon, 02 Jan 2006"),
		booking.Range.CheckOut.Format("Mon, 02 Jan 2006"),
		booking.Guests,
		booking.TotalPrice,
		s.Currency,
	)
	mail := policies.Mail{To: user.Email, Subject: "Booking confirmation", Body: body}
	if err := s.Mailer.Send(ctx, mail); err != nil && s.Logger != nil {
		s.Logger.Warn("confirmation email failed", "booking_id", booking.ID, "error", err)
	}
}
