package booking

import (
	"context"
	"errors"
	"time"

	"quickstay/internal/domain/hotel"
	"quickstay/internal/domain/room"
	"quickstay/internal/domain/user"
)

var (
	ErrInvalidGuests = errors.New("booking: guests count must be between 1 and 4")
	ErrUserRequired  = errors.New("booking: user is required")
	ErrInvalidTotal  = errors.New("booking: total price must be positive")
	ErrInvalidState  = errors.New("booking: invalid status transition")
	ErrNotFound      = errors.New("booking: not found")
)

type ID string

type Status string

const (
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
)

const (
	PaymentPayAtHotel = "Pay At Hotel"
	PaymentStripe     = "Stripe"
)

// MaxGuests caps the party size for a single room booking.
const MaxGuests = 4

type Booking struct {
	ID            ID
	User          user.ID
	Room          room.ID
	Hotel         hotel.ID
	Range         DateRange
	Guests        int
	TotalPrice    float64
	Status        Status
	IsPaid        bool
	PaymentMethod string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type Repository interface {
	ByID(ctx context.Context, id ID) (*Booking, error)
	ListByUser(ctx context.Context, userID user.ID) ([]*Booking, error)
	ListByHotel(ctx context.Context, hotelID hotel.ID) ([]*Booking, error)
	ListByRoom(ctx context.Context, roomID room.ID) ([]*Booking, error)
	Save(ctx context.Context, booking *Booking) error
}

type CreateParams struct {
	ID         ID
	User       user.ID
	Room       room.ID
	Hotel      hotel.ID
	Range      DateRange
	Guests     int
	TotalPrice float64
	CreatedAt  time.Time
}

func New(params CreateParams) (*Booking, error) {
	if string(params.User) == "" {
		return nil, ErrUserRequired
	}
	if err := params.Range.Validate(); err != nil {
		return nil, err
	}
	if params.Guests < 1 || params.Guests > MaxGuests {
		return nil, ErrInvalidGuests
	}
	if params.TotalPrice <= 0 {
		return nil, ErrInvalidTotal
	}

	now := params.CreatedAt
	if now.IsZero() {
		now = time.Now()
	}
	now = now.UTC()

	return &Booking{
		ID:            params.ID,
		User:          params.User,
		Room:          params.Room,
		Hotel:         params.Hotel,
		Range:         params.Range.normalized(),
		Guests:        params.Guests,
		TotalPrice:    params.TotalPrice,
		Status:        StatusConfirmed,
		PaymentMethod: PaymentPayAtHotel,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

func (b *Booking) Cancel(now time.Time) error {
	if b.Status == StatusCancelled {
		return ErrInvalidState
	}
	b.Status = StatusCancelled
	b.touch(now)
	return nil
}

func (b *Booking) MarkPaid(method string, now time.Time) {
	b.IsPaid = true
	if method != "" {
		b.PaymentMethod = method
	}
	b.touch(now)
}

// CheckedOutBy reports whether the stay has finished as of now.
func (b *Booking) CheckedOutBy(now time.Time) bool {
	return !b.Range.CheckOut.After(now)
}

func (b *Booking) touch(now time.Time) {
	if now.IsZero() {
		now = time.Now()
	}
	b.UpdatedAt = now.UTC()
}
