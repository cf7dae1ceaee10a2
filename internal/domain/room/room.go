package room

import (
	"context"
	"errors"
	"strings"
	"time"

	"quickstay/internal/domain/hotel"
)

var (
	ErrInvalidRoomType = errors.New("room: invalid room type")
	ErrInvalidPrice    = errors.New("room: price per night must be positive")
	ErrImagesRequired  = errors.New("room: at least one image is required")
	ErrHotelRequired   = errors.New("room: hotel is required")
	ErrNotFound        = errors.New("room: not found")
)

type ID string

type RoomType string

const (
	SingleBed   RoomType = "Single Bed"
	DoubleBed   RoomType = "Double Bed"
	LuxuryRoom  RoomType = "Luxury Room"
	FamilySuite RoomType = "Family Suite"
)

// ParseRoomType maps free-form input onto the supported room types.
func ParseRoomType(raw string) (RoomType, error) {
	trimmed := strings.TrimSpace(raw)
	for _, rt := range []RoomType{SingleBed, DoubleBed, LuxuryRoom, FamilySuite} {
		if strings.EqualFold(trimmed, string(rt)) {
			return rt, nil
		}
	}
	return "", ErrInvalidRoomType
}

type Room struct {
	ID            ID
	Hotel         hotel.ID
	RoomType      RoomType
	PricePerNight float64
	Amenities     []string
	Images        []string
	IsAvailable   bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type Repository interface {
	ByID(ctx context.Context, id ID) (*Room, error)
	ListAvailable(ctx context.Context) ([]*Room, error)
	ListByHotel(ctx context.Context, hotelID hotel.ID) ([]*Room, error)
	ListByHotels(ctx context.Context, hotelIDs []hotel.ID) ([]*Room, error)
	Save(ctx context.Context, room *Room) error
}

type CreateParams struct {
	ID            ID
	Hotel         hotel.ID
	RoomType      RoomType
	PricePerNight float64
	Amenities     []string
	Images        []string
	CreatedAt     time.Time
}

func New(params CreateParams) (*Room, error) {
	if strings.TrimSpace(string(params.Hotel)) == "" {
		return nil, ErrHotelRequired
	}
	roomType, err := ParseRoomType(string(params.RoomType))
	if err != nil {
		return nil, err
	}
	if params.PricePerNight <= 0 {
		return nil, ErrInvalidPrice
	}
	images := compact(params.Images)
	if len(images) == 0 {
		return nil, ErrImagesRequired
	}

	now := params.CreatedAt
	if now.IsZero() {
		now = time.Now()
	}
	now = now.UTC()

	return &Room{
		ID:            params.ID,
		Hotel:         params.Hotel,
		RoomType:      roomType,
		PricePerNight: params.PricePerNight,
		Amenities:     compact(params.Amenities),
		Images:        images,
		IsAvailable:   true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// ToggleAvailability flips the owner-controlled availability switch.
func (r *Room) ToggleAvailability(now time.Time) {
	r.IsAvailable = !r.IsAvailable
	if now.IsZero() {
		now = time.Now()
	}
	r.UpdatedAt = now.UTC()
}

func compact(values []string) []string {
	result := make([]string, 0, len(values))
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
