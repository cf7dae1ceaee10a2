package rooms

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"quickstay/internal/app/policies"
	domainhotel "quickstay/internal/domain/hotel"
	domainroom "quickstay/internal/domain/room"
	domainuser "quickstay/internal/domain/user"
)

var (
	ErrNoHotel  = errors.New("rooms: no registered hotel for this user")
	ErrNotOwner = errors.New("rooms: hotel does not belong to current user")
)

// Service provides owner-scoped room management and public room reads.
type Service struct {
	Rooms   domainroom.Repository
	Hotels  domainhotel.Repository
	Uploads policies.UploaderPort
	Logger  *slog.Logger
}

// ImageUpload is one image file attached to a room creation request.
type ImageUpload struct {
	Name        string
	ContentType string
	Reader      io.Reader
}

type CreateParams struct {
	HotelID       string
	RoomType      string
	PricePerNight float64
	Amenities     []string
	Images        []ImageUpload
	Now           time.Time
}

// Create stores the uploaded images and persists a room under one of the
// acting owner's hotels. When HotelID is empty the most recently
// registered hotel is used.
func (s *Service) Create(ctx context.Context, owner domainuser.ID, params CreateParams) (*domainroom.Room, error) {
	hotel, err := s.resolveHotel(ctx, owner, params.HotelID)
	if err != nil {
		return nil, err
	}
	if len(params.Images) == 0 {
		return nil, domainroom.ErrImagesRequired
	}

	roomID := domainroom.ID(uuid.NewString())
	urls := make([]string, 0, len(params.Images))
	for i, img := range params.Images {
		key := fmt.Sprintf("rooms/%s/%d-%s", roomID, i, img.Name)
		url, err := s.Uploads.Upload(ctx, key, img.Reader, img.ContentType)
		if err != nil {
			return nil, fmt.Errorf("rooms: upload image: %w", err)
		}
		urls = append(urls, url)
	}

	room, err := domainroom.New(domainroom.CreateParams{
		ID:            roomID,
		Hotel:         hotel.ID,
		RoomType:      domainroom.RoomType(params.RoomType),
		PricePerNight: params.PricePerNight,
		Amenities:     params.Amenities,
		Images:        urls,
		CreatedAt:     params.Now,
	})
	if err != nil {
		return nil, err
	}
	if err := s.Rooms.Save(ctx, room); err != nil {
		return nil, err
	}

	if s.Logger != nil {
		s.Logger.Info("room created", "room_id", room.ID, "hotel_id", hotel.ID, "room_type", room.RoomType)
	}
	return room, nil
}

func (s *Service) ListAvailable(ctx context.Context) ([]*domainroom.Room, error) {
	return s.Rooms.ListAvailable(ctx)
}

func (s *Service) ListByHotel(ctx context.Context, hotelID domainhotel.ID) ([]*domainroom.Room, error) {
	if _, err := s.Hotels.ByID(ctx, hotelID); err != nil {
		return nil, err
	}
	return s.Rooms.ListByHotel(ctx, hotelID)
}

// ListOwnerRooms returns rooms across every hotel the user owns.
func (s *Service) ListOwnerRooms(ctx context.Context, owner domainuser.ID) ([]*domainroom.Room, error) {
	hotels, err := s.Hotels.ListByOwner(ctx, owner)
	if err != nil {
		return nil, err
	}
	ids := make([]domainhotel.ID, 0, len(hotels))
	for _, h := range hotels {
		ids = append(ids, h.ID)
	}
	if len(ids) == 0 {
		return []*domainroom.Room{}, nil
	}
	return s.Rooms.ListByHotels(ctx, ids)
}

// ToggleAvailability flips the availability switch on a room owned by
// the acting user.
func (s *Service) ToggleAvailability(ctx context.Context, owner domainuser.ID, roomID domainroom.ID) (*domainroom.Room, error) {
	room, err := s.Rooms.ByID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	hotel, err := s.Hotels.ByID(ctx, room.Hotel)
	if err != nil {
		return nil, err
	}
	if !hotel.OwnedBy(owner) {
		return nil, ErrNotOwner
	}

	room.ToggleAvailability(time.Now())
	if err := s.Rooms.Save(ctx, room); err != nil {
		return nil, err
	}
	if s.Logger != nil {
		s.Logger.Info("room availability toggled", "room_id", room.ID, "is_available", room.IsAvailable)
	}
	return room, nil
}

func (s *Service) resolveHotel(ctx context.Context, owner domainuser.ID, hotelID string) (*domainhotel.Hotel, error) {
	if hotelID != "" {
		hotel, err := s.Hotels.ByID(ctx, domainhotel.ID(hotelID))
		if err != nil {
			return nil, err
		}
		if !hotel.OwnedBy(owner) {
			return nil, ErrNotOwner
		}
		return hotel, nil
	}
	hotels, err := s.Hotels.ListByOwner(ctx, owner)
	if err != nil {
		return nil, err
	}
	if len(hotels) == 0 {
		return nil, ErrNoHotel
	}
	return hotels[0], nil
}
