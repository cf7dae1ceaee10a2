package hotels

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	domainhotel "quickstay/internal/domain/hotel"
	domainuser "quickstay/internal/domain/user"
)

// Service manages hotel registration and read projections.
type Service struct {
	Hotels domainhotel.Repository
	Users  domainuser.Repository
	Logger *slog.Logger
}

type RegisterParams struct {
	Name    string
	Address string
	Contact string
	City    string
	Now     time.Time
}

// Register creates a hotel for the acting user and promotes them to
// hotelOwner when needed. An owner may register any number of hotels;
// the promotion is idempotent.
func (s *Service) Register(ctx context.Context, owner domainuser.ID, params RegisterParams) (*domainhotel.Hotel, error) {
	now := params.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}

	hotel, err := domainhotel.New(domainhotel.CreateParams{
		ID:        domainhotel.ID(uuid.NewString()),
		Name:      params.Name,
		Address:   params.Address,
		Contact:   params.Contact,
		City:      params.City,
		Owner:     owner,
		CreatedAt: now,
	})
	if err != nil {
		return nil, err
	}
	if err := s.Hotels.Save(ctx, hotel); err != nil {
		return nil, err
	}

	if err := s.promoteOwner(ctx, owner, now); err != nil {
		return nil, err
	}

	if s.Logger != nil {
		s.Logger.Info("hotel registered", "hotel_id", hotel.ID, "owner_id", owner, "city", hotel.City)
	}
	return hotel, nil
}

func (s *Service) promoteOwner(ctx context.Context, owner domainuser.ID, now time.Time) error {
	user, err := s.Users.ByID(ctx, owner)
	if err != nil {
		// local cache may lag the identity provider; the hotel stays valid
		if errors.Is(err, domainuser.ErrNotFound) {
			return nil
		}
		return err
	}
	if user.PromoteToHotelOwner(now) {
		return s.Users.Save(ctx, user)
	}
	return nil
}

func (s *Service) ListAll(ctx context.Context) ([]*domainhotel.Hotel, error) {
	return s.Hotels.ListAll(ctx)
}

func (s *Service) ByID(ctx context.Context, id domainhotel.ID) (*domainhotel.Hotel, error) {
	return s.Hotels.ByID(ctx, id)
}

func (s *Service) ListByOwner(ctx context.Context, owner domainuser.ID) ([]*domainhotel.Hotel, error) {
	return s.Hotels.ListByOwner(ctx, owner)
}
