package hotel

import (
	"context"
	"errors"
	"strings"
	"time"

	"quickstay/internal/domain/user"
)

var (
	ErrNameRequired    = errors.New("hotel: name is required")
	ErrAddressRequired = errors.New("hotel: address is required")
	ErrContactRequired = errors.New("hotel: contact is required")
	ErrCityRequired    = errors.New("hotel: city is required")
	ErrOwnerRequired   = errors.New("hotel: owner is required")
	ErrNotFound        = errors.New("hotel: not found")
)

type ID string

type Hotel struct {
	ID        ID
	Name      string
	Address   string
	Contact   string
	City      string
	Owner     user.ID
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Repository interface {
	ByID(ctx context.Context, id ID) (*Hotel, error)
	ListAll(ctx context.Context) ([]*Hotel, error)
	ListByOwner(ctx context.Context, owner user.ID) ([]*Hotel, error)
	Save(ctx context.Context, hotel *Hotel) error
}

type CreateParams struct {
	ID        ID
	Name      string
	Address   string
	Contact   string
	City      string
	Owner     user.ID
	CreatedAt time.Time
}

func New(params CreateParams) (*Hotel, error) {
	name := strings.TrimSpace(params.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	address := strings.TrimSpace(params.Address)
	if address == "" {
		return nil, ErrAddressRequired
	}
	contact := strings.TrimSpace(params.Contact)
	if contact == "" {
		return nil, ErrContactRequired
	}
	city := strings.TrimSpace(params.City)
	if city == "" {
		return nil, ErrCityRequired
	}
	if strings.TrimSpace(string(params.Owner)) == "" {
		return nil, ErrOwnerRequired
	}

	now := params.CreatedAt
	if now.IsZero() {
		now = time.Now()
	}
	now = now.UTC()

	return &Hotel{
		ID:        params.ID,
		Name:      name,
		Address:   address,
		Contact:   contact,
		City:      city,
		Owner:     params.Owner,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// OwnedBy reports whether the given user registered this hotel.
func (h *Hotel) OwnedBy(id user.ID) bool {
	return h.Owner == id
}
