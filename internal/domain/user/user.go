package user

import (
	"context"
	"errors"
	"strings"
	"time"
)

var (
	ErrIDRequired    = errors.New("user: id is required")
	ErrEmailRequired = errors.New("user: email is required")
	ErrInvalidRole   = errors.New("user: invalid role")
	ErrCityRequired  = errors.New("user: city is required")
	ErrNotFound      = errors.New("user: not found")
)

type ID string

type Role string

const (
	RoleUser       Role = "user"
	RoleHotelOwner Role = "hotelOwner"
)

// RecentCityLimit bounds the recently-searched-cities list.
const RecentCityLimit = 3

// User is the local cache of an identity-provider account.
type User struct {
	ID                   ID
	Email                string
	Username             string
	Image                string
	Role                 Role
	RecentSearchedCities []string
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

type Repository interface {
	ByID(ctx context.Context, id ID) (*User, error)
	Save(ctx context.Context, user *User) error
	Delete(ctx context.Context, id ID) error
}

type CreateParams struct {
	ID        ID
	Email     string
	Username  string
	Image     string
	Role      Role
	CreatedAt time.Time
}

func New(params CreateParams) (*User, error) {
	id := strings.TrimSpace(string(params.ID))
	if id == "" {
		return nil, ErrIDRequired
	}
	email := normalizeEmail(params.Email)
	if email == "" {
		return nil, ErrEmailRequired
	}
	role, err := normalizeRole(params.Role)
	if err != nil {
		return nil, err
	}

	now := params.CreatedAt
	if now.IsZero() {
		now = time.Now()
	}
	now = now.UTC()

	return &User{
		ID:        ID(id),
		Email:     email,
		Username:  strings.TrimSpace(params.Username),
		Image:     strings.TrimSpace(params.Image),
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// ApplyProfile overwrites provider-owned fields from a webhook or token payload.
func (u *User) ApplyProfile(email, username, image string, now time.Time) error {
	normalized := normalizeEmail(email)
	if normalized == "" {
		return ErrEmailRequired
	}
	u.Email = normalized
	u.Username = strings.TrimSpace(username)
	u.Image = strings.TrimSpace(image)
	u.touch(now)
	return nil
}

// PromoteToHotelOwner grants the owner role. Returns false when already granted.
func (u *User) PromoteToHotelOwner(now time.Time) bool {
	if u.Role == RoleHotelOwner {
		return false
	}
	u.Role = RoleHotelOwner
	u.touch(now)
	return true
}

// RecordSearchedCity appends a city, evicting the oldest entry beyond the limit.
func (u *User) RecordSearchedCity(city string, now time.Time) error {
	city = strings.TrimSpace(city)
	if city == "" {
		return ErrCityRequired
	}
	u.RecentSearchedCities = append(u.RecentSearchedCities, city)
	if excess := len(u.RecentSearchedCities) - RecentCityLimit; excess > 0 {
		u.RecentSearchedCities = u.RecentSearchedCities[excess:]
	}
	u.touch(now)
	return nil
}

func (u *User) touch(now time.Time) {
	if now.IsZero() {
		now = time.Now()
	}
	u.UpdatedAt = now.UTC()
}

func normalizeRole(role Role) (Role, error) {
	switch strings.TrimSpace(string(role)) {
	case "", string(RoleUser):
		return RoleUser, nil
	case string(RoleHotelOwner):
		return RoleHotelOwner, nil
	default:
		return "", ErrInvalidRole
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
