package users

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	domainuser "quickstay/internal/domain/user"
)

var ErrUnknownEventType = errors.New("users: unknown webhook event type")

// Profile is the provider-owned slice of a user record, as carried by
// webhook payloads and session-token claims.
type Profile struct {
	ID       string
	Email    string
	Username string
	Image    string
}

// Service maintains the local cache of identity-provider accounts.
type Service struct {
	Users  domainuser.Repository
	Logger *slog.Logger
}

// ApplyEvent handles a user lifecycle webhook event.
func (s *Service) ApplyEvent(ctx context.Context, eventType string, profile Profile) error {
	switch eventType {
	case "user.created", "user.updated":
		_, err := s.upsert(ctx, profile, time.Now())
		return err
	case "user.deleted":
		err := s.Users.Delete(ctx, domainuser.ID(profile.ID))
		if errors.Is(err, domainuser.ErrNotFound) {
			return nil
		}
		return err
	default:
		return fmt.Errorf("%w: %q", ErrUnknownEventType, eventType)
	}
}

// SyncFromClaims upserts the local record from session-token claims.
// Run on the first authenticated request so a delayed webhook never
// strands a logged-in user.
func (s *Service) SyncFromClaims(ctx context.Context, profile Profile) (*domainuser.User, error) {
	existing, err := s.Users.ByID(ctx, domainuser.ID(profile.ID))
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, domainuser.ErrNotFound) {
		return nil, err
	}
	user, err := s.upsert(ctx, profile, time.Now())
	if err != nil {
		return nil, err
	}
	if s.Logger != nil {
		s.Logger.Info("user synced from session claims", "user_id", user.ID)
	}
	return user, nil
}

func (s *Service) ByID(ctx context.Context, id domainuser.ID) (*domainuser.User, error) {
	return s.Users.ByID(ctx, id)
}

// StoreRecentSearchedCity records a searched city on the user, bounded FIFO.
func (s *Service) StoreRecentSearchedCity(ctx context.Context, id domainuser.ID, city string) (*domainuser.User, error) {
	user, err := s.Users.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := user.RecordSearchedCity(city, time.Now()); err != nil {
		return nil, err
	}
	if err := s.Users.Save(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *Service) upsert(ctx context.Context, profile Profile, now time.Time) (*domainuser.User, error) {
	existing, err := s.Users.ByID(ctx, domainuser.ID(profile.ID))
	switch {
	case err == nil:
		if err := existing.ApplyProfile(profile.Email, profile.Username, profile.Image, now); err != nil {
			return nil, err
		}
		if err := s.Users.Save(ctx, existing); err != nil {
			return nil, err
		}
		return existing, nil
	case errors.Is(err, domainuser.ErrNotFound):
		user, err := domainuser.New(domainuser.CreateParams{
			ID:        domainuser.ID(profile.ID),
			Email:     profile.Email,
			Username:  profile.Username,
			Image:     profile.Image,
			CreatedAt: now,
		})
		if err != nil {
			return nil, err
		}
		if err := s.Users.Save(ctx, user); err != nil {
			return nil, err
		}
		return user, nil
	default:
		return nil, err
	}
}
