package user

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewValidation(t *testing.T) {
	_, err := New(CreateParams{Email: "a@b.dev"})
	assert.ErrorIs(t, err, ErrIDRequired)

	_, err = New(CreateParams{ID: "usr_1"})
	assert.ErrorIs(t, err, ErrEmailRequired)

	_, err = New(CreateParams{ID: "usr_1", Email: "a@b.dev", Role: "superadmin"})
	assert.ErrorIs(t, err, ErrInvalidRole)

	u, err := New(CreateParams{ID: "usr_1", Email: " A@B.dev "})
	require.NoError(t, err)
	assert.Equal(t, "a@b.dev", u.Email)
	assert.Equal(t, RoleUser, u.Role)
}

func TestPromoteToHotelOwnerIdempotent(t *testing.T) {
	u, err := New(CreateParams{ID: "usr_1", Email: "a@b.dev"})
	require.NoError(t, err)

	assert.True(t, u.PromoteToHotelOwner(time.Now()))
	assert.Equal(t, RoleHotelOwner, u.Role)
	assert.False(t, u.PromoteToHotelOwner(time.Now()))
	assert.Equal(t, RoleHotelOwner, u.Role)
}

func TestRecordSearchedCityEvictsOldest(t *testing.T) {
	u, err := New(CreateParams{ID: "usr_1", Email: "a@b.dev"})
	require.NoError(t, err)

	for _, city := range []string{"Dubai", "London", "Paris"} {
		require.NoError(t, u.RecordSearchedCity(city, time.Now()))
	}
	assert.Equal(t, []string{"Dubai", "London", "Paris"}, u.RecentSearchedCities)

	require.NoError(t, u.RecordSearchedCity("Tokyo", time.Now()))
	assert.Len(t, u.RecentSearchedCities, RecentCityLimit)
	assert.Equal(t, []string{"London", "Paris", "Tokyo"}, u.RecentSearchedCities)

	assert.ErrorIs(t, u.RecordSearchedCity("  ", time.Now()), ErrCityRequired)
}
