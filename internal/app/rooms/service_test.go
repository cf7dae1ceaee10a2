package rooms

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainhotel "quickstay/internal/domain/hotel"
	domainroom "quickstay/internal/domain/room"
	"quickstay/internal/infra/storage/memory"
)

func newService(t *testing.T) (*Service, *memory.HotelRepository) {
	t.Helper()
	hotels := memory.NewHotelRepository()
	svc := &Service{
		Rooms:   memory.NewRoomRepository(),
		Hotels:  hotels,
		Uploads: memory.NewUploader(),
	}

	h, err := domainhotel.New(domainhotel.CreateParams{
		ID: "ht_1", Name: "Seaview", Address: "1 Shore Rd", Contact: "+100", City: "Lisbon", Owner: "usr_owner",
	})
	require.NoError(t, err)
	require.NoError(t, hotels.Save(context.Background(), h))
	return svc, hotels
}

func uploads(names ...string) []ImageUpload {
	result := make([]ImageUpload, 0, len(names))
	for _, name := range names {
		result = append(result, ImageUpload{Name: name, ContentType: "image/png", Reader: strings.NewReader("png-bytes")})
	}
	return result
}

func TestCreateRoom(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	room, err := svc.Create(ctx, "usr_owner", CreateParams{
		RoomType:      "Double Bed",
		PricePerNight: 150,
		Amenities:     []string{"Free WiFi"},
		Images:        uploads("a.png", "b.png"),
	})
	require.NoError(t, err)
	assert.Equal(t, domainhotel.ID("ht_1"), room.Hotel)
	assert.Len(t, room.Images, 2)
	assert.True(t, room.IsAvailable)
	assert.Contains(t, room.Images[0], "memory://uploads/rooms/")
}

func TestCreateRoomRequiresHotel(t *testing.T) {
	svc, _ := newService(t)
	_, err := svc.Create(context.Background(), "usr_other", CreateParams{
		RoomType: "Single Bed", PricePerNight: 90, Images: uploads("a.png"),
	})
	assert.ErrorIs(t, err, ErrNoHotel)
}

func TestCreateRoomForeignHotelRejected(t *testing.T) {
	svc, hotels := newService(t)
	ctx := context.Background()

	other, err := domainhotel.New(domainhotel.CreateParams{
		ID: "ht_2", Name: "Other", Address: "x", Contact: "y", City: "z", Owner: "usr_other",
	})
	require.NoError(t, err)
	require.NoError(t, hotels.Save(ctx, other))

	_, err = svc.Create(ctx, "usr_owner", CreateParams{
		HotelID: "ht_2", RoomType: "Single Bed", PricePerNight: 90, Images: uploads("a.png"),
	})
	assert.ErrorIs(t, err, ErrNotOwner)
}

func TestCreateRoomRequiresImages(t *testing.T) {
	svc, _ := newService(t)
	_, err := svc.Create(context.Background(), "usr_owner", CreateParams{
		RoomType: "Single Bed", PricePerNight: 90,
	})
	assert.ErrorIs(t, err, domainroom.ErrImagesRequired)
}

func TestToggleAvailability(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	room, err := svc.Create(ctx, "usr_owner", CreateParams{
		RoomType: "Luxury Room", PricePerNight: 400, Images: uploads("a.png"),
	})
	require.NoError(t, err)

	toggled, err := svc.ToggleAvailability(ctx, "usr_owner", room.ID)
	require.NoError(t, err)
	assert.False(t, toggled.IsAvailable)

	_, err = svc.ToggleAvailability(ctx, "usr_other", room.ID)
	assert.ErrorIs(t, err, ErrNotOwner)

	_, err = svc.ToggleAvailability(ctx, "usr_owner", "rm_missing")
	assert.ErrorIs(t, err, domainroom.ErrNotFound)
}

func TestOwnerRoomsSpanHotels(t *testing.T) {
	svc, hotels := newService(t)
	ctx := context.Background()

	second, err := domainhotel.New(domainhotel.CreateParams{
		ID: "ht_2", Name: "Hillview", Address: "2 Hill Rd", Contact: "+200", City: "Porto", Owner: "usr_owner",
	})
	require.NoError(t, err)
	require.NoError(t, hotels.Save(ctx, second))

	for _, hotelID := range []string{"ht_1", "ht_2"} {
		_, err := svc.Create(ctx, "usr_owner", CreateParams{
			HotelID: hotelID, RoomType: "Single Bed", PricePerNight: 80, Images: uploads("a.png"),
		})
		require.NoError(t, err)
	}

	owned, err := svc.ListOwnerRooms(ctx, "usr_owner")
	require.NoError(t, err)
	assert.Len(t, owned, 2)

	none, err := svc.ListOwnerRooms(ctx, "usr_nobody")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestListByHotelChecksExistence(t *testing.T) {
	svc, _ := newService(t)
	_, err := svc.ListByHotel(context.Background(), "ht_missing")
	assert.ErrorIs(t, err, domainhotel.ErrNotFound)
}
