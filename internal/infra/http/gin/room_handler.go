package ginserver

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	gin "github.com/gin-gonic/gin"

	roomsapp "quickstay/internal/app/rooms"
	domainhotel "quickstay/internal/domain/hotel"
	domainroom "quickstay/internal/domain/room"
	domainuser "quickstay/internal/domain/user"
)

const maxRoomImages = 5

type RoomHandler struct {
	Rooms  *roomsapp.Service
	Logger *slog.Logger
}

// Create accepts a multipart form with the room fields plus up to five
// image files under the "images" field.
func (h RoomHandler) Create(c *gin.Context) {
	p, ok := requireUser(c)
	if !ok {
		return
	}

	price, err := strconv.ParseFloat(c.PostForm("pricePerNight"), 64)
	if err != nil {
		respondError(c, http.StatusBadRequest, "pricePerNight must be a number")
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid multipart form")
		return
	}
	files := form.File["images"]
	if len(files) == 0 {
		respondError(c, http.StatusBadRequest, "At least one image is required")
		return
	}
	if len(files) > maxRoomImages {
		respondError(c, http.StatusBadRequest, "At most 5 images are allowed")
		return
	}

	images := make([]roomsapp.ImageUpload, 0, len(files))
	for _, file := range files {
		opened, err := file.Open()
		if err != nil {
			respondError(c, http.StatusBadRequest, "Failed to read uploaded image")
			return
		}
		defer opened.Close()
		images = append(images, roomsapp.ImageUpload{
			Name:        file.Filename,
			ContentType: file.Header.Get("Content-Type"),
			Reader:      opened,
		})
	}

	room, err := h.Rooms.Create(c.Request.Context(), domainuser.ID(p.ID), roomsapp.CreateParams{
		HotelID:       c.PostForm("hotelId"),
		RoomType:      c.PostForm("roomType"),
		PricePerNight: price,
		Amenities:     parseAmenities(c.PostForm("amenities")),
		Images:        images,
	})
	if err != nil {
		h.handleCreateError(c, err)
		return
	}
	respondOK(c, gin.H{"message": "Room created successfully", "room": newRoomView(room)})
}

func (h RoomHandler) handleCreateError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domainroom.ErrInvalidRoomType),
		errors.Is(err, domainroom.ErrInvalidPrice),
		errors.Is(err, domainroom.ErrImagesRequired):
		respondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, roomsapp.ErrNoHotel):
		respondError(c, http.StatusNotFound, "No Hotel found")
	case errors.Is(err, roomsapp.ErrNotOwner):
		respondError(c, http.StatusForbidden, "Hotel does not belong to current user")
	case errors.Is(err, domainhotel.ErrNotFound):
		respondError(c, http.StatusNotFound, "Hotel not found")
	default:
		h.fail(c, "create room", err)
	}
}

func (h RoomHandler) ListAvailable(c *gin.Context) {
	rooms, err := h.Rooms.ListAvailable(c.Request.Context())
	if err != nil {
		h.fail(c, "list rooms", err)
		return
	}
	respondOK(c, gin.H{"rooms": newRoomViews(rooms)})
}

func (h RoomHandler) ListOwned(c *gin.Context) {
	p, ok := requireUser(c)
	if !ok {
		return
	}
	rooms, err := h.Rooms.ListOwnerRooms(c.Request.Context(), domainuser.ID(p.ID))
	if err != nil {
		h.fail(c, "list owner rooms", err)
		return
	}
	respondOK(c, gin.H{"rooms": newRoomViews(rooms)})
}

func (h RoomHandler) ListByHotel(c *gin.Context) {
	rooms, err := h.Rooms.ListByHotel(c.Request.Context(), domainhotel.ID(c.Param("hotelId")))
	if err != nil {
		if errors.Is(err, domainhotel.ErrNotFound) {
			respondError(c, http.StatusNotFound, "Hotel not found")
			return
		}
		h.fail(c, "list rooms by hotel", err)
		return
	}
	respondOK(c, gin.H{"rooms": newRoomViews(rooms)})
}

type toggleAvailabilityRequest struct {
	RoomID string `json:"roomId"`
}

func (h RoomHandler) ToggleAvailability(c *gin.Context) {
	p, ok := requireUser(c)
	if !ok {
		return
	}
	var req toggleAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	_, err := h.Rooms.ToggleAvailability(c.Request.Context(), domainuser.ID(p.ID), domainroom.ID(req.RoomID))
	if err != nil {
		switch {
		case errors.Is(err, domainroom.ErrNotFound):
			respondError(c, http.StatusNotFound, "Room not found")
		case errors.Is(err, roomsapp.ErrNotOwner):
			respondError(c, http.StatusForbidden, "Room does not belong to current user")
		default:
			h.fail(c, "toggle room availability", err)
		}
		return
	}
	respondOK(c, gin.H{"message": "Room availability Updated"})
}

// parseAmenities accepts either a JSON array or a comma separated list.
func parseAmenities(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	if strings.HasPrefix(raw, "[") {
		var list []string
		if err := json.Unmarshal([]byte(raw), &list); err == nil {
			return list
		}
	}
	parts := strings.Split(raw, ",")
	amenities := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			amenities = append(amenities, part)
		}
	}
	return amenities
}

func (h RoomHandler) fail(c *gin.Context, op string, err error) {
	if h.Logger != nil {
		h.Logger.Error("room handler error", "op", op, "error", err)
	}
	respondError(c, http.StatusInternalServerError, "Internal server error")
}
