package ginserver

import (
	"errors"
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"

	hotelsapp "quickstay/internal/app/hotels"
	domainhotel "quickstay/internal/domain/hotel"
	domainuser "quickstay/internal/domain/user"
)

type HotelHandler struct {
	Hotels *hotelsapp.Service
	Logger *slog.Logger
}

type registerHotelRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Contact string `json:"contact"`
	City    string `json:"city"`
}

// Register creates a hotel for the acting user and promotes them to
// hotel owner.
func (h HotelHandler) Register(c *gin.Context) {
	p, ok := requireUser(c)
	if !ok {
		return
	}
	var req registerHotelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	_, err := h.Hotels.Register(c.Request.Context(), domainuser.ID(p.ID), hotelsapp.RegisterParams{
		Name:    req.Name,
		Address: req.Address,
		Contact: req.Contact,
		City:    req.City,
	})
	if err != nil {
		switch {
		case errors.Is(err, domainhotel.ErrNameRequired),
			errors.Is(err, domainhotel.ErrAddressRequired),
			errors.Is(err, domainhotel.ErrContactRequired),
			errors.Is(err, domainhotel.ErrCityRequired):
			respondError(c, http.StatusBadRequest, err.Error())
		default:
			h.fail(c, "register hotel", err)
		}
		return
	}
	respondOK(c, gin.H{"message": "Hotel Registered Successfully"})
}

func (h HotelHandler) ListAll(c *gin.Context) {
	hotels, err := h.Hotels.ListAll(c.Request.Context())
	if err != nil {
		h.fail(c, "list hotels", err)
		return
	}
	respondOK(c, gin.H{"hotels": newHotelViews(hotels)})
}

func (h HotelHandler) ListOwned(c *gin.Context) {
	p, ok := requireUser(c)
	if !ok {
		return
	}
	hotels, err := h.Hotels.ListByOwner(c.Request.Context(), domainuser.ID(p.ID))
	if err != nil {
		h.fail(c, "list owned hotels", err)
		return
	}
	respondOK(c, gin.H{"hotels": newHotelViews(hotels)})
}

func (h HotelHandler) Get(c *gin.Context) {
	hotel, err := h.Hotels.ByID(c.Request.Context(), domainhotel.ID(c.Param("hotelId")))
	if err != nil {
		if errors.Is(err, domainhotel.ErrNotFound) {
			respondError(c, http.StatusNotFound, "Hotel not found")
			return
		}
		h.fail(c, "get hotel", err)
		return
	}
	respondOK(c, gin.H{"hotel": newHotelView(hotel)})
}

func (h HotelHandler) fail(c *gin.Context, op string, err error) {
	if h.Logger != nil {
		h.Logger.Error("hotel handler error", "op", op, "error", err)
	}
	respondError(c, http.StatusInternalServerError, "Internal server error")
}
