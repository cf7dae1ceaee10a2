package ginserver

import (
	"errors"
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"

	usersapp "quickstay/internal/app/users"
	domainuser "quickstay/internal/domain/user"
)

type UserHandler struct {
	Users  *usersapp.Service
	Logger *slog.Logger
}

// Me returns the acting user's role and recent search history.
func (h UserHandler) Me(c *gin.Context) {
	p, ok := requireUser(c)
	if !ok {
		return
	}
	user, err := h.Users.ByID(c.Request.Context(), domainuser.ID(p.ID))
	if err != nil {
		h.fail(c, "fetch user", err)
		return
	}
	respondOK(c, gin.H{
		"role":                 user.Role,
		"recentSearchedCities": user.RecentSearchedCities,
	})
}

type storeRecentSearchRequest struct {
	RecentSearchedCity string `json:"recentSearchedCity"`
}

func (h UserHandler) StoreRecentSearchedCity(c *gin.Context) {
	p, ok := requireUser(c)
	if !ok {
		return
	}
	var req storeRecentSearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	_, err := h.Users.StoreRecentSearchedCity(c.Request.Context(), domainuser.ID(p.ID), req.RecentSearchedCity)
	if err != nil {
		if errors.Is(err, domainuser.ErrCityRequired) {
			respondError(c, http.StatusBadRequest, "City is required")
			return
		}
		h.fail(c, "store recent search", err)
		return
	}
	respondOK(c, gin.H{"message": "City added"})
}

func (h UserHandler) fail(c *gin.Context, op string, err error) {
	if errors.Is(err, domainuser.ErrNotFound) {
		respondError(c, http.StatusNotFound, "User not found")
		return
	}
	if h.Logger != nil {
		h.Logger.Error("user handler error", "op", op, "error", err)
	}
	respondError(c, http.StatusInternalServerError, "Internal server error")
}
