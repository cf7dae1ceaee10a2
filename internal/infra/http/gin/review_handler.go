package ginserver

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	gin "github.com/gin-gonic/gin"

	reviewsapp "quickstay/internal/app/reviews"
	domainbooking "quickstay/internal/domain/booking"
	domainhotel "quickstay/internal/domain/hotel"
	domainreview "quickstay/internal/domain/review"
	domainroom "quickstay/internal/domain/room"
	domainuser "quickstay/internal/domain/user"
)

type ReviewHandler struct {
	Reviews *reviewsapp.Service
	Logger  *slog.Logger
}

type createReviewRequest struct {
	BookingID string   `json:"bookingId"`
	Rating    *float64 `json:"rating"`
	Comment   string   `json:"comment"`
}

func (h ReviewHandler) Create(c *gin.Context) {
	p, ok := requireUser(c)
	if !ok {
		return
	}
	var req createReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.BookingID == "" || req.Rating == nil {
		respondError(c, http.StatusBadRequest, "Missing required fields")
		return
	}

	review, err := h.Reviews.Create(c.Request.Context(), domainuser.ID(p.ID), reviewsapp.CreateParams{
		BookingID: req.BookingID,
		Rating:    *req.Rating,
		Comment:   req.Comment,
	})
	if err != nil {
		h.handleCreateError(c, err)
		return
	}
	respondOK(c, gin.H{"review": newReviewView(review)})
}

func (h ReviewHandler) handleCreateError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domainreview.ErrInvalidRating):
		respondError(c, http.StatusBadRequest, "Rating must be a number between 1 and 5")
	case errors.Is(err, domainreview.ErrCommentMissing):
		respondError(c, http.StatusBadRequest, "Comment is required")
	case errors.Is(err, domainreview.ErrCommentTooLong):
		respondError(c, http.StatusBadRequest, "Comment must be at most 500 characters")
	case errors.Is(err, domainbooking.ErrNotFound):
		respondError(c, http.StatusNotFound, "Booking not found")
	case errors.Is(err, reviewsapp.ErrBookingOwnership):
		respondError(c, http.StatusForbidden, "You are not allowed to review this booking")
	case errors.Is(err, reviewsapp.ErrBookingCancelled):
		respondError(c, http.StatusForbidden, "Cannot review a cancelled booking")
	case errors.Is(err, reviewsapp.ErrStayNotFinished):
		respondError(c, http.StatusForbidden, "You can only review after checkout")
	case errors.Is(err, reviewsapp.ErrDuplicateReview):
		respondError(c, http.StatusConflict, "Review for this booking already exists")
	default:
		h.fail(c, "create review", err)
	}
}

func (h ReviewHandler) ListByRoom(c *gin.Context) {
	page := parsePositiveInt(c.Query("page"), 1)
	limit := parsePositiveInt(c.Query("limit"), 10)
	result, err := h.Reviews.ListByRoom(c.Request.Context(), domainroom.ID(c.Param("roomId")), page, limit)
	if err != nil {
		h.fail(c, "list room reviews", err)
		return
	}
	h.respondPage(c, result)
}

func (h ReviewHandler) ListByHotel(c *gin.Context) {
	page := parsePositiveInt(c.Query("page"), 1)
	limit := parsePositiveInt(c.Query("limit"), 10)
	result, err := h.Reviews.ListByHotel(c.Request.Context(), domainhotel.ID(c.Param("hotelId")), page, limit)
	if err != nil {
		h.fail(c, "list hotel reviews", err)
		return
	}
	h.respondPage(c, result)
}

func (h ReviewHandler) respondPage(c *gin.Context, page reviewsapp.Page) {
	respondOK(c, gin.H{
		"reviews": newAuthoredReviewViews(page.Reviews),
		"meta": gin.H{
			"total":     page.Total,
			"page":      page.Page,
			"limit":     page.Limit,
			"avgRating": page.AvgRating,
		},
	})
}

type updateReviewRequest struct {
	Rating  *float64 `json:"rating"`
	Comment *string  `json:"comment"`
}

func (h ReviewHandler) Update(c *gin.Context) {
	p, ok := requireUser(c)
	if !ok {
		return
	}
	var req updateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	review, err := h.Reviews.Update(c.Request.Context(), domainuser.ID(p.ID), domainreview.ID(c.Param("reviewId")), reviewsapp.UpdateParams{
		Rating:  req.Rating,
		Comment: req.Comment,
	})
	if err != nil {
		switch {
		case errors.Is(err, domainreview.ErrNotFound):
			respondError(c, http.StatusNotFound, "Review not found")
		case errors.Is(err, reviewsapp.ErrNotAuthor):
			respondError(c, http.StatusForbidden, "Not authorized to update this review")
		case errors.Is(err, domainreview.ErrInvalidRating):
			respondError(c, http.StatusBadRequest, "Rating must be a number between 1 and 5")
		case errors.Is(err, domainreview.ErrCommentMissing):
			respondError(c, http.StatusBadRequest, "Comment is required")
		case errors.Is(err, domainreview.ErrCommentTooLong):
			respondError(c, http.StatusBadRequest, "Comment must be at most 500 characters")
		default:
			h.fail(c, "update review", err)
		}
		return
	}
	respondOK(c, gin.H{"review": newReviewView(review)})
}

func (h ReviewHandler) Delete(c *gin.Context) {
	p, ok := requireUser(c)
	if !ok {
		return
	}
	err := h.Reviews.Delete(c.Request.Context(), domainuser.ID(p.ID), domainreview.ID(c.Param("reviewId")))
	if err != nil {
		switch {
		case errors.Is(err, domainreview.ErrNotFound):
			respondError(c, http.StatusNotFound, "Review not found")
		case errors.Is(err, reviewsapp.ErrNotAuthorized):
			respondError(c, http.StatusForbidden, "Not authorized to delete this review")
		default:
			h.fail(c, "delete review", err)
		}
		return
	}
	respondOK(c, gin.H{"message": "Review deleted"})
}

func parsePositiveInt(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 1 {
		return fallback
	}
	return value
}

func (h ReviewHandler) fail(c *gin.Context, op string, err error) {
	if h.Logger != nil {
		h.Logger.Error("review handler error", "op", op, "error", err)
	}
	respondError(c, http.StatusInternalServerError, "Internal server error")
}
