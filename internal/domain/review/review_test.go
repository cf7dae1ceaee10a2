package review

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateRating(t *testing.T) {
	for _, rating := range []float64{1, 2, 3.5, 5} {
		assert.NoError(t, ValidateRating(rating), "rating=%v", rating)
	}
	for _, rating := range []float64{0, -1, 6, 5.01, math.NaN(), math.Inf(1)} {
		assert.ErrorIs(t, ValidateRating(rating), ErrInvalidRating, "rating=%v", rating)
	}
}

func TestSubmit(t *testing.T) {
	params := SubmitParams{
		ID: "rv_1", User: "usr_1", Room: "rm_1", Hotel: "ht_1", Booking: "bk_1",
		Rating:  4,
		Comment: "  Great stay  ",
	}

	r, err := Submit(params)
	require.NoError(t, err)
	assert.Equal(t, "Great stay", r.Comment)
	assert.InDelta(t, 4.0, r.Rating, 1e-9)

	p := params
	p.Rating = 0
	_, err = Submit(p)
	assert.ErrorIs(t, err, ErrInvalidRating)

	p = params
	p.Comment = "   "
	_, err = Submit(p)
	assert.ErrorIs(t, err, ErrCommentMissing)

	p = params
	p.Comment = strings.Repeat("x", MaxCommentLength+1)
	_, err = Submit(p)
	assert.ErrorIs(t, err, ErrCommentTooLong)
}

func TestUpdates(t *testing.T) {
	r, err := Submit(SubmitParams{
		ID: "rv_1", User: "usr_1", Room: "rm_1", Hotel: "ht_1", Booking: "bk_1",
		Rating: 5, Comment: "ok",
	})
	require.NoError(t, err)

	assert.ErrorIs(t, r.UpdateRating(9, time.Now()), ErrInvalidRating)
	assert.InDelta(t, 5.0, r.Rating, 1e-9)

	require.NoError(t, r.UpdateRating(2, time.Now()))
	assert.InDelta(t, 2.0, r.Rating, 1e-9)

	assert.ErrorIs(t, r.UpdateComment("", time.Now()), ErrCommentMissing)
	require.NoError(t, r.UpdateComment("changed my mind", time.Now()))
	assert.Equal(t, "changed my mind", r.Comment)

	assert.True(t, r.AuthoredBy("usr_1"))
	assert.False(t, r.AuthoredBy("usr_2"))
}
