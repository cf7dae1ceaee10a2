package booking

import (
	"errors"
	"time"
)

var ErrInvalidRange = errors.New("booking: check-out must be after check-in")

// DateRange is a half-open [CheckIn, CheckOut) stay interval.
type DateRange struct {
	CheckIn  time.Time
	CheckOut time.Time
}

func (r DateRange) Validate() error {
	if r.CheckIn.IsZero() || r.CheckOut.IsZero() {
		return ErrInvalidRange
	}
	if !r.CheckOut.After(r.CheckIn) {
		return ErrInvalidRange
	}
	return nil
}

// Nights counts billable nights, rounding partial days up and never below one.
func (r DateRange) Nights() int {
	nights := int(r.CheckOut.Sub(r.CheckIn) / (24 * time.Hour))
	if r.CheckOut.Sub(r.CheckIn)%(24*time.Hour) != 0 {
		nights++
	}
	if nights < 1 {
		nights = 1
	}
	return nights
}

// Overlaps reports whether two stay intervals share at least one night.
func (r DateRange) Overlaps(other DateRange) bool {
	return r.CheckIn.Before(other.CheckOut) && other.CheckIn.Before(r.CheckOut)
}

func (r DateRange) normalized() DateRange {
	return DateRange{CheckIn: r.CheckIn.UTC(), CheckOut: r.CheckOut.UTC()}
}

// TotalFor prices a stay at the given nightly rate.
func TotalFor(pricePerNight float64, r DateRange) float64 {
	return pricePerNight * float64(r.Nights())
}
