package policies

import "context"

// CheckoutParams describes a payment session for a single booking.
type CheckoutParams struct {
	BookingID   string
	Amount      float64
	Currency    string
	Description string
	OriginURL   string
}

type PaymentsPort interface {
	CreateCheckoutSession(ctx context.Context, params CheckoutParams) (redirectURL string, err error)
}
