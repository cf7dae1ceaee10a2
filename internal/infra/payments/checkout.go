package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"quickstay/internal/app/policies"
)

// CheckoutClient creates hosted payment sessions on an external
// payment gateway. The gateway redirects the customer back to the
// origin URL after payment and notifies us out of band.
type CheckoutClient struct {
	Client   *http.Client
	Endpoint string
	APIKey   string
	Logger   *slog.Logger
}

type checkoutRequest struct {
	Reference   string  `json:"reference"`
	Amount      float64 `json:"amount"`
	Currency    string  `json:"currency"`
	Description string  `json:"description,omitempty"`
	SuccessURL  string  `json:"success_url"`
	CancelURL   string  `json:"cancel_url"`
	Metadata    struct {
		BookingID string `json:"bookingId"`
	} `json:"metadata"`
}

type checkoutResponse struct {
	SessionID string `json:"session_id"`
	URL       string `json:"url"`
}

func (c *CheckoutClient) CreateCheckoutSession(ctx context.Context, params policies.CheckoutParams) (string, error) {
	if c == nil || c.Client == nil {
		return "", errors.New("payments: http client not configured")
	}
	if c.Endpoint == "" {
		return "", errors.New("payments: endpoint not configured")
	}

	payload := checkoutRequest{
		Reference:   params.BookingID,
		Amount:      params.Amount,
		Currency:    params.Currency,
		Description: params.Description,
		SuccessURL:  params.OriginURL + "/loader/my-bookings",
		CancelURL:   params.OriginURL + "/my-bookings",
	}
	payload.Metadata.BookingID = params.BookingID

	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	request.Header.Set("Content-Type", "application/json")
	if c.APIKey != "" {
		request.Header.Set("Authorization", "Bearer "+c.APIKey)
	}

	resp, err := c.Client.Do(request)
	if err != nil {
		c.logError("checkout request failed", params.BookingID, err)
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		err := fmt.Errorf("payments: gateway returned status %d: %s", resp.StatusCode, string(snippet))
		c.logError("checkout returned error", params.BookingID, err)
		return "", err
	}

	var session checkoutResponse
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		c.logError("checkout decode failed", params.BookingID, err)
		return "", err
	}
	if session.URL == "" {
		return "", errors.New("payments: gateway returned no redirect url")
	}
	return session.URL, nil
}

func (c *CheckoutClient) logError(msg, bookingID string, err error) {
	if c.Logger == nil {
		return
	}
	c.Logger.Error(msg, "booking_id", bookingID, "error", err)
}

var _ policies.PaymentsPort = (*CheckoutClient)(nil)
