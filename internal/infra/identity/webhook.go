package identity

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"strconv"
	"strings"
	"time"
)

var (
	ErrBadSignature   = errors.New("identity: webhook signature mismatch")
	ErrStaleTimestamp = errors.New("identity: webhook timestamp outside tolerance")
	ErrBadSecret      = errors.New("identity: malformed webhook secret")
)

// timestamp drift the verifier tolerates in either direction
const webhookTolerance = 5 * time.Minute

// WebhookVerifier checks provider webhook signatures. The provider
// signs "<id>.<timestamp>.<payload>" with HMAC-SHA256 and sends one or
// more "v1,<base64>" signatures in the signature header.
type WebhookVerifier struct {
	secret []byte
}

func NewWebhookVerifier(secret string) (*WebhookVerifier, error) {
	raw := strings.TrimPrefix(secret, "whsec_")
	key, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return nil, ErrBadSecret
	}
	return &WebhookVerifier{secret: key}, nil
}

// Verify checks the signature header against the raw request body.
// id, timestamp, and signatures come from the svix-* request headers.
func (v *WebhookVerifier) Verify(id, timestamp, signatures string, payload []byte, now time.Time) error {
	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return ErrStaleTimestamp
	}
	sent := time.Unix(ts, 0)
	if diff := now.Sub(sent); diff > webhookTolerance || diff < -webhookTolerance {
		return ErrStaleTimestamp
	}

	mac := hmac.New(sha256.New, v.secret)
	mac.Write([]byte(id))
	mac.Write([]byte("."))
	mac.Write([]byte(timestamp))
	mac.Write([]byte("."))
	mac.Write(payload)
	expected := mac.Sum(nil)

	for _, part := range strings.Fields(signatures) {
		version, sig, found := strings.Cut(part, ",")
		if !found || version != "v1" {
			continue
		}
		decoded, err := base64.StdEncoding.DecodeString(sig)
		if err != nil {
			continue
		}
		if hmac.Equal(decoded, expected) {
			return nil
		}
	}
	return ErrBadSignature
}
