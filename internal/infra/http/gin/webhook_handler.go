package ginserver

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	gin "github.com/gin-gonic/gin"

	usersapp "quickstay/internal/app/users"
	"quickstay/internal/infra/identity"
)

// WebhookVerifier checks a provider webhook signature against the raw body.
type WebhookVerifier interface {
	Verify(id, timestamp, signatures string, payload []byte, now time.Time) error
}

// WebhookHandler ingests identity-provider user lifecycle events.
type WebhookHandler struct {
	Verifier WebhookVerifier
	Users    *usersapp.Service
	Logger   *slog.Logger
}

type webhookEvent struct {
	Type string `json:"type"`
	Data struct {
		ID             string `json:"id"`
		EmailAddresses []struct {
			EmailAddress string `json:"email_address"`
		} `json:"email_addresses"`
		Username  string `json:"username"`
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
		ImageURL  string `json:"image_url"`
	} `json:"data"`
}

func (h WebhookHandler) Handle(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Failed to read webhook body")
		return
	}

	if h.Verifier != nil {
		err := h.Verifier.Verify(
			c.GetHeader("svix-id"),
			c.GetHeader("svix-timestamp"),
			c.GetHeader("svix-signature"),
			payload,
			time.Now(),
		)
		if err != nil {
			if h.Logger != nil {
				h.Logger.Warn("webhook verification failed", "error", err)
			}
			respondError(c, http.StatusUnauthorized, "Webhook verification failed")
			return
		}
	}

	var event webhookEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		respondError(c, http.StatusBadRequest, "Malformed webhook payload")
		return
	}

	profile := usersapp.Profile{
		ID:       event.Data.ID,
		Email:    firstEmail(event),
		Username: usernameOf(event),
		Image:    event.Data.ImageURL,
	}
	if err := h.Users.ApplyEvent(c.Request.Context(), event.Type, profile); err != nil {
		if h.Logger != nil {
			h.Logger.Error("webhook event failed", "type", event.Type, "user_id", profile.ID, "error", err)
		}
		respondError(c, http.StatusBadRequest, "Failed to process webhook event")
		return
	}
	respondOK(c, gin.H{"message": "Webhook received"})
}

func firstEmail(event webhookEvent) string {
	if len(event.Data.EmailAddresses) == 0 {
		return ""
	}
	return event.Data.EmailAddresses[0].EmailAddress
}

func usernameOf(event webhookEvent) string {
	if event.Data.Username != "" {
		return event.Data.Username
	}
	name := strings.TrimSpace(event.Data.FirstName + " " + event.Data.LastName)
	return name
}

var _ WebhookVerifier = (*identity.WebhookVerifier)(nil)
