package ginserver

import (
	"log/slog"
	"net/http"
	"strings"

	gin "github.com/gin-gonic/gin"

	usersapp "quickstay/internal/app/users"
	domainuser "quickstay/internal/domain/user"
	"quickstay/internal/infra/identity"
)

const principalContextKey = "quickstay.principal"

type principal struct {
	ID       string
	Email    string
	Username string
	Image    string
	Role     domainuser.Role
}

// SessionVerifier validates a bearer token and extracts its claims.
type SessionVerifier interface {
	Verify(raw string) (identity.Claims, error)
}

// AuthMiddleware resolves the bearer token into a local user record,
// creating the record on first sight so a delayed provider webhook
// never strands a logged-in user. Requests without a valid token pass
// through unauthenticated; handlers decide what requires auth.
type AuthMiddleware struct {
	Verifier SessionVerifier
	Users    *usersapp.Service
	Logger   *slog.Logger
}

func (m AuthMiddleware) Handle(c *gin.Context) {
	token := extractBearerToken(c.GetHeader("Authorization"))
	if token == "" || m.Verifier == nil {
		c.Next()
		return
	}
	claims, err := m.Verifier.Verify(token)
	if err != nil {
		if m.Logger != nil {
			m.Logger.Debug("session token rejected", "error", err)
		}
		c.Next()
		return
	}

	user, err := m.Users.SyncFromClaims(c.Request.Context(), usersapp.Profile{
		ID:       claims.Subject,
		Email:    claims.Email,
		Username: claims.Name,
		Image:    claims.Image,
	})
	if err != nil {
		if m.Logger != nil {
			m.Logger.Error("user sync failed", "user_id", claims.Subject, "error", err)
		}
		c.Next()
		return
	}

	c.Set(principalContextKey, principal{
		ID:       string(user.ID),
		Email:    user.Email,
		Username: user.Username,
		Image:    user.Image,
		Role:     user.Role,
	})
	c.Next()
}

func currentPrincipal(c *gin.Context) (principal, bool) {
	val, exists := c.Get(principalContextKey)
	if !exists {
		return principal{}, false
	}
	p, ok := val.(principal)
	return p, ok
}

func requireUser(c *gin.Context) (principal, bool) {
	p, ok := currentPrincipal(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "User not authenticated")
		return principal{}, false
	}
	return p, true
}

func extractBearerToken(header string) string {
	if header == "" {
		return ""
	}
	if !strings.HasPrefix(strings.ToLower(header), "bearer ") {
		return ""
	}
	return strings.TrimSpace(header[7:])
}
