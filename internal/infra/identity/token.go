package identity

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("identity: invalid session token")
	ErrNoSubject    = errors.New("identity: token has no subject")
)

// Claims is the identity slice of a verified session token.
type Claims struct {
	Subject string
	Email   string
	Name    string
	Image   string
}

// TokenVerifier validates HS256 session tokens minted by the identity
// provider and extracts the profile claims the application uses.
type TokenVerifier struct {
	secret []byte
}

func NewTokenVerifier(secret string) *TokenVerifier {
	return &TokenVerifier{secret: []byte(secret)}
}

type sessionClaims struct {
	Email     string `json:"email"`
	Name      string `json:"name"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Image     string `json:"image_url"`
	jwt.RegisteredClaims
}

func (v *TokenVerifier) Verify(raw string) (Claims, error) {
	var claims sessionClaims
	token, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return v.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !token.Valid {
		return Claims{}, ErrInvalidToken
	}
	if claims.Subject == "" {
		return Claims{}, ErrNoSubject
	}

	name := claims.Name
	if name == "" {
		name = joinName(claims.FirstName, claims.LastName)
	}
	return Claims{
		Subject: claims.Subject,
		Email:   claims.Email,
		Name:    name,
		Image:   claims.Image,
	}, nil
}

func joinName(first, last string) string {
	switch {
	case first == "":
		return last
	case last == "":
		return first
	default:
		return first + " " + last
	}
}
