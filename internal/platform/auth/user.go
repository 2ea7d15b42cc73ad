package auth

import (
	"context"
	"errors"
	"strings"
)

// User is the caller resolved from a bearer token.
type User struct {
	UID           string
	Email         string
	EmailVerified bool
}

// Identity is the normalized email that owns contacts.
func (u *User) Identity() string {
	if u == nil {
		return ""
	}
	return NormalizeEmail(u.Email)
}

// NormalizeEmail lower-cases and trims an email so comparisons are stable.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

var (
	ErrNoToken      = errors.New("missing authorization header")
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
	ErrTokenRevoked = errors.New("token revoked")
	ErrUserDisabled = errors.New("user disabled")
	// ErrNoIdentity means the token is valid but carries no email to own contacts.
	ErrNoIdentity = errors.New("token has no email claim")
	// ErrCertificateFetch means the public keys could not be fetched; callers answer 503.
	ErrCertificateFetch = errors.New("failed to fetch certificates")
)

// Verifier validates a bearer token and returns the caller.
type Verifier interface {
	Verify(ctx context.Context, token string) (*User, error)
}

// ExtractBearerToken returns the token from an Authorization header value.
func ExtractBearerToken(header string) (string, error) {
	if header == "" {
		return "", ErrNoToken
	}
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
		return "", ErrInvalidToken
	}
	return parts[1], nil
}
