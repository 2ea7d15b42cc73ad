package auth

import (
	"context"
	"strings"
)

// MockVerifier returns a fixed user or error.
type MockVerifier struct {
	User  *User
	Error error
}

func (m *MockVerifier) Verify(_ context.Context, _ string) (*User, error) {
	if m.Error != nil {
		return nil, m.Error
	}
	return m.User, nil
}

// TokenVerifier treats the bearer token itself as the caller's email.
// Handler tests use it to act as several users against one router.
type TokenVerifier struct{}

func (TokenVerifier) Verify(_ context.Context, token string) (*User, error) {
	if !strings.Contains(token, "@") {
		return nil, ErrInvalidToken
	}
	return &User{UID: "uid-" + token, Email: token, EmailVerified: true}, nil
}

// TestUser returns the default user for handler tests.
func TestUser() *User {
	return &User{
		UID:           "test-user-123",
		Email:         "test@example.com",
		EmailVerified: true,
	}
}

var (
	_ Verifier = (*MockVerifier)(nil)
	_ Verifier = TokenVerifier{}
)
