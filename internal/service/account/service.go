// Package account manages local password accounts used when the service
// issues its own tokens instead of relying on Firebase Auth.
package account

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/janisto/huma-contacts/internal/platform/logging"
)

// Service errors
var (
	ErrNotFound           = errors.New("account not found")
	ErrEmailExists        = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
	ErrPasswordTooLong    = errors.New("password must be at most 72 bytes")
)

// Password length bounds. bcrypt reads at most 72 bytes.
const (
	MinPasswordLength = 8
	MaxPasswordBytes  = 72
)

// User is a stored local account.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Store persists accounts. Emails are stored normalized and are unique.
type Store interface {
	CreateUser(ctx context.Context, u User) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
}

// Service registers and authenticates accounts with bcrypt password hashes.
type Service struct {
	store   Store
	cost    int
	compare func(hash, password []byte) error
	// dummyHash is compared on unknown emails so lookups cost the same as wrong passwords.
	dummyHash func() []byte
}

// Option configures a Service.
type Option func(*Service)

// WithCost sets the bcrypt cost.
func WithCost(cost int) Option {
	return func(s *Service) { s.cost = cost }
}

// NewService creates an account service over store.
func NewService(store Store, opts ...Option) *Service {
	s := &Service{store: store, cost: bcrypt.DefaultCost, compare: bcrypt.CompareHashAndPassword}
	for _, opt := range opts {
		opt(s)
	}
	s.dummyHash = sync.OnceValue(func() []byte {
		hash, err := bcrypt.GenerateFromPassword([]byte("contacts-placeholder-password"), s.cost)
		if err != nil {
			return nil
		}
		return hash
	})
	return s
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// categorizeError converts errors to audit-safe categories.
func categorizeError(err error) string {
	switch {
	case errors.Is(err, ErrEmailExists):
		return "already_exists"
	case errors.Is(err, ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, ErrInvalidEmail), errors.Is(err, ErrWeakPassword), errors.Is(err, ErrPasswordTooLong):
		return "invalid_input"
	default:
		return "internal_error"
	}
}

func audit(ctx context.Context, action, email, id string, err error) {
	ev := logging.AuditEvent{
		Action:       action,
		Actor:        email,
		ResourceType: "account",
		ResourceID:   id,
		Result:       logging.AuditSuccess,
	}
	if err != nil {
		ev.Result = logging.AuditFailure
		ev.Details = map[string]any{"error": categorizeError(err)}
	}
	logging.LogAuditEvent(ctx, ev)
}

// Register creates an account with a hashed password.
func (s *Service) Register(ctx context.Context, email, password string) (u *User, err error) {
	email = normalizeEmail(email)
	defer func() {
		id := ""
		if u != nil {
			id = u.ID
		}
		audit(ctx, "register", email, id, err)
	}()

	if addr, perr := mail.ParseAddress(email); perr != nil || addr.Address != email {
		return nil, ErrInvalidEmail
	}
	if len(password) < MinPasswordLength {
		return nil, ErrWeakPassword
	}
	if len(password) > MaxPasswordBytes {
		return nil, ErrPasswordTooLong
	}

	if _, err := s.store.GetUserByEmail(ctx, email); err == nil {
		return nil, ErrEmailExists
	} else if !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("lookup account: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	u, err = s.store.CreateUser(ctx, User{Email: email, PasswordHash: string(hash)})
	if err != nil {
		if errors.Is(err, ErrEmailExists) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create account: %w", err)
	}
	return u, nil
}

// Authenticate verifies email and password. Unknown emails and wrong
// passwords both yield ErrInvalidCredentials.
func (s *Service) Authenticate(ctx context.Context, email, password string) (u *User, err error) {
	email = normalizeEmail(email)
	defer func() {
		id := ""
		if u != nil {
			id = u.ID
		}
		audit(ctx, "login", email, id, err)
	}()

	u, err = s.store.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			_ = s.compare(s.dummyHash(), []byte(password))
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup account: %w", err)
	}
	if err := s.compare([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}
