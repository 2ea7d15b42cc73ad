// Package contact implements the ownership-scoped contact book: persons,
// their phone numbers, the guard that gates every access, and the record
// stores backing them.
package contact

import (
	"context"
	"errors"
	"strings"
	"time"
)

// Service errors
var (
	// ErrNotFound is returned by stores when a record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDenied covers both a missing person and a person owned by someone else.
	ErrDenied = errors.New("contact not accessible")
	// ErrPhoneNotInContact is returned when a phone id does not resolve to a
	// phone of the person named in the request.
	ErrPhoneNotInContact = errors.New("phone number does not belong to contact")
)

// Person is a contact owned by exactly one identity.
type Person struct {
	ID         string
	FirstName  string
	LastName   string
	OwnerEmail string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// DisplayName joins first and last name with a single space.
func (p *Person) DisplayName() string {
	return p.FirstName + " " + p.LastName
}

// PhoneNumber belongs to a single Person. Access is derived from the parent.
type PhoneNumber struct {
	ID        string
	PersonID  string
	Phone     string
	Kind      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// PersonFields are the user-editable fields of a Person.
type PersonFields struct {
	FirstName string
	LastName  string
}

// PhoneFields are the user-editable fields of a PhoneNumber.
type PhoneFields struct {
	Phone string
	Kind  string
}

// ContactSummary is one row of the contact list.
type ContactSummary struct {
	Person Person
	Phones string
}

// PersonPhones is the detail view of a person.
type PersonPhones struct {
	Person Person
	Name   string
	Phones []PhoneNumber
}

// Store persists persons and phone numbers.
//
// Implementations must:
//   - return ErrNotFound for missing records
//   - list records ordered by creation, ties broken by id
//   - delete a person's phones together with the person
//   - scope phone updates and deletes to the given person
type Store interface {
	GetPerson(ctx context.Context, id string) (*Person, error)
	ListPersonsByOwner(ctx context.Context, owner string) ([]Person, error)
	InsertPerson(ctx context.Context, p Person) (*Person, error)
	UpdatePerson(ctx context.Context, id string, fields PersonFields) (*Person, error)
	DeletePerson(ctx context.Context, id string) error

	GetPhone(ctx context.Context, id string) (*PhoneNumber, error)
	ListPhonesByPerson(ctx context.Context, personID string) ([]PhoneNumber, error)
	InsertPhone(ctx context.Context, ph PhoneNumber) (*PhoneNumber, error)
	UpdatePhone(ctx context.Context, personID, phoneID string, fields PhoneFields) (*PhoneNumber, error)
	DeletePhone(ctx context.Context, personID, phoneID string) error
}

// NormalizeIdentity lowercases and trims an email identity.
func NormalizeIdentity(identity string) string {
	return strings.ToLower(strings.TrimSpace(identity))
}

// categorizeError converts errors to audit-safe categories.
func categorizeError(err error) string {
	var verr *ValidationError
	switch {
	case errors.Is(err, ErrDenied):
		return "not_accessible"
	case errors.Is(err, ErrPhoneNotInContact):
		return "phone_not_in_contact"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.As(err, &verr):
		return "validation_failed"
	default:
		return "internal_error"
	}
}
