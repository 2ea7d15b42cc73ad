package contact

import (
	"context"
	"errors"
	"fmt"

	"github.com/janisto/huma-contacts/internal/platform/logging"
	"github.com/janisto/huma-contacts/internal/platform/metrics"
)

// Audited resource types.
const (
	resourcePerson = "person"
	resourcePhone  = "phone_number"
)

// Recorder counts workflow outcomes. *metrics.Metrics satisfies it.
type Recorder interface {
	RecordOperation(operation, result string)
}

type noopRecorder struct{}

func (noopRecorder) RecordOperation(string, string) {}

// Workflow runs the contact book operations. Every operation that reads a
// single contact or changes data passes the ownership guard first.
type Workflow struct {
	store   Store
	metrics Recorder
}

// NewWorkflow creates a workflow over store. A nil recorder disables metrics.
func NewWorkflow(store Store, rec Recorder) *Workflow {
	if rec == nil {
		rec = noopRecorder{}
	}
	return &Workflow{store: store, metrics: rec}
}

func resultOf(err error) string {
	var verr *ValidationError
	switch {
	case err == nil:
		return metrics.ResultSuccess
	case errors.Is(err, ErrDenied), errors.Is(err, ErrPhoneNotInContact):
		return metrics.ResultDenied
	case errors.As(err, &verr):
		return metrics.ResultInvalid
	default:
		return metrics.ResultError
	}
}

func (w *Workflow) observe(op string, err error) {
	w.metrics.RecordOperation(op, resultOf(err))
}

// audit records the outcome of a mutation.
func audit(ctx context.Context, action, actor, resourceType, resourceID string, err error) {
	ev := logging.AuditEvent{
		Action:       action,
		Actor:        actor,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Result:       logging.AuditSuccess,
	}
	if err != nil {
		ev.Result = logging.AuditFailure
		if resultOf(err) == metrics.ResultDenied {
			ev.Result = logging.AuditDenied
		}
		ev.Details = map[string]any{"error": categorizeError(err)}
	}
	logging.LogAuditEvent(ctx, ev)
}

// guard loads the person and checks ownership. Missing and foreign persons
// both yield ErrDenied.
func (w *Workflow) guard(ctx context.Context, personID, identity string) (*Person, error) {
	p, err := w.store.GetPerson(ctx, personID)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("load person: %w", err)
		}
		p = nil
	}
	if Authorize(p, identity) == Denied {
		return nil, ErrDenied
	}
	return p, nil
}

// ownedPhone loads a phone and checks it hangs under personID.
func (w *Workflow) ownedPhone(ctx context.Context, personID, phoneID string) (*PhoneNumber, error) {
	ph, err := w.store.GetPhone(ctx, phoneID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrPhoneNotInContact
		}
		return nil, fmt.Errorf("load phone: %w", err)
	}
	if ph.PersonID != personID {
		return nil, ErrPhoneNotInContact
	}
	return ph, nil
}

// PageFunc selects the persons of one page from the owner's full listing.
type PageFunc func([]Person) []Person

// ListContacts returns the identity's persons with their formatted phones.
// When page is non-nil only the persons it selects have their phones loaded.
func (w *Workflow) ListContacts(ctx context.Context, identity string, page PageFunc) (out []ContactSummary, err error) {
	defer func() { w.observe("list_contacts", err) }()

	owner := NormalizeIdentity(identity)
	if owner == "" {
		return nil, ErrDenied
	}
	persons, err := w.store.ListPersonsByOwner(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("list persons: %w", err)
	}
	if page != nil {
		persons = page(persons)
	}
	out = make([]ContactSummary, 0, len(persons))
	for _, p := range persons {
		phones, err := w.store.ListPhonesByPerson(ctx, p.ID)
		if err != nil {
			return nil, fmt.Errorf("list phones: %w", err)
		}
		out = append(out, ContactSummary{Person: p, Phones: FormatPhones(phones)})
	}
	return out, nil
}

// ViewPerson returns a person's display name and phones.
func (w *Workflow) ViewPerson(ctx context.Context, personID, identity string) (view *PersonPhones, err error) {
	defer func() { w.observe("view_person", err) }()

	p, err := w.guard(ctx, personID, identity)
	if err != nil {
		return nil, err
	}
	phones, err := w.store.ListPhonesByPerson(ctx, p.ID)
	if err != nil {
		return nil, fmt.Errorf("list phones: %w", err)
	}
	return &PersonPhones{Person: *p, Name: p.DisplayName(), Phones: phones}, nil
}

// GetPerson returns a person the identity owns.
func (w *Workflow) GetPerson(ctx context.Context, personID, identity string) (p *Person, err error) {
	defer func() { w.observe("get_person", err) }()
	return w.guard(ctx, personID, identity)
}

// GetPhone returns a phone together with its owning person.
func (w *Workflow) GetPhone(ctx context.Context, personID, phoneID, identity string) (ph *PhoneNumber, p *Person, err error) {
	defer func() { w.observe("get_phone", err) }()

	p, err = w.guard(ctx, personID, identity)
	if err != nil {
		return nil, nil, err
	}
	ph, err = w.ownedPhone(ctx, personID, phoneID)
	if err != nil {
		return nil, nil, err
	}
	return ph, p, nil
}

// CreatePerson inserts a person owned by identity.
func (w *Workflow) CreatePerson(ctx context.Context, identity string, fields PersonFields) (p *Person, err error) {
	owner := NormalizeIdentity(identity)
	defer func() {
		w.observe("create_person", err)
		id := ""
		if p != nil {
			id = p.ID
		}
		audit(ctx, "create", owner, resourcePerson, id, err)
	}()

	if owner == "" {
		return nil, ErrDenied
	}
	fields = fields.Normalize()
	if err := fields.Validate(); err != nil {
		return nil, err
	}
	p, err = w.store.InsertPerson(ctx, Person{
		FirstName:  fields.FirstName,
		LastName:   fields.LastName,
		OwnerEmail: owner,
	})
	if err != nil {
		return nil, fmt.Errorf("insert person: %w", err)
	}
	return p, nil
}

// CreatePhone adds a phone to a person the identity owns.
func (w *Workflow) CreatePhone(
	ctx context.Context,
	personID, identity string,
	fields PhoneFields,
) (ph *PhoneNumber, err error) {
	actor := NormalizeIdentity(identity)
	defer func() {
		w.observe("create_phone", err)
		id := ""
		if ph != nil {
			id = ph.ID
		}
		audit(ctx, "create", actor, resourcePhone, id, err)
	}()

	if _, err := w.guard(ctx, personID, identity); err != nil {
		return nil, err
	}
	fields = fields.Normalize()
	if err := fields.Validate(); err != nil {
		return nil, err
	}
	ph, err = w.store.InsertPhone(ctx, PhoneNumber{
		PersonID: personID,
		Phone:    fields.Phone,
		Kind:     fields.Kind,
	})
	if err != nil {
		return nil, fmt.Errorf("insert phone: %w", err)
	}
	return ph, nil
}

// UpdatePerson changes a person's names. The owner never changes.
func (w *Workflow) UpdatePerson(
	ctx context.Context,
	personID, identity string,
	fields PersonFields,
) (p *Person, err error) {
	defer func() {
		w.observe("update_person", err)
		audit(ctx, "update", NormalizeIdentity(identity), resourcePerson, personID, err)
	}()

	if _, err := w.guard(ctx, personID, identity); err != nil {
		return nil, err
	}
	fields = fields.Normalize()
	if err := fields.Validate(); err != nil {
		return nil, err
	}
	p, err = w.store.UpdatePerson(ctx, personID, fields)
	if err != nil {
		return nil, fmt.Errorf("update person: %w", err)
	}
	return p, nil
}

// UpdatePhone changes a phone that belongs to personID.
func (w *Workflow) UpdatePhone(
	ctx context.Context,
	personID, phoneID, identity string,
	fields PhoneFields,
) (ph *PhoneNumber, err error) {
	defer func() {
		w.observe("update_phone", err)
		audit(ctx, "update", NormalizeIdentity(identity), resourcePhone, phoneID, err)
	}()

	if _, err := w.guard(ctx, personID, identity); err != nil {
		return nil, err
	}
	if _, err := w.ownedPhone(ctx, personID, phoneID); err != nil {
		return nil, err
	}
	fields = fields.Normalize()
	if err := fields.Validate(); err != nil {
		return nil, err
	}
	ph, err = w.store.UpdatePhone(ctx, personID, phoneID, fields)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrPhoneNotInContact
		}
		return nil, fmt.Errorf("update phone: %w", err)
	}
	return ph, nil
}

// DeletePerson removes a person and its phones, then confirms the person is gone.
func (w *Workflow) DeletePerson(ctx context.Context, personID, identity string) (err error) {
	defer func() {
		w.observe("delete_person", err)
		audit(ctx, "delete", NormalizeIdentity(identity), resourcePerson, personID, err)
	}()

	if _, err := w.guard(ctx, personID, identity); err != nil {
		return err
	}
	if err := w.store.DeletePerson(ctx, personID); err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("delete person: %w", err)
	}
	_, err = w.store.GetPerson(ctx, personID)
	switch {
	case errors.Is(err, ErrNotFound):
		return nil
	case err != nil:
		return fmt.Errorf("confirm delete: %w", err)
	default:
		return fmt.Errorf("person %s still present after delete", personID)
	}
}

// DeletePhone removes a phone that belongs to personID.
func (w *Workflow) DeletePhone(ctx context.Context, personID, phoneID, identity string) (err error) {
	defer func() {
		w.observe("delete_phone", err)
		audit(ctx, "delete", NormalizeIdentity(identity), resourcePhone, phoneID, err)
	}()

	if _, err := w.guard(ctx, personID, identity); err != nil {
		return err
	}
	if err := w.store.DeletePhone(ctx, personID, phoneID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrPhoneNotInContact
		}
		return fmt.Errorf("delete phone: %w", err)
	}
	return nil
}
