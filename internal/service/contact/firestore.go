package contact

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	personsCollection = "persons"
	phonesCollection  = "phone_numbers"

	fieldOwnerEmail = "owner_email"
	fieldPersonID   = "person_id"
	fieldCreatedAt  = "created_at"
)

// firestorePerson maps to Firestore document structure.
type firestorePerson struct {
	FirstName  string    `firestore:"first_name"`
	LastName   string    `firestore:"last_name"`
	OwnerEmail string    `firestore:"owner_email"`
	CreatedAt  time.Time `firestore:"created_at"`
	UpdatedAt  time.Time `firestore:"updated_at"`
}

func (fp firestorePerson) toPerson(id string) *Person {
	return &Person{
		ID:         id,
		FirstName:  fp.FirstName,
		LastName:   fp.LastName,
		OwnerEmail: fp.OwnerEmail,
		CreatedAt:  fp.CreatedAt,
		UpdatedAt:  fp.UpdatedAt,
	}
}

type firestorePhone struct {
	PersonID  string    `firestore:"person_id"`
	Phone     string    `firestore:"phone"`
	Kind      string    `firestore:"kind"`
	CreatedAt time.Time `firestore:"created_at"`
	UpdatedAt time.Time `firestore:"updated_at"`
}

func (fp firestorePhone) toPhone(id string) *PhoneNumber {
	return &PhoneNumber{
		ID:        id,
		PersonID:  fp.PersonID,
		Phone:     fp.Phone,
		Kind:      fp.Kind,
		CreatedAt: fp.CreatedAt,
		UpdatedAt: fp.UpdatedAt,
	}
}

// FirestoreStore implements Store using Firestore with transactions.
type FirestoreStore struct {
	client *firestore.Client
}

// NewFirestoreStore creates a new Firestore-backed store.
func NewFirestoreStore(client *firestore.Client) *FirestoreStore {
	return &FirestoreStore{client: client}
}

// Ping runs a single-document query to confirm Firestore is reachable.
func (s *FirestoreStore) Ping(ctx context.Context) error {
	iter := s.persons().Limit(1).Documents(ctx)
	defer iter.Stop()
	if _, err := iter.Next(); err != nil && err != iterator.Done {
		return err
	}
	return nil
}

func (s *FirestoreStore) persons() *firestore.CollectionRef {
	return s.client.Collection(personsCollection)
}

func (s *FirestoreStore) phones() *firestore.CollectionRef {
	return s.client.Collection(phonesCollection)
}

// GetPerson retrieves a person by ID.
func (s *FirestoreStore) GetPerson(ctx context.Context, id string) (*Person, error) {
	doc, err := s.persons().Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	var fp firestorePerson
	if err := doc.DataTo(&fp); err != nil {
		return nil, err
	}
	return fp.toPerson(doc.Ref.ID), nil
}

// ListPersonsByOwner returns the owner's persons oldest first.
// The query needs the persons composite index in firestore.indexes.json.
func (s *FirestoreStore) ListPersonsByOwner(ctx context.Context, owner string) ([]Person, error) {
	q := s.persons().
		Where(fieldOwnerEmail, "==", owner).
		OrderBy(fieldCreatedAt, firestore.Asc).
		OrderBy(firestore.DocumentID, firestore.Asc)

	iter := q.Documents(ctx)
	defer iter.Stop()

	var out []Person
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		var fp firestorePerson
		if err := doc.DataTo(&fp); err != nil {
			return nil, err
		}
		out = append(out, *fp.toPerson(doc.Ref.ID))
	}
	return out, nil
}

// InsertPerson creates a person document. Create fails if the ID is taken.
func (s *FirestoreStore) InsertPerson(ctx context.Context, p Person) (*Person, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	fp := firestorePerson{
		FirstName:  p.FirstName,
		LastName:   p.LastName,
		OwnerEmail: p.OwnerEmail,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	docRef := s.persons().Doc(p.ID)

	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		return tx.Create(docRef, fp)
	})
	if err != nil {
		return nil, err
	}
	return fp.toPerson(p.ID), nil
}

// UpdatePerson replaces a person's names inside a transaction.
func (s *FirestoreStore) UpdatePerson(ctx context.Context, id string, fields PersonFields) (*Person, error) {
	docRef := s.persons().Doc(id)

	var result *Person

	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(docRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return ErrNotFound
			}
			return err
		}

		var fp firestorePerson
		if err := doc.DataTo(&fp); err != nil {
			return err
		}
		fp.FirstName = fields.FirstName
		fp.LastName = fields.LastName
		fp.UpdatedAt = time.Now().UTC()

		if err := tx.Set(docRef, fp); err != nil {
			return err
		}
		result = fp.toPerson(id)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// DeletePerson removes a person and all of its phones in one transaction.
func (s *FirestoreStore) DeletePerson(ctx context.Context, id string) error {
	docRef := s.persons().Doc(id)

	return s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if _, err := tx.Get(docRef); err != nil {
			if status.Code(err) == codes.NotFound {
				return ErrNotFound
			}
			return err
		}

		// All reads must precede writes in a Firestore transaction.
		phoneDocs, err := tx.Documents(s.phones().Where(fieldPersonID, "==", id)).GetAll()
		if err != nil {
			return err
		}
		for _, doc := range phoneDocs {
			if err := tx.Delete(doc.Ref); err != nil {
				return err
			}
		}
		return tx.Delete(docRef)
	})
}

// GetPhone retrieves a phone number by ID.
func (s *FirestoreStore) GetPhone(ctx context.Context, id string) (*PhoneNumber, error) {
	doc, err := s.phones().Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	var fp firestorePhone
	if err := doc.DataTo(&fp); err != nil {
		return nil, err
	}
	return fp.toPhone(doc.Ref.ID), nil
}

// ListPhonesByPerson returns a person's phones oldest first.
// The query needs the phone_numbers composite index in firestore.indexes.json.
func (s *FirestoreStore) ListPhonesByPerson(ctx context.Context, personID string) ([]PhoneNumber, error) {
	docs, err := s.phones().
		Where(fieldPersonID, "==", personID).
		OrderBy(fieldCreatedAt, firestore.Asc).
		OrderBy(firestore.DocumentID, firestore.Asc).
		Documents(ctx).GetAll()
	if err != nil {
		return nil, err
	}

	out := make([]PhoneNumber, 0, len(docs))
	for _, doc := range docs {
		var fp firestorePhone
		if err := doc.DataTo(&fp); err != nil {
			return nil, err
		}
		out = append(out, *fp.toPhone(doc.Ref.ID))
	}
	return out, nil
}

// InsertPhone creates a phone under an existing person.
func (s *FirestoreStore) InsertPhone(ctx context.Context, ph PhoneNumber) (*PhoneNumber, error) {
	if ph.ID == "" {
		ph.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	fp := firestorePhone{
		PersonID:  ph.PersonID,
		Phone:     ph.Phone,
		Kind:      ph.Kind,
		CreatedAt: now,
		UpdatedAt: now,
	}
	personRef := s.persons().Doc(ph.PersonID)
	docRef := s.phones().Doc(ph.ID)

	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if _, err := tx.Get(personRef); err != nil {
			if status.Code(err) == codes.NotFound {
				return ErrNotFound
			}
			return err
		}
		return tx.Create(docRef, fp)
	})
	if err != nil {
		return nil, err
	}
	return fp.toPhone(ph.ID), nil
}

// getScopedPhone reads a phone inside tx and checks it belongs to personID.
func getScopedPhone(tx *firestore.Transaction, docRef *firestore.DocumentRef, personID string) (firestorePhone, error) {
	var fp firestorePhone
	doc, err := tx.Get(docRef)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return fp, ErrNotFound
		}
		return fp, err
	}
	if err := doc.DataTo(&fp); err != nil {
		return fp, err
	}
	if fp.PersonID != personID {
		return fp, ErrNotFound
	}
	return fp, nil
}

// UpdatePhone changes a phone that belongs to personID.
func (s *FirestoreStore) UpdatePhone(
	ctx context.Context,
	personID, phoneID string,
	fields PhoneFields,
) (*PhoneNumber, error) {
	docRef := s.phones().Doc(phoneID)

	var result *PhoneNumber

	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		fp, err := getScopedPhone(tx, docRef, personID)
		if err != nil {
			return err
		}
		fp.Phone = fields.Phone
		fp.Kind = fields.Kind
		fp.UpdatedAt = time.Now().UTC()

		if err := tx.Set(docRef, fp); err != nil {
			return err
		}
		result = fp.toPhone(phoneID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// DeletePhone removes a phone that belongs to personID.
func (s *FirestoreStore) DeletePhone(ctx context.Context, personID, phoneID string) error {
	docRef := s.phones().Doc(phoneID)

	return s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if _, err := getScopedPhone(tx, docRef, personID); err != nil {
			return err
		}
		return tx.Delete(docRef)
	})
}

// Compile-time interface check
var _ Store = (*FirestoreStore)(nil)
