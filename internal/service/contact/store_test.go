package contact

import (
	"context"
	"errors"
	"testing"
	"time"
)

// runStoreSuite exercises the Store contract against one implementation.
func runStoreSuite(t *testing.T, newStore func(t *testing.T) Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("InsertPerson assigns ID and timestamps", func(t *testing.T) {
		s := newStore(t)
		p, err := s.InsertPerson(ctx, Person{FirstName: "Jo", LastName: "Doe", OwnerEmail: "a@x.com"})
		if err != nil {
			t.Fatalf("InsertPerson failed: %v", err)
		}
		if p.ID == "" {
			t.Error("expected ID to be assigned")
		}
		if p.CreatedAt.IsZero() || p.UpdatedAt.IsZero() {
			t.Error("expected timestamps to be set")
		}

		got, err := s.GetPerson(ctx, p.ID)
		if err != nil {
			t.Fatalf("GetPerson failed: %v", err)
		}
		if got.FirstName != "Jo" || got.LastName != "Doe" || got.OwnerEmail != "a@x.com" {
			t.Errorf("unexpected person: %+v", got)
		}
	})

	t.Run("GetPerson missing returns ErrNotFound", func(t *testing.T) {
		s := newStore(t)
		if _, err := s.GetPerson(ctx, "missing"); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("ListPersonsByOwner filters and keeps creation order", func(t *testing.T) {
		s := newStore(t)
		var want []string
		for _, name := range []string{"Ann", "Bob", "Cid"} {
			p, err := s.InsertPerson(ctx, Person{FirstName: name, LastName: "X", OwnerEmail: "a@x.com"})
			if err != nil {
				t.Fatalf("InsertPerson failed: %v", err)
			}
			want = append(want, p.ID)
			if _, err := s.InsertPerson(ctx, Person{FirstName: name, LastName: "Y", OwnerEmail: "b@x.com"}); err != nil {
				t.Fatalf("InsertPerson failed: %v", err)
			}
			time.Sleep(2 * time.Millisecond)
		}

		got, err := s.ListPersonsByOwner(ctx, "a@x.com")
		if err != nil {
			t.Fatalf("ListPersonsByOwner failed: %v", err)
		}
		if len(got) != len(want) {
			t.Fatalf("expected %d persons, got %d", len(want), len(got))
		}
		for i, p := range got {
			if p.ID != want[i] {
				t.Errorf("position %d: expected %s, got %s", i, want[i], p.ID)
			}
			if p.OwnerEmail != "a@x.com" {
				t.Errorf("foreign person listed: %+v", p)
			}
		}
	})

	t.Run("UpdatePerson keeps owner", func(t *testing.T) {
		s := newStore(t)
		p, _ := s.InsertPerson(ctx, Person{FirstName: "Jo", LastName: "Doe", OwnerEmail: "a@x.com"})

		got, err := s.UpdatePerson(ctx, p.ID, PersonFields{FirstName: "Joanna", LastName: "Roe"})
		if err != nil {
			t.Fatalf("UpdatePerson failed: %v", err)
		}
		if got.FirstName != "Joanna" || got.LastName != "Roe" || got.OwnerEmail != "a@x.com" {
			t.Errorf("unexpected person: %+v", got)
		}
		if _, err := s.UpdatePerson(ctx, "missing", PersonFields{}); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("phones round trip in creation order", func(t *testing.T) {
		s := newStore(t)
		p, _ := s.InsertPerson(ctx, Person{FirstName: "Jo", LastName: "Doe", OwnerEmail: "a@x.com"})

		first, err := s.InsertPhone(ctx, PhoneNumber{PersonID: p.ID, Phone: "555-1111", Kind: "home"})
		if err != nil {
			t.Fatalf("InsertPhone failed: %v", err)
		}
		time.Sleep(2 * time.Millisecond)
		second, err := s.InsertPhone(ctx, PhoneNumber{PersonID: p.ID, Phone: "555-2222", Kind: "mobile"})
		if err != nil {
			t.Fatalf("InsertPhone failed: %v", err)
		}

		phones, err := s.ListPhonesByPerson(ctx, p.ID)
		if err != nil {
			t.Fatalf("ListPhonesByPerson failed: %v", err)
		}
		if len(phones) != 2 || phones[0].ID != first.ID || phones[1].ID != second.ID {
			t.Fatalf("unexpected phones: %+v", phones)
		}
		if FormatPhones(phones) != "555-1111 (home), 555-2222 (mobile)" {
			t.Errorf("unexpected format: %q", FormatPhones(phones))
		}

		got, err := s.GetPhone(ctx, first.ID)
		if err != nil {
			t.Fatalf("GetPhone failed: %v", err)
		}
		if got.PersonID != p.ID || got.Phone != "555-1111" {
			t.Errorf("unexpected phone: %+v", got)
		}
	})

	t.Run("InsertPhone without person returns ErrNotFound", func(t *testing.T) {
		s := newStore(t)
		_, err := s.InsertPhone(ctx, PhoneNumber{PersonID: "missing", Phone: "555", Kind: "home"})
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("phone mutations are scoped to person", func(t *testing.T) {
		s := newStore(t)
		p1, _ := s.InsertPerson(ctx, Person{FirstName: "A", LastName: "A", OwnerEmail: "a@x.com"})
		p2, _ := s.InsertPerson(ctx, Person{FirstName: "B", LastName: "B", OwnerEmail: "b@x.com"})
		ph, _ := s.InsertPhone(ctx, PhoneNumber{PersonID: p2.ID, Phone: "555", Kind: "home"})

		if _, err := s.UpdatePhone(ctx, p1.ID, ph.ID, PhoneFields{Phone: "999", Kind: "work"}); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
		if err := s.DeletePhone(ctx, p1.ID, ph.ID); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}

		got, err := s.GetPhone(ctx, ph.ID)
		if err != nil {
			t.Fatalf("GetPhone failed: %v", err)
		}
		if got.Phone != "555" || got.Kind != "home" {
			t.Errorf("phone was mutated: %+v", got)
		}

		updated, err := s.UpdatePhone(ctx, p2.ID, ph.ID, PhoneFields{Phone: "999", Kind: "work"})
		if err != nil {
			t.Fatalf("UpdatePhone failed: %v", err)
		}
		if updated.Phone != "999" || updated.Kind != "work" || updated.PersonID != p2.ID {
			t.Errorf("unexpected phone: %+v", updated)
		}
		if err := s.DeletePhone(ctx, p2.ID, ph.ID); err != nil {
			t.Fatalf("DeletePhone failed: %v", err)
		}
		if _, err := s.GetPhone(ctx, ph.ID); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound after delete, got %v", err)
		}
	})

	t.Run("DeletePerson cascades to phones", func(t *testing.T) {
		s := newStore(t)
		p, _ := s.InsertPerson(ctx, Person{FirstName: "Jo", LastName: "Doe", OwnerEmail: "a@x.com"})
		other, _ := s.InsertPerson(ctx, Person{FirstName: "Al", LastName: "Roe", OwnerEmail: "a@x.com"})
		ph, _ := s.InsertPhone(ctx, PhoneNumber{PersonID: p.ID, Phone: "555", Kind: "home"})
		keep, _ := s.InsertPhone(ctx, PhoneNumber{PersonID: other.ID, Phone: "777", Kind: "home"})

		if err := s.DeletePerson(ctx, p.ID); err != nil {
			t.Fatalf("DeletePerson failed: %v", err)
		}
		if _, err := s.GetPerson(ctx, p.ID); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected person gone, got %v", err)
		}
		if _, err := s.GetPhone(ctx, ph.ID); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected phone gone, got %v", err)
		}
		if _, err := s.GetPhone(ctx, keep.ID); err != nil {
			t.Errorf("unrelated phone removed: %v", err)
		}
		if err := s.DeletePerson(ctx, p.ID); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound on second delete, got %v", err)
		}
	})
}
