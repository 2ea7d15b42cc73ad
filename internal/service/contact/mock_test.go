package contact

import (
	"context"
	"errors"
	"testing"
)

func TestMockStore(t *testing.T) {
	runStoreSuite(t, func(t *testing.T) Store { return NewMockStore() })
}

func TestMockStoreErr(t *testing.T) {
	s := NewMockStore()
	boom := errors.New("boom")
	s.Err = boom

	ctx := context.Background()
	if _, err := s.GetPerson(ctx, "x"); !errors.Is(err, boom) {
		t.Errorf("GetPerson: expected boom, got %v", err)
	}
	if _, err := s.ListPersonsByOwner(ctx, "a@x.com"); !errors.Is(err, boom) {
		t.Errorf("ListPersonsByOwner: expected boom, got %v", err)
	}
	if _, err := s.InsertPerson(ctx, Person{}); !errors.Is(err, boom) {
		t.Errorf("InsertPerson: expected boom, got %v", err)
	}
	if err := s.DeletePhone(ctx, "p", "ph"); !errors.Is(err, boom) {
		t.Errorf("DeletePhone: expected boom, got %v", err)
	}
}

func TestMockStoreReturnsCopies(t *testing.T) {
	s := NewMockStore()
	ctx := context.Background()
	p, _ := s.InsertPerson(ctx, Person{FirstName: "Jo", LastName: "Doe", OwnerEmail: "a@x.com"})
	p.FirstName = "changed"

	got, _ := s.GetPerson(ctx, p.ID)
	if got.FirstName != "Jo" {
		t.Fatalf("store state leaked through returned pointer: %+v", got)
	}
}
