package contact

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/janisto/huma-contacts/internal/platform/sqlitedb"
)

// SQLiteStore implements Store on a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore runs the contact migrations on db and returns the store.
func NewSQLiteStore(ctx context.Context, db *sql.DB) (*SQLiteStore, error) {
	if err := sqlitedb.Migrate(ctx, db, schema); err != nil {
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

// Timestamps are stored as Unix nanoseconds so ordering is exact.
func toUnix(t time.Time) int64 { return t.UnixNano() }

func fromUnix(n int64) time.Time { return time.Unix(0, n).UTC() }

type rowScanner interface {
	Scan(dest ...any) error
}

const personColumns = "id, first_name, last_name, owner_email, created_at, updated_at"

func scanPerson(row rowScanner) (*Person, error) {
	var (
		p                Person
		created, updated int64
	)
	if err := row.Scan(&p.ID, &p.FirstName, &p.LastName, &p.OwnerEmail, &created, &updated); err != nil {
		return nil, err
	}
	p.CreatedAt, p.UpdatedAt = fromUnix(created), fromUnix(updated)
	return &p, nil
}

const phoneColumns = "id, person_id, phone, kind, created_at, updated_at"

func scanPhone(row rowScanner) (*PhoneNumber, error) {
	var (
		ph               PhoneNumber
		created, updated int64
	)
	if err := row.Scan(&ph.ID, &ph.PersonID, &ph.Phone, &ph.Kind, &created, &updated); err != nil {
		return nil, err
	}
	ph.CreatedAt, ph.UpdatedAt = fromUnix(created), fromUnix(updated)
	return &ph, nil
}

// GetPerson retrieves a person by ID.
func (s *SQLiteStore) GetPerson(ctx context.Context, id string) (*Person, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+personColumns+" FROM persons WHERE id = ?", id)
	p, err := scanPerson(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get person: %w", err)
	}
	return p, nil
}

// ListPersonsByOwner returns the owner's persons oldest first.
func (s *SQLiteStore) ListPersonsByOwner(ctx context.Context, owner string) ([]Person, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+personColumns+" FROM persons WHERE owner_email = ? ORDER BY created_at, id",
		owner,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list persons: %w", err)
	}
	defer rows.Close()

	var out []Person
	for rows.Next() {
		p, err := scanPerson(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan person: %w", err)
		}
		out = append(out, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate persons: %w", err)
	}
	return out, nil
}

// InsertPerson stores a new person.
func (s *SQLiteStore) InsertPerson(ctx context.Context, p Person) (*Person, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	p.CreatedAt, p.UpdatedAt = now, now

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO persons ("+personColumns+") VALUES (?, ?, ?, ?, ?, ?)",
		p.ID, p.FirstName, p.LastName, p.OwnerEmail, toUnix(now), toUnix(now),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert person: %w", err)
	}
	return &p, nil
}

// UpdatePerson replaces a person's names.
func (s *SQLiteStore) UpdatePerson(ctx context.Context, id string, fields PersonFields) (*Person, error) {
	row := s.db.QueryRowContext(ctx,
		"UPDATE persons SET first_name = ?, last_name = ?, updated_at = ? WHERE id = ? RETURNING "+personColumns,
		fields.FirstName, fields.LastName, toUnix(time.Now().UTC()), id,
	)
	p, err := scanPerson(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update person: %w", err)
	}
	return p, nil
}

// DeletePerson removes a person and its phones in one transaction.
func (s *SQLiteStore) DeletePerson(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM phone_numbers WHERE person_id = ?", id); err != nil {
		return fmt.Errorf("failed to delete phones: %w", err)
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM persons WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete person: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetPhone retrieves a phone number by ID.
func (s *SQLiteStore) GetPhone(ctx context.Context, id string) (*PhoneNumber, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+phoneColumns+" FROM phone_numbers WHERE id = ?", id)
	ph, err := scanPhone(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get phone: %w", err)
	}
	return ph, nil
}

// ListPhonesByPerson returns a person's phones oldest first.
func (s *SQLiteStore) ListPhonesByPerson(ctx context.Context, personID string) ([]PhoneNumber, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+phoneColumns+" FROM phone_numbers WHERE person_id = ? ORDER BY created_at, id",
		personID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list phones: %w", err)
	}
	defer rows.Close()

	var out []PhoneNumber
	for rows.Next() {
		ph, err := scanPhone(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan phone: %w", err)
		}
		out = append(out, *ph)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate phones: %w", err)
	}
	return out, nil
}

// InsertPhone stores a phone under an existing person.
func (s *SQLiteStore) InsertPhone(ctx context.Context, ph PhoneNumber) (*PhoneNumber, error) {
	if ph.ID == "" {
		ph.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	ph.CreatedAt, ph.UpdatedAt = now, now

	res, err := s.db.ExecContext(ctx,
		"INSERT INTO phone_numbers ("+phoneColumns+") "+
			"SELECT ?, id, ?, ?, ?, ? FROM persons WHERE id = ?",
		ph.ID, ph.Phone, ph.Kind, toUnix(now), toUnix(now), ph.PersonID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert phone: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, ErrNotFound
	}
	return &ph, nil
}

// UpdatePhone changes a phone that belongs to personID.
func (s *SQLiteStore) UpdatePhone(
	ctx context.Context,
	personID, phoneID string,
	fields PhoneFields,
) (*PhoneNumber, error) {
	row := s.db.QueryRowContext(ctx,
		"UPDATE phone_numbers SET phone = ?, kind = ?, updated_at = ? "+
			"WHERE id = ? AND person_id = ? RETURNING "+phoneColumns,
		fields.Phone, fields.Kind, toUnix(time.Now().UTC()), phoneID, personID,
	)
	ph, err := scanPhone(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update phone: %w", err)
	}
	return ph, nil
}

// DeletePhone removes a phone that belongs to personID.
func (s *SQLiteStore) DeletePhone(ctx context.Context, personID, phoneID string) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM phone_numbers WHERE id = ? AND person_id = ?",
		phoneID, personID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete phone: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete phone: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Compile-time interface check
var _ Store = (*SQLiteStore)(nil)
