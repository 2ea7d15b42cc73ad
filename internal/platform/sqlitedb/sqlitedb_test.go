package sqlitedb

import (
	"context"
	"path/filepath"
	"testing"
)

func TestOpenCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "test.db")

	db, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer db.Close()

	var fk int
	if err := db.QueryRow("PRAGMA foreign_keys").Scan(&fk); err != nil {
		t.Fatalf("query pragma: %v", err)
	}
	if fk != 1 {
		t.Fatalf("expected foreign_keys=1, got %d", fk)
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer db.Close()

	schema := `CREATE TABLE IF NOT EXISTS things (id TEXT PRIMARY KEY);`
	ctx := context.Background()
	for range 2 {
		if err := Migrate(ctx, db, schema); err != nil {
			t.Fatalf("Migrate failed: %v", err)
		}
	}
}

func TestMigrateReportsError(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer db.Close()

	if err := Migrate(context.Background(), db, "CREATE TABLE broken ("); err == nil {
		t.Fatal("expected error for invalid schema")
	}
}
