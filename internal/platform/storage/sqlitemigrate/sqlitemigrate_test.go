package sqlitemigrate

import (
	"context"
	"database/sql"
	"testing"
	"testing/fstest"

	_ "modernc.org/sqlite"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func countMigrations(t *testing.T, db *sql.DB) int64 {
	t.Helper()
	var n int64
	if err := db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&n); err != nil {
		t.Fatalf("count migrations: %v", err)
	}
	return n
}

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var found int
	err := db.QueryRow("SELECT 1 FROM sqlite_master WHERE type='table' AND name=?", name).Scan(&found)
	if err == sql.ErrNoRows {
		return false
	}
	if err != nil {
		t.Fatalf("check table %s: %v", name, err)
	}
	return true
}

func TestApplyMigrationsRunsAndRecords(t *testing.T) {
	db := openTestDB(t)
	migrations := fstest.MapFS{
		"001_create.sql": &fstest.MapFile{
			Data: []byte("-- +migrate Up\nCREATE TABLE items(id TEXT PRIMARY KEY);\n-- +migrate Down\nDROP TABLE items;"),
		},
	}

	if err := ApplyMigrations(context.Background(), db, migrations); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}

	if got := countMigrations(t, db); got != 1 {
		t.Fatalf("migration rows = %d, want 1", got)
	}
	if !tableExists(t, db, "items") {
		t.Fatal("migrated table missing")
	}
}

func TestApplyMigrationsIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	migrations := fstest.MapFS{
		"001_create.sql": &fstest.MapFile{
			Data: []byte("-- +migrate Up\nCREATE TABLE items(id TEXT PRIMARY KEY);"),
		},
	}

	for i := 0; i < 2; i++ {
		if err := ApplyMigrations(context.Background(), db, migrations); err != nil {
			t.Fatalf("apply pass %d: %v", i, err)
		}
	}
	if got := countMigrations(t, db); got != 1 {
		t.Fatalf("migration rows after replay = %d, want 1", got)
	}
}

func TestApplyMigrationsRunsInOrder(t *testing.T) {
	db := openTestDB(t)
	migrations := fstest.MapFS{
		"002_add_column.sql": &fstest.MapFile{
			Data: []byte("-- +migrate Up\nALTER TABLE items ADD COLUMN label TEXT;"),
		},
		"001_create.sql": &fstest.MapFile{
			Data: []byte("-- +migrate Up\nCREATE TABLE items(id TEXT PRIMARY KEY);"),
		},
	}

	if err := ApplyMigrations(context.Background(), db, migrations); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	if got := countMigrations(t, db); got != 2 {
		t.Fatalf("migration rows = %d, want 2", got)
	}
}

func TestApplyMigrationsDoesNotRecordFailure(t *testing.T) {
	db := openTestDB(t)
	bad := fstest.MapFS{
		"001_bad.sql": &fstest.MapFile{
			Data: []byte("-- +migrate Up\nCREAT table broken(id INT);"),
		},
	}

	if err := ApplyMigrations(context.Background(), db, bad); err == nil {
		t.Fatal("expected bad migration to fail")
	}
	if got := countMigrations(t, db); got != 0 {
		t.Fatalf("failed migration recorded: %d rows", got)
	}
}

func TestUpSectionWithoutMarkersIsWholeFile(t *testing.T) {
	sqlText := "CREATE TABLE plain(id TEXT);"
	if got := upSection(sqlText); got != sqlText {
		t.Fatalf("upSection = %q, want whole file", got)
	}
}
