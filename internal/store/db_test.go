package store

import (
	"context"
	"database/sql"
	"strings"
	"testing"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	db, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestOpenMemory(t *testing.T) {
	db := testDB(t)
	if db.Path != ":memory:" {
		t.Errorf("Path = %q, want :memory:", db.Path)
	}
}

func TestSchemaVersion(t *testing.T) {
	db := testDB(t)

	v, err := db.SchemaVersion()
	if err != nil {
		t.Fatalf("SchemaVersion: %v", err)
	}
	if v != len(migrations) {
		t.Errorf("SchemaVersion = %d, want %d", v, len(migrations))
	}
}

func TestTablesExist(t *testing.T) {
	db := testDB(t)

	tables := []string{"schema_versions", "documents", "queue_items", "prophecies"}
	for _, table := range tables {
		var name string
		err := db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %q not found: %v", table, err)
		}
	}
}

func TestMigrateIdempotent(t *testing.T) {
	db := testDB(t)
	if err := db.migrate(); err != nil {
		t.Fatalf("second migrate: %v", err)
	}
	v, _ := db.SchemaVersion()
	if v != len(migrations) {
		t.Errorf("SchemaVersion after re-migrate = %d", v)
	}
}

func TestOpenFile(t *testing.T) {
	path := t.TempDir() + "/nested/oracle.db"
	db, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()

	if err := db.SetPostingEnabled(true); err != nil {
		t.Fatalf("SetPostingEnabled: %v", err)
	}
	db.Close()

	db2, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer db2.Close()
	on, err := db2.PostingEnabled()
	if err != nil {
		t.Fatalf("PostingEnabled: %v", err)
	}
	if !on {
		t.Error("posting flag did not survive reopen")
	}
}

func TestPragmasApplyToEveryConnection(t *testing.T) {
	db, err := Open(t.TempDir() + "/oracle.db")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	// Hold the first connection so the pool must dial a second.
	c1, err := db.Conn(ctx)
	if err != nil {
		t.Fatalf("Conn: %v", err)
	}
	defer c1.Close()
	c2, err := db.Conn(ctx)
	if err != nil {
		t.Fatalf("Conn: %v", err)
	}
	defer c2.Close()

	for i, c := range []*sql.Conn{c1, c2} {
		var busy, fk int
		if err := c.QueryRowContext(ctx, "PRAGMA busy_timeout").Scan(&busy); err != nil {
			t.Fatalf("conn %d busy_timeout: %v", i, err)
		}
		if err := c.QueryRowContext(ctx, "PRAGMA foreign_keys").Scan(&fk); err != nil {
			t.Fatalf("conn %d foreign_keys: %v", i, err)
		}
		if busy != 5000 {
			t.Errorf("conn %d busy_timeout = %d, want 5000", i, busy)
		}
		if fk != 1 {
			t.Errorf("conn %d foreign_keys = %d, want 1", i, fk)
		}
		var mode string
		if err := c.QueryRowContext(ctx, "PRAGMA journal_mode").Scan(&mode); err != nil {
			t.Fatalf("conn %d journal_mode: %v", i, err)
		}
		if !strings.EqualFold(mode, "wal") {
			t.Errorf("conn %d journal_mode = %q, want wal", i, mode)
		}
	}
}

func TestDSN(t *testing.T) {
	got := dsn("/tmp/oracle.db")
	if !strings.HasPrefix(got, "/tmp/oracle.db?_pragma=") {
		t.Errorf("dsn = %q", got)
	}
	if n := strings.Count(got, "_pragma="); n != len(connPragmas) {
		t.Errorf("dsn has %d pragmas, want %d", n, len(connPragmas))
	}
	if got := dsn("file:x.db?mode=rwc"); !strings.Contains(got, "?mode=rwc&_pragma=") {
		t.Errorf("dsn with query = %q", got)
	}
}
