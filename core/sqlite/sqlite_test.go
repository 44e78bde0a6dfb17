package sqlite

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestDriverInfo(t *testing.T) {
	info := GetInfo()

	if info.DriverName == "" {
		t.Error("DriverName should not be empty")
	}
	if info.Package == "" {
		t.Error("Package should not be empty")
	}
	if info.DriverName != DriverName() {
		t.Errorf("DriverName mismatch: info=%s, func=%s", info.DriverName, DriverName())
	}
	if info.IsCGO != IsCGO() {
		t.Errorf("IsCGO mismatch: info=%v, func=%v", info.IsCGO, IsCGO())
	}

	t.Logf("SQLite driver: %s (%s) from %s", info.DriverName, info.DriverType, info.Package)
}

func TestReadOnlyDSN(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name     string
		path     string
		contains string
	}{
		{"plain", filepath.Join(dir, "bible.SQLite3"), "bible.SQLite3?mode=ro"},
		{"question mark", filepath.Join(dir, "what?.db"), "what%3f.db?mode=ro"},
		{"hash", filepath.Join(dir, "a#b.db"), "a%23b.db?mode=ro"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dsn := ReadOnlyDSN(tt.path)
			if !strings.HasPrefix(dsn, "file:") {
				t.Errorf("dsn %q should start with file:", dsn)
			}
			if !strings.HasSuffix(dsn, tt.contains) {
				t.Errorf("dsn %q should end with %q", dsn, tt.contains)
			}
		})
	}
}

func TestOpenReadOnly(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	db, err := Open(dbPath)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	if _, err := db.Exec(`CREATE TABLE verses (book_number INTEGER, chapter INTEGER, verse INTEGER, text TEXT)`); err != nil {
		t.Fatalf("failed to create table: %v", err)
	}
	if _, err := db.Exec(`INSERT INTO verses VALUES (500, 11, 35, 'Jesus wept.')`); err != nil {
		t.Fatalf("failed to insert: %v", err)
	}
	db.Close()

	rodb, err := OpenReadOnly(dbPath)
	if err != nil {
		t.Fatalf("failed to open read-only: %v", err)
	}
	defer rodb.Close()

	var text string
	if err := rodb.QueryRow(`SELECT text FROM verses WHERE book_number = 500`).Scan(&text); err != nil {
		t.Fatalf("failed to query: %v", err)
	}
	if text != "Jesus wept." {
		t.Errorf("expected 'Jesus wept.', got %q", text)
	}

	if _, err := rodb.Exec(`INSERT INTO verses VALUES (500, 11, 36, 'x')`); err == nil {
		t.Error("write through read-only handle should fail")
	}
}

func TestOpenReadOnly_Missing(t *testing.T) {
	db, err := OpenReadOnly(filepath.Join(t.TempDir(), "absent.db"))
	if err != nil {
		// Some drivers fail eagerly; that is fine.
		return
	}
	defer db.Close()

	if err := db.Ping(); err == nil {
		t.Error("pinging a missing read-only database should fail")
	}
}

func TestDriverTypeConsistency(t *testing.T) {
	switch DriverType() {
	case "purego":
		if IsCGO() {
			t.Error("IsCGO() should be false for purego driver")
		}
		if DriverName() != "sqlite" {
			t.Errorf("purego driver should use 'sqlite' name, got '%s'", DriverName())
		}
	case "cgo":
		if !IsCGO() {
			t.Error("IsCGO() should be true for cgo driver")
		}
		if DriverName() != "sqlite3" {
			t.Errorf("cgo driver should use 'sqlite3' name, got '%s'", DriverName())
		}
	default:
		t.Errorf("unknown driver type: %s", DriverType())
	}
}
