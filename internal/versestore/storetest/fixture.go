// Package storetest builds MyBible-style verse databases for tests.
package storetest

import (
	"bytes"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/FocuswithJustin/JuniperReader/core/sqlite"
	"github.com/FocuswithJustin/JuniperReader/internal/catalog"
	"github.com/ulikunitz/xz"
)

// Psalm117 is the text of the shortest chapter, as stored in fixtures.
var Psalm117 = []string{
	"O praise the LORD, all ye nations: praise him, all ye people.",
	"For his merciful kindness is great toward us: and the truth of the LORD endureth for ever. Praise ye the LORD.",
}

// John316 is verse 16 of John 3, as stored in fixtures.
const John316 = "For God so loved the world, that he gave his only begotten Son, that whosoever believeth in him should not perish, but have everlasting life."

// Row is a raw verses row. Fields are inserted as given, so nil and
// non-integer values can be used to build malformed data.
type Row struct {
	Book    any
	Chapter any
	Verse   any
	Text    any
}

// Dataset describes the contents of a fixture database.
type Dataset struct {
	// Books limits generated verses to these canonical numbers.
	// Nil means every catalog book; an empty non-nil slice means none.
	Books []int
	// Verses returns how many verses to generate for a chapter.
	// Defaults to the catalog estimate, with 2 for Psalm 117.
	Verses func(book catalog.Book, chapter int) int
	// Rows are appended verbatim after the generated ones.
	Rows []Row
	// Info fills the info table. Nil leaves the table out entirely.
	Info map[string]string
	// NoVersesTable omits the verses table.
	NoVersesTable bool
}

// Full is every chapter of every book, with an info table.
func Full() Dataset {
	return Dataset{Info: map[string]string{
		"description":   "Test Bible",
		"language":      "en",
		"detailed_info": "Generated fixture",
	}}
}

// Empty has a verses table and no rows.
func Empty() Dataset {
	return Dataset{Books: []int{}}
}

// DefaultVerses is the verse count generator used when Dataset.Verses is nil.
func DefaultVerses(book catalog.Book, chapter int) int {
	if book.CanonicalNumber == 230 && chapter == 117 {
		return len(Psalm117)
	}
	return book.EstimateVerseCount(chapter).Count
}

// Text returns the generated text for a verse.
func Text(book catalog.Book, chapter, verse int) string {
	switch {
	case book.CanonicalNumber == 230 && chapter == 117 && verse <= len(Psalm117):
		return Psalm117[verse-1]
	case book.CanonicalNumber == 500 && chapter == 3 && verse == 16:
		return John316
	}
	return fmt.Sprintf("%s %d:%d", book.Name, chapter, verse)
}

// Build writes the dataset to a new database file at path.
func Build(t testing.TB, path string, ds Dataset) {
	t.Helper()

	db, err := sqlite.Open(path)
	if err != nil {
		t.Fatalf("open fixture: %v", err)
	}
	defer db.Close()

	if !ds.NoVersesTable {
		mustExec(t, db, `CREATE TABLE verses (book_number NUMERIC, chapter NUMERIC, verse NUMERIC, text TEXT)`)
		mustExec(t, db, `CREATE INDEX verses_index ON verses (book_number, chapter, verse)`)
	}
	if ds.Info != nil {
		mustExec(t, db, `CREATE TABLE info (name TEXT, value TEXT)`)
		for k, v := range ds.Info {
			mustExec(t, db, `INSERT INTO info (name, value) VALUES (?, ?)`, k, v)
		}
	}
	if ds.NoVersesTable {
		return
	}

	tx, err := db.Begin()
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	stmt, err := tx.Prepare(`INSERT INTO verses (book_number, chapter, verse, text) VALUES (?, ?, ?, ?)`)
	if err != nil {
		t.Fatalf("prepare: %v", err)
	}

	count := ds.Verses
	if count == nil {
		count = DefaultVerses
	}
	for _, book := range selectBooks(ds.Books) {
		for c := 1; c <= book.ChapterCount; c++ {
			for v := 1; v <= count(book, c); v++ {
				if _, err := stmt.Exec(book.CanonicalNumber, c, v, Text(book, c, v)); err != nil {
					t.Fatalf("insert %d %d:%d: %v", book.CanonicalNumber, c, v, err)
				}
			}
		}
	}
	for _, r := range ds.Rows {
		if _, err := stmt.Exec(r.Book, r.Chapter, r.Verse, r.Text); err != nil {
			t.Fatalf("insert raw row %+v: %v", r, err)
		}
	}
	stmt.Close()
	if err := tx.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}
}

// Bytes builds the dataset and returns the database file contents.
func Bytes(t testing.TB, ds Dataset) []byte {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fixture.SQLite3")
	Build(t, path, ds)
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	return data
}

// Assets returns an asset filesystem holding the dataset under name.
// A name ending in ".xz" gets xz-compressed contents.
func Assets(t testing.TB, name string, ds Dataset) fstest.MapFS {
	t.Helper()
	data := Bytes(t, ds)
	if filepath.Ext(name) == ".xz" {
		data = Compress(t, data)
	}
	return fstest.MapFS{name: &fstest.MapFile{Data: data, Mode: 0444}}
}

// Compress xz-compresses data.
func Compress(t testing.TB, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w, err := xz.NewWriter(&buf)
	if err != nil {
		t.Fatalf("xz writer: %v", err)
	}
	if _, err := w.Write(data); err != nil {
		t.Fatalf("xz write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("xz close: %v", err)
	}
	return buf.Bytes()
}

func selectBooks(nums []int) []catalog.Book {
	cat := catalog.Default()
	if nums == nil {
		return cat.All()
	}
	var out []catalog.Book
	for _, n := range nums {
		if b, ok := cat.Lookup(n); ok {
			out = append(out, b)
		}
	}
	return out
}

func mustExec(t testing.TB, db *sql.DB, query string, args ...any) {
	t.Helper()
	if _, err := db.Exec(query, args...); err != nil {
		t.Fatalf("exec %q: %v", query, err)
	}
}
