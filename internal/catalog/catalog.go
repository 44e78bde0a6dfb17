// Package catalog holds the static table of the 66 books of the Bible.
//
// The catalog is pure data: building it performs no I/O and cannot fail.
// Default returns the process-wide instance, constructed once on first use
// and never mutated afterwards. Every accessor hands out copies.
package catalog

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"unicode"

	"github.com/FocuswithJustin/JuniperReader/core/errors"
)

// Testament partitions the books into Old and New.
type Testament int

const (
	// Old is the Old Testament (canonical numbers 10-460).
	Old Testament = iota + 1
	// New is the New Testament.
	New
)

// lastOldTestament is the highest canonical number belonging to the Old Testament.
const lastOldTestament = 460

// String returns "OLD" or "NEW".
func (t Testament) String() string {
	switch t {
	case Old:
		return "OLD"
	case New:
		return "NEW"
	default:
		return "UNKNOWN"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (t Testament) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Testament) UnmarshalText(b []byte) error {
	v, ok := ParseTestament(string(b))
	if !ok {
		return errors.NewValidation("testament", fmt.Sprintf("unknown testament %q", b))
	}
	*t = v
	return nil
}

// ParseTestament parses "old"/"ot"/"new"/"nt" in any case.
func ParseTestament(s string) (Testament, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "old", "ot":
		return Old, true
	case "new", "nt":
		return New, true
	}
	return 0, false
}

// TestamentOf derives the testament from a canonical book number.
func TestamentOf(canonical int) Testament {
	if canonical >= 10 && canonical <= lastOldTestament {
		return Old
	}
	return New
}

// Book is one catalog entry.
type Book struct {
	Name            string    `json:"name"`
	Abbreviation    string    `json:"abbreviation"`
	ChapterCount    int       `json:"chapter_count"`
	Testament       Testament `json:"testament"`
	CanonicalNumber int       `json:"canonical_number"`
	DisplayOrder    int       `json:"display_order"`
}

// HasChapter reports whether chapter is within [1, ChapterCount].
func (b Book) HasChapter(chapter int) bool {
	return chapter >= 1 && chapter <= b.ChapterCount
}

// Catalog is an immutable, ordered set of books.
type Catalog struct {
	books    []Book
	byNumber map[int]int
	byName   map[string]int
}

// Default returns the shared catalog.
var Default = sync.OnceValue(func() *Catalog {
	return build(books)
})

// build derives display order, testament and lookup indexes from the raw table.
func build(src []Book) *Catalog {
	c := &Catalog{
		books:    make([]Book, len(src)),
		byNumber: make(map[int]int, len(src)),
		byName:   make(map[string]int, len(src)*2+len(aliases)),
	}
	for i, b := range src {
		b.DisplayOrder = i + 1
		b.Testament = TestamentOf(b.CanonicalNumber)
		c.books[i] = b
		c.byNumber[b.CanonicalNumber] = i
		c.byName[normalize(b.Name)] = i
		c.byName[normalize(b.Abbreviation)] = i
	}
	for alias, num := range aliases {
		if i, ok := c.byNumber[num]; ok {
			c.byName[alias] = i
		}
	}
	return c
}

// Len returns the number of books.
func (c *Catalog) Len() int {
	return len(c.books)
}

// Lookup finds a book by canonical number. Unknown numbers are not an error.
func (c *Catalog) Lookup(canonical int) (Book, bool) {
	i, ok := c.byNumber[canonical]
	if !ok {
		return Book{}, false
	}
	return c.books[i], true
}

// ByName finds a book by name, abbreviation or a known alias.
// Matching ignores case, whitespace and dots, so "1 john", "1John" and "1jn"
// all resolve to the same book.
func (c *Catalog) ByName(name string) (Book, bool) {
	i, ok := c.byName[normalize(name)]
	if !ok {
		return Book{}, false
	}
	return c.books[i], true
}

// All returns every book in display order.
func (c *Catalog) All() []Book {
	out := make([]Book, len(c.books))
	copy(out, c.books)
	return out
}

// ByTestament returns the books of one testament in display order.
func (c *Catalog) ByTestament(t Testament) []Book {
	var out []Book
	for _, b := range c.books {
		if b.Testament == t {
			out = append(out, b)
		}
	}
	return out
}

// Pick returns a uniformly random book.
func (c *Catalog) Pick(r *rand.Rand) Book {
	return c.books[r.IntN(len(c.books))]
}

func normalize(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for _, r := range s {
		if unicode.IsSpace(r) || r == '.' {
			continue
		}
		sb.WriteRune(unicode.ToLower(r))
	}
	return sb.String()
}
