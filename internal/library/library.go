// Package library is the read side used by the CLI and the HTTP API.
//
// It pairs the catalog with a verse source and applies the degrade-to-empty
// policy: storage failures are logged and turned into empty, flagged results
// instead of errors. Only bad input and an exhausted random sampler are
// reported as failures.
package library

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strconv"

	"github.com/FocuswithJustin/JuniperReader/core/cache"
	"github.com/FocuswithJustin/JuniperReader/core/errors"
	"github.com/FocuswithJustin/JuniperReader/core/ref"
	"github.com/FocuswithJustin/JuniperReader/internal/catalog"
	"github.com/FocuswithJustin/JuniperReader/internal/logging"
	"github.com/FocuswithJustin/JuniperReader/internal/versestore"
)

// VerseSource is the subset of *versestore.Store the library reads from.
type VerseSource interface {
	VerseCount(ctx context.Context, book, chapter int) (int, error)
	Verses(ctx context.Context, book, chapter int) ([]versestore.Verse, error)
	VerseRange(ctx context.Context, book, chapter, from, to int) ([]versestore.Verse, error)
	RandomVerses(ctx context.Context) ([]versestore.Verse, error)
	Info(ctx context.Context) (map[string]string, error)
}

// PassageSelection addresses a chapter and optionally a verse or verse range.
type PassageSelection struct {
	BookNumber int    `json:"book_number"`
	BookName   string `json:"book_name"`
	Chapter    int    `json:"chapter"`
	Verse      *int   `json:"verse,omitempty"`
	VerseEnd   *int   `json:"verse_end,omitempty"`
}

// String formats the selection as a reference, e.g. "John 3:16-18".
func (s PassageSelection) String() string {
	out := s.BookName + " " + strconv.Itoa(s.Chapter)
	if s.Verse != nil {
		out += ":" + strconv.Itoa(*s.Verse)
		if s.VerseEnd != nil && *s.VerseEnd != *s.Verse {
			out += "-" + strconv.Itoa(*s.VerseEnd)
		}
	}
	return out
}

// Passage is a run of verses from one chapter.
type Passage struct {
	Reference   string             `json:"reference"`
	Book        catalog.Book       `json:"book"`
	Chapter     int                `json:"chapter"`
	Verses      []versestore.Verse `json:"verses"`
	Unavailable bool               `json:"unavailable,omitempty"`
}

// ChapterCount is the verse count of one chapter.
type ChapterCount struct {
	Chapter int `json:"chapter"`
	catalog.VerseCount
}

// Library combines the catalog with a verse source.
type Library struct {
	store   VerseSource
	catalog *catalog.Catalog
	logger  *slog.Logger
	counts  *cache.LRU[int, []ChapterCount] // by canonical book number
}

// New creates a library. A nil catalog means catalog.Default(); a nil
// logger means the global one.
func New(store VerseSource, cat *catalog.Catalog, logger *slog.Logger) *Library {
	if cat == nil {
		cat = catalog.Default()
	}
	return &Library{
		store:   store,
		catalog: cat,
		logger:  logging.Or(logger),
		counts:  cache.New[int, []ChapterCount](len(cat.All())),
	}
}

// Books returns every book in display order.
func (l *Library) Books() []catalog.Book {
	return l.catalog.All()
}

// BooksByTestament returns one testament's books in display order.
func (l *Library) BooksByTestament(t catalog.Testament) []catalog.Book {
	return l.catalog.ByTestament(t)
}

// Book looks up a book by canonical number.
func (l *Library) Book(number int) (catalog.Book, error) {
	b, ok := l.catalog.Lookup(number)
	if !ok {
		return catalog.Book{}, errors.NewNotFound("book", strconv.Itoa(number))
	}
	return b, nil
}

// Select builds a selection for a whole chapter, checking it against the catalog.
func (l *Library) Select(bookNumber, chapter int) (PassageSelection, error) {
	b, err := l.Book(bookNumber)
	if err != nil {
		return PassageSelection{}, err
	}
	if !b.HasChapter(chapter) {
		return PassageSelection{}, errors.NewValidation("chapter",
			fmt.Sprintf("%s has %d chapters, not %d", b.Name, b.ChapterCount, chapter))
	}
	return PassageSelection{BookNumber: b.CanonicalNumber, BookName: b.Name, Chapter: chapter}, nil
}

// Chapter returns every verse of the selected chapter. The selection's verse
// fields are ignored. Storage failures yield an empty passage marked
// Unavailable.
func (l *Library) Chapter(ctx context.Context, sel PassageSelection) Passage {
	p := l.emptyPassage(sel)
	verses, err := l.store.Verses(ctx, sel.BookNumber, sel.Chapter)
	if err != nil {
		l.degrade(ctx, &p, "chapter", err)
		return p
	}
	p.Verses = verses
	return p
}

// Read returns the selected verses: the whole chapter when no verse is set,
// otherwise the verse or verse range.
func (l *Library) Read(ctx context.Context, sel PassageSelection) Passage {
	if sel.Verse == nil {
		return l.Chapter(ctx, sel)
	}
	from, to := *sel.Verse, *sel.Verse
	if sel.VerseEnd != nil {
		to = *sel.VerseEnd
	}

	p := l.emptyPassage(sel)
	p.Reference = sel.String()
	verses, err := l.store.VerseRange(ctx, sel.BookNumber, sel.Chapter, from, to)
	if err != nil {
		l.degrade(ctx, &p, "read", err)
		return p
	}
	p.Verses = verses
	return p
}

// VerseCounts returns the verse count of every chapter of a book. When the
// store cannot answer, the catalog's estimates are returned instead and
// flagged Estimated. Counts read from the store are cached; estimates are not.
func (l *Library) VerseCounts(ctx context.Context, bookNumber int) ([]ChapterCount, error) {
	b, err := l.Book(bookNumber)
	if err != nil {
		return nil, err
	}
	if counts, ok := l.counts.Get(b.CanonicalNumber); ok {
		return slices.Clone(counts), nil
	}

	out := make([]ChapterCount, 0, b.ChapterCount)
	for c := 1; c <= b.ChapterCount; c++ {
		n, err := l.store.VerseCount(ctx, b.CanonicalNumber, c)
		if err != nil {
			l.log(ctx).Warn("verse counts unavailable, using estimates",
				"book", b.CanonicalNumber, "chapter", c, "error", err)
			return estimates(b), nil
		}
		out = append(out, ChapterCount{Chapter: c, VerseCount: catalog.VerseCount{Count: n}})
	}
	l.counts.Put(b.CanonicalNumber, slices.Clone(out))
	return out, nil
}

// CacheStats reports the verse count cache counters.
func (l *Library) CacheStats() cache.Stats {
	return l.counts.Stats()
}

func estimates(b catalog.Book) []ChapterCount {
	counts := make([]ChapterCount, 0, b.ChapterCount)
	for c := 1; c <= b.ChapterCount; c++ {
		counts = append(counts, ChapterCount{Chapter: c, VerseCount: b.EstimateVerseCount(c)})
	}
	return counts
}

// Random returns a random short passage. An exhausted sampler is returned as
// ErrNoVerseData; storage failures yield an empty passage marked Unavailable.
func (l *Library) Random(ctx context.Context) (Passage, error) {
	verses, err := l.store.RandomVerses(ctx)
	if err != nil {
		if errors.Is(err, errors.ErrNoVerseData) {
			return Passage{Verses: []versestore.Verse{}}, err
		}
		p := Passage{Verses: []versestore.Verse{}}
		l.degrade(ctx, &p, "random", err)
		return p, nil
	}

	first, last := verses[0], verses[len(verses)-1]
	b, _ := l.catalog.ByName(first.BookName)
	sel := PassageSelection{
		BookNumber: b.CanonicalNumber,
		BookName:   first.BookName,
		Chapter:    first.Chapter,
		Verse:      &first.Number,
		VerseEnd:   &last.Number,
	}
	return Passage{Reference: sel.String(), Book: b, Chapter: first.Chapter, Verses: verses}, nil
}

// Resolve turns a reference such as "1 John 2:1-3" into a selection.
func (l *Library) Resolve(s string) (PassageSelection, error) {
	r, err := ref.Parse(s)
	if err != nil {
		return PassageSelection{}, err
	}
	b, ok := l.catalog.ByName(r.Book)
	if !ok {
		return PassageSelection{}, errors.NewNotFound("book", r.Book)
	}

	chapter := r.Chapter
	if chapter == 0 {
		chapter = 1
	}
	sel, err := l.Select(b.CanonicalNumber, chapter)
	if err != nil {
		return PassageSelection{}, err
	}
	if r.Verse > 0 {
		v := r.Verse
		sel.Verse = &v
		if r.VerseEnd > 0 {
			if r.VerseEnd < r.Verse {
				return PassageSelection{}, errors.NewValidation("verse",
					fmt.Sprintf("range %d-%d runs backwards", r.Verse, r.VerseEnd))
			}
			e := r.VerseEnd
			sel.VerseEnd = &e
		}
	}
	return sel, nil
}

// Passage resolves a reference and reads it.
func (l *Library) Passage(ctx context.Context, s string) (Passage, error) {
	sel, err := l.Resolve(s)
	if err != nil {
		return Passage{}, err
	}
	return l.Read(ctx, sel), nil
}

// Info returns the dataset's descriptive metadata, or an empty map.
func (l *Library) Info(ctx context.Context) map[string]string {
	info, err := l.store.Info(ctx)
	if err != nil {
		l.log(ctx).Warn("dataset info unavailable", "error", err)
		return map[string]string{}
	}
	return info
}

func (l *Library) emptyPassage(sel PassageSelection) Passage {
	b, _ := l.catalog.Lookup(sel.BookNumber)
	return Passage{
		Reference: PassageSelection{BookName: b.Name, Chapter: sel.Chapter}.String(),
		Book:      b,
		Chapter:   sel.Chapter,
		Verses:    []versestore.Verse{},
	}
}

// degrade logs err and marks p unavailable when storage is the cause.
func (l *Library) degrade(ctx context.Context, p *Passage, op string, err error) {
	l.log(ctx).Warn("degraded to empty result", "op", op, "reference", p.Reference, "error", err)
	p.Verses = []versestore.Verse{}
	p.Unavailable = errors.Is(err, errors.ErrStorageUnavailable)
}

func (l *Library) log(ctx context.Context) *slog.Logger {
	if id := logging.GetRequestID(ctx); id != "" {
		return l.logger.With("request_id", id)
	}
	return l.logger
}
