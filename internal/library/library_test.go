package library

import (
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/FocuswithJustin/JuniperReader/core/errors"
	"github.com/FocuswithJustin/JuniperReader/internal/catalog"
	"github.com/FocuswithJustin/JuniperReader/internal/logging"
	"github.com/FocuswithJustin/JuniperReader/internal/versestore"
	"github.com/FocuswithJustin/JuniperReader/internal/versestore/storetest"
	"github.com/google/go-cmp/cmp"
)

// fakeSource answers every query with err, or with canned data when err is nil.
type fakeSource struct {
	err    error
	verses []versestore.Verse
	count  int
	info   map[string]string
	calls  int
}

func (f *fakeSource) VerseCount(ctx context.Context, book, chapter int) (int, error) {
	f.calls++
	return f.count, f.err
}

func (f *fakeSource) Verses(ctx context.Context, book, chapter int) ([]versestore.Verse, error) {
	f.calls++
	if f.err != nil {
		return []versestore.Verse{}, f.err
	}
	return f.verses, nil
}

func (f *fakeSource) VerseRange(ctx context.Context, book, chapter, from, to int) ([]versestore.Verse, error) {
	return f.Verses(ctx, book, chapter)
}

func (f *fakeSource) RandomVerses(ctx context.Context) ([]versestore.Verse, error) {
	return f.Verses(ctx, 0, 0)
}

func (f *fakeSource) Info(ctx context.Context) (map[string]string, error) {
	if f.err != nil {
		return map[string]string{}, f.err
	}
	return f.info, nil
}

func newLibrary(src VerseSource) *Library {
	return New(src, nil, logging.New(io.Discard, logging.LevelError, logging.FormatText))
}

// storeLibrary backs a library with a real store over the full fixture.
func storeLibrary(t *testing.T) (*Library, *versestore.Store) {
	t.Helper()
	dir := t.TempDir()
	storetest.Build(t, filepath.Join(dir, "bible.SQLite3"), storetest.Full())
	logger := logging.New(io.Discard, logging.LevelError, logging.FormatText)
	s := versestore.New(versestore.Location{AssetName: "bible.SQLite3", Dir: dir}, versestore.Options{Logger: logger})
	t.Cleanup(func() { s.Close() })
	return New(s, nil, logger), s
}

func intp(n int) *int { return &n }

func TestResolve(t *testing.T) {
	lib := newLibrary(&fakeSource{})

	tests := []struct {
		in   string
		want PassageSelection
	}{
		{"John 3:16", PassageSelection{BookNumber: 500, BookName: "John", Chapter: 3, Verse: intp(16)}},
		{"Ps 117", PassageSelection{BookNumber: 230, BookName: "Psalms", Chapter: 117}},
		{"1 John 2:1-3", PassageSelection{BookNumber: 690, BookName: "1 John", Chapter: 2, Verse: intp(1), VerseEnd: intp(3)}},
		{"genesis", PassageSelection{BookNumber: 10, BookName: "Genesis", Chapter: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := lib.Resolve(tt.in)
			if err != nil {
				t.Fatalf("Resolve(%q) error = %v", tt.in, err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Resolve(%q) mismatch (-want +got):\n%s", tt.in, diff)
			}
		})
	}
}

func TestResolveErrors(t *testing.T) {
	lib := newLibrary(&fakeSource{})

	tests := []struct {
		in   string
		want error
	}{
		{"Hezekiah 1", errors.ErrNotFound},
		{"John 22", errors.ErrInvalidInput},
		{"John 3:", errors.ErrInvalidInput},
		{"John 3:18-16", errors.ErrInvalidInput},
		{"", errors.ErrInvalidInput},
	}
	for _, tt := range tests {
		if _, err := lib.Resolve(tt.in); !errors.Is(err, tt.want) {
			t.Errorf("Resolve(%q) error = %v, want %v", tt.in, err, tt.want)
		}
	}
}

func TestSelectionString(t *testing.T) {
	tests := []struct {
		sel  PassageSelection
		want string
	}{
		{PassageSelection{BookName: "John", Chapter: 3}, "John 3"},
		{PassageSelection{BookName: "John", Chapter: 3, Verse: intp(16)}, "John 3:16"},
		{PassageSelection{BookName: "John", Chapter: 3, Verse: intp(16), VerseEnd: intp(18)}, "John 3:16-18"},
		{PassageSelection{BookName: "John", Chapter: 3, Verse: intp(16), VerseEnd: intp(16)}, "John 3:16"},
	}
	for _, tt := range tests {
		if got := tt.sel.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestChapterDegradesOnStorageFailure(t *testing.T) {
	src := &fakeSource{err: errors.NewStorageUnavailable("open", "/x", nil)}
	lib := newLibrary(src)

	p := lib.Chapter(context.Background(), PassageSelection{BookNumber: 500, BookName: "John", Chapter: 3})
	if !p.Unavailable {
		t.Error("Unavailable = false, want true")
	}
	if p.Verses == nil || len(p.Verses) != 0 {
		t.Errorf("Verses = %#v, want empty non-nil", p.Verses)
	}
	if p.Book.Name != "John" || p.Reference != "John 3" {
		t.Errorf("passage = %+v", p)
	}
}

func TestChapterRowAbortIsNotUnavailable(t *testing.T) {
	src := &fakeSource{err: &errors.RowDecodeError{Book: 500, Chapter: 3, Reason: "null verse"}}
	p := newLibrary(src).Chapter(context.Background(), PassageSelection{BookNumber: 500, Chapter: 3})
	if p.Unavailable {
		t.Error("a row decode failure should not mark storage unavailable")
	}
	if len(p.Verses) != 0 {
		t.Errorf("Verses = %v, want empty", p.Verses)
	}
}

func TestVerseCountsFallback(t *testing.T) {
	src := &fakeSource{err: errors.NewStorageUnavailable("query", "", nil)}
	counts, err := newLibrary(src).VerseCounts(context.Background(), 230)
	if err != nil {
		t.Fatalf("VerseCounts() error = %v", err)
	}
	if len(counts) != 150 {
		t.Fatalf("len(counts) = %d, want 150", len(counts))
	}
	if src.calls != 1 {
		t.Errorf("store queried %d times after failing, want 1", src.calls)
	}
	for _, c := range counts {
		if !c.Estimated {
			t.Fatalf("chapter %d not flagged Estimated", c.Chapter)
		}
	}
	if counts[116].Count != 2 {
		t.Errorf("Psalm 117 estimate = %d, want 2", counts[116].Count)
	}

	if _, err := newLibrary(src).VerseCounts(context.Background(), 999); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("VerseCounts(999) error = %v, want ErrNotFound", err)
	}
}

func TestVerseCountsCached(t *testing.T) {
	ctx := context.Background()
	src := &fakeSource{count: 7}
	lib := newLibrary(src)

	first, err := lib.VerseCounts(ctx, 570) // Philippians, 4 chapters
	if err != nil {
		t.Fatalf("VerseCounts() error = %v", err)
	}
	if src.calls != 4 {
		t.Fatalf("store queried %d times, want 4", src.calls)
	}
	first[0].Count = 99

	second, err := lib.VerseCounts(ctx, 570)
	if err != nil {
		t.Fatalf("VerseCounts() error = %v", err)
	}
	if src.calls != 4 {
		t.Errorf("cached counts hit the store again (%d calls)", src.calls)
	}
	if second[0].Count != 7 {
		t.Errorf("cached slice was mutated through a previous result: %+v", second[0])
	}
	if s := lib.CacheStats(); s.Hits != 1 || s.Size != 1 {
		t.Errorf("CacheStats() = %+v", s)
	}

	src.err = errors.NewStorageUnavailable("query", "", nil)
	lib = newLibrary(src)
	lib.VerseCounts(ctx, 570)
	if s := lib.CacheStats(); s.Size != 0 {
		t.Errorf("estimates should not be cached, size = %d", s.Size)
	}
}

func TestRandomErrors(t *testing.T) {
	ctx := context.Background()

	lib := newLibrary(&fakeSource{err: &errors.NoVerseDataError{Attempts: 20}})
	if _, err := lib.Random(ctx); !errors.Is(err, errors.ErrNoVerseData) {
		t.Errorf("Random() error = %v, want ErrNoVerseData", err)
	}

	lib = newLibrary(&fakeSource{err: errors.NewStorageUnavailable("query", "", nil)})
	p, err := lib.Random(ctx)
	if err != nil {
		t.Fatalf("Random() with storage down error = %v, want nil", err)
	}
	if !p.Unavailable || len(p.Verses) != 0 {
		t.Errorf("Random() = %+v, want empty unavailable passage", p)
	}
}

func TestInfoDegrades(t *testing.T) {
	lib := newLibrary(&fakeSource{err: errors.NewStorageUnavailable("query", "", nil)})
	if info := lib.Info(context.Background()); info == nil || len(info) != 0 {
		t.Errorf("Info() = %v, want empty map", info)
	}
}

func TestBooks(t *testing.T) {
	lib := newLibrary(&fakeSource{})
	if got := len(lib.Books()); got != 66 {
		t.Errorf("len(Books()) = %d, want 66", got)
	}
	if got := len(lib.BooksByTestament(catalog.New)); got != 27 {
		t.Errorf("len(BooksByTestament(New)) = %d, want 27", got)
	}
	if _, err := lib.Book(999); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("Book(999) error = %v, want ErrNotFound", err)
	}
	if _, err := lib.Select(500, 22); !errors.Is(err, errors.ErrInvalidInput) {
		t.Errorf("Select(500, 22) error = %v, want ErrInvalidInput", err)
	}
}

func TestWithStore(t *testing.T) {
	lib, store := storeLibrary(t)
	ctx := context.Background()

	p, err := lib.Passage(ctx, "John 3:16-18")
	if err != nil {
		t.Fatalf("Passage() error = %v", err)
	}
	if p.Reference != "John 3:16-18" || len(p.Verses) != 3 || p.Verses[0].Text != storetest.John316 {
		t.Errorf("Passage(John 3:16-18) = %+v", p)
	}

	p = lib.Chapter(ctx, PassageSelection{BookNumber: 230, BookName: "Psalms", Chapter: 117})
	if len(p.Verses) != 2 || p.Unavailable {
		t.Errorf("Chapter(Psalm 117) = %+v", p)
	}

	counts, err := lib.VerseCounts(ctx, 230)
	if err != nil {
		t.Fatal(err)
	}
	if counts[116].Count != 2 || counts[116].Estimated {
		t.Errorf("Psalm 117 count = %+v, want 2 from the store", counts[116])
	}

	r, err := lib.Random(ctx)
	if err != nil {
		t.Fatalf("Random() error = %v", err)
	}
	if r.Book.Name == "" || r.Book.Name != r.Verses[0].BookName || r.Reference == "" {
		t.Errorf("Random() = %+v", r)
	}

	if lib.Info(ctx)["language"] != "en" {
		t.Error("Info() missing language")
	}

	store.Close()
	p = lib.Chapter(ctx, PassageSelection{BookNumber: 230, BookName: "Psalms", Chapter: 117})
	if !p.Unavailable || len(p.Verses) != 0 {
		t.Errorf("Chapter() after Close = %+v, want empty unavailable", p)
	}
	counts, err = lib.VerseCounts(ctx, 500)
	if err != nil || !counts[0].Estimated {
		t.Errorf("VerseCounts(John) after Close = %v, %v; want estimates", counts[:1], err)
	}
	counts, err = lib.VerseCounts(ctx, 230)
	if err != nil || counts[116].Estimated || counts[116].Count != 2 {
		t.Errorf("VerseCounts(Psalms) after Close = %+v, %v; want the cached store counts", counts[116], err)
	}
}
