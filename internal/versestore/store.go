// Package versestore provides read-only access to a MyBible-style verse
// database that ships with the application.
//
// A Store copies the bundled dataset into writable storage on first use and
// then answers verse count, verse list and random passage queries against it.
// Failures never escape as raw driver errors: a query either succeeds
// (possibly with an empty result) or returns one of the typed errors from
// core/errors, always alongside an empty, non-nil result.
package versestore

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/FocuswithJustin/JuniperReader/core/errors"
	"github.com/FocuswithJustin/JuniperReader/core/sqlite"
	"github.com/FocuswithJustin/JuniperReader/internal/logging"
)

var (
	errClosed         = errors.New("store closed")
	errNoVersesTable  = errors.New("no verses table")
	errDigestMismatch = errors.New("digest mismatch")
)

// Verse is one row of a query result. BookName and Chapter are only set on
// passages returned by RandomVerses.
type Verse struct {
	Number   int    `json:"number"`
	Text     string `json:"text"`
	BookName string `json:"book_name,omitempty"`
	Chapter  int    `json:"chapter,omitempty"`
}

type state int

const (
	stateUnopened state = iota
	stateOpen
	stateClosed
)

func (s state) String() string {
	switch s {
	case stateUnopened:
		return "unopened"
	case stateOpen:
		return "open"
	default:
		return "closed"
	}
}

// Store is the verse database handle. It moves one way through
// unopened, open and closed; a failed open leaves it closed for good.
// All methods are safe for concurrent use and run one at a time.
type Store struct {
	loc  Location
	opts Options

	mu    sync.Mutex
	state state
	db    *sql.DB
	cause error
}

// New returns an unopened store. Nothing touches the filesystem until Open
// or the first query.
func New(loc Location, opts Options) *Store {
	return &Store{loc: loc, opts: opts.withDefaults()}
}

// Path returns the local database path.
func (s *Store) Path() string {
	return s.loc.Path()
}

// Open materializes the local copy if needed and opens it read-only.
// Calling Open on an open store does nothing.
func (s *Store) Open(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.conn(ctx)
	return err
}

// Close releases the connection. Every later query returns an empty result
// and ErrStorageUnavailable. Closing twice is a no-op.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == stateClosed {
		return nil
	}
	var err error
	if s.db != nil {
		err = s.db.Close()
		s.db = nil
	}
	s.state = stateClosed
	s.cause = errClosed
	logging.StoreEvent(s.opts.Logger, "closed", s.Path())
	return err
}

// conn returns the open database, opening it first if needed.
// The caller must hold s.mu.
func (s *Store) conn(ctx context.Context) (*sql.DB, error) {
	switch s.state {
	case stateOpen:
		return s.db, nil
	case stateClosed:
		return nil, s.unavailable("query")
	}

	path := s.Path()
	copied, err := s.loc.materialize(s.opts.VerifyDigest)
	if err != nil {
		return nil, s.fail(err)
	}
	if copied {
		logging.StoreEvent(s.opts.Logger, "materialized", path, "asset", s.loc.AssetName)
	}

	db, err := sqlite.OpenReadOnly(path)
	if err != nil {
		return nil, s.fail(errors.NewStorageUnavailable("open", path, err))
	}
	db.SetMaxOpenConns(1)

	qctx, cancel := context.WithTimeout(ctx, s.opts.QueryTimeout)
	defer cancel()

	var n int
	err = db.QueryRowContext(qctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'verses'`,
	).Scan(&n)
	if err == nil && n == 0 {
		err = errNoVersesTable
	}
	if err != nil {
		db.Close()
		if ctx.Err() != nil {
			// The caller gave up; the file itself may be fine.
			return nil, errors.NewStorageUnavailable("open", path, ctx.Err())
		}
		return nil, s.fail(errors.NewStorageUnavailable("open", path, err))
	}

	s.db = db
	s.state = stateOpen
	logging.StoreEvent(s.opts.Logger, "opened", path, "driver", sqlite.DriverType())
	return db, nil
}

// fail closes the store for good after an open failure.
func (s *Store) fail(err error) error {
	s.state = stateClosed
	s.cause = err
	s.opts.Logger.Error("verse store unavailable", "path", s.Path(), "error", err)
	return err
}

func (s *Store) unavailable(op string) error {
	var sue *errors.StorageUnavailableError
	if errors.As(s.cause, &sue) {
		return sue
	}
	return errors.NewStorageUnavailable(op, s.Path(), s.cause)
}

func (s *Store) queryErr(err error) error {
	return errors.NewStorageUnavailable("query", s.Path(), err)
}

// VerseCount returns how many verses the chapter holds. A book or chapter
// the dataset does not contain yields 0 and no error.
func (s *Store) VerseCount(ctx context.Context, book, chapter int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, s.opts.QueryTimeout)
	defer cancel()
	return s.verseCount(ctx, book, chapter)
}

// Rows the row policy would skip are not counted, so VerseCount agrees with
// len(Verses) under the default policy.
const countQuery = `SELECT COUNT(DISTINCT verse) FROM verses
	WHERE book_number = ? AND chapter = ?
	AND typeof(verse) = 'integer' AND verse > 0 AND text IS NOT NULL`

func (s *Store) verseCount(ctx context.Context, book, chapter int) (int, error) {
	db, err := s.conn(ctx)
	if err != nil {
		return 0, err
	}
	var n int
	if err := db.QueryRowContext(ctx, countQuery, book, chapter).Scan(&n); err != nil {
		return 0, s.queryErr(err)
	}
	return n, nil
}

// Verses returns the chapter's verses in ascending order. Malformed and
// duplicate rows go to the row policy.
func (s *Store) Verses(ctx context.Context, book, chapter int) ([]Verse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, s.opts.QueryTimeout)
	defer cancel()
	return s.verses(ctx, book, chapter, 0, 0)
}

// VerseRange returns verses from..to inclusive of one chapter.
func (s *Store) VerseRange(ctx context.Context, book, chapter, from, to int) ([]Verse, error) {
	if from < 1 {
		from = 1
	}
	if to < from {
		return []Verse{}, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, s.opts.QueryTimeout)
	defer cancel()
	return s.verses(ctx, book, chapter, from, to)
}

// verses runs the chapter query; from == 0 selects the whole chapter.
func (s *Store) verses(ctx context.Context, book, chapter, from, to int) ([]Verse, error) {
	out := []Verse{}

	db, err := s.conn(ctx)
	if err != nil {
		return out, err
	}

	query := `SELECT verse, text FROM verses WHERE book_number = ? AND chapter = ?`
	args := []any{book, chapter}
	if from > 0 {
		query += ` AND verse BETWEEN ? AND ?`
		args = append(args, from, to)
	}
	query += ` ORDER BY verse`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return out, s.queryErr(err)
	}
	defer rows.Close()

	last := 0
	for row := 0; rows.Next(); row++ {
		var (
			num  any
			text sql.NullString
		)
		decodeErr := &errors.RowDecodeError{Book: book, Chapter: chapter, Row: row}

		if err := rows.Scan(&num, &text); err != nil {
			decodeErr.Reason, decodeErr.Err = "scan failed", err
		} else {
			n, ok := num.(int64)
			switch {
			case num == nil:
				decodeErr.Reason = "null verse"
			case !ok:
				decodeErr.Reason = fmt.Sprintf("verse has type %T", num)
			case n <= 0:
				decodeErr.Reason = fmt.Sprintf("verse %d out of range", n)
			case !text.Valid:
				decodeErr.Reason = fmt.Sprintf("null text for verse %d", n)
			case int(n) == last:
				decodeErr.Reason = fmt.Sprintf("duplicate verse %d", n)
			default:
				last = int(n)
				out = append(out, Verse{Number: last, Text: s.clean(text.String)})
				continue
			}
		}

		if s.opts.RowPolicy(decodeErr) == AbortQuery {
			return []Verse{}, decodeErr
		}
	}
	if err := rows.Err(); err != nil {
		return []Verse{}, s.queryErr(err)
	}
	return out, nil
}

func (s *Store) clean(text string) string {
	if s.opts.KeepMarkup {
		return text
	}
	return stripMarkup(text)
}

// Chapters lists the chapter numbers the dataset holds for a book.
func (s *Store) Chapters(ctx context.Context, book int) ([]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, s.opts.QueryTimeout)
	defer cancel()

	out := []int{}
	db, err := s.conn(ctx)
	if err != nil {
		return out, err
	}
	rows, err := db.QueryContext(ctx, `SELECT DISTINCT chapter FROM verses
		WHERE book_number = ? AND typeof(chapter) = 'integer' AND chapter > 0
		ORDER BY chapter`, book)
	if err != nil {
		return out, s.queryErr(err)
	}
	defer rows.Close()

	for rows.Next() {
		var c int
		if err := rows.Scan(&c); err != nil {
			return []int{}, s.queryErr(err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return []int{}, s.queryErr(err)
	}
	return out, nil
}

// Info returns the key/value pairs of the MyBible info table, such as
// description and language. A dataset without one yields an empty map.
func (s *Store) Info(ctx context.Context) (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, s.opts.QueryTimeout)
	defer cancel()

	out := map[string]string{}
	db, err := s.conn(ctx)
	if err != nil {
		return out, err
	}

	var n int
	if err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'info'`,
	).Scan(&n); err != nil {
		return out, s.queryErr(err)
	}
	if n == 0 {
		return out, nil
	}

	rows, err := db.QueryContext(ctx, `SELECT name, value FROM info`)
	if err != nil {
		return out, s.queryErr(err)
	}
	defer rows.Close()

	for rows.Next() {
		var name, value sql.NullString
		if err := rows.Scan(&name, &value); err != nil {
			continue
		}
		if name.Valid && name.String != "" {
			out[name.String] = value.String
		}
	}
	if err := rows.Err(); err != nil {
		return map[string]string{}, s.queryErr(err)
	}
	return out, nil
}
