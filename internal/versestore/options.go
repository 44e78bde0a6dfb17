package versestore

import (
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/FocuswithJustin/JuniperReader/core/errors"
	"github.com/FocuswithJustin/JuniperReader/internal/catalog"
	"github.com/FocuswithJustin/JuniperReader/internal/logging"
)

const (
	// DefaultMaxAttempts bounds how many random book/chapter picks
	// RandomVerses tries before giving up.
	DefaultMaxAttempts = 20
	// DefaultMaxSpan is the longest passage RandomVerses returns.
	DefaultMaxSpan = 5
	// DefaultQueryTimeout bounds every store operation.
	DefaultQueryTimeout = 5 * time.Second
)

// RowAction is what a query does after a row failed to decode.
type RowAction int

const (
	// SkipRow drops the row and continues with the rest of the result set.
	SkipRow RowAction = iota
	// AbortQuery stops the query and returns the decode error.
	AbortQuery
)

// RowPolicy decides how a query reacts to a malformed row.
type RowPolicy func(*errors.RowDecodeError) RowAction

// Options configures a Store. Zero fields take their defaults.
type Options struct {
	MaxAttempts  int           // random sampling retry budget (default 20)
	MaxSpan      int           // longest random passage (default 5)
	QueryTimeout time.Duration // per-operation deadline (default 5s)

	// Rand drives random sampling. Defaults to a randomly seeded PCG.
	// The store serializes access, so the source need not be goroutine safe.
	Rand *rand.Rand

	// RowPolicy is consulted for every malformed row.
	// Defaults to logging the row and skipping it.
	RowPolicy RowPolicy

	// KeepMarkup leaves MyBible inline markup (<pb/>, <f>..</f>, ...) in verse text.
	KeepMarkup bool

	// VerifyDigest re-hashes an existing local copy on open and rejects it
	// when it no longer matches the digest recorded at materialization.
	VerifyDigest bool

	Catalog *catalog.Catalog
	Logger  *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = DefaultMaxAttempts
	}
	if o.MaxSpan <= 0 {
		o.MaxSpan = DefaultMaxSpan
	}
	if o.QueryTimeout <= 0 {
		o.QueryTimeout = DefaultQueryTimeout
	}
	if o.Rand == nil {
		o.Rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if o.Catalog == nil {
		o.Catalog = catalog.Default()
	}
	o.Logger = logging.Or(o.Logger)
	if o.RowPolicy == nil {
		logger := o.Logger
		o.RowPolicy = func(e *errors.RowDecodeError) RowAction {
			args := []any{}
			if e.Err != nil {
				args = append(args, "error", e.Err.Error())
			}
			logging.RowSkipped(logger, e.Book, e.Chapter, e.Row, e.Reason, args...)
			return SkipRow
		}
	}
	return o
}
