package versestore

import (
	"context"
	"slices"

	"github.com/FocuswithJustin/JuniperReader/core/errors"
)

// RandomVerses samples a short contiguous passage from a random chapter.
//
// Each attempt picks a book uniformly from the catalog and a chapter uniformly
// from that book. Chapters the dataset has no verses for are retried with a
// fresh pick, up to MaxAttempts times, after which the result is a
// NoVerseDataError. The passage is 1 to MaxSpan verses long, lies within
// the chapter and never crosses a missing verse number. Each returned Verse
// carries its book name and chapter.
func (s *Store) RandomVerses(ctx context.Context) ([]Verse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, s.opts.QueryTimeout)
	defer cancel()

	rng := s.opts.Rand
	for attempt := 1; attempt <= s.opts.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return []Verse{}, s.queryErr(err)
		}

		book := s.opts.Catalog.Pick(rng)
		if book.ChapterCount < 1 {
			continue
		}
		chapter := 1 + rng.IntN(book.ChapterCount)

		chapterVerses, err := s.verses(ctx, book.CanonicalNumber, chapter, 0, 0)
		if err != nil {
			return []Verse{}, err
		}
		if len(chapterVerses) == 0 {
			s.opts.Logger.Debug("random pick empty, retrying",
				"book", book.CanonicalNumber, "chapter", chapter, "attempt", attempt)
			continue
		}

		span := 1 + rng.IntN(min(s.opts.MaxSpan, len(chapterVerses)))
		starts := runStarts(chapterVerses, span)
		for len(starts) == 0 {
			span--
			starts = runStarts(chapterVerses, span)
		}
		start := starts[rng.IntN(len(starts))]

		verses := slices.Clone(chapterVerses[start : start+span])
		for i := range verses {
			verses[i].BookName = book.Name
			verses[i].Chapter = chapter
		}
		return verses, nil
	}

	return []Verse{}, &errors.NoVerseDataError{Attempts: s.opts.MaxAttempts}
}

// runStarts returns the indices at which span consecutive verses of vs are
// also numbered consecutively. vs must be ascending without duplicates.
func runStarts(vs []Verse, span int) []int {
	var starts []int
	for i := 0; i+span <= len(vs); i++ {
		if vs[i+span-1].Number-vs[i].Number == span-1 {
			starts = append(starts, i)
		}
	}
	return starts
}
