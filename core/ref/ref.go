// Package ref parses human-written passage references such as "John 3:16",
// "1 John 2:1-3", "Ps 117" or the OSIS-style "Gen.1.1".
//
// Parsing is purely syntactic. Resolving the book text against the catalog
// is left to the caller.
package ref

import (
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/FocuswithJustin/JuniperReader/core/errors"
)

// Ref is a parsed passage reference.
type Ref struct {
	// Book is the book text as written, e.g. "1 John" or "Ps".
	Book string `json:"book"`

	// Chapter is the chapter number (0 for whole-book references).
	Chapter int `json:"chapter,omitempty"`

	// Verse is the first verse (0 for whole-chapter references).
	Verse int `json:"verse,omitempty"`

	// VerseEnd is the last verse of a range, 0 if not a range.
	VerseEnd int `json:"verse_end,omitempty"`
}

//nolint:govet // participle grammar tags are not standard struct tags
type refGrammar struct {
	Prefix  string       `@Int?`
	Words   []string     `@Word+`
	Chapter *chapterPart `@@?`
}

//nolint:govet // participle grammar tags are not standard struct tags
type chapterPart struct {
	Chapter int        `@Int`
	Verse   *versePart `( (":" | ".") @@ )?`
}

//nolint:govet // participle grammar tags are not standard struct tags
type versePart struct {
	Verse int  `@Int`
	End   *int `( "-" @Int )?`
}

// refLexer tokenizes references. Words may carry a trailing dot so that
// abbreviations like "Rev." and OSIS ids like "Gen.1.1" both lex cleanly.
var refLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Int", Pattern: `[0-9]+`},
	{Name: "Word", Pattern: `[A-Za-z]+\.?`},
	{Name: "Punct", Pattern: `[:.\-]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var refParser = participle.MustBuild[refGrammar](
	participle.Lexer(refLexer),
	participle.Elide("Whitespace"),
)

// Parse parses a reference string.
// Supported formats:
//   - "John" (book only)
//   - "John 3" (book and chapter)
//   - "John 3:16" or "John 3.16" (single verse)
//   - "John 3:16-18" (verse range)
//   - "1 John 2:1", "Song of Solomon 2:4" (numbered and multi-word books)
func Parse(s string) (*Ref, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, errors.NewParse("reference", "", "empty reference")
	}

	parsed, err := refParser.ParseString("", s)
	if err != nil {
		return nil, errors.NewParse("reference", s, err.Error())
	}

	words := make([]string, len(parsed.Words))
	for i, w := range parsed.Words {
		words[i] = strings.TrimSuffix(w, ".")
	}
	book := strings.Join(words, " ")
	if parsed.Prefix != "" {
		book = parsed.Prefix + " " + book
	}

	r := &Ref{Book: book}
	if c := parsed.Chapter; c != nil {
		if c.Chapter == 0 {
			return nil, errors.NewParse("reference", s, "chapter must be at least 1")
		}
		r.Chapter = c.Chapter
		if v := c.Verse; v != nil {
			if v.Verse == 0 {
				return nil, errors.NewParse("reference", s, "verse must be at least 1")
			}
			r.Verse = v.Verse
			if v.End != nil {
				if *v.End < v.Verse {
					return nil, errors.NewParse("reference", s, "range ends before it starts")
				}
				r.VerseEnd = *v.End
			}
		}
	}

	return r, nil
}

// IsRange reports whether the reference spans several verses.
func (r *Ref) IsRange() bool {
	return r.VerseEnd > r.Verse
}

// String formats the reference as "Book C:V-E".
func (r *Ref) String() string {
	var sb strings.Builder
	sb.WriteString(r.Book)

	if r.Chapter > 0 {
		sb.WriteString(" ")
		sb.WriteString(strconv.Itoa(r.Chapter))

		if r.Verse > 0 {
			sb.WriteString(":")
			sb.WriteString(strconv.Itoa(r.Verse))

			if r.IsRange() {
				sb.WriteString("-")
				sb.WriteString(strconv.Itoa(r.VerseEnd))
			}
		}
	}

	return sb.String()
}
