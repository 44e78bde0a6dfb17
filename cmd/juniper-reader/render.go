package main

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/FocuswithJustin/JuniperReader/internal/catalog"
	"github.com/FocuswithJustin/JuniperReader/internal/library"
	"github.com/FocuswithJustin/JuniperReader/internal/theme"
)

// textWidth is the wrap width for verse text.
const textWidth = 72

// styles are derived from the theme state's scheme.
type styles struct {
	title  lipgloss.Style
	number lipgloss.Style
	text   lipgloss.Style
	muted  lipgloss.Style
	header lipgloss.Style
	cell   lipgloss.Style
}

func newStyles(s theme.State) styles {
	sc := s.Scheme()
	return styles{
		title: lipgloss.NewStyle().
			Bold(true).
			Foreground(sc.Accent.Lipgloss()).
			MarginBottom(1),
		number: lipgloss.NewStyle().
			Foreground(sc.Accent.Lipgloss()).
			Width(4).
			Align(lipgloss.Right).
			PaddingRight(1),
		text: lipgloss.NewStyle().
			Foreground(sc.Text.Lipgloss()).
			Width(textWidth),
		muted: lipgloss.NewStyle().
			Foreground(sc.Muted.Lipgloss()).
			Italic(true),
		header: lipgloss.NewStyle().
			Bold(true).
			Foreground(sc.Accent.Lipgloss()).
			Padding(0, 1),
		cell: lipgloss.NewStyle().
			Padding(0, 1),
	}
}

// passage prints a reference heading followed by one wrapped line per verse.
func (st styles) passage(w io.Writer, p library.Passage) {
	fmt.Fprintln(w, st.title.Render(p.Reference))
	if p.Unavailable {
		fmt.Fprintln(w, st.muted.Render("Verse data is unavailable."))
		return
	}
	if len(p.Verses) == 0 {
		fmt.Fprintln(w, st.muted.Render("No verses found."))
		return
	}
	for _, v := range p.Verses {
		fmt.Fprintln(w, lipgloss.JoinHorizontal(lipgloss.Top,
			st.number.Render(strconv.Itoa(v.Number)),
			st.text.Render(v.Text)))
	}
}

func (st styles) table(headers []string, rows [][]string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(st.muted).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return st.header
			}
			return st.cell
		}).
		Headers(headers...).
		Rows(rows...)
}

func (st styles) books(w io.Writer, books []catalog.Book) {
	rows := make([][]string, 0, len(books))
	for _, b := range books {
		rows = append(rows, []string{
			strconv.Itoa(b.DisplayOrder),
			strconv.Itoa(b.CanonicalNumber),
			b.Name,
			b.Abbreviation,
			strconv.Itoa(b.ChapterCount),
			b.Testament.String(),
		})
	}
	fmt.Fprintln(w, st.table([]string{"#", "Number", "Book", "Abbr", "Chapters", "Testament"}, rows))
}

// counts prints per-chapter verse counts. Estimates are prefixed with "~".
func (st styles) counts(w io.Writer, b catalog.Book, counts []library.ChapterCount) {
	rows := make([][]string, 0, len(counts))
	estimated := false
	for _, c := range counts {
		n := strconv.Itoa(c.Count)
		if c.Estimated {
			n = "~" + n
			estimated = true
		}
		rows = append(rows, []string{strconv.Itoa(c.Chapter), n})
	}
	fmt.Fprintln(w, st.title.Render(b.Name))
	fmt.Fprintln(w, st.table([]string{"Chapter", "Verses"}, rows))
	if estimated {
		fmt.Fprintln(w, st.muted.Render("~ estimated: verse data is unavailable"))
	}
}

func (st styles) info(w io.Writer, info map[string]string) {
	if len(info) == 0 {
		fmt.Fprintln(w, st.muted.Render("No dataset metadata."))
		return
	}
	keys := make([]string, 0, len(info))
	for k := range info {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	rows := make([][]string, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, []string{k, info[k]})
	}
	fmt.Fprintln(w, st.table([]string{"Key", "Value"}, rows))
}

// swatch renders a color sample followed by its hex value.
func swatch(c theme.Color) string {
	block := lipgloss.NewStyle().
		Background(c.Lipgloss()).
		Foreground(c.Contrast().Lipgloss()).
		Render("      ")
	return block + " " + c.Hex()
}

func (st styles) scheme(w io.Writer, s theme.State) {
	sc := s.Scheme()
	fmt.Fprintln(w, st.title.Render(fmt.Sprintf("Theme: %s, accent %s", s.Mode, s.Accent.Hex())))
	for _, role := range []struct {
		name string
		c    theme.Color
	}{
		{"background", sc.Background},
		{"surface", sc.Surface},
		{"text", sc.Text},
		{"muted", sc.Muted},
		{"accent", sc.Accent},
		{"on accent", sc.OnAccent},
	} {
		fmt.Fprintf(w, "%-11s %s\n", role.name, swatch(role.c))
	}

	accents := s.Palette.Accents()
	names := make([]string, 0, len(accents))
	for n := range accents {
		names = append(names, n)
	}
	sort.Strings(names)
	fmt.Fprintln(w)
	fmt.Fprintln(w, st.muted.Render("Accents: "+strings.Join(names, ", ")))
}
