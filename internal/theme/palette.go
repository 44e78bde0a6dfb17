package theme

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/FocuswithJustin/JuniperReader/core/errors"
	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"
)

//go:embed colors.xml
var defaultColorsXML []byte

// colorExpr selects every named color of an Android resources file.
var colorExpr = xpath.MustCompile("/resources/color[@name]")

// Palette is a set of named colors. Names follow the Android resource
// convention of "<role>_<mode>" with an optional mode-less fallback, e.g.
// "background_dark" or "accent".
type Palette struct {
	colors map[string]Color
}

// ParsePalette reads an Android <resources> color file. Entries whose value
// is not a hex color (such as references to other resources) are skipped.
func ParsePalette(r io.Reader) (Palette, error) {
	doc, err := xmlquery.Parse(r)
	if err != nil {
		return Palette{}, errors.NewParse("palette", "", err.Error())
	}

	p := Palette{colors: map[string]Color{}}
	for _, node := range xmlquery.QuerySelectorAll(doc, colorExpr) {
		name := strings.TrimSpace(node.SelectAttr("name"))
		c, err := ParseHex(node.InnerText())
		if name == "" || err != nil {
			continue
		}
		p.colors[name] = c
	}
	if len(p.colors) == 0 {
		return Palette{}, errors.NewParse("palette", "", "no colors found")
	}
	return p, nil
}

// DefaultPalette returns the built-in palette.
func DefaultPalette() Palette {
	p, err := ParsePalette(bytes.NewReader(defaultColorsXML))
	if err != nil {
		panic(fmt.Sprintf("theme: built-in palette: %v", err))
	}
	return p
}

// Color looks up a color by exact name.
func (p Palette) Color(name string) (Color, bool) {
	c, ok := p.colors[name]
	return c, ok
}

// Names returns the color names in sorted order.
func (p Palette) Names() []string {
	names := make([]string, 0, len(p.colors))
	for n := range p.colors {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Accents returns the colors offered as accent choices: "accent" and
// every "accent_*" entry.
func (p Palette) Accents() map[string]Color {
	out := map[string]Color{}
	for n, c := range p.colors {
		if n == "accent" || strings.HasPrefix(n, "accent_") {
			out[n] = c
		}
	}
	return out
}

// role resolves "<role>_<mode>", then "<role>", then fallback.
func (p Palette) role(role string, mode Mode, fallback Color) Color {
	if c, ok := p.colors[role+"_"+mode.String()]; ok {
		return c
	}
	if c, ok := p.colors[role]; ok {
		return c
	}
	return fallback
}
