package theme

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/FocuswithJustin/JuniperReader/core/errors"
)

// Mode is the light/dark setting.
type Mode int

const (
	Light Mode = iota
	Dark
)

func (m Mode) String() string {
	if m == Dark {
		return "dark"
	}
	return "light"
}

// ParseMode accepts "light" or "dark" in any case.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "light":
		return Light, nil
	case "dark":
		return Dark, nil
	}
	return Light, errors.NewValidation("mode", "must be light or dark")
}

func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *Mode) UnmarshalText(b []byte) error {
	v, err := ParseMode(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// Scheme is the resolved set of colors for one State.
type Scheme struct {
	Background Color `json:"background"`
	Surface    Color `json:"surface"`
	Text       Color `json:"text"`
	Muted      Color `json:"muted"`
	Accent     Color `json:"accent"`
	OnAccent   Color `json:"on_accent"`
}

// State is the current theme. It is a value: Apply returns a new State and
// never modifies the receiver.
type State struct {
	Mode    Mode
	Accent  Color
	Palette Palette
}

// DefaultState is light mode with the palette's default accent.
func DefaultState() State {
	p := DefaultPalette()
	accent, _ := p.Color("accent")
	return State{Mode: Light, Accent: accent, Palette: p}
}

// Scheme resolves the state's colors. In dark mode the accent is lightened
// until it reads against the background.
func (s State) Scheme() Scheme {
	var sc Scheme
	if s.Mode == Dark {
		sc = Scheme{
			Background: s.Palette.role("background", Dark, RGB(0x12, 0x12, 0x12)),
			Surface:    s.Palette.role("surface", Dark, RGB(0x1E, 0x1E, 0x1E)),
			Text:       s.Palette.role("text", Dark, RGB(0xEE, 0xEE, 0xEE)),
			Muted:      s.Palette.role("muted", Dark, RGB(0x99, 0x99, 0x99)),
		}
	} else {
		sc = Scheme{
			Background: s.Palette.role("background", Light, White),
			Surface:    s.Palette.role("surface", Light, White),
			Text:       s.Palette.role("text", Light, RGB(0x21, 0x21, 0x21)),
			Muted:      s.Palette.role("muted", Light, RGB(0x75, 0x75, 0x75)),
		}
	}

	sc.Accent = s.Accent
	if s.Mode == Dark {
		for i := 0; i < 10 && ContrastRatio(sc.Accent, sc.Background) < 3; i++ {
			sc.Accent = sc.Accent.Lighten(0.1)
		}
	}
	sc.OnAccent = sc.Accent.Contrast()
	return sc
}

func (s State) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Mode    Mode             `json:"mode"`
		Accent  Color            `json:"accent"`
		Scheme  Scheme           `json:"scheme"`
		Accents map[string]Color `json:"accents"`
	}{s.Mode, s.Accent, s.Scheme(), s.Palette.Accents()})
}

// Event is a requested theme change.
type Event interface {
	apply(State) State
}

// ToggleMode switches between light and dark.
type ToggleMode struct{}

// SetMode selects a mode.
type SetMode struct {
	Mode Mode
}

// SetAccent selects an accent color. Alpha is forced opaque.
type SetAccent struct {
	Accent Color
}

func (ToggleMode) apply(s State) State {
	if s.Mode == Dark {
		s.Mode = Light
	} else {
		s.Mode = Dark
	}
	return s
}

func (e SetMode) apply(s State) State {
	s.Mode = e.Mode
	return s
}

func (e SetAccent) apply(s State) State {
	s.Accent = e.Accent.WithAlpha(0xFF)
	return s
}

// Apply returns the state that results from e.
func (s State) Apply(e Event) State {
	if e == nil {
		return s
	}
	return e.apply(s)
}

// ParseEvent decodes a JSON event such as {"type":"toggle_mode"},
// {"type":"set_mode","mode":"dark"} or {"type":"set_accent","accent":"#3949AB"}.
// An accent may also name a palette entry, e.g. "accent_teal".
func ParseEvent(data []byte, p Palette) (Event, error) {
	var raw struct {
		Type   string `json:"type"`
		Mode   string `json:"mode"`
		Accent string `json:"accent"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.NewParse("theme event", "", err.Error())
	}

	switch raw.Type {
	case "toggle_mode":
		return ToggleMode{}, nil
	case "set_mode":
		m, err := ParseMode(raw.Mode)
		if err != nil {
			return nil, err
		}
		return SetMode{Mode: m}, nil
	case "set_accent":
		if c, ok := p.Color(raw.Accent); ok {
			return SetAccent{Accent: c}, nil
		}
		c, err := ParseHex(raw.Accent)
		if err != nil {
			return nil, err
		}
		return SetAccent{Accent: c}, nil
	}
	return nil, errors.NewValidation("type", fmt.Sprintf("unknown theme event %q", raw.Type))
}
