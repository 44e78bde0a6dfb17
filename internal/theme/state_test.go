package theme

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/FocuswithJustin/JuniperReader/core/errors"
	"github.com/google/go-cmp/cmp"
)

const customColors = `<?xml version="1.0" encoding="utf-8"?>
<resources>
    <color name="background_dark">#000000</color>
    <color name="background">#FAFAFA</color>
    <color name="accent">#FF5722</color>
    <color name="accent_sea">#006064</color>
    <color name="linked">@color/accent</color>
    <string name="app_name">Reader</string>
</resources>`

func TestParsePalette(t *testing.T) {
	p, err := ParsePalette(strings.NewReader(customColors))
	if err != nil {
		t.Fatalf("ParsePalette() error = %v", err)
	}
	want := []string{"accent", "accent_sea", "background", "background_dark"}
	if diff := cmp.Diff(want, p.Names()); diff != "" {
		t.Errorf("Names() mismatch (-want +got):\n%s", diff)
	}
	if c, _ := p.Color("accent_sea"); c != RGB(0x00, 0x60, 0x64) {
		t.Errorf("accent_sea = %s", c)
	}
	if got := len(p.Accents()); got != 2 {
		t.Errorf("len(Accents()) = %d, want 2", got)
	}

	if got := p.role("background", Dark, White); got != Black {
		t.Errorf("dark background = %s, want mode-specific entry", got)
	}
	if got := p.role("background", Light, White); got != RGB(0xFA, 0xFA, 0xFA) {
		t.Errorf("light background = %s, want mode-less fallback", got)
	}
	if got := p.role("surface", Light, White); got != White {
		t.Errorf("missing role = %s, want default", got)
	}
}

func TestParsePaletteErrors(t *testing.T) {
	for _, in := range []string{
		"<resources><color name=",
		"<resources><string name=\"x\">y</string></resources>",
	} {
		if _, err := ParsePalette(strings.NewReader(in)); !errors.Is(err, errors.ErrInvalidInput) {
			t.Errorf("ParsePalette(%q) error = %v, want ErrInvalidInput", in, err)
		}
	}
}

func TestDefaultState(t *testing.T) {
	s := DefaultState()
	if s.Mode != Light {
		t.Errorf("Mode = %s, want light", s.Mode)
	}
	if s.Accent != 0xFF8D6E63 {
		t.Errorf("Accent = %s", s.Accent)
	}
	if len(s.Palette.Accents()) != 4 {
		t.Errorf("default palette accents = %v", s.Palette.Names())
	}
}

func TestApplyDoesNotMutate(t *testing.T) {
	s0 := DefaultState()

	s1 := s0.Apply(ToggleMode{})
	if s0.Mode != Light || s1.Mode != Dark {
		t.Errorf("ToggleMode: old %s new %s", s0.Mode, s1.Mode)
	}
	s2 := s1.Apply(ToggleMode{})
	if s2.Mode != Light {
		t.Errorf("second ToggleMode = %s", s2.Mode)
	}

	s3 := s1.Apply(SetAccent{Accent: ARGB(0x10, 1, 2, 3)})
	if s3.Accent != RGB(1, 2, 3) {
		t.Errorf("SetAccent = %s, want opaque #010203", s3.Accent)
	}
	if s1.Accent != s0.Accent {
		t.Error("SetAccent changed the previous state")
	}

	if got := s3.Apply(SetMode{Mode: Light}).Mode; got != Light {
		t.Errorf("SetMode(light) = %s", got)
	}
	if got := s3.Apply(nil); got.Mode != s3.Mode || got.Accent != s3.Accent {
		t.Error("Apply(nil) should return the state unchanged")
	}
}

func TestSchemeReadable(t *testing.T) {
	for _, mode := range []Mode{Light, Dark} {
		s := DefaultState().Apply(SetMode{Mode: mode}).Apply(SetAccent{Accent: RGB(0x1A, 0x23, 0x7E)})
		sc := s.Scheme()
		if r := ContrastRatio(sc.Text, sc.Background); r < 4.5 {
			t.Errorf("%s: text contrast %.2f too low", mode, r)
		}
		if r := ContrastRatio(sc.OnAccent, sc.Accent); r < 3 {
			t.Errorf("%s: on-accent contrast %.2f too low", mode, r)
		}
		if mode == Dark && ContrastRatio(sc.Accent, sc.Background) < 3 {
			t.Errorf("dark accent %s not lifted off background", sc.Accent)
		}
	}
}

func TestParseEvent(t *testing.T) {
	p := DefaultPalette()
	tests := []struct {
		in   string
		want Event
	}{
		{`{"type":"toggle_mode"}`, ToggleMode{}},
		{`{"type":"set_mode","mode":"Dark"}`, SetMode{Mode: Dark}},
		{`{"type":"set_accent","accent":"#3949AB"}`, SetAccent{Accent: RGB(0x39, 0x49, 0xAB)}},
		{`{"type":"set_accent","accent":"accent_teal"}`, SetAccent{Accent: 0xFF00897B}},
	}
	for _, tt := range tests {
		got, err := ParseEvent([]byte(tt.in), p)
		if err != nil {
			t.Errorf("ParseEvent(%s) error = %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseEvent(%s) = %#v, want %#v", tt.in, got, tt.want)
		}
	}

	for _, bad := range []string{
		`{"type":"explode"}`,
		`{"type":"set_mode","mode":"sepia"}`,
		`{"type":"set_accent","accent":"chartreuse"}`,
		`not json`,
	} {
		if _, err := ParseEvent([]byte(bad), p); !errors.Is(err, errors.ErrInvalidInput) {
			t.Errorf("ParseEvent(%s) error = %v, want ErrInvalidInput", bad, err)
		}
	}
}

func TestStateJSON(t *testing.T) {
	b, err := json.Marshal(DefaultState().Apply(ToggleMode{}))
	if err != nil {
		t.Fatal(err)
	}
	var got struct {
		Mode   string            `json:"mode"`
		Accent string            `json:"accent"`
		Scheme map[string]string `json:"scheme"`
	}
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatal(err)
	}
	if got.Mode != "dark" || got.Accent != "#8D6E63" || got.Scheme["background"] != "#121212" {
		t.Errorf("JSON = %s", b)
	}
}
