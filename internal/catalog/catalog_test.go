package catalog

import (
	"encoding/json"
	"math/rand/v2"
	"testing"
)

func TestCatalogInvariants(t *testing.T) {
	c := Default()
	all := c.All()

	if len(all) != 66 {
		t.Fatalf("len(All()) = %d, want 66", len(all))
	}
	if got := len(c.ByTestament(Old)); got != 39 {
		t.Errorf("Old Testament books = %d, want 39", got)
	}
	if got := len(c.ByTestament(New)); got != 27 {
		t.Errorf("New Testament books = %d, want 27", got)
	}

	seen := make(map[int]bool)
	prev := 0
	for i, b := range all {
		if b.DisplayOrder != i+1 {
			t.Errorf("%s: DisplayOrder = %d, want %d", b.Name, b.DisplayOrder, i+1)
		}
		if b.CanonicalNumber <= prev {
			t.Errorf("%s: canonical %d not greater than previous %d", b.Name, b.CanonicalNumber, prev)
		}
		if seen[b.CanonicalNumber] {
			t.Errorf("%s: duplicate canonical number %d", b.Name, b.CanonicalNumber)
		}
		seen[b.CanonicalNumber] = true
		prev = b.CanonicalNumber

		wantTestament := New
		if b.CanonicalNumber >= 10 && b.CanonicalNumber <= 460 {
			wantTestament = Old
		}
		if b.Testament != wantTestament {
			t.Errorf("%s: Testament = %v, want %v", b.Name, b.Testament, wantTestament)
		}
		if b.ChapterCount < 1 {
			t.Errorf("%s: ChapterCount = %d", b.Name, b.ChapterCount)
		}
	}

	if all[0].CanonicalNumber != 10 || all[65].CanonicalNumber != 730 {
		t.Errorf("canonical range = %d..%d, want 10..730", all[0].CanonicalNumber, all[65].CanonicalNumber)
	}
}

func TestLookup(t *testing.T) {
	c := Default()

	tests := []struct {
		canonical    int
		wantName     string
		wantChapters int
		wantTest     Testament
		wantOK       bool
	}{
		{500, "John", 21, New, true},
		{10, "Genesis", 50, Old, true},
		{230, "Psalms", 150, Old, true},
		{460, "Malachi", 4, Old, true},
		{470, "Matthew", 28, New, true},
		{730, "Revelation", 22, New, true},
		{170, "", 0, 0, false}, // Tobit: in the numbering scheme, not in the catalog
		{999, "", 0, 0, false},
		{0, "", 0, 0, false},
	}

	for _, tt := range tests {
		b, ok := c.Lookup(tt.canonical)
		if ok != tt.wantOK {
			t.Errorf("Lookup(%d) ok = %v, want %v", tt.canonical, ok, tt.wantOK)
			continue
		}
		if !ok {
			continue
		}
		if b.Name != tt.wantName || b.ChapterCount != tt.wantChapters || b.Testament != tt.wantTest {
			t.Errorf("Lookup(%d) = %+v, want %s/%d/%v", tt.canonical, b, tt.wantName, tt.wantChapters, tt.wantTest)
		}
	}
}

func TestByName(t *testing.T) {
	c := Default()

	tests := []struct {
		input string
		want  int
	}{
		{"John", 500},
		{"john", 500},
		{"Jn", 500},
		{"1 John", 690},
		{"1John", 690},
		{"1jn", 690},
		{"Ps", 230},
		{"Psalm", 230},
		{"Song of Solomon", 260},
		{"Song of Songs", 260},
		{"Rev.", 730},
		{"Revelations", 730},
		{"  Genesis ", 10},
	}

	for _, tt := range tests {
		b, ok := c.ByName(tt.input)
		if !ok {
			t.Errorf("ByName(%q) not found", tt.input)
			continue
		}
		if b.CanonicalNumber != tt.want {
			t.Errorf("ByName(%q) = %d, want %d", tt.input, b.CanonicalNumber, tt.want)
		}
	}

	if _, ok := c.ByName("Tobit"); ok {
		t.Error("ByName(Tobit) should not resolve")
	}
}

func TestAllReturnsCopy(t *testing.T) {
	c := Default()
	all := c.All()
	all[0].Name = "Mutated"

	b, _ := c.Lookup(10)
	if b.Name != "Genesis" {
		t.Errorf("catalog mutated through All(): %q", b.Name)
	}
}

func TestPick(t *testing.T) {
	c := Default()
	r := rand.New(rand.NewPCG(1, 2))

	seen := make(map[int]bool)
	for i := 0; i < 2000; i++ {
		b := c.Pick(r)
		if _, ok := c.Lookup(b.CanonicalNumber); !ok {
			t.Fatalf("Pick returned unknown book %d", b.CanonicalNumber)
		}
		seen[b.CanonicalNumber] = true
	}
	if len(seen) < 60 {
		t.Errorf("Pick covered only %d of 66 books in 2000 draws", len(seen))
	}
}

func TestEstimateVerseCount(t *testing.T) {
	c := Default()
	psalms, _ := c.Lookup(230)
	mark, _ := c.Lookup(480)

	tests := []struct {
		name    string
		book    Book
		chapter int
		want    int
	}{
		{"override", psalms, 117, 2},
		{"long override", psalms, 119, 176},
		{"default", mark, 4, 30},
		{"out of range", mark, 17, 0},
		{"zero chapter", mark, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.book.EstimateVerseCount(tt.chapter)
			if got.Count != tt.want {
				t.Errorf("Count = %d, want %d", got.Count, tt.want)
			}
			if !got.Estimated {
				t.Error("heuristic counts must always be flagged Estimated")
			}
		})
	}
}

func TestTestamentJSON(t *testing.T) {
	b, _ := Default().Lookup(500)
	data, err := json.Marshal(b)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if raw["testament"] != "NEW" {
		t.Errorf("testament = %v, want NEW", raw["testament"])
	}

	var back Book
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal into Book: %v", err)
	}
	if back != b {
		t.Errorf("round trip = %+v, want %+v", back, b)
	}

	var bad Testament
	if err := bad.UnmarshalText([]byte("apocrypha")); err == nil {
		t.Error("UnmarshalText(apocrypha) should fail")
	}
}

func TestParseTestament(t *testing.T) {
	for in, want := range map[string]Testament{"old": Old, "OT": Old, "New": New, "nt": New} {
		got, ok := ParseTestament(in)
		if !ok || got != want {
			t.Errorf("ParseTestament(%q) = %v, %v", in, got, ok)
		}
	}
	if _, ok := ParseTestament("apocrypha"); ok {
		t.Error("ParseTestament(apocrypha) should fail")
	}
}
