package catalog

// defaultEstimate is used for any chapter without an override.
const defaultEstimate = 30

// estimateOverrides is a rough per-book table of well-known chapter lengths.
// It only exists so a UI can draw plausible verse chips before the verse
// database answers; it is not a source of truth.
var estimateOverrides = map[int]map[int]int{
	10:  {1: 31, 2: 25, 3: 24},
	230: {1: 6, 23: 6, 117: 2, 119: 176},
	240: {31: 31},
	290: {53: 12},
	470: {5: 48, 6: 34},
	500: {1: 51, 3: 36, 11: 57},
	520: {8: 39},
	530: {13: 13},
	730: {22: 21},
}

// VerseCount is a number of verses plus where it came from.
type VerseCount struct {
	Count     int  `json:"count"`
	Estimated bool `json:"estimated"`
}

// EstimateVerseCount returns the heuristic verse count for a chapter.
// The result is always flagged Estimated; chapters outside the book yield 0.
func (b Book) EstimateVerseCount(chapter int) VerseCount {
	if !b.HasChapter(chapter) {
		return VerseCount{Estimated: true}
	}
	if n, ok := estimateOverrides[b.CanonicalNumber][chapter]; ok {
		return VerseCount{Count: n, Estimated: true}
	}
	return VerseCount{Count: defaultEstimate, Estimated: true}
}
