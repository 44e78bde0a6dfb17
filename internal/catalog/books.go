package catalog

// books lists all 66 books in display order. Canonical numbers follow the
// MyBible.zone numbering (10 = Genesis ... 730 = Revelation); the gaps belong
// to deuterocanonical books this catalog does not carry.
var books = []Book{
	// ── Old Testament ──────────────────────────────────────────────────────────
	{Name: "Genesis", Abbreviation: "Gen", ChapterCount: 50, CanonicalNumber: 10},
	{Name: "Exodus", Abbreviation: "Exod", ChapterCount: 40, CanonicalNumber: 20},
	{Name: "Leviticus", Abbreviation: "Lev", ChapterCount: 27, CanonicalNumber: 30},
	{Name: "Numbers", Abbreviation: "Num", ChapterCount: 36, CanonicalNumber: 40},
	{Name: "Deuteronomy", Abbreviation: "Deut", ChapterCount: 34, CanonicalNumber: 50},
	{Name: "Joshua", Abbreviation: "Josh", ChapterCount: 24, CanonicalNumber: 60},
	{Name: "Judges", Abbreviation: "Judg", ChapterCount: 21, CanonicalNumber: 70},
	{Name: "Ruth", Abbreviation: "Ruth", ChapterCount: 4, CanonicalNumber: 80},
	{Name: "1 Samuel", Abbreviation: "1Sam", ChapterCount: 31, CanonicalNumber: 90},
	{Name: "2 Samuel", Abbreviation: "2Sam", ChapterCount: 24, CanonicalNumber: 100},
	{Name: "1 Kings", Abbreviation: "1Kgs", ChapterCount: 22, CanonicalNumber: 110},
	{Name: "2 Kings", Abbreviation: "2Kgs", ChapterCount: 25, CanonicalNumber: 120},
	{Name: "1 Chronicles", Abbreviation: "1Chr", ChapterCount: 29, CanonicalNumber: 130},
	{Name: "2 Chronicles", Abbreviation: "2Chr", ChapterCount: 36, CanonicalNumber: 140},
	{Name: "Ezra", Abbreviation: "Ezra", ChapterCount: 10, CanonicalNumber: 150},
	{Name: "Nehemiah", Abbreviation: "Neh", ChapterCount: 13, CanonicalNumber: 160},
	{Name: "Esther", Abbreviation: "Esth", ChapterCount: 10, CanonicalNumber: 190},
	{Name: "Job", Abbreviation: "Job", ChapterCount: 42, CanonicalNumber: 220},
	{Name: "Psalms", Abbreviation: "Ps", ChapterCount: 150, CanonicalNumber: 230},
	{Name: "Proverbs", Abbreviation: "Prov", ChapterCount: 31, CanonicalNumber: 240},
	{Name: "Ecclesiastes", Abbreviation: "Eccl", ChapterCount: 12, CanonicalNumber: 250},
	{Name: "Song of Solomon", Abbreviation: "Song", ChapterCount: 8, CanonicalNumber: 260},
	{Name: "Isaiah", Abbreviation: "Isa", ChapterCount: 66, CanonicalNumber: 290},
	{Name: "Jeremiah", Abbreviation: "Jer", ChapterCount: 52, CanonicalNumber: 300},
	{Name: "Lamentations", Abbreviation: "Lam", ChapterCount: 5, CanonicalNumber: 310},
	{Name: "Ezekiel", Abbreviation: "Ezek", ChapterCount: 48, CanonicalNumber: 330},
	{Name: "Daniel", Abbreviation: "Dan", ChapterCount: 12, CanonicalNumber: 340},
	{Name: "Hosea", Abbreviation: "Hos", ChapterCount: 14, CanonicalNumber: 350},
	{Name: "Joel", Abbreviation: "Joel", ChapterCount: 3, CanonicalNumber: 360},
	{Name: "Amos", Abbreviation: "Amos", ChapterCount: 9, CanonicalNumber: 370},
	{Name: "Obadiah", Abbreviation: "Obad", ChapterCount: 1, CanonicalNumber: 380},
	{Name: "Jonah", Abbreviation: "Jonah", ChapterCount: 4, CanonicalNumber: 390},
	{Name: "Micah", Abbreviation: "Mic", ChapterCount: 7, CanonicalNumber: 400},
	{Name: "Nahum", Abbreviation: "Nah", ChapterCount: 3, CanonicalNumber: 410},
	{Name: "Habakkuk", Abbreviation: "Hab", ChapterCount: 3, CanonicalNumber: 420},
	{Name: "Zephaniah", Abbreviation: "Zeph", ChapterCount: 3, CanonicalNumber: 430},
	{Name: "Haggai", Abbreviation: "Hag", ChapterCount: 2, CanonicalNumber: 440},
	{Name: "Zechariah", Abbreviation: "Zech", ChapterCount: 14, CanonicalNumber: 450},
	{Name: "Malachi", Abbreviation: "Mal", ChapterCount: 4, CanonicalNumber: 460},
	// ── New Testament ─────────────────────────────────────────────────────────
	{Name: "Matthew", Abbreviation: "Matt", ChapterCount: 28, CanonicalNumber: 470},
	{Name: "Mark", Abbreviation: "Mark", ChapterCount: 16, CanonicalNumber: 480},
	{Name: "Luke", Abbreviation: "Luke", ChapterCount: 24, CanonicalNumber: 490},
	{Name: "John", Abbreviation: "John", ChapterCount: 21, CanonicalNumber: 500},
	{Name: "Acts", Abbreviation: "Acts", ChapterCount: 28, CanonicalNumber: 510},
	{Name: "Romans", Abbreviation: "Rom", ChapterCount: 16, CanonicalNumber: 520},
	{Name: "1 Corinthians", Abbreviation: "1Cor", ChapterCount: 16, CanonicalNumber: 530},
	{Name: "2 Corinthians", Abbreviation: "2Cor", ChapterCount: 13, CanonicalNumber: 540},
	{Name: "Galatians", Abbreviation: "Gal", ChapterCount: 6, CanonicalNumber: 550},
	{Name: "Ephesians", Abbreviation: "Eph", ChapterCount: 6, CanonicalNumber: 560},
	{Name: "Philippians", Abbreviation: "Phil", ChapterCount: 4, CanonicalNumber: 570},
	{Name: "Colossians", Abbreviation: "Col", ChapterCount: 4, CanonicalNumber: 580},
	{Name: "1 Thessalonians", Abbreviation: "1Thess", ChapterCount: 5, CanonicalNumber: 590},
	{Name: "2 Thessalonians", Abbreviation: "2Thess", ChapterCount: 3, CanonicalNumber: 600},
	{Name: "1 Timothy", Abbreviation: "1Tim", ChapterCount: 6, CanonicalNumber: 610},
	{Name: "2 Timothy", Abbreviation: "2Tim", ChapterCount: 4, CanonicalNumber: 620},
	{Name: "Titus", Abbreviation: "Titus", ChapterCount: 3, CanonicalNumber: 630},
	{Name: "Philemon", Abbreviation: "Phlm", ChapterCount: 1, CanonicalNumber: 640},
	{Name: "Hebrews", Abbreviation: "Heb", ChapterCount: 13, CanonicalNumber: 650},
	{Name: "James", Abbreviation: "Jas", ChapterCount: 5, CanonicalNumber: 660},
	{Name: "1 Peter", Abbreviation: "1Pet", ChapterCount: 5, CanonicalNumber: 670},
	{Name: "2 Peter", Abbreviation: "2Pet", ChapterCount: 3, CanonicalNumber: 680},
	{Name: "1 John", Abbreviation: "1John", ChapterCount: 5, CanonicalNumber: 690},
	{Name: "2 John", Abbreviation: "2John", ChapterCount: 1, CanonicalNumber: 700},
	{Name: "3 John", Abbreviation: "3John", ChapterCount: 1, CanonicalNumber: 710},
	{Name: "Jude", Abbreviation: "Jude", ChapterCount: 1, CanonicalNumber: 720},
	{Name: "Revelation", Abbreviation: "Rev", ChapterCount: 22, CanonicalNumber: 730},
}

// aliases maps extra normalized spellings to canonical numbers.
// Names and abbreviations are indexed automatically.
var aliases = map[string]int{
	"psalm":       230,
	"psa":         230,
	"songofsongs": 260,
	"canticles":   260,
	"qoheleth":    250,
	"mt":          470,
	"mk":          480,
	"lk":          490,
	"jn":          500,
	"revelations": 730,
	"apocalypse":  730,
	"phm":         640,
	"jam":         660,
	"1jn":         690,
	"2jn":         700,
	"3jn":         710,
	"1thes":       590,
	"2thes":       600,
	"dt":          50,
	"jdg":         70,
}
