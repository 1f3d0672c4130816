package external

import "testing"

func TestNormalizeDate(t *testing.T) {
	cases := []struct {
		in   string
		want string
		null bool
	}{
		{"1967", "1967-01-01", false},
		{"1967-05", "1967-05-01", false},
		{"1967-05-30", "1967-05-30", false},
		{"May 1967", "", true},
		{"", "", true},
	}
	for _, tc := range cases {
		got := normalizeDate(tc.in)
		if tc.null {
			if got != nil {
				t.Errorf("normalizeDate(%q) = %q, want nil", tc.in, *got)
			}
			continue
		}
		if got == nil || *got != tc.want {
			t.Errorf("normalizeDate(%q) = %v, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeLanguage(t *testing.T) {
	cases := map[string]string{
		"":    "es",
		"ES":  "es",
		"eng": "en",
		"fr":  "fr",
		"jpn": "other",
		"zh":  "other",
	}
	for in, want := range cases {
		if got := normalizeLanguage(in); got != want {
			t.Errorf("normalizeLanguage(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSecureImageURL(t *testing.T) {
	if got := secureImageURL("http://example.com/a.jpg"); got == nil || *got != "https://example.com/a.jpg" {
		t.Errorf("http should upgrade to https, got %v", got)
	}
	if got := secureImageURL("https://example.com/a.jpg"); got == nil || *got != "https://example.com/a.jpg" {
		t.Errorf("https should pass through, got %v", got)
	}
	if got := secureImageURL("  "); got != nil {
		t.Errorf("blank should be nil, got %q", *got)
	}
}

func TestPickISBN(t *testing.T) {
	if got := pickISBN([]string{"84-376-0494-X", "978-84-376-0494-7"}); got == nil || *got != "9788437604947" {
		t.Errorf("ISBN-13 should win, got %v", got)
	}
	if got := pickISBN([]string{"84-376-0494-x"}); got == nil || *got != "843760494X" {
		t.Errorf("ISBN-10 fallback wrong, got %v", got)
	}
	if got := pickISBN(nil); got != nil {
		t.Errorf("empty candidates should be nil, got %q", *got)
	}
}

func TestNormalizeTextStripsAccents(t *testing.T) {
	if got := normalizeText("  García Márquez "); got != "garcia marquez" {
		t.Errorf("normalizeText wrong: %q", got)
	}
}

func TestDedupePrefersFirstEdition(t *testing.T) {
	isbn := "9788437604947"
	items := []Candidate{
		{Source: "openlibrary", Title: "Cien años de soledad", ISBN: &isbn},
		{Source: "googlebooks", Title: "Cien años de soledad", ISBN: &isbn},
		{Source: "googlebooks", Title: "Cien años de soledad", Authors: []string{"Gabriel García Márquez"}},
	}
	out := dedupe(items)
	if len(out) != 2 {
		t.Fatalf("Expected 2 after dedupe, got %d", len(out))
	}
	if out[0].Source != "openlibrary" {
		t.Errorf("First hit should survive, got %q", out[0].Source)
	}
}

func TestMatchesExact(t *testing.T) {
	isbn := "9788437604947"
	item := Candidate{
		Title:   "Cien años de soledad",
		Authors: []string{"Gabriel García Márquez"},
		ISBN:    &isbn,
	}
	if !matchesExact(item, "cien años de soledad", normalizeText("cien años de soledad"), "title") {
		t.Error("Exact title with accents should match")
	}
	if matchesExact(item, "cien años", normalizeText("cien años"), "title") {
		t.Error("Partial title must not match in exact mode")
	}
	if !matchesExact(item, "gabriel garcia marquez", normalizeText("gabriel garcia marquez"), "author") {
		t.Error("Accent-insensitive author match failed")
	}
	if !matchesExact(item, "978-84-376-0494-7", "", "isbn") {
		t.Error("ISBN match should ignore separators")
	}
}
