package external

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"biblioteca/pkg/logger"
)

func testLogger() *logger.Logger {
	logger.Init(logger.ERROR, false, io.Discard)
	return logger.GetLogger()
}

func TestGoogleBooksSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("q"); got != `intitle:"cien años de soledad"` {
			t.Errorf("Unexpected q param: %q", got)
		}
		if got := r.URL.Query().Get("langRestrict"); got != "es" {
			t.Errorf("Unexpected langRestrict: %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"items":[
			{"id":"vol1","volumeInfo":{
				"title":"Cien años de soledad",
				"authors":["Gabriel García Márquez"],
				"publisher":"Sudamericana",
				"publishedDate":"1967-05",
				"pageCount":417,
				"categories":["Fiction"],
				"language":"es",
				"industryIdentifiers":[
					{"type":"ISBN_10","identifier":"8437604948"},
					{"type":"ISBN_13","identifier":"9788437604947"}
				],
				"imageLinks":{"thumbnail":"http://books.google.com/cover.jpg"}
			}},
			{"id":"vol2","volumeInfo":{"title":"  "}}
		]}`)
	}))
	defer srv.Close()

	src := NewGoogleBooksSource()
	src.BaseURL = srv.URL

	got, err := src.Search(context.Background(), "cien años de soledad", SearchOptions{Mode: "title", Language: "es"})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("Expected 1 candidate (blank title skipped), got %d", len(got))
	}
	c := got[0]
	if c.Source != "googlebooks" || c.Title != "Cien años de soledad" {
		t.Errorf("Unexpected candidate: %+v", c)
	}
	if c.ISBN == nil || *c.ISBN != "9788437604947" {
		t.Errorf("ISBN-13 should be preferred, got %v", c.ISBN)
	}
	if c.PublicationDate == nil || *c.PublicationDate != "1967-05-01" {
		t.Errorf("Partial date should be padded, got %v", c.PublicationDate)
	}
	if c.CoverURL == nil || *c.CoverURL != "https://books.google.com/cover.jpg" {
		t.Errorf("Cover should be upgraded to https, got %v", c.CoverURL)
	}
	if c.Pages == nil || *c.Pages != 417 {
		t.Errorf("Pages mapping wrong: %v", c.Pages)
	}
}

func TestOpenLibrarySearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("title"); got != "la casa de los espíritus" {
			t.Errorf("Unexpected title param: %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"docs":[{
			"key":"/works/OL1W",
			"title":"La casa de los espíritus",
			"author_name":["Isabel Allende"],
			"publisher":["Plaza & Janés"],
			"first_publish_year":1982,
			"language":["spa"],
			"isbn":["8401242193","9788401242199"],
			"number_of_pages_median":448
		}]}`)
	}))
	defer srv.Close()

	src := NewOpenLibrarySource()
	src.BaseURL = srv.URL

	got, err := src.Search(context.Background(), "la casa de los espíritus", SearchOptions{Mode: "title"})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("Expected 1 candidate, got %d", len(got))
	}
	c := got[0]
	if c.ISBN == nil || *c.ISBN != "9788401242199" {
		t.Errorf("ISBN-13 should be preferred, got %v", c.ISBN)
	}
	if c.PublicationDate == nil || *c.PublicationDate != "1982-01-01" {
		t.Errorf("Year should become a full date, got %v", c.PublicationDate)
	}
	if c.Language != "es" {
		t.Errorf("spa should normalize to es, got %q", c.Language)
	}
	if c.CoverURL == nil || *c.CoverURL != "https://covers.openlibrary.org/b/isbn/9788401242199-L.jpg" {
		t.Errorf("Cover URL wrong: %v", c.CoverURL)
	}
}

type stubSource struct {
	items []Candidate
	err   error
}

func (s *stubSource) Search(ctx context.Context, query string, opts SearchOptions) ([]Candidate, error) {
	return s.items, s.err
}

func TestSearcherDegradesOnSourceFailure(t *testing.T) {
	isbn := "9788437604947"
	ok := &stubSource{items: []Candidate{{Source: "a", Title: "Cien años de soledad", ISBN: &isbn}}}
	broken := &stubSource{err: errors.New("upstream down")}

	s := NewSearcher(testLogger(), ok, broken)
	got, err := s.Search(context.Background(), "cien años", SearchOptions{})
	if err != nil {
		t.Fatalf("Search should not fail when one source errors: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("Expected the healthy source's result, got %d", len(got))
	}
}

func TestSearcherShortQuery(t *testing.T) {
	s := NewSearcher(testLogger(), &stubSource{items: []Candidate{{Title: "x"}}})
	got, err := s.Search(context.Background(), "a", SearchOptions{})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Single-rune query should return nothing, got %d", len(got))
	}
}

func TestSearcherPostFiltersAndDedupes(t *testing.T) {
	isbn := "9788437604947"
	date1967 := "1967-05-01"
	date1982 := "1982-01-01"
	src := &stubSource{items: []Candidate{
		{Source: "a", Title: "Cien años de soledad", ISBN: &isbn, PublicationDate: &date1967, Language: "es"},
		{Source: "b", Title: "Cien años de soledad", ISBN: &isbn, PublicationDate: &date1967, Language: "es"},
		{Source: "b", Title: "Cien años de soledad", PublicationDate: &date1982, Language: "es"},
	}}

	s := NewSearcher(testLogger(), src)
	got, err := s.Search(context.Background(), "cien años", SearchOptions{Year: "1967"})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("Year filter plus dedupe should leave 1, got %d", len(got))
	}
	if got[0].Source != "a" {
		t.Errorf("First edition should survive dedupe, got %q", got[0].Source)
	}

	s.IncludeVariants = true
	got, err = s.Search(context.Background(), "cien años", SearchOptions{Year: "1967"})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("IncludeVariants should keep both editions, got %d", len(got))
	}
}
