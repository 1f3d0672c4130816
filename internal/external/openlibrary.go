package external

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

type OpenLibrarySource struct {
	BaseURL string
	Client  *http.Client
}

func NewOpenLibrarySource() *OpenLibrarySource {
	return &OpenLibrarySource{
		BaseURL: "https://openlibrary.org/search.json",
		Client:  &http.Client{Timeout: 10 * time.Second},
	}
}

type openLibrarySearchRes struct {
	Docs []struct {
		Key                 string   `json:"key"`
		Title               string   `json:"title"`
		Subtitle            string   `json:"subtitle"`
		AuthorName          []string `json:"author_name"`
		Publisher           []string `json:"publisher"`
		FirstPublishYear    int      `json:"first_publish_year"`
		Language            []string `json:"language"`
		ISBN                []string `json:"isbn"`
		Subject             []string `json:"subject"`
		NumberOfPagesMedian int      `json:"number_of_pages_median"`
	} `json:"docs"`
}

func (o *OpenLibrarySource) Search(ctx context.Context, query string, opts SearchOptions) ([]Candidate, error) {
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, o.buildURL(query, opts), nil)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "biblioteca/1.0")
	res, err := o.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("open library request failed: %s", res.Status)
	}

	var r openLibrarySearchRes
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, err
	}

	out := make([]Candidate, 0, len(r.Docs))
	for _, doc := range r.Docs {
		if strings.TrimSpace(doc.Title) == "" {
			continue
		}

		isbn := pickISBN(doc.ISBN)
		var cover *string
		if isbn != nil {
			u := fmt.Sprintf("https://covers.openlibrary.org/b/isbn/%s-L.jpg", *isbn)
			cover = &u
		}

		var publisher *string
		if len(doc.Publisher) > 0 {
			publisher = optString(doc.Publisher[0])
		}
		var genre *string
		if len(doc.Subject) > 0 {
			genre = optString(doc.Subject[0])
		}
		lang := ""
		if len(doc.Language) > 0 {
			lang = doc.Language[0]
		}
		var pubDate *string
		if doc.FirstPublishYear > 0 {
			pubDate = normalizeDate(fmt.Sprintf("%d", doc.FirstPublishYear))
		}
		var pages *int
		if doc.NumberOfPagesMedian > 0 {
			p := doc.NumberOfPagesMedian
			pages = &p
		}

		out = append(out, Candidate{
			Source:          "openlibrary",
			ExternalID:      optString(doc.Key),
			ISBN:            isbn,
			Title:           doc.Title,
			Subtitle:        optString(doc.Subtitle),
			Authors:         compact(doc.AuthorName),
			Publisher:       publisher,
			PublicationDate: pubDate,
			Language:        normalizeLanguage(lang),
			Pages:           pages,
			Genre:           genre,
			Description:     nil,
			CoverURL:        cover,
		})
	}
	return out, nil
}

func (o *OpenLibrarySource) buildURL(query string, opts SearchOptions) string {
	q := strings.TrimSpace(query)
	params := url.Values{}
	params.Set("limit", "100")

	switch opts.Mode {
	case "isbn":
		if isbn := cleanISBN(q); isbn != "" {
			params.Set("isbn", isbn)
		} else {
			params.Set("q", q)
		}
	case "title":
		params.Set("title", q)
	case "author":
		params.Set("author", q)
	default:
		params.Set("q", q)
	}

	if opts.Mode != "author" && opts.Author != "" {
		params.Set("author", strings.TrimSpace(opts.Author))
	}

	qParts := []string{}
	if opts.Mode == "publisher" {
		qParts = append(qParts, "publisher:"+quoteTerm(q))
	} else if opts.Publisher != "" {
		qParts = append(qParts, "publisher:"+quoteTerm(opts.Publisher))
	}
	if opts.Year != "" {
		qParts = append(qParts, "first_publish_year:"+strings.TrimSpace(opts.Year))
	}
	if opts.Language != "" {
		qParts = append(qParts, "language:"+strings.TrimSpace(opts.Language))
	}
	if len(qParts) > 0 {
		base := params.Get("q")
		all := append([]string{base}, qParts...)
		nonEmpty := all[:0]
		for _, p := range all {
			if p != "" {
				nonEmpty = append(nonEmpty, p)
			}
		}
		params.Set("q", strings.Join(nonEmpty, " "))
	}

	return o.BaseURL + "?" + params.Encode()
}
