package external

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

type GoogleBooksSource struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

func NewGoogleBooksSource() *GoogleBooksSource {
	return &GoogleBooksSource{
		BaseURL: "https://www.googleapis.com/books/v1/volumes",
		APIKey:  strings.TrimSpace(os.Getenv("GOOGLE_BOOKS_API_KEY")),
		Client:  &http.Client{Timeout: 10 * time.Second},
	}
}

type googleVolumesRes struct {
	Items []struct {
		ID         string `json:"id"`
		VolumeInfo struct {
			Title               string   `json:"title"`
			Subtitle            string   `json:"subtitle"`
			Authors             []string `json:"authors"`
			Publisher           string   `json:"publisher"`
			PublishedDate       string   `json:"publishedDate"`
			Description         string   `json:"description"`
			PageCount           int      `json:"pageCount"`
			Categories          []string `json:"categories"`
			Language            string   `json:"language"`
			IndustryIdentifiers []struct {
				Type       string `json:"type"`
				Identifier string `json:"identifier"`
			} `json:"industryIdentifiers"`
			ImageLinks *struct {
				SmallThumbnail string `json:"smallThumbnail"`
				Thumbnail      string `json:"thumbnail"`
			} `json:"imageLinks"`
		} `json:"volumeInfo"`
	} `json:"items"`
}

func (g *GoogleBooksSource) Search(ctx context.Context, query string, opts SearchOptions) ([]Candidate, error) {
	u, _ := url.Parse(g.BaseURL)
	qs := u.Query()
	qs.Set("q", buildGoogleQuery(query, opts))
	qs.Set("maxResults", "40")
	qs.Set("printType", "books")
	qs.Set("projection", "lite")
	if opts.Language != "" && opts.Language != "other" {
		qs.Set("langRestrict", opts.Language)
	}
	if g.APIKey != "" {
		qs.Set("key", g.APIKey)
	}
	u.RawQuery = qs.Encode()

	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	req.Header.Set("Accept", "application/json")
	res, err := g.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google books request failed: %s", res.Status)
	}

	var r googleVolumesRes
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, err
	}

	out := make([]Candidate, 0, len(r.Items))
	for _, item := range r.Items {
		info := item.VolumeInfo
		if strings.TrimSpace(info.Title) == "" {
			continue
		}

		identifiers := make([]string, 0, len(info.IndustryIdentifiers))
		for _, id := range info.IndustryIdentifiers {
			identifiers = append(identifiers, id.Identifier)
		}

		var cover *string
		if info.ImageLinks != nil {
			if info.ImageLinks.Thumbnail != "" {
				cover = secureImageURL(info.ImageLinks.Thumbnail)
			} else {
				cover = secureImageURL(info.ImageLinks.SmallThumbnail)
			}
		}

		var genre *string
		if len(info.Categories) > 0 {
			genre = optString(info.Categories[0])
		}
		var pages *int
		if info.PageCount > 0 {
			p := info.PageCount
			pages = &p
		}

		c := Candidate{
			Source:          "googlebooks",
			ExternalID:      optString(item.ID),
			ISBN:            pickISBN(identifiers),
			Title:           info.Title,
			Subtitle:        optString(info.Subtitle),
			Authors:         compact(info.Authors),
			Publisher:       optString(info.Publisher),
			PublicationDate: normalizeDate(info.PublishedDate),
			Language:        normalizeLanguage(info.Language),
			Pages:           pages,
			Genre:           genre,
			Description:     optString(info.Description),
			CoverURL:        cover,
		}
		out = append(out, c)
	}
	return out, nil
}

func buildGoogleQuery(query string, opts SearchOptions) string {
	q := strings.TrimSpace(query)
	parts := []string{}

	switch opts.Mode {
	case "isbn":
		if isbn := cleanISBN(q); isbn != "" {
			parts = append(parts, "isbn:"+isbn)
		} else {
			parts = append(parts, "isbn:"+quoteTerm(q))
		}
	case "title":
		parts = append(parts, "intitle:"+quoteTerm(q))
	case "author":
		parts = append(parts, "inauthor:"+quoteTerm(q))
	case "publisher":
		parts = append(parts, "inpublisher:"+quoteTerm(q))
	default:
		parts = append(parts, q)
	}

	if opts.Mode != "author" && opts.Author != "" {
		parts = append(parts, "inauthor:"+quoteTerm(opts.Author))
	}
	if opts.Mode != "publisher" && opts.Publisher != "" {
		parts = append(parts, "inpublisher:"+quoteTerm(opts.Publisher))
	}
	if opts.Year != "" {
		parts = append(parts, strings.TrimSpace(opts.Year))
	}

	nonEmpty := parts[:0]
	for _, p := range parts {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return strings.Join(nonEmpty, " ")
}

func compact(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			out = append(out, strings.TrimSpace(v))
		}
	}
	return out
}
