// Package external queries public book catalogs and normalizes their
// results into create-ready records.
package external

import (
	"context"
	"regexp"
	"strings"
)

// Candidate is an external search hit, shaped like book create input plus
// the author names still to be resolved against the local catalog.
type Candidate struct {
	Source          string   `json:"source"`
	ExternalID      *string  `json:"external_id"`
	ISBN            *string  `json:"isbn"`
	Title           string   `json:"title"`
	Subtitle        *string  `json:"subtitle"`
	Authors         []string `json:"authors"`
	Publisher       *string  `json:"publisher"`
	PublicationDate *string  `json:"publication_date"`
	Language        string   `json:"language"`
	Pages           *int     `json:"pages"`
	Genre           *string  `json:"genre"`
	Description     *string  `json:"description"`
	CoverURL        *string  `json:"cover_url"`
}

// SearchOptions narrow a catalog query beyond the free-text term.
type SearchOptions struct {
	Mode      string // general, isbn, title, author, publisher
	Author    string
	Publisher string
	Year      string
	Language  string
	Exact     bool
}

type Source interface {
	Search(ctx context.Context, query string, opts SearchOptions) ([]Candidate, error)
}

var (
	yearRe      = regexp.MustCompile(`^\d{4}$`)
	yearMonthRe = regexp.MustCompile(`^\d{4}-\d{2}$`)
	fullDateRe  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	isbnJunkRe  = regexp.MustCompile(`[^0-9Xx]`)
)

// normalizeDate pads partial publication dates to a full ISO date.
func normalizeDate(value string) *string {
	v := strings.TrimSpace(value)
	switch {
	case yearRe.MatchString(v):
		v += "-01-01"
	case yearMonthRe.MatchString(v):
		v += "-01"
	case fullDateRe.MatchString(v):
	default:
		return nil
	}
	return &v
}

func normalizeLanguage(lang string) string {
	v := strings.ToLower(strings.TrimSpace(lang))
	if v == "" {
		return "es"
	}
	if len(v) > 2 {
		v = v[:2]
	}
	switch v {
	case "es", "en", "fr", "pt", "de", "it":
		return v
	}
	return "other"
}

// secureImageURL upgrades plain-http image links.
func secureImageURL(raw string) *string {
	v := strings.TrimSpace(raw)
	if v == "" {
		return nil
	}
	if rest, ok := strings.CutPrefix(v, "http://"); ok {
		v = "https://" + rest
	}
	return &v
}

func cleanISBN(value string) string {
	return strings.ToUpper(isbnJunkRe.ReplaceAllString(value, ""))
}

// pickISBN prefers an ISBN-13 over an ISBN-10 over whatever else is there.
func pickISBN(candidates []string) *string {
	cleaned := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if v := cleanISBN(c); v != "" {
			cleaned = append(cleaned, v)
		}
	}
	for _, c := range cleaned {
		if len(c) == 13 {
			return &c
		}
	}
	for _, c := range cleaned {
		if len(c) == 10 {
			return &c
		}
	}
	if len(cleaned) > 0 {
		return &cleaned[0]
	}
	return nil
}

func quoteTerm(value string) string {
	v := strings.TrimSpace(value)
	if v == "" {
		return ""
	}
	if strings.ContainsAny(v, " \t") {
		return `"` + v + `"`
	}
	return v
}

func optString(value string) *string {
	v := strings.TrimSpace(value)
	if v == "" {
		return nil
	}
	return &v
}
