package external

import (
	"context"
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"biblioteca/pkg/logger"
)

// Searcher fans a query out to every configured source, merges the results,
// applies post-filters, and deduplicates editions.
type Searcher struct {
	sources []Source
	log     *logger.Logger

	// IncludeVariants keeps duplicate editions of the same work.
	IncludeVariants bool
}

func NewSearcher(log *logger.Logger, sources ...Source) *Searcher {
	return &Searcher{sources: sources, log: log}
}

func (s *Searcher) Search(ctx context.Context, query string, opts SearchOptions) ([]Candidate, error) {
	q := strings.TrimSpace(query)
	minLength := 2
	if opts.Mode == "isbn" {
		minLength = 3
	}
	if len(q) < minLength {
		return []Candidate{}, nil
	}

	// Sources are queried concurrently; a failing source degrades the
	// result set instead of failing the search.
	results := make([][]Candidate, len(s.sources))
	var wg sync.WaitGroup
	for i, src := range s.sources {
		wg.Add(1)
		go func(i int, src Source) {
			defer wg.Done()
			found, err := src.Search(ctx, q, opts)
			if err != nil {
				s.log.Warn("external_search_source_failed", "error", err.Error())
				return
			}
			results[i] = found
		}(i, src)
	}
	wg.Wait()

	merged := []Candidate{}
	for _, r := range results {
		merged = append(merged, r...)
	}

	filtered := postFilter(merged, q, opts)
	if s.IncludeVariants {
		return filtered, nil
	}
	return dedupe(filtered), nil
}

func postFilter(items []Candidate, query string, opts SearchOptions) []Candidate {
	qNorm := normalizeText(query)
	out := make([]Candidate, 0, len(items))

	for _, item := range items {
		if opts.Year != "" && !strings.HasPrefix(deref(item.PublicationDate), strings.TrimSpace(opts.Year)) {
			continue
		}
		if opts.Language != "" && item.Language != opts.Language {
			continue
		}
		if opts.Publisher != "" &&
			!strings.Contains(normalizeText(deref(item.Publisher)), normalizeText(opts.Publisher)) {
			continue
		}
		if opts.Exact && !matchesExact(item, query, qNorm, opts.Mode) {
			continue
		}
		out = append(out, item)
	}
	return out
}

func matchesExact(item Candidate, query, qNorm, mode string) bool {
	switch mode {
	case "isbn":
		return cleanISBN(deref(item.ISBN)) == cleanISBN(query)
	case "title":
		return normalizeText(item.Title) == qNorm
	case "author":
		for _, name := range item.Authors {
			if normalizeText(name) == qNorm {
				return true
			}
		}
		return false
	case "publisher":
		return normalizeText(deref(item.Publisher)) == qNorm
	}
	return strings.Contains(normalizeText(item.Title), qNorm) ||
		cleanISBN(deref(item.ISBN)) == cleanISBN(query)
}

func dedupe(items []Candidate) []Candidate {
	seen := map[string]struct{}{}
	out := make([]Candidate, 0, len(items))

	for _, item := range items {
		key := deref(item.ISBN)
		if key == "" {
			key = item.Title + "|" + strings.Join(item.Authors, ",")
		}
		key = strings.ToLower(key)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, item)
	}
	return out
}

var stripAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// normalizeText lowercases and strips diacritics for fuzzy comparisons.
func normalizeText(value string) string {
	v := strings.ToLower(strings.TrimSpace(value))
	if stripped, _, err := transform.String(stripAccents, v); err == nil {
		return stripped
	}
	return v
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
