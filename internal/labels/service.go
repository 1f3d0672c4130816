// Package labels prepares spine-label print batches. Rendering happens
// outside the data layer; this service selects the printable books, hands
// them to a renderer, and marks them printed afterwards.
package labels

import (
	"database/sql"
	"fmt"
	"strings"

	"biblioteca/pkg/apperr"
)

// Template describes one sheet layout of a standard adhesive label format.
type Template struct {
	Key             string  `json:"key"`
	Name            string  `json:"name"`
	Columns         int     `json:"columns"`
	Rows            int     `json:"rows"`
	LabelWidthMm    float64 `json:"label_width_mm"`
	LabelHeightMm   float64 `json:"label_height_mm"`
	SignatureFontMm float64 `json:"signature_font_mm"`
	CodeFontMm      float64 `json:"code_font_mm"`
}

// PerPage returns how many labels fit on one sheet.
func (t Template) PerPage() int { return t.Columns * t.Rows }

// Templates lists the supported A4 label sheet layouts.
var Templates = map[string]Template{
	"65": {
		Key: "65", Name: "65 labels per sheet (38.1 x 21.2 mm)",
		Columns: 5, Rows: 13,
		LabelWidthMm: 38.1, LabelHeightMm: 21.2,
		SignatureFontMm: 2.8, CodeFontMm: 2.1,
	},
	"24": {
		Key: "24", Name: "24 labels per sheet (63.5 x 33.9 mm)",
		Columns: 3, Rows: 8,
		LabelWidthMm: 63.5, LabelHeightMm: 33.9,
		SignatureFontMm: 4.2, CodeFontMm: 2.6,
	},
	"21": {
		Key: "21", Name: "21 labels per sheet (63.5 x 38.1 mm)",
		Columns: 3, Rows: 7,
		LabelWidthMm: 63.5, LabelHeightMm: 38.1,
		SignatureFontMm: 4.6, CodeFontMm: 2.8,
	},
}

// Item is one label to print.
type Item struct {
	BookID    int64  `json:"id"`
	Signature string `json:"signature"`
}

// Result reports what a print run produced.
type Result struct {
	Count    int    `json:"count"`
	Template string `json:"template"`
	Path     string `json:"path,omitempty"`
}

// Printer renders a batch of labels on a given sheet layout and returns a
// path or reference to the rendered output.
type Printer interface {
	Print(items []Item, tpl Template) (string, error)
}

type Service struct {
	db      *sql.DB
	printer Printer
}

func NewService(db *sql.DB, printer Printer) *Service {
	return &Service{db: db, printer: printer}
}

// Pending lists books that have a signature but no printed label yet.
func (s *Service) Pending() ([]Item, error) {
	rows, err := s.db.Query(`
		SELECT id, signature FROM books
		WHERE signature IS NOT NULL AND TRIM(signature) != '' AND label_printed = 0
		ORDER BY signature COLLATE NOCASE ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query pending labels: %w", err)
	}
	defer rows.Close()

	items := []Item{}
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.BookID, &it.Signature); err != nil {
			return nil, fmt.Errorf("failed to scan label item: %w", err)
		}
		it.Signature = strings.TrimSpace(it.Signature)
		items = append(items, it)
	}
	return items, rows.Err()
}

// Print renders labels for the given book ids and marks them printed.
// Books without a signature are silently dropped from the batch.
func (s *Service) Print(bookIDs []int64, templateKey string) (*Result, error) {
	tpl, ok := Templates[templateKey]
	if !ok {
		tpl = Templates["65"]
	}

	items, err := s.collect(bookIDs)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, apperr.Conflict("no books with signature to print")
	}

	path, err := s.printer.Print(items, tpl)
	if err != nil {
		return nil, fmt.Errorf("failed to render labels: %w", err)
	}

	if err := s.markPrinted(items); err != nil {
		return nil, err
	}

	return &Result{Count: len(items), Template: tpl.Key, Path: path}, nil
}

func (s *Service) collect(bookIDs []int64) ([]Item, error) {
	items := []Item{}
	for _, id := range bookIDs {
		if id <= 0 {
			continue
		}
		var signature sql.NullString
		err := s.db.QueryRow(`SELECT signature FROM books WHERE id = ?`, id).Scan(&signature)
		if err == sql.ErrNoRows {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to load book %d: %w", id, err)
		}
		sig := strings.TrimSpace(signature.String)
		if sig == "" {
			continue
		}
		items = append(items, Item{BookID: id, Signature: sig})
	}
	return items, nil
}

func (s *Service) markPrinted(items []Item) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, it := range items {
		if _, err := tx.Exec(
			`UPDATE books SET label_printed = 1, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
			it.BookID,
		); err != nil {
			return fmt.Errorf("failed to mark book %d printed: %w", it.BookID, err)
		}
	}
	return tx.Commit()
}
