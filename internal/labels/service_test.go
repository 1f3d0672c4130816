package labels_test

import (
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"biblioteca/internal/labels"
	"biblioteca/pkg/apperr"
	"biblioteca/pkg/database"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func insertBook(t *testing.T, db *sql.DB, title string, signature interface{}) int64 {
	t.Helper()
	res, err := db.Exec(`INSERT INTO books (title, signature) VALUES (?, ?)`, title, signature)
	if err != nil {
		t.Fatalf("Failed to insert book: %v", err)
	}
	id, _ := res.LastInsertId()
	return id
}

type fakePrinter struct {
	items []labels.Item
	tpl   labels.Template
}

func (p *fakePrinter) Print(items []labels.Item, tpl labels.Template) (string, error) {
	p.items = items
	p.tpl = tpl
	return "fake.html", nil
}

func TestPrintMarksBooksAndSkipsBlankSignatures(t *testing.T) {
	db := setupDB(t)
	printer := &fakePrinter{}
	service := labels.NewService(db, printer)

	withSig := insertBook(t, db, "Labeled", "N-GAR-100")
	blank := insertBook(t, db, "Blank", "   ")
	noSig := insertBook(t, db, "None", nil)

	result, err := service.Print([]int64{withSig, blank, noSig, 999}, "24")
	if err != nil {
		t.Fatalf("Print failed: %v", err)
	}
	if result.Count != 1 || result.Template != "24" {
		t.Errorf("Result wrong: %+v", result)
	}
	if len(printer.items) != 1 || printer.items[0].Signature != "N-GAR-100" {
		t.Errorf("Printer batch wrong: %+v", printer.items)
	}

	var printed int
	if err := db.QueryRow(
		`SELECT label_printed FROM books WHERE id = ?`, withSig,
	).Scan(&printed); err != nil {
		t.Fatalf("Failed to read flag: %v", err)
	}
	if printed != 1 {
		t.Error("Expected label_printed = 1 after print")
	}
	if err := db.QueryRow(
		`SELECT label_printed FROM books WHERE id = ?`, blank,
	).Scan(&printed); err != nil {
		t.Fatalf("Failed to read flag: %v", err)
	}
	if printed != 0 {
		t.Error("Skipped books must not be marked printed")
	}
}

func TestPrintEmptyBatch(t *testing.T) {
	db := setupDB(t)
	service := labels.NewService(db, &fakePrinter{})

	noSig := insertBook(t, db, "None", nil)
	_, err := service.Print([]int64{noSig}, "65")
	if !apperr.IsConflict(err) {
		t.Fatalf("Expected conflict for empty batch, got %v", err)
	}
}

func TestPrintFallsBackToDefaultTemplate(t *testing.T) {
	db := setupDB(t)
	printer := &fakePrinter{}
	service := labels.NewService(db, printer)

	id := insertBook(t, db, "Labeled", "SIG-1")
	result, err := service.Print([]int64{id}, "unknown")
	if err != nil {
		t.Fatalf("Print failed: %v", err)
	}
	if result.Template != "65" {
		t.Errorf("Expected fallback template 65, got %q", result.Template)
	}
	if printer.tpl.PerPage() != 65 {
		t.Errorf("Template geometry wrong: %d per page", printer.tpl.PerPage())
	}
}

func TestPending(t *testing.T) {
	db := setupDB(t)
	printer := &fakePrinter{}
	service := labels.NewService(db, printer)

	pendingID := insertBook(t, db, "Pending", "B-SIG")
	insertBook(t, db, "No signature", nil)
	printedID := insertBook(t, db, "Printed", "A-SIG")
	if _, err := db.Exec(`UPDATE books SET label_printed = 1 WHERE id = ?`, printedID); err != nil {
		t.Fatalf("Failed to mark printed: %v", err)
	}

	items, err := service.Pending()
	if err != nil {
		t.Fatalf("Pending failed: %v", err)
	}
	if len(items) != 1 || items[0].BookID != pendingID {
		t.Fatalf("Pending wrong: %+v", items)
	}
}

func TestHTMLPrinterWritesSheet(t *testing.T) {
	dir := t.TempDir()
	printer := labels.NewHTMLPrinter(dir)

	path, err := printer.Print([]labels.Item{
		{BookID: 1, Signature: "N-GAR-100"},
		{BookID: 2, Signature: "P-<RUI>-7"},
	}, labels.Templates["21"])
	if err != nil {
		t.Fatalf("Print failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read sheet: %v", err)
	}
	html := string(data)
	if !strings.Contains(html, "N-GAR-100") {
		t.Error("Signature missing from sheet")
	}
	if strings.Contains(html, "P-<RUI>-7") || !strings.Contains(html, "P-&lt;RUI&gt;-7") {
		t.Error("Signatures must be HTML-escaped")
	}
	if !strings.Contains(html, "repeat(3, 63.5mm)") {
		t.Error("Template geometry missing from sheet")
	}
}
