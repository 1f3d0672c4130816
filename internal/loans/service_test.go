package loans_test

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"biblioteca/internal/loans"
	"biblioteca/pkg/apperr"
	"biblioteca/pkg/database"
	"biblioteca/pkg/models"
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

func insertBook(t *testing.T, db *sql.DB, title string, loanable int) int64 {
	t.Helper()
	res, err := db.Exec(`INSERT INTO books (title, loanable) VALUES (?, ?)`, title, loanable)
	if err != nil {
		t.Fatalf("Failed to insert book: %v", err)
	}
	id, _ := res.LastInsertId()
	return id
}

func insertUser(t *testing.T, db *sql.DB, name string) int64 {
	t.Helper()
	res, err := db.Exec(`INSERT INTO users (name) VALUES (?)`, name)
	if err != nil {
		t.Fatalf("Failed to insert user: %v", err)
	}
	id, _ := res.LastInsertId()
	return id
}

func fixedClock(day string) func() time.Time {
	return func() time.Time {
		ts, _ := time.Parse("2006-01-02", day)
		return ts
	}
}

func int64Ptr(v int64) *int64 { return &v }
func strPtr(v string) *string { return &v }

func loanInput(bookID, userID int64, loanDate, dueDate string) models.LoanInput {
	return models.LoanInput{
		BookID:   int64Ptr(bookID),
		UserID:   int64Ptr(userID),
		LoanDate: strPtr(loanDate),
		DueDate:  strPtr(dueDate),
	}
}

func TestCreateLoan(t *testing.T) {
	db := setupDB(t)
	service := loans.NewService(db)

	bookID := insertBook(t, db, "A Book", 1)
	userID := insertUser(t, db, "Ana")

	loan, err := service.Create(loanInput(bookID, userID, "2026-01-01", "2026-01-15"))
	if err != nil {
		t.Fatalf("Failed to create loan: %v", err)
	}
	if loan.Status != models.LoanStatusActive {
		t.Errorf("Expected active status, got %q", loan.Status)
	}
	if loan.BookTitle != "A Book" || loan.UserName != "Ana" {
		t.Errorf("Loan not hydrated: %q / %q", loan.BookTitle, loan.UserName)
	}
}

func TestCreateLoanBlockedWhenNotLoanable(t *testing.T) {
	db := setupDB(t)
	service := loans.NewService(db)

	bookID := insertBook(t, db, "Reference Only", 0)
	userID := insertUser(t, db, "Ana")

	_, err := service.Create(loanInput(bookID, userID, "2026-01-01", "2026-01-15"))
	if !apperr.IsConflict(err) {
		t.Fatalf("Expected conflict for non-loanable book, got %v", err)
	}
}

func TestCreateLoanBlockedWhenAlreadyLoaned(t *testing.T) {
	db := setupDB(t)
	service := loans.NewService(db)

	bookID := insertBook(t, db, "Popular", 1)
	ana := insertUser(t, db, "Ana")
	bruno := insertUser(t, db, "Bruno")

	if _, err := service.Create(loanInput(bookID, ana, "2026-01-01", "2026-01-15")); err != nil {
		t.Fatalf("Failed to create first loan: %v", err)
	}
	_, err := service.Create(loanInput(bookID, bruno, "2026-01-02", "2026-01-16"))
	if !apperr.IsConflict(err) {
		t.Fatalf("Expected conflict for double loan, got %v", err)
	}

	// An overdue loan blocks just the same.
	if _, err := db.Exec(`UPDATE loans SET status = 'overdue'`); err != nil {
		t.Fatalf("Failed to mark overdue: %v", err)
	}
	_, err = service.Create(loanInput(bookID, bruno, "2026-01-02", "2026-01-16"))
	if !apperr.IsConflict(err) {
		t.Fatalf("Expected conflict while overdue, got %v", err)
	}
}

func TestReturnLoan(t *testing.T) {
	db := setupDB(t)
	service := loans.NewService(db)
	service.SetClock(fixedClock("2026-01-10"))

	bookID := insertBook(t, db, "A Book", 1)
	userID := insertUser(t, db, "Ana")

	loan, err := service.Create(loanInput(bookID, userID, "2026-01-01", "2026-01-15"))
	if err != nil {
		t.Fatalf("Failed to create loan: %v", err)
	}

	returned, err := service.Return(loan.ID, models.ReturnInput{
		ConditionOnReturn: strPtr("good"),
	})
	if err != nil {
		t.Fatalf("Failed to return loan: %v", err)
	}
	if returned.Status != models.LoanStatusReturned {
		t.Errorf("Expected returned status, got %q", returned.Status)
	}
	if returned.ReturnDate == nil || *returned.ReturnDate != "2026-01-10" {
		t.Errorf("Expected return date 2026-01-10, got %v", returned.ReturnDate)
	}

	// returned is terminal.
	_, err = service.Return(loan.ID, models.ReturnInput{})
	if !apperr.IsConflict(err) {
		t.Fatalf("Expected conflict for double return, got %v", err)
	}

	// The book is loanable again.
	if _, err := service.Create(loanInput(bookID, userID, "2026-01-11", "2026-01-25")); err != nil {
		t.Fatalf("Book should be loanable again after return: %v", err)
	}
}

func TestReturnKeepsNotesWhenAbsent(t *testing.T) {
	db := setupDB(t)
	service := loans.NewService(db)

	bookID := insertBook(t, db, "A Book", 1)
	userID := insertUser(t, db, "Ana")

	in := loanInput(bookID, userID, "2026-01-01", "2026-01-15")
	in.Notes = strPtr("handle with care")
	loan, err := service.Create(in)
	if err != nil {
		t.Fatalf("Failed to create loan: %v", err)
	}

	returned, err := service.Return(loan.ID, models.ReturnInput{})
	if err != nil {
		t.Fatalf("Failed to return loan: %v", err)
	}
	if returned.Notes == nil || *returned.Notes != "handle with care" {
		t.Errorf("Absent notes should keep the stored ones, got %v", returned.Notes)
	}
}

func TestRefreshOverdueStatuses(t *testing.T) {
	db := setupDB(t)
	service := loans.NewService(db)
	service.SetClock(fixedClock("2026-01-10"))

	lateBook := insertBook(t, db, "Late", 1)
	earlyBook := insertBook(t, db, "Early", 1)
	doneBook := insertBook(t, db, "Done", 1)
	userID := insertUser(t, db, "Ana")

	late, err := service.Create(loanInput(lateBook, userID, "2026-01-01", "2026-01-05"))
	if err != nil {
		t.Fatalf("Failed to create loan: %v", err)
	}
	early, err := service.Create(loanInput(earlyBook, userID, "2026-01-01", "2026-01-20"))
	if err != nil {
		t.Fatalf("Failed to create loan: %v", err)
	}
	// A mis-marked overdue loan whose due date moved into the future.
	if _, err := db.Exec(
		`UPDATE loans SET status = 'overdue' WHERE id = ?`, early.ID); err != nil {
		t.Fatalf("Failed to seed overdue: %v", err)
	}
	done, err := service.Create(loanInput(doneBook, userID, "2026-01-01", "2026-01-02"))
	if err != nil {
		t.Fatalf("Failed to create loan: %v", err)
	}
	if _, err := service.Return(done.ID, models.ReturnInput{}); err != nil {
		t.Fatalf("Failed to return loan: %v", err)
	}

	if err := service.RefreshOverdueStatuses(); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}

	want := map[int64]string{
		late.ID:  models.LoanStatusOverdue,
		early.ID: models.LoanStatusActive,
		done.ID:  models.LoanStatusReturned,
	}
	for id, expected := range want {
		loan, err := service.GetByID(id)
		if err != nil {
			t.Fatalf("Failed to get loan %d: %v", id, err)
		}
		if loan.Status != expected {
			t.Errorf("Loan %d: expected %q, got %q", id, expected, loan.Status)
		}
	}

	// A second sweep changes nothing.
	if err := service.RefreshOverdueStatuses(); err != nil {
		t.Fatalf("Second refresh failed: %v", err)
	}
	for id, expected := range want {
		loan, _ := service.GetByID(id)
		if loan.Status != expected {
			t.Errorf("Refresh not idempotent for loan %d: got %q", id, loan.Status)
		}
	}
}

func TestRefreshDueTodayStaysActive(t *testing.T) {
	db := setupDB(t)
	service := loans.NewService(db)
	service.SetClock(fixedClock("2026-01-10"))

	bookID := insertBook(t, db, "Due Today", 1)
	userID := insertUser(t, db, "Ana")
	loan, err := service.Create(loanInput(bookID, userID, "2026-01-01", "2026-01-10"))
	if err != nil {
		t.Fatalf("Failed to create loan: %v", err)
	}

	if err := service.RefreshOverdueStatuses(); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	got, _ := service.GetByID(loan.ID)
	if got.Status != models.LoanStatusActive {
		t.Errorf("Loan due today should stay active, got %q", got.Status)
	}
}

func TestUpdateDueDate(t *testing.T) {
	db := setupDB(t)
	service := loans.NewService(db)

	bookID := insertBook(t, db, "A Book", 1)
	userID := insertUser(t, db, "Ana")
	loan, err := service.Create(loanInput(bookID, userID, "2026-01-01", "2026-01-15"))
	if err != nil {
		t.Fatalf("Failed to create loan: %v", err)
	}

	updated, err := service.UpdateDueDate(loan.ID, "2026-02-01")
	if err != nil {
		t.Fatalf("Failed to update due date: %v", err)
	}
	if updated.DueDate != "2026-02-01" {
		t.Errorf("Due date not updated: %q", updated.DueDate)
	}

	if _, err := service.UpdateDueDate(loan.ID, "bad-date"); err == nil {
		t.Fatal("Expected error for malformed date")
	}

	if _, err := service.Return(loan.ID, models.ReturnInput{}); err != nil {
		t.Fatalf("Failed to return loan: %v", err)
	}
	if _, err := service.UpdateDueDate(loan.ID, "2026-03-01"); !apperr.IsConflict(err) {
		t.Fatalf("Expected conflict on returned loan, got %v", err)
	}
}

func TestGetByIDNotFound(t *testing.T) {
	db := setupDB(t)
	service := loans.NewService(db)

	_, err := service.GetByID(42)
	if !apperr.IsNotFound(err) {
		t.Fatalf("Expected not-found error, got %v", err)
	}
}
