package users_test

import (
	"database/sql"
	"path/filepath"
	"testing"

	"biblioteca/internal/users"
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

func strPtr(v string) *string { return &v }

func TestCreateAndUpdateUser(t *testing.T) {
	db := setupDB(t)
	service := users.NewService(db)

	user, err := service.Create(models.UserInput{
		Name:  strPtr("Ana García"),
		Email: strPtr("ana@example.com"),
	})
	if err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}
	if user.TrustLevel != 3 || user.Active != 1 {
		t.Errorf("Defaults wrong: trust=%d active=%d", user.TrustLevel, user.Active)
	}

	updated, err := service.Update(user.ID, models.UserInput{
		Phone: strPtr("600123456"),
	})
	if err != nil {
		t.Fatalf("Failed to update user: %v", err)
	}
	if updated.Name != "Ana García" {
		t.Errorf("Merge update lost name: %q", updated.Name)
	}
	if updated.Phone == nil || *updated.Phone != "600123456" {
		t.Errorf("Phone not updated: %v", updated.Phone)
	}
}

func TestDeleteBlockedByOpenLoans(t *testing.T) {
	db := setupDB(t)
	service := users.NewService(db)

	user, err := service.Create(models.UserInput{Name: strPtr("Bruno")})
	if err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}
	if _, err := db.Exec(`INSERT INTO books (title) VALUES ('A Book')`); err != nil {
		t.Fatalf("Failed to insert book: %v", err)
	}
	if _, err := db.Exec(`
		INSERT INTO loans (book_id, user_id, loan_date, due_date, status)
		VALUES (1, ?, '2026-01-01', '2026-01-15', 'active')`, user.ID); err != nil {
		t.Fatalf("Failed to insert loan: %v", err)
	}

	if err := service.Delete(user.ID); !apperr.IsConflict(err) {
		t.Fatalf("Expected conflict while loans are open, got %v", err)
	}

	// Overdue blocks too.
	if _, err := db.Exec(`UPDATE loans SET status = 'overdue'`); err != nil {
		t.Fatalf("Failed to mark overdue: %v", err)
	}
	if err := service.Delete(user.ID); !apperr.IsConflict(err) {
		t.Fatalf("Expected conflict while overdue, got %v", err)
	}

	// Returned loans do not block.
	if _, err := db.Exec(`UPDATE loans SET status = 'returned'`); err != nil {
		t.Fatalf("Failed to mark returned: %v", err)
	}
	if err := service.Delete(user.ID); err != nil {
		t.Fatalf("Delete should succeed once loans are returned: %v", err)
	}

	if _, err := service.GetByID(user.ID); !apperr.IsNotFound(err) {
		t.Fatalf("Expected not-found after delete, got %v", err)
	}
}

func TestSearch(t *testing.T) {
	db := setupDB(t)
	service := users.NewService(db)

	if _, err := service.Create(models.UserInput{Name: strPtr("Carla Ruiz")}); err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}
	if _, err := service.Create(models.UserInput{Name: strPtr("Diego")}); err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}

	found, err := service.Search("ruiz")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(found) != 1 || found[0].Name != "Carla Ruiz" {
		t.Fatalf("Search wrong: %+v", found)
	}
}
