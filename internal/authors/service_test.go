package authors_test

import (
	"database/sql"
	"path/filepath"
	"testing"

	"biblioteca/internal/authors"
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

func TestCreateRequiresName(t *testing.T) {
	db := setupDB(t)
	service := authors.NewService(db)

	if _, err := service.Create(models.AuthorInput{}); err == nil {
		t.Fatal("Expected validation error for missing name")
	}
	if _, err := service.Create(models.AuthorInput{
		Name:    strPtr("Borges"),
		Website: strPtr("not a url"),
	}); err == nil {
		t.Fatal("Expected validation error for bad website")
	}
}

func TestUpdateMergesFields(t *testing.T) {
	db := setupDB(t)
	service := authors.NewService(db)

	author, err := service.Create(models.AuthorInput{
		Name:        strPtr("Jorge Luis Borges"),
		Nationality: strPtr("Argentina"),
	})
	if err != nil {
		t.Fatalf("Failed to create author: %v", err)
	}

	updated, err := service.Update(author.ID, models.AuthorInput{
		BirthDate: strPtr("1899-08-24"),
	})
	if err != nil {
		t.Fatalf("Failed to update author: %v", err)
	}
	if updated.Name != "Jorge Luis Borges" {
		t.Errorf("Merge lost name: %q", updated.Name)
	}
	if updated.Nationality == nil || *updated.Nationality != "Argentina" {
		t.Errorf("Merge lost nationality: %v", updated.Nationality)
	}
	if updated.BirthDate == nil || *updated.BirthDate != "1899-08-24" {
		t.Errorf("Birth date not set: %v", updated.BirthDate)
	}
}

func TestFindOrCreateByName(t *testing.T) {
	db := setupDB(t)
	service := authors.NewService(db)

	first, err := service.FindOrCreateByName("  Italo Calvino  ")
	if err != nil {
		t.Fatalf("Failed to create author: %v", err)
	}
	if first.Name != "Italo Calvino" {
		t.Errorf("Name not trimmed: %q", first.Name)
	}

	second, err := service.FindOrCreateByName("Italo Calvino")
	if err != nil {
		t.Fatalf("Failed to resolve author: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("Expected the same author, got %d and %d", first.ID, second.ID)
	}

	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM authors`).Scan(&count); err != nil {
		t.Fatalf("Failed to count authors: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected one author row, got %d", count)
	}

	if _, err := service.FindOrCreateByName("   "); err == nil {
		t.Fatal("Expected error for blank name")
	}
}

func TestSearchCapsResults(t *testing.T) {
	db := setupDB(t)
	service := authors.NewService(db)

	if _, err := service.Create(models.AuthorInput{
		Name:        strPtr("Gabriel García Márquez"),
		Nationality: strPtr("Colombia"),
	}); err != nil {
		t.Fatalf("Failed to create author: %v", err)
	}

	byNationality, err := service.Search("colombia")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(byNationality) != 1 {
		t.Fatalf("Nationality search wrong: %d rows", len(byNationality))
	}

	empty, err := service.Search("   ")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("Blank query should return nothing, got %d", len(empty))
	}
}
