package collections_test

import (
	"database/sql"
	"path/filepath"
	"testing"

	"biblioteca/internal/collections"
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

func insertBook(t *testing.T, db *sql.DB, title string) int64 {
	t.Helper()
	res, err := db.Exec(`INSERT INTO books (title) VALUES (?)`, title)
	if err != nil {
		t.Fatalf("Failed to insert book: %v", err)
	}
	id, _ := res.LastInsertId()
	return id
}

func strPtr(v string) *string { return &v }

func TestMembership(t *testing.T) {
	db := setupDB(t)
	service := collections.NewService(db)

	collection, err := service.Create(models.CollectionInput{Name: strPtr("Summer shelf")})
	if err != nil {
		t.Fatalf("Failed to create collection: %v", err)
	}
	bookA := insertBook(t, db, "Beta")
	bookB := insertBook(t, db, "alpha")

	if err := service.AddBook(collection.ID, bookA); err != nil {
		t.Fatalf("Failed to add book: %v", err)
	}
	if err := service.AddBook(collection.ID, bookB); err != nil {
		t.Fatalf("Failed to add book: %v", err)
	}
	// Adding again is a no-op.
	if err := service.AddBook(collection.ID, bookA); err != nil {
		t.Fatalf("Duplicate add should be silent: %v", err)
	}

	books, err := service.Books(collection.ID)
	if err != nil {
		t.Fatalf("Failed to list books: %v", err)
	}
	if len(books) != 2 {
		t.Fatalf("Expected 2 books, got %d", len(books))
	}
	// Title order ignores case.
	if books[0].Title != "alpha" || books[1].Title != "Beta" {
		t.Errorf("Order wrong: %q, %q", books[0].Title, books[1].Title)
	}

	all, err := service.GetAll()
	if err != nil {
		t.Fatalf("Failed to list collections: %v", err)
	}
	if len(all) != 1 || all[0].BookCount != 2 {
		t.Errorf("Expected book_count 2, got %+v", all)
	}

	if err := service.RemoveBook(collection.ID, bookA); err != nil {
		t.Fatalf("Failed to remove book: %v", err)
	}
	books, _ = service.Books(collection.ID)
	if len(books) != 1 {
		t.Errorf("Expected 1 book after removal, got %d", len(books))
	}
}

func TestAddBookToMissingCollection(t *testing.T) {
	db := setupDB(t)
	service := collections.NewService(db)

	bookID := insertBook(t, db, "A Book")
	if err := service.AddBook(99, bookID); !apperr.IsNotFound(err) {
		t.Fatalf("Expected not-found, got %v", err)
	}
}

func TestDeleteCascadesMembership(t *testing.T) {
	db := setupDB(t)
	service := collections.NewService(db)

	collection, err := service.Create(models.CollectionInput{Name: strPtr("Doomed")})
	if err != nil {
		t.Fatalf("Failed to create collection: %v", err)
	}
	bookID := insertBook(t, db, "Survivor")
	if err := service.AddBook(collection.ID, bookID); err != nil {
		t.Fatalf("Failed to add book: %v", err)
	}

	if err := service.Delete(collection.ID); err != nil {
		t.Fatalf("Failed to delete collection: %v", err)
	}

	var links int
	if err := db.QueryRow(`SELECT COUNT(*) FROM book_collections`).Scan(&links); err != nil {
		t.Fatalf("Failed to count links: %v", err)
	}
	if links != 0 {
		t.Errorf("Expected cascade to clear membership, found %d", links)
	}

	// The book itself survives.
	var bookCount int
	if err := db.QueryRow(`SELECT COUNT(*) FROM books`).Scan(&bookCount); err != nil {
		t.Fatalf("Failed to count books: %v", err)
	}
	if bookCount != 1 {
		t.Errorf("Deleting a collection must not delete books")
	}
}

func TestUpdateMerges(t *testing.T) {
	db := setupDB(t)
	service := collections.NewService(db)

	collection, err := service.Create(models.CollectionInput{
		Name:  strPtr("Shelf"),
		Color: strPtr("#ff0000"),
	})
	if err != nil {
		t.Fatalf("Failed to create collection: %v", err)
	}

	updated, err := service.Update(collection.ID, models.CollectionInput{
		Description: strPtr("Warm reads"),
	})
	if err != nil {
		t.Fatalf("Failed to update collection: %v", err)
	}
	if updated.Name != "Shelf" || updated.Color == nil || *updated.Color != "#ff0000" {
		t.Errorf("Merge lost fields: %+v", updated)
	}
	if updated.Description == nil || *updated.Description != "Warm reads" {
		t.Errorf("Description not set: %v", updated.Description)
	}
}
