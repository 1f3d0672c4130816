// Package collections manages named book groupings and their membership join.
package collections

import (
	"database/sql"
	"fmt"

	"biblioteca/internal/validate"
	"biblioteca/pkg/apperr"
	"biblioteca/pkg/models"
)

type Service struct {
	db *sql.DB
}

func NewService(db *sql.DB) *Service {
	return &Service{db: db}
}

// GetAll lists collections with their member counts, by name.
func (s *Service) GetAll() ([]models.Collection, error) {
	rows, err := s.db.Query(`
        SELECT c.id, c.name, c.description, c.color, c.icon, c.created_at, c.updated_at,
               COUNT(bc.book_id) AS book_count
        FROM collections c
        LEFT JOIN book_collections bc ON bc.collection_id = c.id
        GROUP BY c.id
        ORDER BY c.name COLLATE NOCASE`)
	if err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}
	defer rows.Close()

	collections := []models.Collection{}
	for rows.Next() {
		var c models.Collection
		if err := rows.Scan(
			&c.ID, &c.Name, &c.Description, &c.Color, &c.Icon,
			&c.CreatedAt, &c.UpdatedAt, &c.BookCount,
		); err != nil {
			return nil, err
		}
		collections = append(collections, c)
	}
	return collections, rows.Err()
}

func (s *Service) GetByID(id int64) (*models.Collection, error) {
	var c models.Collection
	err := s.db.QueryRow(`
        SELECT id, name, description, color, icon, created_at, updated_at
        FROM collections WHERE id = ?`, id,
	).Scan(&c.ID, &c.Name, &c.Description, &c.Color, &c.Icon, &c.CreatedAt, &c.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("Collection")
	}
	if err != nil {
		return nil, fmt.Errorf("get collection %d: %w", id, err)
	}
	return &c, nil
}

func (s *Service) Create(in models.CollectionInput) (*models.Collection, error) {
	data, err := validate.Collection(in)
	if err != nil {
		return nil, err
	}

	res, err := s.db.Exec(
		`INSERT INTO collections (name, description, color, icon) VALUES (?, ?, ?, ?)`,
		data.Name, data.Description, data.Color, data.Icon,
	)
	if err != nil {
		return nil, fmt.Errorf("insert collection: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return s.GetByID(id)
}

func (s *Service) Update(id int64, in models.CollectionInput) (*models.Collection, error) {
	existing, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	merged := in
	if merged.Name == nil {
		merged.Name = &existing.Name
	}
	if merged.Description == nil {
		merged.Description = existing.Description
	}
	if merged.Color == nil {
		merged.Color = existing.Color
	}
	if merged.Icon == nil {
		merged.Icon = existing.Icon
	}

	data, err := validate.Collection(merged)
	if err != nil {
		return nil, err
	}

	if _, err := s.db.Exec(`
        UPDATE collections
        SET name=?, description=?, color=?, icon=?, updated_at=CURRENT_TIMESTAMP
        WHERE id=?`,
		data.Name, data.Description, data.Color, data.Icon, id,
	); err != nil {
		return nil, fmt.Errorf("update collection %d: %w", id, err)
	}
	return s.GetByID(id)
}

// Delete removes the collection; the membership join cascades away with it.
func (s *Service) Delete(id int64) error {
	if _, err := s.GetByID(id); err != nil {
		return err
	}
	if _, err := s.db.Exec(`DELETE FROM collections WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete collection %d: %w", id, err)
	}
	return nil
}

// AddBook links a book into the collection; adding twice is a no-op.
func (s *Service) AddBook(collectionID, bookID int64) error {
	if _, err := s.GetByID(collectionID); err != nil {
		return err
	}
	if _, err := s.db.Exec(
		`INSERT OR IGNORE INTO book_collections (book_id, collection_id) VALUES (?, ?)`,
		bookID, collectionID,
	); err != nil {
		return fmt.Errorf("add book %d to collection %d: %w", bookID, collectionID, err)
	}
	return nil
}

func (s *Service) RemoveBook(collectionID, bookID int64) error {
	if _, err := s.db.Exec(
		`DELETE FROM book_collections WHERE collection_id = ? AND book_id = ?`,
		collectionID, bookID,
	); err != nil {
		return fmt.Errorf("remove book %d from collection %d: %w", bookID, collectionID, err)
	}
	return nil
}

// Books lists the member books by title.
func (s *Service) Books(collectionID int64) ([]models.Book, error) {
	rows, err := s.db.Query(`
        SELECT b.id, b.isbn, b.title, b.subtitle, b.publisher, b.publication_date,
               b.edition, b.language, b.pages, b.format, b.genre, b.tags, b.description,
               b.cover_url, b.cdu, b.signature, b.location, b.condition, b.acquisition_date,
               b.acquisition_source, b.purchase_price, b.current_value, b.notes, b.rating,
               b.read_status, b.favorite, b.loanable, b.label_printed, b.created_at, b.updated_at
        FROM book_collections bc
        JOIN books b ON b.id = bc.book_id
        WHERE bc.collection_id = ?
        ORDER BY b.title COLLATE NOCASE`, collectionID)
	if err != nil {
		return nil, fmt.Errorf("collection books: %w", err)
	}
	defer rows.Close()

	books := []models.Book{}
	for rows.Next() {
		var b models.Book
		if err := rows.Scan(
			&b.ID, &b.ISBN, &b.Title, &b.Subtitle, &b.Publisher, &b.PublicationDate,
			&b.Edition, &b.Language, &b.Pages, &b.Format, &b.Genre, &b.Tags, &b.Description,
			&b.CoverURL, &b.CDU, &b.Signature, &b.Location, &b.Condition, &b.AcquisitionDate,
			&b.AcquisitionSource, &b.PurchasePrice, &b.CurrentValue, &b.Notes, &b.Rating,
			&b.ReadStatus, &b.Favorite, &b.Loanable, &b.LabelPrinted, &b.CreatedAt, &b.UpdatedAt,
		); err != nil {
			return nil, err
		}
		books = append(books, b)
	}
	return books, rows.Err()
}
