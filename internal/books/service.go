// Package books implements the catalog: filtered book queries decorated with
// derived loan state, and create/update/delete with wholesale author-link
// replacement.
package books

import (
	"database/sql"
	"fmt"
	"strings"

	"biblioteca/internal/validate"
	"biblioteca/pkg/apperr"
	"biblioteca/pkg/models"
)

// Service runs catalog operations against an injected store handle.
type Service struct {
	db *sql.DB
}

func NewService(db *sql.DB) *Service {
	return &Service{db: db}
}

const bookColumns = `b.id, b.isbn, b.title, b.subtitle, b.publisher, b.publication_date,
    b.edition, b.language, b.pages, b.format, b.genre, b.tags, b.description,
    b.cover_url, b.cdu, b.signature, b.location, b.condition, b.acquisition_date,
    b.acquisition_source, b.purchase_price, b.current_value, b.notes, b.rating,
    b.read_status, b.favorite, b.loanable, b.label_printed, b.created_at, b.updated_at`

// Derived loan-state fields are computed from loans at read time; the Loan
// table stays the single source of truth.
const derivedColumns = `
    (SELECT GROUP_CONCAT(name, ', ') FROM (
        SELECT a.name FROM book_authors ba
        JOIN authors a ON a.id = ba.author_id
        WHERE ba.book_id = b.id
        ORDER BY ba.author_order ASC, a.name COLLATE NOCASE
    )) AS authors,
    CASE WHEN EXISTS (
        SELECT 1 FROM loans l
        WHERE l.book_id = b.id AND l.status IN ('active', 'overdue')
    ) THEN 1 ELSE 0 END AS is_loaned,
    (SELECT l.status FROM loans l
     WHERE l.book_id = b.id AND l.status IN ('active', 'overdue')
     ORDER BY l.loan_date DESC, l.id DESC LIMIT 1) AS loan_status,
    (SELECT u.name FROM loans l
     JOIN users u ON u.id = l.user_id
     WHERE l.book_id = b.id AND l.status IN ('active', 'overdue')
     ORDER BY l.loan_date DESC, l.id DESC LIMIT 1) AS loaned_to`

func scanBookRow(scanner interface{ Scan(...interface{}) error }) (models.BookRow, error) {
	var b models.BookRow
	err := scanner.Scan(
		&b.ID, &b.ISBN, &b.Title, &b.Subtitle, &b.Publisher, &b.PublicationDate,
		&b.Edition, &b.Language, &b.Pages, &b.Format, &b.Genre, &b.Tags, &b.Description,
		&b.CoverURL, &b.CDU, &b.Signature, &b.Location, &b.Condition, &b.AcquisitionDate,
		&b.AcquisitionSource, &b.PurchasePrice, &b.CurrentValue, &b.Notes, &b.Rating,
		&b.ReadStatus, &b.Favorite, &b.Loanable, &b.LabelPrinted, &b.CreatedAt, &b.UpdatedAt,
		&b.Authors, &b.IsLoaned, &b.LoanStatus, &b.LoanedTo,
	)
	return b, err
}

func buildFilters(filters models.BookFilters) (string, []interface{}) {
	var where []string
	var args []interface{}

	if s := strings.TrimSpace(filters.Search); s != "" {
		where = append(where, `(b.title LIKE ? OR b.subtitle LIKE ? OR b.genre LIKE ?
            OR EXISTS (
                SELECT 1 FROM book_authors ba
                JOIN authors a ON a.id = ba.author_id
                WHERE ba.book_id = b.id AND a.name LIKE ?
            ))`)
		q := "%" + s + "%"
		args = append(args, q, q, q, q)
	}
	if filters.ReadStatus != "" {
		where = append(where, `b.read_status = ?`)
		args = append(args, filters.ReadStatus)
	}
	if filters.Genre != "" {
		where = append(where, `b.genre = ?`)
		args = append(args, filters.Genre)
	}
	if filters.Favorite != nil {
		where = append(where, `b.favorite = ?`)
		args = append(args, filters.Favorite.Int())
	}
	if filters.Loanable != nil {
		where = append(where, `b.loanable = ?`)
		args = append(args, filters.Loanable.Int())
	}
	if filters.LabelPrinted != nil {
		where = append(where, `b.label_printed = ?`)
		args = append(args, filters.LabelPrinted.Int())
	}
	if filters.CollectionID != nil {
		where = append(where, `EXISTS (
            SELECT 1 FROM book_collections bc
            WHERE bc.book_id = b.id AND bc.collection_id = ?
        )`)
		args = append(args, *filters.CollectionID)
	}

	if len(where) == 0 {
		return "", nil
	}
	return "WHERE " + strings.Join(where, " AND "), args
}

// GetAll returns the filtered list view, most recently updated first.
func (s *Service) GetAll(filters models.BookFilters) ([]models.BookRow, error) {
	whereClause, args := buildFilters(filters)
	query := fmt.Sprintf(`SELECT %s, %s FROM books b %s ORDER BY b.updated_at DESC, b.id DESC`,
		bookColumns, derivedColumns, whereClause)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	defer rows.Close()

	books := []models.BookRow{}
	for rows.Next() {
		b, err := scanBookRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan book: %w", err)
		}
		books = append(books, b)
	}
	return books, rows.Err()
}

// Search is the free-text entry point used by the UI search bar.
func (s *Service) Search(query string) ([]models.BookRow, error) {
	return s.GetAll(models.BookFilters{Search: query})
}

// GetByID returns the decorated book plus its full ordered author list.
func (s *Service) GetByID(id int64) (*models.BookDetail, error) {
	query := fmt.Sprintf(`SELECT %s, %s FROM books b WHERE b.id = ?`, bookColumns, derivedColumns)

	row, err := scanBookRow(s.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("Book")
	}
	if err != nil {
		return nil, fmt.Errorf("get book %d: %w", id, err)
	}

	authors, err := s.bookAuthors(id)
	if err != nil {
		return nil, err
	}
	return &models.BookDetail{BookRow: row, BookAuthors: authors}, nil
}

func (s *Service) bookAuthors(bookID int64) ([]models.BookAuthor, error) {
	rows, err := s.db.Query(`
        SELECT ba.author_id, ba.author_order, ba.role, a.name
        FROM book_authors ba
        JOIN authors a ON a.id = ba.author_id
        WHERE ba.book_id = ?
        ORDER BY ba.author_order ASC, a.name COLLATE NOCASE`, bookID)
	if err != nil {
		return nil, fmt.Errorf("book authors: %w", err)
	}
	defer rows.Close()

	authors := []models.BookAuthor{}
	for rows.Next() {
		var a models.BookAuthor
		if err := rows.Scan(&a.AuthorID, &a.AuthorOrder, &a.Role, &a.Name); err != nil {
			return nil, err
		}
		authors = append(authors, a)
	}
	return authors, rows.Err()
}

// replaceAuthors rewrites the author links wholesale: delete everything, then
// reinsert the provided list in order. Diffing is deliberately avoided.
func replaceAuthors(tx *sql.Tx, bookID int64, links []models.BookAuthor) error {
	if _, err := tx.Exec(`DELETE FROM book_authors WHERE book_id = ?`, bookID); err != nil {
		return fmt.Errorf("clear book authors: %w", err)
	}
	for _, link := range links {
		if _, err := tx.Exec(
			`INSERT INTO book_authors (book_id, author_id, author_order, role) VALUES (?, ?, ?, ?)`,
			bookID, link.AuthorID, link.AuthorOrder, link.Role,
		); err != nil {
			return fmt.Errorf("insert book author %d: %w", link.AuthorID, err)
		}
	}
	return nil
}

// Create validates the input and writes the book row and its author links in
// one transaction.
func (s *Service) Create(in models.BookInput) (*models.BookDetail, error) {
	book, links, err := validate.Book(in)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	res, err := tx.Exec(`
        INSERT INTO books (
            isbn, title, subtitle, publisher, publication_date, edition, language, pages,
            format, genre, tags, description, cover_url, cdu, signature, location, condition,
            acquisition_date, acquisition_source, purchase_price, current_value,
            notes, rating, read_status, favorite, loanable, label_printed
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		book.ISBN, book.Title, book.Subtitle, book.Publisher, book.PublicationDate,
		book.Edition, book.Language, book.Pages, book.Format, book.Genre, book.Tags,
		book.Description, book.CoverURL, book.CDU, book.Signature, book.Location,
		book.Condition, book.AcquisitionDate, book.AcquisitionSource, book.PurchasePrice,
		book.CurrentValue, book.Notes, book.Rating, book.ReadStatus, book.Favorite,
		book.Loanable, book.LabelPrinted,
	)
	if err != nil {
		return nil, fmt.Errorf("insert book: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	if err := replaceAuthors(tx, id, links); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return s.GetByID(id)
}

// Update merges the partial input over the stored record, revalidates, and
// rewrites the row and author links atomically.
func (s *Service) Update(id int64, in models.BookInput) (*models.BookDetail, error) {
	existing, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	merged := overlayInput(inputFromDetail(existing), in)
	book, links, err := validate.Book(merged)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`
        UPDATE books SET
            isbn=?, title=?, subtitle=?, publisher=?, publication_date=?, edition=?,
            language=?, pages=?, format=?, genre=?, tags=?, description=?, cover_url=?,
            cdu=?, signature=?, location=?, condition=?, acquisition_date=?,
            acquisition_source=?, purchase_price=?, current_value=?, notes=?, rating=?,
            read_status=?, favorite=?, loanable=?, label_printed=?,
            updated_at=CURRENT_TIMESTAMP
        WHERE id=?`,
		book.ISBN, book.Title, book.Subtitle, book.Publisher, book.PublicationDate,
		book.Edition, book.Language, book.Pages, book.Format, book.Genre, book.Tags,
		book.Description, book.CoverURL, book.CDU, book.Signature, book.Location,
		book.Condition, book.AcquisitionDate, book.AcquisitionSource, book.PurchasePrice,
		book.CurrentValue, book.Notes, book.Rating, book.ReadStatus, book.Favorite,
		book.Loanable, book.LabelPrinted, id,
	); err != nil {
		return nil, fmt.Errorf("update book %d: %w", id, err)
	}

	if err := replaceAuthors(tx, id, links); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return s.GetByID(id)
}

// Delete removes the book; author and collection links go with it via the
// foreign-key cascade.
func (s *Service) Delete(id int64) error {
	if _, err := s.GetByID(id); err != nil {
		return err
	}
	if _, err := s.db.Exec(`DELETE FROM books WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete book %d: %w", id, err)
	}
	return nil
}

// SetCover stores a cover reference produced by the cover store.
func (s *Service) SetCover(id int64, ref string) (*models.BookDetail, error) {
	return s.Update(id, models.BookInput{CoverURL: &ref})
}
