// Package authors manages the author master records linked to books through
// ordered, role-carrying credits.
package authors

import (
	"database/sql"
	"fmt"
	"strings"

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

const authorColumns = `id, name, biography, birth_date, death_date, nationality,
    photo_url, website, notes, created_at, updated_at`

func scanAuthor(scanner interface{ Scan(...interface{}) error }) (models.Author, error) {
	var a models.Author
	err := scanner.Scan(
		&a.ID, &a.Name, &a.Biography, &a.BirthDate, &a.DeathDate,
		&a.Nationality, &a.PhotoURL, &a.Website, &a.Notes, &a.CreatedAt, &a.UpdatedAt,
	)
	return a, err
}

func (s *Service) GetAll() ([]models.Author, error) {
	rows, err := s.db.Query(fmt.Sprintf(
		`SELECT %s FROM authors ORDER BY name COLLATE NOCASE`, authorColumns))
	if err != nil {
		return nil, fmt.Errorf("list authors: %w", err)
	}
	defer rows.Close()

	authors := []models.Author{}
	for rows.Next() {
		a, err := scanAuthor(rows)
		if err != nil {
			return nil, err
		}
		authors = append(authors, a)
	}
	return authors, rows.Err()
}

func (s *Service) GetByID(id int64) (*models.Author, error) {
	a, err := scanAuthor(s.db.QueryRow(fmt.Sprintf(
		`SELECT %s FROM authors WHERE id = ?`, authorColumns), id))
	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("Author")
	}
	if err != nil {
		return nil, fmt.Errorf("get author %d: %w", id, err)
	}
	return &a, nil
}

func (s *Service) Create(in models.AuthorInput) (*models.Author, error) {
	data, err := validate.Author(in)
	if err != nil {
		return nil, err
	}

	res, err := s.db.Exec(`
        INSERT INTO authors (name, biography, birth_date, death_date, nationality, photo_url, website, notes)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		data.Name, data.Biography, data.BirthDate, data.DeathDate,
		data.Nationality, data.PhotoURL, data.Website, data.Notes,
	)
	if err != nil {
		return nil, fmt.Errorf("insert author: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return s.GetByID(id)
}

func (s *Service) Update(id int64, in models.AuthorInput) (*models.Author, error) {
	existing, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	data, err := validate.Author(mergeInput(existing, in))
	if err != nil {
		return nil, err
	}

	if _, err := s.db.Exec(`
        UPDATE authors
        SET name=?, biography=?, birth_date=?, death_date=?, nationality=?,
            photo_url=?, website=?, notes=?, updated_at=CURRENT_TIMESTAMP
        WHERE id=?`,
		data.Name, data.Biography, data.BirthDate, data.DeathDate,
		data.Nationality, data.PhotoURL, data.Website, data.Notes, id,
	); err != nil {
		return nil, fmt.Errorf("update author %d: %w", id, err)
	}
	return s.GetByID(id)
}

func (s *Service) Delete(id int64) error {
	if _, err := s.GetByID(id); err != nil {
		return err
	}
	if _, err := s.db.Exec(`DELETE FROM authors WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete author %d: %w", id, err)
	}
	return nil
}

// Search does a LIKE match over name, nationality and biography, capped at 20
// rows for the typeahead selector.
func (s *Service) Search(query string) ([]models.Author, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return []models.Author{}, nil
	}
	like := "%" + q + "%"

	rows, err := s.db.Query(fmt.Sprintf(`
        SELECT %s FROM authors
        WHERE name LIKE ? OR nationality LIKE ? OR biography LIKE ?
        ORDER BY name COLLATE NOCASE
        LIMIT 20`, authorColumns), like, like, like)
	if err != nil {
		return nil, fmt.Errorf("search authors: %w", err)
	}
	defer rows.Close()

	authors := []models.Author{}
	for rows.Next() {
		a, err := scanAuthor(rows)
		if err != nil {
			return nil, err
		}
		authors = append(authors, a)
	}
	return authors, rows.Err()
}

// FindOrCreateByName resolves an author by exact name, creating it when
// missing. External catalog imports use this to attach author credits.
func (s *Service) FindOrCreateByName(name string) (*models.Author, error) {
	trimmedName := strings.TrimSpace(name)
	if trimmedName == "" {
		return nil, validate.Single("name", "name is required")
	}

	a, err := scanAuthor(s.db.QueryRow(fmt.Sprintf(
		`SELECT %s FROM authors WHERE name = ? LIMIT 1`, authorColumns), trimmedName))
	if err == nil {
		return &a, nil
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("find author %q: %w", trimmedName, err)
	}
	return s.Create(models.AuthorInput{Name: &trimmedName})
}

func mergeInput(existing *models.Author, in models.AuthorInput) models.AuthorInput {
	name := existing.Name
	merged := models.AuthorInput{
		Name:        &name,
		Biography:   existing.Biography,
		BirthDate:   existing.BirthDate,
		DeathDate:   existing.DeathDate,
		Nationality: existing.Nationality,
		PhotoURL:    existing.PhotoURL,
		Website:     existing.Website,
		Notes:       existing.Notes,
	}
	if in.Name != nil {
		merged.Name = in.Name
	}
	if in.Biography != nil {
		merged.Biography = in.Biography
	}
	if in.BirthDate != nil {
		merged.BirthDate = in.BirthDate
	}
	if in.DeathDate != nil {
		merged.DeathDate = in.DeathDate
	}
	if in.Nationality != nil {
		merged.Nationality = in.Nationality
	}
	if in.PhotoURL != nil {
		merged.PhotoURL = in.PhotoURL
	}
	if in.Website != nil {
		merged.Website = in.Website
	}
	if in.Notes != nil {
		merged.Notes = in.Notes
	}
	return merged
}
