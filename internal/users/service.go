// Package users manages borrowers. A borrower with live loans cannot be
// deleted; that is the one invariant this package owns.
package users

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

const userColumns = `id, name, email, phone, address, notes, trust_level, active, created_at, updated_at`

func scanUser(scanner interface{ Scan(...interface{}) error }) (models.User, error) {
	var u models.User
	err := scanner.Scan(
		&u.ID, &u.Name, &u.Email, &u.Phone, &u.Address, &u.Notes,
		&u.TrustLevel, &u.Active, &u.CreatedAt, &u.UpdatedAt,
	)
	return u, err
}

func (s *Service) GetAll() ([]models.User, error) {
	rows, err := s.db.Query(fmt.Sprintf(
		`SELECT %s FROM users ORDER BY name COLLATE NOCASE`, userColumns))
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (s *Service) GetByID(id int64) (*models.User, error) {
	u, err := scanUser(s.db.QueryRow(fmt.Sprintf(
		`SELECT %s FROM users WHERE id = ?`, userColumns), id))
	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("User")
	}
	if err != nil {
		return nil, fmt.Errorf("get user %d: %w", id, err)
	}
	return &u, nil
}

func (s *Service) Create(in models.UserInput) (*models.User, error) {
	data, err := validate.User(in)
	if err != nil {
		return nil, err
	}

	res, err := s.db.Exec(`
        INSERT INTO users (name, email, phone, address, notes, trust_level, active)
        VALUES (?, ?, ?, ?, ?, ?, ?)`,
		data.Name, data.Email, data.Phone, data.Address, data.Notes, data.TrustLevel, data.Active,
	)
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return s.GetByID(id)
}

func (s *Service) Update(id int64, in models.UserInput) (*models.User, error) {
	existing, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	data, err := validate.User(mergeInput(existing, in))
	if err != nil {
		return nil, err
	}

	if _, err := s.db.Exec(`
        UPDATE users
        SET name=?, email=?, phone=?, address=?, notes=?, trust_level=?, active=?,
            updated_at=CURRENT_TIMESTAMP
        WHERE id=?`,
		data.Name, data.Email, data.Phone, data.Address, data.Notes,
		data.TrustLevel, data.Active, id,
	); err != nil {
		return nil, fmt.Errorf("update user %d: %w", id, err)
	}
	return s.GetByID(id)
}

// Delete refuses while the user has any active or overdue loan. Returned
// loans do not block.
func (s *Service) Delete(id int64) error {
	if _, err := s.GetByID(id); err != nil {
		return err
	}

	var liveLoans int
	if err := s.db.QueryRow(
		`SELECT COUNT(*) FROM loans WHERE user_id = ? AND status IN ('active', 'overdue')`, id,
	).Scan(&liveLoans); err != nil {
		return fmt.Errorf("check user loans: %w", err)
	}
	if liveLoans > 0 {
		return apperr.Conflict("cannot delete a user with active loans")
	}

	if _, err := s.db.Exec(`DELETE FROM users WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete user %d: %w", id, err)
	}
	return nil
}

// Search matches name, email or phone, capped at 20 rows.
func (s *Service) Search(query string) ([]models.User, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return []models.User{}, nil
	}
	like := "%" + q + "%"

	rows, err := s.db.Query(fmt.Sprintf(`
        SELECT %s FROM users
        WHERE name LIKE ? OR email LIKE ? OR phone LIKE ?
        ORDER BY name COLLATE NOCASE
        LIMIT 20`, userColumns), like, like, like)
	if err != nil {
		return nil, fmt.Errorf("search users: %w", err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func mergeInput(existing *models.User, in models.UserInput) models.UserInput {
	name := existing.Name
	trustLevel := existing.TrustLevel
	active := models.Flag(existing.Active)
	merged := models.UserInput{
		Name:       &name,
		Email:      existing.Email,
		Phone:      existing.Phone,
		Address:    existing.Address,
		Notes:      existing.Notes,
		TrustLevel: &trustLevel,
		Active:     &active,
	}
	if in.Name != nil {
		merged.Name = in.Name
	}
	if in.Email != nil {
		merged.Email = in.Email
	}
	if in.Phone != nil {
		merged.Phone = in.Phone
	}
	if in.Address != nil {
		merged.Address = in.Address
	}
	if in.Notes != nil {
		merged.Notes = in.Notes
	}
	if in.TrustLevel != nil {
		merged.TrustLevel = in.TrustLevel
	}
	if in.Active != nil {
		merged.Active = in.Active
	}
	return merged
}
