// Package loans implements the loan lifecycle: availability preconditions on
// creation, the active/overdue/returned state machine, and the scheduled
// overdue refresh.
package loans

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"biblioteca/internal/validate"
	"biblioteca/pkg/apperr"
	"biblioteca/pkg/models"
)

type Service struct {
	db *sql.DB

	// now is swappable so due-date scenarios can be tested with a fixed clock.
	now func() time.Time
}

func NewService(db *sql.DB) *Service {
	return &Service{db: db, now: time.Now}
}

// SetClock replaces the service clock. Intended for tests.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

func (s *Service) today() string {
	return s.now().Format("2006-01-02")
}

const loanColumns = `l.id, l.book_id, l.user_id, l.loan_date, l.due_date, l.return_date,
    l.status, l.condition_on_loan, l.condition_on_return, l.notes, l.created_at, l.updated_at,
    b.title AS book_title, u.name AS user_name`

const loanJoins = `FROM loans l
    JOIN books b ON b.id = l.book_id
    JOIN users u ON u.id = l.user_id`

func scanLoan(scanner interface{ Scan(...interface{}) error }) (models.Loan, error) {
	var l models.Loan
	err := scanner.Scan(
		&l.ID, &l.BookID, &l.UserID, &l.LoanDate, &l.DueDate, &l.ReturnDate,
		&l.Status, &l.ConditionOnLoan, &l.ConditionOnReturn, &l.Notes,
		&l.CreatedAt, &l.UpdatedAt, &l.BookTitle, &l.UserName,
	)
	return l, err
}

func (s *Service) list(where string, args ...interface{}) ([]models.Loan, error) {
	query := fmt.Sprintf(`SELECT %s %s %s ORDER BY l.loan_date DESC, l.created_at DESC, l.id DESC`,
		loanColumns, loanJoins, where)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list loans: %w", err)
	}
	defer rows.Close()

	loans := []models.Loan{}
	for rows.Next() {
		l, err := scanLoan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan loan: %w", err)
		}
		loans = append(loans, l)
	}
	return loans, rows.Err()
}

// GetAll lists loans, optionally restricted to one status.
func (s *Service) GetAll(status string) ([]models.Loan, error) {
	if status == "" {
		return s.list("")
	}
	return s.list(`WHERE l.status = ?`, status)
}

func (s *Service) GetActive() ([]models.Loan, error) {
	return s.GetAll(models.LoanStatusActive)
}

func (s *Service) GetOverdue() ([]models.Loan, error) {
	return s.GetAll(models.LoanStatusOverdue)
}

func (s *Service) GetByUser(userID int64) ([]models.Loan, error) {
	return s.list(`WHERE l.user_id = ?`, userID)
}

func (s *Service) GetByBook(bookID int64) ([]models.Loan, error) {
	return s.list(`WHERE l.book_id = ?`, bookID)
}

func (s *Service) GetByID(id int64) (*models.Loan, error) {
	query := fmt.Sprintf(`SELECT %s %s WHERE l.id = ?`, loanColumns, loanJoins)
	l, err := scanLoan(s.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("Loan")
	}
	if err != nil {
		return nil, fmt.Errorf("get loan %d: %w", id, err)
	}
	return &l, nil
}

// Create validates the input and inserts an active loan. The loanable and
// already-loaned precondition checks run in the same transaction as the insert
// so a concurrent caller cannot slip a second live loan onto the book.
func (s *Service) Create(in models.LoanInput) (*models.Loan, error) {
	data, err := validate.Loan(in)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var loanable int
	err = tx.QueryRow(`SELECT loanable FROM books WHERE id = ?`, data.BookID).Scan(&loanable)
	if err == sql.ErrNoRows || (err == nil && loanable != 1) {
		return nil, apperr.Conflict("book not available for loan")
	}
	if err != nil {
		return nil, fmt.Errorf("check loanable: %w", err)
	}

	var liveLoans int
	if err := tx.QueryRow(
		`SELECT COUNT(*) FROM loans WHERE book_id = ? AND status IN ('active', 'overdue')`,
		data.BookID,
	).Scan(&liveLoans); err != nil {
		return nil, fmt.Errorf("check existing loans: %w", err)
	}
	if liveLoans > 0 {
		return nil, apperr.Conflict("book already loaned")
	}

	res, err := tx.Exec(`
        INSERT INTO loans (book_id, user_id, loan_date, due_date, status, condition_on_loan, notes)
        VALUES (?, ?, ?, ?, 'active', ?, ?)`,
		data.BookID, data.UserID, data.LoanDate, data.DueDate, data.ConditionOnLoan, data.Notes,
	)
	if err != nil {
		return nil, fmt.Errorf("insert loan: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return s.GetByID(id)
}

// Return closes a loan. returned is terminal: a second call fails and changes
// nothing. New notes replace stored ones only when provided.
func (s *Service) Return(id int64, in models.ReturnInput) (*models.Loan, error) {
	loan, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if loan.Status == models.LoanStatusReturned {
		return nil, apperr.Conflict("loan already returned")
	}

	condition := validateReturnCondition(in.ConditionOnReturn)
	if _, err := s.db.Exec(`
        UPDATE loans
        SET status='returned', return_date=?, condition_on_return=?,
            notes=COALESCE(?, notes), updated_at=CURRENT_TIMESTAMP
        WHERE id=?`,
		s.today(), condition, trimToNil(in.Notes), id,
	); err != nil {
		return nil, fmt.Errorf("return loan %d: %w", id, err)
	}

	return s.GetByID(id)
}

// RefreshOverdueStatuses runs the two-pass status sweep. Pass one expires
// active loans whose due date is behind today; pass two reactivates overdue
// loans whose due date was edited back into the future. Returned loans are
// never touched. Safe to run repeatedly.
func (s *Service) RefreshOverdueStatuses() error {
	today := s.today()

	if _, err := s.db.Exec(`
        UPDATE loans SET status = 'overdue', updated_at = CURRENT_TIMESTAMP
        WHERE status = 'active' AND due_date < ?`, today,
	); err != nil {
		return fmt.Errorf("mark overdue: %w", err)
	}

	if _, err := s.db.Exec(`
        UPDATE loans SET status = 'active', updated_at = CURRENT_TIMESTAMP
        WHERE status = 'overdue' AND due_date >= ?`, today,
	); err != nil {
		return fmt.Errorf("reactivate loans: %w", err)
	}
	return nil
}

// UpdateDueDate moves a live loan's due date. The next refresh pass picks up
// any resulting status change, including overdue going back to active.
func (s *Service) UpdateDueDate(id int64, dueDate string) (*models.Loan, error) {
	if !validate.IsDate(dueDate) {
		return nil, validate.Single("due_date", "invalid date (YYYY-MM-DD)")
	}

	loan, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if loan.Status == models.LoanStatusReturned {
		return nil, apperr.Conflict("loan already returned")
	}

	if _, err := s.db.Exec(
		`UPDATE loans SET due_date = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		dueDate, id,
	); err != nil {
		return nil, fmt.Errorf("update due date %d: %w", id, err)
	}
	return s.GetByID(id)
}

// validateReturnCondition keeps only known condition values; anything else is
// stored as NULL rather than rejected, matching the lenient return flow.
func validateReturnCondition(p *string) *string {
	v := trimToNil(p)
	if v == nil {
		return nil
	}
	switch *v {
	case "excellent", "good", "fair", "poor":
		return v
	}
	return nil
}

func trimToNil(p *string) *string {
	if p == nil {
		return nil
	}
	v := strings.TrimSpace(*p)
	if v == "" {
		return nil
	}
	return &v
}
