// Package reading tracks reading sessions: at most one open session per book,
// with finish allowed even when nothing was ever started.
package reading

import (
	"database/sql"
	"fmt"
	"time"

	"biblioteca/internal/validate"
	"biblioteca/pkg/apperr"
	"biblioteca/pkg/models"
)

type Service struct {
	db  *sql.DB
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

// StartResult is the minimal acknowledgement the UI needs after a
// start/finish call.
type StartResult struct {
	BookID     int64  `json:"book_id"`
	ReadStatus string `json:"read_status"`
	Rating     *int   `json:"rating,omitempty"`
}

// Start marks the book as being read and opens a session unless one is
// already open. Calling it twice leaves a single open session.
func (s *Service) Start(bookID int64) (*StartResult, error) {
	var exists int64
	err := s.db.QueryRow(`SELECT id FROM books WHERE id = ?`, bookID).Scan(&exists)
	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("Book")
	}
	if err != nil {
		return nil, fmt.Errorf("check book %d: %w", bookID, err)
	}

	if _, err := s.db.Exec(
		`UPDATE books SET read_status='reading', updated_at=CURRENT_TIMESTAMP WHERE id = ?`,
		bookID,
	); err != nil {
		return nil, fmt.Errorf("mark reading: %w", err)
	}

	var openID int64
	err = s.db.QueryRow(
		`SELECT id FROM reading_history WHERE book_id = ? AND finish_date IS NULL ORDER BY id DESC LIMIT 1`,
		bookID,
	).Scan(&openID)
	if err == sql.ErrNoRows {
		if _, err := s.db.Exec(
			`INSERT INTO reading_history (book_id, start_date) VALUES (?, ?)`,
			bookID, s.today(),
		); err != nil {
			return nil, fmt.Errorf("open session: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("check open session: %w", err)
	}

	return &StartResult{BookID: bookID, ReadStatus: models.ReadStatusReading}, nil
}

// Finish completes the book. The open session is closed when there is one;
// otherwise a retroactive same-day session is recorded, so a book can be
// marked completed without ever having been started. The book keeps its prior
// rating unless a new one is supplied.
func (s *Service) Finish(bookID int64, in models.FinishReadingInput) (*StartResult, error) {
	data, err := validate.FinishReading(in)
	if err != nil {
		return nil, err
	}

	var exists int64
	err = s.db.QueryRow(`SELECT id FROM books WHERE id = ?`, bookID).Scan(&exists)
	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("Book")
	}
	if err != nil {
		return nil, fmt.Errorf("check book %d: %w", bookID, err)
	}

	finishDate := s.today()
	if data.FinishDate != nil {
		finishDate = *data.FinishDate
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`
        UPDATE books
        SET read_status='completed', rating=COALESCE(?, rating), updated_at=CURRENT_TIMESTAMP
        WHERE id=?`,
		data.Rating, bookID,
	); err != nil {
		return nil, fmt.Errorf("mark completed: %w", err)
	}

	var openID int64
	err = tx.QueryRow(
		`SELECT id FROM reading_history WHERE book_id = ? AND finish_date IS NULL ORDER BY id DESC LIMIT 1`,
		bookID,
	).Scan(&openID)
	switch {
	case err == nil:
		if _, err := tx.Exec(
			`UPDATE reading_history SET finish_date = ?, rating = ?, review = ? WHERE id = ?`,
			finishDate, data.Rating, data.Review, openID,
		); err != nil {
			return nil, fmt.Errorf("close session: %w", err)
		}
	case err == sql.ErrNoRows:
		if _, err := tx.Exec(`
            INSERT INTO reading_history (book_id, start_date, finish_date, rating, review)
            VALUES (?, ?, ?, ?, ?)`,
			bookID, finishDate, finishDate, data.Rating, data.Review,
		); err != nil {
			return nil, fmt.Errorf("insert session: %w", err)
		}
	default:
		return nil, fmt.Errorf("check open session: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &StartResult{BookID: bookID, ReadStatus: models.ReadStatusCompleted, Rating: data.Rating}, nil
}

// History lists sessions, newest first, optionally for one book.
func (s *Service) History(bookID int64) ([]models.ReadingSession, error) {
	query := `
        SELECT rh.id, rh.book_id, rh.start_date, rh.finish_date, rh.rating, rh.review,
               rh.created_at, b.title AS book_title
        FROM reading_history rh
        JOIN books b ON b.id = rh.book_id`
	args := []interface{}{}
	if bookID > 0 {
		query += ` WHERE rh.book_id = ?`
		args = append(args, bookID)
	}
	query += ` ORDER BY rh.created_at DESC, rh.id DESC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("reading history: %w", err)
	}
	defer rows.Close()

	sessions := []models.ReadingSession{}
	for rows.Next() {
		var r models.ReadingSession
		if err := rows.Scan(
			&r.ID, &r.BookID, &r.StartDate, &r.FinishDate, &r.Rating,
			&r.Review, &r.CreatedAt, &r.BookTitle,
		); err != nil {
			return nil, err
		}
		sessions = append(sessions, r)
	}
	return sessions, rows.Err()
}

// Statistics aggregates session totals, the average rating rounded to two
// decimals, and a 12-point monthly completion trend returned oldest-first.
func (s *Service) Statistics() (*models.ReadingStats, error) {
	stats := &models.ReadingStats{}
	if err := s.db.QueryRow(`
        SELECT
            COUNT(*),
            COUNT(CASE WHEN finish_date IS NOT NULL THEN 1 END),
            ROUND(AVG(rating), 2)
        FROM reading_history`,
	).Scan(&stats.TotalSessions, &stats.FinishedSessions, &stats.AvgRating); err != nil {
		return nil, fmt.Errorf("reading totals: %w", err)
	}

	rows, err := s.db.Query(`
        SELECT substr(finish_date, 1, 7) AS month, COUNT(*) AS count
        FROM reading_history
        WHERE finish_date IS NOT NULL
        GROUP BY substr(finish_date, 1, 7)
        ORDER BY month DESC
        LIMIT 12`)
	if err != nil {
		return nil, fmt.Errorf("reading trend: %w", err)
	}
	defer rows.Close()

	byMonth := []models.MonthCount{}
	for rows.Next() {
		var m models.MonthCount
		if err := rows.Scan(&m.Month, &m.Count); err != nil {
			return nil, err
		}
		byMonth = append(byMonth, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Query is newest-first so LIMIT keeps the recent 12; the chart wants
	// oldest-first.
	for i, j := 0, len(byMonth)-1; i < j; i, j = i+1, j-1 {
		byMonth[i], byMonth[j] = byMonth[j], byMonth[i]
	}
	stats.ByMonth = byMonth
	return stats, nil
}
