// Package reports derives dashboard statistics from the store. Everything is
// computed at read time; nothing is cached or persisted.
package reports

import (
	"database/sql"
	"fmt"

	"biblioteca/pkg/models"
)

type Service struct {
	db *sql.DB
}

func NewService(db *sql.DB) *Service {
	return &Service{db: db}
}

func (s *Service) Dashboard() (*models.DashboardMetrics, error) {
	m := &models.DashboardMetrics{}
	err := s.db.QueryRow(`
        SELECT
            (SELECT COUNT(*) FROM books),
            (SELECT COUNT(*) FROM authors),
            (SELECT COUNT(*) FROM users WHERE active = 1),
            (SELECT COUNT(*) FROM loans WHERE status IN ('active', 'overdue')),
            (SELECT COUNT(*) FROM loans WHERE status = 'overdue'),
            (SELECT COUNT(*) FROM books WHERE read_status = 'completed')`,
	).Scan(
		&m.TotalBooks, &m.TotalAuthors, &m.TotalUsers,
		&m.ActiveLoans, &m.OverdueLoans, &m.CompletedBooks,
	)
	if err != nil {
		return nil, fmt.Errorf("dashboard metrics: %w", err)
	}
	return m, nil
}

// GenreDistribution buckets books by genre, folding empty genres into a
// catch-all bucket.
func (s *Service) GenreDistribution() ([]models.GenreCount, error) {
	rows, err := s.db.Query(`
        SELECT COALESCE(NULLIF(genre, ''), 'Sin género') AS genre, COUNT(*) AS count
        FROM books
        GROUP BY COALESCE(NULLIF(genre, ''), 'Sin género')
        ORDER BY count DESC`)
	if err != nil {
		return nil, fmt.Errorf("genre distribution: %w", err)
	}
	defer rows.Close()

	genres := []models.GenreCount{}
	for rows.Next() {
		var g models.GenreCount
		if err := rows.Scan(&g.Genre, &g.Count); err != nil {
			return nil, err
		}
		genres = append(genres, g)
	}
	return genres, rows.Err()
}

// ReadingTrend returns completions per month for the most recent 12 months,
// oldest first.
func (s *Service) ReadingTrend() ([]models.MonthCount, error) {
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

	trend := []models.MonthCount{}
	for rows.Next() {
		var m models.MonthCount
		if err := rows.Scan(&m.Month, &m.Count); err != nil {
			return nil, err
		}
		trend = append(trend, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i, j := 0, len(trend)-1; i < j; i, j = i+1, j-1 {
		trend[i], trend[j] = trend[j], trend[i]
	}
	return trend, nil
}

func (s *Service) TopAuthors(limit int) ([]models.AuthorBookCount, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.Query(`
        SELECT a.id, a.name, COUNT(ba.book_id) AS book_count
        FROM authors a
        JOIN book_authors ba ON ba.author_id = a.id
        GROUP BY a.id
        ORDER BY book_count DESC, a.name COLLATE NOCASE
        LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("top authors: %w", err)
	}
	defer rows.Close()

	top := []models.AuthorBookCount{}
	for rows.Next() {
		var a models.AuthorBookCount
		if err := rows.Scan(&a.ID, &a.Name, &a.BookCount); err != nil {
			return nil, err
		}
		top = append(top, a)
	}
	return top, rows.Err()
}

func (s *Service) LoanStats() (*models.LoanStats, error) {
	stats := &models.LoanStats{}
	err := s.db.QueryRow(`
        SELECT
            COUNT(*),
            COUNT(CASE WHEN status = 'active' THEN 1 END),
            COUNT(CASE WHEN status = 'overdue' THEN 1 END),
            COUNT(CASE WHEN status = 'returned' THEN 1 END)
        FROM loans`,
	).Scan(&stats.Total, &stats.Active, &stats.Overdue, &stats.Returned)
	if err != nil {
		return nil, fmt.Errorf("loan stats: %w", err)
	}
	return stats, nil
}
