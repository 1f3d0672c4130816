package models

type DashboardMetrics struct {
	TotalBooks     int `json:"total_books"`
	TotalAuthors   int `json:"total_authors"`
	TotalUsers     int `json:"total_users"`
	ActiveLoans    int `json:"active_loans"`
	OverdueLoans   int `json:"overdue_loans"`
	CompletedBooks int `json:"completed_books"`
}

type GenreCount struct {
	Genre string `json:"genre"`
	Count int    `json:"count"`
}

type AuthorBookCount struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	BookCount int    `json:"book_count"`
}

type LoanStats struct {
	Total    int `json:"total"`
	Active   int `json:"active"`
	Overdue  int `json:"overdue"`
	Returned int `json:"returned"`
}
