package models

// ReadingSession is one reading of a book. A session with a NULL finish_date
// is "open"; a book has at most one open session at a time.
type ReadingSession struct {
	ID         int64   `json:"id"`
	BookID     int64   `json:"book_id"`
	StartDate  string  `json:"start_date"`
	FinishDate *string `json:"finish_date"`
	Rating     *int    `json:"rating"`
	Review     *string `json:"review"`
	CreatedAt  string  `json:"created_at"`
	BookTitle  string  `json:"book_title"`
}

type FinishReadingInput struct {
	FinishDate *string `json:"finish_date"`
	Rating     *int    `json:"rating"`
	Review     *string `json:"review"`
}

// MonthCount is one point of the monthly completion trend.
type MonthCount struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}

type ReadingStats struct {
	TotalSessions    int          `json:"total_sessions"`
	FinishedSessions int          `json:"finished_sessions"`
	AvgRating        *float64     `json:"avg_rating"`
	ByMonth          []MonthCount `json:"by_month"`
}
