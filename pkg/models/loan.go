package models

// Loan statuses. returned is terminal; a loan never leaves it.
const (
	LoanStatusActive   = "active"
	LoanStatusOverdue  = "overdue"
	LoanStatusReturned = "returned"
)

// Loan is one lending of a book to a user, always hydrated with the book
// title and borrower name for display.
type Loan struct {
	ID                int64   `json:"id"`
	BookID            int64   `json:"book_id"`
	UserID            int64   `json:"user_id"`
	LoanDate          string  `json:"loan_date"`
	DueDate           string  `json:"due_date"`
	ReturnDate        *string `json:"return_date"`
	Status            string  `json:"status"`
	ConditionOnLoan   *string `json:"condition_on_loan"`
	ConditionOnReturn *string `json:"condition_on_return"`
	Notes             *string `json:"notes"`
	CreatedAt         string  `json:"created_at"`
	UpdatedAt         string  `json:"updated_at"`
	BookTitle         string  `json:"book_title"`
	UserName          string  `json:"user_name"`
}

type LoanInput struct {
	BookID          *int64  `json:"book_id"`
	UserID          *int64  `json:"user_id"`
	LoanDate        *string `json:"loan_date"`
	DueDate         *string `json:"due_date"`
	ConditionOnLoan *string `json:"condition_on_loan"`
	Notes           *string `json:"notes"`
}

// ReturnInput carries the optional return details. Notes replace the stored
// ones only when provided.
type ReturnInput struct {
	ConditionOnReturn *string `json:"condition_on_return"`
	Notes             *string `json:"notes"`
}
