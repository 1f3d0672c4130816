package models

// User is a borrower, not a login principal. trust_level ranges 1-5 and only
// informs the librarian; it gates nothing.
type User struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	Email      *string `json:"email"`
	Phone      *string `json:"phone"`
	Address    *string `json:"address"`
	Notes      *string `json:"notes"`
	TrustLevel int     `json:"trust_level"`
	Active     int     `json:"active"`
	CreatedAt  string  `json:"created_at"`
	UpdatedAt  string  `json:"updated_at"`
}

type UserInput struct {
	Name       *string `json:"name"`
	Email      *string `json:"email"`
	Phone      *string `json:"phone"`
	Address    *string `json:"address"`
	Notes      *string `json:"notes"`
	TrustLevel *int    `json:"trust_level"`
	Active     *Flag   `json:"active"`
}
