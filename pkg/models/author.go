package models

// Author roles a book credit can carry.
const (
	RoleAuthor      = "author"
	RoleEditor      = "editor"
	RoleTranslator  = "translator"
	RoleIllustrator = "illustrator"
)

type Author struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Biography   *string `json:"biography"`
	BirthDate   *string `json:"birth_date"`
	DeathDate   *string `json:"death_date"`
	Nationality *string `json:"nationality"`
	PhotoURL    *string `json:"photo_url"`
	Website     *string `json:"website"`
	Notes       *string `json:"notes"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

type AuthorInput struct {
	Name        *string `json:"name"`
	Biography   *string `json:"biography"`
	BirthDate   *string `json:"birth_date"`
	DeathDate   *string `json:"death_date"`
	Nationality *string `json:"nationality"`
	PhotoURL    *string `json:"photo_url"`
	Website     *string `json:"website"`
	Notes       *string `json:"notes"`
}
