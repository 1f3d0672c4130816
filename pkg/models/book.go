package models

// Read statuses for a book.
const (
	ReadStatusUnread    = "unread"
	ReadStatusReading   = "reading"
	ReadStatusCompleted = "completed"
)

// Book is a catalog entry. Optional columns are pointers so NULL survives the
// round trip to SQLite and shows up as null in JSON.
type Book struct {
	ID                int64    `json:"id"`
	ISBN              *string  `json:"isbn"`
	Title             string   `json:"title"`
	Subtitle          *string  `json:"subtitle"`
	Publisher         *string  `json:"publisher"`
	PublicationDate   *string  `json:"publication_date"`
	Edition           *string  `json:"edition"`
	Language          string   `json:"language"`
	Pages             *int     `json:"pages"`
	Format            *string  `json:"format"`
	Genre             *string  `json:"genre"`
	Tags              *string  `json:"tags"`
	Description       *string  `json:"description"`
	CoverURL          *string  `json:"cover_url"`
	CDU               *string  `json:"cdu"`
	Signature         *string  `json:"signature"`
	Location          *string  `json:"location"`
	Condition         *string  `json:"condition"`
	AcquisitionDate   *string  `json:"acquisition_date"`
	AcquisitionSource *string  `json:"acquisition_source"`
	PurchasePrice     *float64 `json:"purchase_price"`
	CurrentValue      *float64 `json:"current_value"`
	Notes             *string  `json:"notes"`
	Rating            *int     `json:"rating"`
	ReadStatus        string   `json:"read_status"`
	Favorite          int      `json:"favorite"`
	Loanable          int      `json:"loanable"`
	LabelPrinted      int      `json:"label_printed"`
	CreatedAt         string   `json:"created_at"`
	UpdatedAt         string   `json:"updated_at"`
}

// BookRow is a list-view book decorated with the concatenated author names and
// the loan-state fields derived from the loans table at read time.
type BookRow struct {
	Book
	Authors    *string `json:"authors"`
	IsLoaned   int     `json:"is_loaned"`
	LoanStatus *string `json:"loan_status"`
	LoanedTo   *string `json:"loaned_to"`
}

// BookAuthor is one ordered author credit on a book.
type BookAuthor struct {
	AuthorID    int64  `json:"author_id"`
	AuthorOrder int    `json:"author_order"`
	Role        string `json:"role"`
	Name        string `json:"name"`
}

// BookDetail is the getById view: the decorated row plus the full ordered
// author list.
type BookDetail struct {
	BookRow
	BookAuthors []BookAuthor `json:"bookAuthors"`
}

// BookInput is the free-form create/update payload before validation.
type BookInput struct {
	ISBN              *string           `json:"isbn"`
	Title             *string           `json:"title"`
	Subtitle          *string           `json:"subtitle"`
	Publisher         *string           `json:"publisher"`
	PublicationDate   *string           `json:"publication_date"`
	Edition           *string           `json:"edition"`
	Language          *string           `json:"language"`
	Pages             *int              `json:"pages"`
	Format            *string           `json:"format"`
	Genre             *string           `json:"genre"`
	Tags              *string           `json:"tags"`
	Description       *string           `json:"description"`
	CoverURL          *string           `json:"cover_url"`
	CDU               *string           `json:"cdu"`
	Signature         *string           `json:"signature"`
	Location          *string           `json:"location"`
	Condition         *string           `json:"condition"`
	AcquisitionDate   *string           `json:"acquisition_date"`
	AcquisitionSource *string           `json:"acquisition_source"`
	PurchasePrice     *float64          `json:"purchase_price"`
	CurrentValue      *float64          `json:"current_value"`
	Notes             *string           `json:"notes"`
	Rating            *int              `json:"rating"`
	ReadStatus        *string           `json:"read_status"`
	Favorite          *Flag             `json:"favorite"`
	Loanable          *Flag             `json:"loanable"`
	LabelPrinted      *Flag             `json:"label_printed"`
	Authors           []BookAuthorInput `json:"authors"`
}

// BookAuthorInput links an existing author to a book, optionally with an
// explicit role and credit order.
type BookAuthorInput struct {
	ID          int64   `json:"id"`
	Role        *string `json:"role"`
	AuthorOrder *int    `json:"author_order"`
}

// BookFilters are the AND-combined getAll criteria. Pointer fields distinguish
// "not filtered" from an explicit 0/1.
type BookFilters struct {
	Search       string `form:"search"`
	ReadStatus   string `form:"read_status"`
	Genre        string `form:"genre"`
	Favorite     *Flag  `form:"favorite"`
	Loanable     *Flag  `form:"loanable"`
	LabelPrinted *Flag  `form:"label_printed"`
	CollectionID *int64 `form:"collection_id"`
}
