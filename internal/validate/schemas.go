package validate

import (
	"strings"

	"biblioteca/pkg/models"
)

// Author normalizes an author payload.
func Author(in models.AuthorInput) (models.Author, error) {
	c := &collector{}

	out := models.Author{
		Name:        c.required("name", in.Name, "name is required"),
		Biography:   trimmed(in.Biography),
		BirthDate:   c.date("birth_date", in.BirthDate),
		DeathDate:   c.date("death_date", in.DeathDate),
		Nationality: trimmed(in.Nationality),
		PhotoURL:    c.url("photo_url", in.PhotoURL, false),
		Website:     c.url("website", in.Website, false),
		Notes:       trimmed(in.Notes),
	}

	if err := c.err(); err != nil {
		return models.Author{}, err
	}
	return out, nil
}

// Book normalizes a book payload and its author links. Links get a 1-based
// default order and the "author" role when unspecified.
func Book(in models.BookInput) (models.Book, []models.BookAuthor, error) {
	c := &collector{}

	out := models.Book{
		ISBN:              trimmed(in.ISBN),
		Title:             c.required("title", in.Title, "title is required"),
		Subtitle:          trimmed(in.Subtitle),
		Publisher:         trimmed(in.Publisher),
		PublicationDate:   c.date("publication_date", in.PublicationDate),
		Edition:           trimmed(in.Edition),
		Pages:             c.positiveInt("pages", in.Pages),
		Genre:             trimmed(in.Genre),
		Tags:              trimmed(in.Tags),
		Description:       trimmed(in.Description),
		CoverURL:          c.url("cover_url", in.CoverURL, true),
		CDU:               trimmed(in.CDU),
		Signature:         trimmed(in.Signature),
		Location:          trimmed(in.Location),
		AcquisitionDate:   c.date("acquisition_date", in.AcquisitionDate),
		PurchasePrice:     c.nonNegative("purchase_price", in.PurchasePrice),
		CurrentValue:      c.nonNegative("current_value", in.CurrentValue),
		Notes:             trimmed(in.Notes),
		Rating:            c.boundedInt("rating", in.Rating, 1, 5),
		Favorite:          flag(in.Favorite, 0),
		Loanable:          flag(in.Loanable, 1),
		LabelPrinted:      flag(in.LabelPrinted, 0),
		Format:            c.oneOf("format", in.Format, "hardcover", "paperback", "ebook"),
		Condition:         c.oneOf("condition", in.Condition, "excellent", "good", "fair", "poor"),
		AcquisitionSource: c.oneOf("acquisition_source", in.AcquisitionSource, "purchase", "gift", "exchange"),
	}

	if lang := trimmed(in.Language); lang != nil {
		out.Language = *lang
	} else {
		out.Language = "es"
	}

	if rs := c.oneOf("read_status", in.ReadStatus,
		models.ReadStatusUnread, models.ReadStatusReading, models.ReadStatusCompleted); rs != nil {
		out.ReadStatus = *rs
	} else {
		out.ReadStatus = models.ReadStatusUnread
	}

	links := make([]models.BookAuthor, 0, len(in.Authors))
	for i, a := range in.Authors {
		if a.ID <= 0 {
			c.add("authors", "invalid author id")
			continue
		}
		link := models.BookAuthor{
			AuthorID:    a.ID,
			AuthorOrder: i + 1,
			Role:        models.RoleAuthor,
		}
		if a.AuthorOrder != nil {
			if *a.AuthorOrder < 1 {
				c.add("authors", "invalid author_order")
			} else {
				link.AuthorOrder = *a.AuthorOrder
			}
		}
		if role := c.oneOf("role", a.Role,
			models.RoleAuthor, models.RoleEditor, models.RoleTranslator, models.RoleIllustrator); role != nil {
			link.Role = *role
		}
		links = append(links, link)
	}

	if err := c.err(); err != nil {
		return models.Book{}, nil, err
	}
	return out, links, nil
}

// User normalizes a borrower payload.
func User(in models.UserInput) (models.User, error) {
	c := &collector{}

	out := models.User{
		Name:       c.required("name", in.Name, "name is required"),
		Phone:      trimmed(in.Phone),
		Address:    trimmed(in.Address),
		Notes:      trimmed(in.Notes),
		TrustLevel: 3,
		Active:     flag(in.Active, 1),
	}

	if email := trimmed(in.Email); email != nil {
		if !emailRe.MatchString(*email) {
			c.add("email", "invalid email")
		} else {
			out.Email = email
		}
	}

	if tl := c.boundedInt("trust_level", in.TrustLevel, 1, 5); tl != nil {
		out.TrustLevel = *tl
	}

	if err := c.err(); err != nil {
		return models.User{}, err
	}
	return out, nil
}

// Loan normalizes a loan-creation payload.
func Loan(in models.LoanInput) (models.Loan, error) {
	c := &collector{}

	out := models.Loan{
		LoanDate:        c.requiredDate("loan_date", in.LoanDate, "loan_date is required"),
		DueDate:         c.requiredDate("due_date", in.DueDate, "due_date is required"),
		ConditionOnLoan: c.oneOf("condition_on_loan", in.ConditionOnLoan, "excellent", "good", "fair", "poor"),
		Notes:           trimmed(in.Notes),
	}

	if in.BookID == nil || *in.BookID <= 0 {
		c.add("book_id", "book_id is required")
	} else {
		out.BookID = *in.BookID
	}
	if in.UserID == nil || *in.UserID <= 0 {
		c.add("user_id", "user_id is required")
	} else {
		out.UserID = *in.UserID
	}

	if err := c.err(); err != nil {
		return models.Loan{}, err
	}
	return out, nil
}

// FinishReading normalizes the optional finish payload.
func FinishReading(in models.FinishReadingInput) (models.FinishReadingInput, error) {
	c := &collector{}

	out := models.FinishReadingInput{
		FinishDate: c.date("finish_date", in.FinishDate),
		Rating:     c.boundedInt("rating", in.Rating, 1, 5),
		Review:     trimmed(in.Review),
	}

	if err := c.err(); err != nil {
		return models.FinishReadingInput{}, err
	}
	return out, nil
}

// Collection normalizes a collection payload.
func Collection(in models.CollectionInput) (models.Collection, error) {
	name := ""
	if in.Name != nil {
		name = strings.TrimSpace(*in.Name)
	}
	if name == "" {
		return models.Collection{}, Single("name", "collection name is required")
	}
	return models.Collection{
		Name:        name,
		Description: trimmed(in.Description),
		Color:       trimmed(in.Color),
		Icon:        trimmed(in.Icon),
	}, nil
}
