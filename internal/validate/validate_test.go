package validate_test

import (
	"strings"
	"testing"

	"biblioteca/internal/validate"
	"biblioteca/pkg/models"
)

func strPtr(v string) *string  { return &v }
func intPtr(v int) *int        { return &v }
func flagPtr(v int) *models.Flag { f := models.Flag(v); return &f }

func TestBookDefaults(t *testing.T) {
	book, links, err := validate.Book(models.BookInput{
		Title: strPtr("  El Quijote  "),
	})
	if err != nil {
		t.Fatalf("Validation failed: %v", err)
	}

	if book.Title != "El Quijote" {
		t.Errorf("Title not trimmed: %q", book.Title)
	}
	if book.Language != "es" {
		t.Errorf("Expected default language es, got %q", book.Language)
	}
	if book.ReadStatus != models.ReadStatusUnread {
		t.Errorf("Expected default read status unread, got %q", book.ReadStatus)
	}
	if book.Loanable != 1 {
		t.Errorf("Expected loanable default 1, got %d", book.Loanable)
	}
	if book.Favorite != 0 {
		t.Errorf("Expected favorite default 0, got %d", book.Favorite)
	}
	if len(links) != 0 {
		t.Errorf("Expected no author links, got %d", len(links))
	}
}

func TestBookEmptyOptionalBecomesNull(t *testing.T) {
	book, _, err := validate.Book(models.BookInput{
		Title:    strPtr("Title"),
		Subtitle: strPtr("   "),
		Genre:    strPtr(""),
	})
	if err != nil {
		t.Fatalf("Validation failed: %v", err)
	}
	if book.Subtitle != nil {
		t.Errorf("Blank subtitle should normalize to nil, got %q", *book.Subtitle)
	}
	if book.Genre != nil {
		t.Errorf("Empty genre should normalize to nil, got %q", *book.Genre)
	}
}

func TestBookCollectsAllIssues(t *testing.T) {
	_, _, err := validate.Book(models.BookInput{
		PublicationDate: strPtr("not-a-date"),
		CoverURL:        strPtr("ftp://example.com/a.jpg"),
		Rating:          intPtr(9),
	})
	if err == nil {
		t.Fatal("Expected validation error")
	}

	var vErr *validate.Error
	if !asValidationError(err, &vErr) {
		t.Fatalf("Expected *validate.Error, got %T", err)
	}
	// title + date + url + rating
	if len(vErr.Issues) != 4 {
		t.Fatalf("Expected 4 issues, got %d: %v", len(vErr.Issues), vErr.Issues)
	}
	if !strings.Contains(err.Error(), ", ") {
		t.Errorf("Expected comma-joined message, got %q", err.Error())
	}
}

func TestBookAcceptsCoverRef(t *testing.T) {
	book, _, err := validate.Book(models.BookInput{
		Title:    strPtr("Title"),
		CoverURL: strPtr(validate.CoverRefPrefix + "abc123.jpg"),
	})
	if err != nil {
		t.Fatalf("Validation failed: %v", err)
	}
	if book.CoverURL == nil || !strings.HasPrefix(*book.CoverURL, validate.CoverRefPrefix) {
		t.Error("Cover reference should be accepted verbatim")
	}
}

func TestBookAuthorLinkDefaults(t *testing.T) {
	_, links, err := validate.Book(models.BookInput{
		Title: strPtr("Title"),
		Authors: []models.BookAuthorInput{
			{ID: 5},
			{ID: 7, Role: strPtr("translator"), AuthorOrder: intPtr(10)},
		},
	})
	if err != nil {
		t.Fatalf("Validation failed: %v", err)
	}
	if len(links) != 2 {
		t.Fatalf("Expected 2 links, got %d", len(links))
	}
	if links[0].AuthorOrder != 1 || links[0].Role != models.RoleAuthor {
		t.Errorf("Expected default order 1 role author, got %d %q", links[0].AuthorOrder, links[0].Role)
	}
	if links[1].AuthorOrder != 10 || links[1].Role != "translator" {
		t.Errorf("Explicit order/role not kept: %d %q", links[1].AuthorOrder, links[1].Role)
	}
}

func TestBookRejectsInvalidAuthorRole(t *testing.T) {
	_, _, err := validate.Book(models.BookInput{
		Title:   strPtr("Title"),
		Authors: []models.BookAuthorInput{{ID: 1, Role: strPtr("ghostwriter")}},
	})
	if err == nil {
		t.Fatal("Expected validation error for invalid role")
	}
}

func TestBookFlagAcceptsBoolAndNumber(t *testing.T) {
	book, _, err := validate.Book(models.BookInput{
		Title:    strPtr("Title"),
		Favorite: flagPtr(1),
		Loanable: flagPtr(0),
	})
	if err != nil {
		t.Fatalf("Validation failed: %v", err)
	}
	if book.Favorite != 1 || book.Loanable != 0 {
		t.Errorf("Flags not applied: favorite=%d loanable=%d", book.Favorite, book.Loanable)
	}
}

func TestUserDefaults(t *testing.T) {
	user, err := validate.User(models.UserInput{Name: strPtr("Ana")})
	if err != nil {
		t.Fatalf("Validation failed: %v", err)
	}
	if user.TrustLevel != 3 {
		t.Errorf("Expected trust level default 3, got %d", user.TrustLevel)
	}
	if user.Active != 1 {
		t.Errorf("Expected active default 1, got %d", user.Active)
	}
}

func TestUserRejectsBadEmail(t *testing.T) {
	_, err := validate.User(models.UserInput{
		Name:  strPtr("Ana"),
		Email: strPtr("not-an-email"),
	})
	if err == nil {
		t.Fatal("Expected validation error for bad email")
	}
}

func TestLoanRequiresDates(t *testing.T) {
	id := int64(1)
	_, err := validate.Loan(models.LoanInput{BookID: &id, UserID: &id})
	if err == nil {
		t.Fatal("Expected validation error for missing dates")
	}
}

func TestCollectionRequiresName(t *testing.T) {
	_, err := validate.Collection(models.CollectionInput{Name: strPtr("  ")})
	if err == nil {
		t.Fatal("Expected validation error for blank name")
	}
	if !strings.Contains(err.Error(), "collection name is required") {
		t.Errorf("Unexpected message: %q", err.Error())
	}
}

func asValidationError(err error, target **validate.Error) bool {
	v, ok := err.(*validate.Error)
	if ok {
		*target = v
	}
	return ok
}
