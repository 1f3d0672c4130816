package external

import (
	"fmt"

	"biblioteca/internal/authors"
	"biblioteca/internal/books"
	"biblioteca/pkg/models"
)

// Importer turns an external candidate into a cataloged book. Author names
// are resolved against the local catalog, creating missing authors.
type Importer struct {
	books   *books.Service
	authors *authors.Service
}

func NewImporter(books *books.Service, authors *authors.Service) *Importer {
	return &Importer{books: books, authors: authors}
}

func (i *Importer) Import(c Candidate) (*models.BookDetail, error) {
	links := make([]models.BookAuthorInput, 0, len(c.Authors))
	for _, name := range c.Authors {
		author, err := i.authors.FindOrCreateByName(name)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve author %q: %w", name, err)
		}
		links = append(links, models.BookAuthorInput{ID: author.ID})
	}

	lang := c.Language
	in := models.BookInput{
		Title:           &c.Title,
		Subtitle:        c.Subtitle,
		ISBN:            c.ISBN,
		Publisher:       c.Publisher,
		PublicationDate: c.PublicationDate,
		Language:        &lang,
		Pages:           c.Pages,
		Genre:           c.Genre,
		Description:     c.Description,
		CoverURL:        c.CoverURL,
		Authors:         links,
	}
	return i.books.Create(in)
}
