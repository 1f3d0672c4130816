package books

import "biblioteca/pkg/models"

// inputFromDetail rebuilds a full input payload from the stored record so a
// partial update can be merged over it before revalidation.
func inputFromDetail(d *models.BookDetail) models.BookInput {
	favorite := models.Flag(d.Favorite)
	loanable := models.Flag(d.Loanable)
	labelPrinted := models.Flag(d.LabelPrinted)
	title := d.Title
	language := d.Language
	readStatus := d.ReadStatus

	authors := make([]models.BookAuthorInput, len(d.BookAuthors))
	for i, a := range d.BookAuthors {
		role := a.Role
		order := a.AuthorOrder
		authors[i] = models.BookAuthorInput{
			ID:          a.AuthorID,
			Role:        &role,
			AuthorOrder: &order,
		}
	}

	return models.BookInput{
		ISBN:              d.ISBN,
		Title:             &title,
		Subtitle:          d.Subtitle,
		Publisher:         d.Publisher,
		PublicationDate:   d.PublicationDate,
		Edition:           d.Edition,
		Language:          &language,
		Pages:             d.Pages,
		Format:            d.Format,
		Genre:             d.Genre,
		Tags:              d.Tags,
		Description:       d.Description,
		CoverURL:          d.CoverURL,
		CDU:               d.CDU,
		Signature:         d.Signature,
		Location:          d.Location,
		Condition:         d.Condition,
		AcquisitionDate:   d.AcquisitionDate,
		AcquisitionSource: d.AcquisitionSource,
		PurchasePrice:     d.PurchasePrice,
		CurrentValue:      d.CurrentValue,
		Notes:             d.Notes,
		Rating:            d.Rating,
		ReadStatus:        &readStatus,
		Favorite:          &favorite,
		Loanable:          &loanable,
		LabelPrinted:      &labelPrinted,
		Authors:           authors,
	}
}

// overlayInput applies every provided field of in over base. A nil Authors
// slice keeps the stored links; an explicit empty list clears them.
func overlayInput(base, in models.BookInput) models.BookInput {
	if in.ISBN != nil {
		base.ISBN = in.ISBN
	}
	if in.Title != nil {
		base.Title = in.Title
	}
	if in.Subtitle != nil {
		base.Subtitle = in.Subtitle
	}
	if in.Publisher != nil {
		base.Publisher = in.Publisher
	}
	if in.PublicationDate != nil {
		base.PublicationDate = in.PublicationDate
	}
	if in.Edition != nil {
		base.Edition = in.Edition
	}
	if in.Language != nil {
		base.Language = in.Language
	}
	if in.Pages != nil {
		base.Pages = in.Pages
	}
	if in.Format != nil {
		base.Format = in.Format
	}
	if in.Genre != nil {
		base.Genre = in.Genre
	}
	if in.Tags != nil {
		base.Tags = in.Tags
	}
	if in.Description != nil {
		base.Description = in.Description
	}
	if in.CoverURL != nil {
		base.CoverURL = in.CoverURL
	}
	if in.CDU != nil {
		base.CDU = in.CDU
	}
	if in.Signature != nil {
		base.Signature = in.Signature
	}
	if in.Location != nil {
		base.Location = in.Location
	}
	if in.Condition != nil {
		base.Condition = in.Condition
	}
	if in.AcquisitionDate != nil {
		base.AcquisitionDate = in.AcquisitionDate
	}
	if in.AcquisitionSource != nil {
		base.AcquisitionSource = in.AcquisitionSource
	}
	if in.PurchasePrice != nil {
		base.PurchasePrice = in.PurchasePrice
	}
	if in.CurrentValue != nil {
		base.CurrentValue = in.CurrentValue
	}
	if in.Notes != nil {
		base.Notes = in.Notes
	}
	if in.Rating != nil {
		base.Rating = in.Rating
	}
	if in.ReadStatus != nil {
		base.ReadStatus = in.ReadStatus
	}
	if in.Favorite != nil {
		base.Favorite = in.Favorite
	}
	if in.Loanable != nil {
		base.Loanable = in.Loanable
	}
	if in.LabelPrinted != nil {
		base.LabelPrinted = in.LabelPrinted
	}
	if in.Authors != nil {
		base.Authors = in.Authors
	}
	return base
}
