package wire

import "github.com/moodmarkapp/moodmark-sync/internal/domain"

// ToBook flattens a domain book into its remote row shape, stamping the
// owning account onto the record.
func ToBook(b *domain.Book, ownerID string) Book {
	return Book{
		ID:                   b.ID,
		OwnerID:              ownerID,
		Title:                b.Title,
		Author:               b.Author,
		DateStarted:          b.DateStarted,
		DateFinished:         b.DateFinished,
		OverallRating:        b.OverallRating,
		OverallMagic:         b.Ratings.OverallMagic,
		CozinessLevel:        b.Ratings.CozinessLevel,
		MissedMyStopRisk:     b.Ratings.MissedMyStopRisk,
		RereadLikelihood:     b.Ratings.RereadLikelihood,
		Lendability:          string(b.Ratings.Lendability),
		Season:               b.Prompts.Season,
		TimeOfDay:            b.Prompts.TimeOfDay,
		Weather:              b.Prompts.Weather,
		Scents:               b.Prompts.Scents,
		SuitcaseItems:        b.Prompts.SuitcaseItems,
		RoomInHouse:          b.Prompts.RoomInHouse,
		FortuneCookieMessage: b.Prompts.FortuneCookieMessage,
		QuoteForPillow:       b.Prompts.QuoteForPillow,
		ReadingLocation:      b.Prompts.ReadingLocation,
		CoverImage:           b.CoverImage,
		Notes:                b.Notes,
		Shelf:                b.Shelf,
		CreatedAt:            b.CreatedAt,
		UpdatedAt:            b.UpdatedAt,
	}
}

// FromBook rebuilds a domain book from its remote row shape. The owner column
// is dropped: locally the whole store belongs to one account.
func FromBook(w Book) *domain.Book {
	return &domain.Book{
		Syncable: domain.Syncable{
			ID:        w.ID,
			CreatedAt: w.CreatedAt,
			UpdatedAt: w.UpdatedAt,
		},
		Title:         w.Title,
		Author:        w.Author,
		DateStarted:   w.DateStarted,
		DateFinished:  w.DateFinished,
		OverallRating: w.OverallRating,
		Ratings: domain.Ratings{
			OverallMagic:     w.OverallMagic,
			CozinessLevel:    w.CozinessLevel,
			MissedMyStopRisk: w.MissedMyStopRisk,
			RereadLikelihood: w.RereadLikelihood,
			Lendability:      domain.Lendability(w.Lendability),
		},
		Prompts: domain.Prompts{
			Season:               w.Season,
			TimeOfDay:            w.TimeOfDay,
			Weather:              w.Weather,
			Scents:               w.Scents,
			SuitcaseItems:        w.SuitcaseItems,
			RoomInHouse:          w.RoomInHouse,
			FortuneCookieMessage: w.FortuneCookieMessage,
			QuoteForPillow:       w.QuoteForPillow,
			ReadingLocation:      w.ReadingLocation,
		},
		CoverImage: w.CoverImage,
		Notes:      w.Notes,
		Shelf:      w.Shelf,
	}
}

// ToCollage flattens a domain collage into its remote row shape.
func ToCollage(c *domain.Collage, ownerID string) Collage {
	return Collage{
		ID:           c.ID,
		OwnerID:      ownerID,
		BookID:       c.BookID,
		CanvasJSON:   c.CanvasJSON,
		Thumbnail:    c.Thumbnail,
		ColorPalette: c.ColorPalette,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

// FromCollage rebuilds a domain collage from its remote row shape.
func FromCollage(w Collage) *domain.Collage {
	return &domain.Collage{
		Syncable: domain.Syncable{
			ID:        w.ID,
			CreatedAt: w.CreatedAt,
			UpdatedAt: w.UpdatedAt,
		},
		BookID:       w.BookID,
		CanvasJSON:   w.CanvasJSON,
		Thumbnail:    w.Thumbnail,
		ColorPalette: w.ColorPalette,
	}
}
