package wire

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moodmarkapp/moodmark-sync/internal/domain"
)

func strPtr(s string) *string { return &s }

func sampleBook() *domain.Book {
	b := &domain.Book{
		Title:         "The Long Way to a Small, Angry Planet",
		Author:        "Becky Chambers",
		DateStarted:   strPtr("2026-01-03"),
		DateFinished:  strPtr("2026-01-19"),
		OverallRating: 5,
		Ratings: domain.Ratings{
			OverallMagic:     4,
			CozinessLevel:    90,
			MissedMyStopRisk: 75,
			RereadLikelihood: 5,
			Lendability:      domain.LendFreely,
		},
		Prompts: domain.Prompts{
			Season:          strPtr("winter"),
			TimeOfDay:       strPtr("night"),
			Weather:         strPtr("snowy"),
			Scents:          []string{"cinnamon", "engine oil"},
			SuitcaseItems:   []string{"tea", "blanket"},
			RoomInHouse:     strPtr("window seat"),
			QuoteForPillow:  strPtr("All good things to all people."),
			ReadingLocation: strPtr("train"),
		},
		CoverImage: strPtr("data:image/jpeg;base64,xyz"),
		Notes:      "Found family in space.",
		Shelf:      "read",
	}
	b.ID = "book-V1StGXR8Z5jdHi6BmyT"
	b.CreatedAt = time.Date(2026, 1, 3, 9, 30, 0, 0, time.UTC)
	b.UpdatedAt = time.Date(2026, 1, 19, 22, 15, 0, 0, time.UTC)
	return b
}

func TestBookRoundTrip(t *testing.T) {
	orig := sampleBook()

	w := ToBook(orig, "owner-1")
	require.Equal(t, "owner-1", w.OwnerID)
	require.Equal(t, orig.ID, w.ID)
	assert.Equal(t, orig.Ratings.CozinessLevel, w.CozinessLevel)
	assert.Equal(t, string(orig.Ratings.Lendability), w.Lendability)

	got := FromBook(w)
	assert.Equal(t, orig, got)
}

func TestBookRoundTripMinimal(t *testing.T) {
	orig := domain.NewBook("Dune", "Frank Herbert")
	orig.ID = "book-minimal"
	orig.InitTimestamps()

	got := FromBook(ToBook(orig, "owner-1"))
	assert.Equal(t, orig, got)
}

func TestCollageRoundTrip(t *testing.T) {
	orig := domain.NewCollage("book-V1StGXR8Z5jdHi6BmyT")
	orig.ID = "col-4f90d13a42"
	orig.CanvasJSON = `{"objects":[{"type":"sticker","x":12}]}`
	orig.Thumbnail = strPtr("data:image/png;base64,abc")
	orig.CreatedAt = time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)
	orig.UpdatedAt = time.Date(2026, 2, 2, 8, 0, 0, 0, time.UTC)

	w := ToCollage(orig, "owner-7")
	require.Equal(t, "owner-7", w.OwnerID)
	require.Equal(t, orig.BookID, w.BookID)

	got := FromCollage(w)
	assert.Equal(t, orig, got)
}

func TestFromBookDropsOwner(t *testing.T) {
	w := ToBook(sampleBook(), "owner-1")
	w.OwnerID = "owner-2"

	a := FromBook(w)
	w.OwnerID = "owner-1"
	b := FromBook(w)
	assert.Equal(t, a, b)
}
