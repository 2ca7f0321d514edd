package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNaturalKeyFoldsCase(t *testing.T) {
	a := NewBook("Dune", "Frank Herbert")
	b := NewBook("DUNE", "frank herbert")
	c := NewBook("Dune Messiah", "Frank Herbert")

	assert.Equal(t, a.NaturalKey(), b.NaturalKey())
	assert.NotEqual(t, a.NaturalKey(), c.NaturalKey())

	// Unicode case folding, not ASCII lowercasing.
	d := NewBook("STRASSE", "GROSS")
	e := NewBook("strasse", "gross")
	assert.Equal(t, d.NaturalKey(), e.NaturalKey())

	// Whitespace around title and author doesn't split identity.
	f := NewBook(" Dune ", "Frank Herbert")
	assert.Equal(t, a.NaturalKey(), f.NaturalKey())
}

func TestNewerThan(t *testing.T) {
	base := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	older := Syncable{UpdatedAt: base}
	newer := Syncable{UpdatedAt: base.Add(time.Second)}
	tied := Syncable{UpdatedAt: base}

	assert.True(t, newer.NewerThan(&older))
	assert.False(t, older.NewerThan(&newer))
	assert.False(t, tied.NewerThan(&older))
	assert.False(t, older.NewerThan(&tied))
}

func TestTouchAdvancesUpdatedAtOnly(t *testing.T) {
	b := NewBook("Dune", "Frank Herbert")
	b.InitTimestamps()
	created := b.CreatedAt

	time.Sleep(time.Millisecond)
	b.Touch()

	assert.Equal(t, created, b.CreatedAt)
	assert.True(t, b.UpdatedAt.After(created))
}

func TestNewBookDefaults(t *testing.T) {
	b := NewBook("Dune", "Frank Herbert")
	assert.Equal(t, DefaultRatings(), b.Ratings)
	assert.Equal(t, 0, b.OverallRating)
	assert.Nil(t, b.Prompts.Season)
}

func TestNewCollageDefaults(t *testing.T) {
	c := NewCollage("book-1")
	assert.Equal(t, "book-1", c.BookID)
	assert.Equal(t, DefaultPalette, c.ColorPalette)

	// The palette is a copy; mutating it must not touch the shared default.
	c.ColorPalette[0] = "#000000"
	assert.Equal(t, "#FDF6E3", DefaultPalette[0])
}
