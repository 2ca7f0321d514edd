package backup

import (
	"strings"
	"testing"

	json "github.com/go-json-experiment/json"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moodmarkapp/moodmark-sync/internal/domain"
	apperrors "github.com/moodmarkapp/moodmark-sync/internal/errors"
	"github.com/moodmarkapp/moodmark-sync/internal/validation"
)

func strPtr(s string) *string { return &s }

func sampleLibrary() ([]*domain.Book, []*domain.Collage) {
	book := domain.NewBook("Gideon the Ninth", "Tamsyn Muir")
	book.ID = "book-1"
	book.InitTimestamps()
	book.Notes = "Bones, swords, necromancy."

	collage := domain.NewCollage("book-1")
	collage.ID = "col-1"
	collage.InitTimestamps()
	collage.CanvasJSON = `{"objects":[]}`
	collage.Thumbnail = strPtr("data:image/png;base64,huge")

	return []*domain.Book{book}, []*domain.Collage{collage}
}

func TestExportStripsThumbnails(t *testing.T) {
	books, collages := sampleLibrary()

	doc := Export(books, collages)
	require.Len(t, doc.Data.Collages, 1)
	assert.Nil(t, doc.Data.Collages[0].Thumbnail)
	assert.Equal(t, `{"objects":[]}`, doc.Data.Collages[0].CanvasJSON)

	// The caller's collage is untouched.
	assert.NotNil(t, collages[0].Thumbnail)
}

func TestExportParseRoundTrip(t *testing.T) {
	books, collages := sampleLibrary()

	doc := Export(books, collages)
	data, err := doc.Encode()
	require.NoError(t, err)

	parsed, err := Parse(data, validation.New())
	require.NoError(t, err)
	assert.Equal(t, Version, parsed.Version)
	assert.Equal(t, "moodmark", parsed.App)
	require.Len(t, parsed.Data.Books, 1)
	assert.Equal(t, "Gideon the Ninth", parsed.Data.Books[0].Title)
	require.Len(t, parsed.Data.Collages, 1)
	assert.Equal(t, "book-1", parsed.Data.Collages[0].BookID)
}

func TestParseRejectsMalformedJSON(t *testing.T) {
	_, err := Parse([]byte("{not json"), validation.New())
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestParseRejectsWrongApp(t *testing.T) {
	doc := map[string]any{
		"version":    "1.0",
		"exportedAt": "2026-08-01T00:00:00Z",
		"app":        "someotherapp",
		"data":       map[string]any{"books": []any{}, "collages": []any{}},
	}
	data, err := json.Marshal(doc)
	require.NoError(t, err)

	_, parseErr := Parse(data, validation.New())
	require.ErrorIs(t, parseErr, apperrors.ErrValidation)
	assert.Contains(t, parseErr.Error(), "someotherapp")
}

func TestParseRejectsMissingEnvelopeFields(t *testing.T) {
	_, err := Parse([]byte(`{"data":{"books":[],"collages":[]}}`), validation.New())
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestExportCSV(t *testing.T) {
	book := domain.NewBook("The Hobbit, or There and Back Again", "J.R.R. Tolkien")
	book.ID = "book-1"
	book.InitTimestamps()
	book.OverallRating = 5
	book.Ratings.CozinessLevel = 95
	book.Notes = "He said \"good morning\".\nTwice."
	book.Prompts.Scents = []string{"pipe smoke", "rain"}
	book.Prompts.Season = strPtr("autumn")

	out := string(ExportCSV([]*domain.Book{book}))
	lines := strings.SplitN(out, "\n", 2)
	require.Len(t, lines, 2)
	assert.Equal(t, strings.Join(csvHeaders, ","), lines[0])

	assert.Contains(t, out, `"The Hobbit, or There and Back Again"`)
	assert.Contains(t, out, `"He said ""good morning"".`)
	assert.Contains(t, out, `"pipe smoke, rain"`)
	assert.Contains(t, out, "autumn")
}

func TestExportCSVEmptyLibrary(t *testing.T) {
	out := string(ExportCSV(nil))
	assert.Equal(t, strings.Join(csvHeaders, ","), strings.TrimSuffix(out, "\n"))
}
