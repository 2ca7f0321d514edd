package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moodmarkapp/moodmark-sync/internal/backup"
	"github.com/moodmarkapp/moodmark-sync/internal/domain"
	"github.com/moodmarkapp/moodmark-sync/internal/service"
)

func TestImportMergeSkipsDuplicates(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	existing, err := env.library.CreateBook(ctx, domain.NewBook("Dune", "Frank Herbert"))
	require.NoError(t, err)

	candidates := []*domain.Book{
		domain.NewBook("DUNE", "frank herbert"),        // natural key collision
		domain.NewBook("Hyperion", "Dan Simmons"),      // new
		domain.NewBook("The Dispossessed", "Le Guin"),  // new
	}
	candidates = append(candidates, &domain.Book{
		Syncable: domain.Syncable{ID: existing.ID},
		Title:    "Different Title",
		Author:   "Different Author",
	}) // ID collision

	result, err := env.importc.ImportBooks(ctx, candidates, service.PolicyMerge)
	require.NoError(t, err)
	assert.Equal(t, 2, result.BooksImported)

	books, err := env.library.ListBooks(ctx)
	require.NoError(t, err)
	assert.Len(t, books, 3)

	// Merged candidates got fresh identity through the creation path.
	for _, b := range books {
		assert.NotEmpty(t, b.ID)
		assert.False(t, b.CreatedAt.IsZero())
	}
}

func TestImportMergeIntoEmptyLibrary(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	result, err := env.importc.ImportBooks(ctx, []*domain.Book{
		domain.NewBook("Hyperion", "Dan Simmons"),
		domain.NewBook("Ilium", "Dan Simmons"),
	}, service.PolicyMerge)
	require.NoError(t, err)
	assert.Equal(t, 2, result.BooksImported)
}

func TestImportReplaceIsDestructive(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	old, err := env.library.CreateBook(ctx, domain.NewBook("Old Book", "Old Author"))
	require.NoError(t, err)
	_, err = env.library.GetOrCreateCollage(ctx, old.ID)
	require.NoError(t, err)

	candidate := domain.NewBook("New Book", "New Author")
	candidate.ID = "book-restored"
	candidate.CreatedAt = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	result, err := env.importc.ImportBooks(ctx, []*domain.Book{candidate}, service.PolicyReplace)
	require.NoError(t, err)
	assert.Equal(t, 1, result.BooksImported)

	books, err := env.library.ListBooks(ctx)
	require.NoError(t, err)
	require.Len(t, books, 1)

	// Candidate identity and CreatedAt survive; UpdatedAt is fresh.
	got := books[0]
	assert.Equal(t, "book-restored", got.ID)
	assert.Equal(t, candidate.CreatedAt, got.CreatedAt)
	assert.True(t, got.UpdatedAt.After(candidate.CreatedAt))

	// The old library is gone, collages included.
	collages, err := env.store.ListCollages(ctx)
	require.NoError(t, err)
	assert.Empty(t, collages)
}

func TestImportReplaceGeneratesMissingIdentity(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	result, err := env.importc.ImportBooks(ctx, []*domain.Book{
		domain.NewBook("Hyperion", "Dan Simmons"),
	}, service.PolicyReplace)
	require.NoError(t, err)
	assert.Equal(t, 1, result.BooksImported)

	books, err := env.library.ListBooks(ctx)
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.NotEmpty(t, books[0].ID)
	assert.False(t, books[0].CreatedAt.IsZero())
}

func TestImportBackupReplaceRestoresCollages(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	book := domain.NewBook("Dune", "Frank Herbert")
	book.ID = "book-orig"
	book.InitTimestamps()

	collage := domain.NewCollage("book-orig")
	collage.ID = "col-orig"
	collage.InitTimestamps()
	collage.CanvasJSON = `{"objects":[1]}`

	doc := backup.Export([]*domain.Book{book}, []*domain.Collage{collage})

	result, err := env.importc.ImportBackup(ctx, doc, service.PolicyReplace)
	require.NoError(t, err)
	assert.Equal(t, 1, result.BooksImported)
	assert.Equal(t, 1, result.CollagesImported)

	// Collages keep their original IDs so the book linkage survives.
	restored, err := env.store.GetCollageByBook(ctx, "book-orig")
	require.NoError(t, err)
	assert.Equal(t, "col-orig", restored.ID)
	assert.Equal(t, `{"objects":[1]}`, restored.CanvasJSON)
}

func TestImportBackupMergeSkipsCollages(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	book := domain.NewBook("Dune", "Frank Herbert")
	book.ID = "book-orig"
	book.InitTimestamps()
	collage := domain.NewCollage("book-orig")
	collage.ID = "col-orig"
	collage.InitTimestamps()

	doc := backup.Export([]*domain.Book{book}, []*domain.Collage{collage})

	result, err := env.importc.ImportBackup(ctx, doc, service.PolicyMerge)
	require.NoError(t, err)
	assert.Equal(t, 1, result.BooksImported)
	assert.Equal(t, 0, result.CollagesImported)

	// Merge re-keys books, so restoring collages would orphan them.
	collages, err := env.store.ListCollages(ctx)
	require.NoError(t, err)
	assert.Empty(t, collages)
}

func TestImportUnknownPolicy(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.importc.ImportBooks(context.Background(), nil, service.ImportPolicy("upsert"))
	assert.Error(t, err)
}
