package store

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moodmarkapp/moodmark-sync/internal/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(t.TempDir(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func makeBook(id, title string) *domain.Book {
	b := domain.NewBook(title, "Author")
	b.ID = id
	b.InitTimestamps()
	return b
}

func makeCollage(id, bookID string) *domain.Collage {
	c := domain.NewCollage(bookID)
	c.ID = id
	c.InitTimestamps()
	return c
}

func TestBookCRUD(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	book := makeBook("book-1", "Dune")
	require.NoError(t, s.CreateBook(ctx, book))

	// Creating the same ID twice fails.
	assert.ErrorIs(t, s.CreateBook(ctx, book), ErrBookExists)

	got, err := s.GetBook(ctx, "book-1")
	require.NoError(t, err)
	assert.Equal(t, "Dune", got.Title)

	got.Notes = "reread soon"
	require.NoError(t, s.UpdateBook(ctx, got))

	got, err = s.GetBook(ctx, "book-1")
	require.NoError(t, err)
	assert.Equal(t, "reread soon", got.Notes)

	require.NoError(t, s.DeleteBook(ctx, "book-1"))
	_, err = s.GetBook(ctx, "book-1")
	assert.ErrorIs(t, err, ErrBookNotFound)

	// Idempotent delete.
	assert.NoError(t, s.DeleteBook(ctx, "book-1"))
}

func TestUpdateBookRequiresExistence(t *testing.T) {
	s := newTestStore(t)
	err := s.UpdateBook(context.Background(), makeBook("book-missing", "Ghost"))
	assert.ErrorIs(t, err, ErrBookNotFound)
}

func TestPutBookIsUnconditional(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	// Put writes whether or not the record exists; reconciliation relies on it.
	book := makeBook("book-1", "Dune")
	require.NoError(t, s.PutBook(ctx, book))

	book.Title = "Dune (revised)"
	require.NoError(t, s.PutBook(ctx, book))

	got, err := s.GetBook(ctx, "book-1")
	require.NoError(t, err)
	assert.Equal(t, "Dune (revised)", got.Title)
}

func TestListBooksSortedByUpdatedAt(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	older := makeBook("book-a", "Older")
	older.UpdatedAt = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := makeBook("book-b", "Newer")
	newer.UpdatedAt = time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, s.CreateBook(ctx, older))
	require.NoError(t, s.CreateBook(ctx, newer))

	books, err := s.ListBooks(ctx)
	require.NoError(t, err)
	require.Len(t, books, 2)
	assert.Equal(t, "Newer", books[0].Title)
	assert.Equal(t, "Older", books[1].Title)

	count, err := s.CountBooks(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestClearBooks(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateBook(ctx, makeBook("book-1", "One")))
	require.NoError(t, s.CreateBook(ctx, makeBook("book-2", "Two")))
	require.NoError(t, s.ClearBooks(ctx))

	count, err := s.CountBooks(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestCollageBookIndex(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateCollage(ctx, makeCollage("col-1", "book-1")))
	require.NoError(t, s.CreateCollage(ctx, makeCollage("col-2", "book-2")))

	byBook, err := s.ListCollagesByBook(ctx, "book-1")
	require.NoError(t, err)
	require.Len(t, byBook, 1)
	assert.Equal(t, "col-1", byBook[0].ID)

	first, err := s.GetCollageByBook(ctx, "book-1")
	require.NoError(t, err)
	assert.Equal(t, "col-1", first.ID)

	_, err = s.GetCollageByBook(ctx, "book-none")
	assert.ErrorIs(t, err, ErrCollageNotFound)

	// Deleting the collage cleans the index too.
	require.NoError(t, s.DeleteCollage(ctx, "col-1"))
	byBook, err = s.ListCollagesByBook(ctx, "book-1")
	require.NoError(t, err)
	assert.Empty(t, byBook)
}

func TestPutCollageReindexesOnBookChange(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	collage := makeCollage("col-1", "book-1")
	require.NoError(t, s.CreateCollage(ctx, collage))

	moved := *collage
	moved.BookID = "book-2"
	require.NoError(t, s.PutCollage(ctx, &moved))

	old, err := s.ListCollagesByBook(ctx, "book-1")
	require.NoError(t, err)
	assert.Empty(t, old)

	now, err := s.ListCollagesByBook(ctx, "book-2")
	require.NoError(t, err)
	require.Len(t, now, 1)
	assert.Equal(t, "col-1", now[0].ID)
}

func TestCollageImages(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	img := &domain.CollageImage{
		ID:        "img-1",
		CollageID: "col-1",
		Data:      []byte{0x89, 0x50},
		Filename:  "sticker.png",
		MIMEType:  "image/png",
	}
	require.NoError(t, s.AddCollageImage(ctx, img))
	require.NoError(t, s.AddCollageImage(ctx, &domain.CollageImage{
		ID:        "img-2",
		CollageID: "col-1",
		Data:      []byte{1},
		Filename:  "b.png",
		MIMEType:  "image/png",
	}))

	got, err := s.GetCollageImage(ctx, "img-1")
	require.NoError(t, err)
	assert.Equal(t, []byte{0x89, 0x50}, got.Data)

	images, err := s.ListCollageImages(ctx, "col-1")
	require.NoError(t, err)
	assert.Len(t, images, 2)

	require.NoError(t, s.DeleteCollageImages(ctx, "col-1"))
	images, err = s.ListCollageImages(ctx, "col-1")
	require.NoError(t, err)
	assert.Empty(t, images)

	_, err = s.GetCollageImage(ctx, "img-1")
	assert.ErrorIs(t, err, ErrImageNotFound)
}

func TestMeta(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	val, err := s.GetMeta(ctx, "cloud_seeded:owner-1")
	require.NoError(t, err)
	assert.Empty(t, val)

	require.NoError(t, s.SetMeta(ctx, "cloud_seeded:owner-1", "true"))

	val, err = s.GetMeta(ctx, "cloud_seeded:owner-1")
	require.NoError(t, err)
	assert.Equal(t, "true", val)
}

func TestStoreSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	s, err := New(dir, logger)
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, s.CreateBook(ctx, makeBook("book-1", "Dune")))
	require.NoError(t, s.Close())

	s, err = New(dir, logger)
	require.NoError(t, err)
	defer s.Close()

	got, err := s.GetBook(ctx, "book-1")
	require.NoError(t, err)
	assert.Equal(t, "Dune", got.Title)
}
