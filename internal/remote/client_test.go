package remote_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/moodmarkapp/moodmark-sync/internal/errors"
	"github.com/moodmarkapp/moodmark-sync/internal/remote"
	"github.com/moodmarkapp/moodmark-sync/internal/remote/remotetest"
	"github.com/moodmarkapp/moodmark-sync/internal/wire"
)

func newClient(t *testing.T, baseURL string) *remote.Client {
	t.Helper()
	return remote.NewClient(remote.ClientConfig{
		BaseURL: baseURL,
		Token:   "test-token",
		Timeout: 5 * time.Second,
		RPS:     1000,
		Burst:   1000,
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func sampleWireBook(id, owner string) wire.Book {
	return wire.Book{
		ID:            id,
		OwnerID:       owner,
		Title:         "Piranesi",
		Author:        "Susanna Clarke",
		OverallRating: 5,
		Lendability:   "keep",
		Notes:         "The house is kind.",
		CreatedAt:     time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		UpdatedAt:     time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
	}
}

func TestClientBookLifecycle(t *testing.T) {
	mem := remotetest.NewMemory()
	srv := remotetest.NewServer(mem)
	defer srv.Close()

	client := newClient(t, srv.URL)
	ctx := context.Background()

	book := sampleWireBook("book-1", "owner-1")
	require.NoError(t, client.UpsertBook(ctx, book))

	// Upsert again with newer content: replaces, does not duplicate.
	book.Notes = "Revised."
	require.NoError(t, client.UpsertBook(ctx, book))
	require.Equal(t, 1, mem.BookCount())

	books, err := client.ListBooks(ctx, "owner-1")
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, "Revised.", books[0].Notes)

	// Other owners see nothing.
	other, err := client.ListBooks(ctx, "owner-2")
	require.NoError(t, err)
	assert.Empty(t, other)

	require.NoError(t, client.DeleteBook(ctx, "book-1"))
	assert.Equal(t, 0, mem.BookCount())

	// Deleting again is fine.
	require.NoError(t, client.DeleteBook(ctx, "book-1"))
}

func TestClientCollageLifecycle(t *testing.T) {
	mem := remotetest.NewMemory()
	srv := remotetest.NewServer(mem)
	defer srv.Close()

	client := newClient(t, srv.URL)
	ctx := context.Background()

	collage := wire.Collage{
		ID:           "col-1",
		OwnerID:      "owner-1",
		BookID:       "book-1",
		CanvasJSON:   `{"objects":[]}`,
		ColorPalette: []string{"#FDF6E3"},
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}
	require.NoError(t, client.UpsertCollage(ctx, collage))

	collages, err := client.ListCollages(ctx, "owner-1")
	require.NoError(t, err)
	require.Len(t, collages, 1)
	assert.Equal(t, "book-1", collages[0].BookID)

	require.NoError(t, client.DeleteCollage(ctx, "col-1"))
	assert.Equal(t, 0, mem.CollageCount())
}

func TestClientStatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   error
	}{
		{"unauthorized", http.StatusUnauthorized, apperrors.ErrUnauthorized},
		{"forbidden", http.StatusForbidden, apperrors.ErrUnauthorized},
		{"bad request", http.StatusBadRequest, apperrors.ErrValidation},
		{"rate limited", http.StatusTooManyRequests, apperrors.ErrUnavailable},
		{"server error", http.StatusInternalServerError, apperrors.ErrUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			client := newClient(t, srv.URL)
			_, err := client.ListBooks(context.Background(), "owner-1")
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestClientUnreachableRemote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close() // nothing is listening anymore

	client := newClient(t, srv.URL)
	err := client.UpsertBook(context.Background(), sampleWireBook("book-1", "owner-1"))
	assert.ErrorIs(t, err, apperrors.ErrUnavailable)
}

func TestClientSendsBearerToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte("[]"))
	}))
	defer srv.Close()

	client := newClient(t, srv.URL)
	_, err := client.ListBooks(context.Background(), "owner-1")
	require.NoError(t, err)
	assert.Equal(t, "Bearer test-token", gotAuth)
}
