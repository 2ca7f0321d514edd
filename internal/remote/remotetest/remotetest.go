// Package remotetest provides an in-memory remote store and an HTTP server
// wrapping it, for exercising the sync engine without a real backend.
package remotetest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"

	json "github.com/go-json-experiment/json"

	"github.com/go-chi/chi/v5"

	apperrors "github.com/moodmarkapp/moodmark-sync/internal/errors"
	"github.com/moodmarkapp/moodmark-sync/internal/wire"
)

// Memory is an in-memory implementation of the remote store capability.
// Hook fields allow tests to inject failures per call.
type Memory struct {
	mu       sync.Mutex
	books    map[string]wire.Book
	collages map[string]wire.Collage

	// Optional failure hooks, called before the operation applies.
	OnUpsertBook    func(wire.Book) error
	OnUpsertCollage func(wire.Collage) error
	OnDelete        func(id string) error
	OnList          func() error
}

// NewMemory creates an empty in-memory remote store.
func NewMemory() *Memory {
	return &Memory{
		books:    make(map[string]wire.Book),
		collages: make(map[string]wire.Collage),
	}
}

// UpsertBook stores the book row.
func (m *Memory) UpsertBook(_ context.Context, book wire.Book) error {
	if m.OnUpsertBook != nil {
		if err := m.OnUpsertBook(book); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.books[book.ID] = book
	return nil
}

// ListBooks returns the book rows for an owner.
func (m *Memory) ListBooks(_ context.Context, ownerID string) ([]wire.Book, error) {
	if m.OnList != nil {
		if err := m.OnList(); err != nil {
			return nil, err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []wire.Book
	for _, b := range m.books {
		if b.OwnerID == ownerID {
			out = append(out, b)
		}
	}
	return out, nil
}

// DeleteBook removes a book row if present.
func (m *Memory) DeleteBook(_ context.Context, id string) error {
	if m.OnDelete != nil {
		if err := m.OnDelete(id); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.books, id)
	return nil
}

// UpsertCollage stores the collage row.
func (m *Memory) UpsertCollage(_ context.Context, collage wire.Collage) error {
	if m.OnUpsertCollage != nil {
		if err := m.OnUpsertCollage(collage); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.collages[collage.ID] = collage
	return nil
}

// ListCollages returns the collage rows for an owner.
func (m *Memory) ListCollages(_ context.Context, ownerID string) ([]wire.Collage, error) {
	if m.OnList != nil {
		if err := m.OnList(); err != nil {
			return nil, err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []wire.Collage
	for _, c := range m.collages {
		if c.OwnerID == ownerID {
			out = append(out, c)
		}
	}
	return out, nil
}

// DeleteCollage removes a collage row if present.
func (m *Memory) DeleteCollage(_ context.Context, id string) error {
	if m.OnDelete != nil {
		if err := m.OnDelete(id); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.collages, id)
	return nil
}

// Book returns a stored book row by ID.
func (m *Memory) Book(id string) (wire.Book, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.books[id]
	return b, ok
}

// Collage returns a stored collage row by ID.
func (m *Memory) Collage(id string) (wire.Collage, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.collages[id]
	return c, ok
}

// BookCount returns the number of stored book rows.
func (m *Memory) BookCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.books)
}

// CollageCount returns the number of stored collage rows.
func (m *Memory) CollageCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.collages)
}

// NewServer starts an HTTP server exposing the in-memory store with the same
// routes the production backend serves. Callers own the returned server.
func NewServer(store *Memory) *httptest.Server {
	r := chi.NewRouter()

	r.Put("/v1/books/{id}", func(w http.ResponseWriter, req *http.Request) {
		var book wire.Book
		if err := decodeBody(req, &book); err != nil {
			writeError(w, err)
			return
		}
		book.ID = chi.URLParam(req, "id")
		if err := store.UpsertBook(req.Context(), book); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	r.Get("/v1/books", func(w http.ResponseWriter, req *http.Request) {
		books, err := store.ListBooks(req.Context(), req.URL.Query().Get("owner_id"))
		if err != nil {
			writeError(w, err)
			return
		}
		if books == nil {
			books = []wire.Book{}
		}
		writeJSON(w, books)
	})

	r.Delete("/v1/books/{id}", func(w http.ResponseWriter, req *http.Request) {
		if err := store.DeleteBook(req.Context(), chi.URLParam(req, "id")); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	r.Put("/v1/collages/{id}", func(w http.ResponseWriter, req *http.Request) {
		var collage wire.Collage
		if err := decodeBody(req, &collage); err != nil {
			writeError(w, err)
			return
		}
		collage.ID = chi.URLParam(req, "id")
		if err := store.UpsertCollage(req.Context(), collage); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	r.Get("/v1/collages", func(w http.ResponseWriter, req *http.Request) {
		collages, err := store.ListCollages(req.Context(), req.URL.Query().Get("owner_id"))
		if err != nil {
			writeError(w, err)
			return
		}
		if collages == nil {
			collages = []wire.Collage{}
		}
		writeJSON(w, collages)
	})

	r.Delete("/v1/collages/{id}", func(w http.ResponseWriter, req *http.Request) {
		if err := store.DeleteCollage(req.Context(), chi.URLParam(req, "id")); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	return httptest.NewServer(r)
}

func decodeBody(req *http.Request, v any) error {
	if err := json.UnmarshalRead(req.Body, v); err != nil {
		return apperrors.Validation("malformed request body")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.MarshalWrite(w, v)
}

func writeError(w http.ResponseWriter, err error) {
	var domainErr *apperrors.Error
	if apperrors.As(err, &domainErr) {
		http.Error(w, domainErr.Message, domainErr.HTTPStatus())
		return
	}
	http.Error(w, err.Error(), http.StatusInternalServerError)
}
