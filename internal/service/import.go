package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/moodmarkapp/moodmark-sync/internal/backup"
	"github.com/moodmarkapp/moodmark-sync/internal/domain"
	"github.com/moodmarkapp/moodmark-sync/internal/id"
	"github.com/moodmarkapp/moodmark-sync/internal/store"
)

// ImportPolicy selects how bulk import treats existing data.
type ImportPolicy string

const (
	// PolicyMerge keeps existing records and adds only candidates that
	// collide with nothing, by ID or by natural key.
	PolicyMerge ImportPolicy = "merge"

	// PolicyReplace discards the whole library and installs the candidates.
	PolicyReplace ImportPolicy = "replace"
)

// ImportResult reports what a bulk import inserted.
type ImportResult struct {
	BooksImported    int
	CollagesImported int
}

// ImportService ingests externally-sourced record sets: Goodreads exports
// and Moodmark backup files.
type ImportService struct {
	store   *store.Store
	library *LibraryService
	logger  *slog.Logger
}

// NewImportService creates the import service.
func NewImportService(s *store.Store, library *LibraryService, logger *slog.Logger) *ImportService {
	return &ImportService{store: s, library: library, logger: logger}
}

// ImportBooks bulk-inserts book candidates under the given policy.
//
// Replace clears the library first (collage images, collages, books, in
// dependency order) and keeps each candidate's ID and CreatedAt when present.
// Merge drops candidates whose ID or natural key already exists and routes
// the rest through the normal creation path, which assigns fresh identity.
//
// On partial failure the error propagates with prior inserts committed; there
// is no rollback.
func (s *ImportService) ImportBooks(ctx context.Context, candidates []*domain.Book, policy ImportPolicy) (*ImportResult, error) {
	switch policy {
	case PolicyReplace:
		return s.replaceBooks(ctx, candidates)
	case PolicyMerge:
		return s.mergeBooks(ctx, candidates)
	default:
		return nil, fmt.Errorf("unknown import policy %q", policy)
	}
}

func (s *ImportService) replaceBooks(ctx context.Context, candidates []*domain.Book) (*ImportResult, error) {
	if err := s.clearLibrary(ctx); err != nil {
		return nil, err
	}

	result := &ImportResult{}
	now := time.Now().UTC()

	for _, candidate := range candidates {
		book := *candidate
		if book.ID == "" {
			book.ID = id.MustGenerate(id.PrefixBook)
		}
		if book.CreatedAt.IsZero() {
			book.CreatedAt = now
		}
		book.UpdatedAt = now

		if err := s.store.PutBook(ctx, &book); err != nil {
			return result, fmt.Errorf("insert book %q: %w", book.Title, err)
		}
		result.BooksImported++
	}

	s.logger.Info("library replaced", "books", result.BooksImported)
	return result, nil
}

func (s *ImportService) mergeBooks(ctx context.Context, candidates []*domain.Book) (*ImportResult, error) {
	existing, err := s.store.ListBooks(ctx)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}

	existingIDs := make(map[string]bool, len(existing))
	existingKeys := make(map[string]bool, len(existing))
	for _, b := range existing {
		existingIDs[b.ID] = true
		existingKeys[b.NaturalKey()] = true
	}

	result := &ImportResult{}
	for _, candidate := range candidates {
		if existingIDs[candidate.ID] || existingKeys[candidate.NaturalKey()] {
			continue
		}

		book := *candidate
		if _, err := s.library.CreateBook(ctx, &book); err != nil {
			return result, fmt.Errorf("import book %q: %w", book.Title, err)
		}
		result.BooksImported++
	}

	skipped := len(candidates) - result.BooksImported
	s.logger.Info("library merged", "imported", result.BooksImported, "skipped", skipped)
	return result, nil
}

// ImportBackup restores a parsed backup document.
//
// Replace mode restores collages with their original IDs so they still point
// at their books. Merge mode imports books only: merged books get fresh IDs,
// which would orphan any restored collage.
func (s *ImportService) ImportBackup(ctx context.Context, doc *backup.Document, policy ImportPolicy) (*ImportResult, error) {
	result, err := s.ImportBooks(ctx, doc.Data.Books, policy)
	if err != nil {
		return result, err
	}

	if policy != PolicyReplace {
		return result, nil
	}

	now := time.Now().UTC()
	for _, candidate := range doc.Data.Collages {
		collage := *candidate
		if collage.ID == "" {
			collage.ID = id.MustGenerate(id.PrefixCollage)
		}
		if collage.CreatedAt.IsZero() {
			collage.CreatedAt = now
		}
		collage.UpdatedAt = now

		if err := s.store.PutCollage(ctx, &collage); err != nil {
			return result, fmt.Errorf("restore collage %s: %w", collage.ID, err)
		}
		result.CollagesImported++
	}

	s.logger.Info("backup restored",
		"books", result.BooksImported,
		"collages", result.CollagesImported,
		"policy", string(policy),
	)
	return result, nil
}

// clearLibrary wipes all library data in dependency order.
func (s *ImportService) clearLibrary(ctx context.Context) error {
	if err := s.store.ClearCollageImages(ctx); err != nil {
		return fmt.Errorf("clear collage images: %w", err)
	}
	if err := s.store.ClearCollages(ctx); err != nil {
		return fmt.Errorf("clear collages: %w", err)
	}
	if err := s.store.ClearBooks(ctx); err != nil {
		return fmt.Errorf("clear books: %w", err)
	}
	return nil
}
