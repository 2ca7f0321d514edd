// Package service implements the engine's use cases on top of the local
// store and the remote adapter: library CRUD, bulk import, and the sync
// orchestrator.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/moodmarkapp/moodmark-sync/internal/domain"
	apperrors "github.com/moodmarkapp/moodmark-sync/internal/errors"
	"github.com/moodmarkapp/moodmark-sync/internal/id"
	"github.com/moodmarkapp/moodmark-sync/internal/remote"
	"github.com/moodmarkapp/moodmark-sync/internal/store"
	"github.com/moodmarkapp/moodmark-sync/internal/validation"
)

// LibraryService owns the book journal: entries, collages and collage images.
// All writes go to the local store first; the local copy is authoritative.
type LibraryService struct {
	store     *store.Store
	remote    remote.Store // nil when running local-only
	validator *validation.Validator
	logger    *slog.Logger
}

// NewLibraryService creates the library service. remoteStore may be nil.
func NewLibraryService(s *store.Store, remoteStore remote.Store, v *validation.Validator, logger *slog.Logger) *LibraryService {
	return &LibraryService{
		store:     s,
		remote:    remoteStore,
		validator: v,
		logger:    logger,
	}
}

// CreateBook validates a new entry, assigns identity and timestamps, and
// persists it. This is the single creation path; bulk import reuses it.
func (s *LibraryService) CreateBook(ctx context.Context, book *domain.Book) (*domain.Book, error) {
	if err := s.validator.Validate(book); err != nil {
		return nil, err
	}

	book.ID = id.MustGenerate(id.PrefixBook)
	book.InitTimestamps()

	if err := s.store.CreateBook(ctx, book); err != nil {
		return nil, fmt.Errorf("create book: %w", err)
	}

	s.logger.Info("book created", "book_id", book.ID, "title", book.Title)
	return book, nil
}

// GetBook retrieves a book entry by ID.
func (s *LibraryService) GetBook(ctx context.Context, bookID string) (*domain.Book, error) {
	book, err := s.store.GetBook(ctx, bookID)
	if errors.Is(err, store.ErrBookNotFound) {
		return nil, apperrors.NotFoundf("book %s not found", bookID)
	}
	if err != nil {
		return nil, fmt.Errorf("get book: %w", err)
	}
	return book, nil
}

// ListBooks returns all book entries, most recently updated first.
func (s *LibraryService) ListBooks(ctx context.Context) ([]*domain.Book, error) {
	return s.store.ListBooks(ctx)
}

// UpdateBook validates and persists an edited entry, advancing its
// last-write-wins timestamp.
func (s *LibraryService) UpdateBook(ctx context.Context, book *domain.Book) (*domain.Book, error) {
	if err := s.validator.Validate(book); err != nil {
		return nil, err
	}

	book.Touch()

	if err := s.store.UpdateBook(ctx, book); err != nil {
		if errors.Is(err, store.ErrBookNotFound) {
			return nil, apperrors.NotFoundf("book %s not found", book.ID)
		}
		return nil, fmt.Errorf("update book: %w", err)
	}

	return book, nil
}

// GetOrCreateCollage returns the collage for a book, creating an empty one
// with the starter palette on first access.
func (s *LibraryService) GetOrCreateCollage(ctx context.Context, bookID string) (*domain.Collage, error) {
	collage, err := s.store.GetCollageByBook(ctx, bookID)
	if err == nil {
		return collage, nil
	}
	if !errors.Is(err, store.ErrCollageNotFound) {
		return nil, fmt.Errorf("get collage: %w", err)
	}

	if _, err := s.GetBook(ctx, bookID); err != nil {
		return nil, err
	}

	collage = domain.NewCollage(bookID)
	collage.ID = id.MustGenerate(id.PrefixCollage)
	collage.InitTimestamps()

	if err := s.store.CreateCollage(ctx, collage); err != nil {
		return nil, fmt.Errorf("create collage: %w", err)
	}

	s.logger.Info("collage created", "collage_id", collage.ID, "book_id", bookID)
	return collage, nil
}

// UpdateCollage persists an edited collage, advancing its timestamp.
func (s *LibraryService) UpdateCollage(ctx context.Context, collage *domain.Collage) (*domain.Collage, error) {
	collage.Touch()

	if err := s.store.UpdateCollage(ctx, collage); err != nil {
		if errors.Is(err, store.ErrCollageNotFound) {
			return nil, apperrors.NotFoundf("collage %s not found", collage.ID)
		}
		return nil, fmt.Errorf("update collage: %w", err)
	}

	return collage, nil
}

// AddCollageImage stores a raw image under a collage.
func (s *LibraryService) AddCollageImage(ctx context.Context, img *domain.CollageImage) (*domain.CollageImage, error) {
	if _, err := s.store.GetCollage(ctx, img.CollageID); err != nil {
		if errors.Is(err, store.ErrCollageNotFound) {
			return nil, apperrors.NotFoundf("collage %s not found", img.CollageID)
		}
		return nil, fmt.Errorf("get collage: %w", err)
	}

	img.ID = id.MustGenerate(id.PrefixImage)
	if err := s.store.AddCollageImage(ctx, img); err != nil {
		return nil, fmt.Errorf("add collage image: %w", err)
	}
	return img, nil
}

// ListCollageImages returns the raw images stored under a collage.
func (s *LibraryService) ListCollageImages(ctx context.Context, collageID string) ([]*domain.CollageImage, error) {
	return s.store.ListCollageImages(ctx, collageID)
}

// DeleteCollageImage removes a stored image. Absent images are not an error.
func (s *LibraryService) DeleteCollageImage(ctx context.Context, imageID string) error {
	return s.store.DeleteCollageImage(ctx, imageID)
}

// DeleteResult reports what a delete did. RemoteWarning is set when the local
// delete succeeded but remote cleanup did not; the orphaned remote rows need
// manual cleanup or a later delete.
type DeleteResult struct {
	CollagesDeleted int
	RemoteWarning   string
}

// DeleteBook removes a book and everything hanging off it: collage images,
// then collages, then the book itself. The local cascade always completes;
// remote deletes run afterwards, best effort, when an owner is signed in.
// A remote failure never resurrects local state.
func (s *LibraryService) DeleteBook(ctx context.Context, bookID, ownerID string) (*DeleteResult, error) {
	collages, err := s.store.ListCollagesByBook(ctx, bookID)
	if err != nil {
		return nil, fmt.Errorf("list collages: %w", err)
	}

	for _, collage := range collages {
		if err := s.store.DeleteCollageImages(ctx, collage.ID); err != nil {
			return nil, fmt.Errorf("delete collage images: %w", err)
		}
		if err := s.store.DeleteCollage(ctx, collage.ID); err != nil {
			return nil, fmt.Errorf("delete collage: %w", err)
		}
	}

	if err := s.store.DeleteBook(ctx, bookID); err != nil {
		return nil, fmt.Errorf("delete book: %w", err)
	}

	result := &DeleteResult{CollagesDeleted: len(collages)}
	s.logger.Info("book deleted", "book_id", bookID, "collages", len(collages))

	if s.remote == nil || ownerID == "" {
		return result, nil
	}

	var remoteErrs []error
	for _, collage := range collages {
		if err := s.remote.DeleteCollage(ctx, collage.ID); err != nil {
			remoteErrs = append(remoteErrs, fmt.Errorf("collage %s: %w", collage.ID, err))
		}
	}
	if err := s.remote.DeleteBook(ctx, bookID); err != nil {
		remoteErrs = append(remoteErrs, fmt.Errorf("book %s: %w", bookID, err))
	}

	if len(remoteErrs) > 0 {
		joined := errors.Join(remoteErrs...)
		result.RemoteWarning = fmt.Sprintf("deleted locally but cloud cleanup failed: %v", joined)
		s.logger.Warn("remote delete failed", "book_id", bookID, "error", joined)
	}

	return result, nil
}
