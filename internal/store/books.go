package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	json "github.com/go-json-experiment/json"

	"github.com/dgraph-io/badger/v4"
	"github.com/moodmarkapp/moodmark-sync/internal/domain"
)

// Book operations.

// CreateBook creates a new book record. The caller is responsible for having
// assigned an ID and timestamps (see service.LibraryService.CreateBook).
func (s *Store) CreateBook(ctx context.Context, book *domain.Book) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	key := []byte(bookPrefix + book.ID)

	exists, err := s.exists(key)
	if err != nil {
		return fmt.Errorf("check book exists: %w", err)
	}
	if exists {
		return ErrBookExists
	}

	if err := s.set(key, book); err != nil {
		return fmt.Errorf("create book: %w", err)
	}

	if s.logger != nil {
		s.logger.LogAttrs(ctx, slog.LevelDebug, "book created",
			slog.String("id", book.ID),
			slog.String("title", book.Title),
		)
	}
	return nil
}

// GetBook retrieves a book by ID.
func (s *Store) GetBook(ctx context.Context, id string) (*domain.Book, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var book domain.Book
	err := s.get([]byte(bookPrefix+id), &book)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, fmt.Errorf("get book: %w", err)
	}
	return &book, nil
}

// PutBook writes a book record unconditionally, creating or overwriting.
// Reconciliation uses this to apply remote copies that won a conflict.
func (s *Store) PutBook(ctx context.Context, book *domain.Book) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.set([]byte(bookPrefix+book.ID), book); err != nil {
		return fmt.Errorf("put book: %w", err)
	}
	return nil
}

// UpdateBook overwrites an existing book record.
func (s *Store) UpdateBook(ctx context.Context, book *domain.Book) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	key := []byte(bookPrefix + book.ID)
	exists, err := s.exists(key)
	if err != nil {
		return fmt.Errorf("check book exists: %w", err)
	}
	if !exists {
		return ErrBookNotFound
	}

	if err := s.set(key, book); err != nil {
		return fmt.Errorf("update book: %w", err)
	}
	return nil
}

// DeleteBook removes a book record. Idempotent: deleting a missing book is
// not an error. Cascading to collages and images is the service layer's job.
func (s *Store) DeleteBook(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(bookPrefix + id))
	})
	if err != nil {
		return fmt.Errorf("delete book: %w", err)
	}
	return nil
}

// ListBooks returns all book records sorted by UpdatedAt, newest first.
func (s *Store) ListBooks(ctx context.Context) ([]*domain.Book, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var books []*domain.Book
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(bookPrefix)

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek([]byte(bookPrefix)); it.ValidForPrefix([]byte(bookPrefix)); it.Next() {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			var book domain.Book
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &book)
			})
			if err != nil {
				return fmt.Errorf("unmarshal book: %w", err)
			}
			books = append(books, &book)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}

	sort.Slice(books, func(i, j int) bool {
		return books[i].UpdatedAt.After(books[j].UpdatedAt)
	})
	return books, nil
}

// CountBooks returns the number of book records.
func (s *Store) CountBooks(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	count := 0
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(bookPrefix)
		opts.PrefetchValues = false

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek([]byte(bookPrefix)); it.ValidForPrefix([]byte(bookPrefix)); it.Next() {
			count++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("count books: %w", err)
	}
	return count, nil
}

// ClearBooks removes every book record. Used by replace imports.
func (s *Store) ClearBooks(ctx context.Context) error {
	return s.deleteByPrefix(ctx, bookPrefix)
}
