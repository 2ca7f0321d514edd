package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	json "github.com/go-json-experiment/json"

	"github.com/dgraph-io/badger/v4"
	"github.com/moodmarkapp/moodmark-sync/internal/domain"
)

// Collage operations. Collages are indexed by their owning book so cascade
// deletes and lookup-or-create don't scan the whole keyspace. The index is
// idx:collages:book:<bookID>:<collageID> -> collageID; one book normally has
// one collage but the index tolerates more.

func collageByBookKey(bookID, collageID string) []byte {
	return []byte(collageByBookPrefix + bookID + ":" + collageID)
}

// CreateCollage creates a new collage record and its book index entry.
func (s *Store) CreateCollage(ctx context.Context, collage *domain.Collage) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	key := []byte(collagePrefix + collage.ID)

	data, err := json.Marshal(collage)
	if err != nil {
		return fmt.Errorf("marshal collage: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(key); err == nil {
			return ErrCollageExists
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("check collage exists: %w", err)
		}

		if err := txn.Set(key, data); err != nil {
			return err
		}
		return txn.Set(collageByBookKey(collage.BookID, collage.ID), []byte(collage.ID))
	})
	if err != nil {
		if errors.Is(err, ErrCollageExists) {
			return err
		}
		return fmt.Errorf("create collage: %w", err)
	}

	if s.logger != nil {
		s.logger.LogAttrs(ctx, slog.LevelDebug, "collage created",
			slog.String("id", collage.ID),
			slog.String("book_id", collage.BookID),
		)
	}
	return nil
}

// GetCollage retrieves a collage by ID.
func (s *Store) GetCollage(ctx context.Context, id string) (*domain.Collage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var collage domain.Collage
	err := s.get([]byte(collagePrefix+id), &collage)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrCollageNotFound
		}
		return nil, fmt.Errorf("get collage: %w", err)
	}
	return &collage, nil
}

// PutCollage writes a collage unconditionally, keeping the book index in
// step. Reconciliation uses this to apply remote copies.
func (s *Store) PutCollage(ctx context.Context, collage *domain.Collage) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	key := []byte(collagePrefix + collage.ID)
	data, err := json.Marshal(collage)
	if err != nil {
		return fmt.Errorf("marshal collage: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		// Drop a stale index entry if the collage moved between books.
		var old domain.Collage
		item, err := txn.Get(key)
		if err == nil {
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &old)
			}); err != nil {
				return err
			}
			if old.BookID != collage.BookID {
				if err := txn.Delete(collageByBookKey(old.BookID, old.ID)); err != nil {
					return err
				}
			}
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}

		if err := txn.Set(key, data); err != nil {
			return err
		}
		return txn.Set(collageByBookKey(collage.BookID, collage.ID), []byte(collage.ID))
	})
	if err != nil {
		return fmt.Errorf("put collage: %w", err)
	}
	return nil
}

// UpdateCollage overwrites an existing collage record.
func (s *Store) UpdateCollage(ctx context.Context, collage *domain.Collage) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	exists, err := s.exists([]byte(collagePrefix + collage.ID))
	if err != nil {
		return fmt.Errorf("check collage exists: %w", err)
	}
	if !exists {
		return ErrCollageNotFound
	}
	return s.PutCollage(ctx, collage)
}

// DeleteCollage removes a collage and its book index entry. Idempotent.
func (s *Store) DeleteCollage(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		key := []byte(collagePrefix + id)

		var collage domain.Collage
		item, err := txn.Get(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := item.Value(func(val []byte) error {
			return json.Unmarshal(val, &collage)
		}); err != nil {
			return err
		}

		if err := txn.Delete(collageByBookKey(collage.BookID, id)); err != nil {
			return err
		}
		return txn.Delete(key)
	})
	if err != nil {
		return fmt.Errorf("delete collage: %w", err)
	}
	return nil
}

// ListCollages returns all collage records.
func (s *Store) ListCollages(ctx context.Context) ([]*domain.Collage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var collages []*domain.Collage
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(collagePrefix)

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek([]byte(collagePrefix)); it.ValidForPrefix([]byte(collagePrefix)); it.Next() {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			var collage domain.Collage
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &collage)
			})
			if err != nil {
				return fmt.Errorf("unmarshal collage: %w", err)
			}
			collages = append(collages, &collage)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list collages: %w", err)
	}
	return collages, nil
}

// ListCollagesByBook returns the collages owned by a book via the book index.
func (s *Store) ListCollagesByBook(ctx context.Context, bookID string) ([]*domain.Collage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var ids []string
	prefix := []byte(collageByBookPrefix + bookID + ":")
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				ids = append(ids, string(val))
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list collages by book: %w", err)
	}

	collages := make([]*domain.Collage, 0, len(ids))
	for _, id := range ids {
		collage, err := s.GetCollage(ctx, id)
		if err != nil {
			if errors.Is(err, ErrCollageNotFound) {
				continue // dangling index entry
			}
			return nil, err
		}
		collages = append(collages, collage)
	}
	return collages, nil
}

// GetCollageByBook returns the first collage owned by a book, or
// ErrCollageNotFound if the book has none.
func (s *Store) GetCollageByBook(ctx context.Context, bookID string) (*domain.Collage, error) {
	collages, err := s.ListCollagesByBook(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if len(collages) == 0 {
		return nil, ErrCollageNotFound
	}
	return collages[0], nil
}

// ClearCollages removes every collage record and the book index.
func (s *Store) ClearCollages(ctx context.Context) error {
	if err := s.deleteByPrefix(ctx, collageByBookPrefix); err != nil {
		return err
	}
	return s.deleteByPrefix(ctx, collagePrefix)
}
