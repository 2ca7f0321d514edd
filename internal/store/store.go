// Package store implements the device-local datastore backing the sync
// engine. It is the source of truth when offline.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	json "github.com/go-json-experiment/json"

	"github.com/dgraph-io/badger/v4"
)

// Key prefixes for the record kinds the engine persists. Secondary index
// entries live under the owning kind's idx: namespace.
const (
	bookPrefix           = "book:"
	collagePrefix        = "collage:"
	collageByBookPrefix  = "idx:collages:book:"
	imagePrefix          = "img:"
	imageByCollagePrefix = "idx:images:collage:"
	metaPrefix           = "meta:"
)

// Sentinel errors.
var (
	ErrBookNotFound    = errors.New("book not found")
	ErrBookExists      = errors.New("book already exists")
	ErrCollageNotFound = errors.New("collage not found")
	ErrCollageExists   = errors.New("collage already exists")
	ErrImageNotFound   = errors.New("collage image not found")
)

// Store wraps a Badger database instance.
type Store struct {
	db     *badger.DB
	logger *slog.Logger
}

// New opens (or creates) the local database at path.
func New(path string, logger *slog.Logger) (*Store, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil            // Disable Badger's internal logging
	opts.SyncWrites = true       // Survive crashes without corruption
	opts.CompactL0OnClose = true // Compact L0 tables on close for faster startup

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db: %w", err)
	}

	store := &Store{db: db, logger: logger}

	if logger != nil {
		logger.Info("local database opened", "path", path)
	}

	return store, nil
}

// Close gracefully closes the database.
func (s *Store) Close() error {
	if s.logger != nil {
		s.logger.Info("closing local database")
	}
	return s.db.Close()
}

// Helper methods for database operations.

// get retrieves a value by key.
func (s *Store) get(key []byte, dest any) error {
	return s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, dest)
		})
	})
}

// set stores a value by key.
func (s *Store) set(key []byte, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, data)
	})
}

// exists checks if a key exists.
func (s *Store) exists(key []byte) (bool, error) {
	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(key)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// deleteByPrefix removes every key under a prefix.
func (s *Store) deleteByPrefix(ctx context.Context, prefix string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(prefix)
		opts.PrefetchValues = false

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek([]byte(prefix)); it.ValidForPrefix([]byte(prefix)); it.Next() {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			key := it.Item().KeyCopy(nil)
			if err := txn.Delete(key); err != nil {
				return err
			}
		}
		return nil
	})
}

// GetMeta returns the metadata value for key, or "" if unset. The sync
// orchestrator keeps its per-owner bookkeeping (first-login upload flag)
// in this keyspace.
func (s *Store) GetMeta(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var value string
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(metaPrefix + key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			value = string(val)
			return nil
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get meta %q: %w", key, err)
	}
	return value, nil
}

// SetMeta stores a metadata value.
func (s *Store) SetMeta(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(metaPrefix+key), []byte(value))
	})
	if err != nil {
		return fmt.Errorf("set meta %q: %w", key, err)
	}
	return nil
}
