package store

import (
	"context"
	"errors"
	"fmt"

	json "github.com/go-json-experiment/json"

	"github.com/dgraph-io/badger/v4"
	"github.com/moodmarkapp/moodmark-sync/internal/domain"
)

// Collage image operations: the blob side-table keyed by owning collage.
// Index: idx:images:collage:<collageID>:<imageID> -> imageID.

func imageByCollageKey(collageID, imageID string) []byte {
	return []byte(imageByCollagePrefix + collageID + ":" + imageID)
}

// AddCollageImage stores an image blob and its collage index entry.
func (s *Store) AddCollageImage(ctx context.Context, img *domain.CollageImage) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(img)
	if err != nil {
		return fmt.Errorf("marshal collage image: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set([]byte(imagePrefix+img.ID), data); err != nil {
			return err
		}
		return txn.Set(imageByCollageKey(img.CollageID, img.ID), []byte(img.ID))
	})
	if err != nil {
		return fmt.Errorf("add collage image: %w", err)
	}
	return nil
}

// GetCollageImage retrieves an image by ID.
func (s *Store) GetCollageImage(ctx context.Context, id string) (*domain.CollageImage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var img domain.CollageImage
	err := s.get([]byte(imagePrefix+id), &img)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrImageNotFound
		}
		return nil, fmt.Errorf("get collage image: %w", err)
	}
	return &img, nil
}

// ListCollageImages returns all images owned by a collage.
func (s *Store) ListCollageImages(ctx context.Context, collageID string) ([]*domain.CollageImage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var ids []string
	prefix := []byte(imageByCollagePrefix + collageID + ":")
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
		return nil, fmt.Errorf("list collage images: %w", err)
	}

	images := make([]*domain.CollageImage, 0, len(ids))
	for _, id := range ids {
		img, err := s.GetCollageImage(ctx, id)
		if err != nil {
			if errors.Is(err, ErrImageNotFound) {
				continue
			}
			return nil, err
		}
		images = append(images, img)
	}
	return images, nil
}

// DeleteCollageImage removes a single image and its index entry. Idempotent.
func (s *Store) DeleteCollageImage(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		key := []byte(imagePrefix + id)

		var img domain.CollageImage
		item, err := txn.Get(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := item.Value(func(val []byte) error {
			return json.Unmarshal(val, &img)
		}); err != nil {
			return err
		}

		if err := txn.Delete(imageByCollageKey(img.CollageID, id)); err != nil {
			return err
		}
		return txn.Delete(key)
	})
	if err != nil {
		return fmt.Errorf("delete collage image: %w", err)
	}
	return nil
}

// DeleteCollageImages removes every image owned by a collage.
func (s *Store) DeleteCollageImages(ctx context.Context, collageID string) error {
	images, err := s.ListCollageImages(ctx, collageID)
	if err != nil {
		return err
	}
	for _, img := range images {
		if err := s.DeleteCollageImage(ctx, img.ID); err != nil {
			return err
		}
	}
	return nil
}

// ClearCollageImages removes every image record and the collage index.
func (s *Store) ClearCollageImages(ctx context.Context) error {
	if err := s.deleteByPrefix(ctx, imageByCollagePrefix); err != nil {
		return err
	}
	return s.deleteByPrefix(ctx, imagePrefix)
}
