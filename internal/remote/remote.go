// Package remote defines the capability the sync engine needs from a remote
// multi-device store and an HTTP client implementing it.
package remote

import (
	"context"

	"github.com/moodmarkapp/moodmark-sync/internal/wire"
)

// Store is the remote capability surface. Every method is keyed by record ID
// or owner; the engine never asks the remote for anything finer. Implementors
// must make upserts and deletes idempotent.
type Store interface {
	// UpsertBook writes the record, replacing any existing row with the same ID.
	UpsertBook(ctx context.Context, book wire.Book) error

	// ListBooks returns every book row belonging to the owner.
	ListBooks(ctx context.Context, ownerID string) ([]wire.Book, error)

	// DeleteBook removes the row. Deleting an absent row is not an error.
	DeleteBook(ctx context.Context, id string) error

	// UpsertCollage writes the record, replacing any existing row with the same ID.
	UpsertCollage(ctx context.Context, collage wire.Collage) error

	// ListCollages returns every collage row belonging to the owner.
	ListCollages(ctx context.Context, ownerID string) ([]wire.Collage, error)

	// DeleteCollage removes the row. Deleting an absent row is not an error.
	DeleteCollage(ctx context.Context, id string) error
}
