package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/moodmarkapp/moodmark-sync/internal/domain"
	"github.com/moodmarkapp/moodmark-sync/internal/remote"
	"github.com/moodmarkapp/moodmark-sync/internal/store"
	"github.com/moodmarkapp/moodmark-sync/internal/wire"
)

// cloudSeededKey is the metadata key recording that the owner's pre-existing
// local library has been uploaded once. Scoped per owner: signing in with a
// different account seeds again.
func cloudSeededKey(ownerID string) string { return "cloud_seeded:" + ownerID }

// SyncResult is the outcome of one reconcile pass.
type SyncResult struct {
	// Books and Collages are the merged library after reconciliation.
	Books    []*domain.Book
	Collages []*domain.Collage

	// Counters for observability. PushFailed counts per-record upload
	// failures that did not abort the pass.
	Pushed     int
	PushFailed int
	Pulled     int
	Applied    int
}

// SyncService reconciles the local store with the remote store. One pass
// pushes every local record, pulls every remote record for the owner, and
// resolves conflicts by last write wins on UpdatedAt. Ties keep the local
// copy, so reconciling identical stores changes nothing.
type SyncService struct {
	store  *store.Store
	remote remote.Store
	logger *slog.Logger

	mu      sync.Mutex
	current *Pass
}

// NewSyncService creates the sync orchestrator.
func NewSyncService(s *store.Store, remoteStore remote.Store, logger *slog.Logger) *SyncService {
	return &SyncService{store: s, remote: remoteStore, logger: logger}
}

// Sync runs one reconcile pass for the owner and blocks until it finishes.
// Push happens before pull, so a record edited locally and remotely is
// uploaded as-is and then overwritten only if the remote copy is strictly
// newer.
func (s *SyncService) Sync(ctx context.Context, ownerID string) (*SyncResult, error) {
	passID := uuid.NewString()
	logger := s.logger.With("pass_id", passID, "owner_id", ownerID)
	logger.Info("sync pass started")

	result := &SyncResult{}

	if err := s.push(ctx, ownerID, result, logger); err != nil {
		return nil, err
	}
	if err := s.markSeeded(ctx, ownerID, logger); err != nil {
		return nil, err
	}
	if err := s.pull(ctx, ownerID, result, logger); err != nil {
		return nil, err
	}

	books, err := s.store.ListBooks(ctx)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	collages, err := s.store.ListCollages(ctx)
	if err != nil {
		return nil, fmt.Errorf("list collages: %w", err)
	}
	result.Books = books
	result.Collages = collages

	logger.Info("sync pass finished",
		"pushed", result.Pushed,
		"push_failed", result.PushFailed,
		"pulled", result.Pulled,
		"applied", result.Applied,
	)
	return result, nil
}

// push uploads every local record as an idempotent upsert. Individual
// failures are logged and counted; the batch never aborts on one record.
func (s *SyncService) push(ctx context.Context, ownerID string, result *SyncResult, logger *slog.Logger) error {
	books, err := s.store.ListBooks(ctx)
	if err != nil {
		return fmt.Errorf("list books: %w", err)
	}
	for _, book := range books {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.remote.UpsertBook(ctx, wire.ToBook(book, ownerID)); err != nil {
			logger.Warn("push book failed", "book_id", book.ID, "error", err)
			result.PushFailed++
			continue
		}
		result.Pushed++
	}

	collages, err := s.store.ListCollages(ctx)
	if err != nil {
		return fmt.Errorf("list collages: %w", err)
	}
	for _, collage := range collages {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.remote.UpsertCollage(ctx, wire.ToCollage(collage, ownerID)); err != nil {
			logger.Warn("push collage failed", "collage_id", collage.ID, "error", err)
			result.PushFailed++
			continue
		}
		result.Pushed++
	}

	return nil
}

// markSeeded records that the owner's local library has been bulk-uploaded
// once. The push phase uploads everything unconditionally, so completing the
// first push is exactly the first-login seeding.
func (s *SyncService) markSeeded(ctx context.Context, ownerID string, logger *slog.Logger) error {
	key := cloudSeededKey(ownerID)
	seeded, err := s.store.GetMeta(ctx, key)
	if err != nil {
		return fmt.Errorf("get meta: %w", err)
	}
	if seeded != "" {
		return nil
	}
	if err := s.store.SetMeta(ctx, key, "true"); err != nil {
		return fmt.Errorf("set meta: %w", err)
	}
	logger.Info("seeded cloud with local library")
	return nil
}

// pull downloads the owner's remote records and applies every one that is
// strictly newer than, or missing from, the local store.
func (s *SyncService) pull(ctx context.Context, ownerID string, result *SyncResult, logger *slog.Logger) error {
	remoteBooks, err := s.remote.ListBooks(ctx, ownerID)
	if err != nil {
		return fmt.Errorf("pull books: %w", err)
	}
	result.Pulled += len(remoteBooks)

	for _, rb := range remoteBooks {
		if err := ctx.Err(); err != nil {
			return err
		}
		incoming := wire.FromBook(rb)

		local, err := s.store.GetBook(ctx, incoming.ID)
		switch {
		case errors.Is(err, store.ErrBookNotFound):
			// new on this device
		case err != nil:
			return fmt.Errorf("get book: %w", err)
		case !incoming.NewerThan(&local.Syncable):
			continue
		}

		if err := s.store.PutBook(ctx, incoming); err != nil {
			return fmt.Errorf("apply book: %w", err)
		}
		result.Applied++
		logger.Debug("applied remote book", "book_id", incoming.ID)
	}

	remoteCollages, err := s.remote.ListCollages(ctx, ownerID)
	if err != nil {
		return fmt.Errorf("pull collages: %w", err)
	}
	result.Pulled += len(remoteCollages)

	for _, rc := range remoteCollages {
		if err := ctx.Err(); err != nil {
			return err
		}
		incoming := wire.FromCollage(rc)

		local, err := s.store.GetCollage(ctx, incoming.ID)
		switch {
		case errors.Is(err, store.ErrCollageNotFound):
			// new on this device
		case err != nil:
			return fmt.Errorf("get collage: %w", err)
		case !incoming.NewerThan(&local.Syncable):
			continue
		}

		if err := s.store.PutCollage(ctx, incoming); err != nil {
			return fmt.Errorf("apply collage: %w", err)
		}
		result.Applied++
		logger.Debug("applied remote collage", "collage_id", incoming.ID)
	}

	return nil
}

// Pass is a handle to a background reconcile pass.
type Pass struct {
	done   chan struct{}
	cancel context.CancelFunc

	result *SyncResult
	err    error
}

// Done is closed when the pass finishes.
func (p *Pass) Done() <-chan struct{} { return p.done }

// Cancel stops the pass. The pass still finishes (with a context error) and
// closes Done.
func (p *Pass) Cancel() { p.cancel() }

// Wait blocks until the pass finishes or ctx expires.
func (p *Pass) Wait(ctx context.Context) (*SyncResult, error) {
	select {
	case <-p.done:
		return p.result, p.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Run starts a reconcile pass in the background and returns its handle.
// If a pass is already in flight the call coalesces onto it instead of
// starting another; concurrent passes over the same store would race their
// merges.
func (s *SyncService) Run(ctx context.Context, ownerID string) *Pass {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current != nil {
		select {
		case <-s.current.done:
			// finished, start fresh
		default:
			return s.current
		}
	}

	passCtx, cancel := context.WithCancel(ctx)
	pass := &Pass{
		done:   make(chan struct{}),
		cancel: cancel,
	}
	s.current = pass

	go func() {
		defer cancel()
		pass.result, pass.err = s.Sync(passCtx, ownerID)
		if pass.err != nil && !errors.Is(pass.err, context.Canceled) {
			s.logger.Error("background sync failed", "error", pass.err)
		}
		close(pass.done)
	}()

	return pass
}
