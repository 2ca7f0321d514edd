// Package main provides the entry point for the Moodmark sync daemon.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/samber/do/v2"

	"github.com/moodmarkapp/moodmark-sync/internal/config"
	"github.com/moodmarkapp/moodmark-sync/internal/di"
	"github.com/moodmarkapp/moodmark-sync/internal/di/providers"
	"github.com/moodmarkapp/moodmark-sync/internal/logger"
	"github.com/moodmarkapp/moodmark-sync/internal/service"
)

func main() {
	injector := di.NewContainer()

	if err := di.Bootstrap(injector); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bootstrap sync engine: %v\n", err)
		os.Exit(1)
	}

	log := do.MustInvoke[*logger.Logger](injector)
	cfg := do.MustInvoke[*config.Config](injector)
	library := do.MustInvoke[*service.LibraryService](injector)
	syncer := do.MustInvoke[*service.SyncService](injector)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	books, err := library.ListBooks(ctx)
	if err != nil {
		log.Error("Failed to load library", "error", err)
		os.Exit(1)
	}
	log.Info("Library loaded", "books", len(books))

	// Kick a background reconcile when a session is configured. SIGHUP
	// triggers another pass; an in-flight pass absorbs the trigger.
	if cfg.HasRemote() {
		syncer.Run(ctx, cfg.Remote.OwnerID)
	}

	resync := make(chan os.Signal, 1)
	signal.Notify(resync, syscall.SIGHUP)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-resync:
			if !cfg.HasRemote() {
				log.Warn("Resync requested but no remote is configured")
				continue
			}
			log.Info("Resync requested")
			syncer.Run(ctx, cfg.Remote.OwnerID)

		case <-quit:
			log.Info("Shutting down...")
			cancel()

			if err := injector.Shutdown(); err != nil {
				log.Error("Shutdown error", "error", err)
			}

			// The store handle closes the database via do.Shutdownable, but
			// make sure even if container shutdown errored out early.
			if storeHandle, err := do.Invoke[*providers.StoreHandle](injector); err == nil {
				if err := storeHandle.Shutdown(); err != nil {
					log.Error("Failed to close local store", "error", err)
				}
			}

			log.Info("Goodbye")
			return
		}
	}
}
