// Package di provides dependency injection configuration for the sync engine.
package di

import (
	"github.com/samber/do/v2"

	"github.com/moodmarkapp/moodmark-sync/internal/config"
	"github.com/moodmarkapp/moodmark-sync/internal/di/providers"
	"github.com/moodmarkapp/moodmark-sync/internal/logger"
	"github.com/moodmarkapp/moodmark-sync/internal/service"
	"github.com/moodmarkapp/moodmark-sync/internal/validation"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideValidator)

	// Storage layer
	do.Provide(injector, providers.ProvideStore)
	do.Provide(injector, providers.ProvideRemote)

	// Engine services
	do.Provide(injector, providers.ProvideLibraryService)
	do.Provide(injector, providers.ProvideImportService)
	do.Provide(injector, providers.ProvideSyncService)

	return injector
}

// Bootstrap initializes all services and returns once they are ready.
// Invoking each service triggers lazy initialization in dependency order.
func Bootstrap(injector *do.RootScope) error {
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[*validation.Validator](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)
	_ = do.MustInvoke[*providers.RemoteHandle](injector)
	_ = do.MustInvoke[*service.LibraryService](injector)
	_ = do.MustInvoke[*service.ImportService](injector)
	_ = do.MustInvoke[*service.SyncService](injector)

	return nil
}
