package providers

import (
	"github.com/samber/do/v2"

	"github.com/moodmarkapp/moodmark-sync/internal/logger"
	"github.com/moodmarkapp/moodmark-sync/internal/service"
	"github.com/moodmarkapp/moodmark-sync/internal/validation"
)

// ProvideLibraryService provides the library CRUD service.
func ProvideLibraryService(i do.Injector) (*service.LibraryService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	remoteHandle := do.MustInvoke[*RemoteHandle](i)
	validator := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewLibraryService(storeHandle.Store, remoteHandle.Store, validator, log.Logger), nil
}

// ProvideImportService provides the bulk importer.
func ProvideImportService(i do.Injector) (*service.ImportService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	library := do.MustInvoke[*service.LibraryService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewImportService(storeHandle.Store, library, log.Logger), nil
}

// ProvideSyncService provides the sync orchestrator.
func ProvideSyncService(i do.Injector) (*service.SyncService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	remoteHandle := do.MustInvoke[*RemoteHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewSyncService(storeHandle.Store, remoteHandle.Store, log.Logger), nil
}
