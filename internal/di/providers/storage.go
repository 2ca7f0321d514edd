package providers

import (
	"path/filepath"

	"github.com/samber/do/v2"

	"github.com/moodmarkapp/moodmark-sync/internal/config"
	"github.com/moodmarkapp/moodmark-sync/internal/logger"
	"github.com/moodmarkapp/moodmark-sync/internal/remote"
	"github.com/moodmarkapp/moodmark-sync/internal/store"
)

// StoreHandle wraps the local store with shutdown capability.
type StoreHandle struct {
	*store.Store
}

// Shutdown implements do.Shutdownable.
func (h *StoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideStore provides the device-local datastore.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	dbPath := filepath.Join(cfg.Data.BasePath, "db")
	db, err := store.New(dbPath, log.Logger)
	if err != nil {
		return nil, err
	}

	log.Info("Local store opened", "path", dbPath)

	return &StoreHandle{Store: db}, nil
}

// RemoteHandle carries the remote store adapter. Store is nil when no remote
// is configured and the engine runs local-only.
type RemoteHandle struct {
	Store remote.Store
}

// ProvideRemote provides the remote store adapter when one is configured.
func ProvideRemote(i do.Injector) (*RemoteHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if !cfg.HasRemote() {
		log.Info("No remote configured, running local-only")
		return &RemoteHandle{}, nil
	}

	client := remote.NewClient(remote.ClientConfig{
		BaseURL: cfg.Remote.BaseURL,
		Token:   cfg.Remote.Token,
		Timeout: cfg.Remote.Timeout,
		RPS:     cfg.Remote.RPS,
		Burst:   cfg.Remote.Burst,
	}, log.Logger)

	log.Info("Remote store configured", "base_url", cfg.Remote.BaseURL)

	return &RemoteHandle{Store: client}, nil
}
