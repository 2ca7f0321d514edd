// Package providers contains dependency injection providers for the sync engine.
package providers

import (
	"github.com/samber/do/v2"

	"github.com/moodmarkapp/moodmark-sync/internal/config"
	"github.com/moodmarkapp/moodmark-sync/internal/logger"
	"github.com/moodmarkapp/moodmark-sync/internal/validation"
)

// ProvideConfig provides the engine configuration.
func ProvideConfig(i do.Injector) (*config.Config, error) {
	return config.Load()
}

// ProvideLogger provides the structured logger.
func ProvideLogger(i do.Injector) (*logger.Logger, error) {
	cfg := do.MustInvoke[*config.Config](i)

	log := logger.New(logger.Config{
		Level:       logger.ParseLevel(cfg.Logger.Level),
		Environment: cfg.App.Environment,
	})

	log.Info("Starting Moodmark sync engine",
		"environment", cfg.App.Environment,
		"log_level", cfg.Logger.Level,
		"data_path", cfg.Data.BasePath,
		"remote_configured", cfg.HasRemote(),
	)

	return log, nil
}

// ProvideValidator provides the struct validator.
func ProvideValidator(i do.Injector) (*validation.Validator, error) {
	return validation.New(), nil
}
