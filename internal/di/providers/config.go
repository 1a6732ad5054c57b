// Package providers contains dependency injection providers for the brain server.
package providers

import (
	"github.com/samber/do/v2"

	"github.com/secondbrain/brain-server/internal/config"
	"github.com/secondbrain/brain-server/internal/logger"
)

// ProvideConfig provides the application configuration.
func ProvideConfig(i do.Injector) (*config.Config, error) {
	return config.LoadConfig()
}

// ProvideLogger provides the structured logger.
func ProvideLogger(i do.Injector) (*logger.Logger, error) {
	cfg := do.MustInvoke[*config.Config](i)

	log := logger.New(logger.Config{
		Level:       logger.ParseLevel(cfg.Logger.Level),
		AddSource:   cfg.App.Environment == config.EnvDevelopment,
		Environment: cfg.App.Environment,
	})

	log.Info("Starting brain server",
		"environment", cfg.App.Environment,
		"log_level", cfg.Logger.Level,
		"data_path", cfg.Storage.DataPath,
		"store_driver", cfg.Storage.Driver,
	)

	return log, nil
}
