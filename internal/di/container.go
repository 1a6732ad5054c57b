// Package di provides dependency injection configuration for the brain server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/secondbrain/brain-server/internal/auth"
	"github.com/secondbrain/brain-server/internal/config"
	"github.com/secondbrain/brain-server/internal/di/providers"
	"github.com/secondbrain/brain-server/internal/logger"
	"github.com/secondbrain/brain-server/internal/service"
	"github.com/secondbrain/brain-server/internal/validation"
)

// NewContainer creates and configures the DI container with all providers.
// Configuration is loaded from the process flags and environment.
func NewContainer() *do.RootScope {
	return newContainer(providers.ProvideConfig)
}

// NewContainerWithConfig is NewContainer with an already loaded configuration.
func NewContainerWithConfig(cfg *config.Config) *do.RootScope {
	return newContainer(func(do.Injector) (*config.Config, error) {
		return cfg, nil
	})
}

func newContainer(configProvider do.Provider[*config.Config]) *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, configProvider)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideSigningKey)

	// Database layer
	do.Provide(injector, providers.ProvideStore)

	// Auth layer
	do.Provide(injector, providers.ProvidePasswordHasher)
	do.Provide(injector, providers.ProvideTokenService)
	do.Provide(injector, providers.ProvideValidator)

	// Business services
	do.Provide(injector, providers.ProvideTagService)
	do.Provide(injector, providers.ProvideAuthService)
	do.Provide(injector, providers.ProvideContentService)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes the core services without starting the HTTP server.
// Failures surface here instead of on the first request.
func Bootstrap(injector do.Injector) error {
	if _, err := do.Invoke[*config.Config](injector); err != nil {
		return err
	}
	_ = do.MustInvoke[*logger.Logger](injector)

	if _, err := do.Invoke[*providers.StoreHandle](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*auth.TokenService](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*auth.Hasher](injector); err != nil {
		return err
	}
	_ = do.MustInvoke[*validation.Validator](injector)

	// Business services
	_ = do.MustInvoke[*service.TagService](injector)
	_ = do.MustInvoke[*service.AuthService](injector)
	_ = do.MustInvoke[*service.ContentService](injector)

	return nil
}

// Serve starts the HTTP server. It must follow a successful Bootstrap.
func Serve(injector do.Injector) (*providers.HTTPServerHandle, error) {
	return do.Invoke[*providers.HTTPServerHandle](injector)
}
