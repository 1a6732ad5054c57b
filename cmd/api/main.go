// Package main provides the entry point for the brain server.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/samber/do/v2"

	"github.com/secondbrain/brain-server/internal/di"
	"github.com/secondbrain/brain-server/internal/logger"
)

func main() {
	// Create DI container
	injector := di.NewContainer()

	if err := di.Bootstrap(injector); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bootstrap server: %v\n", err)
		os.Exit(1)
	}

	log := do.MustInvoke[*logger.Logger](injector)

	if _, err := di.Serve(injector); err != nil {
		_ = injector.Shutdown()
		log.WithError(err).Fatal("Failed to start HTTP server")
	}

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server gracefully...")

	// The container stops the HTTP server before closing the store it depends on.
	if err := injector.Shutdown(); err != nil {
		log.Error("Shutdown error", "error", err)
	}

	log.Info("Server stopped")
}
