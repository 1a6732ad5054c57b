package providers

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/samber/do/v2"

	"github.com/secondbrain/brain-server/internal/api"
	"github.com/secondbrain/brain-server/internal/config"
	"github.com/secondbrain/brain-server/internal/logger"
	"github.com/secondbrain/brain-server/internal/service"
)

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
	// ListenAddr is the address the listener is bound to, which differs from
	// Server.Addr when port 0 was requested.
	ListenAddr string
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Server.Shutdown(ctx)
}

// ProvideHTTPServer provides the HTTP server. The listener is bound before
// returning so port conflicts fail the provider; requests are served in the
// background.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	services := &api.Services{
		Auth:    do.MustInvoke[*service.AuthService](i),
		Tag:     do.MustInvoke[*service.TagService](i),
		Content: do.MustInvoke[*service.ContentService](i),
	}

	opts := api.Options{
		PublicURL:      cfg.Server.PublicURL,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	}
	if cfg.Metrics.Enabled {
		opts.Metrics = api.NewMetrics()
	}

	handler := api.NewServer(storeHandle.Store, services, opts, log.Logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return nil, err
	}

	// Start in background
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("HTTP server error")
		}
	}()

	log.Info("Server running",
		"addr", ln.Addr().String(),
		"metrics", cfg.Metrics.Enabled,
		"token_format", cfg.Auth.TokenFormat,
	)

	return &HTTPServerHandle{Server: srv, ListenAddr: ln.Addr().String()}, nil
}
