package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/autodiag"
	httpAdapter "github.com/aretw0/autodiag/pkg/adapters/http"
	"github.com/aretw0/autodiag/pkg/observability"
)

// ServeOptions configures the HTTP server.
type ServeOptions struct {
	KnowledgePath string
	Addr          string
	LogLevel      string
	Debug         bool
	Metrics       bool
	Watch         bool
}

// BuildServer wires the engine, metrics and HTTP adapter without listening.
func BuildServer(ctx context.Context, opts ServeOptions, logger *slog.Logger) (*httpAdapter.Server, *autodiag.Engine, error) {
	var httpOpts []httpAdapter.Option
	var engine *autodiag.Engine
	var err error

	if opts.Metrics {
		metrics := observability.NewMetrics()
		engine, err = createEngine(ctx, opts.KnowledgePath, opts.Debug, logger, metrics.Hooks())
		httpOpts = append(httpOpts, httpAdapter.WithMetricsHandler(metrics.Handler()))
	} else {
		engine, err = createEngine(ctx, opts.KnowledgePath, opts.Debug, logger)
	}
	if err != nil {
		return nil, nil, err
	}

	httpOpts = append(httpOpts,
		httpAdapter.WithLogger(logger),
		httpAdapter.WithVersion(autodiag.Version),
	)
	return httpAdapter.NewServer(engine, httpOpts...), engine, nil
}

// RunServe serves the HTTP API until SIGINT or SIGTERM.
func RunServe(opts ServeOptions) error {
	sigCtx := NewSignalContext(context.Background())
	defer sigCtx.Cancel()

	logger := createServerLogger(opts.Debug, opts.LogLevel)

	server, engine, err := BuildServer(sigCtx, opts, logger)
	if err != nil {
		return err
	}

	if opts.Watch {
		if err := watchAndNotify(sigCtx, engine, server, logger); err != nil {
			return err
		}
	}

	srv := &http.Server{
		Addr:              opts.Addr,
		Handler:           server.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("Starting autodiag server", "addr", srv.Addr, "catalog", engine.Name)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)

	case <-sigCtx.Done():
		logger.Info("Start shutdown", "signal", sigCtx.Signal())

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Graceful shutdown did not complete", "err", err)
			if err := srv.Close(); err != nil {
				return fmt.Errorf("error killing server: %w", err)
			}
		}
		logger.Info("Server stopped gracefully")
		return nil
	}
}

// watchAndNotify reloads the catalog on change and announces it to /events subscribers.
func watchAndNotify(ctx context.Context, engine *autodiag.Engine, server *httpAdapter.Server, logger *slog.Logger) error {
	events, err := engine.Watch(ctx)
	if err != nil {
		return fmt.Errorf("failed to watch catalog: %w", err)
	}
	go func() {
		for event := range events {
			if err := engine.Reload(ctx); err != nil {
				logger.Error("Reload failed, keeping previous catalog", "file", event, "err", err)
				continue
			}
			logger.Info("Catalog reloaded", "file", event, "rules", len(engine.Rules()))
			server.Notify("reload")
		}
	}()
	return nil
}
