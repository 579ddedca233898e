package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/autodiag"
	"github.com/aretw0/autodiag/pkg/domain"
	"github.com/aretw0/autodiag/pkg/observability"
)

// createEngine initializes an engine with standard CLI conventions.
// Debug mode adds lifecycle logging on top of any hooks passed in.
func createEngine(ctx context.Context, path string, debug bool, logger *slog.Logger, hooks ...domain.LifecycleHooks) (*autodiag.Engine, error) {
	var merged domain.LifecycleHooks
	if debug {
		merged = observability.LoggingHooks(logger)
	}
	for _, h := range hooks {
		merged = merged.Merge(h)
	}

	engine, err := autodiag.NewContext(ctx, path,
		autodiag.WithLogger(logger),
		autodiag.WithLifecycleHooks(merged),
	)
	if err != nil {
		return nil, fmt.Errorf("error initializing engine: %w", err)
	}
	return engine, nil
}
