package cli

import (
	"context"
	"fmt"

	"github.com/aretw0/autodiag"
	"github.com/aretw0/autodiag/internal/i18n"
	"github.com/aretw0/autodiag/pkg/runner"
)

// RunWatch runs diagnoses in development mode, restarting the session whenever the
// catalog file changes. A catalog that fails to load keeps the previous one active.
func RunWatch(opts RunOptions) error {
	sigCtx := NewSignalContext(context.Background())
	defer sigCtx.Cancel()
	return runWatch(sigCtx, opts)
}

func runWatch(ctx context.Context, opts RunOptions) error {
	opts = withDefaults(opts)
	logger := createLogger(opts.Debug, opts.LogLevel)
	loc := i18n.New(opts.Locale)

	engine, err := createEngine(ctx, opts.KnowledgePath, opts.Debug, logger)
	if err != nil {
		return err
	}
	events, err := engine.Watch(ctx)
	if err != nil {
		return fmt.Errorf("failed to watch catalog: %w", err)
	}

	printWelcome(opts.Out, loc, autodiag.Version)
	logger.Info("Starting Watcher", "path", opts.KnowledgePath)
	printSystemMessage(opts.Out, "Watching '%s'.", opts.KnowledgePath)

	// One handler for every iteration so a single goroutine reads stdin.
	handler := createHandler(opts, loc)

	for {
		runCtx, runCancel := context.WithCancel(ctx)
		r := runner.NewRunner(createRunnerOptions(logger, loc, newCommandRouter(handler, runCancel))...)

		done := make(chan error, 1)
		go func() {
			_, err := r.Run(runCtx, engine)
			done <- err
		}()

		select {
		case <-ctx.Done():
			runCancel()
			<-done
			logger.Info("Stopping watcher (signal received)")
			return nil

		case event, ok := <-events:
			runCancel()
			<-done
			if !ok {
				return nil
			}
			reload(ctx, opts, engine, event)

		case err := <-done:
			if err != nil {
				quit := ctx.Err() == nil && runCtx.Err() != nil
				runCancel()
				switch {
				case !isInterrupted(err):
					logger.Error("Runtime error", "err", err)
					return err
				case quit:
					fmt.Fprintf(opts.Out, "\n%s\n", loc.T(i18n.Shutdown))
				}
				return nil
			}
			printSystemMessage(opts.Out, "Waiting for changes...")
			select {
			case <-ctx.Done():
				runCancel()
				return nil
			case event, ok := <-events:
				runCancel()
				if !ok {
					return nil
				}
				reload(ctx, opts, engine, event)
			}
		}
	}
}

func reload(ctx context.Context, opts RunOptions, engine *autodiag.Engine, event string) {
	fmt.Fprintln(opts.Out)
	printSystemMessage(opts.Out, "Change detected in '%s'.", event)
	if err := engine.Reload(ctx); err != nil {
		printSystemMessage(opts.Out, "Reload failed, keeping previous catalog: %v", err)
		return
	}
	printSystemMessage(opts.Out, "Catalog reloaded: %d questions, %d rules.", len(engine.Questions()), len(engine.Rules()))
}
