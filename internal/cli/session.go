package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aretw0/autodiag"
	"github.com/aretw0/autodiag/internal/i18n"
	"github.com/aretw0/autodiag/internal/presentation/tui"
	"github.com/aretw0/autodiag/pkg/runner"
)

// RunSession runs diagnoses until the user declines to restart (or once, with opts.Once).
func RunSession(opts RunOptions) error {
	sigCtx := NewSignalContext(context.Background())
	defer sigCtx.Cancel()
	return runSession(sigCtx, sigCtx.Cancel, opts)
}

func runSession(ctx context.Context, cancel func(), opts RunOptions) error {
	opts = withDefaults(opts)
	logger := createLogger(opts.Debug, opts.LogLevel)
	loc := i18n.New(opts.Locale)

	engine, err := createEngine(ctx, opts.KnowledgePath, opts.Debug, logger)
	if err != nil {
		return err
	}

	if opts.TUI {
		if isTerminal(opts.In) {
			logger.Debug("starting full-screen session")
			return handleExecutionError(tui.RunInteractive(ctx, engine, loc))
		}
		logger.Warn("--tui ignored: stdin is not a terminal")
	}

	if !opts.JSON {
		printWelcome(opts.Out, loc, autodiag.Version)
	}

	handler := createHandler(opts, loc)
	if !opts.JSON {
		handler = newCommandRouter(handler, cancel)
	}
	r := runner.NewRunner(createRunnerOptions(logger, loc, handler)...)

	if opts.Once {
		_, err = r.Run(ctx, engine)
	} else {
		var sessions int
		sessions, err = r.Loop(ctx, engine)
		logger.Info("sessions completed", "count", sessions)
	}

	if err != nil && isInterrupted(err) && !errors.Is(err, io.EOF) && !opts.JSON {
		fmt.Fprintf(opts.Out, "\n%s\n", loc.T(i18n.Cancelled))
	}
	return handleExecutionError(err)
}
