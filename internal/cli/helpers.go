package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/aretw0/autodiag/internal/i18n"
	"github.com/aretw0/autodiag/internal/logging"
	"github.com/aretw0/autodiag/internal/presentation/tui"
	"github.com/aretw0/autodiag/pkg/runner"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"
)

// SignalContext wraps a context and captures the signal that cancelled it.
type SignalContext struct {
	context.Context
	Cancel func()
	start  sync.Once
	stop   sync.Once
	sigCh  chan os.Signal
	sigVal os.Signal
	mu     sync.Mutex
}

// NewSignalContext creates a context that is cancelled on SIGINT or SIGTERM.
// It acts as a drop-in replacement for signal.NotifyContext but allows retrieving the signal.
func NewSignalContext(parent context.Context) *SignalContext {
	ctx, cancel := context.WithCancel(parent)
	sc := &SignalContext{
		Context: ctx,
		Cancel:  cancel,
		sigCh:   make(chan os.Signal, 1),
	}

	sc.start.Do(func() {
		signal.Notify(sc.sigCh, os.Interrupt, syscall.SIGTERM)
		go func() {
			select {
			case sig := <-sc.sigCh:
				sc.mu.Lock()
				sc.sigVal = sig
				sc.mu.Unlock()
				sc.Cancel()
			case <-sc.Context.Done():
			}
			sc.stop.Do(func() {
				signal.Stop(sc.sigCh)
			})
		}()
	})

	return sc
}

// Signal returns the signal that caused the context to be cancelled, or nil.
func (sc *SignalContext) Signal() os.Signal {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.sigVal
}

// createLogger configures the application logger.
// Interactive sessions stay quiet unless debug is on; logs go to stderr either way.
func createLogger(debug bool, level string) *slog.Logger {
	if debug {
		return logging.New(slog.LevelDebug)
	}
	if level == "" {
		return logging.NewNop()
	}
	lvl, err := logging.ParseLevel(level)
	if err != nil || lvl < slog.LevelWarn {
		lvl = slog.LevelWarn
	}
	return logging.New(lvl)
}

// createServerLogger logs at the configured level; servers have no prompt to protect.
func createServerLogger(debug bool, level string) *slog.Logger {
	if debug {
		return logging.New(slog.LevelDebug)
	}
	lvl, err := logging.ParseLevel(level)
	if err != nil {
		lvl = slog.LevelInfo
	}
	return logging.New(lvl)
}

// printSystemMessage prints a standardized system message.
func printSystemMessage(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, ">>> %s\n", fmt.Sprintf(format, args...))
}

func isInterrupted(err error) bool {
	return errors.Is(err, context.Canceled) ||
		errors.Is(err, io.EOF) ||
		errors.Is(err, tea.ErrProgramKilled) ||
		errors.Is(err, tea.ErrInterrupted)
}

func handleExecutionError(err error) error {
	if err == nil || isInterrupted(err) {
		return nil
	}
	return err
}

// isTerminal reports whether r is an interactive terminal.
func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func withDefaults(opts RunOptions) RunOptions {
	if opts.In == nil {
		opts.In = os.Stdin
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	return opts
}

// createHandler picks the IOHandler for the requested mode.
func createHandler(opts RunOptions, loc *i18n.Localizer) runner.IOHandler {
	if opts.JSON {
		return runner.NewJSONHandler(opts.In, opts.Out)
	}
	textOpts := []runner.TextHandlerOption{
		runner.WithTextHandlerLocalizer(loc),
		runner.WithClearScreen(opts.Clear),
	}
	if isTerminal(opts.In) {
		textOpts = append(textOpts, runner.WithTextHandlerRenderer(tui.NewRenderer()))
	}
	return runner.NewTextHandler(opts.In, opts.Out, textOpts...)
}

// createRunnerOptions prepares the functional options for the Runner.
func createRunnerOptions(logger *slog.Logger, loc *i18n.Localizer, handler runner.IOHandler) []runner.Option {
	return []runner.Option{
		runner.WithLogger(logger),
		runner.WithLocalizer(loc),
		runner.WithInputHandler(handler),
	}
}

func printWelcome(w io.Writer, loc *i18n.Localizer, version string) {
	tui.PrintBanner(w, loc.T(i18n.Title), loc.T(i18n.Subtitle), version)
	fmt.Fprintf(w, "\n%s\n%s\n", loc.T(i18n.Welcome), loc.T(i18n.Intro))
}
