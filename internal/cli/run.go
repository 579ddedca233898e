// Package cli implements the interactive and server commands of the autodiag binary.
package cli

import (
	"errors"
	"io"
)

// RunOptions contains all the configuration for the run command.
type RunOptions struct {
	KnowledgePath string
	Locale        string
	LogLevel      string
	Debug         bool

	// JSON switches to NDJSON events on stdout and JSON/raw answers on stdin.
	JSON bool
	// TUI requests the full-screen questionnaire. Ignored when stdin is not a terminal.
	TUI bool
	// Once stops after a single diagnosis instead of offering a restart.
	Once bool
	// Watch restarts the session whenever the catalog file changes.
	Watch bool
	// Clear wipes the terminal before every question.
	Clear bool

	In  io.Reader
	Out io.Writer
}

// Execute handles the run command logic, dispatching to Session or Watch mode.
func Execute(opts RunOptions) error {
	if opts.Watch {
		if opts.KnowledgePath == "" {
			return errors.New("--watch requires a catalog file (--knowledge)")
		}
		if opts.JSON || opts.TUI {
			return errors.New("--watch cannot be combined with --json or --tui")
		}
		return RunWatch(opts)
	}
	return RunSession(opts)
}
