package cli

import (
	"context"
	"strings"

	"github.com/aretw0/autodiag/pkg/runner"
)

// quitCommands end the session from the text prompt.
var quitCommands = map[string]bool{
	"q":     true,
	"quit":  true,
	"exit":  true,
	"salir": true,
}

// commandRouter intercepts shell-style commands before answers reach the runner.
// JSON mode does not use it: every line there is data.
type commandRouter struct {
	runner.IOHandler
	shutdown func()
}

func newCommandRouter(handler runner.IOHandler, shutdown func()) *commandRouter {
	return &commandRouter{IOHandler: handler, shutdown: shutdown}
}

// Input forwards answers and turns quit commands into a cancellation.
func (r *commandRouter) Input(ctx context.Context) (string, error) {
	line, err := r.IOHandler.Input(ctx)
	if err != nil {
		return line, err
	}
	if quitCommands[strings.ToLower(strings.TrimSpace(line))] {
		if r.shutdown != nil {
			r.shutdown()
		}
		return "", context.Canceled
	}
	return line, nil
}
