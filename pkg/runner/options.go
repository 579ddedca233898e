package runner

import (
	"log/slog"

	"github.com/aretw0/autodiag/internal/i18n"
)

// Option defines a functional option for configuring the Runner.
type Option func(*Runner)

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.Logger = logger
	}
}

// WithInputHandler configures a custom IOHandler.
func WithInputHandler(handler IOHandler) Option {
	return func(r *Runner) {
		r.Handler = handler
	}
}

// WithLocalizer configures the language of runner messages.
func WithLocalizer(loc *i18n.Localizer) Option {
	return func(r *Runner) {
		r.Localizer = loc
	}
}

// WithMaxRetries bounds how many unreadable answers are tolerated per question. Zero means unlimited.
func WithMaxRetries(n int) Option {
	return func(r *Runner) {
		r.MaxRetries = n
	}
}
