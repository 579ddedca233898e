package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/autodiag/internal/i18n"
	"github.com/aretw0/autodiag/pkg/domain"
)

// ErrTooManyRetries is returned when MaxRetries unreadable answers were given to one question.
var ErrTooManyRetries = errors.New("too many invalid answers")

// Runner drives question/answer sessions over an IOHandler.
type Runner struct {
	Handler    IOHandler
	Logger     *slog.Logger
	Localizer  *i18n.Localizer
	MaxRetries int
}

// NewRunner creates a Runner. Without options it talks plain text over stdin/stdout.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{}
	for _, opt := range opts {
		opt(r)
	}
	if r.Localizer == nil {
		r.Localizer = i18n.New("")
	}
	if r.Handler == nil {
		r.Handler = NewTextHandler(nil, nil, WithTextHandlerLocalizer(r.Localizer))
	}
	if r.Logger == nil {
		r.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return r
}

// Run executes one session: it asks every applicable question, then presents the report.
func (r *Runner) Run(ctx context.Context, engine Engine) (domain.Report, error) {
	answers := domain.NewAnswerSet()

	for {
		if err := ctx.Err(); err != nil {
			return domain.Report{}, err
		}

		q, ok := engine.NextQuestion(ctx, answers)
		if !ok {
			break
		}

		done, total := engine.Progress(answers)
		value, err := r.ask(ctx, q, done, total)
		if err != nil {
			return domain.Report{}, err
		}

		answers, err = engine.RecordAnswer(ctx, answers, q.ID, value)
		if err != nil {
			return domain.Report{}, fmt.Errorf("record answer: %w", err)
		}
	}

	report := engine.Diagnose(ctx, answers)
	if err := r.Handler.Report(ctx, report); err != nil {
		return report, fmt.Errorf("present report: %w", err)
	}
	return report, nil
}

// ask presents q until a yes/no answer is read.
func (r *Runner) ask(ctx context.Context, q domain.Question, done, total int) (bool, error) {
	if err := r.Handler.Question(ctx, q, done, total); err != nil {
		return false, fmt.Errorf("present question %s: %w", q.ID, err)
	}

	for attempt := 1; ; attempt++ {
		input, err := r.Handler.Input(ctx)
		if err != nil {
			return false, err
		}

		value, err := ParseAnswer(input)
		if err == nil {
			return value, nil
		}
		r.Logger.Debug("invalid answer", "question", q.ID, "input", input, "attempt", attempt)

		if r.MaxRetries > 0 && attempt >= r.MaxRetries {
			return false, fmt.Errorf("question %s: %w", q.ID, ErrTooManyRetries)
		}
		if err := r.Handler.SystemOutput(ctx, r.Localizer.T(i18n.InvalidChoice)); err != nil {
			return false, err
		}
	}
}

// Loop runs sessions until the user declines the restart prompt or input ends.
// It returns the number of completed sessions.
func (r *Runner) Loop(ctx context.Context, engine Engine) (int, error) {
	sessions := 0
	for {
		if _, err := r.Run(ctx, engine); err != nil {
			if errors.Is(err, io.EOF) {
				return sessions, nil
			}
			return sessions, err
		}
		sessions++

		if err := r.Handler.SystemOutput(ctx, r.Localizer.T(i18n.Restart)); err != nil {
			return sessions, err
		}
		reply, err := r.Handler.Input(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return sessions, err
		}
		if !i18n.IsYes(reply) {
			break
		}
	}

	if err := r.Handler.SystemOutput(ctx, r.Localizer.T(i18n.Goodbye)); err != nil {
		return sessions, err
	}
	return sessions, nil
}
