package runner

import (
	"context"

	"github.com/aretw0/autodiag/pkg/domain"
)

// IOHandler defines the strategy for interacting with the user.
// This allows switching between Text (CLI) and JSON (Structured) modes.
type IOHandler interface {
	// Question presents q. done and total describe session progress.
	Question(ctx context.Context, q domain.Question, done, total int) error

	// Input reads a raw response from the user.
	Input(ctx context.Context) (string, error)

	// Report presents the outcome of a completed session.
	Report(ctx context.Context, report domain.Report) error

	// SystemOutput presents a meta-message to the user (retry hints, restart prompt).
	SystemOutput(ctx context.Context, msg string) error
}

// Engine is the subset of the autodiag engine the runner drives.
type Engine interface {
	NextQuestion(ctx context.Context, answers domain.AnswerSet) (domain.Question, bool)
	RecordAnswer(ctx context.Context, answers domain.AnswerSet, id string, value bool) (domain.AnswerSet, error)
	Diagnose(ctx context.Context, answers domain.AnswerSet) domain.Report
	Progress(answers domain.AnswerSet) (done, total int)
}

// ContentRenderer is a function that transforms markdown before outputting it.
// This allows for TUI rendering (markdown to ANSI) without coupling the core package.
type ContentRenderer func(string) (string, error)
