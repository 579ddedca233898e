package autodiag

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/aretw0/autodiag/internal/logging"
	"github.com/aretw0/autodiag/internal/runtime"
	"github.com/aretw0/autodiag/pkg/adapters/file"
	"github.com/aretw0/autodiag/pkg/adapters/memory"
	"github.com/aretw0/autodiag/pkg/domain"
	"github.com/aretw0/autodiag/pkg/ports"
)

// Engine is the high-level entry point for the autodiag library.
// It wraps the internal runtime and provides a simplified API for consumers.
type Engine struct {
	runtime *runtime.Engine
	loader  ports.CatalogLoader
	hooks   domain.LifecycleHooks
	logger  *slog.Logger
	Name    string
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLoader injects a custom CatalogLoader, bypassing the default file and built-in catalogs.
func WithLoader(l ports.CatalogLoader) Option {
	return func(e *Engine) {
		e.loader = l
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// New initializes a new Engine.
// With an empty path it serves the built-in vehicle catalog; otherwise it reads the
// YAML or JSON catalog at path. A WithLoader option takes precedence over both.
func New(path string, opts ...Option) (*Engine, error) {
	return NewContext(context.Background(), path, opts...)
}

// NewContext is New with a context bounding the initial catalog load.
func NewContext(ctx context.Context, path string, opts ...Option) (*Engine, error) {
	eng := &Engine{}
	for _, opt := range opts {
		opt(eng)
	}

	switch {
	case eng.loader != nil:
		if path != "" {
			eng.Name = filepath.Base(path)
		}
	case path == "":
		eng.loader = memory.Vehicle()
		eng.Name = memory.VehicleCatalogName
	default:
		fl, err := file.New(path)
		if err != nil {
			return nil, fmt.Errorf("invalid path: %w", err)
		}
		eng.loader = fl
		eng.Name = strings.TrimSuffix(filepath.Base(fl.Path()), filepath.Ext(fl.Path()))
	}

	if eng.logger == nil {
		eng.logger = logging.NewNop()
	}
	if eng.Name != "" {
		eng.logger = eng.logger.With("catalog", eng.Name)
	}

	rt, err := runtime.NewEngine(ctx, eng.loader,
		runtime.WithLifecycleHooks(eng.hooks),
		runtime.WithLogger(eng.logger),
	)
	if err != nil {
		return nil, err
	}
	eng.runtime = rt
	return eng, nil
}

// Rules returns the knowledge base rules in priority order.
func (e *Engine) Rules() []domain.Rule {
	return e.runtime.Rules()
}

// Questions returns the questionnaire in declaration order.
func (e *Engine) Questions() []domain.Question {
	return e.runtime.Questions()
}

// Catalog returns the active catalog.
func (e *Engine) Catalog() *domain.Catalog {
	return e.runtime.Catalog()
}

// NextQuestion returns the next question to ask, or false when the session is complete.
func (e *Engine) NextQuestion(ctx context.Context, answers domain.AnswerSet) (domain.Question, bool) {
	return e.runtime.NextQuestion(ctx, answers)
}

// RecordAnswer returns a new AnswerSet with id = value. answers is not modified.
func (e *Engine) RecordAnswer(ctx context.Context, answers domain.AnswerSet, id string, value bool) (domain.AnswerSet, error) {
	return e.runtime.RecordAnswer(ctx, answers, id, value)
}

// Resolve returns the first rule whose conditions all hold.
func (e *Engine) Resolve(answers domain.AnswerSet) (domain.Rule, bool) {
	return e.runtime.Resolve(answers)
}

// SummarizeSymptoms lists the prompts answered true, in declaration order.
func (e *Engine) SummarizeSymptoms(answers domain.AnswerSet) []string {
	return e.runtime.SummarizeSymptoms(answers)
}

// Diagnose bundles the symptom summary and the resolved rule.
func (e *Engine) Diagnose(ctx context.Context, answers domain.AnswerSet) domain.Report {
	return e.runtime.Diagnose(ctx, answers)
}

// Progress reports answered questions and the estimated session length.
func (e *Engine) Progress(answers domain.AnswerSet) (done, total int) {
	return e.runtime.Progress(answers)
}

// ValidateAnswers rejects answer sets the questionnaire could not have produced.
func (e *Engine) ValidateAnswers(answers domain.AnswerSet) error {
	return e.runtime.ValidateAnswers(answers)
}

// Reload re-reads the catalog. The previous catalog stays active on failure.
func (e *Engine) Reload(ctx context.Context) error {
	return e.runtime.Reload(ctx)
}

// Watch returns a channel that signals when the underlying catalog changes.
// Returns error if the loader does not support watching.
func (e *Engine) Watch(ctx context.Context) (<-chan string, error) {
	if w, ok := e.loader.(ports.Watchable); ok {
		return w.Watch(ctx)
	}
	return nil, fmt.Errorf("current loader does not support watching")
}

// Loader returns the underlying CatalogLoader used by the engine.
func (e *Engine) Loader() ports.CatalogLoader {
	return e.loader
}
