package runtime

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/autodiag/pkg/domain"
	"github.com/aretw0/autodiag/pkg/ports"
)

// ErrNoCatalog is returned when the engine is used before a catalog was loaded.
var ErrNoCatalog = errors.New("catalog not loaded")

// Engine runs diagnostic sessions against a catalog.
// It holds no session state; every call receives the AnswerSet explicitly.
type Engine struct {
	loader ports.CatalogLoader
	hooks  domain.LifecycleHooks
	logger *slog.Logger

	mu      sync.RWMutex
	catalog *domain.Catalog
}

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewEngine creates an engine and loads the initial catalog from loader.
func NewEngine(ctx context.Context, loader ports.CatalogLoader, opts ...EngineOption) (*Engine, error) {
	e := &Engine{
		loader: loader,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}
	if err := e.Reload(ctx); err != nil {
		return nil, err
	}
	return e, nil
}

// Reload fetches a fresh catalog from the loader and swaps it in atomically.
// On failure the previous catalog stays active.
func (e *Engine) Reload(ctx context.Context) error {
	cat, err := e.loader.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}
	if cat == nil || cat.Knowledge == nil || cat.Questions == nil {
		return fmt.Errorf("failed to load catalog: %w", ErrNoCatalog)
	}

	e.mu.Lock()
	e.catalog = cat
	e.mu.Unlock()

	e.logger.Debug("catalog loaded",
		"catalog", cat.Name,
		"rules", cat.Knowledge.Len(),
		"questions", cat.Questions.Len(),
	)
	return nil
}

// Catalog returns the active catalog.
func (e *Engine) Catalog() *domain.Catalog {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.catalog
}

// Rules returns the knowledge base rules in priority order.
func (e *Engine) Rules() []domain.Rule {
	return e.Catalog().Knowledge.AllRules()
}

// Questions returns the question graph in declaration order.
func (e *Engine) Questions() []domain.Question {
	return e.Catalog().Questions.Questions()
}

// NextQuestion returns the next applicable question and fires OnQuestion.
func (e *Engine) NextQuestion(ctx context.Context, answers domain.AnswerSet) (domain.Question, bool) {
	graph := e.Catalog().Questions
	q, ok := NextQuestion(graph, answers)
	if !ok {
		return q, false
	}

	e.logger.Debug("question offered", "question", q.ID, "answered", len(answers))
	if e.hooks.OnQuestion != nil {
		e.hooks.OnQuestion(ctx, &domain.QuestionEvent{
			EventBase:  domain.EventBase{Timestamp: time.Now(), Type: domain.EventQuestionOffered},
			QuestionID: q.ID,
			Done:       len(answers),
		})
	}
	return q, true
}

// RecordAnswer returns answers extended with id = value and fires OnAnswer.
func (e *Engine) RecordAnswer(ctx context.Context, answers domain.AnswerSet, id string, value bool) (domain.AnswerSet, error) {
	next, err := RecordAnswer(e.Catalog().Questions, answers, id, value)
	if err != nil {
		e.logger.Debug("answer rejected", "question", id, "error", err)
		return nil, err
	}

	e.logger.Debug("answer recorded", "question", id, "value", value)
	if e.hooks.OnAnswer != nil {
		e.hooks.OnAnswer(ctx, &domain.QuestionEvent{
			EventBase:  domain.EventBase{Timestamp: time.Now(), Type: domain.EventAnswerRecorded},
			QuestionID: id,
			Value:      value,
			Done:       len(next),
		})
	}
	return next, nil
}

// Resolve returns the first matching rule.
func (e *Engine) Resolve(answers domain.AnswerSet) (domain.Rule, bool) {
	return Resolve(e.Catalog().Knowledge.AllRules(), answers)
}

// SummarizeSymptoms lists the prompts answered true.
func (e *Engine) SummarizeSymptoms(answers domain.AnswerSet) []string {
	return SummarizeSymptoms(e.Questions(), answers)
}

// Progress reports answered and estimated total questions.
func (e *Engine) Progress(answers domain.AnswerSet) (done, total int) {
	return Progress(e.Catalog().Questions, answers)
}

// ValidateAnswers rejects answer sets the questionnaire could not have produced.
func (e *Engine) ValidateAnswers(answers domain.AnswerSet) error {
	return ValidateAnswers(e.Catalog().Questions, answers)
}

// Diagnose builds the final report for answers and fires OnDiagnosis.
func (e *Engine) Diagnose(ctx context.Context, answers domain.AnswerSet) domain.Report {
	cat := e.Catalog()
	report := domain.Report{
		Answers:  answers.Clone(),
		Symptoms: SummarizeSymptoms(cat.Questions.Questions(), answers),
	}

	evt := &domain.DiagnosisEvent{
		EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventDiagnosis},
		Answered:  len(answers),
	}
	if rule, ok := Resolve(cat.Knowledge.AllRules(), answers); ok {
		report.Rule = &rule
		evt.Found = true
		evt.RuleID = rule.ID
		evt.Severity = rule.Severity
		e.logger.Info("diagnosis found", "rule", rule.ID, "severity", rule.Severity)
	} else {
		e.logger.Info("no diagnosis", "answered", len(answers))
	}

	if e.hooks.OnDiagnosis != nil {
		e.hooks.OnDiagnosis(ctx, evt)
	}
	return report
}
