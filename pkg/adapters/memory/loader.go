package memory

import (
	"context"
	"fmt"

	"github.com/aretw0/autodiag/pkg/domain"
)

// Loader implements ports.CatalogLoader over rules and questions held in memory.
type Loader struct {
	name      string
	rules     []domain.Rule
	questions []domain.Question
}

// NewLoader creates a Loader from domain objects.
// Validation happens on Load, so malformed input surfaces when the engine starts.
func NewLoader(name string, rules []domain.Rule, questions []domain.Question) *Loader {
	return &Loader{
		name:      name,
		rules:     append([]domain.Rule(nil), rules...),
		questions: append([]domain.Question(nil), questions...),
	}
}

// Load builds a fresh, validated catalog.
func (l *Loader) Load(ctx context.Context) (*domain.Catalog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	kb, err := domain.NewKnowledgeBase(l.rules...)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", l.name, err)
	}
	graph, err := domain.NewQuestionGraph(l.questions...)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", l.name, err)
	}
	return &domain.Catalog{Name: l.name, Knowledge: kb, Questions: graph}, nil
}
