package dsl

import (
	"fmt"

	"github.com/aretw0/autodiag/pkg/adapters/memory"
	"github.com/aretw0/autodiag/pkg/domain"
)

// Builder manages the catalog construction.
// Questions and rules keep the order in which they were first added.
type Builder struct {
	name      string
	questions []*QuestionBuilder
	byID      map[string]*QuestionBuilder
	rules     []*RuleBuilder
}

// New creates a new catalog builder.
func New(name string) *Builder {
	return &Builder{
		name: name,
		byID: make(map[string]*QuestionBuilder),
	}
}

// Question adds a question to the graph.
// If the question already exists, it returns the existing builder.
func (b *Builder) Question(id string) *QuestionBuilder {
	if qb, ok := b.byID[id]; ok {
		return qb
	}
	qb := &QuestionBuilder{
		question: domain.Question{ID: id, Type: domain.QuestionBoolean},
	}
	b.byID[id] = qb
	b.questions = append(b.questions, qb)
	return qb
}

// Rule appends a rule to the knowledge base. Rules resolve in the order they are added.
func (b *Builder) Rule(id string) *RuleBuilder {
	rb := &RuleBuilder{
		rule: domain.Rule{ID: id, Conditions: make(map[string]bool)},
	}
	b.rules = append(b.rules, rb)
	return rb
}

// Build compiles the catalog into a memory Loader.
// The catalog is validated once here so builder mistakes surface early.
func (b *Builder) Build() (*memory.Loader, error) {
	questions := make([]domain.Question, 0, len(b.questions))
	for _, qb := range b.questions {
		questions = append(questions, qb.question)
	}
	rules := make([]domain.Rule, 0, len(b.rules))
	for _, rb := range b.rules {
		rules = append(rules, rb.rule)
	}

	if _, err := domain.NewQuestionGraph(questions...); err != nil {
		return nil, fmt.Errorf("failed to build catalog %s: %w", b.name, err)
	}
	if _, err := domain.NewKnowledgeBase(rules...); err != nil {
		return nil, fmt.Errorf("failed to build catalog %s: %w", b.name, err)
	}
	return memory.NewLoader(b.name, rules, questions), nil
}

// QuestionBuilder provides a fluent API for configuring a question.
type QuestionBuilder struct {
	question domain.Question
}

// Prompt sets the text shown to the user.
func (q *QuestionBuilder) Prompt(text string) *QuestionBuilder {
	q.question.Prompt = text
	return q
}

// When gates the question. Calling it again combines predicates with All.
func (q *QuestionBuilder) When(p domain.Predicate) *QuestionBuilder {
	if q.question.When.IsZero() {
		q.question.When = p
		return q
	}
	q.question.When = domain.All(q.question.When, p)
	return q
}

// RuleBuilder provides a fluent API for configuring a rule.
type RuleBuilder struct {
	rule domain.Rule
}

// If adds a required answer.
func (r *RuleBuilder) If(questionID string, value bool) *RuleBuilder {
	r.rule.Conditions[questionID] = value
	return r
}

// Diagnose sets the probable cause label.
func (r *RuleBuilder) Diagnose(label string) *RuleBuilder {
	r.rule.Diagnosis = label
	return r
}

// Describe sets the explanation.
func (r *RuleBuilder) Describe(text string) *RuleBuilder {
	r.rule.Description = text
	return r
}

// Recommend appends remediation steps in display order.
func (r *RuleBuilder) Recommend(steps ...string) *RuleBuilder {
	r.rule.Recommendations = append(r.rule.Recommendations, steps...)
	return r
}

// Severity sets the rule severity.
func (r *RuleBuilder) Severity(s domain.Severity) *RuleBuilder {
	r.rule.Severity = s
	return r
}
