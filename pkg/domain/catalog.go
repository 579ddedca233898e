package domain

import "fmt"

// KnowledgeBase is the ordered, immutable rule collection.
// Declaration order is the resolution priority.
type KnowledgeBase struct {
	rules []Rule
	index map[string]int
}

// NewKnowledgeBase validates and freezes rules.
// Rules without an ID are named "rule<N>" after their 1-based position.
// Rules without a severity get DefaultSeverity.
func NewKnowledgeBase(rules ...Rule) (*KnowledgeBase, error) {
	kb := &KnowledgeBase{
		rules: make([]Rule, 0, len(rules)),
		index: make(map[string]int, len(rules)),
	}
	for i, r := range rules {
		r = r.clone()
		if r.ID == "" {
			r.ID = fmt.Sprintf("rule%d", i+1)
		}
		if r.Severity == "" {
			r.Severity = DefaultSeverity
		}
		if err := validateRule(r); err != nil {
			return nil, err
		}
		if _, dup := kb.index[r.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate id %q", ErrInvalidRule, r.ID)
		}
		kb.index[r.ID] = len(kb.rules)
		kb.rules = append(kb.rules, r)
	}
	return kb, nil
}

func validateRule(r Rule) error {
	if len(r.Conditions) == 0 {
		return fmt.Errorf("%w: %s has no conditions", ErrInvalidRule, r.ID)
	}
	if r.Diagnosis == "" {
		return fmt.Errorf("%w: %s has no diagnosis", ErrInvalidRule, r.ID)
	}
	if !r.Severity.Valid() {
		return fmt.Errorf("%w: %s has unknown severity %q", ErrInvalidRule, r.ID, r.Severity)
	}
	for key := range r.Conditions {
		if key == "" {
			return fmt.Errorf("%w: %s has an empty condition key", ErrInvalidRule, r.ID)
		}
	}
	return nil
}

// AllRules returns the rules in priority order.
// The returned slice is a copy and may be modified by the caller.
func (kb *KnowledgeBase) AllRules() []Rule {
	if kb == nil {
		return nil
	}
	out := make([]Rule, len(kb.rules))
	for i, r := range kb.rules {
		out[i] = r.clone()
	}
	return out
}

// Rule looks up a rule by id.
func (kb *KnowledgeBase) Rule(id string) (Rule, bool) {
	if kb == nil {
		return Rule{}, false
	}
	i, ok := kb.index[id]
	if !ok {
		return Rule{}, false
	}
	return kb.rules[i].clone(), true
}

// Len returns the number of rules.
func (kb *KnowledgeBase) Len() int {
	if kb == nil {
		return 0
	}
	return len(kb.rules)
}

// QuestionGraph is the ordered, immutable question collection.
type QuestionGraph struct {
	questions []Question
	index     map[string]int
}

// NewQuestionGraph validates and freezes questions in declaration order.
func NewQuestionGraph(questions ...Question) (*QuestionGraph, error) {
	g := &QuestionGraph{
		questions: make([]Question, 0, len(questions)),
		index:     make(map[string]int, len(questions)),
	}
	for _, q := range questions {
		if q.ID == "" {
			return nil, fmt.Errorf("%w: question at position %d has no id", ErrInvalidQuestion, len(g.questions)+1)
		}
		if _, dup := g.index[q.ID]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateQuestion, q.ID)
		}
		if q.Type == "" {
			q.Type = QuestionBoolean
		}
		if q.Type != QuestionBoolean {
			return nil, fmt.Errorf("%w: %s has unsupported type %q", ErrInvalidQuestion, q.ID, q.Type)
		}
		if err := q.When.Validate(); err != nil {
			return nil, fmt.Errorf("question %s: %w", q.ID, err)
		}
		q.When = q.When.clone()
		g.index[q.ID] = len(g.questions)
		g.questions = append(g.questions, q)
	}
	return g, nil
}

// Questions returns the questions in declaration order.
func (g *QuestionGraph) Questions() []Question {
	if g == nil {
		return nil
	}
	out := make([]Question, len(g.questions))
	for i, q := range g.questions {
		q.When = q.When.clone()
		out[i] = q
	}
	return out
}

// Question looks up a question by id.
func (g *QuestionGraph) Question(id string) (Question, bool) {
	i := g.Position(id)
	if i < 0 {
		return Question{}, false
	}
	return g.At(i), true
}

// Position returns the declaration index of id, or -1.
func (g *QuestionGraph) Position(id string) int {
	if g == nil {
		return -1
	}
	i, ok := g.index[id]
	if !ok {
		return -1
	}
	return i
}

// At returns the question at declaration index i. It panics when i is out of range.
func (g *QuestionGraph) At(i int) Question {
	q := g.questions[i]
	q.When = q.When.clone()
	return q
}

// Len returns the number of questions.
func (g *QuestionGraph) Len() int {
	if g == nil {
		return 0
	}
	return len(g.questions)
}

// Catalog bundles the static knowledge a session runs against.
type Catalog struct {
	Name      string
	Knowledge *KnowledgeBase
	Questions *QuestionGraph
}
