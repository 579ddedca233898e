package domain

// QuestionType defines the kind of answer a question accepts.
type QuestionType string

const (
	// QuestionBoolean accepts a yes/no answer.
	QuestionBoolean QuestionType = "boolean"
)

// Question is a promptable unit of input.
type Question struct {
	// ID is unique across the graph and doubles as the answer key.
	ID     string       `json:"id" yaml:"id" mapstructure:"id"`
	Prompt string       `json:"prompt" yaml:"prompt" mapstructure:"prompt"`
	Type   QuestionType `json:"type" yaml:"type" mapstructure:"type"`

	// When gates the question. The zero Predicate means always applicable.
	When Predicate `json:"when,omitzero" yaml:"when,omitempty" mapstructure:"when"`
}

// Applicable reports whether the question may be offered given answers.
func (q Question) Applicable(answers AnswerSet) bool {
	return q.When.Eval(answers)
}

// Gated reports whether the question carries an applicability predicate.
func (q Question) Gated() bool {
	return !q.When.IsZero()
}
