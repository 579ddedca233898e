package domain

// Report is the outcome of a completed session.
type Report struct {
	Answers AnswerSet `json:"answers"`

	// Symptoms are the prompts answered true, in declaration order.
	Symptoms []string `json:"symptoms"`

	// Rule is the matched rule, nil when no diagnosis was found.
	Rule *Rule `json:"rule,omitempty"`
}

// Found reports whether the session produced a diagnosis.
func (r Report) Found() bool {
	return r.Rule != nil
}
