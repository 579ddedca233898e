package runtime

import (
	"strings"

	"github.com/aretw0/autodiag/pkg/domain"
)

// Resolve returns the first rule, in declaration order, whose conditions all hold.
// A false result is the "no diagnosis" outcome, not an error.
func Resolve(rules []domain.Rule, answers domain.AnswerSet) (domain.Rule, bool) {
	for _, r := range rules {
		if r.Matches(answers) {
			return r, true
		}
	}
	return domain.Rule{}, false
}

// SummarizeSymptoms lists the prompts of questions answered true, in declaration order.
func SummarizeSymptoms(questions []domain.Question, answers domain.AnswerSet) []string {
	symptoms := []string{}
	for _, q := range questions {
		if v, ok := answers.Lookup(q.ID); ok && v {
			symptoms = append(symptoms, q.Prompt)
		}
	}
	return symptoms
}

// SymptomLabel strips question marks (including the inverted opening one) from a prompt.
func SymptomLabel(prompt string) string {
	return strings.TrimSpace(strings.NewReplacer("¿", "", "?", "").Replace(prompt))
}
