package domain

// Severity grades how urgently a diagnosed fault must be addressed.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// DefaultSeverity is assigned to rules that do not declare one.
const DefaultSeverity = SeverityMedium

// Valid reports whether s is one of the known severity levels.
func (s Severity) Valid() bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	}
	return false
}

// Rule maps a set of required answers to a probable cause.
type Rule struct {
	ID string `json:"id" yaml:"id" mapstructure:"id"`

	// Conditions must all hold simultaneously for the rule to match.
	Conditions map[string]bool `json:"conditions" yaml:"conditions" mapstructure:"conditions"`

	Diagnosis   string `json:"diagnosis" yaml:"diagnosis" mapstructure:"diagnosis"`
	Description string `json:"description" yaml:"description" mapstructure:"description"`

	// Recommendations are remediation steps in display order.
	Recommendations []string `json:"recommendations" yaml:"recommendations" mapstructure:"recommendations"`

	Severity Severity `json:"severity" yaml:"severity" mapstructure:"severity"`
}

// Matches reports whether every condition of the rule holds in answers.
// A condition whose key was never answered does not hold.
func (r Rule) Matches(answers AnswerSet) bool {
	if len(r.Conditions) == 0 {
		return false
	}
	for key, expected := range r.Conditions {
		got, ok := answers[key]
		if !ok || got != expected {
			return false
		}
	}
	return true
}

func (r Rule) clone() Rule {
	out := r
	out.Conditions = make(map[string]bool, len(r.Conditions))
	for k, v := range r.Conditions {
		out.Conditions[k] = v
	}
	out.Recommendations = append([]string(nil), r.Recommendations...)
	return out
}
