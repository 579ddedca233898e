package domain

import (
	"fmt"
	"sort"
	"strings"
)

// PredicateKind tags the shape of a Predicate.
type PredicateKind string

const (
	// PredicateEquals holds when Key was answered with Value.
	PredicateEquals PredicateKind = "equals"
	// PredicateAnswered holds when Key was answered, whatever the value.
	PredicateAnswered PredicateKind = "answered"
	// PredicateAll holds when every term holds.
	PredicateAll PredicateKind = "all"
	// PredicateAny holds when at least one term holds.
	PredicateAny PredicateKind = "any"
	// PredicateNot negates its single term.
	PredicateNot PredicateKind = "not"
)

// Predicate is an applicability expression evaluated against an AnswerSet snapshot.
// The zero value (empty Kind) always holds.
type Predicate struct {
	Kind  PredicateKind `json:"kind" yaml:"kind" mapstructure:"kind"`
	Key   string        `json:"key,omitempty" yaml:"key,omitempty" mapstructure:"key"`
	Value bool          `json:"value" yaml:"value" mapstructure:"value"`
	Terms []Predicate   `json:"terms,omitempty" yaml:"terms,omitempty" mapstructure:"terms"`
}

// Equals builds a predicate that holds when key was answered with value.
func Equals(key string, value bool) Predicate {
	return Predicate{Kind: PredicateEquals, Key: key, Value: value}
}

// Answered builds a predicate that holds once key has any answer.
func Answered(key string) Predicate {
	return Predicate{Kind: PredicateAnswered, Key: key}
}

// All builds a conjunction.
func All(terms ...Predicate) Predicate {
	return Predicate{Kind: PredicateAll, Terms: terms}
}

// Any builds a disjunction.
func Any(terms ...Predicate) Predicate {
	return Predicate{Kind: PredicateAny, Terms: terms}
}

// Not negates term.
func Not(term Predicate) Predicate {
	return Predicate{Kind: PredicateNot, Terms: []Predicate{term}}
}

// IsZero reports whether p is the absent predicate.
func (p Predicate) IsZero() bool {
	return p.Kind == ""
}

// Eval evaluates the predicate against answers. Unknown kinds never hold.
func (p Predicate) Eval(answers AnswerSet) bool {
	switch p.Kind {
	case "":
		return true
	case PredicateEquals:
		got, ok := answers[p.Key]
		return ok && got == p.Value
	case PredicateAnswered:
		_, ok := answers[p.Key]
		return ok
	case PredicateAll:
		for _, t := range p.Terms {
			if !t.Eval(answers) {
				return false
			}
		}
		return true
	case PredicateAny:
		for _, t := range p.Terms {
			if t.Eval(answers) {
				return true
			}
		}
		return false
	case PredicateNot:
		return len(p.Terms) == 1 && !p.Terms[0].Eval(answers)
	}
	return false
}

// Keys returns the sorted, de-duplicated answer keys the predicate reads.
func (p Predicate) Keys() []string {
	seen := make(map[string]bool)
	p.collectKeys(seen)
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (p Predicate) collectKeys(seen map[string]bool) {
	if p.Key != "" {
		seen[p.Key] = true
	}
	for _, t := range p.Terms {
		t.collectKeys(seen)
	}
}

// Validate checks the structural shape of the predicate tree.
func (p Predicate) Validate() error {
	switch p.Kind {
	case "":
		return nil
	case PredicateEquals, PredicateAnswered:
		if p.Key == "" {
			return fmt.Errorf("%w: %s predicate requires a key", ErrInvalidPredicate, p.Kind)
		}
		if len(p.Terms) > 0 {
			return fmt.Errorf("%w: %s predicate cannot have terms", ErrInvalidPredicate, p.Kind)
		}
		return nil
	case PredicateAll, PredicateAny:
		if len(p.Terms) == 0 {
			return fmt.Errorf("%w: %s predicate requires at least one term", ErrInvalidPredicate, p.Kind)
		}
	case PredicateNot:
		if len(p.Terms) != 1 {
			return fmt.Errorf("%w: not predicate requires exactly one term", ErrInvalidPredicate)
		}
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidPredicate, p.Kind)
	}
	for _, t := range p.Terms {
		if t.IsZero() {
			return fmt.Errorf("%w: %s predicate has an empty term", ErrInvalidPredicate, p.Kind)
		}
		if err := t.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// String renders the predicate as a compact boolean expression.
func (p Predicate) String() string {
	switch p.Kind {
	case "":
		return "always"
	case PredicateEquals:
		return fmt.Sprintf("%s == %t", p.Key, p.Value)
	case PredicateAnswered:
		return fmt.Sprintf("answered(%s)", p.Key)
	case PredicateAll:
		return joinTerms(p.Terms, " && ")
	case PredicateAny:
		return joinTerms(p.Terms, " || ")
	case PredicateNot:
		if len(p.Terms) == 1 {
			return "!(" + p.Terms[0].String() + ")"
		}
	}
	return fmt.Sprintf("invalid(%s)", p.Kind)
}

func joinTerms(terms []Predicate, sep string) string {
	if len(terms) == 1 {
		return terms[0].String()
	}
	parts := make([]string, len(terms))
	for i, t := range terms {
		parts[i] = t.String()
	}
	return "(" + strings.Join(parts, sep) + ")"
}

func (p Predicate) clone() Predicate {
	out := p
	if len(p.Terms) > 0 {
		out.Terms = make([]Predicate, len(p.Terms))
		for i, t := range p.Terms {
			out.Terms[i] = t.clone()
		}
	}
	return out
}
