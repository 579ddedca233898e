package validator

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aretw0/autodiag/internal/runtime"
	"github.com/aretw0/autodiag/pkg/domain"
)

// MaxSessions caps the exhaustive session exploration.
const MaxSessions = 4096

// Coverage summarizes every session the questionnaire can produce.
type Coverage struct {
	Sessions    int            `json:"sessions"`
	Undiagnosed int            `json:"undiagnosed"`
	RuleHits    map[string]int `json:"rule_hits"`
	Truncated   bool           `json:"truncated,omitempty"`
}

// Result holds the findings of a catalog validation.
type Result struct {
	Errors   []string `json:"errors,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
	Coverage Coverage `json:"coverage"`
}

// Error is returned by Result.Err when the catalog has blocking problems.
type Error struct {
	Problems []string
}

func (e *Error) Error() string {
	return fmt.Sprintf("found %d errors:\n- %s", len(e.Problems), strings.Join(e.Problems, "\n- "))
}

// Err returns an *Error when the result carries errors, nil otherwise.
func (r Result) Err() error {
	if len(r.Errors) == 0 {
		return nil
	}
	return &Error{Problems: r.Errors}
}

// Validate checks cross references between rules and questions, flags rules that
// can never be selected, and explores every reachable answer path.
func Validate(cat *domain.Catalog) Result {
	var res Result
	questions := cat.Questions.Questions()
	rules := cat.Knowledge.AllRules()

	referenced := make(map[string]bool)

	for i, q := range questions {
		for _, key := range q.When.Keys() {
			referenced[key] = true
			pos := cat.Questions.Position(key)
			switch {
			case pos < 0:
				res.Errors = append(res.Errors, fmt.Sprintf("question '%s' is gated on unknown question '%s'", q.ID, key))
			case pos == i:
				res.Errors = append(res.Errors, fmt.Sprintf("question '%s' is gated on itself", q.ID))
			case pos > i:
				res.Warnings = append(res.Warnings, fmt.Sprintf("question '%s' is gated on '%s', which is asked later", q.ID, key))
			}
		}
	}

	for _, r := range rules {
		for _, key := range sortedKeys(r.Conditions) {
			referenced[key] = true
			if cat.Questions.Position(key) < 0 {
				res.Errors = append(res.Errors, fmt.Sprintf("rule '%s' requires unknown question '%s'", r.ID, key))
			}
		}
	}

	for i, r := range rules {
		for _, earlier := range rules[:i] {
			if subsumes(earlier.Conditions, r.Conditions) {
				res.Warnings = append(res.Warnings, fmt.Sprintf("rule '%s' is shadowed by earlier rule '%s'", r.ID, earlier.ID))
				break
			}
		}
	}

	for _, q := range questions {
		if !referenced[q.ID] {
			res.Warnings = append(res.Warnings, fmt.Sprintf("question '%s' is not used by any rule or predicate", q.ID))
		}
	}

	res.Coverage = Explore(cat)
	if !res.Coverage.Truncated {
		for _, r := range rules {
			if res.Coverage.RuleHits[r.ID] == 0 {
				res.Warnings = append(res.Warnings, fmt.Sprintf("rule '%s' is never selected by any session", r.ID))
			}
		}
	}

	return res
}

// Explore walks every answer path through the question graph, branching on
// true and false at each offered question, and resolves each completed session.
func Explore(cat *domain.Catalog) Coverage {
	cov := Coverage{RuleHits: make(map[string]int)}
	rules := cat.Knowledge.AllRules()

	var walk func(answers domain.AnswerSet)
	walk = func(answers domain.AnswerSet) {
		if cov.Sessions >= MaxSessions {
			cov.Truncated = true
			return
		}
		q, ok := runtime.NextQuestion(cat.Questions, answers)
		if !ok {
			cov.Sessions++
			if r, found := runtime.Resolve(rules, answers); found {
				cov.RuleHits[r.ID]++
			} else {
				cov.Undiagnosed++
			}
			return
		}
		for _, v := range []bool{true, false} {
			next, err := runtime.RecordAnswer(cat.Questions, answers, q.ID, v)
			if err != nil {
				continue
			}
			walk(next)
		}
	}
	walk(domain.NewAnswerSet())
	return cov
}

// subsumes reports whether every condition of a also appears, with the same value, in b.
func subsumes(a, b map[string]bool) bool {
	if len(a) == 0 || len(a) > len(b) {
		return false
	}
	for k, v := range a {
		if bv, ok := b[k]; !ok || bv != v {
			return false
		}
	}
	return true
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
