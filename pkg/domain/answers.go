package domain

import (
	"fmt"
	"sort"
)

// AnswerSet maps question ids to boolean answers for a single session.
// It only grows: keys are never removed and values are never overwritten.
// A nil AnswerSet is a valid empty set for reads.
type AnswerSet map[string]bool

// NewAnswerSet returns an empty set for a fresh session.
func NewAnswerSet() AnswerSet {
	return AnswerSet{}
}

// Lookup returns the answer for id and whether it was given.
func (a AnswerSet) Lookup(id string) (value, ok bool) {
	value, ok = a[id]
	return value, ok
}

// Has reports whether id was answered.
func (a AnswerSet) Has(id string) bool {
	_, ok := a[id]
	return ok
}

// Clone returns an independent copy.
func (a AnswerSet) Clone() AnswerSet {
	out := make(AnswerSet, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// With returns a copy of the set extended with id = value.
// The receiver is left untouched.
func (a AnswerSet) With(id string, value bool) (AnswerSet, error) {
	if a.Has(id) {
		return nil, fmt.Errorf("%w: %s", ErrAlreadyAnswered, id)
	}
	out := make(AnswerSet, len(a)+1)
	for k, v := range a {
		out[k] = v
	}
	out[id] = value
	return out, nil
}

// Keys returns the answered ids in lexical order.
func (a AnswerSet) Keys() []string {
	keys := make([]string, 0, len(a))
	for k := range a {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// DecodeAnswers converts loosely typed input (e.g. a decoded JSON object) into an AnswerSet.
// Values must already be booleans; nothing is coerced.
func DecodeAnswers(raw map[string]any) (AnswerSet, error) {
	out := make(AnswerSet, len(raw))
	for k, v := range raw {
		b, ok := v.(bool)
		if !ok {
			return nil, fmt.Errorf("%w: %s has %T value", ErrInvalidAnswer, k, v)
		}
		out[k] = b
	}
	return out, nil
}
