package runtime

import (
	"fmt"

	"github.com/aretw0/autodiag/pkg/domain"
)

// cursor returns the declaration index of the latest-declared answered question, or -1.
// Questions at or before the cursor have been decided and are never offered again.
// This holds for answer sets built through RecordAnswer; ValidateAnswers rejects any other.
func cursor(graph *domain.QuestionGraph, answers domain.AnswerSet) int {
	c := -1
	for id := range answers {
		if i := graph.Position(id); i > c {
			c = i
		}
	}
	return c
}

// NextQuestion returns the first unanswered question, in declaration order, whose
// predicate holds against the current answers. It returns false when none remain.
//
// Applicability is decided once: a question the session has moved past because its
// predicate did not hold is not re-offered when a later answer would flip it.
func NextQuestion(graph *domain.QuestionGraph, answers domain.AnswerSet) (domain.Question, bool) {
	for i := cursor(graph, answers) + 1; i < graph.Len(); i++ {
		q := graph.At(i)
		if answers.Has(q.ID) {
			continue
		}
		if q.Applicable(answers) {
			return q, true
		}
	}
	return domain.Question{}, false
}

// Progress reports how many questions were answered and an estimate of the session length.
// The total counts answered questions plus those still applicable after the cursor
// under the current answers; it shrinks or grows as answers gate questions in or out.
func Progress(graph *domain.QuestionGraph, answers domain.AnswerSet) (done, total int) {
	for id := range answers {
		if graph.Position(id) >= 0 {
			done++
		}
	}
	total = done
	for i := cursor(graph, answers) + 1; i < graph.Len(); i++ {
		q := graph.At(i)
		if !answers.Has(q.ID) && q.Applicable(answers) {
			total++
		}
	}
	return done, total
}

// AnswerError reports why an answer could not be recorded.
type AnswerError struct {
	QuestionID string
	Err        error
}

func (e *AnswerError) Error() string {
	return fmt.Sprintf("answer %q: %v", e.QuestionID, e.Err)
}

func (e *AnswerError) Unwrap() error {
	return e.Err
}

// RecordAnswer returns a new AnswerSet extended with id = value.
// Only the question NextQuestion offers for answers may be recorded.
// The input set is never modified.
func RecordAnswer(graph *domain.QuestionGraph, answers domain.AnswerSet, id string, value bool) (domain.AnswerSet, error) {
	if graph.Position(id) < 0 {
		return nil, &AnswerError{QuestionID: id, Err: domain.ErrUnknownQuestion}
	}
	if answers.Has(id) {
		return nil, &AnswerError{QuestionID: id, Err: domain.ErrAlreadyAnswered}
	}
	if q, ok := NextQuestion(graph, answers); !ok || q.ID != id {
		return nil, &AnswerError{QuestionID: id, Err: domain.ErrNotApplicable}
	}
	return answers.With(id, value)
}

// ValidateAnswers checks that answers is a session the driver could have produced:
// every key names a known question, and replaying the driver from an empty set
// offers each answered question in turn.
func ValidateAnswers(graph *domain.QuestionGraph, answers domain.AnswerSet) error {
	for _, id := range answers.Keys() {
		if graph.Position(id) < 0 {
			return &AnswerError{QuestionID: id, Err: domain.ErrUnknownQuestion}
		}
	}

	replayed := make(domain.AnswerSet, len(answers))
	for len(replayed) < len(answers) {
		q, ok := NextQuestion(graph, replayed)
		if !ok || !answers.Has(q.ID) {
			break
		}
		replayed[q.ID] = answers[q.ID]
	}
	for _, id := range answers.Keys() {
		if !replayed.Has(id) {
			return &AnswerError{QuestionID: id, Err: domain.ErrNotApplicable}
		}
	}
	return nil
}
