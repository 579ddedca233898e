package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventQuestionOffered EventType = "question_offered"
	EventAnswerRecorded  EventType = "answer_recorded"
	EventDiagnosis       EventType = "diagnosis"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
}

// QuestionEvent is emitted when a question is offered or answered.
type QuestionEvent struct {
	EventBase
	QuestionID string `json:"question_id"`
	// Value is only meaningful for EventAnswerRecorded.
	Value bool `json:"value,omitempty"`
	Done  int  `json:"done"`
}

// DiagnosisEvent is emitted once a session is resolved.
type DiagnosisEvent struct {
	EventBase
	RuleID   string   `json:"rule_id,omitempty"`
	Severity Severity `json:"severity,omitempty"`
	Found    bool     `json:"found"`
	Answered int      `json:"answered"`
}

// LifecycleHooks defines callbacks for engine observability.
type LifecycleHooks struct {
	OnQuestion  func(context.Context, *QuestionEvent)
	OnAnswer    func(context.Context, *QuestionEvent)
	OnDiagnosis func(context.Context, *DiagnosisEvent)
}

// Merge returns hooks that call h first and then other for each event.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnQuestion:  chainQuestion(h.OnQuestion, other.OnQuestion),
		OnAnswer:    chainQuestion(h.OnAnswer, other.OnAnswer),
		OnDiagnosis: chainDiagnosis(h.OnDiagnosis, other.OnDiagnosis),
	}
}

func chainQuestion(a, b func(context.Context, *QuestionEvent)) func(context.Context, *QuestionEvent) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(ctx context.Context, e *QuestionEvent) {
		a(ctx, e)
		b(ctx, e)
	}
}

func chainDiagnosis(a, b func(context.Context, *DiagnosisEvent)) func(context.Context, *DiagnosisEvent) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(ctx context.Context, e *DiagnosisEvent) {
		a(ctx, e)
		b(ctx, e)
	}
}
