package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/autodiag/pkg/domain"
)

// LoggingHooks logs every lifecycle event at debug level, and diagnoses at info.
func LoggingHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnQuestion: func(ctx context.Context, e *domain.QuestionEvent) {
			logger.DebugContext(ctx, "question_offered", "question_id", e.QuestionID, "done", e.Done)
		},
		OnAnswer: func(ctx context.Context, e *domain.QuestionEvent) {
			logger.DebugContext(ctx, "answer_recorded", "question_id", e.QuestionID, "value", e.Value)
		},
		OnDiagnosis: func(ctx context.Context, e *domain.DiagnosisEvent) {
			if !e.Found {
				logger.InfoContext(ctx, "diagnosis", "found", false, "answered", e.Answered)
				return
			}
			logger.InfoContext(ctx, "diagnosis",
				"found", true,
				"rule_id", e.RuleID,
				"severity", e.Severity,
				"answered", e.Answered,
			)
		},
	}
}
