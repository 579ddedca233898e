package observability

import (
	"context"
	"net/http"
	"strconv"

	"github.com/aretw0/autodiag/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NoDiagnosisLabel is the rule label recorded for sessions without a matching rule.
const NoDiagnosisLabel = "none"

// Metrics collects questionnaire counters.
type Metrics struct {
	registry *prometheus.Registry

	QuestionsOffered *prometheus.CounterVec
	AnswersRecorded  *prometheus.CounterVec
	Diagnoses        *prometheus.CounterVec
	SessionAnswers   prometheus.Histogram
}

// NewMetrics creates the collectors on a dedicated registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		QuestionsOffered: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "autodiag_questions_offered_total",
				Help: "Total number of questions offered",
			},
			[]string{"question_id"},
		),
		AnswersRecorded: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "autodiag_answers_recorded_total",
				Help: "Total number of answers recorded",
			},
			[]string{"question_id", "value"},
		),
		Diagnoses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "autodiag_diagnoses_total",
				Help: "Total number of completed diagnoses by rule",
			},
			[]string{"rule_id", "severity"},
		),
		SessionAnswers: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "autodiag_session_answers",
				Help:    "Number of answers given before a diagnosis",
				Buckets: prometheus.LinearBuckets(1, 1, 10),
			},
		),
	}
	m.registry.MustRegister(m.QuestionsOffered, m.AnswersRecorded, m.Diagnoses, m.SessionAnswers)
	return m
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the collected metrics in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Hooks returns lifecycle hooks that update the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnQuestion: func(_ context.Context, e *domain.QuestionEvent) {
			m.QuestionsOffered.WithLabelValues(e.QuestionID).Inc()
		},
		OnAnswer: func(_ context.Context, e *domain.QuestionEvent) {
			m.AnswersRecorded.WithLabelValues(e.QuestionID, strconv.FormatBool(e.Value)).Inc()
		},
		OnDiagnosis: func(_ context.Context, e *domain.DiagnosisEvent) {
			rule, severity := NoDiagnosisLabel, ""
			if e.Found {
				rule, severity = e.RuleID, string(e.Severity)
			}
			m.Diagnoses.WithLabelValues(rule, severity).Inc()
			m.SessionAnswers.Observe(float64(e.Answered))
		},
	}
}
