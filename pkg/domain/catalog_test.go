package domain

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewKnowledgeBase(t *testing.T) {
	t.Run("defaults id and severity", func(t *testing.T) {
		kb, err := NewKnowledgeBase(
			Rule{Conditions: map[string]bool{"a": true}, Diagnosis: "A"},
			Rule{ID: "custom", Conditions: map[string]bool{"b": true}, Diagnosis: "B", Severity: SeverityCritical},
		)
		require.NoError(t, err)

		rules := kb.AllRules()
		require.Len(t, rules, 2)
		assert.Equal(t, "rule1", rules[0].ID)
		assert.Equal(t, SeverityMedium, rules[0].Severity)
		assert.Equal(t, "custom", rules[1].ID)
		assert.Equal(t, SeverityCritical, rules[1].Severity)
	})

	t.Run("rejects malformed rules", func(t *testing.T) {
		cases := []Rule{
			{Diagnosis: "no conditions"},
			{Conditions: map[string]bool{"a": true}},
			{Conditions: map[string]bool{"a": true}, Diagnosis: "x", Severity: "urgent"},
			{Conditions: map[string]bool{"": true}, Diagnosis: "x"},
		}
		for _, r := range cases {
			_, err := NewKnowledgeBase(r)
			assert.ErrorIs(t, err, ErrInvalidRule)
		}
	})

	t.Run("rejects duplicate ids", func(t *testing.T) {
		_, err := NewKnowledgeBase(
			Rule{ID: "r", Conditions: map[string]bool{"a": true}, Diagnosis: "A"},
			Rule{ID: "r", Conditions: map[string]bool{"b": true}, Diagnosis: "B"},
		)
		assert.ErrorIs(t, err, ErrInvalidRule)
	})

	t.Run("is isolated from caller mutation", func(t *testing.T) {
		conds := map[string]bool{"a": true}
		kb, err := NewKnowledgeBase(Rule{Conditions: conds, Diagnosis: "A", Recommendations: []string{"x"}})
		require.NoError(t, err)

		conds["b"] = false
		rules := kb.AllRules()
		rules[0].Recommendations[0] = "mutated"

		r, ok := kb.Rule("rule1")
		require.True(t, ok)
		assert.Len(t, r.Conditions, 1)
		assert.Equal(t, "x", r.Recommendations[0])
	})
}

func TestNewQuestionGraph(t *testing.T) {
	g, err := NewQuestionGraph(
		Question{ID: "starts", Prompt: "¿Arranca?"},
		Question{ID: "dash_lights", Prompt: "¿Luces?", When: Equals("starts", false)},
	)
	require.NoError(t, err)

	assert.Equal(t, 2, g.Len())
	assert.Equal(t, 1, g.Position("dash_lights"))
	assert.Equal(t, -1, g.Position("nope"))

	q, ok := g.Question("starts")
	require.True(t, ok)
	assert.Equal(t, QuestionBoolean, q.Type)
	assert.False(t, q.Gated())
	assert.True(t, g.At(1).Gated())

	_, err = NewQuestionGraph(Question{ID: "a"}, Question{ID: "a"})
	assert.ErrorIs(t, err, ErrDuplicateQuestion)

	_, err = NewQuestionGraph(Question{})
	assert.ErrorIs(t, err, ErrInvalidQuestion)

	_, err = NewQuestionGraph(Question{ID: "a", Type: "text"})
	assert.ErrorIs(t, err, ErrInvalidQuestion)

	_, err = NewQuestionGraph(Question{ID: "a", When: Predicate{Kind: PredicateAll}})
	assert.ErrorIs(t, err, ErrInvalidPredicate)
}

func TestRule_Matches(t *testing.T) {
	r := Rule{Conditions: map[string]bool{"black_smoke": true}}

	assert.True(t, r.Matches(AnswerSet{"black_smoke": true}))
	assert.False(t, r.Matches(AnswerSet{"black_smoke": false}))
	assert.False(t, r.Matches(AnswerSet{"white_smoke": true}), "missing key is a non-match")
	assert.False(t, Rule{}.Matches(AnswerSet{"a": true}))
}

func TestAnswerSet(t *testing.T) {
	a := NewAnswerSet()
	b, err := a.With("starts", true)
	require.NoError(t, err)

	assert.Empty(t, a, "With must not mutate the receiver")
	v, ok := b.Lookup("starts")
	assert.True(t, ok)
	assert.True(t, v)

	_, err = b.With("starts", false)
	assert.ErrorIs(t, err, ErrAlreadyAnswered)

	decoded, err := DecodeAnswers(map[string]any{"starts": false, "black_smoke": true})
	require.NoError(t, err)
	assert.Equal(t, []string{"black_smoke", "starts"}, decoded.Keys())

	_, err = DecodeAnswers(map[string]any{"starts": "no"})
	assert.ErrorIs(t, err, ErrInvalidAnswer)
	_, err = DecodeAnswers(map[string]any{"starts": 0.0})
	assert.ErrorIs(t, err, ErrInvalidAnswer)
}

func TestLifecycleHooks_Merge(t *testing.T) {
	var calls []string
	a := LifecycleHooks{OnAnswer: func(_ context.Context, e *QuestionEvent) { calls = append(calls, "a:"+e.QuestionID) }}
	b := LifecycleHooks{
		OnAnswer:    func(_ context.Context, e *QuestionEvent) { calls = append(calls, "b:"+e.QuestionID) },
		OnDiagnosis: func(_ context.Context, _ *DiagnosisEvent) { calls = append(calls, "diag") },
	}

	merged := a.Merge(b)
	merged.OnAnswer(context.Background(), &QuestionEvent{QuestionID: "starts"})
	merged.OnDiagnosis(context.Background(), &DiagnosisEvent{})

	assert.Nil(t, merged.OnQuestion)
	assert.Equal(t, []string{"a:starts", "b:starts", "diag"}, calls)
}
