package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/aretw0/autodiag/internal/runtime"
	"github.com/aretw0/autodiag/pkg/adapters/memory"
	"github.com/aretw0/autodiag/pkg/domain"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	engine, err := runtime.NewEngine(context.Background(), memory.Vehicle())
	require.NoError(t, err)
	return NewServer(engine, WithVersion("test"))
}

func TestServer_Session(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	step, err := s.handleNextQuestion(ctx, mcp.CallToolRequest{}, map[string]interface{}{})
	require.NoError(t, err)
	require.NotNil(t, step.Question)
	assert.Equal(t, "starts", step.Question.ID)

	answers := "{}"
	for !step.Complete {
		step, err = s.handleRecordAnswer(ctx, mcp.CallToolRequest{}, map[string]interface{}{
			"answers":     answers,
			"question_id": step.Question.ID,
			"value":       step.Question.ID == "starts" || step.Question.ID == "white_smoke",
		})
		require.NoError(t, err)
		raw, _ := json.Marshal(step.Answers)
		answers = string(raw)
	}

	report, err := s.handleDiagnose(ctx, mcp.CallToolRequest{}, map[string]interface{}{"answers": answers})
	require.NoError(t, err)
	require.True(t, report.Found())
	assert.Equal(t, "rule5", report.Rule.ID)
	assert.Equal(t, domain.SeverityCritical, report.Rule.Severity)
}

func TestServer_AnswersAsObject(t *testing.T) {
	s := newTestServer(t)

	step, err := s.handleNextQuestion(context.Background(), mcp.CallToolRequest{}, map[string]interface{}{
		"answers": map[string]any{"starts": false},
	})
	require.NoError(t, err)
	assert.Equal(t, "dash_lights", step.Question.ID)
	assert.Equal(t, 1, step.Done)
}

func TestServer_Errors(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	_, err := s.handleNextQuestion(ctx, mcp.CallToolRequest{}, map[string]interface{}{"answers": `{"starts":"yes"}`})
	assert.ErrorIs(t, err, domain.ErrInvalidAnswer)

	_, err = s.handleNextQuestion(ctx, mcp.CallToolRequest{}, map[string]interface{}{"answers": `not json`})
	assert.ErrorIs(t, err, domain.ErrInvalidAnswer)

	_, err = s.handleDiagnose(ctx, mcp.CallToolRequest{}, map[string]interface{}{"answers": `{"smells":true}`})
	assert.ErrorIs(t, err, domain.ErrUnknownQuestion)

	_, err = s.handleRecordAnswer(ctx, mcp.CallToolRequest{}, map[string]interface{}{"question_id": "starts", "value": "yes"})
	assert.ErrorIs(t, err, domain.ErrInvalidAnswer)

	_, err = s.handleRecordAnswer(ctx, mcp.CallToolRequest{}, map[string]interface{}{
		"answers": `{"starts":true}`, "question_id": "starts", "value": false,
	})
	assert.ErrorIs(t, err, domain.ErrAlreadyAnswered)

	_, err = s.handleRecordAnswer(ctx, mcp.CallToolRequest{}, map[string]interface{}{
		"answers": `{}`, "question_id": "white_smoke", "value": true,
	})
	assert.ErrorIs(t, err, domain.ErrNotApplicable)

	_, err = s.handleNextQuestion(ctx, mcp.CallToolRequest{}, map[string]interface{}{"answers": `{"white_smoke":true}`})
	assert.ErrorIs(t, err, domain.ErrNotApplicable)
}

func TestServer_QuestionGateAsText(t *testing.T) {
	s := newTestServer(t)

	step, err := s.handleNextQuestion(context.Background(), mcp.CallToolRequest{}, map[string]interface{}{"answers": `{"starts":false}`})
	require.NoError(t, err)
	require.NotNil(t, step.Question)
	assert.Equal(t, "dash_lights", step.Question.ID)
	assert.Equal(t, "starts == false", step.Question.When)
}

func TestServer_Resources(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	contents, err := s.readKnowledge(ctx, mcp.ReadResourceRequest{})
	require.NoError(t, err)
	require.Len(t, contents, 1)
	text, ok := contents[0].(mcp.TextResourceContents)
	require.True(t, ok)

	var knowledge Knowledge
	require.NoError(t, json.Unmarshal([]byte(text.Text), &knowledge))
	assert.Len(t, knowledge.Rules, 5)
	assert.Len(t, knowledge.Questions, 5)

	contents, err = s.readGraph(ctx, mcp.ReadResourceRequest{})
	require.NoError(t, err)
	text, ok = contents[0].(mcp.TextResourceContents)
	require.True(t, ok)
	assert.Contains(t, text.Text, "graph TD")
}
