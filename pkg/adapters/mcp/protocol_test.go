package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/aretw0/autodiag/internal/runtime"
	"github.com/aretw0/autodiag/pkg/adapters/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// rpc sends one JSON-RPC request through the protocol server and returns the decoded result.
func rpc(t *testing.T, s *Server, id int, method string, params any) map[string]any {
	t.Helper()
	raw, err := json.Marshal(map[string]any{
		"jsonrpc": "2.0",
		"id":      id,
		"method":  method,
		"params":  params,
	})
	require.NoError(t, err)

	reply := s.MCPServer().HandleMessage(context.Background(), raw)
	require.NotNil(t, reply)

	body, err := json.Marshal(reply)
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(body, &decoded))
	require.Nil(t, decoded["error"], "unexpected JSON-RPC error: %s", body)

	result, ok := decoded["result"].(map[string]any)
	require.True(t, ok, "missing result: %s", body)
	return result
}

func callTool(t *testing.T, s *Server, id int, name string, args map[string]any) map[string]any {
	t.Helper()
	return rpc(t, s, id, "tools/call", map[string]any{"name": name, "arguments": args})
}

func structured(t *testing.T, result map[string]any) map[string]any {
	t.Helper()
	require.NotEqual(t, true, result["isError"], "tool failed: %v", result["content"])
	content, ok := result["structuredContent"].(map[string]any)
	require.True(t, ok, "missing structured content: %v", result)
	return content
}

func TestNewServer_BuildsOutputSchemas(t *testing.T) {
	engine, err := runtime.NewEngine(context.Background(), memory.Vehicle())
	require.NoError(t, err)

	var s *Server
	require.NotPanics(t, func() { s = NewServer(engine) })

	result := rpc(t, s, 1, "tools/list", map[string]any{})
	tools, ok := result["tools"].([]any)
	require.True(t, ok)

	byName := map[string]map[string]any{}
	for _, raw := range tools {
		tool := raw.(map[string]any)
		byName[tool["name"].(string)] = tool
	}
	require.Contains(t, byName, "next_question")
	require.Contains(t, byName, "record_answer")
	require.Contains(t, byName, "diagnose")

	schema, ok := byName["next_question"]["outputSchema"].(map[string]any)
	require.True(t, ok)
	props := schema["properties"].(map[string]any)
	question := props["question"].(map[string]any)
	when := question["properties"].(map[string]any)["when"].(map[string]any)
	assert.Equal(t, "string", when["type"])

	assert.Contains(t, byName["diagnose"], "outputSchema")
}

func TestProtocol_SessionToDiagnosis(t *testing.T) {
	s := newTestServer(t)

	step := structured(t, callTool(t, s, 1, "next_question", map[string]any{"answers": "{}"}))
	question := step["question"].(map[string]any)
	assert.Equal(t, "starts", question["id"])
	assert.NotContains(t, question, "when")

	values := map[string]bool{"starts": true, "stalls_when_accelerating": false, "black_smoke": false, "white_smoke": true}
	answers := map[string]any{}
	id := 2
	for step["complete"] != true {
		qid := step["question"].(map[string]any)["id"].(string)
		value, ok := values[qid]
		require.True(t, ok, "unexpected question %s", qid)

		encoded, err := json.Marshal(answers)
		require.NoError(t, err)
		step = structured(t, callTool(t, s, id, "record_answer", map[string]any{
			"answers":     string(encoded),
			"question_id": qid,
			"value":       value,
		}))
		answers = step["answers"].(map[string]any)
		id++
	}
	assert.Len(t, answers, 4)
	assert.Equal(t, step["done"], step["total"])

	encoded, err := json.Marshal(answers)
	require.NoError(t, err)
	report := structured(t, callTool(t, s, id, "diagnose", map[string]any{"answers": string(encoded)}))
	rule := report["rule"].(map[string]any)
	assert.Equal(t, "rule5", rule["id"])
	assert.Equal(t, "critical", rule["severity"])
}

func TestProtocol_ToolErrors(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name string
		tool string
		args map[string]any
		want string
	}{
		{"question not offered", "record_answer", map[string]any{"answers": "{}", "question_id": "white_smoke", "value": true}, "not applicable"},
		{"answers out of order", "next_question", map[string]any{"answers": `{"white_smoke":true}`}, "not applicable"},
		{"unknown question", "diagnose", map[string]any{"answers": `{"smells":true}`}, "smells"},
	}
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := callTool(t, s, i+1, tt.tool, tt.args)
			assert.Equal(t, true, result["isError"])
			assert.Contains(t, fmt.Sprint(result["content"]), tt.want)
		})
	}
}
