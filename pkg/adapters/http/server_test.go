package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/autodiag/internal/runtime"
	autohttp "github.com/aretw0/autodiag/pkg/adapters/http"
	"github.com/aretw0/autodiag/pkg/adapters/memory"
	"github.com/aretw0/autodiag/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T, opts ...autohttp.Option) *autohttp.Server {
	t.Helper()
	engine, err := runtime.NewEngine(context.Background(), memory.Vehicle())
	require.NoError(t, err)
	return autohttp.NewServer(engine, opts...)
}

func post(t *testing.T, h http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestServer_Health(t *testing.T) {
	h := newServer(t).Routes()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestServer_Info(t *testing.T) {
	h := newServer(t, autohttp.WithVersion("1.2.3")).Routes()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/info", nil))

	var info map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &info))
	assert.Equal(t, "1.2.3", info["version"])
	assert.EqualValues(t, 5, info["rules"])
	assert.EqualValues(t, 5, info["questions"])
}

func TestServer_Catalog(t *testing.T) {
	h := newServer(t).Routes()

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/rules", nil))
	var rules []domain.Rule
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rules))
	require.Len(t, rules, 5)
	assert.Equal(t, "rule1", rules[0].ID)

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/questions", nil))
	var questions []domain.Question
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &questions))
	require.Len(t, questions, 5)
	assert.Equal(t, "starts", questions[0].ID)
	assert.Equal(t, domain.PredicateEquals, questions[1].When.Kind)

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/graph", nil))
	assert.True(t, strings.HasPrefix(w.Body.String(), "graph TD"))
}

func TestServer_Session(t *testing.T) {
	h := newServer(t).Routes()

	w := post(t, h, "/next", `{}`)
	require.Equal(t, http.StatusOK, w.Code)
	var step autohttp.StepResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &step))
	require.NotNil(t, step.Question)
	assert.Equal(t, "starts", step.Question.ID)
	assert.Equal(t, 3, step.Total)

	answers := map[string]any{}
	for !step.Complete {
		body, _ := json.Marshal(autohttp.AnswerRequest{Answers: answers, QuestionID: step.Question.ID, Value: false})
		w = post(t, h, "/answer", string(body))
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		step = autohttp.StepResponse{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &step))
		answers = map[string]any{}
		for k, v := range step.Answers {
			answers[k] = v
		}
	}
	assert.Len(t, answers, 4)
	assert.Equal(t, step.Done, step.Total)

	body, _ := json.Marshal(autohttp.SessionRequest{Answers: answers})
	w = post(t, h, "/diagnose", string(body))
	require.Equal(t, http.StatusOK, w.Code)
	var report domain.Report
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	require.True(t, report.Found())
	assert.Equal(t, "rule1", report.Rule.ID)
}

func TestServer_Errors(t *testing.T) {
	h := newServer(t).Routes()

	tests := []struct {
		name   string
		path   string
		body   string
		status int
	}{
		{"malformed body", "/next", `{`, http.StatusBadRequest},
		{"non boolean answer", "/diagnose", `{"answers":{"starts":"yes"}}`, http.StatusBadRequest},
		{"unknown answer key", "/next", `{"answers":{"smells":true}}`, http.StatusBadRequest},
		{"unknown question", "/answer", `{"question_id":"smells","value":true}`, http.StatusBadRequest},
		{"non boolean value", "/answer", `{"question_id":"starts","value":1}`, http.StatusBadRequest},
		{"already answered", "/answer", `{"answers":{"starts":true},"question_id":"starts","value":false}`, http.StatusConflict},
		{"question not offered", "/answer", `{"answers":{},"question_id":"white_smoke","value":true}`, http.StatusConflict},
		{"answers out of order", "/next", `{"answers":{"white_smoke":true}}`, http.StatusConflict},
		{"gate does not hold", "/diagnose", `{"answers":{"starts":true,"dash_lights":false}}`, http.StatusConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := post(t, h, tt.path, tt.body)
			assert.Equal(t, tt.status, w.Code)
			assert.Contains(t, w.Body.String(), `"error"`)
		})
	}
}

func TestServer_Metrics(t *testing.T) {
	h := newServer(t, autohttp.WithMetricsHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("metrics"))
	}))).Routes()

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, "metrics", w.Body.String())

	w = httptest.NewRecorder()
	newServer(t).Routes().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestServer_Events(t *testing.T) {
	srv := newServer(t)
	h := srv.Routes()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/events", nil).WithContext(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		h.ServeHTTP(w, req)
	}()

	require.Eventually(t, func() bool { return srv.Streams.Len() == 1 }, time.Second, 10*time.Millisecond)
	srv.Notify("reload")
	time.Sleep(50 * time.Millisecond)
	cancel()
	<-done

	out := w.Body.String()
	assert.Contains(t, out, "event: ping")
	assert.Contains(t, out, "data: reload")
	assert.Zero(t, srv.Streams.Len())
}

func TestServer_CORSPreflight(t *testing.T) {
	h := newServer(t).Routes()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/next", bytes.NewReader(nil)))
	assert.Equal(t, http.StatusOK, w.Code)
}
