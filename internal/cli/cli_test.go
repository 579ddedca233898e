package cli

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/autodiag/internal/logging"
	"github.com/aretw0/autodiag/pkg/runner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// syncBuffer is a bytes.Buffer safe for a writer goroutine and a polling reader.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

const miniCatalog = `
name: mini
questions:
  - id: noise
    prompt: "¿Hace ruido?"
  - id: loud
    prompt: "¿Es fuerte?"
    when: {noise: true}
rules:
  - id: bearing
    conditions: {noise: true, loud: true}
    diagnosis: Rodamiento gastado
`

func TestRunSession_TextLoop(t *testing.T) {
	var out bytes.Buffer
	opts := RunOptions{In: strings.NewReader("2\n2\n2\n2\nn\n"), Out: &out}

	require.NoError(t, runSession(context.Background(), func() {}, opts))

	text := out.String()
	assert.Contains(t, text, "SISTEMA EXPERTO PARA DIAGNOSTICO AUTOMOTRIZ")
	assert.Contains(t, text, "Batería descargada")
	assert.Contains(t, text, "Gracias por usar el sistema de diagnostico automotriz!")
}

func TestRunSession_JSONOnce(t *testing.T) {
	var out bytes.Buffer
	opts := RunOptions{In: strings.NewReader("true\nfalse\nfalse\ntrue\n"), Out: &out, JSON: true, Once: true}

	require.NoError(t, runSession(context.Background(), func() {}, opts))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 5)
	assert.True(t, strings.HasPrefix(lines[0], `{"type":"question"`))
	assert.Contains(t, lines[4], `"id":"rule5"`)
	assert.NotContains(t, out.String(), "SISTEMA EXPERTO")
}

func TestRunSession_QuitCommand(t *testing.T) {
	var out bytes.Buffer
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	opts := RunOptions{In: strings.NewReader("q\n"), Out: &out, Locale: "en"}
	require.NoError(t, runSession(ctx, cancel, opts))

	assert.Error(t, ctx.Err(), "quit cancels the session context")
	assert.Contains(t, out.String(), "Diagnosis cancelled by the user.")
}

func TestRunSession_TUIFallsBackWithoutTerminal(t *testing.T) {
	var out bytes.Buffer
	opts := RunOptions{In: strings.NewReader("1\n1\n2\n2\n"), Out: &out, TUI: true, Once: true}

	require.NoError(t, runSession(context.Background(), func() {}, opts))
	assert.Contains(t, out.String(), "Problema en el suministro de combustible")
}

func TestRunSession_FileCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mini.yaml")
	require.NoError(t, os.WriteFile(path, []byte(miniCatalog), 0o644))

	var out bytes.Buffer
	opts := RunOptions{KnowledgePath: path, In: strings.NewReader("s\ns\n"), Out: &out, Once: true}

	require.NoError(t, runSession(context.Background(), func() {}, opts))
	assert.Contains(t, out.String(), "Rodamiento gastado")
	assert.Contains(t, out.String(), "Pregunta 2 de 2")
}

func TestExecute_WatchValidation(t *testing.T) {
	assert.Error(t, Execute(RunOptions{Watch: true}))
	assert.Error(t, Execute(RunOptions{Watch: true, KnowledgePath: "x.yaml", JSON: true}))
}

func TestRunWatch_ReloadsOnChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mini.yaml")
	require.NoError(t, os.WriteFile(path, []byte(miniCatalog), 0o644))

	pr, pw := io.Pipe()
	defer pw.Close()
	out := &syncBuffer{}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- runWatch(ctx, RunOptions{KnowledgePath: path, In: pr, Out: out})
	}()

	require.Eventually(t, func() bool { return strings.Contains(out.String(), "¿Hace ruido?") }, 2*time.Second, 10*time.Millisecond)
	_, err := io.WriteString(pw, "1\n1\n")
	require.NoError(t, err)
	require.Eventually(t, func() bool { return strings.Contains(out.String(), "Waiting for changes...") }, 2*time.Second, 10*time.Millisecond)

	updated := miniCatalog + `
  - id: fallback
    conditions: {noise: false}
    diagnosis: Sin ruido
`
	require.NoError(t, os.WriteFile(path, []byte(updated), 0o644))
	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "Catalog reloaded: 2 questions, 2 rules.")
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("watch did not stop")
	}
}

func TestCommandRouter(t *testing.T) {
	shutdown := false
	handler := runner.NewTextHandler(strings.NewReader("1\nQuit\n"), io.Discard)
	router := newCommandRouter(handler, func() { shutdown = true })

	line, err := router.Input(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "1", line)
	assert.False(t, shutdown)

	_, err = router.Input(context.Background())
	assert.ErrorIs(t, err, context.Canceled)
	assert.True(t, shutdown)
}

func TestHandleExecutionError(t *testing.T) {
	assert.NoError(t, handleExecutionError(nil))
	assert.NoError(t, handleExecutionError(context.Canceled))
	assert.NoError(t, handleExecutionError(io.EOF))
	assert.Error(t, handleExecutionError(assert.AnError))
}

func TestBuildServer(t *testing.T) {
	server, engine, err := BuildServer(context.Background(), ServeOptions{Metrics: true}, logging.NewNop())
	require.NoError(t, err)
	assert.Equal(t, "vehiculo", engine.Name)

	h := server.Routes()

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/diagnose", strings.NewReader(`{"answers":{"starts":false,"dash_lights":false}}`)))
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, w.Body.String(), `autodiag_diagnoses_total{rule_id="rule1",severity="medium"} 1`)

	server, _, err = BuildServer(context.Background(), ServeOptions{}, logging.NewNop())
	require.NoError(t, err)
	w = httptest.NewRecorder()
	server.Routes().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
