package autodiag_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aretw0/autodiag"
	"github.com/aretw0/autodiag/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const catalogYAML = `
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
    severity: high
`

func TestNew_DefaultCatalog(t *testing.T) {
	engine, err := autodiag.New("")
	require.NoError(t, err)

	assert.Equal(t, "vehiculo", engine.Name)
	assert.Len(t, engine.Rules(), 5)
	assert.Len(t, engine.Questions(), 5)

	_, err = engine.Watch(context.Background())
	assert.Error(t, err, "the built-in catalog cannot be watched")
}

func TestNew_FileCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mini.yaml")
	require.NoError(t, os.WriteFile(path, []byte(catalogYAML), 0o644))

	engine, err := autodiag.New(path)
	require.NoError(t, err)
	assert.Equal(t, "mini", engine.Name)

	ctx := context.Background()
	answers, err := engine.RecordAnswer(ctx, nil, "noise", true)
	require.NoError(t, err)

	q, ok := engine.NextQuestion(ctx, answers)
	require.True(t, ok)
	assert.Equal(t, "loud", q.ID)

	answers, err = engine.RecordAnswer(ctx, answers, "loud", true)
	require.NoError(t, err)

	report := engine.Diagnose(ctx, answers)
	require.True(t, report.Found())
	assert.Equal(t, domain.SeverityHigh, report.Rule.Severity)
	assert.Equal(t, []string{"¿Hace ruido?", "¿Es fuerte?"}, report.Symptoms)
}

func TestNew_MissingFile(t *testing.T) {
	_, err := autodiag.New(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestEngine_WatchAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mini.yaml")
	require.NoError(t, os.WriteFile(path, []byte(catalogYAML), 0o644))

	engine, err := autodiag.New(path)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events, err := engine.Watch(ctx)
	require.NoError(t, err)

	updated := catalogYAML + `
  - id: fallback
    conditions: {noise: true}
    diagnosis: Revisar
`
	require.NoError(t, os.WriteFile(path, []byte(updated), 0o644))

	select {
	case <-events:
	case <-time.After(3 * time.Second):
		t.Fatal("no change event")
	}
	require.NoError(t, engine.Reload(ctx))
	assert.Len(t, engine.Rules(), 2)
}

func TestEngine_Hooks(t *testing.T) {
	var diagnosed []string
	engine, err := autodiag.New("", autodiag.WithLifecycleHooks(domain.LifecycleHooks{
		OnDiagnosis: func(_ context.Context, e *domain.DiagnosisEvent) {
			diagnosed = append(diagnosed, e.RuleID)
		},
	}))
	require.NoError(t, err)

	engine.Diagnose(context.Background(), domain.AnswerSet{"starts": false, "dash_lights": true})
	assert.Equal(t, []string{"rule2"}, diagnosed)
}
