package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aretw0/autodiag/pkg/adapters/file"
	"github.com/aretw0/autodiag/pkg/domain"
	"github.com/aretw0/autodiag/pkg/ports"
	"github.com/aretw0/autodiag/pkg/ports/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ ports.CatalogLoader = (*file.Loader)(nil)
	_ ports.Watchable     = (*file.Loader)(nil)
)

func TestLoader_YAMLContract(t *testing.T) {
	loader, err := file.New(filepath.Join("testdata", "vehiculo.yaml"))
	require.NoError(t, err)

	tests.CatalogLoaderContractTest(t, loader,
		[]string{"rule1", "rule2", "rule5"},
		[]string{"starts", "dash_lights", "stalls_when_accelerating", "black_smoke", "white_smoke"},
	)
}

func TestLoader_YAMLPredicates(t *testing.T) {
	loader, err := file.New(filepath.Join("testdata", "vehiculo.yaml"))
	require.NoError(t, err)

	cat, err := loader.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "vehiculo", cat.Name)

	dash, _ := cat.Questions.Question("dash_lights")
	assert.Equal(t, domain.Equals("starts", false), dash.When)

	stalls, _ := cat.Questions.Question("stalls_when_accelerating")
	assert.Equal(t, domain.Equals("starts", true), stalls.When)

	rule2, _ := cat.Knowledge.Rule("rule2")
	assert.Equal(t, domain.SeverityHigh, rule2.Severity)
	assert.Empty(t, rule2.Recommendations)
}

func TestLoader_JSONShorthandAll(t *testing.T) {
	loader, err := file.New(filepath.Join("testdata", "bike.json"))
	require.NoError(t, err)

	cat, err := loader.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "bike", cat.Name, "name defaults to the file stem")

	q, _ := cat.Questions.Question("chain_dry")
	assert.Equal(t, "(chain_noise == true && wet_weather == false)", q.When.String())

	rules := cat.Knowledge.AllRules()
	require.Len(t, rules, 1)
	assert.Equal(t, "rule1", rules[0].ID)
	assert.Equal(t, domain.SeverityLow, rules[0].Severity)
}

func TestLoader_Errors(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) *file.Loader {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		l, err := file.New(path)
		require.NoError(t, err)
		return l
	}
	ctx := context.Background()

	_, err := write("unknown.yaml", "questions:\n  - id: a\n    colour: red\n").Load(ctx)
	assert.ErrorContains(t, err, "colour")

	_, err = write("badwhen.yaml", "questions:\n  - id: a\n    when: { b: maybe }\n").Load(ctx)
	assert.ErrorContains(t, err, "must be a boolean")

	_, err = write("badkind.yaml", "questions:\n  - id: a\n    when: { kind: all }\n").Load(ctx)
	assert.ErrorIs(t, err, domain.ErrInvalidPredicate)

	_, err = write("badrule.yaml", "rules:\n  - diagnosis: x\n").Load(ctx)
	assert.ErrorIs(t, err, domain.ErrInvalidRule)

	_, err = write("broken.json", "{").Load(ctx)
	assert.ErrorContains(t, err, "json")

	missing, err := file.New(filepath.Join(dir, "missing.yaml"))
	require.NoError(t, err)
	_, err = missing.Load(ctx)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoader_Watch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte("questions: []\n"), 0o644))

	loader, err := file.New(path)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, err := loader.Watch(ctx)
	require.NoError(t, err)

	// Unrelated files in the same directory are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(path, []byte("questions:\n  - id: a\n"), 0o644))

	select {
	case name := <-events:
		assert.Equal(t, "catalog.yaml", name)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for watch event")
	}

	cancel()
	assert.Eventually(t, func() bool {
		select {
		case _, ok := <-events:
			return !ok
		default:
			return false
		}
	}, 2*time.Second, 10*time.Millisecond)
}
