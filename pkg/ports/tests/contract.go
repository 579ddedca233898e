package tests

import (
	"context"
	"testing"

	"github.com/aretw0/autodiag/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// CatalogLoaderContractTest is a reusable test suite that verifies if an adapter complies with ports.CatalogLoader.
// wantRules and wantQuestions list the expected ids in declaration order.
func CatalogLoaderContractTest(t *testing.T, loader ports.CatalogLoader, wantRules, wantQuestions []string) {
	t.Helper()
	ctx := context.Background()

	t.Run("Load_Order", func(t *testing.T) {
		cat, err := loader.Load(ctx)
		require.NoError(t, err)
		require.NotNil(t, cat.Knowledge)
		require.NotNil(t, cat.Questions)

		var rules []string
		for _, r := range cat.Knowledge.AllRules() {
			rules = append(rules, r.ID)
		}
		assert.Equal(t, wantRules, rules)

		var questions []string
		for _, q := range cat.Questions.Questions() {
			questions = append(questions, q.ID)
		}
		assert.Equal(t, wantQuestions, questions)
	})

	t.Run("Load_Fresh", func(t *testing.T) {
		first, err := loader.Load(ctx)
		require.NoError(t, err)
		second, err := loader.Load(ctx)
		require.NoError(t, err)
		assert.NotSame(t, first, second, "each Load must return a new catalog")
	})

	t.Run("Load_Canceled", func(t *testing.T) {
		canceled, cancel := context.WithCancel(ctx)
		cancel()
		_, err := loader.Load(canceled)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
