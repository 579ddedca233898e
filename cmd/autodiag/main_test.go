package main

import (
	"bytes"
	"testing"

	"github.com/aretw0/autodiag/internal/config"
	"github.com/aretw0/autodiag/internal/i18n"
	"github.com/aretw0/autodiag/pkg/adapters/memory"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyFlags_OnlyChangedFlagsOverride(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.StringP("knowledge", "k", "", "")
	flags.String("locale", "es", "")
	flags.String("log-level", "info", "")
	flags.Bool("metrics", true, "")
	require.NoError(t, flags.Parse([]string{"-k", "car.yaml", "--metrics=false"}))

	c := config.Config{Locale: "en", LogLevel: "warn", Metrics: true}
	require.NoError(t, applyFlags(&c, flags))

	assert.Equal(t, "car.yaml", c.KnowledgePath)
	assert.Equal(t, "en", c.Locale, "unset flags keep the environment value")
	assert.Equal(t, "warn", c.LogLevel)
	assert.False(t, c.Metrics)
}

func TestApplyFlags_RejectsUnknownLevel(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("log-level", "info", "")
	require.NoError(t, flags.Parse([]string{"--log-level", "loud"}))

	c := config.Config{LogLevel: "info"}
	assert.Error(t, applyFlags(&c, flags))
}

func TestPrintRules(t *testing.T) {
	var buf bytes.Buffer
	printRules(&buf, i18n.New("es"), memory.VehicleRules())

	out := buf.String()
	assert.Contains(t, out, "1. rule1 [MEDIA] Batería descargada")
	assert.Contains(t, out, "   if dash_lights=false and starts=false")
	assert.Contains(t, out, "5. rule5 [CRITICA] Falla en la junta de culata")
}
