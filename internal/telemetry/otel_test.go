package telemetry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/folio-works/portfolio/internal/config"
)

func TestSetupTracing_Disabled(t *testing.T) {
	cfg := &config.Config{}
	cfg.Telemetry.Enabled = false
	cfg.Telemetry.OtlpEndpoint = "localhost:4317"

	tp, err := SetupTracing(cfg)
	require.NoError(t, err)
	assert.Nil(t, tp)
	assert.NoError(t, Shutdown(t.Context()))
}

func TestSampler(t *testing.T) {
	always := sdktrace.AlwaysSample().Description()
	assert.Equal(t, always, Sampler(0).Description())
	assert.Equal(t, always, Sampler(1).Description())
	assert.Equal(t, always, Sampler(3).Description())
	assert.Equal(t, sdktrace.TraceIDRatioBased(0.25).Description(), Sampler(0.25).Description())
}
