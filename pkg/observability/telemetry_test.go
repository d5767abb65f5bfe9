package observability

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/llante/llante_site/config"
)

func TestFromCentralConfig(t *testing.T) {
	cfg := &config.Config{}
	cfg.Server.Environment = "production"
	cfg.Observability.Tracing.OTLPEndpoint = "collector:4318"
	cfg.Observability.Metrics.Enabled = true

	got := FromCentralConfig(cfg)
	assert.Equal(t, "llante", got.ServiceName)
	assert.Equal(t, "production", got.Environment)
	assert.Empty(t, got.OTLPEndpoint, "endpoint is ignored while tracing is off")
	assert.True(t, got.Metrics)

	cfg.Observability.Tracing.Enabled = true
	assert.Equal(t, "collector:4318", FromCentralConfig(cfg).OTLPEndpoint)
}

func TestSampler(t *testing.T) {
	tests := []struct {
		rate float64
		want string
	}{
		{0, "ParentBased{root:AlwaysOnSampler,"},
		{1.5, "ParentBased{root:AlwaysOnSampler,"},
		{0.25, "ParentBased{root:TraceIDRatioBased{0.25},"},
	}
	for _, tt := range tests {
		got := Config{SamplingRate: tt.rate}.sampler().Description()
		assert.Contains(t, got, tt.want, "rate %v", tt.rate)
	}
}
