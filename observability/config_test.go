package observability

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestApplyDefaults(t *testing.T) {
	cfg := Config{Enabled: true, Service: ServiceConfig{Name: "noclist"}}
	cfg.ApplyDefaults()

	assert.Equal(t, "unknown", cfg.Service.Version)
	assert.Equal(t, EnvironmentDevelopment, cfg.Environment)
	assert.Equal(t, os.Stderr, cfg.Writer)
	assert.Equal(t, EndpointStdout, cfg.Trace.Endpoint)
	assert.Equal(t, ProtocolHTTP, cfg.Trace.Protocol)
	assert.InDelta(t, 1.0, cfg.Trace.SampleRate, 0)
	assert.Equal(t, 500*time.Millisecond, cfg.Trace.BatchTimeout)
	assert.Equal(t, 10*time.Second, cfg.Trace.ExportTimeout)
	assert.Equal(t, EndpointStdout, cfg.Metrics.Endpoint)
	assert.Equal(t, 10*time.Second, cfg.Metrics.Interval)
}

func TestApplyDefaultsKeepsExplicitValues(t *testing.T) {
	headers := map[string]string{"api-key": "k"}
	cfg := Config{
		Environment: "production",
		Trace: TraceConfig{
			Endpoint:   "collector:4317",
			Protocol:   ProtocolGRPC,
			SampleRate: 0.25,
			Headers:    headers,
		},
		Metrics: MetricsConfig{Interval: time.Minute},
	}
	cfg.ApplyDefaults()

	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, "collector:4317", cfg.Trace.Endpoint)
	assert.Equal(t, ProtocolGRPC, cfg.Trace.Protocol)
	assert.InDelta(t, 0.25, cfg.Trace.SampleRate, 0)
	assert.Equal(t, time.Minute, cfg.Metrics.Interval)

	headers["api-key"] = "changed"
	assert.Equal(t, "k", cfg.Trace.Headers["api-key"], "headers are copied")
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := &Config{Enabled: true, Service: ServiceConfig{Name: "noclist"}}
		cfg.ApplyDefaults()
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{"valid", func(*Config) {}, nil},
		{"disabled skips checks", func(c *Config) { c.Enabled = false; c.Service.Name = "" }, nil},
		{"missing service name", func(c *Config) { c.Service.Name = "" }, ErrMissingServiceName},
		{"sample rate too high", func(c *Config) { c.Trace.SampleRate = 1.5 }, ErrInvalidSampleRate},
		{"negative sample rate", func(c *Config) { c.Trace.SampleRate = -0.1 }, ErrInvalidSampleRate},
		{"bad protocol", func(c *Config) { c.Trace.Protocol = "udp" }, ErrInvalidProtocol},
		{"grpc endpoint with scheme", func(c *Config) {
			c.Trace.Protocol = ProtocolGRPC
			c.Trace.Endpoint = "http://collector:4317"
		}, ErrInvalidEndpointFormat},
		{"grpc metrics endpoint with scheme", func(c *Config) {
			c.Trace.Protocol = ProtocolGRPC
			c.Metrics.Endpoint = "https://collector:4317"
		}, ErrInvalidEndpointFormat},
		{"http endpoint with scheme", func(c *Config) { c.Trace.Endpoint = "http://collector:4318" }, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	var nilCfg *Config
	assert.ErrorIs(t, nilCfg.Validate(), ErrNilConfig)
}
