package observability

import (
	"fmt"
	"io"
	"maps"
	"os"
	"strings"
	"time"
)

const (
	// EndpointStdout is a special endpoint value that writes telemetry to Config.Writer
	// (stderr by default; stdout is reserved for the command's result).
	EndpointStdout = "stdout"

	// ProtocolHTTP specifies OTLP over HTTP/protobuf.
	ProtocolHTTP = "http"

	// ProtocolGRPC specifies OTLP over gRPC.
	ProtocolGRPC = "grpc"

	// EnvironmentDevelopment is the default environment name.
	EnvironmentDevelopment = "development"

	defaultSampleRate      = 1.0
	defaultBatchTimeout    = 500 * time.Millisecond
	defaultExportTimeout   = 10 * time.Second
	defaultMetricsInterval = 10 * time.Second
)

// Config defines the configuration for observability features.
type Config struct {
	// Enabled controls whether observability is active.
	// When false, all observability operations become no-ops.
	Enabled bool `mapstructure:"enabled"`

	// Service contains service identification metadata.
	Service ServiceConfig `mapstructure:"service"`

	// Environment indicates the deployment environment.
	Environment string `mapstructure:"environment"`

	// Trace contains tracing-specific configuration.
	Trace TraceConfig `mapstructure:"trace"`

	// Metrics contains metrics-specific configuration.
	// Metrics are exported with the trace protocol and TLS settings.
	Metrics MetricsConfig `mapstructure:"metrics"`

	// Writer receives stdout-endpoint output. Defaults to os.Stderr.
	Writer io.Writer `mapstructure:"-"`
}

// ServiceConfig contains service identification metadata.
type ServiceConfig struct {
	// Name identifies the service in traces and metrics.
	// This is required when observability is enabled.
	Name    string `mapstructure:"name"`
	Version string `mapstructure:"version"`
}

// TraceConfig configures span export.
type TraceConfig struct {
	Endpoint   string            `mapstructure:"endpoint"`
	Protocol   string            `mapstructure:"protocol"`
	Insecure   bool              `mapstructure:"insecure"`
	Headers    map[string]string `mapstructure:"headers"`
	SampleRate float64           `mapstructure:"samplerate"`

	// BatchTimeout is the maximum delay before a batch of spans is exported.
	BatchTimeout  time.Duration `mapstructure:"batchtimeout"`
	ExportTimeout time.Duration `mapstructure:"exporttimeout"`
}

// MetricsConfig configures metric export.
type MetricsConfig struct {
	Endpoint      string        `mapstructure:"endpoint"`
	Interval      time.Duration `mapstructure:"interval"`
	ExportTimeout time.Duration `mapstructure:"exporttimeout"`
}

// ApplyDefaults sets default values for any config fields that are not specified.
func (c *Config) ApplyDefaults() {
	if c.Service.Version == "" {
		c.Service.Version = "unknown"
	}
	if c.Environment == "" {
		c.Environment = EnvironmentDevelopment
	}
	if c.Writer == nil {
		c.Writer = os.Stderr
	}

	if c.Trace.Endpoint == "" {
		c.Trace.Endpoint = EndpointStdout
	}
	if c.Trace.Protocol == "" {
		c.Trace.Protocol = ProtocolHTTP
	}
	if c.Trace.SampleRate == 0 {
		c.Trace.SampleRate = defaultSampleRate
	}
	if c.Trace.BatchTimeout == 0 {
		c.Trace.BatchTimeout = defaultBatchTimeout
	}
	if c.Trace.ExportTimeout == 0 {
		c.Trace.ExportTimeout = defaultExportTimeout
	}
	c.Trace.Headers = cloneHeaderMap(c.Trace.Headers)

	if c.Metrics.Endpoint == "" {
		c.Metrics.Endpoint = EndpointStdout
	}
	if c.Metrics.Interval == 0 {
		c.Metrics.Interval = defaultMetricsInterval
	}
	if c.Metrics.ExportTimeout == 0 {
		c.Metrics.ExportTimeout = defaultExportTimeout
	}
}

// Validate checks the configuration. It is a no-op for disabled configs.
func (c *Config) Validate() error {
	if c == nil {
		return ErrNilConfig
	}
	if !c.Enabled {
		return nil
	}

	if c.Service.Name == "" {
		return ErrMissingServiceName
	}
	if c.Trace.SampleRate < 0 || c.Trace.SampleRate > 1 {
		return ErrInvalidSampleRate
	}
	if c.Trace.Protocol != ProtocolHTTP && c.Trace.Protocol != ProtocolGRPC {
		return fmt.Errorf("trace protocol '%s': %w", c.Trace.Protocol, ErrInvalidProtocol)
	}
	if err := validateEndpoint(c.Trace.Endpoint, c.Trace.Protocol); err != nil {
		return fmt.Errorf("trace endpoint: %w", err)
	}
	if err := validateEndpoint(c.Metrics.Endpoint, c.Trace.Protocol); err != nil {
		return fmt.Errorf("metrics endpoint: %w", err)
	}
	return nil
}

// validateEndpoint rejects URL schemes on gRPC endpoints, which take host:port.
func validateEndpoint(endpoint, protocol string) error {
	if endpoint == EndpointStdout || protocol != ProtocolGRPC {
		return nil
	}
	if hasScheme(endpoint) {
		return fmt.Errorf("'%s' must be host:port for grpc: %w", endpoint, ErrInvalidEndpointFormat)
	}
	return nil
}

func hasScheme(endpoint string) bool {
	return strings.HasPrefix(endpoint, "http://") || strings.HasPrefix(endpoint, "https://")
}

// cloneHeaderMap creates a deep copy of a header map to avoid aliasing.
// Returns nil if the input is nil.
func cloneHeaderMap(headers map[string]string) map[string]string {
	if headers == nil {
		return nil
	}
	clone := make(map[string]string, len(headers))
	maps.Copy(clone, headers)
	return clone
}
