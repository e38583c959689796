package config

import "time"

// Config is the noclist configuration tree. Keys are addressed with "."
// (badsec.retry.maxattempts) in YAML and with "_" in NOCLIST_ environment
// variables (NOCLIST_BADSEC_RETRY_MAXATTEMPTS).
type Config struct {
	App           AppConfig           `koanf:"app" json:"app" yaml:"app"`
	Badsec        BadsecConfig        `koanf:"badsec" json:"badsec" yaml:"badsec"`
	Log           LogConfig           `koanf:"log" json:"log" yaml:"log"`
	Observability ObservabilityConfig `koanf:"observability" json:"observability" yaml:"observability"`
}

// AppConfig holds general application settings.
type AppConfig struct {
	Name    string `koanf:"name" json:"name" yaml:"name" validate:"required"`
	Version string `koanf:"version" json:"version" yaml:"version" validate:"required"`
	Env     string `koanf:"env" json:"env" yaml:"env" validate:"oneof=development staging production"`
}

// BadsecConfig describes the server and the retry schedule used against it.
type BadsecConfig struct {
	URL string `koanf:"url" json:"url" yaml:"url" validate:"required,url"`
	// Timeout bounds a single attempt; 0 disables the per-attempt deadline
	Timeout time.Duration `koanf:"timeout" json:"timeout" yaml:"timeout" validate:"gte=0s"`
	Retry   RetryConfig   `koanf:"retry" json:"retry" yaml:"retry"`
}

// RetryConfig mirrors httpclient.RetryPolicy.
type RetryConfig struct {
	MaxAttempts int `koanf:"maxattempts" json:"maxattempts" yaml:"maxattempts" validate:"min=1"`
	// Delays[i] is waited before attempt i; attempts past the end reuse the last entry
	Delays []time.Duration `koanf:"delays" json:"delays" yaml:"delays" validate:"dive,gte=0s"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `koanf:"level" json:"level" yaml:"level" validate:"oneof=trace debug info warn error disabled"`
	Pretty bool   `koanf:"pretty" json:"pretty" yaml:"pretty"`
}

// ObservabilityConfig holds the opt-in OpenTelemetry settings.
type ObservabilityConfig struct {
	Enabled bool                `koanf:"enabled" json:"enabled" yaml:"enabled"`
	Trace   TraceExportConfig   `koanf:"trace" json:"trace" yaml:"trace"`
	Metrics MetricsExportConfig `koanf:"metrics" json:"metrics" yaml:"metrics"`
}

// TraceExportConfig selects the span exporter.
type TraceExportConfig struct {
	// Endpoint is "stdout" or an OTLP collector address
	Endpoint string            `koanf:"endpoint" json:"endpoint" yaml:"endpoint" validate:"required"`
	Protocol string            `koanf:"protocol" json:"protocol" yaml:"protocol" validate:"oneof=http grpc"`
	Insecure bool              `koanf:"insecure" json:"insecure" yaml:"insecure"`
	Headers  map[string]string `koanf:"headers" json:"headers" yaml:"headers"`
}

// MetricsExportConfig selects the metric exporter.
type MetricsExportConfig struct {
	Endpoint string        `koanf:"endpoint" json:"endpoint" yaml:"endpoint" validate:"required"`
	Interval time.Duration `koanf:"interval" json:"interval" yaml:"interval" validate:"gt=0s"`
}
