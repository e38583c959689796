package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/gaborage/noclist/badsec"
	"github.com/gaborage/noclist/config"
	"github.com/gaborage/noclist/httpclient"
	"github.com/gaborage/noclist/logger"
	"github.com/gaborage/noclist/observability"
)

// RootOptions holds the flags of the root command. Non-empty values
// override the loaded configuration.
type RootOptions struct {
	ConfigFile string
	URL        string
	LogLevel   string
}

// NewRootCommand creates the noclist command, which fetches the VIP user
// list and prints it as a JSON array.
func NewRootCommand(version string) *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "noclist",
		Short: "Retrieve the NOC list from a BADSEC server",
		Long: `Authenticates against a BADSEC server, derives the request checksum and
prints the VIP user list as a JSON array on stdout.

Configuration is read from noclist.yaml (or --config) and NOCLIST_*
environment variables. Diagnostics go to stderr.`,
		Example: `  # Use the default server at http://localhost:8888/
  noclist

  # Point at another server with debug logging
  noclist --url http://badsec.internal:8888/ --log-level debug`,
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runFetch(cmd.Context(), opts, version, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigFile, "config", "c", "", "Path to a YAML config file (default "+config.DefaultFile+" if present)")
	cmd.Flags().StringVar(&opts.URL, "url", "", "BADSEC server base URL")
	cmd.Flags().StringVar(&opts.LogLevel, "log-level", "", "Log level (trace, debug, info, warn, error, disabled)")

	return cmd
}

func runFetch(ctx context.Context, opts *RootOptions, version string, out, errOut io.Writer) error {
	cfg, err := config.Load(opts.ConfigFile)
	if err != nil {
		return err
	}
	applyOverrides(cfg, opts)

	log := logger.NewWithWriter(errOut, cfg.Log.Level, cfg.Log.Pretty)

	provider, err := observability.NewProvider(observabilityConfig(cfg, version, errOut), log)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		if err := observability.Shutdown(provider, observability.DefaultShutdownTimeout); err != nil {
			log.Warn().Err(err).Msg("Telemetry flush failed")
		}
	}()

	exec, err := httpclient.NewBuilder(log).
		WithBaseURL(cfg.Badsec.URL).
		WithTimeout(cfg.Badsec.Timeout).
		WithRetryPolicy(httpclient.RetryPolicy{
			MaxAttempts: cfg.Badsec.Retry.MaxAttempts,
			Delays:      cfg.Badsec.Retry.Delays,
		}).
		WithTracerProvider(provider.TracerProvider()).
		WithMeterProvider(provider.MeterProvider()).
		Build()
	if err != nil {
		return fmt.Errorf("failed to create BADSEC executor: %w", err)
	}

	list, err := badsec.NewClient(exec, log).FetchUserList(ctx)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(out, list)
	return err
}

func applyOverrides(cfg *config.Config, opts *RootOptions) {
	if opts.URL != "" {
		cfg.Badsec.URL = opts.URL
	}
	if opts.LogLevel != "" {
		cfg.Log.Level = opts.LogLevel
	}
}

func observabilityConfig(cfg *config.Config, version string, w io.Writer) *observability.Config {
	serviceVersion := cfg.App.Version
	if version != "" {
		serviceVersion = version
	}

	return &observability.Config{
		Enabled: cfg.Observability.Enabled,
		Service: observability.ServiceConfig{
			Name:    cfg.App.Name,
			Version: serviceVersion,
		},
		Environment: cfg.App.Env,
		Trace: observability.TraceConfig{
			Endpoint: cfg.Observability.Trace.Endpoint,
			Protocol: cfg.Observability.Trace.Protocol,
			Insecure: cfg.Observability.Trace.Insecure,
			Headers:  cfg.Observability.Trace.Headers,
		},
		Metrics: observability.MetricsConfig{
			Endpoint: cfg.Observability.Metrics.Endpoint,
			Interval: cfg.Observability.Metrics.Interval,
		},
		Writer: w,
	}
}
