package commands

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaborage/noclist/badsec"
	"github.com/gaborage/noclist/config"
	"github.com/gaborage/noclist/httpclient"
	"github.com/gaborage/noclist/testing/fixtures"
)

// isolate runs the command from an empty directory with zero retry delays.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("NOCLIST_BADSEC_RETRY_DELAYS", "0s")
	return dir
}

func execute(ctx context.Context, cmd *cobra.Command, args ...string) (stdout, stderr string, err error) {
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err = cmd.ExecuteContext(ctx)
	return out.String(), errOut.String(), err
}

func TestRootCommandPrintsUserList(t *testing.T) {
	isolate(t)
	srv := fixtures.NewBadsecServer(t, fixtures.WithToken("X"), fixtures.WithUsers("a\nb\n"))

	stdout, _, err := execute(context.Background(), NewRootCommand("test"), "--url", srv.URL)

	require.NoError(t, err)
	assert.Equal(t, "[\"a\", \"b\"]\n", stdout)
	assert.Equal(t, 1, srv.AuthCalls())
	assert.Equal(t, 1, srv.UsersCalls())
}

func TestRootCommandAuthFailure(t *testing.T) {
	isolate(t)
	srv := fixtures.NewBadsecServer(t, fixtures.WithAuthStatuses(http.StatusInternalServerError))

	stdout, _, err := execute(context.Background(), NewRootCommand("test"), "--url", srv.URL)

	require.Error(t, err)
	assert.Empty(t, stdout)
	assert.ErrorIs(t, err, badsec.ErrAuthFailure)
	assert.Equal(t, 3, srv.AuthCalls())
	assert.Equal(t, 0, srv.UsersCalls())
}

func TestRootCommandUnreachableServer(t *testing.T) {
	isolate(t)
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, _, err := execute(context.Background(), NewRootCommand("test"), "--url", url)

	require.Error(t, err)
	var agg *httpclient.AggregateError
	require.ErrorAs(t, err, &agg)
	assert.Len(t, agg.Errors, 3)
}

func TestRootCommandCancelledContext(t *testing.T) {
	isolate(t)
	srv := fixtures.NewBadsecServer(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := execute(ctx, NewRootCommand("test"), "--url", srv.URL)

	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.True(t, httpclient.IsErrorType(err, httpclient.CancellationError))
	assert.Equal(t, 0, srv.AuthCalls())
}

func TestRootCommandReadsConfigFile(t *testing.T) {
	dir := isolate(t)
	srv := fixtures.NewBadsecServer(t, fixtures.WithUsers("only\n"))
	path := filepath.Join(dir, "custom.yaml")
	content := "badsec:\n  url: " + srv.URL + "\n  timeout: 5s\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	stdout, _, err := execute(context.Background(), NewRootCommand("test"), "--config", path)

	require.NoError(t, err)
	assert.Equal(t, "[\"only\"]\n", stdout)
}

func TestRootCommandMissingConfigFile(t *testing.T) {
	dir := isolate(t)

	_, _, err := execute(context.Background(), NewRootCommand("test"), "--config", filepath.Join(dir, "absent.yaml"))

	require.Error(t, err)
	var cfgErr *config.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, config.CategoryLoad, cfgErr.Category)
}

func TestRootCommandLogLevelFlag(t *testing.T) {
	isolate(t)
	srv := fixtures.NewBadsecServer(t)

	_, stderr, err := execute(context.Background(), NewRootCommand("test"), "--url", srv.URL, "--log-level", "info")

	require.NoError(t, err)
	assert.Contains(t, stderr, "BADSEC user list retrieved")
	assert.NotContains(t, stderr, srv.ExpectedChecksum())
}

func TestRootCommandQuietByDefault(t *testing.T) {
	isolate(t)
	srv := fixtures.NewBadsecServer(t)

	_, stderr, err := execute(context.Background(), NewRootCommand("test"), "--url", srv.URL)

	require.NoError(t, err)
	assert.Empty(t, stderr)
}

func TestRootCommandRejectsArguments(t *testing.T) {
	isolate(t)

	_, _, err := execute(context.Background(), NewRootCommand("test"), "extra")

	require.Error(t, err)
}

func TestRootCommandInvalidURL(t *testing.T) {
	isolate(t)

	_, _, err := execute(context.Background(), NewRootCommand("test"), "--url", "://nope")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create BADSEC executor")
}

func TestApplyOverrides(t *testing.T) {
	cfg := &config.Config{
		Badsec: config.BadsecConfig{URL: "http://localhost:8888/"},
		Log:    config.LogConfig{Level: "warn"},
	}

	applyOverrides(cfg, &RootOptions{})
	assert.Equal(t, "http://localhost:8888/", cfg.Badsec.URL)
	assert.Equal(t, "warn", cfg.Log.Level)

	applyOverrides(cfg, &RootOptions{URL: "http://other:1/", LogLevel: "debug"})
	assert.Equal(t, "http://other:1/", cfg.Badsec.URL)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestObservabilityConfigMapping(t *testing.T) {
	cfg := &config.Config{
		App: config.AppConfig{Name: "noclist", Version: "dev", Env: config.EnvStaging},
		Observability: config.ObservabilityConfig{
			Enabled: true,
			Trace: config.TraceExportConfig{
				Endpoint: "collector:4317",
				Protocol: "grpc",
				Insecure: true,
				Headers:  map[string]string{"x-tenant": "blue"},
			},
			Metrics: config.MetricsExportConfig{Endpoint: "collector:4317", Interval: time.Minute},
		},
	}
	var w bytes.Buffer

	got := observabilityConfig(cfg, "v1.2.3", &w)

	assert.True(t, got.Enabled)
	assert.Equal(t, "noclist", got.Service.Name)
	assert.Equal(t, "v1.2.3", got.Service.Version)
	assert.Equal(t, config.EnvStaging, got.Environment)
	assert.Equal(t, "grpc", got.Trace.Protocol)
	assert.True(t, got.Trace.Insecure)
	assert.Equal(t, "blue", got.Trace.Headers["x-tenant"])
	assert.Equal(t, time.Minute, got.Metrics.Interval)
	assert.Same(t, &w, got.Writer)

	assert.Equal(t, "dev", observabilityConfig(cfg, "", &w).Service.Version)
}

func TestRootCommandFlags(t *testing.T) {
	cmd := NewRootCommand("v0.1.0")

	assert.Equal(t, "noclist", cmd.Use)
	assert.Equal(t, "v0.1.0", cmd.Version)
	for _, name := range []string{"config", "url", "log-level"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), "flag %s", name)
	}
	assert.Equal(t, "c", cmd.Flags().Lookup("config").Shorthand)
	assert.True(t, strings.Contains(cmd.Flags().Lookup("config").Usage, config.DefaultFile))
}
