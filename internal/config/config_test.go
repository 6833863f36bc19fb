package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fabriziosalmi/domainmate/internal/config"
)

func newFlags(t *testing.T) *pflag.FlagSet {
	t.Helper()
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	config.RegisterFlags(flags)
	return flags
}

func TestLoad_Defaults(t *testing.T) {
	flags := newFlags(t)
	require.NoError(t, flags.Parse(nil))

	cfg, err := config.Load(flags)
	require.NoError(t, err)

	assert.Equal(t, "table", cfg.Output)
	assert.Equal(t, 5, cfg.Concurrency)
	assert.Equal(t, config.DefaultNameservers, cfg.Nameservers)
	assert.Equal(t, config.DefaultDoHEndpoints, cfg.DoHEndpoints)
	assert.Equal(t, 2*time.Second, cfg.AttemptTimeout)
	assert.Equal(t, config.DefaultRBLZones, cfg.RBLZones)
	assert.Equal(t, "notification_state.json", cfg.Notify.StateFile)
}

func TestLoad_FlagsOverride(t *testing.T) {
	flags := newFlags(t)
	require.NoError(t, flags.Parse([]string{
		"--output", "json",
		"--concurrency", "2",
		"--nameserver", "9.9.9.9",
		"--nameserver", "1.1.1.1",
		"--attempt-timeout", "500ms",
	}))

	cfg, err := config.Load(flags)
	require.NoError(t, err)

	assert.Equal(t, "json", cfg.Output)
	assert.Equal(t, 2, cfg.Concurrency)
	assert.Equal(t, []string{"9.9.9.9", "1.1.1.1"}, cfg.Nameservers)
	assert.Equal(t, 500*time.Millisecond, cfg.AttemptTimeout)
	// Untouched keys keep their defaults.
	assert.Equal(t, config.DefaultDoHEndpoints, cfg.DoHEndpoints)
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
output: plain
concurrency: 3
nameservers:
  - 127.0.0.53
doh_endpoints:
  - https://doh.example/dns-query
attempt_timeout: 1s
rbl_zones:
  - zen.spamhaus.org
heartbeat_url: https://hc.example/ping/abc
notify:
  teams_webhook: https://example.webhook.office.com/x
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	flags := newFlags(t)
	require.NoError(t, flags.Parse([]string{"--config", path}))

	cfg, err := config.Load(flags)
	require.NoError(t, err)

	assert.Equal(t, "plain", cfg.Output)
	assert.Equal(t, 3, cfg.Concurrency)
	assert.Equal(t, []string{"127.0.0.53"}, cfg.Nameservers)
	assert.Equal(t, []string{"https://doh.example/dns-query"}, cfg.DoHEndpoints)
	assert.Equal(t, time.Second, cfg.AttemptTimeout)
	assert.Equal(t, []string{"zen.spamhaus.org"}, cfg.RBLZones)
	assert.Equal(t, "https://hc.example/ping/abc", cfg.HeartbeatURL)
	assert.Equal(t, "https://example.webhook.office.com/x", cfg.Notify.TeamsWebhook)
}

func TestLoad_FlagBeatsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("output: plain\n"), 0o600))

	flags := newFlags(t)
	require.NoError(t, flags.Parse([]string{"--config", path, "--output", "json"}))

	cfg, err := config.Load(flags)
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Output)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	flags := newFlags(t)
	require.NoError(t, flags.Parse([]string{"--config", "/nonexistent/config.yaml"}))

	_, err := config.Load(flags)
	require.Error(t, err)
}

func TestLoad_MalformedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("output: [unclosed\n"), 0o600))

	flags := newFlags(t)
	require.NoError(t, flags.Parse([]string{"--config", path}))

	_, err := config.Load(flags)
	require.Error(t, err)
}
