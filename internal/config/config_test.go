package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nftlens/cli/internal/host"
	"github.com/nftlens/cli/pkg/locator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{EnvConfigPath, EnvAPIKey, EnvBaseURL, EnvDomain, EnvHostMatch, EnvCDPURL, EnvLogLevel, EnvLogFormat} {
		t.Setenv(k, "")
	}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, "opensea.io", cfg.Marketplace.Domain)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "console", cfg.LogFormat)
}

func TestLoad_File(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, t.TempDir(), "config.yaml", `
api:
  base_url: https://example.test
  timeout: 5s
marketplace:
  domain: OpenSea.io
  host_match: domain
defaults:
  chain: matic
  metric: sales
  time_range: 7d
log_level: DEBUG
log_format: JSON
cdp_url: http://127.0.0.1:9222
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://example.test", cfg.API.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.API.Timeout)
	assert.Equal(t, "opensea.io", cfg.Marketplace.Domain)
	assert.Equal(t, "domain", cfg.Marketplace.HostMatch)
	assert.Equal(t, "polygon", cfg.Defaults.Chain)
	assert.Equal(t, "sales", cfg.Defaults.Metric)
	assert.Equal(t, "7d", cfg.Defaults.TimeRange)
	assert.Equal(t, "usd", cfg.Defaults.Currency)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "http://127.0.0.1:9222", cfg.CDPURL)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, t.TempDir(), "config.yaml", "marketplace:\n  host_match: domain\n")
	t.Setenv(EnvHostMatch, "exact")
	t.Setenv(EnvCDPURL, "http://localhost:9333")
	t.Setenv(EnvLogLevel, "info")
	t.Setenv(EnvLogFormat, "json")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "exact", cfg.Marketplace.HostMatch)
	assert.Equal(t, "http://localhost:9333", cfg.CDPURL)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestLoad_Invalid(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, t.TempDir(), "config.yaml", `
marketplace:
  host_match: fuzzy
defaults:
  time_range: 1y
  metric: floor
log_level: chatty
log_format: xml
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
	assert.Contains(t, err.Error(), "HostMatch")
	assert.Contains(t, err.Error(), "TimeRange")
	assert.Contains(t, err.Error(), "Metric")
	assert.Contains(t, err.Error(), "LogLevel")
	assert.Contains(t, err.Error(), "LogFormat")
}

func TestLoad_MissingFile(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorContains(t, err, "failed to read config file")
}

func TestLoad_BadYAML(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, t.TempDir(), "config.yaml", "api: [\n")
	_, err := Load(path)
	assert.ErrorContains(t, err, "failed to parse config file")
}

func TestGetConfigPath(t *testing.T) {
	clearEnv(t)
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)

	assert.Equal(t, "/explicit.yaml", GetConfigPath("/explicit.yaml"))
	assert.Equal(t, "", GetConfigPath(""))

	def := writeFile(t, xdg, filepath.Join("nftlens", "config.yaml"), "log_level: info\n")
	assert.Equal(t, def, GetConfigPath(""))

	t.Setenv(EnvConfigPath, "/from/env.yaml")
	assert.Equal(t, "/from/env.yaml", GetConfigPath(""))
	assert.Equal(t, "/explicit.yaml", GetConfigPath("/explicit.yaml"))
}

func TestConfigExtractor(t *testing.T) {
	cfg := Default()
	cfg.Marketplace.HostMatch = "exact"
	ex, err := cfg.Extractor()
	require.NoError(t, err)
	assert.Equal(t, locator.HostMatchExact, ex.Match)
	assert.Equal(t, "opensea.io", ex.Domain)

	cfg.Marketplace.HostMatch = "bogus"
	_, err = cfg.Extractor()
	assert.Error(t, err)
}

func TestResolveAPIKey(t *testing.T) {
	clearEnv(t)
	store := host.NewMemoryStore()

	key, err := ResolveAPIKey(store)
	require.NoError(t, err)
	assert.Empty(t, key)

	require.NoError(t, store.Set(APIKeyStorageKey, " stored-key "))
	key, err = ResolveAPIKey(store)
	require.NoError(t, err)
	assert.Equal(t, "stored-key", key)

	t.Setenv(EnvAPIKey, "env-key")
	key, err = ResolveAPIKey(store)
	require.NoError(t, err)
	assert.Equal(t, "env-key", key)

	key, err = ResolveAPIKey(nil)
	require.NoError(t, err)
	assert.Equal(t, "env-key", key)
}
