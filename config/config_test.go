package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 2*time.Second, cfg.RateLimitInterval)
	assert.Equal(t, 5*time.Minute, cfg.MetadataTTL)
	assert.Equal(t, "https://bustimes.org", cfg.BaseURL)
}

func TestLoadEmptyPath(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := writeConfig(t, `
listenAddress: "127.0.0.1:9000"
baseURL: "http://localhost:8000"
rateLimitInterval: 500ms
metadataTTL: 1m
logLevel: debug
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "127.0.0.1:9000", cfg.ListenAddress)
	assert.Equal(t, "http://localhost:8000", cfg.BaseURL)
	assert.Equal(t, 500*time.Millisecond, cfg.RateLimitInterval)
	assert.Equal(t, time.Minute, cfg.MetadataTTL)
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())

	// Untouched keys keep their defaults.
	assert.Equal(t, Default().UserAgent, cfg.UserAgent)
	assert.Equal(t, Default().RequestTimeout, cfg.RequestTimeout)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	assert.Error(t, err)
}

func TestLoadMalformed(t *testing.T) {
	_, err := Load(writeConfig(t, "rateLimitInterval: [1, 2"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "metadataTTL: forever"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	for _, tc := range []struct {
		name   string
		mutate func(*Config)
	}{
		{"no listen address", func(c *Config) { c.ListenAddress = "" }},
		{"bad base url", func(c *Config) { c.BaseURL = "not a url" }},
		{"no user agent", func(c *Config) { c.UserAgent = "" }},
		{"negative interval", func(c *Config) { c.RateLimitInterval = -time.Second }},
		{"zero ttl", func(c *Config) { c.MetadataTTL = 0 }},
		{"negative timeout", func(c *Config) { c.RequestTimeout = -time.Second }},
		{"negative max size", func(c *Config) { c.MaxResponseSize = -1 }},
		{"unknown log level", func(c *Config) { c.LogLevel = "chatty" }},
	} {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestSlogLevel(t *testing.T) {
	for level, expected := range map[string]slog.Level{
		"debug": slog.LevelDebug,
		"info":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	} {
		assert.Equal(t, expected, Config{LogLevel: level}.SlogLevel())
	}
}
