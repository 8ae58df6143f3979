package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mapLookup(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestDefault_Valid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 15, cfg.SeedCount)
	assert.Equal(t, 50, cfg.Capacity)
	assert.Equal(t, 4*time.Second, cfg.MinTickDelay)
	assert.Equal(t, 7*time.Second, cfg.MaxTickDelay)
	assert.Equal(t, 2*time.Second, cfg.HighlightTTL)
	assert.Equal(t, 5*time.Minute, cfg.RecentWindow)
	assert.True(t, cfg.StartLive)
}

func TestLoad_YAMLThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yamlData := `
http_addr: ":9999"
seed_count: 5
min_tick_delay: 1s
max_tick_delay: 2500ms
start_live: false
feed:
  send_buffer: 4
`
	require.NoError(t, os.WriteFile(path, []byte(yamlData), 0o600))

	cfg, err := Load(path, mapLookup(map[string]string{
		"TRACKER_SEED_COUNT": "7",
		"TRACKER_LOG_FORMAT": "json",
	}))
	require.NoError(t, err)

	assert.Equal(t, ":9999", cfg.HTTPAddr)
	assert.Equal(t, 7, cfg.SeedCount, "env overrides file")
	assert.Equal(t, time.Second, cfg.MinTickDelay)
	assert.Equal(t, 2500*time.Millisecond, cfg.MaxTickDelay)
	assert.False(t, cfg.StartLive)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 4, cfg.Feed.SendBuffer)
	assert.Equal(t, 50, cfg.Capacity, "unset fields keep defaults")
	assert.NoError(t, cfg.Validate())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), mapLookup(nil))
	assert.Error(t, err)
}

func TestLoad_BadEnv(t *testing.T) {
	tests := map[string]string{
		"TRACKER_CAPACITY":      "fifty",
		"TRACKER_HIGHLIGHT_TTL": "2 seconds",
		"TRACKER_START_LIVE":    "maybe",
	}
	for key, value := range tests {
		_, err := Load("", mapLookup(map[string]string{key: value}))
		assert.ErrorIs(t, err, ErrInvalidConfig, key)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero capacity", func(c *Config) { c.Capacity = 0 }},
		{"negative seed", func(c *Config) { c.SeedCount = -1 }},
		{"inverted delays", func(c *Config) { c.MinTickDelay, c.MaxTickDelay = 7*time.Second, 4*time.Second }},
		{"equal delays", func(c *Config) { c.MaxTickDelay = c.MinTickDelay }},
		{"zero highlight", func(c *Config) { c.HighlightTTL = 0 }},
		{"zero window", func(c *Config) { c.RecentWindow = 0 }},
		{"bad level", func(c *Config) { c.LogLevel = "loud" }},
		{"bad format", func(c *Config) { c.LogFormat = "xml" }},
		{"no buffer", func(c *Config) { c.Feed.SendBuffer = 0 }},
		{"no addr", func(c *Config) { c.HTTPAddr = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := "# comment\nTRACKER_TEST_NEW=\"fresh\"\nTRACKER_TEST_SET=from-file\nmalformed\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("TRACKER_TEST_SET", "from-env")
	LoadEnvFile(path)
	t.Cleanup(func() { os.Unsetenv("TRACKER_TEST_NEW") })

	assert.Equal(t, "fresh", os.Getenv("TRACKER_TEST_NEW"))
	assert.Equal(t, "from-env", os.Getenv("TRACKER_TEST_SET"), "existing vars are not overridden")
}

func TestLoadEnvFile_Missing(t *testing.T) {
	LoadEnvFile(filepath.Join(t.TempDir(), "absent.env"))
}
