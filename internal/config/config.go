// Package config loads tracker configuration from defaults, an optional YAML
// file and TRACKER_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is returned when validation fails.
var ErrInvalidConfig = errors.New("invalid config")

// EnvPrefix prefixes every environment override.
const EnvPrefix = "TRACKER_"

// Config holds all runtime settings.
type Config struct {
	HTTPAddr     string        `yaml:"http_addr"`
	SeedCount    int           `yaml:"seed_count"`
	Capacity     int           `yaml:"capacity"`
	MinTickDelay time.Duration `yaml:"min_tick_delay"`
	MaxTickDelay time.Duration `yaml:"max_tick_delay"`
	HighlightTTL time.Duration `yaml:"highlight_ttl"`
	RecentWindow time.Duration `yaml:"recent_window"`
	SeedBackdate time.Duration `yaml:"seed_backdate"`
	StartLive    bool          `yaml:"start_live"`
	LogLevel     string        `yaml:"log_level"`
	LogFormat    string        `yaml:"log_format"`
	Feed         FeedConfig    `yaml:"feed"`
}

// FeedConfig configures the WebSocket feed.
type FeedConfig struct {
	PingInterval time.Duration `yaml:"ping_interval"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	SendBuffer   int           `yaml:"send_buffer"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		HTTPAddr:     ":8080",
		SeedCount:    15,
		Capacity:     50,
		MinTickDelay: 4 * time.Second,
		MaxTickDelay: 7 * time.Second,
		HighlightTTL: 2 * time.Second,
		RecentWindow: 5 * time.Minute,
		SeedBackdate: time.Hour,
		StartLive:    true,
		LogLevel:     "info",
		LogFormat:    "text",
		Feed: FeedConfig{
			PingInterval: 30 * time.Second,
			WriteTimeout: 10 * time.Second,
			SendBuffer:   16,
		},
	}
}

// Load builds a Config: defaults, then the YAML file at path (skipped when
// path is empty), then environment overrides read through lookup.
// The result is not validated; call Validate after applying flags.
func Load(path string, lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	if lookup == nil {
		lookup = os.LookupEnv
	}
	if err := applyEnv(&cfg, lookup); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// Validate checks the configuration for values the tracker cannot run with.
func (c Config) Validate() error {
	var problems []string

	if c.HTTPAddr == "" {
		problems = append(problems, "http_addr is required")
	}
	if c.Capacity <= 0 {
		problems = append(problems, "capacity must be > 0")
	}
	if c.SeedCount < 0 {
		problems = append(problems, "seed_count must be >= 0")
	}
	if c.MinTickDelay <= 0 || c.MaxTickDelay <= c.MinTickDelay {
		problems = append(problems, "tick delays must satisfy 0 < min_tick_delay < max_tick_delay")
	}
	if c.HighlightTTL <= 0 {
		problems = append(problems, "highlight_ttl must be > 0")
	}
	if c.RecentWindow <= 0 {
		problems = append(problems, "recent_window must be > 0")
	}
	if c.SeedBackdate <= 0 {
		problems = append(problems, "seed_backdate must be > 0")
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		problems = append(problems, fmt.Sprintf("log_level %q is not a level", c.LogLevel))
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		problems = append(problems, "log_format must be text or json")
	}
	if c.Feed.PingInterval <= 0 || c.Feed.WriteTimeout <= 0 {
		problems = append(problems, "feed intervals must be > 0")
	}
	if c.Feed.SendBuffer <= 0 {
		problems = append(problems, "feed.send_buffer must be > 0")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

// applyEnv overrides fields from TRACKER_* variables.
func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"HTTP_ADDR":  &cfg.HTTPAddr,
		"LOG_LEVEL":  &cfg.LogLevel,
		"LOG_FORMAT": &cfg.LogFormat,
	}
	ints := map[string]*int{
		"SEED_COUNT":       &cfg.SeedCount,
		"CAPACITY":         &cfg.Capacity,
		"FEED_SEND_BUFFER": &cfg.Feed.SendBuffer,
	}
	durations := map[string]*time.Duration{
		"MIN_TICK_DELAY":     &cfg.MinTickDelay,
		"MAX_TICK_DELAY":     &cfg.MaxTickDelay,
		"HIGHLIGHT_TTL":      &cfg.HighlightTTL,
		"RECENT_WINDOW":      &cfg.RecentWindow,
		"SEED_BACKDATE":      &cfg.SeedBackdate,
		"FEED_PING_INTERVAL": &cfg.Feed.PingInterval,
		"FEED_WRITE_TIMEOUT": &cfg.Feed.WriteTimeout,
	}

	for key, dst := range strs {
		if v, ok := lookup(EnvPrefix + key); ok {
			*dst = v
		}
	}
	for key, dst := range ints {
		if v, ok := lookup(EnvPrefix + key); ok {
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				return fmt.Errorf("%w: %s%s: %v", ErrInvalidConfig, EnvPrefix, key, err)
			}
			*dst = n
		}
	}
	for key, dst := range durations {
		if v, ok := lookup(EnvPrefix + key); ok {
			d, err := time.ParseDuration(strings.TrimSpace(v))
			if err != nil {
				return fmt.Errorf("%w: %s%s: %v", ErrInvalidConfig, EnvPrefix, key, err)
			}
			*dst = d
		}
	}
	if v, ok := lookup(EnvPrefix + "START_LIVE"); ok {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%w: %sSTART_LIVE: %v", ErrInvalidConfig, EnvPrefix, err)
		}
		cfg.StartLive = b
	}

	return nil
}
