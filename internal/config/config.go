package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds everything lookout resolves once at startup.
type Config struct {
	APIBase              string
	StreamURL            string
	PageSize             int
	MaxReconnectAttempts int
	ReconnectDelay       time.Duration
	SearchDebounce       time.Duration
	PlayerCommand        []string
	LogFile              string
	LogLevel             string
	MetricsAddr          string
}

const (
	defaultConfigPath     = "~/.config/lookout/config.toml"
	defaultAPIBase        = "http://localhost:3001"
	defaultStreamURL      = "ws://localhost:8080"
	defaultPageSize       = 10
	defaultMaxAttempts    = 3
	defaultReconnectDelay = 5 * time.Second
	defaultSearchDebounce = 300 * time.Millisecond
	defaultLogFile        = "~/.local/state/lookout/lookout.log"
	defaultLogLevel       = "info"
)

// Environment variables that override file values.
const (
	EnvAPIBase     = "LOOKOUT_API_BASE"
	EnvStreamURL   = "LOOKOUT_STREAM_URL"
	EnvMetricsAddr = "LOOKOUT_METRICS_ADDR"
	EnvLogLevel    = "LOOKOUT_LOG_LEVEL"
)

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		APIBase:              defaultAPIBase,
		StreamURL:            defaultStreamURL,
		PageSize:             defaultPageSize,
		MaxReconnectAttempts: defaultMaxAttempts,
		ReconnectDelay:       defaultReconnectDelay,
		SearchDebounce:       defaultSearchDebounce,
		LogFile:              mustExpand(defaultLogFile),
		LogLevel:             defaultLogLevel,
	}
}

// Load reads the config file at path (or the default location), falling back
// to defaults when it is missing, then applies environment overrides.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			applyEnv(&cfg)
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		APIBase              string `toml:"api_base"`
		StreamURL            string `toml:"stream_url"`
		PageSize             int    `toml:"page_size"`
		MaxReconnectAttempts int    `toml:"max_reconnect_attempts"`
		ReconnectDelay       string `toml:"reconnect_delay"`
		SearchDebounce       string `toml:"search_debounce"`
		PlayerCommand        string `toml:"player_command"`
		LogFile              string `toml:"log_file"`
		LogLevel             string `toml:"log_level"`
		MetricsAddr          string `toml:"metrics_addr"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if v := strings.TrimSpace(raw.APIBase); v != "" {
		cfg.APIBase = v
	}
	if v := strings.TrimSpace(raw.StreamURL); v != "" {
		cfg.StreamURL = v
	}
	if raw.PageSize > 0 {
		cfg.PageSize = raw.PageSize
	}
	if raw.MaxReconnectAttempts > 0 {
		cfg.MaxReconnectAttempts = raw.MaxReconnectAttempts
	}
	if cfg.ReconnectDelay, err = parseDuration("reconnect_delay", raw.ReconnectDelay, cfg.ReconnectDelay); err != nil {
		return Config{}, err
	}
	if cfg.SearchDebounce, err = parseDuration("search_debounce", raw.SearchDebounce, cfg.SearchDebounce); err != nil {
		return Config{}, err
	}
	cfg.PlayerCommand = strings.Fields(raw.PlayerCommand)
	if v := strings.TrimSpace(raw.LogFile); v != "" {
		cfg.LogFile = mustExpand(v)
	}
	if v := strings.TrimSpace(raw.LogLevel); v != "" {
		cfg.LogLevel = v
	}
	cfg.MetricsAddr = strings.TrimSpace(raw.MetricsAddr)

	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv(EnvAPIBase)); v != "" {
		cfg.APIBase = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvStreamURL)); v != "" {
		cfg.StreamURL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvMetricsAddr)); v != "" {
		cfg.MetricsAddr = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.LogLevel = v
	}
}

func parseDuration(key, value string, fallback time.Duration) (time.Duration, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("parse config: %s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("parse config: %s must be positive", key)
	}
	return d, nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
