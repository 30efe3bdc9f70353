package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{EnvAPIBase, EnvStreamURL, EnvMetricsAddr, EnvLogLevel} {
		t.Setenv(key, "")
	}
}

func TestLoad_MissingConfigFallsBackToDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	clearEnv(t)

	cfg, err := Load(filepath.Join(home, "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIBase != defaultAPIBase || cfg.StreamURL != defaultStreamURL {
		t.Fatalf("endpoints = %q %q, want defaults", cfg.APIBase, cfg.StreamURL)
	}
	if cfg.PageSize != 10 || cfg.MaxReconnectAttempts != 3 {
		t.Fatalf("PageSize/MaxReconnectAttempts = %d/%d, want 10/3", cfg.PageSize, cfg.MaxReconnectAttempts)
	}
	if cfg.ReconnectDelay != 5*time.Second || cfg.SearchDebounce != 300*time.Millisecond {
		t.Fatalf("delays = %v/%v, want 5s/300ms", cfg.ReconnectDelay, cfg.SearchDebounce)
	}
	if !strings.HasPrefix(cfg.LogFile, home) {
		t.Fatalf("LogFile = %q, want it under HOME %q", cfg.LogFile, home)
	}
}

func TestLoad_ParsesAndTrimsConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`
api_base = "  http://nvr.lan:3001/api  "
stream_url = " ws://nvr.lan:8080 "
page_size = 25
max_reconnect_attempts = 5
reconnect_delay = "2s"
search_debounce = "150ms"
player_command = "mpv --no-terminal"
log_file = "  ~/logs/lookout.log  "
log_level = "debug"
metrics_addr = "127.0.0.1:9464"
`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	want := Config{
		APIBase:              "http://nvr.lan:3001/api",
		StreamURL:            "ws://nvr.lan:8080",
		PageSize:             25,
		MaxReconnectAttempts: 5,
		ReconnectDelay:       2 * time.Second,
		SearchDebounce:       150 * time.Millisecond,
		PlayerCommand:        []string{"mpv", "--no-terminal"},
		LogFile:              filepath.Join(home, "logs/lookout.log"),
		LogLevel:             "debug",
		MetricsAddr:          "127.0.0.1:9464",
	}
	if !reflect.DeepEqual(cfg, want) {
		t.Fatalf("Load = %#v, want %#v", cfg, want)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	clearEnv(t)
	t.Setenv(EnvAPIBase, "http://env:1")
	t.Setenv(EnvStreamURL, "ws://env:2")
	t.Setenv(EnvMetricsAddr, ":9999")
	t.Setenv(EnvLogLevel, "warn")

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`api_base = "http://file:1"`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIBase != "http://env:1" || cfg.StreamURL != "ws://env:2" || cfg.MetricsAddr != ":9999" || cfg.LogLevel != "warn" {
		t.Fatalf("env not applied: %#v", cfg)
	}

	cfg, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIBase != "http://env:1" {
		t.Fatalf("env not applied without file: %q", cfg.APIBase)
	}
}

func TestLoad_EmptyValuesUseDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`
api_base = "   "
page_size = 0
reconnect_delay = ""
`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIBase != defaultAPIBase || cfg.PageSize != defaultPageSize || cfg.ReconnectDelay != defaultReconnectDelay {
		t.Fatalf("Load = %#v, want defaults", cfg)
	}
}

func TestLoad_InvalidValuesFail(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"toml", `api_base = [`, "parse config"},
		{"duration", `reconnect_delay = "soon"`, "reconnect_delay"},
		{"negative", `search_debounce = "-1s"`, "must be positive"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(tt.content), 0o600); err != nil {
				t.Fatalf("WriteFile: %v", err)
			}
			_, err := Load(path)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("Load error = %v, want it to mention %q", err, tt.want)
			}
		})
	}
}

func TestExpandPath_ExpandsTildeAndReturnsAbs(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := expandPath("~/a/b")
	if err != nil {
		t.Fatalf("expandPath returned error: %v", err)
	}
	want := filepath.Join(home, "a/b")
	if got != want {
		t.Fatalf("expandPath = %q, want %q", got, want)
	}
}

func TestExpandPath_EmptyErrors(t *testing.T) {
	if _, err := expandPath("   "); err == nil {
		t.Fatalf("expandPath returned nil error, want error")
	}
}
