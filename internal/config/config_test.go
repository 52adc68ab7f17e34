package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadWithDefaults(t *testing.T) {
	cfg, err := Load(context.Background(), WithEnvMap(map[string]string{}), WithoutSystemEnv(), WithEnvFile(""))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("expected default port 8080, got %s", cfg.Server.Port)
	}
	if cfg.Server.Addr() != ":8080" {
		t.Errorf("unexpected addr: %s", cfg.Server.Addr())
	}
	if cfg.Server.ReadHeaderTimeout != 10*time.Second {
		t.Errorf("unexpected read header timeout: %s", cfg.Server.ReadHeaderTimeout)
	}
	if cfg.Server.ShutdownTimeout != 10*time.Second {
		t.Errorf("unexpected shutdown timeout: %s", cfg.Server.ShutdownTimeout)
	}
	if cfg.PokeAPI.BaseURL != "https://pokeapi.co/api/v2" {
		t.Errorf("unexpected base url: %s", cfg.PokeAPI.BaseURL)
	}
	if cfg.PokeAPI.Timeout != 10*time.Second {
		t.Errorf("unexpected pokeapi timeout: %s", cfg.PokeAPI.Timeout)
	}
	if cfg.UI.DevMode || cfg.UI.Progressive {
		t.Errorf("expected dev and progressive modes off by default, got %+v", cfg.UI)
	}
	if cfg.UI.DefaultLang != "en" {
		t.Errorf("expected default lang en, got %s", cfg.UI.DefaultLang)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("expected info log level, got %s", cfg.Log.Level)
	}
}

func TestLoadWithOverrides(t *testing.T) {
	env := map[string]string{
		"POKEDEX_WEB_PORT":            "9090",
		"POKEDEX_WEB_READ_TIMEOUT":    "20s",
		"POKEDEX_WEB_WRITE_TIMEOUT":   "45s",
		"POKEDEX_WEB_REQUEST_TIMEOUT": "5s",
		"POKEDEX_WEB_DEV":             "yes",
		"POKEDEX_WEB_PROGRESSIVE":     "on",
		"POKEDEX_WEB_DEFAULT_LANG":    "JA",
		"POKEAPI_BASE_URL":            "http://127.0.0.1:9999/api/v2/",
		"POKEAPI_TIMEOUT":             "2s",
		"LOG_LEVEL":                   "debug",
	}

	cfg, err := Load(context.Background(), WithEnvMap(env), WithoutSystemEnv(), WithEnvFile(""))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Server.Port != "9090" {
		t.Errorf("expected port 9090, got %s", cfg.Server.Port)
	}
	if cfg.Server.ReadTimeout != 20*time.Second {
		t.Errorf("unexpected read timeout: %s", cfg.Server.ReadTimeout)
	}
	if cfg.Server.WriteTimeout != 45*time.Second {
		t.Errorf("unexpected write timeout: %s", cfg.Server.WriteTimeout)
	}
	if cfg.Server.RequestTimeout != 5*time.Second {
		t.Errorf("unexpected request timeout: %s", cfg.Server.RequestTimeout)
	}
	if !cfg.UI.DevMode || !cfg.UI.Progressive {
		t.Errorf("expected dev and progressive modes on, got %+v", cfg.UI)
	}
	if cfg.UI.DefaultLang != "ja" {
		t.Errorf("expected lower-cased lang ja, got %s", cfg.UI.DefaultLang)
	}
	if cfg.PokeAPI.BaseURL != "http://127.0.0.1:9999/api/v2" {
		t.Errorf("expected trailing slash trimmed, got %s", cfg.PokeAPI.BaseURL)
	}
	if cfg.PokeAPI.Timeout != 2*time.Second {
		t.Errorf("unexpected pokeapi timeout: %s", cfg.PokeAPI.Timeout)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("unexpected log level: %s", cfg.Log.Level)
	}
}

func TestLoadFallsBackToPORT(t *testing.T) {
	cfg, err := Load(context.Background(), WithEnvMap(map[string]string{"PORT": "7070"}), WithoutSystemEnv(), WithEnvFile(""))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Server.Port != "7070" {
		t.Errorf("expected PORT to be honoured, got %s", cfg.Server.Port)
	}

	cfg, err = Load(context.Background(), WithEnvMap(map[string]string{"PORT": "7070", "POKEDEX_WEB_PORT": "7171"}), WithoutSystemEnv(), WithEnvFile(""))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Server.Port != "7171" {
		t.Errorf("expected POKEDEX_WEB_PORT to win, got %s", cfg.Server.Port)
	}
}

func TestLoadReadsDotEnvWithLowestPrecedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := "# local overrides\nexport POKEAPI_TIMEOUT=3s\nLOG_LEVEL=\"warn\"\nPOKEDEX_WEB_PORT=6060\nmalformed-line\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}

	cfg, err := Load(context.Background(), WithEnvFile(path), WithoutSystemEnv(), WithEnvMap(map[string]string{"POKEDEX_WEB_PORT": "6161"}))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.PokeAPI.Timeout != 3*time.Second {
		t.Errorf("expected timeout from .env, got %s", cfg.PokeAPI.Timeout)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("expected quoted value unwrapped, got %q", cfg.Log.Level)
	}
	if cfg.Server.Port != "6161" {
		t.Errorf("expected env map to override .env, got %s", cfg.Server.Port)
	}
}

func TestLoadMissingDotEnvIsIgnored(t *testing.T) {
	_, err := Load(context.Background(), WithEnvFile(filepath.Join(t.TempDir(), "absent.env")), WithoutSystemEnv())
	if err != nil {
		t.Fatalf("expected missing .env to be ignored, got %v", err)
	}
}

func TestLoadValidationErrors(t *testing.T) {
	env := map[string]string{
		"POKEDEX_WEB_PORT":         "http",
		"POKEDEX_WEB_READ_TIMEOUT": "-1s",
		"POKEAPI_BASE_URL":         "ftp://example.com",
		"POKEAPI_TIMEOUT":          "0s",
	}

	_, err := Load(context.Background(), WithEnvMap(env), WithoutSystemEnv(), WithEnvFile(""))
	if err == nil {
		t.Fatal("expected validation error")
	}

	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %T", err)
	}

	want := map[string]bool{
		"Server.Port":        false,
		"Server.ReadTimeout": false,
		"PokeAPI.BaseURL":    false,
		"PokeAPI.Timeout":    false,
	}
	for _, field := range vErr.Fields() {
		if _, ok := want[field]; ok {
			want[field] = true
		}
	}
	for field, seen := range want {
		if !seen {
			t.Errorf("expected %s in validation fields %v", field, vErr.Fields())
		}
	}
}
