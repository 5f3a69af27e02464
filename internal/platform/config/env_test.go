package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"focustree/internal/platform/config"
)

func TestLoadEnvDefaultsToOfflineWithoutKey(t *testing.T) {
	for _, key := range []string{"FOCUSTREE_AI_BACKEND", "FOCUSTREE_AI_KEY", "FOCUSTREE_AI_MODEL", "FOCUSTREE_LOG_LEVEL"} {
		t.Setenv(key, "")
		_ = os.Unsetenv(key)
	}
	env, err := config.LoadEnv()
	if err != nil {
		t.Fatalf("load env: %v", err)
	}
	if env.AIBackend != config.BackendOffline {
		t.Fatalf("expected offline backend without key, got %q", env.AIBackend)
	}
	if env.AIModel == "" || env.LogLevel != "info" {
		t.Fatalf("expected defaults to apply, got %+v", env)
	}
}

func TestLoadEnvRejectsUnknownBackendAndMissingPlugin(t *testing.T) {
	t.Setenv("FOCUSTREE_AI_BACKEND", "carrier-pigeon")
	if _, err := config.LoadEnv(); err == nil {
		t.Fatalf("unknown backend must fail")
	}
	t.Setenv("FOCUSTREE_AI_BACKEND", "plugin")
	t.Setenv("FOCUSTREE_COACH_PLUGIN", "")
	if _, err := config.LoadEnv(); err == nil {
		t.Fatalf("plugin backend without path must fail")
	}
}

func TestNewDerivesPaths(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	cfg, err := config.New(dir, config.Env{})
	if err != nil {
		t.Fatalf("new config: %v", err)
	}
	if cfg.DBPath != filepath.Join(dir, "focustree.db") || cfg.SettingsPath != filepath.Join(dir, "session-config.yaml") {
		t.Fatalf("unexpected paths: %+v", cfg)
	}
	if _, err := config.New("", config.Env{}); err == nil {
		t.Fatalf("empty data dir must fail")
	}
}
