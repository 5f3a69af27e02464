package out_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	setupout "focustree/internal/modules/setup/adapter/out"
	"focustree/internal/modules/setup/domain"
)

func TestYAMLConfigStoreRoundTripAndDefaults(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "cfg", "session-config.yaml")
	store := setupout.NewYAMLConfigStore(path)

	cfg, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("load missing config: %v", err)
	}
	if cfg != domain.Default() {
		t.Fatalf("missing file should load defaults, got %+v", cfg)
	}

	cfg.Mode = domain.ModeHardcore
	cfg.WorkingOn = "thesis chapter 2"
	if err := store.Save(context.Background(), cfg); err != nil {
		t.Fatalf("save config: %v", err)
	}
	loaded, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("reload config: %v", err)
	}
	if loaded.Mode != domain.ModeHardcore || loaded.WorkingOn != "thesis chapter 2" {
		t.Fatalf("unexpected reloaded config: %+v", loaded)
	}
}

func TestYAMLConfigStorePartialFileFillsDefaults(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "session-config.yaml")
	if err := os.WriteFile(path, []byte("mode: chill\nduration: 30\n"), 0o644); err != nil {
		t.Fatalf("write partial config: %v", err)
	}
	cfg, err := setupout.NewYAMLConfigStore(path).Load(context.Background())
	if err != nil {
		t.Fatalf("load partial config: %v", err)
	}
	if cfg.Mode != domain.ModeChill || cfg.DurationMin != 30 || cfg.Custom.AlertVolume != 70 {
		t.Fatalf("unexpected partial config: %+v", cfg)
	}
}

func TestYAMLConfigStoreWatchReportsRewrites(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "session-config.yaml")
	store := setupout.NewYAMLConfigStore(path)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes := make(chan domain.Config, 4)
	done := make(chan error, 1)
	go func() {
		done <- store.Watch(ctx, func(cfg domain.Config) { changes <- cfg })
	}()

	cfg := domain.Default()
	cfg.Personality = domain.PersonalityHypeMode
	deadline := time.After(5 * time.Second)
	tick := time.NewTicker(50 * time.Millisecond)
	defer tick.Stop()
	for {
		select {
		case got := <-changes:
			if got.Personality != domain.PersonalityHypeMode {
				t.Fatalf("unexpected watched config: %+v", got)
			}
			cancel()
			if err := <-done; err != nil {
				t.Fatalf("watch returned error: %v", err)
			}
			return
		case <-tick.C:
			// The watcher may not be registered yet; keep rewriting.
			if err := store.Save(context.Background(), cfg); err != nil {
				t.Fatalf("save config: %v", err)
			}
		case <-deadline:
			t.Fatalf("no change observed")
		}
	}
}
