package out

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"

	"focustree/internal/modules/setup/domain"
	setupout "focustree/internal/modules/setup/port/out"
)

type YAMLConfigStore struct {
	path string
}

func NewYAMLConfigStore(path string) setupout.ConfigStore {
	return &YAMLConfigStore{path: path}
}

func (s *YAMLConfigStore) Load(_ context.Context) (domain.Config, error) {
	payload, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.Default(), nil
		}
		return domain.Config{}, fmt.Errorf("read session config: %w", err)
	}
	return decode(payload)
}

func (s *YAMLConfigStore) Save(_ context.Context, cfg domain.Config) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	cfg.SchemaVersion = domain.SchemaVersion
	payload, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal session config: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, payload, 0o644); err != nil {
		return fmt.Errorf("write session config: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace session config: %w", err)
	}
	return nil
}

// Watch observes the parent directory so that atomic replacements of the
// file are seen as well as in-place writes.
func (s *YAMLConfigStore) Watch(ctx context.Context, onChange func(domain.Config)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create config watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch config dir: %w", err)
	}

	base := filepath.Base(s.path)
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != base {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			payload, err := os.ReadFile(s.path)
			if err != nil {
				continue
			}
			cfg, err := decode(payload)
			if err != nil {
				continue
			}
			onChange(cfg)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("config watcher: %w", err)
		}
	}
}

func decode(payload []byte) (domain.Config, error) {
	cfg := domain.Config{}
	if err := yaml.Unmarshal(payload, &cfg); err != nil {
		return domain.Config{}, fmt.Errorf("decode session config: %w", err)
	}
	return cfg.FillDefaults(), nil
}
