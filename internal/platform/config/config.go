package config

import (
	"fmt"
	"path/filepath"
)

type Config struct {
	DataDir      string
	DBPath       string
	SessionsDir  string
	ActivePath   string
	SettingsPath string
	LogPath      string
	Env          Env
}

func New(dataDir string, env Env) (Config, error) {
	if dataDir == "" {
		return Config{}, fmt.Errorf("data dir is required")
	}
	return Config{
		DataDir:      dataDir,
		DBPath:       filepath.Join(dataDir, "focustree.db"),
		SessionsDir:  filepath.Join(dataDir, "sessions"),
		ActivePath:   filepath.Join(dataDir, "active-session.json"),
		SettingsPath: filepath.Join(dataDir, "session-config.yaml"),
		LogPath:      filepath.Join(dataDir, "focustree.log"),
		Env:          env,
	}, nil
}
