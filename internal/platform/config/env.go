package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
)

const (
	BackendHTTP    = "http"
	BackendPlugin  = "plugin"
	BackendOffline = "offline"
)

// Env holds process settings read from FOCUSTREE_* variables.
type Env struct {
	DataDir    string `env:"FOCUSTREE_DATA_DIR"`
	LogLevel   string `env:"FOCUSTREE_LOG_LEVEL" envDefault:"info"`
	AIBackend  string `env:"FOCUSTREE_AI_BACKEND" envDefault:"http"`
	AIEndpoint string `env:"FOCUSTREE_AI_ENDPOINT" envDefault:"https://generativelanguage.googleapis.com/v1beta"`
	AIModel    string `env:"FOCUSTREE_AI_MODEL" envDefault:"gemini-2.5-flash"`
	AIKey      string `env:"FOCUSTREE_AI_KEY"`
	PluginPath string `env:"FOCUSTREE_COACH_PLUGIN"`
	Device     string `env:"FOCUSTREE_CAMERA_DEVICE" envDefault:"/dev/video0"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// LoadEnv parses Env and normalizes the backend selection.
func LoadEnv() (Env, error) {
	out := Env{}
	if err := ParseEnv(&out); err != nil {
		return Env{}, err
	}
	out.AIBackend = strings.ToLower(strings.TrimSpace(out.AIBackend))
	if out.AIBackend == "" {
		out.AIBackend = BackendHTTP
	}
	switch out.AIBackend {
	case BackendHTTP, BackendPlugin, BackendOffline:
	default:
		return Env{}, fmt.Errorf("unknown ai backend %q", out.AIBackend)
	}
	if out.AIBackend == BackendHTTP && strings.TrimSpace(out.AIKey) == "" {
		out.AIBackend = BackendOffline
	}
	if out.AIBackend == BackendPlugin && strings.TrimSpace(out.PluginPath) == "" {
		return Env{}, fmt.Errorf("FOCUSTREE_COACH_PLUGIN is required for the plugin backend")
	}
	return out, nil
}

// DefaultDataDir is used when neither the flag nor the environment names one.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ".focustree"
	}
	return filepath.Join(home, ".focustree")
}
