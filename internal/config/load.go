package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// EnvPayload names the environment variable carrying the base64 model.
const EnvPayload = "MODEL_BASE64"

// Load loads configuration with priority: defaults < file < environment < flags.
func Load() (*Config, error) {
	cfg := Default()

	configPath := ConfigPath()
	if configPath == "" {
		configPath = findConfigFile()
	}
	if configPath != "" {
		if err := loadFromFile(cfg, configPath); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", configPath, err)
		}
	}

	applyEnv(cfg)
	applyFlags(cfg)
	return cfg, nil
}

// Payload resolves the effective base64 payload. An empty result with a nil
// error means no model was provided.
func (c *Config) Payload() (string, error) {
	if c.Model.Payload != "" {
		return c.Model.Payload, nil
	}
	if c.Model.PayloadFile == "" {
		return "", nil
	}
	data, err := os.ReadFile(c.Model.PayloadFile)
	if err != nil {
		return "", fmt.Errorf("reading payload file: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

func applyEnv(cfg *Config) {
	if v, ok := os.LookupEnv(EnvPayload); ok && v != "" {
		cfg.Model.Payload = v
	}
}

// findConfigFile looks for config in standard locations.
func findConfigFile() string {
	candidates := []string{
		"./config.yaml",
		filepath.Join(ConfigDir(), "config.yaml"),
	}
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ConfigDir returns the OS-appropriate config directory.
func ConfigDir() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "GLBView")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "GLBView")
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "glbview")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "glbview")
	}
}

// loadFromFile loads config from a YAML file, merging with existing values.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}
