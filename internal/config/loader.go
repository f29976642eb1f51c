package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const configFile = "mole.yaml"

// LoadMole loads the whack-a-mole configuration.
// Search order: customPath -> ~/.mole/configs/mole.yaml -> ./configs/mole.yaml -> embedded default.
// Files are applied on top of the defaults, so partial files are allowed.
// Errors are only returned for an explicit customPath or an invalid result.
func LoadMole(customPath string) (MoleConfig, error) {
	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return MoleConfig{}, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		cfg, err := parse(data)
		if err != nil {
			return MoleConfig{}, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		if err := cfg.Validate(); err != nil {
			return MoleConfig{}, fmt.Errorf("invalid config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory, then local configs directory
	for _, path := range []string{userConfigPath(configFile), filepath.Join("configs", configFile)} {
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		if cfg, err := parse(data); err == nil && cfg.Validate() == nil {
			return cfg, nil
		}
	}

	// Use embedded default YAML
	cfg, err := parse(defaultMoleYAML)
	if err != nil || cfg.Validate() != nil {
		return DefaultMoleConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// Marshal encodes a config as YAML.
func Marshal(cfg MoleConfig) ([]byte, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("config: cannot encode: %w", err)
	}
	return data, nil
}

// parse decodes YAML on top of the hardcoded defaults.
func parse(data []byte) (MoleConfig, error) {
	cfg := DefaultMoleConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return MoleConfig{}, err
	}
	return cfg, nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".mole", "configs", filename)
}
