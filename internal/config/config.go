package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/AndreyAkinshin/devgenie/internal/schema"
)

// Load reads and parses a devgenie.yaml file without defaults or validation.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &cfg, nil
}

// LoadAndValidate reads a config file, checks it against the config schema,
// applies defaults and environment overrides, validates, and returns
// warnings for unknown fields.
func LoadAndValidate(path string) (*Config, []string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg, warnings, err := Parse(data)
	if err != nil {
		return nil, warnings, err
	}

	resolvePaths(cfg, filepath.Dir(path))
	return cfg, warnings, nil
}

// LoadOrDefault loads path when it exists. A missing file yields the
// default configuration unless required is set.
func LoadOrDefault(path string, required bool) (*Config, []string, error) {
	cfg, warnings, err := LoadAndValidate(path)
	if err == nil {
		return cfg, warnings, nil
	}
	if !required && errors.Is(err, fs.ErrNotExist) {
		cfg = Default()
		applyEnv(cfg, os.LookupEnv)
		return cfg, nil, nil
	}
	return nil, warnings, err
}

// Parse decodes YAML configuration data. Paths are left as written.
func Parse(data []byte) (*Config, []string, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if raw == nil {
		raw = map[string]any{}
	}

	doc, err := json.Marshal(raw)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := schema.ValidateConfig(doc); err != nil {
		return nil, nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	warnings := detectUnknownFields(raw)

	applyDefaults(&cfg)
	applyEnv(&cfg, os.LookupEnv)

	if err := Validate(&cfg); err != nil {
		return nil, warnings, err
	}
	return &cfg, warnings, nil
}
