// Package config loads and validates devgenie.yaml.
package config

import "time"

// Config represents the complete devgenie.yaml configuration.
type Config struct {
	Toolchain ToolchainConfig `yaml:"toolchain"`
	Run       RunConfig       `yaml:"run"`
	History   HistoryConfig   `yaml:"history"`
	Settings  SettingsConfig  `yaml:"settings"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

// ToolchainConfig describes how the build and test toolchain is invoked.
type ToolchainConfig struct {
	Executable   string            `yaml:"executable"`
	BuildCommand string            `yaml:"build_command"`
	TestCommand  string            `yaml:"test_command"`
	TestLogger   string            `yaml:"test_logger"`
	Parser       string            `yaml:"parser"` // Report parser name
	BuildArgs    []string          `yaml:"build_args"`
	TestArgs     []string          `yaml:"test_args"`
	Env          map[string]string `yaml:"env"`
}

// RunConfig controls how runs are scheduled.
type RunConfig struct {
	Timeout  string `yaml:"timeout"`  // Go duration string, empty for none
	Parallel int    `yaml:"parallel"` // 0 means one per CPU
	WorkDir  string `yaml:"workdir"`
}

// TimeoutDuration returns the parsed run timeout, or 0 when none is set.
// Validate rejects unparsable values, so the error is dropped here.
func (r RunConfig) TimeoutDuration() time.Duration {
	if r.Timeout == "" {
		return 0
	}
	d, _ := time.ParseDuration(r.Timeout)
	return d
}

// HistoryConfig configures the run history file.
type HistoryConfig struct {
	Path     string `yaml:"path"`
	Disabled bool   `yaml:"disabled"`
}

// SettingsConfig configures the settings store.
type SettingsConfig struct {
	Path string `yaml:"path"`
}

// MetricsConfig configures metrics export.
type MetricsConfig struct {
	Textfile string `yaml:"textfile"`
}
