package config

import "path/filepath"

// Default configuration values.
const (
	DefaultFileName     = "devgenie.yaml"
	DefaultExecutable   = "dotnet"
	DefaultBuildCommand = "build"
	DefaultTestCommand  = "test"
	DefaultTestLogger   = "console;verbosity=normal"
	DefaultParser       = "dotnet"
	DefaultHistoryPath  = ".devgenie/history.json"
	DefaultSettingsPath = ".devgenie/settings.json"
	DefaultToolEnvVar   = "DEVGENIE_TOOL"
)

// Default returns the configuration used when no devgenie.yaml exists.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// applyDefaults fills in default values for unset configuration fields.
func applyDefaults(cfg *Config) {
	applyToolchainDefaults(cfg)
	if cfg.History.Path == "" {
		cfg.History.Path = DefaultHistoryPath
	}
	if cfg.Settings.Path == "" {
		cfg.Settings.Path = DefaultSettingsPath
	}
}

func applyToolchainDefaults(cfg *Config) {
	tc := &cfg.Toolchain
	if tc.Executable == "" {
		tc.Executable = DefaultExecutable
	}
	if tc.BuildCommand == "" {
		tc.BuildCommand = DefaultBuildCommand
	}
	if tc.TestCommand == "" {
		tc.TestCommand = DefaultTestCommand
	}
	if tc.TestLogger == "" {
		tc.TestLogger = DefaultTestLogger
	}
	if tc.Parser == "" {
		tc.Parser = DefaultParser
	}
}

// applyEnv applies environment overrides. lookup is os.LookupEnv outside
// of tests.
func applyEnv(cfg *Config, lookup func(string) (string, bool)) {
	if tool, ok := lookup(DefaultToolEnvVar); ok && tool != "" {
		cfg.Toolchain.Executable = tool
	}
}

// resolvePaths makes relative file paths relative to baseDir, the directory
// holding the configuration file.
func resolvePaths(cfg *Config, baseDir string) {
	for _, p := range []*string{&cfg.History.Path, &cfg.Settings.Path, &cfg.Metrics.Textfile, &cfg.Run.WorkDir} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(baseDir, *p)
		}
	}
}
