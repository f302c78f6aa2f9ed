package cli

import "github.com/urfave/cli/v2"

// EnvVarPrefix prefixes the environment variables bound to global flags.
const EnvVarPrefix = "DEVGENIE"

func prefixEnvVar(name string) []string {
	return []string{EnvVarPrefix + "_" + name}
}

var (
	ConfigFlag = &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		EnvVars: prefixEnvVar("CONFIG"),
		Usage:   "Path to devgenie.yaml (default: search the current directory and its parents)",
	}
	QuietFlag = &cli.BoolFlag{
		Name:    "quiet",
		Aliases: []string{"q"},
		Usage:   "Only print failures and summaries",
	}
	NoColorFlag = &cli.BoolFlag{
		Name:    "no-color",
		EnvVars: []string{"NO_COLOR"},
		Usage:   "Disable colored output",
	}
	LogLevelFlag = &cli.StringFlag{
		Name:    "log-level",
		Value:   "warn",
		EnvVars: prefixEnvVar("LOG_LEVEL"),
		Usage:   "Log level: debug, info, warn or error",
	}
	LogFormatFlag = &cli.StringFlag{
		Name:    "log-format",
		Value:   "text",
		EnvVars: prefixEnvVar("LOG_FORMAT"),
		Usage:   "Log format: text or json",
	}
	TimeoutFlag = &cli.DurationFlag{
		Name:    "timeout",
		EnvVars: prefixEnvVar("TIMEOUT"),
		Usage:   "Cancel each toolchain run after this long (e.g. '10m'); 0 disables",
	}
	MetricsTextfileFlag = &cli.StringFlag{
		Name:    "metrics-textfile",
		EnvVars: prefixEnvVar("METRICS_TEXTFILE"),
		Usage:   "Write Prometheus metrics to this file after build and test runs",
	}
)

// ParallelFlag bounds concurrent runs when several projects are given.
var ParallelFlag = &cli.IntFlag{
	Name:    "parallel",
	Aliases: []string{"j"},
	Usage:   "Maximum concurrent runs (default: run.parallel, then " + parallelEnvVar + ", then CPU count)",
}

// Flags are the global flags.
var Flags = []cli.Flag{
	ConfigFlag,
	QuietFlag,
	NoColorFlag,
	LogLevelFlag,
	LogFormatFlag,
	TimeoutFlag,
	MetricsTextfileFlag,
}
