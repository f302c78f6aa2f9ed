// Package cli provides the devgenie command-line interface.
package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	deverrors "github.com/AndreyAkinshin/devgenie/internal/errors"
	"github.com/AndreyAkinshin/devgenie/internal/output"
)

// Version is set at build time.
var Version = "dev"

// Run executes the CLI with the given arguments and returns an exit code.
// SIGINT and SIGTERM cancel in-flight toolchain runs.
func Run(args []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return RunWith(ctx, args, output.New())
}

// RunWith executes the CLI writing through out.
func RunWith(ctx context.Context, args []string, out *output.Writer) int {
	s := &session{out: out}
	app := s.newApp()

	err := app.RunContext(ctx, append([]string{app.Name}, args...))
	if err == nil {
		return deverrors.ExitSuccess
	}

	var exitErr cli.ExitCoder
	if errors.As(err, &exitErr) {
		if msg := exitErr.Error(); msg != "" {
			s.out.ErrorPrefix("%s", msg)
		}
		return exitErr.ExitCode()
	}
	s.out.ErrorPrefix("%v", err)
	return deverrors.GetExitCode(err)
}

func (s *session) newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "devgenie"
	app.Usage = "Build and test .NET projects and keep a record of the results"
	app.Version = Version
	app.Writer = s.out.Stdout()
	app.ErrWriter = s.out.Stderr()
	app.Flags = Flags
	app.Before = s.before
	app.OnUsageError = usageError
	app.ExitErrHandler = func(*cli.Context, error) {}
	app.Commands = []*cli.Command{
		{
			Name:         "build",
			Usage:        "Build one or more projects",
			ArgsUsage:    "<path>...",
			Flags:        []cli.Flag{ParallelFlag},
			Action:       s.cmdBuild,
			OnUsageError: usageError,
		},
		{
			Name:         "test",
			Usage:        "Run the tests of one or more projects",
			ArgsUsage:    "<path>...",
			Flags:        []cli.Flag{ParallelFlag},
			Action:       s.cmdTest,
			OnUsageError: usageError,
		},
		{
			Name:         "scan",
			Usage:        "List build descriptors (.csproj, .fsproj, .vbproj, .sln) under a directory",
			ArgsUsage:    "[dir]",
			Action:       s.cmdScan,
			OnUsageError: usageError,
		},
		{
			Name:  "history",
			Usage: "Show recorded runs and aggregate statistics",
			Flags: []cli.Flag{
				&cli.IntFlag{Name: "limit", Aliases: []string{"n"}, Value: 20, Usage: "Number of most recent runs to list (0 for all)"},
			},
			Action:       s.cmdHistory,
			OnUsageError: usageError,
		},
		s.settingsCommand(),
		{
			Name:  "version",
			Usage: "Print the devgenie version",
			Action: func(*cli.Context) error {
				s.out.Println("devgenie %s", Version)
				return nil
			},
		},
	}
	return app
}

func usageError(_ *cli.Context, err error, _ bool) error {
	return deverrors.Config(err.Error())
}
