// Package runner runs a project's build and test toolchain and turns its
// output into typed results.
//
// A Runner never reports an operational failure (toolchain missing, nonzero
// exit, cancellation) as a Go error: those come back inside BuildResult and
// TestResult with Success=false. The only error a Run method returns is a
// contract violation by the caller, such as an empty project path.
//
// Runner methods are safe for concurrent use. Each call owns its subprocess
// and output buffers, and no limit is placed on how many run at once.
package runner

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	deverrors "github.com/AndreyAkinshin/devgenie/internal/errors"
	"github.com/AndreyAkinshin/devgenie/internal/procexec"
	"github.com/AndreyAkinshin/devgenie/internal/testparser"
)

// Default toolchain settings.
const (
	DefaultExecutable   = "dotnet"
	DefaultBuildCommand = "build"
	DefaultTestCommand  = "test"
	DefaultTestLogger   = "console;verbosity=normal"
)

// ErrEmptyProjectPath is returned when a Run method is called without a
// project path. No process is started.
var ErrEmptyProjectPath = deverrors.Validation("project path is empty")

// Observer receives every result a Runner produces. Implementations must be
// safe for concurrent use.
type Observer interface {
	ObserveBuild(BuildResult)
	ObserveTests(TestResult)
}

// Options configures a Runner. The zero value runs `dotnet` from the
// caller's working directory.
type Options struct {
	Executable   string // Toolchain executable (default "dotnet")
	BuildCommand string // Build subcommand (default "build")
	TestCommand  string // Test subcommand (default "test")
	TestLogger   string // Value for --logger:<format> (default console;verbosity=normal)

	// BuildArgs and TestArgs are appended after the canonical arguments.
	BuildArgs []string
	TestArgs  []string

	// WorkDir is the toolchain's working directory. When empty the toolchain
	// runs in the project directory (the path itself if it is a directory,
	// otherwise its parent) and receives the absolute project path.
	WorkDir string

	// Env adds variables to the inherited environment.
	Env map[string]string

	// Parser reads test reports. Nil means the dotnet parser.
	Parser testparser.Parser

	// Stdout and Stderr, when set, receive each output line as it arrives.
	// Lines from concurrent runs may interleave; each line is written with a
	// single Write call.
	Stdout io.Writer
	Stderr io.Writer

	Logger   *slog.Logger // Nil discards log records
	Observer Observer     // Optional
}

// Runner runs build and test toolchain commands.
type Runner struct {
	opts   Options
	logger *slog.Logger

	// Serializes writes to the mirrors so whole lines stay intact.
	mirrorMu sync.Mutex
}

// New creates a Runner, filling unset options with defaults.
func New(opts Options) *Runner {
	if opts.Executable == "" {
		opts.Executable = DefaultExecutable
	}
	if opts.BuildCommand == "" {
		opts.BuildCommand = DefaultBuildCommand
	}
	if opts.TestCommand == "" {
		opts.TestCommand = DefaultTestCommand
	}
	if opts.TestLogger == "" {
		opts.TestLogger = DefaultTestLogger
	}
	if opts.Parser == nil {
		opts.Parser = &testparser.DotnetParser{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Runner{opts: opts, logger: logger}
}

// Executable returns the toolchain executable this Runner invokes.
func (r *Runner) Executable() string {
	return r.opts.Executable
}

// BuildArgs returns the argument list used to build projectPath.
func (r *Runner) BuildArgs(projectPath string) []string {
	args := []string{r.opts.BuildCommand, projectPath}
	return append(args, r.opts.BuildArgs...)
}

// TestArgs returns the argument list used to test projectPath.
func (r *Runner) TestArgs(projectPath string) []string {
	args := []string{r.opts.TestCommand, projectPath, "--logger:" + r.opts.TestLogger}
	return append(args, r.opts.TestArgs...)
}

// invocation is one toolchain run in flight.
type invocation struct {
	id      string
	project string
	dir     string
	command string
	args    []string
}

// newInvocation prepares a run of command against projectPath. argsFor
// builds the argument list from the path handed to the toolchain.
func (r *Runner) newInvocation(projectPath, command string, argsFor func(string) []string) invocation {
	target, dir := r.target(projectPath)
	return invocation{
		id:      uuid.New().String(),
		project: projectPath,
		dir:     dir,
		command: command,
		args:    argsFor(target),
	}
}

// target returns the path passed to the toolchain and the directory it runs
// in. An explicit WorkDir keeps the path as given. A path whose parent does
// not exist is passed through unchanged from the caller's directory so the
// toolchain reports it.
func (r *Runner) target(projectPath string) (path, dir string) {
	if r.opts.WorkDir != "" {
		return projectPath, r.opts.WorkDir
	}
	abs, err := filepath.Abs(projectPath)
	if err != nil {
		return projectPath, ""
	}
	if fi, err := os.Stat(abs); err == nil && fi.IsDir() {
		return abs, abs
	}
	parent := filepath.Dir(abs)
	if fi, err := os.Stat(parent); err != nil || !fi.IsDir() {
		return projectPath, ""
	}
	return abs, parent
}

// exec runs the invocation through procexec and logs its lifecycle.
func (r *Runner) exec(ctx context.Context, inv invocation) procexec.Result {
	log := r.logger.With("run_id", inv.id, "project", inv.project, "command", inv.command)
	log.Debug("starting toolchain",
		"executable", r.opts.Executable,
		"args", strings.Join(inv.args, " "),
		"dir", inv.dir)

	cmd := procexec.Command{
		Name: r.opts.Executable,
		Args: inv.args,
		Dir:  inv.dir,
		Env:  envList(r.opts.Env),
	}
	if r.opts.Stdout != nil {
		cmd.OnStdout = r.mirror(r.opts.Stdout)
	}
	if r.opts.Stderr != nil {
		cmd.OnStderr = r.mirror(r.opts.Stderr)
	}

	res := procexec.Run(ctx, cmd)
	if res.Err != nil {
		// Output could not be captured, so a zero exit status proves nothing.
		res.ExitCode = procexec.NoExitCode
	}

	switch {
	case res.Canceled:
		log.Info("toolchain canceled", "duration", res.Duration)
	case res.Err != nil:
		log.Warn("toolchain failed to run", "error", res.Err)
	default:
		log.Debug("toolchain exited", "exit_code", res.ExitCode, "duration", res.Duration)
	}
	return res
}

func (r *Runner) mirror(w io.Writer) func(string) {
	return func(line string) {
		r.mirrorMu.Lock()
		defer r.mirrorMu.Unlock()
		_, _ = io.WriteString(w, line+"\n")
	}
}

// envList converts an env map to sorted KEY=VALUE pairs so the child
// environment is deterministic.
func envList(env map[string]string) []string {
	if len(env) == 0 {
		return nil
	}
	list := make([]string, 0, len(env))
	for k, v := range env {
		list = append(list, k+"="+v)
	}
	sort.Strings(list)
	return list
}

func checkProjectPath(projectPath string) error {
	if strings.TrimSpace(projectPath) == "" {
		return ErrEmptyProjectPath
	}
	return nil
}
