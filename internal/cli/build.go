package cli

import (
	"context"
	"strconv"
	"strings"
	"sync"

	"github.com/urfave/cli/v2"

	deverrors "github.com/AndreyAkinshin/devgenie/internal/errors"
	"github.com/AndreyAkinshin/devgenie/internal/output"
	"github.com/AndreyAkinshin/devgenie/internal/runner"
)

func (s *session) cmdBuild(c *cli.Context) error {
	paths, err := projectArgs(c, "build")
	if err != nil {
		return err
	}
	if err := s.load(c); err != nil {
		return err
	}

	stream := len(paths) == 1 && !s.quiet
	r, err := s.newRunner(stream)
	if err != nil {
		return err
	}
	workers := s.parallelWorkers(c.Int(ParallelFlag.Name))
	s.logger.Debug("building", "projects", len(paths), "workers", workers)

	results := make([]runner.BuildResult, len(paths))
	var printMu sync.Mutex
	forEachProject(c.Context, paths, workers, func(ctx context.Context, i int, path string) {
		ctx, cancel := s.withTimeout(ctx)
		defer cancel()

		if stream {
			s.out.RunStart(path, "build")
		}
		res, err := r.RunBuildContext(ctx, path)
		if err != nil {
			res = runner.BuildResult{Project: path, ExitCode: -1, Errors: err.Error()}
		}
		results[i] = res

		printMu.Lock()
		defer printMu.Unlock()
		s.printBuild(res, stream)
	})
	s.flushMetrics()

	var failed []string
	for _, res := range results {
		if !res.Success {
			failed = append(failed, res.Project)
		}
	}
	if len(paths) > 1 {
		s.printBuildSummary(results)
		s.printFinal("builds", len(paths), failed)
	}
	if len(failed) > 0 {
		return deverrors.Newf("%d of %d builds failed", len(failed), len(paths))
	}
	return nil
}

// printBuild prints one build result. Streamed output was already mirrored.
func (s *session) printBuild(res runner.BuildResult, streamed bool) {
	if !streamed {
		if !s.quiet {
			s.out.RunStart(res.Project, "build")
			s.out.Print("%s", res.Output)
		}
		if res.Errors != "" && (!s.quiet || !res.Success) {
			s.out.Error("%s", res.Errors)
		}
	}
	if res.Success {
		s.out.RunSuccess(res.Project, "build", res.Duration)
	} else {
		s.out.RunFailed(res.Project, "build", failureReason(res.ExitCode, res.Canceled, res.Errors))
	}
}

func (s *session) printBuildSummary(results []runner.BuildResult) {
	s.out.SummaryHeader("Build Summary")
	rows := make([][]string, 0, len(results))
	for _, res := range results {
		rows = append(rows, []string{res.Project, resultLabel(res.Success, res.Canceled), output.FormatDuration(res.Duration)})
	}
	s.out.Table([]string{"Project", "Result", "Duration"}, rows, "Duration")
}

// projectArgs returns the project paths given to command, rejecting an
// empty list or an empty path before anything runs.
func projectArgs(c *cli.Context, command string) ([]string, error) {
	paths := c.Args().Slice()
	if len(paths) == 0 {
		return nil, deverrors.Configf("%s: at least one project path is required", command)
	}
	for _, p := range paths {
		if strings.TrimSpace(p) == "" {
			return nil, runner.ErrEmptyProjectPath
		}
	}
	return paths, nil
}

// failureReason describes why a run did not succeed.
func failureReason(exitCode int, canceled bool, errs string) string {
	switch {
	case canceled:
		return "canceled"
	case exitCode < 0:
		if line := firstLine(errs); line != "" {
			return line
		}
		return "toolchain did not run"
	default:
		return "exit code " + strconv.Itoa(exitCode)
	}
}

func resultLabel(success, canceled bool) string {
	switch {
	case canceled:
		return "canceled"
	case success:
		return "ok"
	default:
		return "FAILED"
	}
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[:i])
	}
	return s
}

// printFinal closes a multi-project run with the overall outcome.
func (s *session) printFinal(what string, total int, failed []string) {
	if len(failed) == 0 {
		s.out.FinalSuccess("All %d %s succeeded", total, what)
		return
	}
	s.out.FinalFailure("Failed %s: %s", what, strings.Join(failed, ", "))
}
