package cli

import (
	"context"
	"sync"

	"github.com/urfave/cli/v2"

	deverrors "github.com/AndreyAkinshin/devgenie/internal/errors"
	"github.com/AndreyAkinshin/devgenie/internal/output"
	"github.com/AndreyAkinshin/devgenie/internal/runner"
)

func (s *session) cmdTest(c *cli.Context) error {
	paths, err := projectArgs(c, "test")
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
	s.logger.Debug("testing", "projects", len(paths), "workers", workers)

	results := make([]runner.TestResult, len(paths))
	var printMu sync.Mutex
	forEachProject(c.Context, paths, workers, func(ctx context.Context, i int, path string) {
		ctx, cancel := s.withTimeout(ctx)
		defer cancel()

		if stream {
			s.out.RunStart(path, "test")
		}
		res, err := r.RunTestsContext(ctx, path)
		if err != nil {
			res = runner.TestResult{Project: path, ExitCode: -1, Errors: err.Error()}
		}
		results[i] = res

		printMu.Lock()
		defer printMu.Unlock()
		s.printTests(res, stream)
	})
	s.flushMetrics()

	s.printTestSummary(results)

	var failed []string
	for _, res := range results {
		if !res.Success {
			failed = append(failed, res.Project)
		}
	}
	if len(paths) > 1 {
		s.printFinal("test runs", len(paths), failed)
	}
	if len(failed) > 0 {
		return deverrors.Newf("%d of %d test runs failed", len(failed), len(paths))
	}
	return nil
}

// printTests prints one test result followed by its pass/fail counts.
func (s *session) printTests(res runner.TestResult, streamed bool) {
	if !streamed {
		if !s.quiet {
			s.out.RunStart(res.Project, "test")
			s.out.Print("%s", res.Output)
		}
		if res.Errors != "" && (!s.quiet || !res.Success) {
			s.out.Error("%s", res.Errors)
		}
	}

	s.out.Println("Tests Passed: %s", s.out.Number(res.PassedTests))
	s.out.Println("Tests Failed: %s", s.out.Number(res.FailedTests))
	if !res.Parsed && !res.Canceled && res.ExitCode >= 0 {
		s.out.Hint("no test summary recognized in the toolchain output")
	}

	if res.Success {
		s.out.RunSuccess(res.Project, "test", res.Elapsed)
	} else {
		s.out.RunFailed(res.Project, "test", failureReason(res.ExitCode, res.Canceled, res.Errors))
	}
}

// printTestSummary prints the totals over all runs, with a per-project
// table when more than one project ran.
func (s *session) printTestSummary(results []runner.TestResult) {
	var total, passed, failed, skipped int
	for _, res := range results {
		total += res.TotalTests
		passed += res.PassedTests
		failed += res.FailedTests
		skipped += res.SkippedTests
	}

	s.out.SummaryHeader(s.out.Title("test summary"))
	if len(results) > 1 {
		rows := make([][]string, 0, len(results))
		for _, res := range results {
			rows = append(rows, []string{
				res.Project,
				s.out.Number(res.TotalTests),
				s.out.Number(res.PassedTests),
				s.out.Number(res.FailedTests),
				s.out.Number(res.SkippedTests),
				output.FormatDuration(res.Elapsed),
				resultLabel(res.Success, res.Canceled),
			})
		}
		s.out.Table(
			[]string{"Project", "Total", "Passed", "Failed", "Skipped", "Duration", "Result"},
			rows,
			"Total", "Passed", "Failed", "Skipped", "Duration",
		)
		s.out.Println("")
	}

	s.out.SummaryPassed("Passed", s.out.Number(passed))
	if failed > 0 {
		s.out.SummaryFailed("Failed", s.out.Number(failed))
	}
	if skipped > 0 {
		s.out.SummaryItem("Skipped", s.out.Number(skipped))
	}
	s.out.SummaryItem("Total", s.out.Number(total))
}
