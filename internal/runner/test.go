package runner

import "context"

// RunTests tests projectPath without cancellation.
func (r *Runner) RunTests(projectPath string) (TestResult, error) {
	return r.RunTestsContext(context.Background(), projectPath)
}

// RunTestsContext runs `<tool> test <projectPath> --logger:<format>`, waits
// for it to exit or for ctx to be done, and parses the report. The returned
// error is non-nil only for an empty project path.
func (r *Runner) RunTestsContext(ctx context.Context, projectPath string) (TestResult, error) {
	if err := checkProjectPath(projectPath); err != nil {
		return TestResult{}, err
	}

	inv := r.newInvocation(projectPath, r.opts.TestCommand, r.TestArgs)
	res := r.exec(ctx, inv)

	// The summary normally lands on stdout; some hosts route it to stderr.
	summary := r.opts.Parser.Parse(res.Stdout)
	if !summary.Parsed && res.Stderr != "" {
		summary = r.opts.Parser.Parse(res.Stdout + "\n" + res.Stderr)
	}
	if !summary.Parsed && res.Err == nil && !res.Canceled {
		r.logger.Debug("no test summary recognized", "run_id", inv.id, "parser", r.opts.Parser.Name())
	}

	result := TestResult{
		RunID:        inv.id,
		Project:      projectPath,
		Success:      res.ExitCode == 0,
		TotalTests:   summary.Total,
		PassedTests:  summary.Passed,
		FailedTests:  summary.Failed,
		SkippedTests: summary.Skipped,
		Parsed:       summary.Parsed,
		Duration:     summary.Duration,
		Elapsed:      res.Duration,
		Output:       res.Stdout,
		Errors:       res.Stderr,
		ExitCode:     res.ExitCode,
		Canceled:     res.Canceled,
	}

	if r.opts.Observer != nil {
		r.opts.Observer.ObserveTests(result)
	}
	return result, nil
}
