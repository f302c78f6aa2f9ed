package runner

import "context"

// RunBuild builds projectPath without cancellation.
func (r *Runner) RunBuild(projectPath string) (BuildResult, error) {
	return r.RunBuildContext(context.Background(), projectPath)
}

// RunBuildContext runs `<tool> build <projectPath>` and waits for it to exit
// or for ctx to be done. The returned error is non-nil only for an empty
// project path.
func (r *Runner) RunBuildContext(ctx context.Context, projectPath string) (BuildResult, error) {
	if err := checkProjectPath(projectPath); err != nil {
		return BuildResult{}, err
	}

	inv := r.newInvocation(projectPath, r.opts.BuildCommand, r.BuildArgs)
	res := r.exec(ctx, inv)

	result := BuildResult{
		RunID:    inv.id,
		Project:  projectPath,
		Success:  res.ExitCode == 0,
		Output:   res.Stdout,
		Errors:   res.Stderr,
		Duration: res.Duration,
		ExitCode: res.ExitCode,
		Canceled: res.Canceled,
	}

	if r.opts.Observer != nil {
		r.opts.Observer.ObserveBuild(result)
	}
	return result, nil
}
