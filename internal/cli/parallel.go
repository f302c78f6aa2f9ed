package cli

import (
	"context"
	"os"
	"runtime"
	"strconv"

	"golang.org/x/sync/errgroup"
)

// Worker bounds for concurrent runs.
const (
	minParallelWorkers = 1
	maxParallelWorkers = 256
	parallelEnvVar     = "DEVGENIE_PARALLEL"
)

// parallelWorkers resolves the number of concurrent runs. An explicit flag
// value wins, then the configured value, then DEVGENIE_PARALLEL, then the
// CPU count. Out-of-range values fall back to the default with a warning.
func (s *session) parallelWorkers(flagValue int) int {
	for _, n := range []int{flagValue, s.cfg.Run.Parallel} {
		if n == 0 {
			continue
		}
		if n < minParallelWorkers || n > maxParallelWorkers {
			s.out.Warning("parallelism %d out of range [%d-%d], using default", n, minParallelWorkers, maxParallelWorkers)
			return defaultWorkerCount()
		}
		return n
	}

	env := os.Getenv(parallelEnvVar)
	if env == "" {
		return defaultWorkerCount()
	}

	n, err := strconv.Atoi(env)
	if err != nil {
		s.out.Warning("invalid %s value %q (not a number), using default", parallelEnvVar, env)
		return defaultWorkerCount()
	}
	if n < minParallelWorkers || n > maxParallelWorkers {
		s.out.Warning("%s=%d out of range [%d-%d], using default", parallelEnvVar, n, minParallelWorkers, maxParallelWorkers)
		return defaultWorkerCount()
	}
	return n
}

func defaultWorkerCount() int {
	n := runtime.NumCPU()
	if n < minParallelWorkers {
		return minParallelWorkers
	}
	if n > maxParallelWorkers {
		return maxParallelWorkers
	}
	return n
}

// forEachProject calls fn for every path with at most workers calls in
// flight. fn reports failures through its own results, so every path is
// visited; once ctx is done the remaining calls return canceled results
// without starting a process.
func forEachProject(ctx context.Context, paths []string, workers int, fn func(ctx context.Context, i int, path string)) {
	var g errgroup.Group
	g.SetLimit(workers)
	for i, path := range paths {
		g.Go(func() error {
			fn(ctx, i, path)
			return nil
		})
	}
	_ = g.Wait()
}
