// Package procexec runs one external command to completion while capturing
// its standard output and standard error.
//
// Both streams are drained on independent goroutines from the moment the
// process starts, so a process that fills both OS pipe buffers never blocks
// waiting for the parent to read the other stream. Cancellation is observed
// through a context: the whole process tree is killed and Run returns with
// whatever output was captured so far.
package procexec

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"time"

	"golang.org/x/sync/errgroup"
)

// NoExitCode is reported when the process never started, was killed by a
// signal, or was canceled.
const NoExitCode = -1

// pipeCloseDelay bounds how long Run waits for the pipes to reach EOF after
// killing a canceled process tree. Descendants that escaped the process group
// can keep the write ends open indefinitely; after this delay the read ends are
// closed so Run can return.
const pipeCloseDelay = 2 * time.Second

// Command describes a process to run.
type Command struct {
	Name string   // Executable name or path, resolved through PATH
	Args []string // Arguments, passed verbatim (no shell involved)
	Dir  string   // Working directory; empty means the current directory
	Env  []string // Extra KEY=VALUE pairs appended to the inherited environment

	// OnStdout and OnStderr, when set, receive every line (without its line
	// terminator) as soon as it is read. Each is called from its stream's
	// reader goroutine, so the two may run concurrently with each other.
	OnStdout func(line string)
	OnStderr func(line string)
}

// Result is the outcome of Run.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Duration time.Duration

	// Canceled is true when the context was done before the process exited.
	Canceled bool

	// Err is non-nil when the process could not be started or its output
	// could not be read. A nonzero exit status is not an error.
	Err error
}

// Success reports whether the process ran to completion with exit code zero.
func (r Result) Success() bool {
	return r.Err == nil && !r.Canceled && r.ExitCode == 0
}

// Run starts the command, captures both output streams and waits for it to
// exit or for ctx to be done. Run never panics on operational failures and
// always returns a populated Result.
func Run(ctx context.Context, c Command) Result {
	if err := ctx.Err(); err != nil {
		return Result{
			ExitCode: NoExitCode,
			Canceled: true,
			Stderr:   err.Error() + "\n",
		}
	}

	cmd := exec.Command(c.Name, c.Args...)
	cmd.Dir = c.Dir
	if len(c.Env) > 0 {
		cmd.Env = append(os.Environ(), c.Env...)
	}
	setProcessGroup(cmd)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return startFailure(err, 0)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		_ = stdout.Close()
		return startFailure(err, 0)
	}

	start := time.Now()
	if err := cmd.Start(); err != nil {
		return startFailure(err, time.Since(start))
	}

	var outAcc, errAcc lineAccumulator
	var readers errgroup.Group
	readers.Go(func() error { return drain(stdout, &outAcc, c.OnStdout) })
	readers.Go(func() error { return drain(stderr, &errAcc, c.OnStderr) })

	// All reads must finish before Wait, which closes the pipes.
	var readErr error
	waitDone := make(chan error, 1)
	go func() {
		readErr = readers.Wait()
		waitDone <- cmd.Wait()
	}()

	var waitErr error
	canceled := false
	select {
	case waitErr = <-waitDone:
	case <-ctx.Done():
		canceled = true
		_ = killTree(cmd.Process)
		select {
		case waitErr = <-waitDone:
		case <-time.After(pipeCloseDelay):
			_ = stdout.Close()
			_ = stderr.Close()
			waitErr = <-waitDone
		}
	}
	duration := time.Since(start)

	res := Result{
		Stdout:   outAcc.String(),
		Stderr:   errAcc.String(),
		ExitCode: exitCode(cmd, waitErr),
		Duration: duration,
		Canceled: canceled,
	}
	if canceled {
		res.ExitCode = NoExitCode
		return res
	}
	if readErr != nil {
		res.Err = readErr
	} else if waitErr != nil {
		var exitErr *exec.ExitError
		if !errors.As(waitErr, &exitErr) {
			res.Err = waitErr
		}
	}
	return res
}

// startFailure builds the Result for a process that never ran. The failure
// message is placed in Stderr so callers that only print output still show it.
func startFailure(err error, d time.Duration) Result {
	return Result{
		Stderr:   err.Error() + "\n",
		ExitCode: NoExitCode,
		Duration: d,
		Err:      err,
	}
}

func exitCode(cmd *exec.Cmd, waitErr error) int {
	var exitErr *exec.ExitError
	if errors.As(waitErr, &exitErr) {
		return exitErr.ExitCode()
	}
	if cmd.ProcessState != nil {
		return cmd.ProcessState.ExitCode()
	}
	return NoExitCode
}
