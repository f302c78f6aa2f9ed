// Package main tests for the devgenie CLI entry point.
package main

import (
	"errors"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/AndreyAkinshin/devgenie/pkg/devgenie"
)

func goTool(t *testing.T) string {
	t.Helper()
	path, err := exec.LookPath("go")
	if err != nil {
		t.Skip("go toolchain not in PATH")
	}
	return path
}

// TestMain_HelpFlag verifies the --help flag works correctly.
func TestMain_HelpFlag(t *testing.T) {
	t.Parallel()

	cmd := exec.Command(goTool(t), "run", ".", "--help")
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("--help failed: %v\noutput: %s", err, out)
	}
	if !strings.Contains(string(out), "devgenie") {
		t.Errorf("--help output does not name the program:\n%s", out)
	}
}

// TestMain_Version verifies the version command works correctly.
func TestMain_Version(t *testing.T) {
	t.Parallel()

	cmd := exec.Command(goTool(t), "run", ".", "version")
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("version failed: %v\noutput: %s", err, out)
	}
	if !strings.HasPrefix(string(out), "devgenie ") {
		t.Errorf("version output = %q", out)
	}
}

// TestMain_UsageErrorExitCode verifies usage errors exit with code 2.
func TestMain_UsageErrorExitCode(t *testing.T) {
	t.Parallel()

	bin := filepath.Join(t.TempDir(), "devgenie")
	build := exec.Command(goTool(t), "build", "-o", bin, ".")
	if out, err := build.CombinedOutput(); err != nil {
		t.Fatalf("build failed: %v\n%s", err, out)
	}

	err := exec.Command(bin, "build").Run()
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("expected exit error, got %v", err)
	}
	if code := exitErr.ExitCode(); code != devgenie.ExitConfigError {
		t.Errorf("exit code = %d, want %d", code, devgenie.ExitConfigError)
	}
}
