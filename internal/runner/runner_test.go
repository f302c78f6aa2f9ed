package runner

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	deverrors "github.com/AndreyAkinshin/devgenie/internal/errors"
	"github.com/AndreyAkinshin/devgenie/internal/procexec"
	"github.com/AndreyAkinshin/devgenie/internal/testparser"
)

func TestNew_Defaults(t *testing.T) {
	t.Parallel()
	r := New(Options{})

	if r.Executable() != "dotnet" {
		t.Errorf("Executable() = %q, want dotnet", r.Executable())
	}
	wantBuild := []string{"build", "app/App.csproj"}
	if got := r.BuildArgs("app/App.csproj"); !reflect.DeepEqual(got, wantBuild) {
		t.Errorf("BuildArgs() = %q, want %q", got, wantBuild)
	}
	wantTest := []string{"test", "app/App.csproj", "--logger:console;verbosity=normal"}
	if got := r.TestArgs("app/App.csproj"); !reflect.DeepEqual(got, wantTest) {
		t.Errorf("TestArgs() = %q, want %q", got, wantTest)
	}
}

func TestNew_CustomArgs(t *testing.T) {
	t.Parallel()
	r := New(Options{
		TestLogger: "trx",
		BuildArgs:  []string{"-c", "Release"},
		TestArgs:   []string{"--no-build"},
	})

	wantBuild := []string{"build", "x.sln", "-c", "Release"}
	if got := r.BuildArgs("x.sln"); !reflect.DeepEqual(got, wantBuild) {
		t.Errorf("BuildArgs() = %q, want %q", got, wantBuild)
	}
	wantTest := []string{"test", "x.sln", "--logger:trx", "--no-build"}
	if got := r.TestArgs("x.sln"); !reflect.DeepEqual(got, wantTest) {
		t.Errorf("TestArgs() = %q, want %q", got, wantTest)
	}
}

func TestRunBuild_PassesCommandShape(t *testing.T) {
	t.Parallel()
	opts := fakeOptions("args")
	opts.WorkDir = t.TempDir()
	r := New(opts)

	res, err := r.RunBuild("my project/App.csproj")
	if err != nil {
		t.Fatalf("RunBuild() error = %v", err)
	}
	// The path is a single argv element even with spaces.
	if res.Output != "build\nmy project/App.csproj\n" {
		t.Errorf("Output = %q", res.Output)
	}

	tr, err := r.RunTests("my project/App.csproj")
	if err != nil {
		t.Fatalf("RunTests() error = %v", err)
	}
	if tr.Output != "test\nmy project/App.csproj\n--logger:console;verbosity=normal\n" {
		t.Errorf("Output = %q", tr.Output)
	}
}

func TestRun_InfersWorkDir(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	projDir := filepath.Join(root, "src", "App")
	if err := os.MkdirAll(projDir, 0755); err != nil {
		t.Fatal(err)
	}
	projFile := filepath.Join(projDir, "App.csproj")
	if err := os.WriteFile(projFile, []byte("<Project />"), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		path string
	}{
		{"descriptor file", projFile},
		{"project directory", projDir},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := New(fakeOptions("pwd"))
			res, err := r.RunBuild(tt.path)
			if err != nil {
				t.Fatalf("RunBuild() error = %v", err)
			}
			lines := strings.Split(strings.TrimRight(res.Output, "\n"), "\n")
			if len(lines) != 3 {
				t.Fatalf("Output = %q, want cwd and two args", res.Output)
			}
			if got, want := realPath(t, lines[0]), realPath(t, projDir); got != want {
				t.Errorf("toolchain cwd = %q, want %q", got, want)
			}
			if lines[2] != tt.path {
				t.Errorf("project arg = %q, want %q", lines[2], tt.path)
			}
		})
	}
}

func TestRun_ExplicitWorkDirWins(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	opts := fakeOptions("pwd")
	opts.WorkDir = dir
	r := New(opts)

	res, err := r.RunTests("nested/Tests.csproj")
	if err != nil {
		t.Fatalf("RunTests() error = %v", err)
	}
	lines := strings.Split(strings.TrimRight(res.Output, "\n"), "\n")
	if len(lines) < 3 {
		t.Fatalf("Output = %q", res.Output)
	}
	if got, want := realPath(t, lines[0]), realPath(t, dir); got != want {
		t.Errorf("toolchain cwd = %q, want %q", got, want)
	}
	if lines[2] != "nested/Tests.csproj" {
		t.Errorf("project arg = %q, want it unchanged", lines[2])
	}
}

// realPath resolves symlinks so temp directories compare equal on systems
// where the temp root is a link.
func realPath(t *testing.T, p string) string {
	t.Helper()
	r, err := filepath.EvalSymlinks(p)
	if err != nil {
		t.Fatalf("EvalSymlinks(%q) error = %v", p, err)
	}
	return r
}

func TestRunBuild_Success(t *testing.T) {
	t.Parallel()
	r := New(fakeOptions("build-ok"))

	res, err := r.RunBuild("proj.csproj")
	if err != nil {
		t.Fatalf("RunBuild() error = %v", err)
	}
	if !res.Success || res.ExitCode != 0 {
		t.Errorf("Success = %v, ExitCode = %d; want true, 0", res.Success, res.ExitCode)
	}
	if !strings.Contains(res.Output, "Build succeeded.") {
		t.Errorf("Output = %q, want build log", res.Output)
	}
	if res.Errors != "" {
		t.Errorf("Errors = %q, want empty", res.Errors)
	}
	if res.RunID == "" {
		t.Error("RunID is empty")
	}
	if res.Project != "proj.csproj" {
		t.Errorf("Project = %q, want proj.csproj", res.Project)
	}
	if res.Duration <= 0 {
		t.Errorf("Duration = %v, want > 0", res.Duration)
	}
}

func TestRunBuild_NonzeroExit(t *testing.T) {
	t.Parallel()
	r := New(fakeOptions("build-fail"))

	res, err := r.RunBuildContext(context.Background(), "proj.csproj")
	if err != nil {
		t.Fatalf("RunBuildContext() error = %v, want nil for an operational failure", err)
	}
	if res.Success {
		t.Error("Success = true, want false")
	}
	if res.ExitCode != 1 {
		t.Errorf("ExitCode = %d, want 1", res.ExitCode)
	}
	if !strings.Contains(res.Errors, "error CS1002") {
		t.Errorf("Errors = %q, want compiler diagnostics", res.Errors)
	}
	if !strings.Contains(res.Output, "Build FAILED.") {
		t.Errorf("Output = %q, want build log", res.Output)
	}
}

func TestRunBuild_ToolchainMissing(t *testing.T) {
	t.Parallel()
	r := New(Options{Executable: "devgenie-missing-toolchain"})

	res, err := r.RunBuild("proj.csproj")
	if err != nil {
		t.Fatalf("RunBuild() error = %v, want nil", err)
	}
	if res.Success {
		t.Error("Success = true, want false")
	}
	if res.ExitCode != procexec.NoExitCode {
		t.Errorf("ExitCode = %d, want %d", res.ExitCode, procexec.NoExitCode)
	}
	if res.Errors == "" {
		t.Error("Errors is empty, want start failure message")
	}
}

func TestRun_EmptyProjectPath(t *testing.T) {
	t.Parallel()
	r := New(fakeOptions("args"))

	for _, path := range []string{"", "   "} {
		if _, err := r.RunBuild(path); !errors.Is(err, ErrEmptyProjectPath) {
			t.Errorf("RunBuild(%q) error = %v, want ErrEmptyProjectPath", path, err)
		}
		if _, err := r.RunTests(path); !errors.Is(err, ErrEmptyProjectPath) {
			t.Errorf("RunTests(%q) error = %v, want ErrEmptyProjectPath", path, err)
		}
	}
	if got := deverrors.GetExitCode(ErrEmptyProjectPath); got != deverrors.ExitConfigError {
		t.Errorf("exit code for ErrEmptyProjectPath = %d, want %d", got, deverrors.ExitConfigError)
	}
}

func TestRunTests_CompactSummary(t *testing.T) {
	t.Parallel()
	r := New(fakeOptions("test-compact"))

	res, err := r.RunTests("proj.csproj")
	if err != nil {
		t.Fatalf("RunTests() error = %v", err)
	}
	if !res.Success {
		t.Error("Success = false, want true")
	}
	if res.TotalTests != 1 || res.PassedTests != 1 || res.FailedTests != 0 || res.SkippedTests != 0 {
		t.Errorf("counts = %d/%d/%d/%d, want 1/1/0/0",
			res.TotalTests, res.PassedTests, res.FailedTests, res.SkippedTests)
	}
	if res.Duration != time.Millisecond {
		t.Errorf("Duration = %v, want 1ms", res.Duration)
	}
	if !res.Parsed {
		t.Error("Parsed = false, want true")
	}
}

func TestRunTests_VerboseSummaryWithFailure(t *testing.T) {
	t.Parallel()
	r := New(fakeOptions("test-verbose-fail"))

	res, err := r.RunTests("proj.csproj")
	if err != nil {
		t.Fatalf("RunTests() error = %v", err)
	}
	if res.Success {
		t.Error("Success = true, want false")
	}
	if res.ExitCode != 1 {
		t.Errorf("ExitCode = %d, want 1", res.ExitCode)
	}
	if res.TotalTests != 3 || res.PassedTests != 2 || res.FailedTests != 1 || res.SkippedTests != 0 {
		t.Errorf("counts = %d/%d/%d/%d, want 3/2/1/0",
			res.TotalTests, res.PassedTests, res.FailedTests, res.SkippedTests)
	}
	if res.Duration != 2500*time.Millisecond {
		t.Errorf("Duration = %v, want 2.5s", res.Duration)
	}
	if res.Errors != "Test Run Failed.\n" {
		t.Errorf("Errors = %q", res.Errors)
	}
}

func TestRunTests_SummaryOnStderr(t *testing.T) {
	t.Parallel()
	r := New(fakeOptions("test-stderr-summary"))

	res, _ := r.RunTests("proj.csproj")
	if !res.Parsed || res.TotalTests != 3 || res.PassedTests != 2 || res.SkippedTests != 1 {
		t.Errorf("result = %+v, want summary read from stderr", res)
	}
}

func TestRunTests_UnrecognizedSummary(t *testing.T) {
	t.Parallel()
	r := New(fakeOptions("test-unrecognized"))

	res, err := r.RunTests("proj.csproj")
	if err != nil {
		t.Fatalf("RunTests() error = %v", err)
	}
	if !res.Success {
		t.Error("Success = false, want true (exit code 0)")
	}
	if res.TotalTests != 0 || res.PassedTests != 0 || res.FailedTests != 0 || res.SkippedTests != 0 {
		t.Errorf("counts = %d/%d/%d/%d, want all zero",
			res.TotalTests, res.PassedTests, res.FailedTests, res.SkippedTests)
	}
	if res.Parsed {
		t.Error("Parsed = true, want false")
	}
	if !strings.Contains(res.Output, "nothing that looks like a summary") {
		t.Errorf("Output = %q, raw output must be preserved", res.Output)
	}
}

func TestRunTests_LargeOutputOnBothStreams(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()
	r := New(fakeOptions("flood"))

	res, err := r.RunTestsContext(ctx, "proj.csproj")
	if err != nil {
		t.Fatalf("RunTestsContext() error = %v", err)
	}
	if res.Canceled {
		t.Fatal("run hit the safety timeout; output capture deadlocked")
	}
	if !res.Success || res.PassedTests != 7 {
		t.Errorf("Success = %v, PassedTests = %d; want true, 7", res.Success, res.PassedTests)
	}
	if len(res.Errors) != 512*512 {
		t.Errorf("len(Errors) = %d, want %d", len(res.Errors), 512*512)
	}
}

func TestRunTests_Cancellation(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var once sync.Once
	opts := fakeOptions("hang")
	opts.Stdout = writerFunc(func(p []byte) (int, error) {
		once.Do(cancel)
		return len(p), nil
	})
	r := New(opts)

	res, err := r.RunTestsContext(ctx, "proj.csproj")
	if err != nil {
		t.Fatalf("RunTestsContext() error = %v, want nil on cancellation", err)
	}
	if res.Success {
		t.Error("Success = true, want false")
	}
	if !res.Canceled {
		t.Error("Canceled = false, want true")
	}
	if res.ExitCode == 0 {
		t.Error("ExitCode = 0, want nonzero after cancellation")
	}
	if !strings.Contains(res.Output, "Starting test execution") {
		t.Errorf("Output = %q, want partial output preserved", res.Output)
	}
}

func TestRunBuild_Timeout(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	r := New(fakeOptions("hang"))

	res, err := r.RunBuildContext(ctx, "proj.csproj")
	if err != nil {
		t.Fatalf("RunBuildContext() error = %v", err)
	}
	if res.Success || !res.Canceled {
		t.Errorf("Success = %v, Canceled = %v; want false, true", res.Success, res.Canceled)
	}
}

func TestRun_ConcurrentInvocations(t *testing.T) {
	t.Parallel()
	r := New(fakeOptions("args"))

	const n = 6
	outputs := make([]string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := r.RunBuild(strings.Repeat("p", i+1) + ".csproj")
			if err != nil {
				t.Errorf("RunBuild() error = %v", err)
				return
			}
			outputs[i] = res.Output
		}(i)
	}
	wg.Wait()

	for i, out := range outputs {
		abs, err := filepath.Abs(strings.Repeat("p", i+1) + ".csproj")
		if err != nil {
			t.Fatal(err)
		}
		want := "build\n" + abs + "\n"
		if out != want {
			t.Errorf("outputs[%d] = %q, want %q", i, out, want)
		}
	}
}

type recordingObserver struct {
	mu     sync.Mutex
	builds []BuildResult
	tests  []TestResult
}

func (o *recordingObserver) ObserveBuild(r BuildResult) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.builds = append(o.builds, r)
}

func (o *recordingObserver) ObserveTests(r TestResult) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.tests = append(o.tests, r)
}

func TestRunner_ObserverAndMirrors(t *testing.T) {
	t.Parallel()
	obs := &recordingObserver{}
	var stdout, logs bytes.Buffer
	opts := fakeOptions("test-compact")
	opts.Observer = obs
	opts.Stdout = &stdout
	opts.Logger = slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	r := New(opts)

	if _, err := r.RunBuild("proj.csproj"); err != nil {
		t.Fatal(err)
	}
	res, err := r.RunTests("proj.csproj")
	if err != nil {
		t.Fatal(err)
	}

	if len(obs.builds) != 1 || len(obs.tests) != 1 {
		t.Fatalf("observed %d builds, %d tests; want 1, 1", len(obs.builds), len(obs.tests))
	}
	if obs.tests[0].RunID != res.RunID {
		t.Errorf("observed RunID %q, want %q", obs.tests[0].RunID, res.RunID)
	}
	if !strings.Contains(stdout.String(), "Test Run Successful.") {
		t.Errorf("mirrored stdout = %q", stdout.String())
	}
	if !strings.Contains(logs.String(), "run_id="+res.RunID) {
		t.Errorf("logs do not carry run_id: %s", logs.String())
	}
}

type stubParser struct{}

func (stubParser) Name() string { return "stub" }
func (stubParser) Parse(string) testparser.Summary {
	return testparser.Summary{Total: 42, Passed: 42, Parsed: true}
}

func TestRunTests_CustomParser(t *testing.T) {
	t.Parallel()
	opts := fakeOptions("test-unrecognized")
	opts.Parser = stubParser{}
	r := New(opts)

	res, _ := r.RunTests("proj.csproj")
	if res.TotalTests != 42 || !res.Parsed {
		t.Errorf("TotalTests = %d, Parsed = %v; want 42, true", res.TotalTests, res.Parsed)
	}
}

type writerFunc func([]byte) (int, error)

func (f writerFunc) Write(p []byte) (int, error) { return f(p) }
