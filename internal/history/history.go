// Package history records build and test runs and summarizes them.
package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/AndreyAkinshin/devgenie/internal/runner"
)

// Kind is the kind of a recorded run.
type Kind string

// Run kinds.
const (
	KindBuild Kind = "build"
	KindTest  Kind = "test"
)

// Record is one build or test run.
type Record struct {
	ID        string        `json:"id"`
	Kind      Kind          `json:"kind"`
	Project   string        `json:"project"`
	Success   bool          `json:"success"`
	Canceled  bool          `json:"canceled,omitempty"`
	ExitCode  int           `json:"exit_code"`
	Total     int           `json:"total,omitempty"`
	Passed    int           `json:"passed,omitempty"`
	Failed    int           `json:"failed,omitempty"`
	Skipped   int           `json:"skipped,omitempty"`
	Duration  time.Duration `json:"duration_ns"`
	StartedAt time.Time     `json:"started_at"`
}

// FromBuild converts a build result into a Record. The run ID is reused so
// history lines up with log records.
func FromBuild(r runner.BuildResult, startedAt time.Time) Record {
	return Record{
		ID:        recordID(r.RunID),
		Kind:      KindBuild,
		Project:   r.Project,
		Success:   r.Success,
		Canceled:  r.Canceled,
		ExitCode:  r.ExitCode,
		Duration:  r.Duration,
		StartedAt: startedAt.UTC(),
	}
}

// FromTests converts a test result into a Record.
func FromTests(r runner.TestResult, startedAt time.Time) Record {
	return Record{
		ID:        recordID(r.RunID),
		Kind:      KindTest,
		Project:   r.Project,
		Success:   r.Success,
		Canceled:  r.Canceled,
		ExitCode:  r.ExitCode,
		Total:     r.TotalTests,
		Passed:    r.PassedTests,
		Failed:    r.FailedTests,
		Skipped:   r.SkippedTests,
		Duration:  r.Elapsed,
		StartedAt: startedAt.UTC(),
	}
}

func recordID(runID string) string {
	if runID != "" {
		return runID
	}
	return uuid.NewString()
}

// Store is a JSON array of records on disk. Appends from one process are
// serialized.
type Store struct {
	path string
	mu   sync.Mutex
}

// NewStore returns a Store backed by path. The file is created on the
// first Append.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Append adds rec to the history file, assigning an ID and start time when
// they are missing.
func (s *Store) Append(rec Record) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.StartedAt.IsZero() {
		rec.StartedAt = time.Now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return err
	}
	records = append(records, rec)
	return s.save(records)
}

// List returns all records, oldest first.
func (s *Store) List() ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// Recent returns the newest limit records, oldest first. A limit of zero or
// less returns everything.
func (s *Store) Recent(limit int) ([]Record, error) {
	records, err := s.List()
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(records) > limit {
		records = records[len(records)-limit:]
	}
	return records, nil
}

func (s *Store) load() ([]Record, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}
	if len(data) == 0 {
		return nil, nil
	}
	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse history %s: %w", s.path, err)
	}
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].StartedAt.Before(records[j].StartedAt)
	})
	return records, nil
}

func (s *Store) save(records []Record) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode history: %w", err)
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create history directory: %w", err)
	}
	// Each writer gets its own temp file so processes sharing the history
	// never rename each other's partial writes.
	tmp, err := os.CreateTemp(dir, ".history-*.json")
	if err != nil {
		return fmt.Errorf("failed to write history: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write history: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write history: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("failed to write history: %w", err)
	}
	return nil
}

// Analytics aggregates a set of records.
type Analytics struct {
	Runs             int
	Builds           int
	Tests            int
	BuildSuccessRate float64 // Fraction of successful builds, 0 when none
	TestsPassed      int
	TestsFailed      int
	TestsSkipped     int
	PassRate         float64 // Passed / (Passed + Failed), 0 when none ran
	MeanDuration     time.Duration
}

// Analyze summarizes records. Test counts come from the recorded results.
func Analyze(records []Record) Analytics {
	var a Analytics
	var succeededBuilds int
	var total time.Duration
	for _, r := range records {
		a.Runs++
		total += r.Duration
		switch r.Kind {
		case KindBuild:
			a.Builds++
			if r.Success {
				succeededBuilds++
			}
		case KindTest:
			a.Tests++
			a.TestsPassed += r.Passed
			a.TestsFailed += r.Failed
			a.TestsSkipped += r.Skipped
		}
	}
	if a.Builds > 0 {
		a.BuildSuccessRate = float64(succeededBuilds) / float64(a.Builds)
	}
	if ran := a.TestsPassed + a.TestsFailed; ran > 0 {
		a.PassRate = float64(a.TestsPassed) / float64(ran)
	}
	if a.Runs > 0 {
		a.MeanDuration = total / time.Duration(a.Runs)
	}
	return a
}
