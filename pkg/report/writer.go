// Package report writes the run's reporting artifacts: environment
// metadata, one result file per test, and failure-time attachments. The
// artifacts are plain JSON files under a results directory, consumed by
// whatever report tooling the CI pipeline runs afterwards.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/entrhq/webtest/pkg/config"
	"github.com/entrhq/webtest/pkg/logging"
)

// DefaultDir is the workspace-relative results directory.
const DefaultDir = "report-results"

// Status of one finished test.
type Status string

const (
	StatusPassed  Status = "passed"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
)

// Environment is the run-level metadata written once per run.
type Environment struct {
	RunID       string            `json:"run_id"`
	GoVersion   string            `json:"go_version"`
	OS          string            `json:"os"`
	Arch        string            `json:"arch"`
	Settings    map[string]string `json:"settings"`
	GeneratedAt time.Time         `json:"generated_at"`
}

// TestResult describes one finished test.
type TestResult struct {
	Name       string    `json:"name"`
	Status     Status    `json:"status"`
	Markers    []string  `json:"markers,omitempty"`
	Duration   string    `json:"duration"`
	Error      string    `json:"error,omitempty"`
	Screenshot string    `json:"screenshot,omitempty"`
	PageSource string    `json:"page_source,omitempty"`
	FinishedAt time.Time `json:"finished_at"`
}

// Writer persists run artifacts into one results directory. Filenames
// embed the per-process run ID, so parallel worker processes share the
// directory without coordination.
type Writer struct {
	dir string
	log *logging.Logger
}

// NewWriter creates the results directory if needed.
func NewWriter(dir string) (*Writer, error) {
	if dir == "" {
		dir = DefaultDir
	}
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create results directory: %w", err)
	}
	log, _ := logging.NewLogger("report")
	return &Writer{dir: dir, log: log}, nil
}

// Dir returns the results directory.
func (w *Writer) Dir() string { return w.dir }

// WriteEnvironment records the run configuration and platform once per run.
func (w *Writer) WriteEnvironment(cfg *config.Config) error {
	env := Environment{
		RunID:       logging.RunID(),
		GoVersion:   runtime.Version(),
		OS:          runtime.GOOS,
		Arch:        runtime.GOARCH,
		Settings:    cfg.Snapshot(),
		GeneratedAt: time.Now(),
	}
	return w.writeJSON(fmt.Sprintf("environment-%s.json", env.RunID), env)
}

// WriteResult records one finished test.
func (w *Writer) WriteResult(result TestResult) error {
	if result.FinishedAt.IsZero() {
		result.FinishedAt = time.Now()
	}
	name := fmt.Sprintf("result-%s-%s.json", sanitize(result.Name), logging.RunID())
	return w.writeJSON(name, result)
}

// AttachPageSource stores failure-time page HTML, stripped of script and
// style noise, and returns the attachment path.
func (w *Writer) AttachPageSource(testName, rawHTML string) (string, error) {
	cleaned, err := cleanPageSource(rawHTML)
	if err != nil {
		return "", fmt.Errorf("failed to clean page source: %w", err)
	}
	name := fmt.Sprintf("source-%s-%s.html", sanitize(testName), logging.RunID())
	path := filepath.Join(w.dir, name)
	if err := os.WriteFile(path, []byte(cleaned), 0600); err != nil {
		return "", fmt.Errorf("failed to write page source: %w", err)
	}
	return path, nil
}

func (w *Writer) writeJSON(name string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", name, err)
	}
	path := filepath.Join(w.dir, name)
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	w.log.Debugf("wrote %s", path)
	return nil
}

func sanitize(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, name)
}
