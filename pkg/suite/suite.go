// Package suite wires the configuration, driver, page, and report packages
// into test fixtures: category markers, a scoped browser session per test,
// and failure-time screenshot and page-source capture.
package suite

import (
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/entrhq/webtest/pkg/config"
	"github.com/entrhq/webtest/pkg/driver"
	"github.com/entrhq/webtest/pkg/logging"
	"github.com/entrhq/webtest/pkg/page"
	"github.com/entrhq/webtest/pkg/report"
	"github.com/entrhq/webtest/pkg/testdata"
)

// Environment switches consumed by the suite itself.
const (
	// EnableEnv must be non-empty for browser-backed tests to run; without
	// it they skip, so plain `go test ./...` stays green on machines
	// without a browser.
	EnableEnv = "WEBTEST_E2E"

	// ReportDirEnv overrides the report results directory.
	ReportDirEnv = "WEBTEST_REPORT_DIR"

	// FixturesEnv points at a YAML fixture file overriding the built-in
	// test data.
	FixturesEnv = "WEBTEST_FIXTURES"
)

// Context hands a running test everything the fixtures prepared for it.
type Context struct {
	T      *testing.T
	Page   *page.Page
	Config *config.Config
	Data   *testdata.Set
}

// Options configures one Run invocation.
type Options struct {
	// Markers tag the test for category selection and reporting.
	Markers []Marker

	// SharedSession reuses one browser session across every test that sets
	// it, released once when the batch ends. Default is a fresh session per
	// test.
	SharedSession bool
}

var (
	initOnce sync.Once
	initErr  error

	runCfg     *config.Config
	runFactory *driver.Factory
	runWriter  *report.Writer
	runFixture *testdata.Set
	runLog     *logging.Logger

	sharedOnce  sync.Once
	sharedScope *driver.Scope
)

// Main is the TestMain body for packages using Run. It executes the tests
// and then releases the shared session and driver runtime.
func Main(m *testing.M) {
	code := m.Run()
	if sharedScope != nil {
		if err := sharedScope.Shutdown(); err != nil && runLog != nil {
			runLog.Warnf("failed to shut down shared session: %v", err)
		}
	}
	if runFactory != nil {
		if err := runFactory.Shutdown(); err != nil && runLog != nil {
			runLog.Warnf("failed to shut down driver runtime: %v", err)
		}
	}
	os.Exit(code)
}

// Run executes fn with a scoped browser session and the run fixtures. It
// applies the markers, guarantees session release, records the result, and
// on failure captures a screenshot and the page source into the report
// directory.
func Run(t *testing.T, opts Options, fn func(*Context)) {
	t.Helper()

	Mark(t, opts.Markers...)
	if os.Getenv(EnableEnv) == "" {
		t.Skipf("browser tests disabled; set %s=1 to run", EnableEnv)
	}

	if err := initRun(); err != nil {
		t.Fatalf("suite initialization failed: %v", err)
	}

	scope := driver.NewScope(runFactory, driver.PerTest)
	if opts.SharedSession {
		scope = runSharedScope()
	}

	session, err := scope.Acquire()
	if err != nil {
		t.Fatalf("failed to acquire browser session: %v", err)
	}

	p := page.New(session, runCfg)
	start := time.Now()

	defer func() {
		recordResult(t, p, opts, time.Since(start))
		if err := scope.Release(); err != nil {
			runLog.Warnf("failed to release session for %s: %v", t.Name(), err)
		}
	}()

	fn(&Context{T: t, Page: p, Config: runCfg, Data: runFixture})
}

func initRun() error {
	initOnce.Do(func() {
		runLog, _ = logging.NewLogger("suite")

		cfg, err := config.FromEnv()
		if err != nil {
			initErr = err
			return
		}
		runCfg = cfg

		writer, err := report.NewWriter(os.Getenv(ReportDirEnv))
		if err != nil {
			initErr = err
			return
		}
		runWriter = writer
		if err := writer.WriteEnvironment(cfg); err != nil {
			runLog.Warnf("failed to write environment metadata: %v", err)
		}

		runFixture = testdata.Default()
		if path := os.Getenv(FixturesEnv); path != "" {
			if runFixture, err = testdata.Load(path); err != nil {
				initErr = err
				return
			}
		}

		runFactory, initErr = driver.New(cfg)
	})
	return initErr
}

func runSharedScope() *driver.Scope {
	sharedOnce.Do(func() {
		sharedScope = driver.NewScope(runFactory, driver.PerRun)
	})
	return sharedScope
}

// recordResult writes the test's report entry, capturing failure artifacts
// while the session is still alive.
func recordResult(t *testing.T, p *page.Page, opts Options, elapsed time.Duration) {
	result := report.TestResult{
		Name:     t.Name(),
		Status:   report.StatusPassed,
		Markers:  markerNames(opts.Markers),
		Duration: elapsed.String(),
	}

	if t.Failed() {
		result.Status = report.StatusFailed
		if shot, err := p.TakeScreenshot("test_failed_" + sanitizeName(t.Name())); err == nil {
			result.Screenshot = shot
		} else {
			runLog.Warnf("failed to capture failure screenshot for %s: %v", t.Name(), err)
		}
		if src, err := p.PageSource(); err == nil {
			if path, err := runWriter.AttachPageSource(t.Name(), src); err == nil {
				result.PageSource = path
			} else {
				runLog.Warnf("failed to attach page source for %s: %v", t.Name(), err)
			}
		}
	}

	if err := runWriter.WriteResult(result); err != nil {
		runLog.Warnf("failed to write result for %s: %v", t.Name(), err)
	}
}

func sanitizeName(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, name)
}
