// Package main provides the webtest runner: a thin wrapper that turns
// category, browser, and parallelism flags into a `go test` invocation with
// the right environment, always enabling the reporting integration, and
// propagating the underlying exit code.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/entrhq/webtest/pkg/config"
	"github.com/entrhq/webtest/pkg/report"
	"github.com/entrhq/webtest/pkg/suite"
)

const version = "0.1.0"

// options holds the parsed runner flags.
type options struct {
	Smoke      bool
	Regression bool
	UI         bool
	API        bool

	Browser  string
	Headless bool
	Remote   bool

	Parallel    int
	Verbose     bool
	ShowVersion bool

	// Positional package path patterns; empty means every test package.
	Paths []string
}

func main() {
	opts := parseFlags()

	if opts.ShowVersion {
		fmt.Printf("webtest v%s\n", version)
		return
	}

	if err := validate(opts); err != nil {
		fmt.Fprintf(os.Stderr, "webtest: %v\n", err)
		os.Exit(2)
	}

	packages, err := resolvePackages(".", opts.Paths)
	if err != nil {
		fmt.Fprintf(os.Stderr, "webtest: %v\n", err)
		os.Exit(2)
	}

	args := buildArgs(opts, packages)
	env := buildEnv(os.Environ(), opts)

	fmt.Printf("Running: go %s\n", strings.Join(args, " "))

	cmd := exec.Command("go", args...)
	cmd.Env = env
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	err = cmd.Run()

	reportDir := os.Getenv(suite.ReportDirEnv)
	if reportDir == "" {
		reportDir = report.DefaultDir
	}
	fmt.Printf("\nTest execution completed. Report results saved to: %s\n", reportDir)

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.ExitCode())
		}
		fmt.Fprintf(os.Stderr, "webtest: failed to run tests: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags() *options {
	opts := &options{}

	flag.BoolVar(&opts.Smoke, "smoke", false, "Run smoke tests")
	flag.BoolVar(&opts.Regression, "regression", false, "Run regression tests")
	flag.BoolVar(&opts.UI, "ui", false, "Run UI tests")
	flag.BoolVar(&opts.API, "api", false, "Run API tests")
	flag.StringVar(&opts.Browser, "browser", "", "Browser to use (chrome, firefox, edge, safari); default from the environment")
	flag.BoolVar(&opts.Headless, "headless", false, "Run browser in headless mode")
	flag.BoolVar(&opts.Remote, "remote", false, "Use a remote browser session (requires REMOTE_URL)")
	flag.IntVar(&opts.Parallel, "parallel", 0, "Number of parallel worker processes")
	flag.BoolVar(&opts.Verbose, "v", false, "Verbose test output")
	flag.BoolVar(&opts.ShowVersion, "version", false, "Show version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "webtest - browser test runner\n\n")
		fmt.Fprintf(os.Stderr, "Usage: webtest [options] [path patterns...]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  %-22s Browser to use when -browser is not given\n", config.KeyBrowser)
		fmt.Fprintf(os.Stderr, "  %-22s Remote session endpoint\n", config.KeyRemoteURL)
		fmt.Fprintf(os.Stderr, "  %-22s Deployment environment (dev, staging, prod)\n", config.KeyEnvironment)
		fmt.Fprintf(os.Stderr, "  %-22s Base URL override\n", config.KeyBaseURL)
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  webtest --smoke --headless\n")
		fmt.Fprintf(os.Stderr, "  webtest --regression --browser firefox e2e\n")
		fmt.Fprintf(os.Stderr, "  webtest --smoke --ui --parallel 4\n")
	}

	flag.Parse()
	opts.Paths = flag.Args()
	return opts
}

func validate(opts *options) error {
	switch strings.ToLower(opts.Browser) {
	case "", "chrome", "firefox", "edge", "safari":
		return nil
	default:
		return fmt.Errorf("unsupported browser %q", opts.Browser)
	}
}

// markers assembles the combinable category selection from the flags.
func markers(opts *options) []string {
	var selected []string
	if opts.Smoke {
		selected = append(selected, string(suite.Smoke))
	}
	if opts.Regression {
		selected = append(selected, string(suite.Regression))
	}
	if opts.UI {
		selected = append(selected, string(suite.UI))
	}
	if opts.API {
		selected = append(selected, string(suite.API))
	}
	return selected
}

// buildArgs assembles the `go test` argument list.
func buildArgs(opts *options, packages []string) []string {
	args := []string{"test"}
	args = append(args, packages...)

	// Sessions hold real browser state; never reuse cached results.
	args = append(args, "-count=1")

	if opts.Verbose {
		args = append(args, "-v")
	}
	if opts.Parallel > 0 {
		args = append(args, "-p", strconv.Itoa(opts.Parallel))
	}
	return args
}

// buildEnv layers the flag-derived settings over the inherited environment
// and always enables the browser tests and reporting integration.
func buildEnv(base []string, opts *options) []string {
	env := append([]string{}, base...)

	env = append(env, suite.EnableEnv+"=1")
	// Only an explicit -browser overrides an inherited BROWSER value; the
	// last duplicate entry wins when the environment is applied.
	if opts.Browser != "" {
		env = append(env, config.KeyBrowser+"="+strings.ToLower(opts.Browser))
	}
	if opts.Headless {
		env = append(env, config.KeyHeadless+"=true")
	}
	if opts.Remote {
		env = append(env, config.KeyUseRemote+"=true")
	}
	if selected := markers(opts); len(selected) > 0 {
		env = append(env, suite.MarkersEnv+"="+strings.Join(selected, ","))
	}
	return env
}
