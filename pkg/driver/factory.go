// Package driver creates and manages browser sessions through Playwright.
// The Factory resolves the launch source once (local managed, local PATH,
// or remote) from the run configuration; everything downstream works
// against the source-agnostic Handle.
package driver

import (
	"fmt"
	"io"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/entrhq/webtest/pkg/config"
	"github.com/entrhq/webtest/pkg/logging"
)

// Viewport dimensions applied to every session.
const (
	ViewportWidth  = 1280
	ViewportHeight = 720
)

// Factory creates browser sessions from the resolved run configuration.
// One Factory owns one Playwright runtime; Shutdown must be called when the
// run ends.
type Factory struct {
	cfg *config.Config
	pw  *playwright.Playwright
	log *logging.Logger
}

// New starts the Playwright runtime for the given configuration. When the
// configuration enables the managed driver, the matching driver and browser
// binaries are downloaded first; a failed download is terminal for the run
// (single attempt), the documented manual alternative is disabling the
// managed driver and providing a pre-installed driver.
func New(cfg *config.Config) (*Factory, error) {
	log, _ := logging.NewLogger("driver")

	// Keep the runtime quiet so its output does not interleave with test
	// runner output.
	opts := &playwright.RunOptions{
		Verbose: false,
		Stdout:  io.Discard,
		Stderr:  io.Discard,
	}

	if cfg.UseManagedDriver && !cfg.UseRemote {
		log.Infof("installing managed driver for %s", cfg.Browser)
		opts.Browsers = browserInstallTargets(cfg.Browser)
		if err := playwright.Install(opts); err != nil {
			log.Errorf("managed driver installation failed: %v", err)
			return nil, &Error{Reason: ReasonDriverAcquisitionFailed, Config: cfg.Snapshot(), Err: err}
		}
	}

	pw, err := playwright.Run(opts)
	if err != nil {
		reason := ReasonDriverNotFound
		if cfg.UseManagedDriver {
			reason = ReasonDriverAcquisitionFailed
		}
		log.Errorf("failed to start driver runtime: %v", err)
		return nil, &Error{Reason: reason, Config: cfg.Snapshot(), Err: err}
	}

	return &Factory{cfg: cfg, pw: pw, log: log}, nil
}

// Create produces a fully configured session: browser family and headless
// flag applied, viewport set, page-load and implicit-wait timeouts
// installed. No partially initialized session is ever returned; any failure
// tears down what was created and propagates.
func (f *Factory) Create() (*Session, error) {
	bt, channel := f.browserType()

	var (
		browser playwright.Browser
		err     error
	)
	if f.cfg.UseRemote {
		f.log.Infof("connecting to remote session at %s", f.cfg.RemoteURL)
		browser, err = bt.Connect(f.cfg.RemoteURL)
		if err != nil {
			return nil, &Error{Reason: ReasonRemoteConnectionFailed, Config: f.cfg.Snapshot(), Err: err}
		}
	} else {
		launchOpts := playwright.BrowserTypeLaunchOptions{
			Headless: playwright.Bool(f.cfg.Headless),
			Args:     launchArgs(f.cfg.Browser),
		}
		if channel != "" {
			launchOpts.Channel = playwright.String(channel)
		}
		f.log.Infof("launching %s (headless=%v, managed=%v)", f.cfg.Browser, f.cfg.Headless, f.cfg.UseManagedDriver)
		browser, err = bt.Launch(launchOpts)
		if err != nil {
			return nil, &Error{Reason: ReasonDriverNotFound, Config: f.cfg.Snapshot(), Err: err}
		}
	}

	context, err := browser.NewContext(playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{Width: ViewportWidth, Height: ViewportHeight},
	})
	if err != nil {
		browser.Close()
		return nil, &Error{Reason: creationReason(f.cfg), Config: f.cfg.Snapshot(), Err: fmt.Errorf("failed to create context: %w", err)}
	}

	page, err := context.NewPage()
	if err != nil {
		context.Close()
		browser.Close()
		return nil, &Error{Reason: creationReason(f.cfg), Config: f.cfg.Snapshot(), Err: fmt.Errorf("failed to create page: %w", err)}
	}

	page.SetDefaultNavigationTimeout(ms(f.cfg.PageLoadTimeout))
	page.SetDefaultTimeout(ms(f.cfg.ImplicitWait))

	return newSession(browser, context, page, f.log), nil
}

// Shutdown stops the Playwright runtime. Sessions must be released by their
// scopes first.
func (f *Factory) Shutdown() error {
	if f.pw == nil {
		return nil
	}
	if err := f.pw.Stop(); err != nil {
		return fmt.Errorf("failed to stop driver runtime: %w", err)
	}
	f.pw = nil
	return nil
}

// Config returns the configuration the factory was built from.
func (f *Factory) Config() *config.Config { return f.cfg }

// browserType maps the configured browser family onto a Playwright browser
// type and release channel. Edge rides the Chromium engine via its channel;
// Safari maps to WebKit.
func (f *Factory) browserType() (playwright.BrowserType, string) {
	bt, channel := browserSelection(f.cfg.Browser)
	switch bt {
	case "firefox":
		return f.pw.Firefox, channel
	case "webkit":
		return f.pw.WebKit, channel
	default:
		return f.pw.Chromium, channel
	}
}

// browserSelection is the pure part of the family mapping, split out for
// testing without a runtime.
func browserSelection(b config.Browser) (engine string, channel string) {
	switch b {
	case config.Firefox:
		return "firefox", ""
	case config.Safari:
		return "webkit", ""
	case config.Edge:
		return "chromium", "msedge"
	default:
		return "chromium", "chrome"
	}
}

// browserInstallTargets names the browsers the managed install should
// download for a family.
func browserInstallTargets(b config.Browser) []string {
	engine, _ := browserSelection(b)
	return []string{engine}
}

// launchArgs returns the fixed argument set for a local launch. Only the
// Chromium family accepts these switches.
func launchArgs(b config.Browser) []string {
	if engine, _ := browserSelection(b); engine != "chromium" {
		return nil
	}
	return []string{
		"--disable-extensions",
		"--disable-popup-blocking",
	}
}

func creationReason(cfg *config.Config) ErrorReason {
	if cfg.UseRemote {
		return ReasonRemoteConnectionFailed
	}
	return ReasonDriverNotFound
}

// ms converts a duration to the milliseconds float Playwright expects.
func ms(d time.Duration) float64 {
	return float64(d.Milliseconds())
}
