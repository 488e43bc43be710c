// Package page provides the shared capability surface page objects are
// built from. Instead of a base class hierarchy, page-specific types embed
// or wrap a *Page value: the session capability is injected once and every
// page object exposes only its own locators and actions on top of the
// shared wait, timeout, and failure-screenshot contract.
package page

import (
	"fmt"
	"strings"
	"time"

	"github.com/entrhq/webtest/pkg/config"
	"github.com/entrhq/webtest/pkg/driver"
	"github.com/entrhq/webtest/pkg/logging"
)

// pollInterval is the cadence of the page-load readiness check.
const pollInterval = 100 * time.Millisecond

// Page wraps a session handle with the default timeout, base URL, and
// screenshot policy of the run. Page values are cheap; many may share one
// session handle, and none of them own it.
type Page struct {
	session driver.Handle
	timeout time.Duration
	baseURL string
	shots   string
	log     *logging.Logger
}

// Option adjusts a Page beyond its configuration defaults.
type Option func(*Page)

// WithScreenshotDir overrides the directory failure screenshots are
// written to.
func WithScreenshotDir(dir string) Option {
	return func(p *Page) { p.shots = dir }
}

// WithTimeout overrides the default wait timeout for this Page value.
func WithTimeout(timeout time.Duration) Option {
	return func(p *Page) { p.timeout = timeout }
}

// New builds a Page over the session handle using the run configuration's
// default timeout and base URL.
func New(session driver.Handle, cfg *config.Config, opts ...Option) *Page {
	log, _ := logging.NewLogger("page")
	p := &Page{
		session: session,
		timeout: cfg.DefaultTimeout,
		baseURL: cfg.BaseURL,
		shots:   DefaultScreenshotDir,
		log:     log,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Session exposes the underlying handle for operations the Page surface
// does not cover.
func (p *Page) Session() driver.Handle { return p.session }

// derive clones the Page over a different handle, keeping its policy.
func (p *Page) derive(session driver.Handle) *Page {
	clone := *p
	clone.session = session
	return &clone
}

func (p *Page) waitTimeout(overrides []time.Duration) time.Duration {
	if len(overrides) > 0 && overrides[0] > 0 {
		return overrides[0]
	}
	return p.timeout
}

// Open navigates to a path relative to the configured base URL. An
// absolute URL is used as-is.
func (p *Page) Open(path string) error {
	url := path
	if !strings.HasPrefix(path, "http://") && !strings.HasPrefix(path, "https://") {
		url = strings.TrimRight(p.baseURL, "/") + "/" + strings.TrimLeft(path, "/")
	}
	if err := p.session.Navigate(url); err != nil {
		return err
	}
	return p.WaitForPageLoad()
}

// Find waits until an element matching the locator is present and returns
// a reference to it. On timeout it captures a failure screenshot and
// returns a not-found error carrying the locator and timeout used.
func (p *Page) Find(locator Locator, timeout ...time.Duration) (driver.Element, error) {
	t := p.waitTimeout(timeout)
	el, err := p.session.WaitFor(locator.Selector(), driver.WaitAttached, t)
	if err != nil {
		shot := p.captureFailure("find", locator)
		return nil, &Error{Reason: ReasonNotFound, Locator: locator, Timeout: t, Screenshot: shot, Err: err}
	}
	return el, nil
}

// FindAll waits until at least one element matches the locator, then
// returns every current match. The wait and screenshot contract matches
// Find.
func (p *Page) FindAll(locator Locator, timeout ...time.Duration) ([]driver.Element, error) {
	t := p.waitTimeout(timeout)
	if _, err := p.session.WaitFor(locator.Selector(), driver.WaitAttached, t); err != nil {
		shot := p.captureFailure("find_all", locator)
		return nil, &Error{Reason: ReasonNotFound, Locator: locator, Timeout: t, Screenshot: shot, Err: err}
	}
	return p.session.QueryAll(locator.Selector())
}

// IsVisible reports whether the element becomes visible within the
// timeout. It never fails: a timeout is reported as false.
func (p *Page) IsVisible(locator Locator, timeout ...time.Duration) bool {
	_, err := p.session.WaitFor(locator.Selector(), driver.WaitVisible, p.waitTimeout(timeout))
	return err == nil
}

// IsPresent reports whether the element is attached to the DOM within the
// timeout, visible or not.
func (p *Page) IsPresent(locator Locator, timeout ...time.Duration) bool {
	_, err := p.session.WaitFor(locator.Selector(), driver.WaitAttached, p.waitTimeout(timeout))
	return err == nil
}

// WaitForDisappear reports whether the element leaves the DOM within the
// timeout.
func (p *Page) WaitForDisappear(locator Locator, timeout ...time.Duration) bool {
	_, err := p.session.WaitFor(locator.Selector(), driver.WaitDetached, p.waitTimeout(timeout))
	return err == nil
}

// Click clicks the element once it is actionable. On failure it captures a
// screenshot and returns the original error wrapped with context.
func (p *Page) Click(locator Locator, timeout ...time.Duration) error {
	t := p.waitTimeout(timeout)
	if err := p.session.Click(locator.Selector(), t); err != nil {
		shot := p.captureFailure("click", locator)
		return &Error{Reason: ReasonNotFound, Locator: locator, Timeout: t, Screenshot: shot, Err: err}
	}
	return nil
}

// DoubleClick double-clicks the element, under the same contract as Click.
func (p *Page) DoubleClick(locator Locator, timeout ...time.Duration) error {
	t := p.waitTimeout(timeout)
	if err := p.session.DoubleClick(locator.Selector(), t); err != nil {
		shot := p.captureFailure("double_click", locator)
		return &Error{Reason: ReasonNotFound, Locator: locator, Timeout: t, Screenshot: shot, Err: err}
	}
	return nil
}

// RightClick context-clicks the element, under the same contract as Click.
func (p *Page) RightClick(locator Locator, timeout ...time.Duration) error {
	t := p.waitTimeout(timeout)
	if err := p.session.RightClick(locator.Selector(), t); err != nil {
		shot := p.captureFailure("right_click", locator)
		return &Error{Reason: ReasonNotFound, Locator: locator, Timeout: t, Screenshot: shot, Err: err}
	}
	return nil
}

// DragAndDrop drags the source element onto the target. A failure is
// attributed to the source locator in the error and screenshot name.
func (p *Page) DragAndDrop(source, target Locator, timeout ...time.Duration) error {
	t := p.waitTimeout(timeout)
	if err := p.session.DragAndDrop(source.Selector(), target.Selector(), t); err != nil {
		shot := p.captureFailure("drag_and_drop", source)
		return &Error{Reason: ReasonNotFound, Locator: source, Timeout: t, Screenshot: shot, Err: err}
	}
	return nil
}

// TypeText clears the input and types the text into it.
func (p *Page) TypeText(locator Locator, text string, timeout ...time.Duration) error {
	t := p.waitTimeout(timeout)
	if err := p.session.Fill(locator.Selector(), text, t); err != nil {
		shot := p.captureFailure("type_text", locator)
		return &Error{Reason: ReasonNotFound, Locator: locator, Timeout: t, Screenshot: shot, Err: err}
	}
	return nil
}

// GetText returns the element's rendered text.
func (p *Page) GetText(locator Locator, timeout ...time.Duration) (string, error) {
	el, err := p.Find(locator, timeout...)
	if err != nil {
		return "", err
	}
	text, err := el.Text()
	if err != nil {
		t := p.waitTimeout(timeout)
		shot := p.captureFailure("get_text", locator)
		return "", &Error{Reason: ReasonNotFound, Locator: locator, Timeout: t, Screenshot: shot, Err: err}
	}
	return text, nil
}

// Hover moves the pointer over the element.
func (p *Page) Hover(locator Locator, timeout ...time.Duration) error {
	t := p.waitTimeout(timeout)
	if err := p.session.Hover(locator.Selector(), t); err != nil {
		shot := p.captureFailure("hover", locator)
		return &Error{Reason: ReasonNotFound, Locator: locator, Timeout: t, Screenshot: shot, Err: err}
	}
	return nil
}

// SelectByText selects the dropdown option with the given visible text.
func (p *Page) SelectByText(locator Locator, text string, timeout ...time.Duration) error {
	return p.selectOption(locator, driver.SelectValues{Label: &text}, timeout)
}

// SelectByValue selects the dropdown option with the given value attribute.
func (p *Page) SelectByValue(locator Locator, value string, timeout ...time.Duration) error {
	return p.selectOption(locator, driver.SelectValues{Value: &value}, timeout)
}

// SelectByIndex selects the dropdown option at the given zero-based index.
func (p *Page) SelectByIndex(locator Locator, index int, timeout ...time.Duration) error {
	return p.selectOption(locator, driver.SelectValues{Index: &index}, timeout)
}

func (p *Page) selectOption(locator Locator, values driver.SelectValues, timeout []time.Duration) error {
	t := p.waitTimeout(timeout)
	if err := p.session.SelectOption(locator.Selector(), values, t); err != nil {
		shot := p.captureFailure("select", locator)
		return &Error{Reason: ReasonNotFound, Locator: locator, Timeout: t, Screenshot: shot, Err: err}
	}
	return nil
}

// SelectedText returns the visible text of the dropdown's selected option.
// The locator must be CSS-expressible.
func (p *Page) SelectedText(locator Locator, timeout ...time.Duration) (string, error) {
	if _, err := p.Find(locator, timeout...); err != nil {
		return "", err
	}
	css, ok := locator.cssSelector()
	if !ok {
		return "", fmt.Errorf("page: selected-text requires a CSS-expressible locator, got %s", locator)
	}
	script := fmt.Sprintf(
		"() => { const el = document.querySelector(%q); return el && el.selectedOptions.length ? el.selectedOptions[0].text : \"\"; }",
		css)
	result, err := p.ExecuteScript(script)
	if err != nil {
		return "", err
	}
	text, _ := result.(string)
	return text, nil
}

// ExecuteScript runs JavaScript in the page and returns its result.
func (p *Page) ExecuteScript(script string, args ...interface{}) (interface{}, error) {
	result, err := p.session.Evaluate(script, args...)
	if err != nil {
		return nil, &Error{Reason: ReasonScriptFailed, Timeout: p.timeout, Err: err}
	}
	return result, nil
}

// ScrollToElement scrolls the element into view.
func (p *Page) ScrollToElement(locator Locator, timeout ...time.Duration) error {
	el, err := p.Find(locator, timeout...)
	if err != nil {
		return err
	}
	if err := el.ScrollIntoView(); err != nil {
		t := p.waitTimeout(timeout)
		shot := p.captureFailure("scroll", locator)
		return &Error{Reason: ReasonNotFound, Locator: locator, Timeout: t, Screenshot: shot, Err: err}
	}
	return nil
}

// ScrollToTop scrolls to the top of the page.
func (p *Page) ScrollToTop() error {
	_, err := p.ExecuteScript("() => window.scrollTo(0, 0)")
	return err
}

// ScrollToBottom scrolls to the bottom of the page.
func (p *Page) ScrollToBottom() error {
	_, err := p.ExecuteScript("() => window.scrollTo(0, document.body.scrollHeight)")
	return err
}

// AcceptNextAlert arranges for the next JavaScript dialog to be accepted.
// Call it before the action that triggers the dialog; the returned function
// blocks up to the default timeout and reports the dialog message and
// whether a dialog fired.
func (p *Page) AcceptNextAlert() func() (string, bool) {
	wait := p.session.HandleNextDialog(true)
	return func() (string, bool) { return wait(p.timeout) }
}

// DismissNextAlert is AcceptNextAlert with the dialog dismissed instead.
func (p *Page) DismissNextAlert() func() (string, bool) {
	wait := p.session.HandleNextDialog(false)
	return func() (string, bool) { return wait(p.timeout) }
}

// WithinFrame locates the iframe and runs fn against a Page scoped to its
// content document. The frame-scoped Page shares this Page's timeout and
// screenshot policy.
func (p *Page) WithinFrame(locator Locator, fn func(*Page) error, timeout ...time.Duration) error {
	t := p.waitTimeout(timeout)
	frame, err := p.session.Frame(locator.Selector(), t)
	if err != nil {
		shot := p.captureFailure("frame", locator)
		return &Error{Reason: ReasonNotFound, Locator: locator, Timeout: t, Screenshot: shot, Err: err}
	}
	return fn(p.derive(frame))
}

// WaitForPageLoad blocks until the document is fully loaded or the timeout
// elapses.
func (p *Page) WaitForPageLoad(timeout ...time.Duration) error {
	t := p.waitTimeout(timeout)
	deadline := time.Now().Add(t)
	for {
		state, err := p.session.Evaluate("() => document.readyState")
		if err == nil {
			if s, ok := state.(string); ok && s == "complete" {
				return nil
			}
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("page: document not loaded within %s", t)
		}
		time.Sleep(pollInterval)
	}
}

// CurrentURL returns the current page URL.
func (p *Page) CurrentURL() string { return p.session.URL() }

// PageTitle returns the current page title.
func (p *Page) PageTitle() (string, error) { return p.session.Title() }

// PageSource returns the current page HTML, used by the failure report
// attachment.
func (p *Page) PageSource() (string, error) { return p.session.Content() }

// Refresh reloads the page and waits for it to finish loading.
func (p *Page) Refresh() error {
	if err := p.session.Reload(); err != nil {
		return err
	}
	return p.WaitForPageLoad()
}
