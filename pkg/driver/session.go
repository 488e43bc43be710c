package driver

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/entrhq/webtest/pkg/logging"
)

// WaitState names the element state a wait targets.
type WaitState string

const (
	WaitAttached WaitState = "attached"
	WaitDetached WaitState = "detached"
	WaitVisible  WaitState = "visible"
	WaitHidden   WaitState = "hidden"
)

// SelectValues identifies the dropdown option to select. Exactly one field
// should be set.
type SelectValues struct {
	Label *string
	Value *string
	Index *int
}

// Element is a reference to a located page element.
type Element interface {
	Text() (string, error)
	Visible() (bool, error)
	Click() error
	ScrollIntoView() error
	Attribute(name string) (string, error)
}

// Handle is the capability surface page objects operate against. It is
// implemented by a live browser session and by frame-scoped views of one,
// so page code stays agnostic of where the session came from and whether it
// is looking at the top document or an iframe.
type Handle interface {
	Navigate(url string) error
	URL() string
	Title() (string, error)
	Reload() error
	Content() (string, error)
	Screenshot(path string) error
	Evaluate(script string, args ...interface{}) (interface{}, error)
	WaitFor(selector string, state WaitState, timeout time.Duration) (Element, error)
	QueryAll(selector string) ([]Element, error)
	Click(selector string, timeout time.Duration) error
	DoubleClick(selector string, timeout time.Duration) error
	RightClick(selector string, timeout time.Duration) error
	DragAndDrop(source, target string, timeout time.Duration) error
	Fill(selector, value string, timeout time.Duration) error
	Hover(selector string, timeout time.Duration) error
	SelectOption(selector string, values SelectValues, timeout time.Duration) error
	HandleNextDialog(accept bool) func(timeout time.Duration) (string, bool)
	Frame(selector string, timeout time.Duration) (Handle, error)
	Closed() bool
}

// Session is a live browser session. It owns the underlying browser,
// context, and page; ownership of the Session itself belongs to the Scope
// that created it. Page objects hold it only as a Handle.
type Session struct {
	browser playwright.Browser
	context playwright.BrowserContext
	page    playwright.Page
	log     *logging.Logger

	createdAt time.Time
	closed    atomic.Bool
	closeOnce sync.Once
}

func newSession(browser playwright.Browser, context playwright.BrowserContext, page playwright.Page, log *logging.Logger) *Session {
	return &Session{
		browser:   browser,
		context:   context,
		page:      page,
		log:       log,
		createdAt: time.Now(),
	}
}

// Close releases the session's browser resources. It is idempotent and
// never fails a second time; errors during teardown are collected so
// cleanup always runs to completion.
func (s *Session) Close() error {
	var err error
	s.closeOnce.Do(func() {
		s.closed.Store(true)
		var errs []error
		if s.page != nil {
			if cerr := s.page.Close(); cerr != nil {
				errs = append(errs, cerr)
			}
		}
		if s.context != nil {
			if cerr := s.context.Close(); cerr != nil {
				errs = append(errs, cerr)
			}
		}
		if s.browser != nil {
			if cerr := s.browser.Close(); cerr != nil {
				errs = append(errs, cerr)
			}
		}
		if len(errs) > 0 {
			err = fmt.Errorf("errors closing session: %v", errs)
		}
	})
	return err
}

// Closed reports whether the session has been released.
func (s *Session) Closed() bool { return s.closed.Load() }

// CreatedAt returns the session creation time.
func (s *Session) CreatedAt() time.Time { return s.createdAt }

func (s *Session) guard() error {
	if s.Closed() {
		return &LifecycleError{Reason: ReasonSessionClosed}
	}
	return nil
}

// Navigate loads the URL, waiting for the load event up to the configured
// page-load timeout.
func (s *Session) Navigate(url string) error {
	if err := s.guard(); err != nil {
		return err
	}
	waitUntil := playwright.WaitUntilStateLoad
	if _, err := s.page.Goto(url, playwright.PageGotoOptions{WaitUntil: waitUntil}); err != nil {
		return fmt.Errorf("navigation to %s failed: %w", url, err)
	}
	return nil
}

// URL returns the current page URL.
func (s *Session) URL() string {
	if s.Closed() {
		return ""
	}
	return s.page.URL()
}

// Title returns the current page title.
func (s *Session) Title() (string, error) {
	if err := s.guard(); err != nil {
		return "", err
	}
	return s.page.Title()
}

// Reload reloads the current page.
func (s *Session) Reload() error {
	if err := s.guard(); err != nil {
		return err
	}
	if _, err := s.page.Reload(); err != nil {
		return fmt.Errorf("reload failed: %w", err)
	}
	return nil
}

// Content returns the current page HTML.
func (s *Session) Content() (string, error) {
	if err := s.guard(); err != nil {
		return "", err
	}
	return s.page.Content()
}

// Screenshot writes a PNG of the current viewport to path.
func (s *Session) Screenshot(path string) error {
	if err := s.guard(); err != nil {
		return err
	}
	if _, err := s.page.Screenshot(playwright.PageScreenshotOptions{Path: playwright.String(path)}); err != nil {
		return fmt.Errorf("screenshot failed: %w", err)
	}
	return nil
}

// Evaluate runs a script in the page and returns its result.
func (s *Session) Evaluate(script string, args ...interface{}) (interface{}, error) {
	if err := s.guard(); err != nil {
		return nil, err
	}
	return s.page.Evaluate(script, args...)
}

// WaitFor polls until an element matching the selector reaches the state or
// the timeout elapses. For detached and hidden states the returned element
// may be nil.
func (s *Session) WaitFor(selector string, state WaitState, timeout time.Duration) (Element, error) {
	if err := s.guard(); err != nil {
		return nil, err
	}
	handle, err := s.page.WaitForSelector(selector, playwright.PageWaitForSelectorOptions{
		State:   waitForState(state),
		Timeout: playwright.Float(ms(timeout)),
	})
	if err != nil {
		return nil, err
	}
	if handle == nil {
		return nil, nil
	}
	return &element{handle: handle}, nil
}

// QueryAll returns every element currently matching the selector. It does
// not wait; callers wait for the first match beforehand.
func (s *Session) QueryAll(selector string) ([]Element, error) {
	if err := s.guard(); err != nil {
		return nil, err
	}
	handles, err := s.page.QuerySelectorAll(selector)
	if err != nil {
		return nil, err
	}
	elements := make([]Element, 0, len(handles))
	for _, h := range handles {
		elements = append(elements, &element{handle: h})
	}
	return elements, nil
}

// Click clicks the first element matching the selector, waiting for it to
// be actionable up to the timeout.
func (s *Session) Click(selector string, timeout time.Duration) error {
	if err := s.guard(); err != nil {
		return err
	}
	return s.page.Click(selector, playwright.PageClickOptions{Timeout: playwright.Float(ms(timeout))})
}

// DoubleClick double-clicks the first element matching the selector.
func (s *Session) DoubleClick(selector string, timeout time.Duration) error {
	if err := s.guard(); err != nil {
		return err
	}
	return s.page.Dblclick(selector, playwright.PageDblclickOptions{Timeout: playwright.Float(ms(timeout))})
}

// RightClick context-clicks the first element matching the selector.
func (s *Session) RightClick(selector string, timeout time.Duration) error {
	if err := s.guard(); err != nil {
		return err
	}
	return s.page.Click(selector, playwright.PageClickOptions{
		Button:  playwright.MouseButtonRight,
		Timeout: playwright.Float(ms(timeout)),
	})
}

// DragAndDrop drags the source element onto the target element.
func (s *Session) DragAndDrop(source, target string, timeout time.Duration) error {
	if err := s.guard(); err != nil {
		return err
	}
	return s.page.DragAndDrop(source, target,
		playwright.PageDragAndDropOptions{Timeout: playwright.Float(ms(timeout))})
}

// Fill clears the matching input and types the value into it.
func (s *Session) Fill(selector, value string, timeout time.Duration) error {
	if err := s.guard(); err != nil {
		return err
	}
	return s.page.Fill(selector, value, playwright.PageFillOptions{Timeout: playwright.Float(ms(timeout))})
}

// Hover moves the pointer over the first element matching the selector.
func (s *Session) Hover(selector string, timeout time.Duration) error {
	if err := s.guard(); err != nil {
		return err
	}
	return s.page.Hover(selector, playwright.PageHoverOptions{Timeout: playwright.Float(ms(timeout))})
}

// SelectOption selects a dropdown option by label, value, or index.
func (s *Session) SelectOption(selector string, values SelectValues, timeout time.Duration) error {
	if err := s.guard(); err != nil {
		return err
	}
	_, err := s.page.SelectOption(selector, selectOptionValues(values),
		playwright.PageSelectOptionOptions{Timeout: playwright.Float(ms(timeout))})
	return err
}

// HandleNextDialog arranges for the next JavaScript dialog to be accepted
// or dismissed. The returned function blocks up to its timeout and reports
// the dialog message and whether a dialog fired. It must be called before
// the action that triggers the dialog; otherwise the runtime dismisses the
// dialog automatically. The handler fires for exactly one dialog; later
// dialogs fall back to the runtime's default handling.
func (s *Session) HandleNextDialog(accept bool) func(timeout time.Duration) (string, bool) {
	ch := make(chan string, 1)
	s.page.Once("dialog", func(d playwright.Dialog) {
		msg := d.Message()
		if accept {
			if err := d.Accept(); err != nil {
				s.log.Warnf("failed to accept dialog: %v", err)
			}
		} else {
			if err := d.Dismiss(); err != nil {
				s.log.Warnf("failed to dismiss dialog: %v", err)
			}
		}
		select {
		case ch <- msg:
		default:
		}
	})
	return func(timeout time.Duration) (string, bool) {
		select {
		case msg := <-ch:
			return msg, true
		case <-time.After(timeout):
			return "", false
		}
	}
}

// Frame waits for the iframe matching the selector and returns a Handle
// scoped to its content document.
func (s *Session) Frame(selector string, timeout time.Duration) (Handle, error) {
	if err := s.guard(); err != nil {
		return nil, err
	}
	handle, err := s.page.WaitForSelector(selector, playwright.PageWaitForSelectorOptions{
		State:   playwright.WaitForSelectorStateAttached,
		Timeout: playwright.Float(ms(timeout)),
	})
	if err != nil {
		return nil, err
	}
	frame, err := handle.ContentFrame()
	if err != nil {
		return nil, fmt.Errorf("element %s has no content frame: %w", selector, err)
	}
	return &frameView{frame: frame, session: s}, nil
}

func waitForState(state WaitState) *playwright.WaitForSelectorState {
	switch state {
	case WaitDetached:
		return playwright.WaitForSelectorStateDetached
	case WaitVisible:
		return playwright.WaitForSelectorStateVisible
	case WaitHidden:
		return playwright.WaitForSelectorStateHidden
	default:
		return playwright.WaitForSelectorStateAttached
	}
}

func selectOptionValues(values SelectValues) playwright.SelectOptionValues {
	opts := playwright.SelectOptionValues{}
	if values.Label != nil {
		opts.Labels = &[]string{*values.Label}
	}
	if values.Value != nil {
		opts.Values = &[]string{*values.Value}
	}
	if values.Index != nil {
		opts.Indexes = &[]int{*values.Index}
	}
	return opts
}

// element adapts a Playwright element handle to the Element interface.
type element struct {
	handle playwright.ElementHandle
}

func (e *element) Text() (string, error) {
	text, err := e.handle.InnerText()
	if err != nil {
		return "", fmt.Errorf("failed to read element text: %w", err)
	}
	return text, nil
}

func (e *element) Visible() (bool, error) {
	return e.handle.IsVisible()
}

func (e *element) Click() error {
	return e.handle.Click()
}

func (e *element) ScrollIntoView() error {
	return e.handle.ScrollIntoViewIfNeeded()
}

func (e *element) Attribute(name string) (string, error) {
	value, err := e.handle.GetAttribute(name)
	if err != nil {
		return "", fmt.Errorf("failed to read attribute %q: %w", name, err)
	}
	return value, nil
}
