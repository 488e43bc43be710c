package driver

import (
	"fmt"
	"time"

	"github.com/playwright-community/playwright-go"
)

// frameView is a Handle scoped to an iframe's content document. Element
// operations run inside the frame; whole-page operations (navigation,
// reload, screenshot, dialogs) delegate to the owning session.
type frameView struct {
	frame   playwright.Frame
	session *Session
}

func (f *frameView) Navigate(url string) error { return f.session.Navigate(url) }
func (f *frameView) Reload() error             { return f.session.Reload() }

func (f *frameView) Screenshot(path string) error { return f.session.Screenshot(path) }

func (f *frameView) HandleNextDialog(accept bool) func(timeout time.Duration) (string, bool) {
	return f.session.HandleNextDialog(accept)
}

func (f *frameView) Closed() bool { return f.session.Closed() }

func (f *frameView) URL() string {
	if f.session.Closed() {
		return ""
	}
	return f.frame.URL()
}

func (f *frameView) Title() (string, error) {
	if err := f.session.guard(); err != nil {
		return "", err
	}
	return f.frame.Title()
}

func (f *frameView) Content() (string, error) {
	if err := f.session.guard(); err != nil {
		return "", err
	}
	return f.frame.Content()
}

func (f *frameView) Evaluate(script string, args ...interface{}) (interface{}, error) {
	if err := f.session.guard(); err != nil {
		return nil, err
	}
	return f.frame.Evaluate(script, args...)
}

func (f *frameView) WaitFor(selector string, state WaitState, timeout time.Duration) (Element, error) {
	if err := f.session.guard(); err != nil {
		return nil, err
	}
	handle, err := f.frame.WaitForSelector(selector, playwright.FrameWaitForSelectorOptions{
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

func (f *frameView) QueryAll(selector string) ([]Element, error) {
	if err := f.session.guard(); err != nil {
		return nil, err
	}
	handles, err := f.frame.QuerySelectorAll(selector)
	if err != nil {
		return nil, err
	}
	elements := make([]Element, 0, len(handles))
	for _, h := range handles {
		elements = append(elements, &element{handle: h})
	}
	return elements, nil
}

func (f *frameView) Click(selector string, timeout time.Duration) error {
	if err := f.session.guard(); err != nil {
		return err
	}
	return f.frame.Click(selector, playwright.FrameClickOptions{Timeout: playwright.Float(ms(timeout))})
}

func (f *frameView) DoubleClick(selector string, timeout time.Duration) error {
	if err := f.session.guard(); err != nil {
		return err
	}
	return f.frame.Dblclick(selector, playwright.FrameDblclickOptions{Timeout: playwright.Float(ms(timeout))})
}

func (f *frameView) RightClick(selector string, timeout time.Duration) error {
	if err := f.session.guard(); err != nil {
		return err
	}
	return f.frame.Click(selector, playwright.FrameClickOptions{
		Button:  playwright.MouseButtonRight,
		Timeout: playwright.Float(ms(timeout)),
	})
}

func (f *frameView) DragAndDrop(source, target string, timeout time.Duration) error {
	if err := f.session.guard(); err != nil {
		return err
	}
	return f.frame.DragAndDrop(source, target,
		playwright.FrameDragAndDropOptions{Timeout: playwright.Float(ms(timeout))})
}

func (f *frameView) Fill(selector, value string, timeout time.Duration) error {
	if err := f.session.guard(); err != nil {
		return err
	}
	return f.frame.Fill(selector, value, playwright.FrameFillOptions{Timeout: playwright.Float(ms(timeout))})
}

func (f *frameView) Hover(selector string, timeout time.Duration) error {
	if err := f.session.guard(); err != nil {
		return err
	}
	return f.frame.Hover(selector, playwright.FrameHoverOptions{Timeout: playwright.Float(ms(timeout))})
}

func (f *frameView) SelectOption(selector string, values SelectValues, timeout time.Duration) error {
	if err := f.session.guard(); err != nil {
		return err
	}
	_, err := f.frame.SelectOption(selector, selectOptionValues(values),
		playwright.FrameSelectOptionOptions{Timeout: playwright.Float(ms(timeout))})
	return err
}

func (f *frameView) Frame(selector string, timeout time.Duration) (Handle, error) {
	if err := f.session.guard(); err != nil {
		return nil, err
	}
	handle, err := f.frame.WaitForSelector(selector, playwright.FrameWaitForSelectorOptions{
		State:   playwright.WaitForSelectorStateAttached,
		Timeout: playwright.Float(ms(timeout)),
	})
	if err != nil {
		return nil, err
	}
	inner, err := handle.ContentFrame()
	if err != nil {
		return nil, fmt.Errorf("element %s has no content frame: %w", selector, err)
	}
	return &frameView{frame: inner, session: f.session}, nil
}
