package page

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// DefaultScreenshotDir is the fixed workspace-relative directory failure
// screenshots land in. Filenames carry a timestamp and a locator hash, so
// parallel worker processes never need to coordinate writes.
const DefaultScreenshotDir = "screenshots"

const timestampFormat = "20060102_150405.000"

// TakeScreenshot captures the current viewport under the given name and
// returns the file path.
func (p *Page) TakeScreenshot(name string) (string, error) {
	if err := os.MkdirAll(p.shots, 0750); err != nil {
		return "", fmt.Errorf("failed to create screenshot directory: %w", err)
	}
	path := filepath.Join(p.shots, fmt.Sprintf("%s_%s.png", name, time.Now().Format(timestampFormat)))
	if err := p.session.Screenshot(path); err != nil {
		return "", err
	}
	return path, nil
}

// captureFailure takes the failure screenshot for an element operation.
// Capture problems are logged, never raised: a broken screenshot path must
// not mask the failure that triggered it. Returns the file path, empty when
// capture failed.
func (p *Page) captureFailure(action string, locator Locator) string {
	name := fmt.Sprintf("%s_failed_%s", action, locator.slug())
	path, err := p.TakeScreenshot(name)
	if err != nil {
		p.log.Warnf("failed to capture %s screenshot for %s: %v", action, locator, err)
		return ""
	}
	p.log.Infof("captured failure screenshot %s", path)
	return path
}
