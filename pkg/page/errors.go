package page

import (
	"fmt"
	"time"
)

// ErrorReason classifies element operation failures.
type ErrorReason string

const (
	// ReasonNotFound indicates the element did not reach the required state
	// within the bounded wait.
	ReasonNotFound ErrorReason = "not_found"

	// ReasonScriptFailed indicates JavaScript execution failed in the page.
	ReasonScriptFailed ErrorReason = "script_failed"
)

// Error is scoped to one test: it is that test's failure and never aborts
// the run or other tests. It carries the locator and the timeout that was
// in effect so reports can reproduce the failure.
type Error struct {
	Reason     ErrorReason
	Locator    Locator
	Timeout    time.Duration
	Screenshot string
	Err        error
}

func (e *Error) Error() string {
	if e.Reason == ReasonScriptFailed {
		return fmt.Sprintf("page: script execution failed: %v", e.Err)
	}
	return fmt.Sprintf("page: element %s not found within %s: %v", e.Locator, e.Timeout, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }
