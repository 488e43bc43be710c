package driver

import "fmt"

// ErrorReason classifies session creation failures.
type ErrorReason string

const (
	// ReasonRemoteConnectionFailed indicates the remote endpoint could not
	// be reached or refused the session request.
	ReasonRemoteConnectionFailed ErrorReason = "remote_connection_failed"

	// ReasonDriverAcquisitionFailed indicates the managed driver download
	// or installation failed. The caller may fall back to PATH-based
	// resolution by disabling the managed driver, there is no automatic
	// retry.
	ReasonDriverAcquisitionFailed ErrorReason = "driver_acquisition_failed"

	// ReasonDriverNotFound indicates no usable driver or browser binary was
	// found for a local, non-managed launch.
	ReasonDriverNotFound ErrorReason = "driver_not_found"
)

// Error is returned when the factory cannot produce a fully configured
// session. It carries the configuration snapshot so reports can show the
// settings the failure happened under.
type Error struct {
	Reason ErrorReason
	Config map[string]string
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("driver: %s: %v", e.Reason, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// LifecycleReason classifies scope usage errors.
type LifecycleReason string

const (
	// ReasonAlreadyAcquired indicates Acquire was called on a per-test
	// scope that already holds a live session.
	ReasonAlreadyAcquired LifecycleReason = "already_acquired"

	// ReasonSessionClosed indicates an operation on a session whose scope
	// has already ended.
	ReasonSessionClosed LifecycleReason = "session_closed"
)

// LifecycleError reports misuse of the session lifecycle. These are
// programming errors, not environmental failures.
type LifecycleError struct {
	Reason LifecycleReason
}

func (e *LifecycleError) Error() string {
	return fmt.Sprintf("driver: lifecycle violation: %s", e.Reason)
}
