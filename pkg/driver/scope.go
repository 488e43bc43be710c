package driver

import "sync"

// Policy selects how long a scope keeps a session alive.
type Policy int

const (
	// PerTest gives each test a fresh session; Release closes it.
	PerTest Policy = iota

	// PerRun shares one session across a batch; Release is a no-op and the
	// session is closed once by Shutdown at the end of the batch.
	PerRun
)

// Creator produces sessions for a scope. *Factory implements it.
type Creator interface {
	Create() (*Session, error)
}

// Scope owns the creation and guaranteed release of sessions. At most one
// live session exists per scope instance.
type Scope struct {
	creator Creator
	policy  Policy

	mu      sync.Mutex
	current *Session
}

// NewScope creates a scope over the given session creator.
func NewScope(creator Creator, policy Policy) *Scope {
	return &Scope{creator: creator, policy: policy}
}

// Policy returns the scoping policy.
func (s *Scope) Policy() Policy { return s.policy }

// Acquire returns the scope's session, creating it on first use. Under
// PerRun the same session is returned to every caller. Under PerTest a
// second Acquire without an intervening Release is a usage error.
func (s *Scope) Acquire() (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current != nil && !s.current.Closed() {
		if s.policy == PerRun {
			return s.current, nil
		}
		return nil, &LifecycleError{Reason: ReasonAlreadyAcquired}
	}

	session, err := s.creator.Create()
	if err != nil {
		return nil, err
	}
	s.current = session
	return session, nil
}

// Release ends the current test's use of the session. Under PerTest the
// session is closed; under PerRun it stays alive for the next test. Safe to
// call with nothing acquired.
func (s *Scope) Release() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil || s.policy == PerRun {
		return nil
	}
	err := s.current.Close()
	s.current = nil
	return err
}

// Shutdown closes the session regardless of policy. Called once when the
// batch ends.
func (s *Scope) Shutdown() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return nil
	}
	err := s.current.Close()
	s.current = nil
	return err
}
