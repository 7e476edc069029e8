package supervisor

import "fmt"

// LaunchError wraps a sidecar launch failure. It is non-fatal: the
// supervisor reports it and proceeds to the delegate dispatch regardless.
type LaunchError struct {
	Err error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("sidecar launch: %v", e.Err)
}

func (e *LaunchError) Unwrap() error { return e.Err }

// DelegationError wraps a delegate resolution or dispatch failure. It is
// fatal: there is no fallback once the delegate cannot run.
type DelegationError struct {
	Target string // Empty when resolution itself failed
	Err    error
}

func (e *DelegationError) Error() string {
	if e.Target == "" {
		return fmt.Sprintf("delegate resolution: %v", e.Err)
	}
	return fmt.Sprintf("delegate dispatch %s: %v", e.Target, e.Err)
}

func (e *DelegationError) Unwrap() error { return e.Err }
