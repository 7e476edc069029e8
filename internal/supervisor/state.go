// Package supervisor orchestrates the entrypoint sequence: announce, launch
// the sidecar in the background, then hand the process over to the delegate.
package supervisor

// State represents the supervisor's position in the startup sequence.
type State int

const (
	// StateCreated is the initial state before anything has happened.
	StateCreated State = iota

	// StateAnnounced indicates the startup notice has been written.
	StateAnnounced

	// StateSidecarAttempted indicates the background launch was attempted,
	// whether or not it succeeded.
	StateSidecarAttempted

	// StateDelegated indicates control was handed to the delegate. Only
	// observable in fallback dispatch mode; a real exec leaves no program
	// behind to record it.
	StateDelegated

	// StateFailed indicates the delegate hand-off failed.
	StateFailed
)

// String returns a human-readable name for the state.
func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateAnnounced:
		return "announced"
	case StateSidecarAttempted:
		return "sidecar_attempted"
	case StateDelegated:
		return "delegated"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// IsTerminal returns true once the sequence can make no further progress.
func (s State) IsTerminal() bool {
	return s == StateDelegated || s == StateFailed
}
