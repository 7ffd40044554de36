package term

// State represents where a terminal instance is in its lifecycle.
type State int

const (
	// StateConstructed indicates the instance exists but has never
	// been attached to a surface.
	StateConstructed State = iota

	// StateAttached indicates the instance is bound to a visible
	// surface.
	StateAttached

	// StateDetached indicates the instance was attached and has since
	// released its surface. The engine keeps running offscreen.
	StateDetached

	// StateDisposed indicates the instance has been permanently
	// released. No state can follow it.
	StateDisposed
)

// String returns a human-readable string for the state.
func (s State) String() string {
	switch s {
	case StateConstructed:
		return "constructed"
	case StateAttached:
		return "attached"
	case StateDetached:
		return "detached"
	case StateDisposed:
		return "disposed"
	default:
		return "unknown"
	}
}
