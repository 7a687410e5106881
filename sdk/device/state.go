package device

// State is the lifecycle state of a device session.
type State int32

const (
	// StateCreated means the native handle exists but the port was never opened.
	StateCreated State = iota
	// StateOpen means the port is connected and messages are delivered.
	StateOpen
	// StateClosed means the port was disconnected; it may be opened again.
	StateClosed
	// StateDisposed is terminal: the handle has been released.
	StateDisposed
)

func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateOpen:
		return "open"
	case StateClosed:
		return "closed"
	case StateDisposed:
		return "disposed"
	default:
		return "unknown"
	}
}
