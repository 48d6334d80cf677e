package mongo

// State is a position in the connection lifecycle:
//
//	Uninitialized -> Connecting -> Ready -> Closed
//	                 Connecting -> Failed
//
// Failed and Closed are terminal for a Handle. A Manager in Failed state
// accepts a new Connect, which produces a new Handle.
type State int32

const (
	StateUninitialized State = iota
	StateConnecting
	StateReady
	StateFailed
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateConnecting:
		return "connecting"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}
