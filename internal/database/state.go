package database

// State is the connection lifecycle state. The numeric values are exposed to
// clients as "readyState".
type State int32

const (
	Disconnected  State = 0
	Connected     State = 1
	Connecting    State = 2
	Disconnecting State = 3
)

func (s State) String() string {
	switch s {
	case Disconnected:
		return "disconnected"
	case Connected:
		return "connected"
	case Connecting:
		return "connecting"
	case Disconnecting:
		return "disconnecting"
	default:
		return "unknown"
	}
}

// StateSource is anything that can report the current connection state
// without blocking.
type StateSource interface {
	State() State
}
