package timer

// State is the single source of truth of one Timer; the execution loop and
// every public operation consult it under the Timer lock.
type State uint8

const (
	StateStopped State = iota
	StateRunning
	StatePaused
)

func (s State) String() string {
	switch s {
	case StateStopped:
		return "stopped"
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	default:
		return "<unknown state>"
	}
}
