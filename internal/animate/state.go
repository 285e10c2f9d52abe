package animate

// State is the animator lifecycle position.
type State int

const (
	Idle State = iota
	Rendering
	Flushing
	Done
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Rendering:
		return "rendering"
	case Flushing:
		return "flushing"
	case Done:
		return "done"
	}
	return "unknown"
}

// Transition is one lifecycle step, reported to the transition hook.
type Transition struct {
	State State
	Frame int
}
