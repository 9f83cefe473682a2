package controller

// State is the lifecycle position of a controller.
type State int

const (
	Idle State = iota
	Submitting
	DoneSuccess
	DoneFailure
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Submitting:
		return "submitting"
	case DoneSuccess:
		return "done_success"
	case DoneFailure:
		return "done_failure"
	default:
		return "unknown"
	}
}

var validTransitions = map[State][]State{
	Idle:        {Submitting},
	Submitting:  {DoneSuccess, DoneFailure, Idle},
	DoneSuccess: {Idle},
	DoneFailure: {Idle},
}

// CanTransitionTo reports whether the state machine allows moving from s to
// target. Submitting may fall back to Idle when an attempt is cut short
// before a result is rendered.
func (s State) CanTransitionTo(target State) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}
