package controller

import "fmt"

// State is the controller lifecycle state.
type State int

const (
	Idle State = iota
	Validating
	Running
	Paused
	Done
	Error
)

func (s State) String() string {
	switch s {
	case Idle:
		return "Idle"
	case Validating:
		return "Validating"
	case Running:
		return "Running"
	case Paused:
		return "Paused"
	case Done:
		return "Done"
	case Error:
		return "Error"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Terminal reports whether no further steps will be folded in s.
func (s State) Terminal() bool {
	return s == Done || s == Error
}

// Event drives a transition.
type Event string

const (
	EventSubmit  Event = "submit"
	EventValid   Event = "valid"
	EventInvalid Event = "invalid"
	EventPause   Event = "pause"
	EventResume  Event = "resume"
	EventFinish  Event = "finish"
	EventFail    Event = "fail"
	EventReset   Event = "reset"
)

// transitions is the complete table. A pair missing from it is rejected.
// Paused accepts finish and fail because a step pulled just before the pause
// took effect may still arrive.
var transitions = map[State]map[Event]State{
	Idle: {
		EventSubmit: Validating,
		EventReset:  Idle,
	},
	Validating: {
		EventValid:   Running,
		EventInvalid: Error,
		EventReset:   Idle,
	},
	Running: {
		EventPause:  Paused,
		EventFinish: Done,
		EventFail:   Error,
		EventReset:  Idle,
	},
	Paused: {
		EventResume: Running,
		EventFinish: Done,
		EventFail:   Error,
		EventReset:  Idle,
	},
	Done: {
		EventReset: Idle,
	},
	Error: {
		EventReset: Idle,
	},
}

// Next returns the state reached from s on ev.
func Next(s State, ev Event) (State, bool) {
	to, ok := transitions[s][ev]
	return to, ok
}
