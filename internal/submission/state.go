// Package submission validates a query form, builds the outbound payload and
// sends it once to the procedures endpoint.
//
// Attempt lifecycle:
//
//	IDLE ──► VALIDATING ──► SENDING ──► SUCCEEDED
//	              │             │
//	              ▼             └──────► FAILED
//	          REJECTED
//
// REJECTED, SUCCEEDED and FAILED are terminal. A new attempt always starts at IDLE.
package submission

import "fmt"

// State is the lifecycle position of a single submission attempt.
type State string

const (
	StateIdle       State = "IDLE"
	StateValidating State = "VALIDATING"
	StateRejected   State = "REJECTED"
	StateSending    State = "SENDING"
	StateSucceeded  State = "SUCCEEDED"
	StateFailed     State = "FAILED"
)

var validTransitions = map[State][]State{
	StateIdle:       {StateValidating},
	StateValidating: {StateRejected, StateSending},
	StateSending:    {StateSucceeded, StateFailed},
}

// ParseState converts a raw string to a State, returning an error for
// unknown values.
func ParseState(s string) (State, error) {
	st := State(s)
	switch st {
	case StateIdle, StateValidating, StateRejected, StateSending, StateSucceeded, StateFailed:
		return st, nil
	}
	return "", fmt.Errorf("unknown submission state %q", s)
}

// IsTransitionAllowed reports whether an attempt may move from → to.
func IsTransitionAllowed(from, to State) bool {
	allowed, ok := validTransitions[from]
	if !ok {
		return false
	}
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}

// IsTerminal returns true for states that end an attempt.
func IsTerminal(s State) bool {
	return s == StateRejected || s == StateSucceeded || s == StateFailed
}

// attempt tracks the state history of one Submit call.
type attempt struct {
	current State
	history []State
}

func newAttempt() *attempt {
	return &attempt{current: StateIdle, history: []State{StateIdle}}
}

// move advances the attempt; an illegal move is a programming error.
func (a *attempt) move(to State) {
	if !IsTransitionAllowed(a.current, to) {
		panic(fmt.Sprintf("submission: transition %s → %s is not allowed", a.current, to))
	}
	a.current = to
	a.history = append(a.history, to)
}
