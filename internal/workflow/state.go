// Package workflow holds the submission and listing workflows. Both are
// strictly sequential: one external call at a time, no retries.
package workflow

import (
	"errors"
	"fmt"
)

// ErrInvalidTransition is returned by Transition for an event the state does not accept.
var ErrInvalidTransition = errors.New("invalid workflow transition")

// State is the position of a submission in its workflow.
type State int

const (
	Idle State = iota
	Validating
	Uploading
	Inserting
	Succeeded
	Failed
)

var stateNames = [...]string{"idle", "validating", "uploading", "inserting", "succeeded", "failed"}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("state(%d)", int(s))
	}
	return stateNames[s]
}

// Terminal reports whether s ends a run.
func (s State) Terminal() bool {
	return s == Succeeded || s == Failed
}

// Event drives a State to its successor.
type Event int

const (
	EventSubmit Event = iota
	EventValidationFailed
	EventValidationPassed
	EventValidationPassedNoImage
	EventUploadSucceeded
	EventUploadFailed
	EventInsertSucceeded
	EventInsertFailed
	EventReset
)

var eventNames = [...]string{
	"submit",
	"validation_failed",
	"validation_passed",
	"validation_passed_no_image",
	"upload_succeeded",
	"upload_failed",
	"insert_succeeded",
	"insert_failed",
	"reset",
}

func (e Event) String() string {
	if e < 0 || int(e) >= len(eventNames) {
		return fmt.Sprintf("event(%d)", int(e))
	}
	return eventNames[e]
}

var transitions = map[State]map[Event]State{
	Idle: {
		EventSubmit: Validating,
	},
	Validating: {
		EventValidationFailed:        Idle,
		EventValidationPassed:        Uploading,
		EventValidationPassedNoImage: Inserting,
	},
	Uploading: {
		EventUploadSucceeded: Inserting,
		EventUploadFailed:    Failed,
	},
	Inserting: {
		EventInsertSucceeded: Succeeded,
		EventInsertFailed:    Failed,
	},
	Succeeded: {
		EventReset: Idle,
	},
	Failed: {
		EventReset: Idle,
	},
}

// Transition returns the state that follows from on ev.
func Transition(from State, ev Event) (State, error) {
	if next, ok := transitions[from][ev]; ok {
		return next, nil
	}
	return from, fmt.Errorf("%w: %s on %s", ErrInvalidTransition, from, ev)
}
