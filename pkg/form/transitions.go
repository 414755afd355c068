package form

import "github.com/aretw0/folio/pkg/domain"

// Transition is one edge of the submission state machine.
type Transition struct {
	From domain.SubmissionState
	To   domain.SubmissionState
	On   string
}

// Transitions lists every move the controller can make, in lifecycle order.
func Transitions() []Transition {
	return []Transition{
		{From: domain.StateIdle, To: domain.StateValidating, On: "submit"},
		{From: domain.StateValidating, To: domain.StateIdle, On: "invalid"},
		{From: domain.StateValidating, To: domain.StateSubmitting, On: "valid"},
		{From: domain.StateSubmitting, To: domain.StateSuccess, On: "accepted"},
		{From: domain.StateSubmitting, To: domain.StateFailed, On: "error"},
		{From: domain.StateSuccess, To: domain.StateIdle, On: "done"},
		{From: domain.StateFailed, To: domain.StateIdle, On: "done"},
	}
}

// States lists the states of the machine, Idle first.
func States() []domain.SubmissionState {
	return []domain.SubmissionState{
		domain.StateIdle,
		domain.StateValidating,
		domain.StateSubmitting,
		domain.StateSuccess,
		domain.StateFailed,
	}
}
