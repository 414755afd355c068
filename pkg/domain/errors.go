package domain

import "errors"

// ErrSessionNotFound is returned when a form session cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// ErrUnknownField is returned when an event targets a field the form does not have.
var ErrUnknownField = errors.New("unknown field")

// ErrUnknownEvent is returned when an event type is not handled by the controller.
var ErrUnknownEvent = errors.New("unknown event")

// ErrSubmissionInFlight is returned when a submit is triggered while another
// submission of the same form has not completed yet.
var ErrSubmissionInFlight = errors.New("submission already in flight")
