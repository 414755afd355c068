package domain

import (
	"context"
	"time"
)

// EventType is the kind of user interaction dispatched to the controller.
type EventType string

const (
	// EventBlur is the loss of focus of a field.
	EventBlur EventType = "blur"
	// EventInput is a value change (one keystroke) of a field.
	EventInput EventType = "input"
	// EventSubmit is the submit trigger of the form.
	EventSubmit EventType = "submit"
)

// Event is one user interaction with the form.
type Event struct {
	Type  EventType `json:"type"`
	Field FieldID   `json:"field,omitempty"`
	Value string    `json:"value,omitempty"`
}

// TransitionEvent reports a move of the state machine.
type TransitionEvent struct {
	Timestamp time.Time       `json:"timestamp"`
	SessionID string          `json:"session_id"`
	From      SubmissionState `json:"from"`
	To        SubmissionState `json:"to"`
}

// ValidationEvent reports the validation of one field.
type ValidationEvent struct {
	Timestamp time.Time        `json:"timestamp"`
	SessionID string           `json:"session_id"`
	Field     FieldID          `json:"field"`
	Trigger   EventType        `json:"trigger"`
	Result    ValidationResult `json:"result"`
}

// SubmitEvent reports a call to the submission backend.
type SubmitEvent struct {
	Timestamp  time.Time     `json:"timestamp"`
	SessionID  string        `json:"session_id"`
	Submission Submission    `json:"submission"`
	Duration   time.Duration `json:"duration,omitempty"`
	Err        error         `json:"-"`
}

// LifecycleHooks defines callbacks for controller observability.
// Every hook is optional.
type LifecycleHooks struct {
	OnTransition   func(context.Context, *TransitionEvent)
	OnValidate     func(context.Context, *ValidationEvent)
	OnSubmit       func(context.Context, *SubmitEvent)
	OnSubmitReturn func(context.Context, *SubmitEvent)
}

// MergeHooks fans every callback out to all the given hooks, in order.
func MergeHooks(hooks ...LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnTransition: func(ctx context.Context, e *TransitionEvent) {
			for _, h := range hooks {
				if h.OnTransition != nil {
					h.OnTransition(ctx, e)
				}
			}
		},
		OnValidate: func(ctx context.Context, e *ValidationEvent) {
			for _, h := range hooks {
				if h.OnValidate != nil {
					h.OnValidate(ctx, e)
				}
			}
		},
		OnSubmit: func(ctx context.Context, e *SubmitEvent) {
			for _, h := range hooks {
				if h.OnSubmit != nil {
					h.OnSubmit(ctx, e)
				}
			}
		},
		OnSubmitReturn: func(ctx context.Context, e *SubmitEvent) {
			for _, h := range hooks {
				if h.OnSubmitReturn != nil {
					h.OnSubmitReturn(ctx, e)
				}
			}
		},
	}
}
