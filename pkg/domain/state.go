package domain

import (
	"fmt"
	"time"
)

// SubmissionState is the state of the submission state machine.
type SubmissionState string

const (
	StateIdle       SubmissionState = "idle"
	StateValidating SubmissionState = "validating"
	StateSubmitting SubmissionState = "submitting"
	StateSuccess    SubmissionState = "success"
	StateFailed     SubmissionState = "failed"
)

// MessageKind is the flavour of the banner shown after a submission.
type MessageKind string

const (
	MessageSuccess MessageKind = "success"
	MessageError   MessageKind = "error"
)

// FormMessage is the single banner that reports the outcome of a submission.
type FormMessage struct {
	Visible bool        `json:"visible"`
	Kind    MessageKind `json:"kind,omitempty"`
	Text    string      `json:"text,omitempty"`
}

// SubmitControl is the presentation of the submit button.
type SubmitControl struct {
	Disabled bool `json:"disabled"`
	Loading  bool `json:"loading"`
}

// Submission is the snapshot of a valid form handed to a submission backend.
type Submission struct {
	// ID is assigned by the backend that accepts the submission (optional).
	ID      string `json:"id,omitempty"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
	// ReceivedAt is set when the controller collects the snapshot.
	ReceivedAt time.Time `json:"received_at"`
}

// Form is the complete snapshot of one visitor's contact form.
type Form struct {
	SessionID string          `json:"session_id"`
	Fields    []Field         `json:"fields"`
	State     SubmissionState `json:"state"`
	Message   FormMessage     `json:"message"`

	// SubmittingSince records when the current submission started.
	// It is zero unless State is StateSubmitting.
	SubmittingSince time.Time `json:"submitting_since,omitempty"`
}

// NewForm creates a pristine contact form in the Idle state.
func NewForm(sessionID string) *Form {
	return &Form{
		SessionID: sessionID,
		Fields:    ContactFields(),
		State:     StateIdle,
	}
}

// Control derives the submit control from the state: it is disabled and
// loading exactly while a submission is in flight.
func (f *Form) Control() SubmitControl {
	busy := f.State == StateSubmitting
	return SubmitControl{Disabled: busy, Loading: busy}
}

// Field returns a pointer to the field with the given id.
func (f *Form) Field(id FieldID) (*Field, error) {
	for i := range f.Fields {
		if f.Fields[i].ID == id {
			return &f.Fields[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownField, id)
}

// Value returns the raw value of a field, or "" when the field does not exist.
func (f *Form) Value(id FieldID) string {
	field, err := f.Field(id)
	if err != nil {
		return ""
	}
	return field.Value
}

// HasErrors reports whether any field is in the error state.
func (f *Form) HasErrors() bool {
	for _, field := range f.Fields {
		if field.Invalid {
			return true
		}
	}
	return false
}

// Collect builds the submission snapshot from the current field values.
func (f *Form) Collect(now time.Time) Submission {
	return Submission{
		Name:       f.Value(FieldName),
		Email:      f.Value(FieldEmail),
		Subject:    f.Value(FieldSubject),
		Message:    f.Value(FieldMessage),
		ReceivedAt: now,
	}
}

// Reset clears every value and error state back to pristine.
func (f *Form) Reset() {
	for i := range f.Fields {
		f.Fields[i].Value = ""
		f.Fields[i].Invalid = false
		f.Fields[i].Error = ""
	}
}

// Snapshot creates a deep copy of the form.
func (f *Form) Snapshot() *Form {
	if f == nil {
		return nil
	}
	c := *f
	c.Fields = make([]Field, len(f.Fields))
	copy(c.Fields, f.Fields)
	return &c
}
