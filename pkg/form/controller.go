package form

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/folio/internal/logging"
	"github.com/aretw0/folio/pkg/domain"
	"github.com/aretw0/folio/pkg/ports"
	"github.com/aretw0/folio/pkg/validation"
)

// DefaultSubmitTimeout bounds a single call to the submission backend.
const DefaultSubmitTimeout = 10 * time.Second

// ErrSubmissionAbandoned marks a submission that never completed, typically
// because the process handling it went away.
var ErrSubmissionAbandoned = errors.New("submission abandoned")

// Controller is the contact form state machine.
// It is safe for concurrent use: it holds only its collaborators.
type Controller struct {
	submitter ports.Submitter
	hooks     domain.LifecycleHooks
	logger    *slog.Logger
	timeout   time.Duration
	staleLag  time.Duration
	maxInput  int
	now       func() time.Time
}

// Option configures the Controller.
type Option func(*Controller)

// WithLogger sets a custom structured logger for the controller.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(c *Controller) {
		c.hooks = hooks
	}
}

// WithSubmitTimeout bounds each backend call. Zero disables the bound.
func WithSubmitTimeout(d time.Duration) Option {
	return func(c *Controller) {
		c.timeout = d
	}
}

// WithStaleAfter sets how long past the submit timeout a form may stay in
// Submitting before Recover declares the attempt abandoned.
func WithStaleAfter(d time.Duration) Option {
	return func(c *Controller) {
		c.staleLag = d
	}
}

// WithMaxInputSize bounds each value in bytes. Zero keeps
// validation.MaxInputSize.
func WithMaxInputSize(n int) Option {
	return func(c *Controller) {
		c.maxInput = n
	}
}

// WithClock overrides time.Now (tests).
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		c.now = now
	}
}

// NewController creates a controller delivering valid submissions to submitter.
func NewController(submitter ports.Submitter, opts ...Option) *Controller {
	c := &Controller{
		submitter: submitter,
		logger:    logging.NewNop(),
		timeout:   DefaultSubmitTimeout,
		staleLag:  5 * time.Second,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Dispatch routes one event to the matching transition and returns the next form.
// The given form is never modified.
func (c *Controller) Dispatch(ctx context.Context, form *domain.Form, ev domain.Event) (*domain.Form, error) {
	switch ev.Type {
	case domain.EventBlur:
		return c.Blur(ctx, form, ev.Field)
	case domain.EventInput:
		return c.Input(ctx, form, ev.Field, ev.Value)
	case domain.EventSubmit:
		return c.Submit(ctx, form)
	default:
		return form, fmt.Errorf("%w: %q", domain.ErrUnknownEvent, ev.Type)
	}
}

// Blur validates the field that lost focus.
func (c *Controller) Blur(ctx context.Context, form *domain.Form, id domain.FieldID) (*domain.Form, error) {
	next := form.Snapshot()
	f, err := next.Field(id)
	if err != nil {
		return form, err
	}
	c.validate(ctx, next, f, domain.EventBlur)
	return next, nil
}

// Input records a new value for the field. The field is re-validated only
// while it is in the error state, so a fixed field clears as soon as it becomes
// valid and a clean field is not checked again before the next blur.
func (c *Controller) Input(ctx context.Context, form *domain.Form, id domain.FieldID, value string) (*domain.Form, error) {
	clean, err := validation.SanitizeInputLimit(value, c.maxInput)
	if err != nil {
		return form, fmt.Errorf("field %s: %w", id, err)
	}

	next := form.Snapshot()
	f, err := next.Field(id)
	if err != nil {
		return form, err
	}
	f.Value = clean
	if validation.ShouldValidate(domain.EventInput, *f) {
		c.validate(ctx, next, f, domain.EventInput)
	}
	return next, nil
}

// Submit runs the full submit cycle, waiting for the backend.
func (c *Controller) Submit(ctx context.Context, form *domain.Form) (*domain.Form, error) {
	next, sub, err := c.BeginSubmit(ctx, form)
	if err != nil || sub == nil {
		return next, err
	}
	deliverErr := c.Deliver(ctx, next.SessionID, *sub)
	return c.CompleteSubmit(ctx, next, deliverErr), nil
}

// BeginSubmit validates every field and, when all are valid, moves the form to
// Submitting and returns the snapshot to deliver. A nil submission means the
// form went back to Idle with its errors visible.
func (c *Controller) BeginSubmit(ctx context.Context, form *domain.Form) (*domain.Form, *domain.Submission, error) {
	if form.State == domain.StateSubmitting {
		return form, nil, domain.ErrSubmissionInFlight
	}

	next := form.Snapshot()
	c.transition(ctx, next, domain.StateValidating)

	valid := true
	for i := range next.Fields {
		if !c.validate(ctx, next, &next.Fields[i], domain.EventSubmit).Valid {
			valid = false
		}
	}

	if !valid {
		c.transition(ctx, next, domain.StateIdle)
		return next, nil, nil
	}

	now := c.now()
	sub := next.Collect(now)
	c.transition(ctx, next, domain.StateSubmitting)
	next.SubmittingSince = now
	next.Message.Visible = false
	return next, &sub, nil
}

// Deliver hands the submission to the backend, bounded by the submit timeout.
// A panicking backend is reported as an error so that cleanup always runs.
func (c *Controller) Deliver(ctx context.Context, sessionID string, sub domain.Submission) (err error) {
	if c.submitter == nil {
		return errors.New("no submission backend configured")
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	event := &domain.SubmitEvent{Timestamp: c.now(), SessionID: sessionID, Submission: sub}
	if c.hooks.OnSubmit != nil {
		c.hooks.OnSubmit(ctx, event)
	}

	start := c.now()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("submission backend panicked: %v", r)
		}
		ret := *event
		ret.Timestamp = c.now()
		ret.Duration = ret.Timestamp.Sub(start)
		ret.Err = err
		if c.hooks.OnSubmitReturn != nil {
			c.hooks.OnSubmitReturn(ctx, &ret)
		}
		if err != nil {
			c.logger.Error("Form submission failed", "session_id", sessionID, "err", err)
		} else {
			c.logger.Info("Form submitted", "session_id", sessionID, "email", sub.Email, "subject", sub.Subject)
		}
	}()

	return c.submitter.Submit(ctx, sub)
}

// CompleteSubmit applies the backend outcome to a form that is Submitting and
// always ends in Idle with the control re-enabled. On success the fields are
// reset to pristine; on failure their values are kept for a resubmission.
// A form that is not Submitting is returned unchanged.
func (c *Controller) CompleteSubmit(ctx context.Context, form *domain.Form, deliverErr error) *domain.Form {
	if form.State != domain.StateSubmitting {
		return form
	}

	next := form.Snapshot()
	if deliverErr == nil {
		c.transition(ctx, next, domain.StateSuccess)
		next.Message = domain.FormMessage{Visible: true, Kind: domain.MessageSuccess, Text: domain.MsgSubmitSuccess}
		next.Reset()
	} else {
		c.transition(ctx, next, domain.StateFailed)
		next.Message = domain.FormMessage{Visible: true, Kind: domain.MessageError, Text: domain.MsgSubmitFailure}
	}

	next.SubmittingSince = time.Time{}
	c.transition(ctx, next, domain.StateIdle)
	return next
}

// Stale reports whether the form has been Submitting for longer than any
// in-flight delivery could take.
func (c *Controller) Stale(form *domain.Form) bool {
	if form.State != domain.StateSubmitting || form.SubmittingSince.IsZero() {
		return false
	}
	return c.now().Sub(form.SubmittingSince) > c.timeout+c.staleLag
}

// Recover fails a stale submission so the visitor can resubmit.
// Forms that are not stale are returned unchanged.
func (c *Controller) Recover(ctx context.Context, form *domain.Form) *domain.Form {
	if !c.Stale(form) {
		return form
	}
	c.logger.Warn("Recovering abandoned submission", "session_id", form.SessionID, "since", form.SubmittingSince)
	return c.CompleteSubmit(ctx, form, ErrSubmissionAbandoned)
}

func (c *Controller) validate(ctx context.Context, form *domain.Form, f *domain.Field, trigger domain.EventType) domain.ValidationResult {
	res := validation.Apply(f)
	if c.hooks.OnValidate != nil {
		c.hooks.OnValidate(ctx, &domain.ValidationEvent{
			Timestamp: c.now(),
			SessionID: form.SessionID,
			Field:     f.ID,
			Trigger:   trigger,
			Result:    res,
		})
	}
	return res
}

func (c *Controller) transition(ctx context.Context, form *domain.Form, to domain.SubmissionState) {
	from := form.State
	form.State = to
	c.logger.Debug("Form transition", "session_id", form.SessionID, "from", from, "to", to)
	if c.hooks.OnTransition != nil {
		c.hooks.OnTransition(ctx, &domain.TransitionEvent{
			Timestamp: c.now(),
			SessionID: form.SessionID,
			From:      from,
			To:        to,
		})
	}
}
