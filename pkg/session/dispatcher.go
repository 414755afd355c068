package session

import (
	"context"
	"log/slog"
	"sync"

	"github.com/aretw0/folio/internal/logging"
	"github.com/aretw0/folio/pkg/domain"
	"github.com/aretw0/folio/pkg/form"
)

// Observer is notified after every persisted change of a session form.
type Observer func(ctx context.Context, before, after *domain.Form)

// Dispatcher applies form events to persisted sessions.
type Dispatcher struct {
	sessions *Manager
	ctrl     *form.Controller
	logger   *slog.Logger

	mu        sync.RWMutex
	observers []Observer
}

// DispatcherOption configures the Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithDispatcherLogger sets the dispatcher logger.
func WithDispatcherLogger(logger *slog.Logger) DispatcherOption {
	return func(d *Dispatcher) {
		d.logger = logger
	}
}

// NewDispatcher binds a controller to a session manager.
func NewDispatcher(sessions *Manager, ctrl *form.Controller, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		sessions: sessions,
		ctrl:     ctrl,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Observe registers an observer of form changes.
func (d *Dispatcher) Observe(o Observer) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.observers = append(d.observers, o)
}

// Controller returns the underlying form controller.
func (d *Dispatcher) Controller() *form.Controller {
	return d.ctrl
}

// Current returns the session form, creating it when missing and failing a
// submission that was abandoned mid-flight.
func (d *Dispatcher) Current(ctx context.Context, sessionID string) (*domain.Form, error) {
	before, after, err := d.sessions.Update(ctx, sessionID, func(ctx context.Context, f *domain.Form) (*domain.Form, error) {
		return d.ctrl.Recover(ctx, f), nil
	})
	if err != nil {
		return nil, err
	}
	d.notify(ctx, before, after)
	return after, nil
}

// Dispatch applies one event to the session form and returns the resulting form.
// For a submit the returned form is the final one (Idle with the banner set),
// while observers also see the intermediate Submitting form.
func (d *Dispatcher) Dispatch(ctx context.Context, sessionID string, ev domain.Event) (*domain.Form, error) {
	if ev.Type == domain.EventSubmit {
		return d.submit(ctx, sessionID)
	}

	before, after, err := d.sessions.Update(ctx, sessionID, func(ctx context.Context, f *domain.Form) (*domain.Form, error) {
		return d.ctrl.Dispatch(ctx, d.ctrl.Recover(ctx, f), ev)
	})
	if err != nil {
		return after, err
	}
	d.notify(ctx, before, after)
	return after, nil
}

func (d *Dispatcher) submit(ctx context.Context, sessionID string) (*domain.Form, error) {
	// Phase 1: validate and mark Submitting under the lock.
	var sub *domain.Submission
	before, inFlight, err := d.sessions.Update(ctx, sessionID, func(ctx context.Context, f *domain.Form) (*domain.Form, error) {
		next, s, err := d.ctrl.BeginSubmit(ctx, d.ctrl.Recover(ctx, f))
		sub = s
		return next, err
	})
	if err != nil {
		return inFlight, err
	}
	d.notify(ctx, before, inFlight)
	if sub == nil {
		return inFlight, nil
	}

	// Phase 2: the backend call, lock released.
	deliverErr := d.ctrl.Deliver(ctx, sessionID, *sub)

	// Phase 3: apply the outcome to whatever the session looks like now.
	// The cleanup must run even when the request context is already gone.
	cleanupCtx := context.WithoutCancel(ctx)
	before, done, err := d.sessions.Update(cleanupCtx, sessionID, func(ctx context.Context, f *domain.Form) (*domain.Form, error) {
		return d.ctrl.CompleteSubmit(ctx, f, deliverErr), nil
	})
	if err != nil {
		d.logger.Error("Failed to persist submission outcome", "session_id", sessionID, "err", err)
		return inFlight, err
	}
	d.notify(ctx, before, done)
	return done, nil
}

func (d *Dispatcher) notify(ctx context.Context, before, after *domain.Form) {
	if before == after {
		return
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, o := range d.observers {
		o(ctx, before, after)
	}
}
