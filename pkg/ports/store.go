package ports

import (
	"context"
	"errors"
	"fmt"

	"github.com/aretw0/folio/pkg/domain"
)

// FormStore defines the interface for persisting one form per visitor session.
// It lets a post/redirect/get round trip, or a second replica, see the same
// form state.
type FormStore interface {
	// Save persists the form for a given session ID.
	Save(ctx context.Context, sessionID string, form *domain.Form) error

	// Load retrieves the form for a given session ID.
	// Returns domain.ErrSessionNotFound if the session does not exist.
	Load(ctx context.Context, sessionID string) (*domain.Form, error)

	// Delete removes the form for a given session ID.
	Delete(ctx context.Context, sessionID string) error

	// List returns the IDs of the stored sessions.
	List(ctx context.Context) ([]string, error)
}

// StateLister is implemented by stores that index the submission state of
// every session, so listing does not decode each form.
type StateLister interface {
	ListStates(ctx context.Context) (map[string]domain.SubmissionState, error)
}

// ListStates returns the submission state of every stored session. Stores
// without a state index are read form by form; a session deleted in between
// is skipped.
func ListStates(ctx context.Context, store FormStore) (map[string]domain.SubmissionState, error) {
	if l, ok := store.(StateLister); ok {
		return l.ListStates(ctx)
	}
	ids, err := store.List(ctx)
	if err != nil {
		return nil, err
	}
	states := make(map[string]domain.SubmissionState, len(ids))
	for _, id := range ids {
		f, err := store.Load(ctx, id)
		if errors.Is(err, domain.ErrSessionNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("loading session %s: %w", id, err)
		}
		states[id] = f.State
	}
	return states, nil
}
