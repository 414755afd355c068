package memory

import (
	"context"
	"sync"

	"github.com/aretw0/folio/pkg/domain"
)

// Store implements ports.FormStore and ports.StateLister in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]*domain.Form
	mu   sync.RWMutex
}

// NewStore returns an empty store. Forms live as long as the process.
func NewStore() *Store {
	return &Store{
		data: make(map[string]*domain.Form),
	}
}

// Save keeps a snapshot of the form; later edits to form do not leak in.
func (s *Store) Save(ctx context.Context, sessionID string, form *domain.Form) error {
	copied := form.Snapshot()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[sessionID] = copied
	return nil
}

// Load returns a snapshot of the stored form.
func (s *Store) Load(ctx context.Context, sessionID string) (*domain.Form, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	form, ok := s.data[sessionID]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}

	return form.Snapshot(), nil
}

// Delete forgets the session. Unknown ids are not an error.
func (s *Store) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, sessionID)
	return nil
}

// List returns the ids of every stored session, in no particular order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := make([]string, 0, len(s.data))
	for id := range s.data {
		sessions = append(sessions, id)
	}
	return sessions, nil
}

// ListStates returns the submission state of every session.
func (s *Store) ListStates(ctx context.Context) (map[string]domain.SubmissionState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	states := make(map[string]domain.SubmissionState, len(s.data))
	for id, form := range s.data {
		states[id] = form.State
	}
	return states, nil
}
