package session_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/folio/pkg/domain"
	"github.com/aretw0/folio/pkg/ports"
	"github.com/aretw0/folio/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// SlowStore simulates latency to provoke race conditions if locking is missing.
type SlowStore struct {
	data map[string]*domain.Form
	mu   sync.Mutex
}

func (s *SlowStore) Save(ctx context.Context, sessionID string, form *domain.Form) error {
	time.Sleep(5 * time.Millisecond) // Simulate IO
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.data == nil {
		s.data = make(map[string]*domain.Form)
	}
	s.data[sessionID] = form.Snapshot()
	return nil
}

func (s *SlowStore) Load(ctx context.Context, sessionID string) (*domain.Form, error) {
	time.Sleep(5 * time.Millisecond) // Simulate IO
	s.mu.Lock()
	defer s.mu.Unlock()

	if form, ok := s.data[sessionID]; ok {
		return form.Snapshot(), nil
	}
	return nil, domain.ErrSessionNotFound
}

func (s *SlowStore) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, sessionID)
	return nil
}

func (s *SlowStore) List(ctx context.Context) ([]string, error) {
	return nil, nil
}

func TestManager_UpdateSerializes(t *testing.T) {
	store := &SlowStore{}
	manager := session.NewManager(store)
	ctx := context.Background()
	id := "race-test"

	// Read-modify-write appends one character per goroutine; a lost update
	// would leave the final value shorter than the number of writers.
	var wg sync.WaitGroup
	writers := 10
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := manager.Update(ctx, id, func(ctx context.Context, f *domain.Form) (*domain.Form, error) {
				next := f.Snapshot()
				next.Fields[0].Value += "x"
				return next, nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	form, err := store.Load(ctx, id)
	require.NoError(t, err)
	assert.Len(t, form.Fields[0].Value, writers)
}

func TestManager_UpdateStartsSessionOnce(t *testing.T) {
	store := &SlowStore{}
	manager := session.NewManager(store)
	ctx := context.Background()
	id := "atomic-init"

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			before, after, err := manager.Update(ctx, id, func(ctx context.Context, f *domain.Form) (*domain.Form, error) {
				return f, nil
			})
			assert.NoError(t, err)
			assert.Same(t, before, after)
		}()
	}
	wg.Wait()

	form, err := store.Load(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, form.SessionID)
	assert.Equal(t, domain.StateIdle, form.State)
}

func TestManager_UpdateErrorDoesNotSave(t *testing.T) {
	store := &SlowStore{}
	manager := session.NewManager(store)
	ctx := context.Background()

	boom := errors.New("boom")
	before, after, err := manager.Update(ctx, "s", func(ctx context.Context, f *domain.Form) (*domain.Form, error) {
		next := f.Snapshot()
		next.Fields[0].Value = "never saved"
		return next, boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Same(t, before, after)

	form, err := store.Load(ctx, "s")
	require.NoError(t, err)
	assert.Empty(t, form.Fields[0].Value)
}

// countingLocker records lock usage.
type countingLocker struct {
	mu       sync.Mutex
	locks    int
	unlocks  int
	ttl      time.Duration
	failWith error
}

func (l *countingLocker) Lock(ctx context.Context, key string, ttl time.Duration) (ports.UnlockFunc, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.failWith != nil {
		return nil, l.failWith
	}
	l.locks++
	l.ttl = ttl
	return func(ctx context.Context) error {
		l.mu.Lock()
		defer l.mu.Unlock()
		l.unlocks++
		return nil
	}, nil
}

func TestManager_DistributedLocker(t *testing.T) {
	locker := &countingLocker{}
	manager := session.NewManager(&SlowStore{}, session.WithLocker(locker), session.WithLockTTL(3*time.Second))
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, _, err := manager.Update(ctx, "s", func(ctx context.Context, f *domain.Form) (*domain.Form, error) {
			return f, nil
		})
		require.NoError(t, err)
	}

	assert.Equal(t, 2, locker.locks)
	assert.Equal(t, 2, locker.unlocks)
	assert.Equal(t, 3*time.Second, locker.ttl)
}

func TestManager_DistributedLockerFailure(t *testing.T) {
	locker := &countingLocker{failWith: errors.New("redis unavailable")}
	manager := session.NewManager(&SlowStore{}, session.WithLocker(locker))

	_, _, err := manager.Update(context.Background(), "s", func(ctx context.Context, f *domain.Form) (*domain.Form, error) {
		return f, nil
	})
	assert.ErrorContains(t, err, "failed to acquire distributed lock")
}
