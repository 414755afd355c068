package ports_test

import (
	"context"
	"testing"

	"github.com/aretw0/folio/pkg/domain"
	"github.com/aretw0/folio/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockStore is a naive in-memory FormStore used to check the contract suite itself.
type MockStore struct {
	data map[string]*domain.Form
}

func NewMockStore() *MockStore {
	return &MockStore{data: make(map[string]*domain.Form)}
}

func (m *MockStore) Save(ctx context.Context, sessionID string, form *domain.Form) error {
	m.data[sessionID] = form.Snapshot()
	return nil
}

func (m *MockStore) Load(ctx context.Context, sessionID string) (*domain.Form, error) {
	form, ok := m.data[sessionID]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return form.Snapshot(), nil
}

func (m *MockStore) Delete(ctx context.Context, sessionID string) error {
	delete(m.data, sessionID)
	return nil
}

func (m *MockStore) List(ctx context.Context) ([]string, error) {
	ids := make([]string, 0, len(m.data))
	for id := range m.data {
		ids = append(ids, id)
	}
	return ids, nil
}

func TestFormStore_Contract(t *testing.T) {
	ports.RunFormStoreContract(t, NewMockStore())
}

// indexedStore answers ListStates from a fixed index.
type indexedStore struct {
	*MockStore
	index map[string]domain.SubmissionState
}

func (s indexedStore) ListStates(ctx context.Context) (map[string]domain.SubmissionState, error) {
	return s.index, nil
}

func TestListStates_PrefersIndex(t *testing.T) {
	store := indexedStore{MockStore: NewMockStore(), index: map[string]domain.SubmissionState{"a": domain.StateSuccess}}
	require.NoError(t, store.Save(context.Background(), "b", domain.NewForm("b")))

	states, err := ports.ListStates(context.Background(), store)
	require.NoError(t, err)
	assert.Equal(t, map[string]domain.SubmissionState{"a": domain.StateSuccess}, states)
}

func TestSubmitterFunc(t *testing.T) {
	var got domain.Submission
	var s ports.Submitter = ports.SubmitterFunc(func(ctx context.Context, sub domain.Submission) error {
		got = sub
		return nil
	})

	err := s.Submit(context.Background(), domain.Submission{Name: "Jane"})
	assert.NoError(t, err)
	assert.Equal(t, "Jane", got.Name)
}
