package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/folio/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunFormStoreContract runs a suite of tests to verify that a FormStore implementation
// adheres to the defined interface contract.
func RunFormStoreContract(t *testing.T, store FormStore) {
	ctx := context.Background()
	sessionID := "contract-test-session-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		form := domain.NewForm(sessionID)
		form.Fields[0].Value = "Jane"
		form.Fields[1].Value = "not-an-email"
		form.Fields[1].Invalid = true
		form.Fields[1].Error = domain.MsgInvalidEmail
		form.Message = domain.FormMessage{Visible: true, Kind: domain.MessageError, Text: domain.MsgSubmitFailure}

		err := store.Save(ctx, sessionID, form)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, sessionID, loaded.SessionID)
		assert.Equal(t, form.State, loaded.State)
		assert.Equal(t, form.Message, loaded.Message)
		assert.Equal(t, form.Fields, loaded.Fields)
	})

	t.Run("Stored Copy Is Isolated", func(t *testing.T) {
		form := domain.NewForm(sessionID)
		require.NoError(t, store.Save(ctx, sessionID, form))

		form.Fields[0].Value = "mutated after save"

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		assert.Empty(t, loaded.Fields[0].Value)

		loaded.Fields[0].Value = "mutated after load"
		again, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		assert.Empty(t, again.Fields[0].Value)
	})

	t.Run("Submitting Timestamp Survives", func(t *testing.T) {
		form := domain.NewForm(sessionID)
		form.State = domain.StateSubmitting
		form.SubmittingSince = time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)
		require.NoError(t, store.Save(ctx, sessionID, form))

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		assert.Equal(t, domain.StateSubmitting, loaded.State)
		assert.True(t, form.SubmittingSince.Equal(loaded.SubmittingSince))
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, sessionID, domain.NewForm(sessionID))
		require.NoError(t, err)

		err = store.Delete(ctx, sessionID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound, "Load after Delete should return ErrSessionNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := sessionID + "-1"
		id2 := sessionID + "-2"
		_ = store.Save(ctx, id1, domain.NewForm(id1))
		_ = store.Save(ctx, id2, domain.NewForm(id2))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		sessions, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, sessions, id1)
		assert.Contains(t, sessions, id2)
	})

	t.Run("List States", func(t *testing.T) {
		idle := sessionID + "-idle"
		busy := sessionID + "-busy"
		gone := sessionID + "-gone"
		require.NoError(t, store.Save(ctx, idle, domain.NewForm(idle)))
		f := domain.NewForm(busy)
		f.State = domain.StateSubmitting
		require.NoError(t, store.Save(ctx, busy, f))
		require.NoError(t, store.Save(ctx, gone, domain.NewForm(gone)))
		require.NoError(t, store.Delete(ctx, gone))

		defer func() {
			_ = store.Delete(ctx, idle)
			_ = store.Delete(ctx, busy)
		}()

		// A later save moves the session to its new state.
		f = f.Snapshot()
		f.State = domain.StateSuccess
		require.NoError(t, store.Save(ctx, busy, f))

		states, err := ListStates(ctx, store)
		require.NoError(t, err)
		assert.Equal(t, domain.StateIdle, states[idle])
		assert.Equal(t, domain.StateSuccess, states[busy])
		assert.NotContains(t, states, gone)
	})
}
