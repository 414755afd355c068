package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/aretw0/folio/pkg/adapters/sqlite"
	"github.com/aretw0/folio/pkg/domain"
	"github.com/aretw0/folio/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ ports.Submitter = (*sqlite.Inbox)(nil)

func TestInbox_SubmitAndList(t *testing.T) {
	inbox, err := sqlite.OpenMemory()
	require.NoError(t, err)
	defer inbox.Close()
	ctx := context.Background()

	first := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, inbox.Submit(ctx, domain.Submission{
		Name: "Jane", Email: "jane@x.com", Subject: "Hi", Message: "Hello there!", ReceivedAt: first,
	}))
	require.NoError(t, inbox.Submit(ctx, domain.Submission{
		ID: "second", Name: "John", Email: "john@x.com", Message: "Another message", ReceivedAt: first.Add(time.Hour),
	}))

	msgs, err := inbox.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, msgs, 2)

	assert.Equal(t, "second", msgs[0].ID)
	assert.Equal(t, "Jane", msgs[1].Name)
	assert.NotEmpty(t, msgs[1].ID)
	assert.True(t, first.Equal(msgs[1].ReceivedAt))

	limited, err := inbox.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, "second", limited[0].ID)

	n, err := inbox.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestInbox_DuplicateIDFails(t *testing.T) {
	inbox, err := sqlite.OpenMemory()
	require.NoError(t, err)
	defer inbox.Close()
	ctx := context.Background()

	sub := domain.Submission{ID: "dup", Name: "Jane", Email: "jane@x.com", Message: "Hello there!"}
	require.NoError(t, inbox.Submit(ctx, sub))
	assert.ErrorContains(t, inbox.Submit(ctx, sub), "inserting message")
}

func TestInbox_OpenFilePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "inbox.db")
	ctx := context.Background()

	inbox, err := sqlite.Open(path)
	require.NoError(t, err)
	require.NoError(t, inbox.Submit(ctx, domain.Submission{Name: "Jane", Email: "jane@x.com", Message: "Hello there!"}))
	require.NoError(t, inbox.Close())

	reopened, err := sqlite.Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	n, err := reopened.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
