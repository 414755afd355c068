package http

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aretw0/folio/pkg/adapters/contactapi"
	"github.com/aretw0/folio/pkg/adapters/memory"
	"github.com/aretw0/folio/pkg/domain"
	"github.com/aretw0/folio/pkg/form"
	"github.com/aretw0/folio/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContactClient_AgainstServer(t *testing.T) {
	box := memory.NewOutbox()
	_, h := newTestServer(t, box)
	ts := httptest.NewServer(h)
	defer ts.Close()

	client := contactapi.New(ts.URL+"/", ts.Client())
	ctx := context.Background()

	err := client.Submit(ctx, domain.Submission{
		ID:         "ignored",
		Name:       "Jane",
		Email:      "jane@x.com",
		Subject:    "Hi",
		Message:    "long enough text",
		ReceivedAt: time.Now(),
	})
	require.NoError(t, err)
	require.Len(t, box.Messages(), 1)

	err = client.Submit(ctx, domain.Submission{Name: "Jane", Email: "jane", Subject: "Hi", Message: "long enough text"})
	var fe form.FieldErrors
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, domain.MsgInvalidEmail, fe[domain.FieldEmail])
}

func TestContactClient_BackendDown(t *testing.T) {
	_, h := newTestServer(t, ports.SubmitterFunc(func(ctx context.Context, sub domain.Submission) error {
		return errors.New("down")
	}))
	ts := httptest.NewServer(h)
	defer ts.Close()

	err := contactapi.New(ts.URL, nil).Submit(context.Background(), domain.Submission{
		Name: "Jane", Email: "jane@x.com", Subject: "Hi", Message: "long enough text",
	})
	assert.ErrorContains(t, err, "502")
}
