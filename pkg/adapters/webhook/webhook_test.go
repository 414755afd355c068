package webhook_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aretw0/folio/pkg/adapters/webhook"
	"github.com/aretw0/folio/pkg/domain"
	"github.com/aretw0/folio/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ ports.Submitter = (*webhook.Submitter)(nil)

func TestWebhook_PostsJSON(t *testing.T) {
	var got domain.Submission
	var headers http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		headers = r.Header.Clone()
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	s := webhook.New(srv.URL, webhook.WithHeader("Authorization", "Bearer t0ken"))
	err := s.Submit(context.Background(), domain.Submission{Name: "Jane", Email: "jane@x.com", Message: "Hello there!"})
	require.NoError(t, err)

	assert.Equal(t, "Jane", got.Name)
	assert.NotEmpty(t, got.ID)
	assert.Equal(t, got.ID, headers.Get("Idempotency-Key"))
	assert.Equal(t, "application/json", headers.Get("Content-Type"))
	assert.Equal(t, "Bearer t0ken", headers.Get("Authorization"))
}

func TestWebhook_Non2xxFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer srv.Close()

	err := webhook.New(srv.URL).Submit(context.Background(), domain.Submission{})
	assert.ErrorContains(t, err, "502")
}

func TestWebhook_RespectsContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	err := webhook.New(srv.URL).Submit(ctx, domain.Submission{})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
