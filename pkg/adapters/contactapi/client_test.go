package contactapi_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aretw0/folio/pkg/adapters/contactapi"
	"github.com/aretw0/folio/pkg/domain"
	"github.com/aretw0/folio/pkg/form"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_SendsOnlyContactFields(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/contact", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	err := contactapi.New(srv.URL, srv.Client()).Submit(context.Background(), domain.Submission{
		ID: "x", Name: "Jane", Email: "jane@x.com", Subject: "Hi", Message: "hello there",
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"name": "Jane", "email": "jane@x.com", "subject": "Hi", "message": "hello there",
	}, got)
}

func TestClient_FieldErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"errors":{"email":"Please enter a valid email address"}}`))
	}))
	defer srv.Close()

	err := contactapi.New(srv.URL, nil).Submit(context.Background(), domain.Submission{})
	var fe form.FieldErrors
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, form.FieldErrors{domain.FieldEmail: domain.MsgInvalidEmail}, fe)
}

func TestClient_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	err := contactapi.New(srv.URL, nil).Submit(context.Background(), domain.Submission{})
	assert.ErrorContains(t, err, "500")
}
