// Package webhook delivers contact submissions to an HTTP endpoint as JSON.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/aretw0/folio/pkg/domain"
	"github.com/google/uuid"
)

// Submitter posts every submission to URL. Any non-2xx answer is a failure.
type Submitter struct {
	url     string
	client  *http.Client
	headers map[string]string
}

// Option configures the Submitter.
type Option func(*Submitter)

// WithHTTPClient replaces the default client (10s timeout).
func WithHTTPClient(c *http.Client) Option {
	return func(s *Submitter) {
		s.client = c
	}
}

// WithHeader adds a header to every request, e.g. an Authorization token.
func WithHeader(key, value string) Option {
	return func(s *Submitter) {
		s.headers[key] = value
	}
}

// New creates a webhook submitter.
func New(url string, opts ...Option) *Submitter {
	s := &Submitter{
		url:     url,
		client:  &http.Client{Timeout: 10 * time.Second},
		headers: make(map[string]string),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit posts the submission.
func (s *Submitter) Submit(ctx context.Context, sub domain.Submission) error {
	if sub.ID == "" {
		sub.ID = uuid.NewString()
	}
	body, err := json.Marshal(sub)
	if err != nil {
		return fmt.Errorf("failed to marshal submission: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", sub.ID)
	for k, v := range s.headers {
		req.Header.Set(k, v)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook request failed: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("webhook returned %s", resp.Status)
	}
	return nil
}
