// Package contactapi is a client of the folio contact endpoint.
package contactapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/aretw0/folio/pkg/domain"
	"github.com/aretw0/folio/pkg/form"
)

const maxBodyBytes = 64 << 10

// request mirrors the ContactRequest schema of the server.
type request struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// Client delivers submissions to a folio server's /api/contact. It is
// the submission backend of the browser client.
type Client struct {
	url    string
	client *http.Client
}

// New targets the folio server at baseURL.
func New(baseURL string, client *http.Client) *Client {
	if client == nil {
		client = http.DefaultClient
	}
	return &Client{url: strings.TrimRight(baseURL, "/") + "/api/contact", client: client}
}

// Submit posts the message. Field errors reported by the server come back as
// form.FieldErrors.
func (c *Client) Submit(ctx context.Context, sub domain.Submission) error {
	body, err := json.Marshal(request{
		Name:    sub.Name,
		Email:   sub.Email,
		Subject: sub.Subject,
		Message: sub.Message,
	})
	if err != nil {
		return fmt.Errorf("encoding contact request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building contact request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("contact request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnprocessableEntity:
		var payload struct {
			Errors map[string]string `json:"errors"`
		}
		if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&payload); err != nil {
			return fmt.Errorf("contact rejected: %s", resp.Status)
		}
		errs := make(form.FieldErrors, len(payload.Errors))
		for k, v := range payload.Errors {
			errs[domain.FieldID(k)] = v
		}
		return errs
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return fmt.Errorf("contact endpoint returned %s", resp.Status)
	}
	return nil
}
