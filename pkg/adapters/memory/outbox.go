package memory

import (
	"context"
	"log/slog"
	"sync"

	"github.com/aretw0/folio/internal/logging"
	"github.com/aretw0/folio/pkg/domain"
	"github.com/google/uuid"
)

// Outbox is a submission backend that keeps messages in memory and logs them.
// It is the "log" backend of the server and the default for local runs.
type Outbox struct {
	mu       sync.RWMutex
	messages []domain.Submission
	logger   *slog.Logger
	limit    int
}

// OutboxOption configures the Outbox.
type OutboxOption func(*Outbox)

// WithOutboxLogger logs every accepted submission.
func WithOutboxLogger(logger *slog.Logger) OutboxOption {
	return func(o *Outbox) {
		o.logger = logger
	}
}

// WithLimit keeps only the most recent n messages (0 keeps all).
func WithLimit(n int) OutboxOption {
	return func(o *Outbox) {
		o.limit = n
	}
}

// NewOutbox creates an empty outbox.
func NewOutbox(opts ...OutboxOption) *Outbox {
	o := &Outbox{logger: logging.NewNop()}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Submit stores the submission.
func (o *Outbox) Submit(ctx context.Context, sub domain.Submission) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if sub.ID == "" {
		sub.ID = uuid.NewString()
	}

	o.mu.Lock()
	o.messages = append(o.messages, sub)
	if o.limit > 0 && len(o.messages) > o.limit {
		o.messages = o.messages[len(o.messages)-o.limit:]
	}
	o.mu.Unlock()

	o.logger.Info("Form submitted",
		"id", sub.ID,
		"name", sub.Name,
		"email", sub.Email,
		"subject", sub.Subject,
		"message_length", len(sub.Message),
	)
	return nil
}

// Messages returns a copy of the stored submissions, oldest first.
func (o *Outbox) Messages() []domain.Submission {
	o.mu.RLock()
	defer o.mu.RUnlock()
	out := make([]domain.Submission, len(o.messages))
	copy(out, o.messages)
	return out
}
