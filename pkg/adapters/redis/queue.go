package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aretw0/folio/pkg/domain"
	"github.com/google/uuid"
	backend "github.com/redis/go-redis/v9"
)

// Queue is a submission backend that pushes each message as JSON onto a Redis
// list, for a separate worker to mail out.
type Queue struct {
	client *backend.Client
	key    string
}

// NewQueue creates a queue writing to the given list key.
func NewQueue(client *backend.Client, key string) *Queue {
	if key == "" {
		key = DefaultPrefix + "submissions"
	}
	return &Queue{client: client, key: key}
}

// Submit appends the submission to the list.
func (q *Queue) Submit(ctx context.Context, sub domain.Submission) error {
	if sub.ID == "" {
		sub.ID = uuid.NewString()
	}
	data, err := json.Marshal(sub)
	if err != nil {
		return fmt.Errorf("failed to marshal submission: %w", err)
	}
	if err := q.client.RPush(ctx, q.key, data).Err(); err != nil {
		return fmt.Errorf("failed to enqueue submission: %w", err)
	}
	return nil
}

// Pending returns the queued submissions, oldest first, without removing them.
func (q *Queue) Pending(ctx context.Context) ([]domain.Submission, error) {
	raw, err := q.client.LRange(ctx, q.key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read queue: %w", err)
	}
	out := make([]domain.Submission, 0, len(raw))
	for _, item := range raw {
		var sub domain.Submission
		if err := json.Unmarshal([]byte(item), &sub); err != nil {
			return nil, fmt.Errorf("failed to unmarshal submission: %w", err)
		}
		out = append(out, sub)
	}
	return out, nil
}
