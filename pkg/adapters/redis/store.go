package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aretw0/folio/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// DefaultPrefix namespaces every key written by the folio adapters.
const DefaultPrefix = "folio:"

// Store implements ports.FormStore using Redis. Next to every form it keeps
// the session's submission state in a hash, so ListStates answers without
// decoding forms.
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

// Option configures the Store.
type Option func(*Store)

// WithTTL sets the expiration for sessions.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix for sessions.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// NewClient opens a go-redis client for the given address.
func NewClient(address, password string, db int) *backend.Client {
	return backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
}

// New creates a new Redis store with options.
func New(address, password string, db int, opts ...Option) *Store {
	return NewFromClient(NewClient(address, password, db), opts...)
}

// NewFromClient creates a new Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: DefaultPrefix + "session:",
	}

	for _, opt := range opts {
		opt(store)
	}

	return store
}

func (s *Store) key(sessionID string) string {
	return s.prefix + sessionID
}

func (s *Store) indexKey() string {
	return s.prefix + "index"
}

func (s *Store) stateKey() string {
	return s.prefix + "state"
}

// Save persists the form to Redis.
func (s *Store) Save(ctx context.Context, sessionID string, form *domain.Form) error {
	data, err := json.Marshal(form)
	if err != nil {
		return fmt.Errorf("failed to marshal form: %w", err)
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, s.key(sessionID), data, s.ttl)

	// Index score is the expiry; forms without TTL never leave the index on their own.
	score := float64(time.Now().Add(s.ttl).Unix())
	if s.ttl == 0 {
		score = 4102444800 // 2100-01-01
	}
	pipe.ZAdd(ctx, s.indexKey(), backend.Z{
		Score:  score,
		Member: sessionID,
	})
	pipe.HSet(ctx, s.stateKey(), sessionID, string(form.State))

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}
	return nil
}

// Load retrieves the form from Redis.
func (s *Store) Load(ctx context.Context, sessionID string) (*domain.Form, error) {
	val, err := s.client.Get(ctx, s.key(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}

	var form domain.Form
	if err := json.Unmarshal(val, &form); err != nil {
		return nil, fmt.Errorf("failed to unmarshal form: %w", err)
	}
	return &form, nil
}

// Delete removes the session.
func (s *Store) Delete(ctx context.Context, sessionID string) error {
	pipe := s.client.Pipeline()
	pipe.Del(ctx, s.key(sessionID))
	pipe.ZRem(ctx, s.indexKey(), sessionID)
	pipe.HDel(ctx, s.stateKey(), sessionID)

	_, err := pipe.Exec(ctx)
	return err
}

// List returns the live sessions, pruning expired entries from the index and
// the state hash first.
func (s *Store) List(ctx context.Context) ([]string, error) {
	now := fmt.Sprintf("%d", time.Now().Unix())
	expired, err := s.client.ZRangeByScore(ctx, s.indexKey(), &backend.ZRangeBy{Min: "-inf", Max: now}).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read expired sessions: %w", err)
	}
	if len(expired) > 0 {
		pipe := s.client.Pipeline()
		pipe.ZRemRangeByScore(ctx, s.indexKey(), "-inf", now)
		pipe.HDel(ctx, s.stateKey(), expired...)
		if _, err := pipe.Exec(ctx); err != nil {
			return nil, fmt.Errorf("failed to prune expired sessions: %w", err)
		}
	}

	sessions, err := s.client.ZRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	return sessions, nil
}

// ListStates returns the submission state of every live session. A session
// missing from the state hash, written before the hash existed, is loaded.
func (s *Store) ListStates(ctx context.Context) (map[string]domain.SubmissionState, error) {
	ids, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	states := make(map[string]domain.SubmissionState, len(ids))
	if len(ids) == 0 {
		return states, nil
	}

	vals, err := s.client.HMGet(ctx, s.stateKey(), ids...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read session states: %w", err)
	}
	for i, id := range ids {
		if v, ok := vals[i].(string); ok {
			states[id] = domain.SubmissionState(v)
			continue
		}
		form, err := s.Load(ctx, id)
		if errors.Is(err, domain.ErrSessionNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		states[id] = form.State
	}
	return states, nil
}

// Ping checks connectivity (health endpoint).
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the redis client.
func (s *Store) Close() error {
	return s.client.Close()
}
