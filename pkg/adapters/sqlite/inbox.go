// Package sqlite provides the inbox submission backend: every accepted contact
// message becomes a row in a local SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/aretw0/folio/pkg/domain"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS messages (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    email TEXT NOT NULL,
    subject TEXT NOT NULL DEFAULT '',
    message TEXT NOT NULL,
    received_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_messages_received ON messages(received_at);
`

// Inbox implements ports.Submitter on top of SQLite.
type Inbox struct {
	db  *sql.DB
	now func() time.Time
}

// Open creates or opens the inbox database at path.
func Open(path string) (*Inbox, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return newInbox(db)
}

// OpenMemory creates an in-memory inbox (tests, demo runs).
func OpenMemory() (*Inbox, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("opening in-memory database: %w", err)
	}
	// Every pooled connection would otherwise get its own empty database.
	db.SetMaxOpenConns(1)
	return newInbox(db)
}

func newInbox(db *sql.DB) (*Inbox, error) {
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return &Inbox{db: db, now: time.Now}, nil
}

// Submit stores the submission. A missing ID or timestamp is filled in.
func (i *Inbox) Submit(ctx context.Context, sub domain.Submission) error {
	if sub.ID == "" {
		sub.ID = uuid.NewString()
	}
	if sub.ReceivedAt.IsZero() {
		sub.ReceivedAt = i.now()
	}

	_, err := i.db.ExecContext(ctx, `
		INSERT INTO messages (id, name, email, subject, message, received_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		sub.ID, sub.Name, sub.Email, sub.Subject, sub.Message,
		sub.ReceivedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("inserting message: %w", err)
	}
	return nil
}

// List returns the most recent messages first. limit <= 0 returns all.
func (i *Inbox) List(ctx context.Context, limit int) ([]domain.Submission, error) {
	query := "SELECT id, name, email, subject, message, received_at FROM messages ORDER BY received_at DESC"
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := i.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying messages: %w", err)
	}
	defer rows.Close()

	var out []domain.Submission
	for rows.Next() {
		var (
			sub        domain.Submission
			receivedAt string
		)
		if err := rows.Scan(&sub.ID, &sub.Name, &sub.Email, &sub.Subject, &sub.Message, &receivedAt); err != nil {
			return nil, fmt.Errorf("scanning message: %w", err)
		}
		sub.ReceivedAt, err = time.Parse(time.RFC3339Nano, receivedAt)
		if err != nil {
			return nil, fmt.Errorf("parsing received_at %q: %w", receivedAt, err)
		}
		out = append(out, sub)
	}
	return out, rows.Err()
}

// Count returns the number of stored messages.
func (i *Inbox) Count(ctx context.Context) (int, error) {
	var n int
	if err := i.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM messages").Scan(&n); err != nil {
		return 0, fmt.Errorf("counting messages: %w", err)
	}
	return n, nil
}

// Close closes the database.
func (i *Inbox) Close() error {
	return i.db.Close()
}
