package content

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/aretw0/folio/internal/logging"
	"github.com/fsnotify/fsnotify"
)

// Source holds the current site content and reloads it on demand.
type Source struct {
	path     string
	logger   *slog.Logger
	debounce time.Duration

	mu   sync.RWMutex
	site *Site
}

// SourceOption configures a Source.
type SourceOption func(*Source)

// WithLogger sets the source logger.
func WithLogger(l *slog.Logger) SourceOption {
	return func(s *Source) { s.logger = l }
}

// WithDebounce groups bursts of file events (editors write in several steps).
func WithDebounce(d time.Duration) SourceOption {
	return func(s *Source) { s.debounce = d }
}

// NewSource loads the content file once.
func NewSource(path string, opts ...SourceOption) (*Source, error) {
	s := &Source{path: path, logger: logging.NewNop(), debounce: 100 * time.Millisecond}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Static wraps already loaded content (tests, embedded defaults).
func Static(site *Site) *Source {
	return &Source{site: site, logger: logging.NewNop()}
}

// Site returns the current content.
func (s *Source) Site() *Site {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.site
}

// Path returns the watched file, or "" for static content.
func (s *Source) Path() string { return s.path }

// Reload re-reads the file. On error the previous content stays in place.
func (s *Source) Reload() error {
	site, err := Load(s.path)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.site = site
	s.mu.Unlock()
	return nil
}

// Watch reloads the content whenever the file changes and emits the file name
// on the returned channel after each successful reload. The channel is closed
// when ctx is done.
func (s *Source) Watch(ctx context.Context) (<-chan string, error) {
	if s.path == "" {
		return nil, fmt.Errorf("static content cannot be watched")
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	// Watch the directory: editors often replace the file through a rename.
	if err := w.Add(filepath.Dir(s.path)); err != nil {
		w.Close()
		return nil, fmt.Errorf("watching %s: %w", s.path, err)
	}

	target := filepath.Clean(s.path)
	out := make(chan string, 1)
	go func() {
		defer close(out)
		defer w.Close()

		var timer *time.Timer
		var fire <-chan time.Time
		for {
			select {
			case <-ctx.Done():
				if timer != nil {
					timer.Stop()
				}
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != target || ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				if timer == nil {
					timer = time.NewTimer(s.debounce)
				} else {
					timer.Reset(s.debounce)
				}
				fire = timer.C
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				s.logger.Warn("Content watcher error", "err", err)
			case <-fire:
				fire = nil
				if err := s.Reload(); err != nil {
					s.logger.Error("Content reload failed, keeping previous content", "path", s.path, "err", err)
					continue
				}
				s.logger.Info("Content reloaded", "path", s.path)
				select {
				case out <- filepath.Base(s.path):
				default:
				}
			}
		}
	}()
	return out, nil
}
