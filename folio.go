package folio

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/aretw0/folio/internal/config"
	"github.com/aretw0/folio/internal/content"
	"github.com/aretw0/folio/internal/logging"
	"github.com/aretw0/folio/internal/metrics"
	"github.com/aretw0/folio/pkg/adapters/file"
	"github.com/aretw0/folio/pkg/adapters/memory"
	redisAdapter "github.com/aretw0/folio/pkg/adapters/redis"
	"github.com/aretw0/folio/pkg/adapters/sqlite"
	"github.com/aretw0/folio/pkg/adapters/webhook"
	"github.com/aretw0/folio/pkg/delivery"
	"github.com/aretw0/folio/pkg/domain"
	"github.com/aretw0/folio/pkg/form"
	"github.com/aretw0/folio/pkg/persistence/middleware"
	"github.com/aretw0/folio/pkg/ports"
	"github.com/aretw0/folio/pkg/session"
	goredis "github.com/redis/go-redis/v9"
)

// Version is the folio release, set at build time with -ldflags.
var Version = "dev"

// App holds every collaborator of a running folio instance, assembled from
// the configuration.
type App struct {
	cfg     *config.Config
	logger  *slog.Logger
	hooks   domain.LifecycleHooks
	metrics *metrics.Metrics

	content    *content.Source
	store      ports.FormStore
	submitter  ports.Submitter
	controller *form.Controller
	dispatcher *session.Dispatcher

	redis  *goredis.Client
	inbox  *sqlite.Inbox
	queue  *redisAdapter.Queue
	outbox *memory.Outbox

	checks  map[string]func(context.Context) error
	closers []func() error
}

// Option defines a functional option for configuring the App.
type Option func(*App)

// WithLogger sets the logger shared by every component.
func WithLogger(logger *slog.Logger) Option {
	return func(a *App) {
		a.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks on the controller, in
// addition to the metrics hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(a *App) {
		a.hooks = hooks
	}
}

// WithSubmitter replaces the configured submission backend.
func WithSubmitter(s ports.Submitter) Option {
	return func(a *App) {
		a.submitter = s
	}
}

// WithStore replaces the configured form session store.
func WithStore(s ports.FormStore) Option {
	return func(a *App) {
		a.store = s
	}
}

// WithContent replaces the content loaded from content.path.
func WithContent(src *content.Source) Option {
	return func(a *App) {
		a.content = src
	}
}

// WithRedisClient reuses an existing redis client instead of dialing redis.addr.
func WithRedisClient(c *goredis.Client) Option {
	return func(a *App) {
		a.redis = c
	}
}

// New assembles an App. Resources opened here are released by Close, also
// when New itself fails halfway.
func New(cfg *config.Config, opts ...Option) (app *App, err error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	a := &App{
		cfg:     cfg,
		metrics: metrics.New(),
		checks:  make(map[string]func(context.Context) error),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.logger == nil {
		a.logger = logging.NewNop()
	}
	defer func() {
		if err != nil {
			_ = a.Close()
		}
	}()

	if err := a.openContent(); err != nil {
		return nil, err
	}
	if cfg.UsesRedis() && a.redis == nil {
		a.redis = redisAdapter.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		a.closers = append(a.closers, a.redis.Close)
	}
	if a.redis != nil {
		client := a.redis
		a.checks["redis"] = func(ctx context.Context) error { return client.Ping(ctx).Err() }
	}
	if err := a.openStore(); err != nil {
		return nil, err
	}
	a.metrics.WatchSessions(func(ctx context.Context) (map[string]domain.SubmissionState, error) {
		return ports.ListStates(ctx, a.store)
	})
	if err := a.openSubmitter(); err != nil {
		return nil, err
	}

	a.controller = form.NewController(a.submitter,
		form.WithLogger(a.logger),
		form.WithLifecycleHooks(domain.MergeHooks(a.metrics.Hooks(), a.hooks)),
		form.WithSubmitTimeout(cfg.Submit.Timeout),
		form.WithMaxInputSize(cfg.Input.MaxSize),
	)

	managerOpts := []session.Option{session.WithLogger(a.logger)}
	if cfg.Redis.Lock && a.redis != nil {
		managerOpts = append(managerOpts, session.WithLocker(redisAdapter.NewLocker(a.redis, redisAdapter.DefaultPrefix)))
	}
	a.dispatcher = session.NewDispatcher(
		session.NewManager(a.store, managerOpts...),
		a.controller,
		session.WithDispatcherLogger(a.logger),
	)
	return a, nil
}

func (a *App) openContent() error {
	if a.content != nil {
		return nil
	}
	path := a.cfg.Content.Path
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) && path == config.Default().Content.Path {
		a.logger.Warn("No content file found, using built-in demo content", "path", path)
		a.content = content.Static(content.Default())
		return nil
	}
	src, err := content.NewSource(path, content.WithLogger(a.logger))
	if err != nil {
		return fmt.Errorf("loading content: %w", err)
	}
	a.content = src
	return nil
}

func (a *App) openStore() error {
	if a.store != nil {
		return nil
	}
	switch a.cfg.Store.Driver {
	case config.StoreFile:
		a.store = file.New(a.cfg.Store.Path)
	case config.StoreRedis:
		store := redisAdapter.NewFromClient(a.redis, redisAdapter.WithTTL(a.cfg.Store.TTL))
		a.checks["store"] = store.Ping
		a.store = store
	default:
		a.store = memory.NewStore()
	}

	if a.cfg.Store.EncryptionKey != "" {
		keys, err := middleware.ParseKeys(a.cfg.Store.EncryptionKey, a.cfg.Store.FallbackKeys...)
		if err != nil {
			return fmt.Errorf("store encryption: %w", err)
		}
		mw, err := middleware.NewEncryptionMiddleware(keys)
		if err != nil {
			return fmt.Errorf("store encryption: %w", err)
		}
		a.store = mw(a.store)
	}
	return nil
}

func (a *App) openSubmitter() error {
	if a.submitter != nil {
		return nil
	}

	var backends []ports.Submitter
	name := a.cfg.Submit.Backend
	switch name {
	case config.BackendSQLite:
		if dir := filepath.Dir(a.cfg.SQLite.Path); dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("creating inbox directory: %w", err)
			}
		}
		inbox, err := sqlite.Open(a.cfg.SQLite.Path)
		if err != nil {
			return fmt.Errorf("opening inbox: %w", err)
		}
		a.closers = append(a.closers, inbox.Close)
		a.inbox = inbox
		a.checks["inbox"] = func(ctx context.Context) error {
			_, err := inbox.Count(ctx)
			return err
		}
		backends = append(backends, inbox)
	case config.BackendRedis:
		a.queue = redisAdapter.NewQueue(a.redis, a.cfg.Redis.Queue)
		backends = append(backends, a.queue)
	case config.BackendWebhook:
		var opts []webhook.Option
		if a.cfg.Webhook.Token != "" {
			opts = append(opts, webhook.WithHeader("Authorization", "Bearer "+a.cfg.Webhook.Token))
		}
		backends = append(backends, delivery.Chain(webhook.New(a.cfg.Webhook.URL, opts...),
			delivery.Timeout(a.cfg.Webhook.Timeout),
		))
	}

	if name == config.BackendLog || a.cfg.Submit.AlsoLog {
		a.outbox = memory.NewOutbox(memory.WithOutboxLogger(a.logger), memory.WithLimit(100))
		backends = append(backends, a.outbox)
	}

	a.submitter = delivery.Chain(delivery.Fanout(backends...),
		delivery.Logging(a.logger, name),
	)
	return nil
}

// Config returns the configuration the App was built from.
func (a *App) Config() *config.Config { return a.cfg }

// Logger returns the shared logger.
func (a *App) Logger() *slog.Logger { return a.logger }

// Metrics returns the prometheus collectors fed by the controller.
func (a *App) Metrics() *metrics.Metrics { return a.metrics }

// Content returns the site content source.
func (a *App) Content() *content.Source { return a.content }

// Store returns the form session store.
func (a *App) Store() ports.FormStore { return a.store }

// Controller returns the form controller.
func (a *App) Controller() *form.Controller { return a.controller }

// Dispatcher returns the session dispatcher.
func (a *App) Dispatcher() *session.Dispatcher { return a.dispatcher }

// Inbox returns the sqlite inbox, or nil unless the sqlite backend is selected.
func (a *App) Inbox() *sqlite.Inbox { return a.inbox }

// Queue returns the redis submission queue, or nil unless the redis backend is selected.
func (a *App) Queue() *redisAdapter.Queue { return a.queue }

// Outbox returns the recent messages of the log backend, or nil when it is not in use.
func (a *App) Outbox() *memory.Outbox { return a.outbox }

// HealthChecks returns the dependency probes of the App by name.
func (a *App) HealthChecks() map[string]func(context.Context) error {
	out := make(map[string]func(context.Context) error, len(a.checks))
	for k, v := range a.checks {
		out[k] = v
	}
	return out
}

// Close releases every resource opened by New, in reverse order.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
