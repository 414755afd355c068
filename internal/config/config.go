// Package config loads the folio server configuration: built-in defaults,
// then an optional YAML file, then FOLIO_* environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "FOLIO_"

// DefaultPath is the config file looked up when none is given.
const DefaultPath = "folio.yaml"

// Config is the top-level folio configuration.
type Config struct {
	Server  ServerConfig  `koanf:"server" yaml:"server"`
	Content ContentConfig `koanf:"content" yaml:"content"`
	Log     LogConfig     `koanf:"log" yaml:"log"`
	Store   StoreConfig   `koanf:"store" yaml:"store"`
	Redis   RedisConfig   `koanf:"redis" yaml:"redis"`
	Submit  SubmitConfig  `koanf:"submit" yaml:"submit"`
	SQLite  SQLiteConfig  `koanf:"sqlite" yaml:"sqlite"`
	Webhook WebhookConfig `koanf:"webhook" yaml:"webhook"`
	Input   InputConfig   `koanf:"input" yaml:"input"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Addr            string        `koanf:"addr" yaml:"addr"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" yaml:"shutdown_timeout"`
	CORSOrigins     []string      `koanf:"cors_origins" yaml:"cors_origins"`
}

// ContentConfig locates the site content.
type ContentConfig struct {
	Path  string `koanf:"path" yaml:"path"`
	Watch bool   `koanf:"watch" yaml:"watch"`
}

// LogConfig configures the structured logger.
type LogConfig struct {
	Level  string `koanf:"level" yaml:"level"`
	Format string `koanf:"format" yaml:"format"`
}

// StoreConfig selects where visitor form sessions live.
type StoreConfig struct {
	Driver string        `koanf:"driver" yaml:"driver"`
	Path   string        `koanf:"path" yaml:"path"`
	TTL    time.Duration `koanf:"ttl" yaml:"ttl"`
	// EncryptionKey (base64, 32 bytes) encrypts field values at rest.
	EncryptionKey string `koanf:"encryption_key" yaml:"encryption_key"`
	// FallbackKeys still decrypt sessions saved before a key rotation.
	FallbackKeys []string `koanf:"fallback_keys" yaml:"fallback_keys"`
}

// RedisConfig is shared by the redis store, locker and queue.
type RedisConfig struct {
	Addr     string `koanf:"addr" yaml:"addr"`
	Password string `koanf:"password" yaml:"password"`
	DB       int    `koanf:"db" yaml:"db"`
	Queue    string `koanf:"queue" yaml:"queue"`
	Lock     bool   `koanf:"lock" yaml:"lock"`
}

// SubmitConfig selects the submission backend.
type SubmitConfig struct {
	Backend string        `koanf:"backend" yaml:"backend"`
	Timeout time.Duration `koanf:"timeout" yaml:"timeout"`
	// Also delivers every message to the log backend.
	AlsoLog bool `koanf:"also_log" yaml:"also_log"`
}

// SQLiteConfig locates the inbox database.
type SQLiteConfig struct {
	Path string `koanf:"path" yaml:"path"`
}

// WebhookConfig configures the webhook backend.
type WebhookConfig struct {
	URL   string `koanf:"url" yaml:"url"`
	Token string `koanf:"token" yaml:"token"`
	// Timeout bounds one webhook call, inside the overall submit timeout.
	Timeout time.Duration `koanf:"timeout" yaml:"timeout"`
}

// InputConfig bounds visitor input.
type InputConfig struct {
	MaxSize int `koanf:"max_size" yaml:"max_size"`
}

// Store drivers.
const (
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreRedis  = "redis"
)

// Submission backends.
const (
	BackendLog     = "log"
	BackendSQLite  = "sqlite"
	BackendRedis   = "redis"
	BackendWebhook = "webhook"
)

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ShutdownTimeout: 5 * time.Second,
		},
		Content: ContentConfig{Path: "content.yaml"},
		Log:     LogConfig{Level: "info", Format: "text"},
		Store:   StoreConfig{Driver: StoreMemory, Path: ".folio/sessions", TTL: 24 * time.Hour},
		Redis:   RedisConfig{Addr: "localhost:6379", Queue: "folio:submissions"},
		Submit:  SubmitConfig{Backend: BackendLog, Timeout: 10 * time.Second},
		Webhook: WebhookConfig{Timeout: 5 * time.Second},
		SQLite:  SQLiteConfig{Path: ".folio/inbox.db"},
		Input:   InputConfig{MaxSize: 4096},
	}
}

// envKey maps FOLIO_SERVER_SHUTDOWN_TIMEOUT to server.shutdown_timeout: the
// first underscore separates the section, the rest belong to the key.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.Replace(key, "_", ".", 1)
}

// Load reads configuration from path (if it exists) and the environment.
// An explicitly requested file that is missing is an error; the default path
// is optional.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}

	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !errors.Is(err, os.ErrNotExist) || explicit {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	return cfg, nil
}

var (
	validStores   = map[string]bool{StoreMemory: true, StoreFile: true, StoreRedis: true}
	validBackends = map[string]bool{BackendLog: true, BackendSQLite: true, BackendRedis: true, BackendWebhook: true}
	validLevels   = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	validFormats  = map[string]bool{"text": true, "json": true}
)

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	if !validStores[c.Store.Driver] {
		return fmt.Errorf("invalid store.driver %q: must be one of memory, file, redis", c.Store.Driver)
	}
	if !validBackends[c.Submit.Backend] {
		return fmt.Errorf("invalid submit.backend %q: must be one of log, sqlite, redis, webhook", c.Submit.Backend)
	}
	if c.Submit.Backend == BackendWebhook && c.Webhook.URL == "" {
		return fmt.Errorf("webhook.url is required for the webhook backend")
	}
	if c.Submit.Timeout < 0 {
		return fmt.Errorf("submit.timeout must be non-negative")
	}
	if c.Webhook.Timeout < 0 {
		return fmt.Errorf("webhook.timeout must be non-negative")
	}
	if !validLevels[strings.ToLower(c.Log.Level)] {
		return fmt.Errorf("invalid log.level %q", c.Log.Level)
	}
	if !validFormats[c.Log.Format] {
		return fmt.Errorf("invalid log.format %q: must be text or json", c.Log.Format)
	}
	if c.Input.MaxSize < 0 {
		return fmt.Errorf("input.max_size must be non-negative")
	}
	return nil
}

// UsesRedis reports whether any component needs a redis client.
func (c *Config) UsesRedis() bool {
	return c.Store.Driver == StoreRedis || c.Submit.Backend == BackendRedis || c.Redis.Lock
}
