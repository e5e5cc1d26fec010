// Package config handles YAML configuration loading, environment variable
// expansion, and structural validation for megachat.
package config

import "time"

// Config is the top-level configuration structure.
type Config struct {
	// Version is the config format version. Currently only "1" is supported.
	Version string `yaml:"version"`

	// User decorates locally authored messages.
	User UserConfig `yaml:"user,omitempty"`

	// Conversation tunes the conversation store.
	Conversation ConversationConfig `yaml:"conversation,omitempty"`

	// Storage selects the persistence backend.
	Storage StorageConfig `yaml:"storage,omitempty"`

	// Responder configures the reply-generation backend. When absent,
	// sends produce no assistant replies.
	Responder *ResponderConfig `yaml:"responder,omitempty"`

	// Retention schedules the expired-message sweep.
	Retention RetentionConfig `yaml:"retention,omitempty"`
}

// UserConfig identifies the local user.
type UserConfig struct {
	Name   string `yaml:"name"`
	Avatar string `yaml:"avatar,omitempty"`
}

// ConversationConfig tunes the message lifecycle.
type ConversationConfig struct {
	// DeliveredDelay and ReadDelay control the deferred status
	// progression of user messages. Zero means the built-in defaults.
	DeliveredDelay time.Duration `yaml:"delivered_delay,omitempty"`
	ReadDelay      time.Duration `yaml:"read_delay,omitempty"`

	// HistoryLimit caps the conversation tail handed to the responder.
	HistoryLimit int `yaml:"history_limit,omitempty"`
}

// Storage drivers.
const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
	DriverPebble = "pebble"
)

// StorageConfig selects and locates the persistence backend.
type StorageConfig struct {
	// Driver is one of memory, sqlite, pebble. Defaults to sqlite.
	Driver string `yaml:"driver,omitempty"`

	// Path locates the database file (sqlite) or directory (pebble).
	Path string `yaml:"path,omitempty"`
}

// ResponderConfig configures the OpenAI-compatible reply backend.
type ResponderConfig struct {
	BaseURL   string        `yaml:"base_url,omitempty"`
	APIKey    string        `yaml:"api_key"`
	Model     string        `yaml:"model,omitempty"`
	MaxTokens int           `yaml:"max_tokens,omitempty"`
	Timeout   time.Duration `yaml:"timeout,omitempty"`
}

// RetentionConfig schedules the expired-message sweep.
type RetentionConfig struct {
	Enabled bool `yaml:"enabled,omitempty"`

	// Schedule is a five-field cron expression. Defaults to every minute.
	Schedule string `yaml:"schedule,omitempty"`
}
