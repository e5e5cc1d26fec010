// Package app wires configuration, storage, the reply backend, the
// conversation store, and the retention scheduler into a running
// application.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/megachat/megachat/internal/config"
	"github.com/megachat/megachat/internal/conversation"
	"github.com/megachat/megachat/internal/cron"
	"github.com/megachat/megachat/internal/persist"
	"github.com/megachat/megachat/internal/responder"
	"github.com/megachat/megachat/internal/retention"
	pebblestore "github.com/megachat/megachat/modules/persist/pebble"
	sqlitestore "github.com/megachat/megachat/modules/persist/sqlite"
	"github.com/megachat/megachat/modules/responder/openai"
)

// DefaultConversationID names the conversation opened when none is given.
const DefaultConversationID = "default"

// Params configures New.
type Params struct {
	// ConfigPath is an explicit path to the YAML configuration file.
	// If empty, ResolveConfigPath is called automatically.
	ConfigPath string

	// ConversationID selects which conversation to open. Defaults to
	// DefaultConversationID.
	ConversationID string

	// UserName overrides the configured display name when non-empty.
	UserName string

	// LogLevel sets the minimum log level. Defaults to slog.LevelInfo.
	LogLevel slog.Level

	// Notify receives store events, typically to redraw a UI.
	Notify func(conversation.Event)
}

// App is a fully wired application: one open conversation plus its
// supporting services.
type App struct {
	Config *config.Config
	Store  *conversation.Store
	Logger *slog.Logger

	sessionID string
	scheduler *cron.Scheduler
	closers   []io.Closer
}

// New loads configuration and brings up storage, the reply backend, the
// conversation store, and (when enabled) the retention sweep. Call Close
// when done.
func New(params Params) (*App, error) {
	cfgPath := params.ConfigPath
	if cfgPath == "" {
		resolved, err := ResolveConfigPath()
		if err != nil {
			return nil, err
		}
		cfgPath = resolved
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: params.LogLevel,
	}))

	a := &App{
		Config:    cfg,
		Logger:    logger,
		sessionID: uuid.NewString(),
	}

	adapter, err := a.openStorage(cfg.Storage)
	if err != nil {
		return nil, err
	}

	var resp responder.Responder
	if cfg.Responder != nil {
		resp, err = openai.New(openai.Config{
			BaseURL:   cfg.Responder.BaseURL,
			APIKey:    cfg.Responder.APIKey,
			Model:     cfg.Responder.Model,
			MaxTokens: cfg.Responder.MaxTokens,
			Timeout:   cfg.Responder.Timeout,
		})
		if err != nil {
			a.closeAll()
			return nil, err
		}
	}

	conversationID := params.ConversationID
	if conversationID == "" {
		conversationID = DefaultConversationID
	}

	userName := cfg.User.Name
	if params.UserName != "" {
		userName = params.UserName
	}

	a.Store = conversation.New(conversationID, adapter, resp, logger, conversation.Options{
		UserName:       userName,
		UserAvatar:     cfg.User.Avatar,
		DeliveredDelay: cfg.Conversation.DeliveredDelay,
		ReadDelay:      cfg.Conversation.ReadDelay,
		HistoryLimit:   cfg.Conversation.HistoryLimit,
		Notify:         params.Notify,
	})

	if cfg.Retention.Enabled {
		a.scheduler = cron.NewScheduler(logger)
		job := &retention.SweepJob{
			Stores:       []retention.Purger{a.Store},
			Logger:       logger,
			ScheduleExpr: cfg.Retention.Schedule,
		}
		if err := a.scheduler.RegisterJob(job); err != nil {
			a.closeAll()
			return nil, err
		}
		if err := a.scheduler.Start(); err != nil {
			a.closeAll()
			return nil, err
		}
	}

	logger.Info("application started",
		"conversation", conversationID,
		"storage", storageDriver(cfg.Storage),
		"responder", cfg.Responder != nil,
	)
	return a, nil
}

// SessionID returns a unique identifier for this run, used as the reaction
// actor ID for the local user.
func (a *App) SessionID() string {
	return a.sessionID
}

// Close stops the scheduler, the conversation store, and storage, in that
// order.
func (a *App) Close() error {
	if a.scheduler != nil {
		_ = a.scheduler.Stop(context.Background())
	}
	if a.Store != nil {
		a.Store.Close()
	}
	return a.closeAll()
}

func (a *App) closeAll() error {
	var firstErr error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	a.closers = nil
	return firstErr
}

// openStorage opens the persistence backend selected by the configuration.
// An empty driver defaults to SQLite under the data directory.
func (a *App) openStorage(cfg config.StorageConfig) (persist.Adapter, error) {
	switch storageDriver(cfg) {
	case config.DriverMemory:
		return persist.NewMemoryAdapter(), nil

	case config.DriverSQLite:
		path := cfg.Path
		if path == "" {
			path = filepath.Join(DefaultDataDir(), "megachat.db")
		}
		adapter, err := sqlitestore.Open(path)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, adapter)
		return adapter, nil

	case config.DriverPebble:
		adapter, err := pebblestore.Open(cfg.Path)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, adapter)
		return adapter, nil

	default:
		return nil, fmt.Errorf("app: unknown storage driver %q", cfg.Driver)
	}
}

func storageDriver(cfg config.StorageConfig) string {
	if cfg.Driver == "" {
		return config.DriverSQLite
	}
	return cfg.Driver
}

// ResolveConfigPath searches for a config file in standard locations.
// Search order: $XDG_CONFIG_HOME/megachat/megachat.yaml →
// ~/.config/megachat/megachat.yaml → ./megachat.yaml
func ResolveConfigPath() (string, error) {
	var candidates []string

	if xdg, ok := os.LookupEnv("XDG_CONFIG_HOME"); ok {
		candidates = append(candidates, filepath.Join(xdg, "megachat", "megachat.yaml"))
	} else if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".config", "megachat", "megachat.yaml"))
	}

	candidates = append(candidates, "megachat.yaml")

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	return "", fmt.Errorf("no configuration file found (searched: %v)", candidates)
}

// DefaultDataDir returns the default persistent data directory.
// Uses $XDG_DATA_HOME/megachat if set, otherwise ~/.local/share/megachat.
func DefaultDataDir() string {
	if dir, ok := os.LookupEnv("XDG_DATA_HOME"); ok {
		return filepath.Join(dir, "megachat")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "megachat")
}
