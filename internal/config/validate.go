package config

import (
	"errors"
	"fmt"
)

// Validate checks the structural validity of a Config: the version field,
// the storage driver, and the responder settings when one is configured.
func Validate(cfg *Config) error {
	var errs []error

	if cfg.Version == "" {
		errs = append(errs, errors.New("config: version field is required"))
	} else if cfg.Version != "1" {
		errs = append(errs, fmt.Errorf("config: unsupported version %q (supported: \"1\")", cfg.Version))
	}

	switch cfg.Storage.Driver {
	case "", DriverMemory, DriverSQLite, DriverPebble:
	default:
		errs = append(errs, fmt.Errorf("config: unknown storage driver %q (supported: memory, sqlite, pebble)", cfg.Storage.Driver))
	}
	if (cfg.Storage.Driver == DriverSQLite || cfg.Storage.Driver == DriverPebble) && cfg.Storage.Path == "" {
		errs = append(errs, fmt.Errorf("config: storage driver %q requires a path", cfg.Storage.Driver))
	}

	if r := cfg.Responder; r != nil {
		if r.APIKey == "" {
			errs = append(errs, errors.New("config: responder.api_key is required"))
		}
		if r.MaxTokens < 0 {
			errs = append(errs, errors.New("config: responder.max_tokens must not be negative"))
		}
	}

	if cfg.Conversation.DeliveredDelay < 0 || cfg.Conversation.ReadDelay < 0 {
		errs = append(errs, errors.New("config: conversation delays must not be negative"))
	}
	if cfg.Conversation.HistoryLimit < 0 {
		errs = append(errs, errors.New("config: conversation.history_limit must not be negative"))
	}

	return errors.Join(errs...)
}
