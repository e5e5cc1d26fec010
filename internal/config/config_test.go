package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/megachat/megachat/internal/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "megachat.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoadFull(t *testing.T) {
	path := writeConfig(t, `
version: "1"
user:
  name: Alice
  avatar: "👩"
conversation:
  delivered_delay: 1500ms
  read_delay: 3s
  history_limit: 10
storage:
  driver: sqlite
  path: /tmp/megachat.db
responder:
  api_key: sk-test
  model: gpt-4o-mini
retention:
  enabled: true
  schedule: "*/5 * * * *"
`)

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := config.Validate(cfg); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	if cfg.User.Name != "Alice" {
		t.Errorf("user.name = %q", cfg.User.Name)
	}
	if cfg.Conversation.DeliveredDelay != 1500*time.Millisecond {
		t.Errorf("delivered_delay = %v", cfg.Conversation.DeliveredDelay)
	}
	if cfg.Conversation.ReadDelay != 3*time.Second {
		t.Errorf("read_delay = %v", cfg.Conversation.ReadDelay)
	}
	if cfg.Storage.Driver != config.DriverSQLite {
		t.Errorf("storage.driver = %q", cfg.Storage.Driver)
	}
	if cfg.Responder == nil || cfg.Responder.APIKey != "sk-test" {
		t.Errorf("responder = %+v", cfg.Responder)
	}
	if !cfg.Retention.Enabled || cfg.Retention.Schedule != "*/5 * * * *" {
		t.Errorf("retention = %+v", cfg.Retention)
	}
}

func TestLoadExpandsEnv(t *testing.T) {
	t.Setenv("MEGACHAT_TEST_KEY", "sk-from-env")

	path := writeConfig(t, `
version: "1"
responder:
  api_key: ${MEGACHAT_TEST_KEY}
  model: ${MEGACHAT_TEST_MODEL:-gpt-4o-mini}
`)

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Responder.APIKey != "sk-from-env" {
		t.Errorf("api_key = %q, want value from env", cfg.Responder.APIKey)
	}
	if cfg.Responder.Model != "gpt-4o-mini" {
		t.Errorf("model = %q, want default", cfg.Responder.Model)
	}
}

func TestLoadUnresolvedVariable(t *testing.T) {
	path := writeConfig(t, `
version: "1"
responder:
  api_key: ${MEGACHAT_DEFINITELY_UNSET_VAR}
`)

	_, err := config.Load(path)
	if err == nil {
		t.Fatal("Load succeeded with unresolved variable")
	}
	if !strings.Contains(err.Error(), "MEGACHAT_DEFINITELY_UNSET_VAR") {
		t.Errorf("error does not name the variable: %v", err)
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     config.Config
		wantErr string
	}{
		{
			name:    "missing version",
			cfg:     config.Config{},
			wantErr: "version",
		},
		{
			name:    "unsupported version",
			cfg:     config.Config{Version: "2"},
			wantErr: "unsupported version",
		},
		{
			name:    "unknown driver",
			cfg:     config.Config{Version: "1", Storage: config.StorageConfig{Driver: "redis"}},
			wantErr: "unknown storage driver",
		},
		{
			name:    "sqlite without path",
			cfg:     config.Config{Version: "1", Storage: config.StorageConfig{Driver: "sqlite"}},
			wantErr: "requires a path",
		},
		{
			name:    "responder without key",
			cfg:     config.Config{Version: "1", Responder: &config.ResponderConfig{}},
			wantErr: "api_key",
		},
		{
			name: "valid memory config",
			cfg:  config.Config{Version: "1", Storage: config.StorageConfig{Driver: "memory"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := config.Validate(&tt.cfg)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("err = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}
