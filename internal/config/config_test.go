package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestMustLoadPathAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
env: dev
database:
  driver: sqlite
  dsn: "file::memory:"
auth:
  jwt_secret: "secret"
`)

	cfg := MustLoadPath(path)

	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, ":8080", cfg.HTTP.Address)
	assert.Equal(t, time.Hour, cfg.Auth.AccessTTL)
	assert.Equal(t, 7*24*time.Hour, cfg.Auth.RefreshTTL)
	assert.Equal(t, 25*time.Second, cfg.WebSocket.PingInterval)
	assert.Equal(t, 60*time.Second, cfg.WebSocket.PongWait)
	assert.Equal(t, 6, cfg.Room.CodeLength)
	assert.Equal(t, 5, cfg.Room.CodeAttempts)
}

func TestMustLoadPathReadsValues(t *testing.T) {
	path := writeConfig(t, `
http:
  address: ":9090"
database:
  driver: postgres
  dsn: "host=db user=app"
auth:
  jwt_secret: "secret"
  access_ttl: 30m
websocket:
  ping_interval: 10s
  pong_wait: 30s
room:
  code_length: 8
`)

	cfg := MustLoadPath(path)

	assert.Equal(t, ":9090", cfg.HTTP.Address)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 30*time.Minute, cfg.Auth.AccessTTL)
	assert.Equal(t, 10*time.Second, cfg.WebSocket.PingInterval)
	assert.Equal(t, 8, cfg.Room.CodeLength)
}

func TestMustLoadPathPanicsOnMissingFile(t *testing.T) {
	assert.Panics(t, func() {
		MustLoadPath(filepath.Join(t.TempDir(), "missing.yaml"))
	})
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		cfg := &Config{
			Database: DatabaseConfig{Driver: "sqlite", DSN: "file::memory:"},
			Auth:     AuthConfig{JWTSecret: "secret"},
		}
		cfg.setDefaults()
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "unknown driver", mutate: func(c *Config) { c.Database.Driver = "mysql" }, wantErr: true},
		{name: "empty dsn", mutate: func(c *Config) { c.Database.DSN = "" }, wantErr: true},
		{name: "empty secret", mutate: func(c *Config) { c.Auth.JWTSecret = "" }, wantErr: true},
		{name: "refresh shorter than access", mutate: func(c *Config) { c.Auth.RefreshTTL = time.Minute }, wantErr: true},
		{name: "ping after pong deadline", mutate: func(c *Config) { c.WebSocket.PingInterval = 2 * time.Minute }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}
