package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("LCX_HOME", home)
	for _, key := range []string{"LCX_PROFILE", "LCX_STORAGE_BACKEND", "LCX_ROLLOVER_HOUR", "LCX_STORAGE_REMOTE_ADDR"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
	return home
}

func TestLoad_DefaultsWhenNoConfigFile(t *testing.T) {
	isolate(t)

	cfg, err := Load(context.Background(), "")
	require.NoError(t, err)

	assert.Equal(t, DefaultProfile, cfg.Profile)
	assert.Equal(t, 1000, cfg.StartingPoints)
	assert.Equal(t, 6, cfg.RolloverHour)
	assert.Equal(t, BackendLocal, cfg.Storage.Backend)
	assert.Equal(t, 5*time.Second, cfg.Storage.Remote.DialTimeout)
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	assert.True(t, cfg.Storage.Remote.FallbackLocal)
}

func TestLoad_HomeConfigFile(t *testing.T) {
	home := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(home, "config.yaml"), []byte(`
profile: alice
rollover_hour: 4
timezone: UTC
storage:
  backend: remote
  remote:
    addr: redis.internal:6379
    dial_timeout: 2s
`), 0o600))

	cfg, err := Load(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "alice", cfg.Profile)
	assert.Equal(t, 4, cfg.RolloverHour)
	assert.Equal(t, BackendRemote, cfg.Storage.Backend)
	assert.Equal(t, "redis.internal:6379", cfg.Storage.Remote.Addr)
	assert.Equal(t, 2*time.Second, cfg.Storage.Remote.DialTimeout)
	assert.Equal(t, "lcx", cfg.Storage.Remote.KeyPrefix, "unset keys keep defaults")

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "lcx.yaml")
	require.NoError(t, os.WriteFile(path, []byte("profile: bob\nstorage:\n  backend: local\n"), 0o600))
	t.Setenv("LCX_STORAGE_BACKEND", "memory")

	cfg, err := Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "bob", cfg.Profile)
	assert.Equal(t, BackendMemory, cfg.Storage.Backend)
}

func TestLoad_ExplicitMissingFileFails(t *testing.T) {
	isolate(t)
	_, err := Load(context.Background(), filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	cases := map[string]func(*Config){
		"empty profile":   func(c *Config) { c.Profile = " " },
		"rollover hour":   func(c *Config) { c.RolloverHour = 24 },
		"unknown backend": func(c *Config) { c.Storage.Backend = "s3" },
		"bad timezone":    func(c *Config) { c.Timezone = "Mars/Olympus" },
		"negative cache":  func(c *Config) { c.Storage.CacheSize = -1 },
		"bad log level":   func(c *Config) { c.Log.Level = "loud" },
		"remote no addr": func(c *Config) {
			c.Storage.Backend = BackendRemote
			c.Storage.Remote.Addr = ""
		},
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := DefaultConfig()
			mutate(cfg)
			err := Validate(cfg)
			require.ErrorIs(t, err, ErrInvalidConfig)
		})
	}

	cfg := DefaultConfig()
	cfg.Storage.Backend = " Remote "
	require.NoError(t, Validate(cfg))
	assert.Equal(t, BackendRemote, cfg.Storage.Backend)
}
