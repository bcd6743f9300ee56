package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Giantpizzahead/life-coach-x/internal/config"
)

func TestSelectLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, SelectLevel(true, false, "error"))
	assert.Equal(t, zerolog.WarnLevel, SelectLevel(false, true, "debug"))
	assert.Equal(t, zerolog.ErrorLevel, SelectLevel(false, false, "ERROR"))
	assert.Equal(t, zerolog.InfoLevel, SelectLevel(false, false, ""))
	assert.Equal(t, zerolog.InfoLevel, SelectLevel(false, false, "bogus"))
}

func TestNewWritesConsoleAndFile(t *testing.T) {
	defer Close()
	path := filepath.Join(t.TempDir(), "logs", "lcx.log")
	var console bytes.Buffer

	logger := New(Options{
		Console: &console,
		Config:  config.LogConfig{Level: "info", File: path, MaxSizeMB: 1},
	})
	logger.Info().Str("component", "test").Msg("rollover applied")
	logger.Debug().Msg("hidden")

	assert.Contains(t, console.String(), "rollover applied")
	assert.NotContains(t, console.String(), "hidden")

	Close()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"component":"test"`)
}

func TestFilePath(t *testing.T) {
	t.Setenv("LCX_HOME", "/tmp/lcx-home")
	p, err := FilePath(config.LogConfig{})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/tmp/lcx-home", "logs", FileName), p)

	p, err = FilePath(config.LogConfig{File: "-"})
	require.NoError(t, err)
	assert.Empty(t, p)
}
