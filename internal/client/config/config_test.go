package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "http://127.0.0.1:8080", c.ServerBaseURL)
	assert.Equal(t, "geolists.db", c.DatabasePath)
	assert.Equal(t, 15*time.Second, c.PollInterval)
	assert.Equal(t, 400*time.Millisecond, c.DebounceInterval)
	assert.Equal(t, 10*time.Second, c.UndoWindow)
}

func TestLoadConfig_UsesDefaultsBeforeParsing(t *testing.T) {
	cfg := LoadConfig()

	require.NotNil(t, cfg, "LoadConfig must not return nil")
	assert.Equal(t, "http://127.0.0.1:8080", cfg.ServerBaseURL)
	assert.Equal(t, 15*time.Second, cfg.PollInterval)
}
