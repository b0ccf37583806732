package config

import (
	"flag"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.PanicOnError)
	os.Args = []string{"cmd", "-a", ":9090", "-b", "https://geo.example", "-d", "postgres://u:p@h/db", "-k", "topsecret"}

	cfg := &Config{}
	require.NotPanics(t, func() { parseFlags(cfg) })

	assert.Equal(t, ":9090", cfg.EndpointAddr)
	assert.Equal(t, "https://geo.example", cfg.BaseURL)
	assert.Equal(t, "postgres://u:p@h/db", cfg.DatabaseDSN)
	assert.Equal(t, "topsecret", cfg.SecretKey)
}
