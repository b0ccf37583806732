package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/geolists/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   bind address for the HTTP endpoint (default from Config)
//	-b string   externally visible base URL
//	-d string   PostgreSQL DSN; empty selects the in-memory store
//	-k string   HMAC secret for edit capability tokens
//
// Note: The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	// Filter args to include only those handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-b", "-d", "-k"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.EndpointAddr, "a", cfg.EndpointAddr, "address and port to bind the server")
	fs.StringVar(&cfg.BaseURL, "b", cfg.BaseURL, "externally visible base URL")
	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "PostgreSQL DSN (empty for in-memory)")
	fs.StringVar(&cfg.SecretKey, "k", cfg.SecretKey, "secret key for edit tokens")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
