package config

import "time"

// Config holds runtime settings for the GeoLists CLI.
//
// Fields:
//   - ServerBaseURL: base URL of the hosted share service.
//   - DatabasePath: local SQLite database file.
//   - PollInterval: how often a follower checks the remote copy for changes.
//   - DebounceInterval: quiet period before local edits are pushed remotely.
//   - UndoWindow: how long a deleted place can still be restored.
//
// Units: intervals are time.Duration values (e.g., 15*time.Second).
type Config struct {
	ServerBaseURL    string
	DatabasePath     string
	PollInterval     time.Duration
	DebounceInterval time.Duration
	UndoWindow       time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerBaseURL = "http://127.0.0.1:8080"
	c.DatabasePath = "geolists.db"
	c.PollInterval = 15 * time.Second
	c.DebounceInterval = 400 * time.Millisecond
	c.UndoWindow = 10 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
