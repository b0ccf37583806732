// Package config handles configuration for the share service,
// including defaults, JSON overlay, and command-line flags.
package config

import "time"

// Config holds runtime settings for the GeoLists share service.
//
// Fields:
//   - EndpointAddr: bind address for the public HTTP endpoint.
//   - BaseURL: externally visible base URL, used to build share links.
//   - DatabaseDSN: PostgreSQL DSN (pgx). Empty selects the in-memory store.
//   - SecretKey: HMAC secret for signing edit capability tokens (HS256).
//   - EditTokenValidityDuration: how long an issued edit capability lasts.
//   - S3RootUser / S3RootPassword: credentials for the S3-compatible backend.
//   - S3Bucket / S3Region / S3BaseEndpoint: photo storage settings.
type Config struct {
	EndpointAddr              string
	BaseURL                   string
	DatabaseDSN               string
	SecretKey                 string
	EditTokenValidityDuration time.Duration
	S3RootUser                string
	S3RootPassword            string
	S3Bucket                  string
	S3Region                  string
	S3BaseEndpoint            string
}

// LoadDefaults populates Config with sensible development defaults.
// NOTE: These values are insecure for production and should be overridden.
func (c *Config) LoadDefaults() {
	c.EndpointAddr = ":8080"
	c.BaseURL = "http://127.0.0.1:8080"
	c.DatabaseDSN = ""
	c.SecretKey = "secretKey"
	c.EditTokenValidityDuration = 30 * 24 * time.Hour
	c.S3RootUser = "admin"
	c.S3RootPassword = "secretpassword"
	c.S3Bucket = "geolists"
	c.S3Region = "us-east-1"
	c.S3BaseEndpoint = "http://127.0.0.1:9000/"
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
