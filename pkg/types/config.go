// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds settings for outbound requests to the content API.
type HTTPConfig struct {
	// ConnectTimeout bounds establishing the TCP/TLS connection (default 15s).
	ConnectTimeout time.Duration `json:"connect_timeout" yaml:"connect_timeout" mapstructure:"connect_timeout"`

	// ReadTimeout bounds each read from the connection, including the wait
	// for response headers (default 10s).
	ReadTimeout time.Duration `json:"read_timeout" yaml:"read_timeout" mapstructure:"read_timeout"`

	// UserAgent is the User-Agent header sent with requests
	// (e.g. "news-reader/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// GuardianConfig holds the fixed parameters of the search endpoint. The
// user's keyword is not part of it; it is appended per request.
type GuardianConfig struct {
	// Endpoint is the search URL without query parameters.
	Endpoint string `json:"endpoint" yaml:"endpoint" mapstructure:"endpoint"`

	// APIKey is the static content API key ("test" is the public developer key).
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty" mapstructure:"api_key"`

	// FromDate restricts results to content published on or after this date (YYYY-MM-DD).
	FromDate string `json:"from_date" yaml:"from_date" mapstructure:"from_date"`

	// ShowFields lists the optional article fields to include (comma-separated).
	ShowFields string `json:"show_fields" yaml:"show_fields" mapstructure:"show_fields"`

	// PageSize is the fixed number of results requested (default 42).
	PageSize int `json:"page_size" yaml:"page_size" mapstructure:"page_size"`
}

// ArchiveDriver selects the database/sql driver backing the archive.
type ArchiveDriver string

const (
	DriverSQLite   ArchiveDriver = "sqlite3"
	DriverPostgres ArchiveDriver = "postgres"
)

// ArchiveConfig holds settings for the article history store.
type ArchiveConfig struct {
	// Driver is sqlite3 (default) or postgres.
	Driver ArchiveDriver `json:"driver" yaml:"driver" mapstructure:"driver"`

	// DSN is the SQLite file path or the PostgreSQL connection string.
	DSN string `json:"dsn" yaml:"dsn" mapstructure:"dsn"`

	// MaxResults is the default number of rows returned by history queries (default 50).
	MaxResults int `json:"max_results" yaml:"max_results" mapstructure:"max_results"`
}

// ServeConfig holds settings for the HTTP surface.
type ServeConfig struct {
	// Addr is the listen address (default ":8080").
	Addr string `json:"addr" yaml:"addr" mapstructure:"addr"`
}

// Config groups all settings loaded from the config file, environment and flags.
type Config struct {
	// Keyword is the user's search term preference.
	Keyword  string         `json:"keyword" yaml:"keyword" mapstructure:"keyword"`
	LogLevel string         `json:"log_level" yaml:"log_level" mapstructure:"log_level"`
	Strict   bool           `json:"strict" yaml:"strict" mapstructure:"strict"`
	HTTP     HTTPConfig     `json:"http" yaml:"http" mapstructure:"http"`
	Guardian GuardianConfig `json:"guardian" yaml:"guardian" mapstructure:"guardian"`
	Archive  ArchiveConfig  `json:"archive" yaml:"archive" mapstructure:"archive"`
	Serve    ServeConfig    `json:"serve" yaml:"serve" mapstructure:"serve"`
}
