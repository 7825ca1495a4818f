// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/pdiddy/news-reader/internal/archive"
	"github.com/pdiddy/news-reader/internal/guardian"
	"github.com/pdiddy/news-reader/internal/httputil"
	"github.com/pdiddy/news-reader/internal/logging"
	"github.com/pdiddy/news-reader/internal/secrets"
	"github.com/pdiddy/news-reader/pkg/types"
)

// defaultKeyword is used when no keyword is configured anywhere.
const defaultKeyword = "technology"

// Config validation errors.
var (
	ErrInvalidPageSize = errors.New("guardian.page_size must be at least 1")
	ErrInvalidTimeout  = errors.New("http.connect_timeout and http.read_timeout must be positive")
	ErrInvalidLogLevel = errors.New("log_level must be one of: debug, info, warn, error")
	ErrInvalidDriver   = errors.New("archive.driver must be sqlite3 or postgres")
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("keyword", defaultKeyword)
	v.SetDefault("log_level", "info")
	v.SetDefault("strict", false)

	v.SetDefault("http.connect_timeout", httputil.DefaultConnectTimeout)
	v.SetDefault("http.read_timeout", httputil.DefaultReadTimeout)
	v.SetDefault("http.user_agent", "news-reader/"+version)

	v.SetDefault("guardian.endpoint", guardian.DefaultEndpoint)
	v.SetDefault("guardian.api_key", "")
	v.SetDefault("guardian.from_date", guardian.DefaultFromDate)
	v.SetDefault("guardian.show_fields", guardian.DefaultShowFields)
	v.SetDefault("guardian.page_size", guardian.DefaultPageSize)

	v.SetDefault("archive.driver", string(types.DriverSQLite))
	v.SetDefault("archive.dsn", "")
	v.SetDefault("archive.max_results", 50)

	v.SetDefault("serve.addr", ":8080")
}

// loadConfig decodes v into a Config, fills the API key and archive DSN
// from secrets when they are not configured, and validates the result.
func loadConfig(v *viper.Viper, s secrets.Secrets) (types.Config, error) {
	var cfg types.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decoding config: %w", err)
	}

	cfg.Keyword = strings.TrimSpace(cfg.Keyword)
	if cfg.Keyword == "" {
		cfg.Keyword = defaultKeyword
	}
	cfg.Guardian.APIKey = s.Or(secrets.GuardianAPIKey, cfg.Guardian.APIKey)
	if cfg.Guardian.APIKey == "" {
		cfg.Guardian.APIKey = guardian.DefaultAPIKey
	}
	cfg.Archive.DSN = s.Or(secrets.ArchiveDSN, cfg.Archive.DSN)

	if err := validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func validate(cfg types.Config) error {
	if cfg.Guardian.PageSize < 1 {
		return ErrInvalidPageSize
	}
	if cfg.HTTP.ConnectTimeout <= 0 || cfg.HTTP.ReadTimeout <= 0 {
		return ErrInvalidTimeout
	}
	if _, err := logging.ParseLevel(cfg.LogLevel); err != nil {
		return ErrInvalidLogLevel
	}
	switch cfg.Archive.Driver {
	case "", types.DriverSQLite, types.DriverPostgres:
	default:
		return ErrInvalidDriver
	}
	return nil
}

// currentConfig loads the config from the global viper instance.
func currentConfig() (types.Config, error) {
	return loadConfig(viper.GetViper(), loadedSecrets)
}

func newLogger(cfg types.Config) *slog.Logger {
	return logging.New(cfg.LogLevel, os.Stderr)
}

func newPipeline(cfg types.Config, logger *slog.Logger) *guardian.Pipeline {
	p := guardian.NewPipeline(cfg.Guardian, cfg.HTTP, logger)
	p.Strict = cfg.Strict
	return p
}

func openArchive(ctx context.Context, cfg types.Config) (*archive.Store, error) {
	store, err := archive.Open(ctx, cfg.Archive)
	if err != nil {
		return nil, fmt.Errorf("opening archive: %w", err)
	}
	return store, nil
}

// keywordFromArgs joins positional arguments into a keyword, falling back
// to the configured one.
func keywordFromArgs(args []string, configured string) string {
	if kw := strings.TrimSpace(strings.Join(args, " ")); kw != "" {
		return kw
	}
	return configured
}
