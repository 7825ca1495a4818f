// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package archive keeps a history of pipeline runs and the articles they
// returned. It is a log, not a cache: nothing reads it in place of the
// content API.
package archive

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/news-reader/internal/guardian"
	"github.com/pdiddy/news-reader/pkg/types"
)

const (
	defaultDSN        = "news-reader.db"
	defaultMaxResults = 50

	// tsLayout sorts lexicographically in time order for UTC values.
	tsLayout = "2006-01-02T15:04:05.000000Z"
)

// ErrUnsupportedDriver is returned by Open for drivers other than sqlite3 and postgres.
var ErrUnsupportedDriver = errors.New("unsupported archive driver")

// Store records pipeline results in a SQL database.
type Store struct {
	db         *sql.DB
	driver     types.ArchiveDriver
	maxResults int
}

// Open connects to the archive database and creates the schema if needed.
// SQLite is the default driver; its parent directory is created on demand.
func Open(ctx context.Context, cfg types.ArchiveConfig) (*Store, error) {
	driver := cfg.Driver
	if driver == "" {
		driver = types.DriverSQLite
	}
	dsn := cfg.DSN

	switch driver {
	case types.DriverSQLite:
		if dsn == "" {
			dsn = defaultDSN
		}
		if dir := filepath.Dir(dsn); dir != "." && !strings.HasPrefix(dsn, "file:") {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("creating archive directory: %w", err)
			}
		}
		if !strings.Contains(dsn, "?") {
			dsn += "?_journal_mode=WAL&_busy_timeout=5000"
		}
	case types.DriverPostgres:
		if dsn == "" {
			return nil, fmt.Errorf("archive.dsn is required for the postgres driver")
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, driver)
	}

	db, err := sql.Open(string(driver), dsn)
	if err != nil {
		return nil, fmt.Errorf("opening archive: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to archive: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	s := &Store{db: db, driver: driver, maxResults: maxResults}
	if err := s.createSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS fetches (
			id TEXT PRIMARY KEY,
			keyword TEXT NOT NULL,
			url TEXT,
			started TEXT NOT NULL,
			finished TEXT NOT NULL,
			article_count INTEGER NOT NULL,
			skipped_count INTEGER NOT NULL,
			error TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS articles (
			url TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			section TEXT NOT NULL,
			authors TEXT NOT NULL,
			guardian_id TEXT,
			published TEXT,
			thumbnail TEXT,
			short_url TEXT,
			keyword TEXT NOT NULL,
			fetch_id TEXT NOT NULL REFERENCES fetches(id),
			stored_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_articles_section ON articles(section)`,
		`CREATE INDEX IF NOT EXISTS idx_articles_keyword ON articles(keyword)`,
		`CREATE INDEX IF NOT EXISTS idx_fetches_started ON fetches(started)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record stores one pipeline result: a fetches row for the run, and an
// upsert of every returned article keyed by URL. Failed runs are recorded
// with their error and no articles.
func (s *Store) Record(ctx context.Context, res guardian.Result) error {
	if res.ID == "" {
		return fmt.Errorf("result has no run id")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var errText sql.NullString
	if res.Err != nil {
		errText = sql.NullString{String: res.ErrorText(), Valid: true}
	}
	_, err = tx.ExecContext(ctx, s.rebind(
		`INSERT INTO fetches (id, keyword, url, started, finished, article_count, skipped_count, error)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`),
		res.ID, res.Keyword, guardian.RedactURL(res.URL), formatTime(res.Started), formatTime(res.Finished),
		len(res.Articles), len(res.Skipped), errText,
	)
	if err != nil {
		return fmt.Errorf("inserting fetch %s: %w", res.ID, err)
	}

	if len(res.Articles) > 0 {
		stmt, err := tx.PrepareContext(ctx, s.rebind(
			`INSERT INTO articles (url, title, section, authors, guardian_id, published, thumbnail, short_url, keyword, fetch_id, stored_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			 ON CONFLICT(url) DO UPDATE SET
				title=excluded.title, section=excluded.section, authors=excluded.authors,
				guardian_id=excluded.guardian_id, published=excluded.published,
				thumbnail=excluded.thumbnail, short_url=excluded.short_url,
				keyword=excluded.keyword, fetch_id=excluded.fetch_id, stored_at=excluded.stored_at`))
		if err != nil {
			return fmt.Errorf("preparing article upsert: %w", err)
		}
		defer stmt.Close()

		storedAt := formatTime(res.Finished)
		for _, a := range res.Articles {
			_, err := stmt.ExecContext(ctx,
				a.URL, a.Title, a.Section, a.Authors, a.ID, formatTime(a.Published),
				a.Thumbnail, a.ShortURL, res.Keyword, res.ID, storedAt,
			)
			if err != nil {
				return fmt.Errorf("upserting article %s: %w", a.URL, err)
			}
		}
	}

	return tx.Commit()
}

// rebind rewrites ? placeholders to $1, $2, ... for PostgreSQL.
func (s *Store) rebind(query string) string {
	if s.driver != types.DriverPostgres {
		return query
	}
	return rebindDollar(query)
}

func rebindDollar(query string) string {
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(tsLayout)
}

func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(tsLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
