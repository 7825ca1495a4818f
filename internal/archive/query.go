// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package archive

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/pdiddy/news-reader/pkg/types"
)

// Filter narrows history queries. Zero fields match everything.
type Filter struct {
	Keyword string
	// Section matches the section name case-insensitively.
	Section string
	// Limit caps the number of rows. Zero uses the store default.
	Limit int
}

// StoredArticle is an archived article with the run that last returned it.
type StoredArticle struct {
	types.Article `yaml:",inline"`
	Keyword       string    `json:"keyword" yaml:"keyword"`
	FetchID       string    `json:"fetch_id" yaml:"fetch_id"`
	StoredAt      time.Time `json:"stored_at" yaml:"stored_at"`
}

// Fetch summarizes one recorded pipeline run.
type Fetch struct {
	ID           string    `json:"id" yaml:"id"`
	Keyword      string    `json:"keyword" yaml:"keyword"`
	URL          string    `json:"url" yaml:"url"`
	Started      time.Time `json:"started" yaml:"started"`
	Finished     time.Time `json:"finished" yaml:"finished"`
	ArticleCount int       `json:"article_count" yaml:"article_count"`
	SkippedCount int       `json:"skipped_count" yaml:"skipped_count"`
	Error        string    `json:"error,omitempty" yaml:"error,omitempty"`
}

// Articles returns archived articles, newest publication first.
func (s *Store) Articles(ctx context.Context, f Filter) ([]StoredArticle, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = s.maxResults
	}

	var (
		qb   strings.Builder
		args []any
	)
	qb.WriteString(
		`SELECT url, title, section, authors, guardian_id, published, thumbnail, short_url,
			keyword, fetch_id, stored_at
		FROM articles
		WHERE 1=1`)
	if f.Keyword != "" {
		qb.WriteString(` AND keyword = ?`)
		args = append(args, f.Keyword)
	}
	if f.Section != "" {
		qb.WriteString(` AND LOWER(section) = LOWER(?)`)
		args = append(args, f.Section)
	}
	qb.WriteString(` ORDER BY published DESC, stored_at DESC, url LIMIT ?`)
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, s.rebind(qb.String()), args...)
	if err != nil {
		return nil, fmt.Errorf("querying articles: %w", err)
	}
	defer rows.Close()

	var out []StoredArticle
	for rows.Next() {
		var (
			a                               StoredArticle
			guardianID, thumbnail, shortURL sql.NullString
			published, storedAt             sql.NullString
		)
		if err := rows.Scan(&a.URL, &a.Title, &a.Section, &a.Authors, &guardianID, &published,
			&thumbnail, &shortURL, &a.Keyword, &a.FetchID, &storedAt); err != nil {
			return nil, fmt.Errorf("scanning article: %w", err)
		}
		a.ID = guardianID.String
		a.Thumbnail = thumbnail.String
		a.ShortURL = shortURL.String
		a.Published = parseTime(published.String)
		a.StoredAt = parseTime(storedAt.String)
		out = append(out, a)
	}
	return out, rows.Err()
}

// Fetches returns recorded runs, most recent first.
func (s *Store) Fetches(ctx context.Context, limit int) ([]Fetch, error) {
	if limit <= 0 {
		limit = s.maxResults
	}
	rows, err := s.db.QueryContext(ctx, s.rebind(
		`SELECT id, keyword, url, started, finished, article_count, skipped_count, error
		FROM fetches ORDER BY started DESC LIMIT ?`), limit)
	if err != nil {
		return nil, fmt.Errorf("querying fetches: %w", err)
	}
	defer rows.Close()

	var out []Fetch
	for rows.Next() {
		var (
			f                 Fetch
			u, errText        sql.NullString
			started, finished string
		)
		if err := rows.Scan(&f.ID, &f.Keyword, &u, &started, &finished,
			&f.ArticleCount, &f.SkippedCount, &errText); err != nil {
			return nil, fmt.Errorf("scanning fetch: %w", err)
		}
		f.URL = u.String
		f.Error = errText.String
		f.Started = parseTime(started)
		f.Finished = parseTime(finished)
		out = append(out, f)
	}
	return out, rows.Err()
}
