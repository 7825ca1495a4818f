// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package guardian fetches article search results from the Guardian content
// API and normalizes them into types.Article records.
//
// The pipeline has three stages: BuildURL composes the request URL from the
// fixed endpoint and a sanitized keyword, Fetcher performs a single GET, and
// Parse maps the JSON body onto articles. Pipeline chains them and reports a
// Result that separates "no matches" from failures.
package guardian

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/pdiddy/news-reader/pkg/types"
)

const (
	DefaultEndpoint   = "https://content.guardianapis.com/search"
	DefaultAPIKey     = "test"
	DefaultFromDate   = "2017-01-01"
	DefaultShowFields = "starRating,headline,thumbnail,short-url"
	DefaultPageSize   = 42
)

// BaseEndpoint composes the search URL with its fixed parameters: JSON
// format, date range, contributor tags, extra fields, page size and API key.
// Empty config fields fall back to the package defaults.
func BaseEndpoint(cfg types.GuardianConfig) string {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	fromDate := cfg.FromDate
	if fromDate == "" {
		fromDate = DefaultFromDate
	}
	fields := cfg.ShowFields
	if fields == "" {
		fields = DefaultShowFields
	}
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = DefaultAPIKey
	}

	// Parameter order is fixed so the endpoint string is stable across runs;
	// url.Values.Encode would sort the keys.
	params := []string{
		"format=json",
		"from-date=" + url.QueryEscape(fromDate),
		"show-tags=contributor",
		"show-fields=" + escapeFieldList(fields),
		"page-size=" + strconv.Itoa(pageSize),
		"api-key=" + url.QueryEscape(apiKey),
	}
	return endpoint + "?" + strings.Join(params, "&")
}

// escapeFieldList escapes each field name but keeps the separating commas readable.
func escapeFieldList(fields string) string {
	parts := strings.Split(fields, ",")
	for i, p := range parts {
		parts[i] = url.QueryEscape(strings.TrimSpace(p))
	}
	return strings.Join(parts, ",")
}

// SanitizeKeyword replaces every character outside [A-Za-z0-9 ] with a
// space, lower-cases the result, collapses runs of spaces and encodes the
// remaining spaces as %20. "Climate-Change!!  News" becomes
// "climate%20change%20news".
func SanitizeKeyword(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	lastSpace := false
	for _, r := range raw {
		switch {
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r + ('a' - 'A'))
			lastSpace = false
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastSpace = false
		default:
			if !lastSpace {
				b.WriteString("%20")
			}
			lastSpace = true
		}
	}
	return b.String()
}

// BuildURL appends the sanitized keyword as the q parameter of baseEndpoint.
// It fails only when baseEndpoint is not an absolute URL.
func BuildURL(baseEndpoint, rawKeyword string) (string, error) {
	u, err := url.Parse(baseEndpoint)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedEndpoint, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("%w: %q is not an absolute URL", ErrMalformedEndpoint, baseEndpoint)
	}

	q := "q=" + SanitizeKeyword(rawKeyword)
	if u.RawQuery != "" {
		u.RawQuery += "&" + q
	} else {
		u.RawQuery = q
	}
	return u.String(), nil
}
