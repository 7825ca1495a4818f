// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package guardian

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/pdiddy/news-reader/internal/httputil"
	"github.com/pdiddy/news-reader/pkg/types"
)

const defaultUserAgent = "news-reader/0.1"

// Fetcher performs a single GET against the content API.
type Fetcher struct {
	Client    *http.Client
	UserAgent string
}

// NewFetcher returns a Fetcher whose client uses the configured connect and
// read timeouts (15s and 10s when unset).
func NewFetcher(cfg types.HTTPConfig) *Fetcher {
	ua := cfg.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}
	return &Fetcher{
		Client:    httputil.NewClient(cfg.ConnectTimeout, cfg.ReadTimeout),
		UserAgent: ua,
	}
}

// Fetch issues one GET for rawURL and returns the full response body as
// UTF-8 text. Only HTTP 200 succeeds; any other status or a transport error
// yields a *FetchError. An empty or unparsable URL yields ErrMalformedEndpoint
// and no request is sent. The response body is closed on every path and the
// connection is not kept alive. There is no retry.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	if rawURL == "" {
		return "", fmt.Errorf("%w: empty URL", ErrMalformedEndpoint)
	}
	if _, err := url.ParseRequestURI(rawURL); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedEndpoint, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("%w: creating request: %v", ErrMalformedEndpoint, err)
	}
	req.Close = true
	req.Header.Set("Accept", "application/json")
	if f.UserAgent != "" {
		req.Header.Set("User-Agent", f.UserAgent)
	}

	client := f.Client
	if client == nil {
		client = httputil.NewClient(0, 0)
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", &FetchError{URL: rawURL, Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		// The connection is not reused, so the error body is not read.
		resp.Body.Close()
		return "", &FetchError{URL: rawURL, StatusCode: resp.StatusCode}
	}
	defer httputil.DrainAndClose(resp.Body)

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &FetchError{URL: rawURL, StatusCode: resp.StatusCode, Err: fmt.Errorf("reading body: %w", err)}
	}
	if !utf8.Valid(data) {
		return strings.ToValidUTF8(string(data), string(utf8.RuneError)), nil
	}
	return string(data), nil
}
