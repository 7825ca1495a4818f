// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package guardian

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/pdiddy/news-reader/pkg/types"
)

// Pipeline chains BuildURL, Fetch and Parse for one keyword at a time.
// It holds no state between runs and is safe for concurrent use.
type Pipeline struct {
	// Endpoint is the base search URL with its fixed parameters (see BaseEndpoint).
	Endpoint string
	Fetcher  *Fetcher
	// Strict selects ParseStrict: the first malformed entry discards the batch.
	Strict bool
	Logger *slog.Logger
}

// NewPipeline builds a Pipeline from configuration.
func NewPipeline(g types.GuardianConfig, h types.HTTPConfig, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		Endpoint: BaseEndpoint(g),
		Fetcher:  NewFetcher(h),
		Logger:   logger,
	}
}

// Result is the outcome of one pipeline run. Exactly one of two shapes
// holds: Err is nil and Articles carries zero or more records, or Err is
// non-nil (matching ErrMalformedEndpoint, ErrFetch, ErrDecode or ErrRecord)
// and Articles is empty.
type Result struct {
	ID       string          `json:"id" yaml:"id"`
	Keyword  string          `json:"keyword" yaml:"keyword"`
	URL      string          `json:"url,omitempty" yaml:"url,omitempty"`
	Articles []types.Article `json:"articles" yaml:"articles"`
	// Skipped holds malformed entries dropped by the lenient parser.
	Skipped  []*RecordError `json:"-" yaml:"-"`
	Total    int            `json:"total" yaml:"total"`
	Err      error          `json:"-" yaml:"-"`
	Started  time.Time      `json:"started" yaml:"started"`
	Finished time.Time      `json:"finished" yaml:"finished"`
}

// OK reports whether the run succeeded, with or without matches.
func (r Result) OK() bool { return r.Err == nil }

// Empty reports a successful run that found nothing to show.
func (r Result) Empty() bool { return r.Err == nil && len(r.Articles) == 0 }

// Run fetches and parses results for keyword. Failures are logged and
// returned in Result.Err; Run never panics on bad input.
func (p *Pipeline) Run(ctx context.Context, keyword string) Result {
	res := Result{
		ID:      uuid.NewString(),
		Keyword: keyword,
		Started: time.Now(),
	}
	log := p.logger().With("run", res.ID, "keyword", keyword)

	reqURL, err := BuildURL(p.Endpoint, keyword)
	if err != nil {
		log.Error("problem building the URL", "err", err)
		res.Err = err
		res.Finished = time.Now()
		return res
	}
	res.URL = reqURL

	fetcher := p.Fetcher
	if fetcher == nil {
		fetcher = NewFetcher(types.HTTPConfig{})
	}
	body, err := fetcher.Fetch(ctx, reqURL)
	if err != nil {
		var fe *FetchError
		if errors.As(err, &fe) && fe.StatusCode != 0 {
			log.Error("error response code", "status", fe.StatusCode)
		} else {
			log.Error("problem making the HTTP request", "err", err)
		}
		res.Err = err
		res.Finished = time.Now()
		return res
	}

	parseFn := Parse
	if p.Strict {
		parseFn = ParseStrict
	}
	parsed, err := parseFn(body)
	for _, skipped := range parsed.Skipped {
		log.Warn("skipping malformed result", "err", skipped)
	}
	if err != nil {
		log.Error("problem parsing the news JSON results", "err", err)
		res.Err = err
		res.Finished = time.Now()
		return res
	}

	res.Articles = parsed.Articles
	res.Skipped = parsed.Skipped
	res.Total = parsed.Total
	res.Finished = time.Now()
	log.Debug("fetched articles", "count", len(res.Articles), "skipped", len(res.Skipped))
	return res
}

// Articles runs the pipeline and collapses every failure to an empty list.
func (p *Pipeline) Articles(ctx context.Context, keyword string) []types.Article {
	res := p.Run(ctx, keyword)
	if res.Err != nil {
		return nil
	}
	return res.Articles
}

func (p *Pipeline) logger() *slog.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Handle is an in-flight pipeline run started with Start.
type Handle struct {
	ID      string
	Keyword string

	done   chan struct{}
	result Result
	cancel context.CancelFunc
}

// Start runs the pipeline for keyword on its own goroutine. Discarding the
// handle abandons the result; Cancel additionally aborts the request.
func (p *Pipeline) Start(ctx context.Context, keyword string) *Handle {
	ctx, cancel := context.WithCancel(ctx)
	h := &Handle{
		ID:      uuid.NewString(),
		Keyword: keyword,
		done:    make(chan struct{}),
		cancel:  cancel,
	}
	go func() {
		defer cancel()
		r := p.Run(ctx, keyword)
		r.ID = h.ID
		h.result = r
		close(h.done)
	}()
	return h
}

// Done is closed once the result is available.
func (h *Handle) Done() <-chan struct{} { return h.done }

// Wait blocks until the run finishes and returns its result.
func (h *Handle) Wait() Result {
	<-h.done
	return h.result
}

// Cancel aborts the underlying request if it is still in flight.
func (h *Handle) Cancel() { h.cancel() }
