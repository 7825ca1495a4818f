// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package watch refreshes the article list on a cron schedule. Each tick
// restarts the Loader, so a slow request is superseded by the next one
// rather than piling up, and every delivered result is archived.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/robfig/cron/v3"

	"github.com/pdiddy/news-reader/internal/archive"
	"github.com/pdiddy/news-reader/internal/guardian"
	"github.com/pdiddy/news-reader/internal/logging"
)

// DefaultSchedule refreshes every ten minutes.
const DefaultSchedule = "@every 10m"

// Runner owns a Loader, a cron scheduler and an optional archive.
type Runner struct {
	loader   *guardian.Loader
	store    *archive.Store
	onResult func(guardian.Result)
	logger   *slog.Logger
	cron     *cron.Cron

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	keyword string
}

// NewRunner returns a Runner for p. store may be nil. onResult, if set, is
// called after each delivered result has been archived.
func NewRunner(p *guardian.Pipeline, store *archive.Store, logger *slog.Logger, onResult func(guardian.Result)) *Runner {
	if logger == nil {
		logger = logging.Discard()
	}
	ctx, cancel := context.WithCancel(context.Background())
	r := &Runner{
		store:    store,
		onResult: onResult,
		logger:   logger,
		ctx:      ctx,
		cancel:   cancel,
	}
	cl := cronLogger{logger}
	r.cron = cron.New(cron.WithLogger(cl), cron.WithChain(cron.Recover(cl)))
	r.loader = guardian.NewLoader(p, r.deliver)
	return r
}

// Schedule registers spec (standard five-field cron or a descriptor such
// as "@every 5m") to refresh the current keyword.
func (r *Runner) Schedule(spec string) error {
	if _, err := r.cron.AddFunc(spec, func() { r.Refresh() }); err != nil {
		return fmt.Errorf("invalid schedule %q: %w", spec, err)
	}
	return nil
}

// SetKeyword changes the keyword and restarts the load immediately. A
// request still running for the old keyword is discarded.
func (r *Runner) SetKeyword(keyword string) *guardian.Handle {
	r.mu.Lock()
	changed := r.keyword != keyword
	r.keyword = keyword
	r.mu.Unlock()

	if changed {
		r.logger.Info("keyword changed", "keyword", keyword)
	}
	return r.Refresh()
}

// Keyword returns the keyword used by scheduled refreshes.
func (r *Runner) Keyword() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.keyword
}

// Refresh restarts the load for the current keyword. It returns nil after Stop.
func (r *Runner) Refresh() *guardian.Handle {
	return r.loader.Restart(r.ctx, r.Keyword())
}

// Start begins running scheduled refreshes in the background.
func (r *Runner) Start() {
	r.cron.Start()
}

// Stop halts the scheduler, cancels any run in flight and waits for
// pending deliveries.
func (r *Runner) Stop() {
	<-r.cron.Stop().Done()
	r.loader.Stop()
	r.cancel()
}

func (r *Runner) deliver(res guardian.Result) {
	log := r.logger.With("run", res.ID, "keyword", res.Keyword)
	if res.OK() {
		log.Info("refreshed", "articles", len(res.Articles), "skipped", len(res.Skipped))
	}

	if r.store != nil {
		if err := r.store.Record(r.ctx, res); err != nil {
			log.Error("problem recording the result", "err", err)
		}
	}
	if r.onResult != nil {
		r.onResult(res)
	}
}

// cronLogger adapts slog to the cron.Logger interface.
type cronLogger struct {
	l *slog.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.l.Debug("cron: "+msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.l.Error("cron: "+msg, append([]interface{}{"err", err}, keysAndValues...)...)
}
