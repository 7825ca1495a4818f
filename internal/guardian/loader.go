// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package guardian

import (
	"context"
	"sync"
)

// Loader keeps at most one current pipeline run. Restarting it with a new
// keyword cancels and discards the previous run, so onResult only ever sees
// the result of the most recently started request, exactly once.
type Loader struct {
	pipeline *Pipeline
	onResult func(Result)

	mu      sync.Mutex
	current *Handle
	stopped bool
	wg      sync.WaitGroup
}

// NewLoader returns a Loader that delivers results to onResult. onResult
// runs on the run's goroutine.
func NewLoader(p *Pipeline, onResult func(Result)) *Loader {
	return &Loader{pipeline: p, onResult: onResult}
}

// Restart starts a run for keyword, superseding any run in flight. It
// returns nil once the Loader has been stopped.
func (l *Loader) Restart(ctx context.Context, keyword string) *Handle {
	l.mu.Lock()
	if l.stopped {
		l.mu.Unlock()
		return nil
	}
	if l.current != nil {
		l.current.Cancel()
	}
	h := l.pipeline.Start(ctx, keyword)
	l.current = h
	l.wg.Add(1)
	l.mu.Unlock()

	go l.deliver(h)
	return h
}

func (l *Loader) deliver(h *Handle) {
	defer l.wg.Done()
	res := h.Wait()

	l.mu.Lock()
	latest := l.current == h && !l.stopped
	l.mu.Unlock()

	if latest && l.onResult != nil {
		l.onResult(res)
	}
}

// Current returns the most recently started handle, or nil.
func (l *Loader) Current() *Handle {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.current
}

// Stop cancels the current run, suppresses its delivery and waits for
// outstanding goroutines to exit.
func (l *Loader) Stop() {
	l.mu.Lock()
	l.stopped = true
	if l.current != nil {
		l.current.Cancel()
	}
	l.mu.Unlock()
	l.wg.Wait()
}
