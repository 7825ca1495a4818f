// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package guardian

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/news-reader/pkg/types"
)

// bodyTracker wraps a RoundTripper and records whether every response body
// handed to the caller was closed.
type bodyTracker struct {
	base   http.RoundTripper
	mu     sync.Mutex
	bodies []*trackedBody
}

type trackedBody struct {
	io.ReadCloser
	closed atomic.Bool
}

func (b *trackedBody) Close() error {
	b.closed.Store(true)
	return b.ReadCloser.Close()
}

func (t *bodyTracker) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	tb := &trackedBody{ReadCloser: resp.Body}
	resp.Body = tb
	t.mu.Lock()
	t.bodies = append(t.bodies, tb)
	t.mu.Unlock()
	return resp, nil
}

func (t *bodyTracker) allClosed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, b := range t.bodies {
		if !b.closed.Load() {
			return false
		}
	}
	return len(t.bodies) > 0
}

func trackingFetcher() (*Fetcher, *bodyTracker) {
	tracker := &bodyTracker{base: &http.Transport{DisableKeepAlives: true}}
	return &Fetcher{Client: &http.Client{Transport: tracker}, UserAgent: "test/0.1"}, tracker
}

func TestFetchOK(t *testing.T) {
	var gotUA, gotAccept string
	var gotClose bool
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotAccept = r.Header.Get("Accept")
		gotClose = r.Close
		io.WriteString(w, `{"response":{"results":[]}}`)
	}))
	defer ts.Close()

	f, tracker := trackingFetcher()
	body, err := f.Fetch(context.Background(), ts.URL+"/search?q=test")
	require.NoError(t, err)
	assert.Equal(t, `{"response":{"results":[]}}`, body)
	assert.Equal(t, "test/0.1", gotUA)
	assert.Equal(t, "application/json", gotAccept)
	assert.True(t, gotClose, "request should ask the server to close the connection")
	assert.True(t, tracker.allClosed())
}

func TestFetchNon200(t *testing.T) {
	for _, status := range []int{http.StatusNotFound, http.StatusInternalServerError, http.StatusNoContent, http.StatusTooManyRequests} {
		t.Run(http.StatusText(status), func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(status)
				io.WriteString(w, "nope")
			}))
			defer ts.Close()

			f, tracker := trackingFetcher()
			body, err := f.Fetch(context.Background(), ts.URL)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrFetch)
			assert.Empty(t, body)

			var fe *FetchError
			require.ErrorAs(t, err, &fe)
			assert.Equal(t, status, fe.StatusCode)
			assert.True(t, tracker.allClosed(), "body must be closed on non-200")
		})
	}
}

func TestFetch404ClosesConnection(t *testing.T) {
	var closed atomic.Int32
	ts := httptest.NewUnstartedServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.NotFound(w, nil)
	}))
	ts.Config.ConnState = func(_ net.Conn, state http.ConnState) {
		if state == http.StateClosed {
			closed.Add(1)
		}
	}
	ts.Start()
	defer ts.Close()

	f := NewFetcher(types.HTTPConfig{ConnectTimeout: time.Second, ReadTimeout: time.Second})
	_, err := f.Fetch(context.Background(), ts.URL+"/search?q=test")
	require.ErrorIs(t, err, ErrFetch)

	assert.Eventually(t, func() bool { return closed.Load() == 1 }, 2*time.Second, 10*time.Millisecond)
}

func TestFetchTransportError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
	addr := ts.URL
	ts.Close()

	f := NewFetcher(types.HTTPConfig{ConnectTimeout: time.Second, ReadTimeout: time.Second})
	_, err := f.Fetch(context.Background(), addr)
	require.ErrorIs(t, err, ErrFetch)

	var fe *FetchError
	require.ErrorAs(t, err, &fe)
	assert.Zero(t, fe.StatusCode)
	assert.NotNil(t, fe.Err)
}

func TestFetchReadTimeout(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	defer ts.Close()

	f := NewFetcher(types.HTTPConfig{ConnectTimeout: time.Second, ReadTimeout: 50 * time.Millisecond})
	_, err := f.Fetch(context.Background(), ts.URL)
	assert.ErrorIs(t, err, ErrFetch)
}

func TestFetchMalformedURL(t *testing.T) {
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
	}))
	defer ts.Close()

	f := &Fetcher{Client: ts.Client()}
	for _, u := range []string{"", "not a url", "%zz"} {
		_, err := f.Fetch(context.Background(), u)
		assert.ErrorIs(t, err, ErrMalformedEndpoint, "url %q", u)
	}
	assert.Zero(t, calls.Load(), "no request may be sent for a malformed URL")
}

func TestFetchInvalidUTF8Replaced(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte{'o', 'k', 0xff})
	}))
	defer ts.Close()

	f, _ := trackingFetcher()
	body, err := f.Fetch(context.Background(), ts.URL)
	require.NoError(t, err)
	assert.Equal(t, "ok�", body)
}

func TestFetchContextCancelled(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer ts.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f, _ := trackingFetcher()
	_, err := f.Fetch(ctx, ts.URL)
	assert.ErrorIs(t, err, ErrFetch)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFetchNon200DoesNotWaitForErrorBody(t *testing.T) {
	release := make(chan struct{})
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		io.WriteString(w, "partial error page")
		w.(http.Flusher).Flush()
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer ts.Close()
	defer close(release)

	f := NewFetcher(types.HTTPConfig{ConnectTimeout: time.Second, ReadTimeout: 5 * time.Second})
	start := time.Now()
	_, err := f.Fetch(context.Background(), ts.URL)
	require.ErrorIs(t, err, ErrFetch)
	assert.Less(t, time.Since(start), 2*time.Second)
}
