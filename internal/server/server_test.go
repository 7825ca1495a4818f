// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/news-reader/internal/archive"
	"github.com/pdiddy/news-reader/internal/guardian"
	"github.com/pdiddy/news-reader/pkg/types"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const twoResults = `{"response":{"status":"ok","total":2,"results":[
	{"webUrl":"https://example.com/a","webTitle":"A","sectionName":"News","tags":[{"webTitle":"Name A"}]},
	{"webUrl":"https://example.com/b","webTitle":"B","sectionName":"Sport"},
	{"webTitle":"broken","sectionName":"News"}
]}}`

// upstream fakes the content API, answering with status and body and
// recording the last q parameter.
func upstream(t *testing.T, status int, body string) (*httptest.Server, *string) {
	t.Helper()
	var gotQ string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQ = r.URL.Query().Get("q")
		w.WriteHeader(status)
		io.WriteString(w, body)
	}))
	t.Cleanup(ts.Close)
	return ts, &gotQ
}

func pipelineFor(ts *httptest.Server) *guardian.Pipeline {
	return guardian.NewPipeline(
		types.GuardianConfig{Endpoint: ts.URL + "/search"},
		types.HTTPConfig{ConnectTimeout: time.Second, ReadTimeout: time.Second},
		nil,
	)
}

func get(t *testing.T, h http.Handler, target string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return w, body
}

func TestHealthz(t *testing.T) {
	h := New(&guardian.Pipeline{}, nil, "technology", nil).Handler()
	w, body := get(t, h, "/healthz")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["ok"])
}

func TestArticles(t *testing.T) {
	ts, gotQ := upstream(t, http.StatusOK, twoResults)
	h := New(pipelineFor(ts), nil, "technology", nil).Handler()

	w, body := get(t, h, "/articles?q=Climate-Change")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "climate change", *gotQ)
	assert.Equal(t, "Climate-Change", body["keyword"])
	assert.EqualValues(t, 1, body["skipped"])
	assert.NotContains(t, body, "error")

	articles, ok := body["articles"].([]any)
	require.True(t, ok)
	require.Len(t, articles, 2)
	first := articles[0].(map[string]any)
	assert.Equal(t, "https://example.com/a", first["url"])
	assert.Equal(t, "Name A", first["authors"])
}

func TestArticlesDefaultKeyword(t *testing.T) {
	ts, gotQ := upstream(t, http.StatusOK, `{"response":{"results":[]}}`)
	h := New(pipelineFor(ts), nil, "technology", nil).Handler()

	w, body := get(t, h, "/articles")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "technology", *gotQ)
	assert.Equal(t, []any{}, body["articles"])
}

func TestArticlesFailures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   int
	}{
		{"upstream 404", http.StatusNotFound, "", http.StatusBadGateway},
		{"upstream 500", http.StatusInternalServerError, "", http.StatusBadGateway},
		{"bad json", http.StatusOK, "{", http.StatusBadGateway},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts, _ := upstream(t, tt.status, tt.body)
			h := New(pipelineFor(ts), nil, "technology", nil).Handler()

			w, body := get(t, h, "/articles?q=x")
			assert.Equal(t, tt.want, w.Code)
			assert.NotEmpty(t, body["error"])
			assert.Equal(t, []any{}, body["articles"])
		})
	}
}

func TestArticlesMalformedEndpoint(t *testing.T) {
	h := New(&guardian.Pipeline{Endpoint: "::bad"}, nil, "technology", nil).Handler()
	w, body := get(t, h, "/articles?q=x")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, body["error"], "malformed endpoint")
}

func TestArticlesHideAPIKey(t *testing.T) {
	for _, status := range []int{http.StatusOK, http.StatusNotFound} {
		t.Run(http.StatusText(status), func(t *testing.T) {
			ts, _ := upstream(t, status, twoResults)
			p := guardian.NewPipeline(
				types.GuardianConfig{Endpoint: ts.URL + "/search", APIKey: "SUPERSECRET"},
				types.HTTPConfig{ConnectTimeout: time.Second, ReadTimeout: time.Second},
				nil,
			)
			h := New(p, nil, "technology", nil).Handler()

			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/articles?q=x", nil))
			assert.NotContains(t, w.Body.String(), "SUPERSECRET")
			assert.Contains(t, w.Body.String(), "api-key=REDACTED")
		})
	}
}

func TestArchiveNotConfigured(t *testing.T) {
	h := New(&guardian.Pipeline{}, nil, "technology", nil).Handler()
	w, body := get(t, h, "/archive")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "archive not configured", body["error"])
}

func TestArchive(t *testing.T) {
	store, err := archive.Open(context.Background(), types.ArchiveConfig{
		DSN: filepath.Join(t.TempDir(), "archive.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, store.Record(context.Background(), guardian.Result{
		ID:      "run-1",
		Keyword: "climate",
		Articles: []types.Article{
			{URL: "https://example.com/a", Title: "A", Section: "Environment"},
			{URL: "https://example.com/b", Title: "B", Section: "Sport"},
		},
		Started:  now,
		Finished: now,
	}))

	h := New(&guardian.Pipeline{}, store, "technology", nil).Handler()

	w, body := get(t, h, "/archive")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 2, body["count"])

	w, body = get(t, h, "/archive?section=environment")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, body["count"])
	articles := body["articles"].([]any)
	assert.Equal(t, "climate", articles[0].(map[string]any)["keyword"])

	w, body = get(t, h, "/archive?keyword=football")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 0, body["count"])
	assert.Equal(t, []any{}, body["articles"])

	w, _ = get(t, h, "/archive?limit=abc")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusOK, statusFor(nil))
	assert.Equal(t, http.StatusInternalServerError, statusFor(guardian.ErrMalformedEndpoint))
	assert.Equal(t, http.StatusBadGateway, statusFor(&guardian.FetchError{StatusCode: 404}))
	assert.Equal(t, http.StatusBadGateway, statusFor(guardian.ErrDecode))
	assert.Equal(t, http.StatusBadGateway, statusFor(&guardian.RecordError{Field: "webUrl"}))
}

func TestListenAndServeShutsDown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := New(&guardian.Pipeline{}, nil, "technology", nil)

	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx, "127.0.0.1:0") }()
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
