// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package guardian

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRedactURL(t *testing.T) {
	tests := []struct{ in, want string }{
		{"https://h/search?format=json&api-key=k&q=x", "https://h/search?format=json&api-key=REDACTED&q=x"},
		{"https://h/search?q=x", "https://h/search?q=x"},
		{"https://h/search", "https://h/search"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, RedactURL(tt.in))
	}
}

func TestResultRedacted(t *testing.T) {
	raw := "https://h/search?format=json&api-key=SUPERSECRET&q=x"
	res := Result{
		URL: raw,
		Err: &FetchError{URL: raw, StatusCode: 404},
	}

	red := res.Redacted()
	assert.Equal(t, "https://h/search?format=json&api-key=REDACTED&q=x", red.URL)
	assert.Equal(t, raw, res.URL, "the original result is left untouched")

	msg := res.ErrorText()
	assert.NotContains(t, msg, "SUPERSECRET")
	assert.Contains(t, msg, "api-key=REDACTED")
	assert.Contains(t, msg, "HTTP 404")

	assert.Empty(t, Result{URL: raw}.ErrorText())
}
