// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package guardian

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/news-reader/pkg/types"
)

func TestSanitizeKeyword(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"punctuation case and spacing", "Climate-Change!!  News", "climate%20change%20news"},
		{"already clean", "football", "football"},
		{"digits kept", "Euro 2024", "euro%202024"},
		{"leading and trailing space survive once", "  brexit  ", "%20brexit%20"},
		{"non-ascii becomes space", "café société", "caf%20soci%20t%20"},
		{"only punctuation", "?!", "%20"},
		{"empty", "", ""},
		{"tabs and newlines", "a\tb\nc", "a%20b%20c"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeKeyword(tt.raw))
		})
	}
}

func TestBuildURL(t *testing.T) {
	tests := []struct {
		name    string
		base    string
		keyword string
		want    string
	}{
		{
			name:    "appends to existing query",
			base:    "https://content.guardianapis.com/search?format=json&page-size=42",
			keyword: "Climate-Change!!  News",
			want:    "https://content.guardianapis.com/search?format=json&page-size=42&q=climate%20change%20news",
		},
		{
			name:    "base without query",
			base:    "https://content.guardianapis.com/search",
			keyword: "test",
			want:    "https://content.guardianapis.com/search?q=test",
		},
		{
			name:    "empty keyword",
			base:    "http://localhost:8080/search?format=json",
			keyword: "",
			want:    "http://localhost:8080/search?format=json&q=",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BuildURL(tt.base, tt.keyword)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuildURLIdempotent(t *testing.T) {
	base := BaseEndpoint(types.GuardianConfig{})
	first, err := BuildURL(base, "World Cup, 2026?")
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := BuildURL(base, "World Cup, 2026?")
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestBuildURLMalformedEndpoint(t *testing.T) {
	for _, base := range []string{"", "://nope", "not a url", "/search?format=json"} {
		t.Run(base, func(t *testing.T) {
			_, err := BuildURL(base, "test")
			assert.ErrorIs(t, err, ErrMalformedEndpoint)
		})
	}
}

func TestBaseEndpointDefaults(t *testing.T) {
	got := BaseEndpoint(types.GuardianConfig{})
	want := "https://content.guardianapis.com/search?format=json&from-date=2017-01-01" +
		"&show-tags=contributor&show-fields=starRating,headline,thumbnail,short-url" +
		"&page-size=42&api-key=test"
	assert.Equal(t, want, got)
}

func TestBaseEndpointCustom(t *testing.T) {
	got := BaseEndpoint(types.GuardianConfig{
		Endpoint:   "http://127.0.0.1:9999/search",
		APIKey:     "k&y",
		FromDate:   "2024-05-01",
		ShowFields: "thumbnail, short-url",
		PageSize:   10,
	})
	assert.Equal(t,
		"http://127.0.0.1:9999/search?format=json&from-date=2024-05-01&show-tags=contributor"+
			"&show-fields=thumbnail,short-url&page-size=10&api-key=k%26y",
		got)
}
