// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for news-reader: the
// normalized Article record produced by the Guardian pipeline and the
// configuration structs for each stage.
package types

import (
	"strings"
	"time"
)

// AuthorSeparator joins contributor names in Article.Authors.
const AuthorSeparator = ",\n"

// Article is one normalized news search result. URL, Title and Section are
// always non-empty for articles returned by the parser; Authors may be empty.
type Article struct {
	// URL is the web address of the source article (webUrl).
	URL string `json:"url" yaml:"url"`

	// Title is the headline (webTitle).
	Title string `json:"title" yaml:"title"`

	// Section is the category label (sectionName).
	Section string `json:"section" yaml:"section"`

	// Authors holds contributor names joined with AuthorSeparator, or "" if
	// the article credits no contributors.
	Authors string `json:"authors" yaml:"authors"`

	// ID is the Guardian content id (e.g. "world/2024/jan/01/slug").
	ID string `json:"id,omitempty" yaml:"id,omitempty"`

	// Published is the webPublicationDate, zero when absent.
	Published time.Time `json:"published,omitempty" yaml:"published,omitempty"`

	Thumbnail string `json:"thumbnail,omitempty" yaml:"thumbnail,omitempty"`
	ShortURL  string `json:"short_url,omitempty" yaml:"short_url,omitempty"`
}

// Contributors splits Authors back into individual names.
func (a Article) Contributors() []string {
	if a.Authors == "" {
		return nil
	}
	return strings.Split(a.Authors, AuthorSeparator)
}

// JoinAuthors joins contributor names the way Article.Authors stores them.
func JoinAuthors(names []string) string {
	return strings.Join(names, AuthorSeparator)
}
