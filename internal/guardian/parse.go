// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package guardian

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/pdiddy/news-reader/pkg/types"
)

// Parsed holds the articles extracted from one response body.
type Parsed struct {
	// Articles are the well-formed entries in response order.
	Articles []types.Article
	// Skipped lists entries that were dropped, in response order.
	Skipped []*RecordError
	// Total is the API's reported match count (response.total).
	Total int
}

// Parse decodes a search response body. An empty body yields an empty
// Parsed and no error. A body that is not JSON, or lacks response.results,
// yields an error matching ErrDecode. Individual malformed entries are
// skipped and reported in Parsed.Skipped without discarding their siblings.
func Parse(body string) (Parsed, error) {
	return parse(body, false)
}

// ParseStrict is Parse with whole-batch semantics: the first malformed entry
// aborts extraction, and no articles are returned alongside the
// *RecordError.
func ParseStrict(body string) (Parsed, error) {
	return parse(body, true)
}

func parse(body string, strict bool) (Parsed, error) {
	if strings.TrimSpace(body) == "" {
		return Parsed{}, nil
	}

	var env searchEnvelope
	if err := json.Unmarshal([]byte(body), &env); err != nil {
		return Parsed{}, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if env.Response == nil {
		return Parsed{}, fmt.Errorf("%w: missing response object", ErrDecode)
	}
	if env.Response.Results == nil {
		return Parsed{}, fmt.Errorf("%w: missing response.results", ErrDecode)
	}

	out := Parsed{Total: env.Response.Total}
	for i, raw := range *env.Response.Results {
		a, recErr := decodeArticle(i, raw)
		if recErr != nil {
			if strict {
				return Parsed{Total: out.Total}, recErr
			}
			out.Skipped = append(out.Skipped, recErr)
			continue
		}
		out.Articles = append(out.Articles, a)
	}
	return out, nil
}

func decodeArticle(index int, raw json.RawMessage) (types.Article, *RecordError) {
	var ra resultArticle
	if err := json.Unmarshal(raw, &ra); err != nil {
		return types.Article{}, &RecordError{Index: index, Err: err}
	}
	if string(raw) == "null" {
		return types.Article{}, &RecordError{Index: index, Err: fmt.Errorf("null entry")}
	}

	switch {
	case ra.WebURL == "":
		return types.Article{}, &RecordError{Index: index, Field: "webUrl"}
	case ra.WebTitle == "":
		return types.Article{}, &RecordError{Index: index, Field: "webTitle"}
	case ra.SectionName == "":
		return types.Article{}, &RecordError{Index: index, Field: "sectionName"}
	}

	names := make([]string, 0, len(ra.Tags))
	for j, tag := range ra.Tags {
		field := fmt.Sprintf("tags[%d].webTitle", j)
		if tag == nil || tag.WebTitle == nil {
			return types.Article{}, &RecordError{Index: index, Field: field}
		}
		names = append(names, *tag.WebTitle)
	}

	a := types.Article{
		URL:     ra.WebURL,
		Title:   ra.WebTitle,
		Section: ra.SectionName,
		Authors: types.JoinAuthors(names),
		ID:      ra.ID,
	}
	if ra.WebPublicationDate != "" {
		if t, err := time.Parse(time.RFC3339, ra.WebPublicationDate); err == nil {
			a.Published = t
		}
	}
	if ra.Fields != nil {
		a.Thumbnail = ra.Fields.Thumbnail
		a.ShortURL = ra.Fields.ShortURL
	}
	return a, nil
}

// Content API JSON structures. Results are kept raw so that one malformed
// entry does not fail the decode of the whole envelope.
type searchEnvelope struct {
	Response *searchResponse `json:"response"`
}

type searchResponse struct {
	Status      string             `json:"status"`
	Total       int                `json:"total"`
	PageSize    int                `json:"pageSize"`
	CurrentPage int                `json:"currentPage"`
	Pages       int                `json:"pages"`
	Results     *[]json.RawMessage `json:"results"`
}

type resultArticle struct {
	ID                 string         `json:"id"`
	WebURL             string         `json:"webUrl"`
	WebTitle           string         `json:"webTitle"`
	SectionName        string         `json:"sectionName"`
	WebPublicationDate string         `json:"webPublicationDate"`
	Fields             *resultFields  `json:"fields"`
	Tags               []*contributor `json:"tags"`
}

type resultFields struct {
	Headline  string `json:"headline"`
	Thumbnail string `json:"thumbnail"`
	ShortURL  string `json:"shortUrl"`
}

type contributor struct {
	ID       string  `json:"id"`
	Type     string  `json:"type"`
	WebTitle *string `json:"webTitle"`
}
