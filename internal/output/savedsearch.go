// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package output

import (
	"errors"
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/news-reader/internal/guardian"
	"github.com/pdiddy/news-reader/pkg/types"
)

// SavedSearch is the on-disk form of one pipeline run, so a search can be
// reviewed later without querying the API again.
type SavedSearch struct {
	ID       string          `yaml:"id"`
	Keyword  string          `yaml:"keyword"`
	URL      string          `yaml:"url"`
	Articles []types.Article `yaml:"articles"`
	Summary  SearchSummary   `yaml:"summary"`
}

// SearchSummary records counts and timing for a saved search.
type SearchSummary struct {
	Total     int       `yaml:"total"`
	Returned  int       `yaml:"returned"`
	Skipped   []string  `yaml:"skipped,omitempty"`
	Timestamp time.Time `yaml:"timestamp"`
}

// WriteSavedSearch saves a successful result to path as YAML. Failed
// results are refused: there is nothing worth replaying.
func WriteSavedSearch(path string, res guardian.Result) error {
	if res.Err != nil {
		return fmt.Errorf("not saving failed search: %w", res.Err)
	}

	ss := SavedSearch{
		ID:       res.ID,
		Keyword:  res.Keyword,
		URL:      guardian.RedactURL(res.URL),
		Articles: res.Articles,
		Summary: SearchSummary{
			Total:     res.Total,
			Returned:  len(res.Articles),
			Timestamp: res.Finished,
		},
	}
	for _, s := range res.Skipped {
		ss.Summary.Skipped = append(ss.Summary.Skipped, s.Error())
	}

	data, err := yaml.Marshal(&ss)
	if err != nil {
		return fmt.Errorf("marshaling saved search: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadSavedSearch loads a file written by WriteSavedSearch.
func ReadSavedSearch(path string) (*SavedSearch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading saved search: %w", err)
	}
	var ss SavedSearch
	if err := yaml.Unmarshal(data, &ss); err != nil {
		return nil, fmt.Errorf("parsing saved search: %w", err)
	}
	if ss.Keyword == "" && len(ss.Articles) == 0 {
		return nil, errors.New("parsing saved search: no keyword or articles")
	}
	return &ss, nil
}
