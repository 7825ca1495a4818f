// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package output renders articles for the terminal and for files.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/news-reader/pkg/types"
)

const (
	titleWidth   = 60
	sectionWidth = 16
	authorsWidth = 24
)

// FormatTable writes articles as an aligned table. Column widths are
// measured in terminal cells so wide runes do not break the layout.
func FormatTable(articles []types.Article, w io.Writer) {
	if len(articles) == 0 {
		fmt.Fprintln(w, "No news for now.")
		return
	}

	fmt.Fprintf(w, "%-4s  %s  %s  %s  %s\n", "#",
		pad("Title", titleWidth), pad("Section", sectionWidth), pad("Authors", authorsWidth), "URL")
	fmt.Fprintln(w, strings.Repeat("-", 4+2+titleWidth+2+sectionWidth+2+authorsWidth+2+40))

	for i, a := range articles {
		fmt.Fprintf(w, "%-4d  %s  %s  %s  %s\n", i+1,
			pad(a.Title, titleWidth),
			pad(a.Section, sectionWidth),
			pad(formatAuthors(a.Contributors()), authorsWidth),
			a.URL)
	}
	fmt.Fprintf(w, "\n%d articles\n", len(articles))
}

// pad truncates s to width cells (with an ellipsis) and right-pads it.
func pad(s string, width int) string {
	s = runewidth.Truncate(s, width, "...")
	return runewidth.FillRight(s, width)
}

func formatAuthors(names []string) string {
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	default:
		return names[0] + " et al."
	}
}

// FormatJSON writes v as indented JSON.
func FormatJSON(v any, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// FormatYAML writes v as a YAML document.
func FormatYAML(v any, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
