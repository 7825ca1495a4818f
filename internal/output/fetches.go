// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/news-reader/internal/archive"
)

const keywordWidth = 20

// FormatFetches writes recorded runs as an aligned table.
func FormatFetches(fetches []archive.Fetch, w io.Writer) {
	if len(fetches) == 0 {
		fmt.Fprintln(w, "No fetches recorded.")
		return
	}

	fmt.Fprintf(w, "%-36s  %s  %-19s  %8s  %8s  %s\n",
		"ID", pad("Keyword", keywordWidth), "Started", "Articles", "Skipped", "Error")
	fmt.Fprintln(w, strings.Repeat("-", 110))
	for _, f := range fetches {
		fmt.Fprintf(w, "%-36s  %s  %-19s  %8d  %8d  %s\n",
			f.ID, pad(f.Keyword, keywordWidth), f.Started.Local().Format("2006-01-02 15:04:05"),
			f.ArticleCount, f.SkippedCount, f.Error)
	}
	fmt.Fprintf(w, "\n%d fetches\n", len(fetches))
}
