// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/news-reader/internal/archive"
	"github.com/pdiddy/news-reader/internal/output"
	"github.com/pdiddy/news-reader/pkg/types"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List archived articles or past fetches",
	Long: `History reads the archive written by search --archive and watch. By
default it lists stored articles, newest publication first, optionally
filtered by keyword or section. With --fetches it lists the recorded runs
instead, including failed ones.`,
	RunE: runHistory,
}

func runHistory(cmd *cobra.Command, args []string) error {
	section, _ := cmd.Flags().GetString("section")
	keyword, _ := cmd.Flags().GetString("keyword")
	limit, _ := cmd.Flags().GetInt("limit")
	jsonOutput, _ := cmd.Flags().GetBool("json")
	showFetches, _ := cmd.Flags().GetBool("fetches")

	cfg, err := currentConfig()
	if err != nil {
		return err
	}

	ctx := context.Background()
	store, err := openArchive(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	if showFetches {
		fetches, err := store.Fetches(ctx, limit)
		if err != nil {
			return err
		}
		if jsonOutput {
			return output.FormatJSON(fetches, os.Stdout)
		}
		output.FormatFetches(fetches, os.Stdout)
		return nil
	}

	stored, err := store.Articles(ctx, archive.Filter{
		Keyword: keyword,
		Section: section,
		Limit:   limit,
	})
	if err != nil {
		return err
	}
	if jsonOutput {
		return output.FormatJSON(stored, os.Stdout)
	}

	articles := make([]types.Article, len(stored))
	for i, s := range stored {
		articles[i] = s.Article
	}
	output.FormatTable(articles, os.Stdout)
	return nil
}

func init() {
	historyCmd.Flags().String("section", "", "filter by section name (case-insensitive)")
	historyCmd.Flags().String("keyword", "", "filter by the keyword that fetched the article")
	historyCmd.Flags().Int("limit", 0, "maximum rows (0 = archive.max_results)")
	historyCmd.Flags().Bool("json", false, "output results as JSON")
	historyCmd.Flags().Bool("fetches", false, "list recorded fetches instead of articles")

	rootCmd.AddCommand(historyCmd)
}
