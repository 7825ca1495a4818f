// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/pdiddy/news-reader/internal/output"
	"github.com/pdiddy/news-reader/pkg/types"
)

var searchCmd = &cobra.Command{
	Use:   "search [keyword...]",
	Short: "Fetch articles matching a keyword",
	Long: `Search builds the content API query for a keyword, fetches it and prints
the articles in response order. Positional arguments are joined into the
keyword; without them the configured keyword is used.

Malformed entries in the response are skipped with a warning. With --strict
a single malformed entry discards the whole batch.

Use --save to keep the result in a YAML file and --load to print a saved
file again without contacting the API.`,
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	jsonOutput, _ := cmd.Flags().GetBool("json")
	yamlOutput, _ := cmd.Flags().GetBool("yaml")
	savePath, _ := cmd.Flags().GetString("save")
	loadPath, _ := cmd.Flags().GetString("load")
	record, _ := cmd.Flags().GetBool("archive")

	if jsonOutput && yamlOutput {
		return fmt.Errorf("--json and --yaml are mutually exclusive")
	}

	if loadPath != "" {
		ss, err := output.ReadSavedSearch(loadPath)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Saved search %q from %s\n", ss.Keyword, ss.Summary.Timestamp.Format("2006-01-02 15:04"))
		return printArticles(ss, ss.Articles, jsonOutput, yamlOutput)
	}

	cfg, err := currentConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	keyword := keywordFromArgs(args, cfg.Keyword)
	res := newPipeline(cfg, logger).Run(ctx, keyword)

	if record {
		store, err := openArchive(ctx, cfg)
		if err != nil {
			return err
		}
		defer store.Close()
		if err := store.Record(ctx, res); err != nil {
			return fmt.Errorf("recording search: %w", err)
		}
	}

	if res.Err != nil {
		return fmt.Errorf("search %q failed: %s", keyword, res.ErrorText())
	}
	if len(res.Skipped) > 0 {
		fmt.Fprintf(os.Stderr, "Skipped %d malformed result(s)\n", len(res.Skipped))
	}

	if savePath != "" {
		if err := output.WriteSavedSearch(savePath, res); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Saved to %s\n", savePath)
	}

	return printArticles(res.Redacted(), res.Articles, jsonOutput, yamlOutput)
}

// printArticles writes whole (JSON or YAML) or articles (table) to stdout.
func printArticles(whole any, articles []types.Article, jsonOutput, yamlOutput bool) error {
	switch {
	case jsonOutput:
		return output.FormatJSON(whole, os.Stdout)
	case yamlOutput:
		return output.FormatYAML(whole, os.Stdout)
	default:
		output.FormatTable(articles, os.Stdout)
		return nil
	}
}

func init() {
	searchCmd.Flags().Bool("json", false, "output the result as JSON")
	searchCmd.Flags().Bool("yaml", false, "output the result as YAML")
	searchCmd.Flags().String("save", "", "write the result to a YAML file")
	searchCmd.Flags().String("load", "", "print a saved search instead of fetching")
	searchCmd.Flags().Bool("archive", false, "record the result in the archive")

	rootCmd.AddCommand(searchCmd)
}
