// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/news-reader/internal/archive"
	"github.com/pdiddy/news-reader/internal/guardian"
	"github.com/pdiddy/news-reader/internal/output"
	"github.com/pdiddy/news-reader/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch [keyword...]",
	Short: "Refresh articles on a schedule and archive every result",
	Long: `Watch fetches the configured keyword immediately and then again on the
--schedule cron spec (five-field cron or a descriptor such as "@every 5m").
Each result is printed and, unless --no-archive is set, recorded in the
archive.

Editing the keyword in the config file restarts the load at once: a request
still in flight for the old keyword is discarded and never printed.`,
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	schedule, _ := cmd.Flags().GetString("schedule")
	noArchive, _ := cmd.Flags().GetBool("no-archive")

	cfg, err := currentConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var store *archive.Store
	if !noArchive {
		store, err = openArchive(ctx, cfg)
		if err != nil {
			return err
		}
		defer store.Close()
	}

	runner := watch.NewRunner(newPipeline(cfg, logger), store, logger, printResult)
	if err := runner.Schedule(schedule); err != nil {
		return err
	}

	if viper.ConfigFileUsed() != "" {
		setting := newKeywordSetting(cfg.Keyword, func(kw string) { runner.SetKeyword(kw) })
		viper.OnConfigChange(func(e fsnotify.Event) {
			changed, err := currentConfig()
			if err != nil {
				logger.Warn("ignoring invalid config change", "file", e.Name, "err", err)
				return
			}
			setting.update(changed.Keyword)
		})
		viper.WatchConfig()
	}

	runner.SetKeyword(keywordFromArgs(args, cfg.Keyword))
	runner.Start()
	fmt.Fprintf(os.Stderr, "Watching %q (%s), press Ctrl-C to stop\n", runner.Keyword(), schedule)

	<-ctx.Done()
	runner.Stop()
	return nil
}

// keywordSetting remembers the keyword last read from the config file and
// calls restart only when that setting changes. Edits to other settings,
// or a keyword given on the command line, do not trigger a restart.
type keywordSetting struct {
	mu      sync.Mutex
	last    string
	restart func(string)
}

func newKeywordSetting(initial string, restart func(string)) *keywordSetting {
	return &keywordSetting{last: initial, restart: restart}
}

// update records the reloaded keyword and reports whether it restarted the load.
func (k *keywordSetting) update(keyword string) bool {
	k.mu.Lock()
	if keyword == k.last {
		k.mu.Unlock()
		return false
	}
	k.last = keyword
	k.mu.Unlock()

	k.restart(keyword)
	return true
}

func printResult(res guardian.Result) {
	stamp := res.Finished.Local().Format("15:04:05")
	if res.Err != nil {
		fmt.Fprintf(os.Stderr, "[%s] %s: %s\n", stamp, res.Keyword, res.ErrorText())
		return
	}
	fmt.Fprintf(os.Stdout, "\n[%s] %s\n%s\n", stamp, res.Keyword, strings.Repeat("=", 40))
	output.FormatTable(res.Articles, os.Stdout)
}

func init() {
	watchCmd.Flags().String("schedule", watch.DefaultSchedule, "cron spec for refreshes")
	watchCmd.Flags().Bool("no-archive", false, "do not record results in the archive")

	rootCmd.AddCommand(watchCmd)
}
