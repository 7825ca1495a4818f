// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the news-reader CLI.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/news-reader/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds values loaded from .secrets/ at startup.
var loadedSecrets secrets.Secrets

// rootCmd is the base command for the news-reader CLI.
var rootCmd = &cobra.Command{
	Use:   "news-reader",
	Short: "Fetch and read news from The Guardian content API",
	Long: `news-reader queries The Guardian content search API for a keyword and
prints the matching articles with their section and contributors.

The keyword comes from --keyword, the NEWS_READER_KEYWORD environment
variable or the keyword setting in news-reader.yaml, in that order.
Results can be archived to SQLite or PostgreSQL, refreshed on a schedule
with watch, or served as JSON with serve.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading .env: %w", err)
		}

		s, err := secrets.Load(".secrets/", os.Stderr)
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./news-reader.yaml or ~/.config/news-reader/news-reader.yaml)")
	pf.String("keyword", "", "search keyword (overrides the keyword setting)")
	pf.String("log-level", "", "log level: debug, info, warn, error")
	pf.Bool("strict", false, "discard the whole batch when any result is malformed")

	viper.BindPFlag("keyword", pf.Lookup("keyword"))
	viper.BindPFlag("log_level", pf.Lookup("log-level"))
	viper.BindPFlag("strict", pf.Lookup("strict"))

	setDefaults(viper.GetViper())
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("news-reader")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "news-reader"))
		}
	}

	viper.SetEnvPrefix("NEWS_READER")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
