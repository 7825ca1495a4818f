// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/news-reader/internal/archive"
	"github.com/pdiddy/news-reader/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve articles and the archive as JSON over HTTP",
	Long: `Serve starts a read-only HTTP API:

  GET /healthz                              liveness check
  GET /articles?q=<keyword>                 run the pipeline for a keyword
  GET /archive?keyword=&section=&limit=     query archived articles

/articles falls back to the configured keyword when q is empty. With
--archive the /archive endpoint reads the configured archive; otherwise it
answers 404.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	withArchive, _ := cmd.Flags().GetBool("archive")

	cfg, err := currentConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)
	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var store *archive.Store
	if withArchive {
		store, err = openArchive(ctx, cfg)
		if err != nil {
			return err
		}
		defer store.Close()
	}

	srv := server.New(newPipeline(cfg, logger), store, cfg.Keyword, logger)
	return srv.ListenAndServe(ctx, cfg.Serve.Addr)
}

func init() {
	serveCmd.Flags().String("addr", ":8080", "listen address")
	serveCmd.Flags().Bool("archive", false, "expose the archive at /archive")
	viper.BindPFlag("serve.addr", serveCmd.Flags().Lookup("addr"))

	rootCmd.AddCommand(serveCmd)
}
