// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server exposes the pipeline and the archive as a read-only JSON
// API built on gin.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pdiddy/news-reader/internal/archive"
	"github.com/pdiddy/news-reader/internal/guardian"
	"github.com/pdiddy/news-reader/internal/logging"
	"github.com/pdiddy/news-reader/pkg/types"
)

const shutdownTimeout = 5 * time.Second

// Server routes HTTP requests to a Pipeline and an optional archive Store.
type Server struct {
	pipeline       *guardian.Pipeline
	store          *archive.Store
	defaultKeyword string
	logger         *slog.Logger
}

// New returns a Server. store may be nil, in which case /archive answers 404.
func New(p *guardian.Pipeline, store *archive.Store, defaultKeyword string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Server{
		pipeline:       p,
		store:          store,
		defaultKeyword: defaultKeyword,
		logger:         logger,
	}
}

// articlesResponse is a pipeline Result with its error and skip count
// flattened for JSON.
type articlesResponse struct {
	guardian.Result
	SkippedCount int    `json:"skipped"`
	Error        string `json:"error,omitempty"`
}

// Handler builds the gin engine with all routes registered.
func (s *Server) Handler() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	r.GET("/articles", s.handleArticles)
	r.GET("/archive", s.handleArchive)
	return r
}

func (s *Server) handleArticles(c *gin.Context) {
	keyword := strings.TrimSpace(c.Query("q"))
	if keyword == "" {
		keyword = s.defaultKeyword
	}

	res := s.pipeline.Run(c.Request.Context(), keyword)
	if res.Articles == nil {
		res.Articles = []types.Article{}
	}
	body := articlesResponse{
		Result:       res.Redacted(),
		SkippedCount: len(res.Skipped),
		Error:        res.ErrorText(),
	}
	c.JSON(statusFor(res.Err), body)
}

// statusFor maps a pipeline failure to an HTTP status.
func statusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, guardian.ErrMalformedEndpoint):
		return http.StatusInternalServerError
	default:
		return http.StatusBadGateway
	}
}

func (s *Server) handleArchive(c *gin.Context) {
	if s.store == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "archive not configured"})
		return
	}

	f := archive.Filter{
		Keyword: c.Query("keyword"),
		Section: c.Query("section"),
	}
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid limit %q", v)})
			return
		}
		f.Limit = n
	}

	articles, err := s.store.Articles(c.Request.Context(), f)
	if err != nil {
		s.logger.Error("problem querying the archive", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "archive query failed"})
		return
	}
	if articles == nil {
		articles = []archive.StoredArticle{}
	}
	c.JSON(http.StatusOK, gin.H{"articles": articles, "count": len(articles)})
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"elapsed", time.Since(start))
	}
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
