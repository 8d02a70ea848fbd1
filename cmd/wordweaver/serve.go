package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alvmarrod/word-weaver/internal/api"
	"github.com/alvmarrod/word-weaver/internal/config"
	"github.com/alvmarrod/word-weaver/internal/crawler"
	"github.com/alvmarrod/word-weaver/internal/metrics"
	"github.com/alvmarrod/word-weaver/internal/version"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// NewServeCmd creates the serve command
func NewServeCmd(opts *rootOptions) *cobra.Command {
	var listenAddr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the word-frequency HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			if listenAddr != "" {
				cfg.ListenAddr = listenAddr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return runServer(ctx, cfg)
		},
	}

	cmd.Flags().StringVarP(&listenAddr, "listen", "l", "", "Listen address (overrides listen_addr)")

	return cmd
}

// runServer serves the API until ctx is cancelled, then shuts down and
// writes the final metrics
func runServer(ctx context.Context, cfg *config.Config) error {
	logrus.Infof("Word Weaver v%s starting...", version.Version)
	logrus.Infof("Configuration loaded: base=%s, links=%d, pool=%d/%d, retries=%d",
		cfg.BaseURL, cfg.MaxLinksPerArticle, cfg.MaxConnections, cfg.MaxIdleConnections, cfg.RetryAttempts)

	fetcher := crawler.NewWikiFetcher(cfg)
	defer fetcher.Close()

	tracker := metrics.NewTracker()

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           api.NewServer(cfg, fetcher, tracker).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logrus.Infof("Listening on %s", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})

	// Progress logger
	g.Go(func() error {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				logrus.Info(tracker.LogProgress())
			case <-gctx.Done():
				return nil
			}
		}
	})

	g.Go(func() error {
		<-gctx.Done()
		logrus.Info("Initiating graceful shutdown...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown failed: %w", err)
		}
		return nil
	})

	err := g.Wait()

	reason := "signal"
	if err != nil {
		reason = "error"
	}

	logrus.Info("Final stats: " + tracker.LogProgress())
	if werr := tracker.WriteToFile(cfg.MetricsPath, reason); werr != nil {
		logrus.Errorf("Failed to write metrics: %v", werr)
	} else {
		logrus.Infof("Metrics written to %s", cfg.MetricsPath)
	}

	logrus.Info("Shutdown complete. Goodbye!")
	return err
}
