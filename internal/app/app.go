package app

import (
	"context"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/tuannvm/gobooks/internal/auth"
	"github.com/tuannvm/gobooks/internal/config"
	"github.com/tuannvm/gobooks/internal/logger"
	"github.com/tuannvm/gobooks/internal/metrics"
	"github.com/tuannvm/gobooks/internal/search"
	"github.com/tuannvm/gobooks/internal/services/books"
	"github.com/tuannvm/gobooks/internal/tui"
)

// Setup configures logging and, when requested, the metrics listener. The
// returned closer must be called on exit.
func Setup(ctx context.Context, cfg *config.Config, interactive bool) (io.Closer, error) {
	closer, err := logger.Setup(logger.Options{
		Level: cfg.LogLevel,
		Debug: cfg.Debug,
		File:  cfg.LogFile,
		Quiet: interactive,
	})
	if err != nil {
		return nil, err
	}

	if cfg.MetricsAddr != "" {
		metrics.Serve(ctx, cfg.MetricsAddr)
	}
	if !auth.NewService(cfg).IsAuthenticated() {
		logrus.Warn("no Google Books API key configured; searches will fail until one is set")
	}
	return closer, nil
}

// Run initializes and runs the interactive search UI.
func Run(ctx context.Context, cfg *config.Config) error {
	closer, err := Setup(ctx, cfg, true)
	if err != nil {
		return err
	}
	defer closer.Close()

	svc := books.NewService(cfg)
	ctrl := search.New(ctx, svc, search.Options{
		DefaultQuery: cfg.DefaultQuery,
		Debounce:     cfg.Debounce,
	})

	ui := tui.NewApp(cfg, ctrl)
	logrus.WithFields(logrus.Fields{
		"base_url":    cfg.BaseURL,
		"max_results": cfg.MaxResults,
		"debounce":    cfg.Debounce,
	}).Info("starting search UI")

	if err := ui.Run(ctx); err != nil {
		return fmt.Errorf("search UI: %w", err)
	}
	return nil
}
