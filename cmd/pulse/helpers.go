package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/repopulse/repopulse-go/internal/analytics"
	"github.com/repopulse/repopulse-go/internal/auth"
	"github.com/repopulse/repopulse-go/internal/cache"
	"github.com/repopulse/repopulse-go/internal/ingest"
	"github.com/repopulse/repopulse-go/internal/models"
	"github.com/repopulse/repopulse-go/internal/output"
	"github.com/repopulse/repopulse-go/internal/storage"
)

func splitRepo(arg string) (owner, name string, err error) {
	parts := strings.Split(arg, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("repository must be owner/name, got %q", arg)
	}
	return parts[0], parts[1], nil
}

// loadHistory fetches and normalizes history for a repository, going
// through the page cache when one is configured.
func loadHistory(ctx context.Context, repoArg string, since time.Time) (*models.History, error) {
	owner, name, err := splitRepo(repoArg)
	if err != nil {
		return nil, err
	}

	token := cfg.GitHub.Token
	if token == "" {
		token, err = auth.NewKeyring(logger).Token()
		if err != nil {
			return nil, err
		}
	}
	if token == "" {
		logger.Warn("no GitHub token configured, using unauthenticated rate limits")
	}

	var pageCache ingest.PageCache
	if cfg.Cache.Path != "" {
		c, err := cache.Open(cfg.Cache.Path, cfg.Cache.TTL)
		if err != nil {
			logger.WithError(err).Warn("cache unavailable, fetching without it")
		} else {
			defer c.Close()
			pageCache = c
		}
	}

	fetcher := ingest.NewFetcher(token, cfg.GitHub.RateLimit, pageCache, logger)
	raw, err := fetcher.Fetch(ctx, owner, name, since)
	if err != nil {
		return nil, err
	}

	h, skipped := ingest.NewNormalizer(logger).Normalize(raw)
	if skipped.Total() > 0 {
		logger.WithField("records", skipped.Total()).Warn("some malformed records were skipped")
	}
	return &h, nil
}

// analysisWindow computes the half-open window ending now.
func analysisWindow(days int) (models.Window, error) {
	if days <= 0 {
		days = cfg.Analysis.WindowDays
	}
	end := time.Now().UTC()
	return models.NewWindow(end.AddDate(0, 0, -days), end)
}

func openStore() (storage.Store, error) {
	switch cfg.Storage.Type {
	case "postgres":
		return storage.NewPostgresStore(cfg.Storage.PostgresDSN, logger)
	default:
		return storage.NewSQLiteStore(cfg.Storage.LocalPath, logger)
	}
}

func render(v any) error {
	f, err := output.ParseFormat(cfg.Output.Format)
	if err != nil {
		return err
	}
	return output.Render(os.Stdout, f, v)
}

func analysisOptions() analytics.Options {
	return cfg.AnalysisOptions()
}
