// Package jobs holds the scheduled jobs wired into the scheduler.
package jobs

import (
	"context"
	"fmt"
	"strings"

	"github.com/nolan-veed/divcast/internal/research"
	"github.com/nolan-veed/divcast/pkg/config"
	"github.com/nolan-veed/divcast/pkg/logger"
)

// WatchlistRefreshJob re-fetches every watchlist ticker so the cache stays
// warm and the next estimates run against fresh feed data.
type WatchlistRefreshJob struct {
	service  *research.Service
	schedule string
	symbols  []string
	logger   *logger.Logger
}

// NewWatchlistRefreshJob creates the refresh job from config.
func NewWatchlistRefreshJob(svc *research.Service, cfg *config.Config, log *logger.Logger) *WatchlistRefreshJob {
	return &WatchlistRefreshJob{
		service:  svc,
		schedule: cfg.Scheduler.RefreshSpec,
		symbols:  splitWatchlist(cfg.Scheduler.Watchlist),
		logger:   log,
	}
}

// Name returns the job name
func (j *WatchlistRefreshJob) Name() string {
	return "watchlist_refresh"
}

// Schedule returns the cron schedule
func (j *WatchlistRefreshJob) Schedule() string {
	return j.schedule
}

// Run refreshes every watchlist ticker. Individual failures are collected
// rather than aborting the pass; the job fails only when every refresh does.
func (j *WatchlistRefreshJob) Run(ctx context.Context) error {
	if len(j.symbols) == 0 {
		j.logger.Warn("Watchlist is empty, nothing to refresh")
		return nil
	}

	j.logger.WithField("symbols", len(j.symbols)).Info("Starting watchlist refresh")

	failed := 0
	for _, symbol := range j.symbols {
		if _, err := j.service.Refresh(ctx, symbol); err != nil {
			failed++
			j.logger.WithError(err).WithField("symbol", symbol).Warn("Refresh failed")
		}
	}

	if failed == len(j.symbols) {
		return fmt.Errorf("all %d watchlist refreshes failed", failed)
	}

	j.logger.WithFields(map[string]interface{}{
		"total":  len(j.symbols),
		"failed": failed,
	}).Info("Watchlist refresh completed")
	return nil
}

// splitWatchlist parses the comma-separated watchlist config value.
func splitWatchlist(raw string) []string {
	var symbols []string
	for _, s := range strings.Split(raw, ",") {
		if s = strings.TrimSpace(s); s != "" {
			symbols = append(symbols, strings.ToUpper(s))
		}
	}
	return symbols
}
