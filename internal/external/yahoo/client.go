// Package yahoo fetches per-ticker quote info, ex-dividend history, and
// calendar snapshots from the Yahoo Finance endpoints and normalizes them
// into contracts types.
package yahoo

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/nolan-veed/divcast/internal/contracts"
	"github.com/nolan-veed/divcast/pkg/config"
	"github.com/nolan-veed/divcast/pkg/httputil"
	"github.com/nolan-veed/divcast/pkg/logger"
)

// Client handles communication with the Yahoo Finance feed.
type Client struct {
	httpClient   *httputil.Client
	logger       *logger.Logger
	baseURL      string
	quoteBaseURL string
	limiter      *rate.Limiter
}

// NewClient creates a new feed client. The local limiter bounds request
// rate within this process; the shared Redis limiter on the HTTP client
// bounds it across processes.
func NewClient(cfg *config.Config, httpClient *httputil.Client, log *logger.Logger) *Client {
	return &Client{
		httpClient:   httpClient,
		logger:       log.WithField("component", "yahoo.client"),
		baseURL:      cfg.Feed.BaseURL,
		quoteBaseURL: cfg.Feed.QuoteBaseURL,
		limiter:      rate.NewLimiter(rate.Limit(cfg.Feed.RateLimit), cfg.Feed.RateBurst),
	}
}

// FetchTicker fetches and normalizes everything the estimation engine needs
// for one ticker. A failed quote summary degrades to history-only data; only
// when every upstream source fails does the fetch itself error.
func (c *Client) FetchTicker(ctx context.Context, symbol string) (*contracts.TickerData, error) {
	if symbol == "" {
		return nil, fmt.Errorf("fetch ticker: empty symbol")
	}

	events, histErr := c.FetchDividendHistory(ctx, symbol)
	info, calendar, quoteErr := c.FetchQuoteSummary(ctx, symbol)

	if histErr != nil && quoteErr != nil {
		return nil, fmt.Errorf("fetch ticker %s: %w", symbol, histErr)
	}
	if histErr != nil {
		c.logger.WithError(histErr).WithField("symbol", symbol).Warn("Dividend history unavailable")
	}
	if quoteErr != nil {
		c.logger.WithError(quoteErr).WithField("symbol", symbol).Warn("Quote summary unavailable")
	}

	// The JSON calendar is the primary source; the quote page scrape is a
	// fallback for tickers where the summary omits it.
	if calendar.Empty() {
		scraped, err := c.ScrapeCalendar(ctx, symbol)
		if err != nil {
			c.logger.WithError(err).WithField("symbol", symbol).Debug("Calendar scrape failed")
		} else if !scraped.Empty() {
			calendar = scraped
		}
	}

	data := &contracts.TickerData{
		Symbol:    symbol,
		Info:      info,
		Events:    events,
		Calendar:  calendar,
		FetchedAt: time.Now().UTC(),
	}

	c.logger.WithFields(map[string]interface{}{
		"symbol":       symbol,
		"events":       len(events),
		"has_calendar": !calendar.Empty(),
	}).Debug("Fetched ticker")

	return data, nil
}

// wait blocks until the local rate limiter admits another request.
func (c *Client) wait(ctx context.Context) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait failed: %w", err)
	}
	return nil
}
