// Package research orchestrates dividend estimation: cache-aware fetching
// from the feed, engine invocation, batch evaluation, and snapshot
// persistence.
package research

import (
	"context"
	"sync"
	"time"

	"github.com/nolan-veed/divcast/internal/contracts"
	"github.com/nolan-veed/divcast/internal/dividend"
	"github.com/nolan-veed/divcast/pkg/logger"
	"github.com/nolan-veed/divcast/pkg/redis"
)

// defaultBatchWorkers bounds concurrent feed fetches in batch evaluation.
const defaultBatchWorkers = 4

// Estimate is one ticker's estimation result enriched with the income
// figures the quote info supports.
type Estimate struct {
	contracts.EstimationResult
	DividendRate       float64 `json:"dividend_rate,omitempty"`
	DividendRateMethod string  `json:"dividend_rate_method,omitempty"`
	PayoutRatio        float64 `json:"payout_ratio,omitempty"`
	PayoutRatioMethod  string  `json:"payout_ratio_method,omitempty"`
}

// BatchItem is one ticker's outcome inside a batch evaluation. Error is the
// message text so the whole batch stays JSON-serializable.
type BatchItem struct {
	Symbol   string    `json:"symbol"`
	Estimate *Estimate `json:"estimate,omitempty"`
	Error    string    `json:"error,omitempty"`
}

// Service coordinates feed, cache, engine, and snapshot store.
type Service struct {
	feed    contracts.FeedClient
	cache   contracts.TickerCache
	repo    contracts.SnapshotRepository
	engine  *dividend.Engine
	logger  *logger.Logger
	ttl     time.Duration
	workers int

	// inflight dedupes concurrent fetches of the same symbol so a cache
	// miss triggers at most one upstream refresh per process.
	mu       sync.Mutex
	inflight map[string]*fetchCall
}

type fetchCall struct {
	done chan struct{}
	data *contracts.TickerData
	err  error
}

// NewService creates the research service. repo may be nil when snapshot
// persistence is disabled.
func NewService(feed contracts.FeedClient, cache contracts.TickerCache, repo contracts.SnapshotRepository,
	log *logger.Logger, ttl time.Duration) *Service {

	return &Service{
		feed:     feed,
		cache:    cache,
		repo:     repo,
		engine:   dividend.NewEngine(log.Zerolog()),
		logger:   log.WithField("component", "research.service"),
		ttl:      ttl,
		workers:  defaultBatchWorkers,
		inflight: make(map[string]*fetchCall),
	}
}

// WithWorkers overrides the batch worker count.
func (s *Service) WithWorkers(n int) *Service {
	if n > 0 {
		s.workers = n
	}
	return s
}

// TickerData returns normalized feed data for a symbol, from cache when
// possible. Concurrent misses for the same symbol share one upstream fetch.
func (s *Service) TickerData(ctx context.Context, symbol string) (*contracts.TickerData, error) {
	var cached contracts.TickerData
	found, err := s.cache.Get(ctx, redis.TickerKey(symbol), &cached)
	if err != nil {
		s.logger.WithError(err).WithField("symbol", symbol).Warn("Cache read failed")
	}
	if found {
		return &cached, nil
	}

	return s.fetchShared(ctx, symbol)
}

// Refresh bypasses the cache and re-fetches a symbol, repopulating the
// cache on success.
func (s *Service) Refresh(ctx context.Context, symbol string) (*contracts.TickerData, error) {
	data, err := s.feed.FetchTicker(ctx, symbol)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, redis.TickerKey(symbol), data, s.ttl); err != nil {
		s.logger.WithError(err).WithField("symbol", symbol).Warn("Cache write failed")
	}
	return data, nil
}

// fetchShared runs at most one upstream fetch per symbol at a time; late
// arrivals wait for the in-flight call and share its outcome.
func (s *Service) fetchShared(ctx context.Context, symbol string) (*contracts.TickerData, error) {
	s.mu.Lock()
	if call, ok := s.inflight[symbol]; ok {
		s.mu.Unlock()
		select {
		case <-call.done:
			return call.data, call.err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	call := &fetchCall{done: make(chan struct{})}
	s.inflight[symbol] = call
	s.mu.Unlock()

	call.data, call.err = s.Refresh(ctx, symbol)
	close(call.done)

	s.mu.Lock()
	delete(s.inflight, symbol)
	s.mu.Unlock()

	return call.data, call.err
}

// Estimate produces the full estimation for one ticker as of today, and
// persists a snapshot when a repository is configured.
func (s *Service) Estimate(ctx context.Context, symbol string, today time.Time) (*Estimate, error) {
	data, err := s.TickerData(ctx, symbol)
	if err != nil {
		return nil, err
	}

	result, err := s.engine.Estimate(*data, today)
	if err != nil {
		return nil, err
	}

	rate, rateMethod := dividend.DividendRate(data.Info, data.Events, result.Frequency)
	payout, payoutMethod := dividend.PayoutRatio(data.Info, rate)

	est := &Estimate{
		EstimationResult:   result,
		DividendRate:       rate,
		DividendRateMethod: rateMethod,
		PayoutRatio:        payout,
		PayoutRatioMethod:  payoutMethod,
	}

	if s.repo != nil {
		if err := s.repo.SaveResult(ctx, result, today); err != nil {
			// Persistence is best-effort; the estimate itself stands.
			s.logger.WithError(err).WithField("symbol", symbol).Warn("Snapshot save failed")
		}
	}

	return est, nil
}

// Schedule projects upcoming payment dates for one ticker.
func (s *Service) Schedule(ctx context.Context, symbol string, today time.Time) ([]time.Time, error) {
	data, err := s.TickerData(ctx, symbol)
	if err != nil {
		return nil, err
	}
	return dividend.ProjectSchedule(*data, today), nil
}

// EstimateBatch evaluates many tickers through a bounded worker pool.
// Results preserve the input order; per-ticker failures never abort the
// batch.
func (s *Service) EstimateBatch(ctx context.Context, symbols []string, today time.Time) []BatchItem {
	if len(symbols) == 0 {
		return nil
	}

	type job struct {
		idx    int
		symbol string
	}

	results := make([]BatchItem, len(symbols))
	jobCh := make(chan job, len(symbols))

	var wg sync.WaitGroup
	for i := 0; i < s.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobCh {
				item := BatchItem{Symbol: j.symbol}
				est, err := s.Estimate(ctx, j.symbol, today)
				if err != nil {
					item.Error = err.Error()
				} else {
					item.Estimate = est
				}
				results[j.idx] = item
			}
		}()
	}

	for i, symbol := range symbols {
		jobCh <- job{idx: i, symbol: symbol}
	}
	close(jobCh)
	wg.Wait()

	succeeded := 0
	for _, item := range results {
		if item.Error == "" {
			succeeded++
		}
	}
	s.logger.WithFields(map[string]interface{}{
		"total":     len(symbols),
		"succeeded": succeeded,
		"failed":    len(symbols) - succeeded,
	}).Info("Batch estimation completed")

	return results
}

// LatestSnapshot returns the last persisted result for a symbol, or nil
// when persistence is disabled or empty.
func (s *Service) LatestSnapshot(ctx context.Context, symbol string) (*contracts.EstimationResult, error) {
	if s.repo == nil {
		return nil, nil
	}
	return s.repo.LatestResult(ctx, symbol)
}
