package contracts

import (
	"context"
	"time"
)

// FeedClient fetches raw per-ticker data from the upstream market-data feed.
// Implementations own retries, rate limiting, and field-name normalization;
// callers receive already-normalized TickerData.
type FeedClient interface {
	FetchTicker(ctx context.Context, symbol string) (*TickerData, error)
}

// TickerCache is the ticker-keyed TTL cache boundary. An expired or missing
// entry is reported as absent (found == false), never as an error the caller
// must distinguish. Implementations must be safe for concurrent use with
// per-key consistency.
type TickerCache interface {
	Get(ctx context.Context, symbol string, dest interface{}) (bool, error)
	Set(ctx context.Context, symbol string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, symbol string) error
	Enable()
	Disable()
	Enabled() bool
}

// SnapshotRepository persists estimation results for later audit.
type SnapshotRepository interface {
	SaveResult(ctx context.Context, result EstimationResult, asOf time.Time) error
	LatestResult(ctx context.Context, symbol string) (*EstimationResult, error)
}
