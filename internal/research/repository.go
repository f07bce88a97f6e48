package research

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nolan-veed/divcast/internal/contracts"
)

// Repository persists estimation snapshots for audit.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a snapshot repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// SaveResult stores one estimation result as of a reference date. Re-running
// the same ticker on the same day overwrites the earlier snapshot.
func (r *Repository) SaveResult(ctx context.Context, result contracts.EstimationResult, asOf time.Time) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal snapshot failed: %w", err)
	}

	query := `
		INSERT INTO research.estimation_snapshots
			(symbol, as_of, estimated_last_payment, estimated_next_payment,
			 gap_days, cycle_days, estimation_method, confidence_days,
			 frequency, calendar_freshness, payload)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (symbol, as_of)
		DO UPDATE SET
			estimated_last_payment = EXCLUDED.estimated_last_payment,
			estimated_next_payment = EXCLUDED.estimated_next_payment,
			gap_days = EXCLUDED.gap_days,
			cycle_days = EXCLUDED.cycle_days,
			estimation_method = EXCLUDED.estimation_method,
			confidence_days = EXCLUDED.confidence_days,
			frequency = EXCLUDED.frequency,
			calendar_freshness = EXCLUDED.calendar_freshness,
			payload = EXCLUDED.payload`

	_, err = r.pool.Exec(ctx, query,
		result.Symbol, contracts.Day(asOf),
		result.EstimatedLastPaymentDate, result.EstimatedNextPaymentDate,
		result.GapDays, result.CycleDays,
		string(result.EstimationMethod), result.ConfidenceDays,
		string(result.Frequency), string(result.CalendarFreshness),
		payload,
	)
	return err
}

// LatestResult returns the most recent snapshot for a symbol, or nil when
// none has been stored.
func (r *Repository) LatestResult(ctx context.Context, symbol string) (*contracts.EstimationResult, error) {
	query := `
		SELECT payload
		FROM research.estimation_snapshots
		WHERE symbol = $1
		ORDER BY as_of DESC
		LIMIT 1`

	var payload []byte
	err := r.pool.QueryRow(ctx, query, symbol).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query snapshot failed: %w", err)
	}

	var result contracts.EstimationResult
	if err := json.Unmarshal(payload, &result); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot failed: %w", err)
	}
	return &result, nil
}
