package collector

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"Vaultium/internal/model"

	"github.com/shopspring/decimal"
)

// SeedFetcher serves the built-in demo state.
type SeedFetcher struct{}

func (SeedFetcher) Name() string { return "seed" }

func (SeedFetcher) FetchSnapshot(_ context.Context) (*model.Snapshot, error) {
	return DefaultSnapshot(), nil
}

// DefaultSnapshot is the demo wallet used when no state source is configured.
func DefaultSnapshot() *model.Snapshot {
	snap := &model.Snapshot{
		Balances: map[string]decimal.Decimal{
			"BTC":         decimal.NewFromInt(8000000),
			"USD_per_BTC": decimal.NewFromInt(56000),
		},
		Rates: map[string]model.Rate{
			"BTC": {Symbol: "BTC", Rate: 56000, Change24h: 2.4},
			"ETH": {Symbol: "ETH", Rate: 3200, Change24h: -1.2},
			"BNB": {Symbol: "BNB", Rate: 350, Change24h: 0.3},
			"LTC": {Symbol: "LTC", Rate: 72, Change24h: -0.9},
			"BCH": {Symbol: "BCH", Rate: 220, Change24h: 0.1},
		},
		Holdings: []model.Holding{
			{Symbol: "BTC", Amount: decimal.NewFromInt(8000000)},
			{Symbol: "ETH", Amount: decimal.NewFromInt(1200)},
			{Symbol: "BNB", Amount: decimal.NewFromInt(5400)},
		},
	}
	snap.Normalize()
	return snap
}

const maxDelay = 60 * time.Second

// Collector loads the baseline snapshot, retrying transient failures.
type Collector struct {
	Fetcher   Fetcher
	Retries   int
	BaseDelay time.Duration
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, retries int, baseDelay time.Duration) *Collector {
	if retries < 0 {
		retries = 0
	}
	if baseDelay <= 0 {
		baseDelay = time.Second
	}
	return &Collector{Fetcher: fetcher, Retries: retries, BaseDelay: baseDelay}
}

// Load fetches the snapshot with exponential backoff between attempts.
func (c *Collector) Load(ctx context.Context) (*model.Snapshot, error) {
	var lastErr error
	for i := 0; i <= c.Retries; i++ {
		snap, err := c.Fetcher.FetchSnapshot(ctx)
		if err == nil {
			return snap, nil
		}
		lastErr = err
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || i == c.Retries {
			break
		}
		delay := Backoff(c.BaseDelay, i)
		log.Printf("[WARN] %s state fetch failed (attempt %d/%d): %v, retrying in %v",
			c.Fetcher.Name(), i+1, c.Retries+1, err, delay)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}
	return nil, fmt.Errorf("load state from %s: %w", c.Fetcher.Name(), lastErr)
}

// Backoff returns base × 2^attempt, capped at one minute.
func Backoff(base time.Duration, attempt int) time.Duration {
	if attempt < 0 {
		return base
	}
	if attempt > 30 {
		return maxDelay
	}
	d := base * time.Duration(1<<uint(attempt))
	if d > maxDelay || d <= 0 {
		return maxDelay
	}
	return d
}
