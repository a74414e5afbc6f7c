package jobs

import (
	"context"
	"fmt"

	"earnscope/internal/orchestrator"
	"earnscope/pkg/logger"
)

// WatchlistRefresh periodically resolves a price for every watchlist
// symbol. Each successful lookup writes through to the price cache, so
// interactive queries that follow are served locally.
type WatchlistRefresh struct {
	orchestrator *orchestrator.Orchestrator
	symbols      []string
	schedule     string
	logger       *logger.Logger
}

// NewWatchlistRefresh creates the refresh job.
func NewWatchlistRefresh(orch *orchestrator.Orchestrator, symbols []string, schedule string, log *logger.Logger) *WatchlistRefresh {
	return &WatchlistRefresh{
		orchestrator: orch,
		symbols:      symbols,
		schedule:     schedule,
		logger:       log,
	}
}

// Name returns the job name.
func (j *WatchlistRefresh) Name() string { return "watchlist_refresh" }

// Schedule returns the cron schedule expression.
func (j *WatchlistRefresh) Schedule() string { return j.schedule }

// Run refreshes every symbol sequentially. Providers throttle
// themselves, so the walk naturally spaces outbound calls. Symbols
// that resolve from nowhere are counted and reported as one error at
// the end; the rest of the list still refreshes.
func (j *WatchlistRefresh) Run(ctx context.Context) error {
	var failed int

	for _, symbol := range j.symbols {
		quote, ok := j.orchestrator.GetPrice(ctx, symbol)
		if !ok {
			failed++
			continue
		}

		j.logger.WithFields(map[string]interface{}{
			"symbol": quote.Symbol,
			"price":  quote.Price,
			"source": quote.Source,
		}).Debug("Watchlist symbol refreshed")
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d watchlist symbols failed to refresh", failed, len(j.symbols))
	}
	return nil
}
