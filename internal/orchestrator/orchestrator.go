package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"earnscope/internal/earnings"
	"earnscope/internal/marketdata"
	"earnscope/internal/marketdata/cache"
	"earnscope/pkg/config"
	"earnscope/pkg/logger"
)

// DemoProvider answers every query deterministically when demo mode is
// on. It covers all three data surfaces at once.
type DemoProvider interface {
	marketdata.PriceSource
	marketdata.OptionsChainSource
	earnings.Source
}

// Registry is the explicit set of providers assembled at startup.
// A provider that is missing credentials is simply not registered (or
// reports Enabled() false for earnings sources); there are no nil
// placeholder slots.
type Registry struct {
	Demo     DemoProvider
	Prices   []marketdata.PriceSource
	Chains   []marketdata.OptionsChainSource
	Earnings []earnings.Source
}

// Orchestrator decides which provider answers each logical query and
// how failures and staleness are handled. The fallback walk is
// strictly sequential: a later provider is contacted only after every
// earlier one has failed.
type Orchestrator struct {
	registry Registry
	cache    *cache.Store
	cacheCfg config.CacheConfig
	demoMode bool
	logger   *logger.Logger
}

// New creates an orchestrator over the given registry. With demoMode
// set, every query is answered by the registry's Demo provider and no
// network or cache interaction happens at all.
func New(reg Registry, store *cache.Store, cacheCfg config.CacheConfig, demoMode bool, log *logger.Logger) *Orchestrator {
	return &Orchestrator{
		registry: reg,
		cache:    store,
		cacheCfg: cacheCfg,
		demoMode: demoMode,
		logger:   log,
	}
}

// GetPrice resolves a spot price for symbol. The walk is
// demo, fresh cache, each registered provider in order, stale cache.
// Every provider hit is written through to the cache. Exhausting the
// walk is not an error: the returned bool is false and the quote
// carries the source tag "none".
func (o *Orchestrator) GetPrice(ctx context.Context, symbol string) (marketdata.Quote, bool) {
	if o.demoMode {
		price, err := o.registry.Demo.GetPrice(ctx, symbol)
		if err != nil {
			return marketdata.Quote{Symbol: symbol, Source: "none"}, false
		}
		return marketdata.Quote{Symbol: symbol, Price: price, Source: o.registry.Demo.Name()}, true
	}

	if price, ok := o.cache.Get(symbol, o.cacheCfg.TTL); ok {
		return marketdata.Quote{Symbol: symbol, Price: price, Source: "cache", Cached: true}, true
	}

	for _, src := range o.registry.Prices {
		price, err := src.GetPrice(ctx, symbol)
		if err != nil {
			o.logProviderFailure(src.Name(), symbol, err)
			continue
		}

		o.cache.Set(symbol, price)
		return marketdata.Quote{Symbol: symbol, Price: price, Source: src.Name()}, true
	}

	if price, ok := o.cache.Get(symbol, o.cacheCfg.StaleTTL); ok {
		o.logger.WithField("symbol", symbol).Warn("All price providers failed, serving stale cache entry")
		return marketdata.Quote{Symbol: symbol, Price: price, Source: "stale-cache", Cached: true}, true
	}

	o.logger.WithField("symbol", symbol).Warn("Price unavailable from every provider and cache")
	return marketdata.Quote{Symbol: symbol, Source: "none"}, false
}

// GetExpirations returns up to max upcoming option expiration dates as
// YYYY-MM-DD strings in ascending order, plus the tag of the provider
// that answered. The first provider with a non-empty answer wins.
// Nothing from anyone is an empty list, not an error.
func (o *Orchestrator) GetExpirations(ctx context.Context, symbol string, max int) ([]string, string) {
	if o.demoMode {
		dates, err := o.registry.Demo.GetExpirations(ctx, symbol, max)
		if err != nil {
			return nil, ""
		}
		return clampExpirations(dates, max), o.registry.Demo.Name()
	}

	for _, src := range o.registry.Chains {
		dates, err := src.GetExpirations(ctx, symbol, max)
		if err != nil {
			o.logProviderFailure(src.Name(), symbol, err)
			continue
		}
		if len(dates) == 0 {
			continue
		}

		return clampExpirations(dates, max), src.Name()
	}

	return nil, ""
}

// GetChain returns the option chain for one expiration. Unlike prices
// and expirations, exhausting every provider here is a hard failure:
// there is no safe empty default to hand to downstream analysis.
func (o *Orchestrator) GetChain(ctx context.Context, symbol, expiration string) (*marketdata.Chain, string, error) {
	if o.demoMode {
		chain, err := o.registry.Demo.GetChain(ctx, symbol, expiration)
		if err != nil {
			return nil, "", fmt.Errorf("%w: %s %s", marketdata.ErrChainUnavailable, symbol, expiration)
		}
		return chain, o.registry.Demo.Name(), nil
	}

	for _, src := range o.registry.Chains {
		chain, err := src.GetChain(ctx, symbol, expiration)
		if err != nil {
			o.logProviderFailure(src.Name(), symbol, err)
			continue
		}
		if chain == nil || (len(chain.Calls) == 0 && len(chain.Puts) == 0) {
			continue
		}

		return chain, src.Name(), nil
	}

	return nil, "", fmt.Errorf("%w: %s %s", marketdata.ErrChainUnavailable, symbol, expiration)
}

// EarningsProviders returns the ordered candidate list handed to the
// earnings calendar: in demo mode just the demo provider, otherwise
// every registered external source that reports itself enabled. The
// calendar does its own fallback walk over this list.
func (o *Orchestrator) EarningsProviders() []earnings.Source {
	var sources []earnings.Source

	if o.demoMode {
		sources = append(sources, o.registry.Demo)
		return sources
	}

	for _, src := range o.registry.Earnings {
		if src.Enabled() {
			sources = append(sources, src)
		}
	}

	return sources
}

// logProviderFailure records one failed fallback step. Unconfigured
// providers are a debug-level skip; real failures warn. ErrNoData is a
// valid "nothing here" answer, also only worth a debug line.
func (o *Orchestrator) logProviderFailure(provider, symbol string, err error) {
	event := o.logger.WithFields(map[string]interface{}{
		"provider": provider,
		"symbol":   symbol,
	}).WithError(err)

	switch {
	case marketdata.KindOf(err) == marketdata.KindUnavailable:
		event.Debug("Provider not configured, skipping")
	case errors.Is(err, marketdata.ErrNoData):
		event.Debug("Provider has no data, trying next")
	default:
		event.Warn("Provider failed, trying next")
	}
}

// clampExpirations sorts ascending and truncates to max.
func clampExpirations(dates []string, max int) []string {
	sorted := make([]string, len(dates))
	copy(sorted, dates)
	sort.Strings(sorted)

	if max > 0 && len(sorted) > max {
		sorted = sorted[:max]
	}
	return sorted
}
