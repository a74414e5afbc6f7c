package orchestrator

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"earnscope/internal/earnings"
	"earnscope/internal/marketdata"
	"earnscope/internal/marketdata/cache"
	"earnscope/internal/provider/demo"
	"earnscope/pkg/config"
	"earnscope/pkg/logger"
)

type fakePriceSource struct {
	name  string
	price float64
	err   error
	calls int
}

func (f *fakePriceSource) Name() string { return f.name }

func (f *fakePriceSource) GetPrice(ctx context.Context, symbol string) (float64, error) {
	f.calls++
	if f.err != nil {
		return 0, f.err
	}
	return f.price, nil
}

type fakeChainSource struct {
	name  string
	dates []string
	chain *marketdata.Chain
	err   error
	calls int
}

func (f *fakeChainSource) Name() string { return f.name }

func (f *fakeChainSource) GetExpirations(ctx context.Context, symbol string, max int) ([]string, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.dates, nil
}

func (f *fakeChainSource) GetChain(ctx context.Context, symbol, expiration string) (*marketdata.Chain, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.chain, nil
}

type fakeEarningsSource struct {
	name    string
	enabled bool
}

func (f *fakeEarningsSource) Name() string  { return f.name }
func (f *fakeEarningsSource) Enabled() bool { return f.enabled }

func (f *fakeEarningsSource) GetNextEarnings(ctx context.Context, symbol string) (*earnings.Event, error) {
	return nil, marketdata.ErrNoData
}

func (f *fakeEarningsSource) GetEarningsCalendar(ctx context.Context, symbol string, daysAhead int) ([]earnings.Event, error) {
	return nil, marketdata.ErrNoData
}

func testCacheConfig() config.CacheConfig {
	return config.CacheConfig{
		TTL:      5 * time.Minute,
		StaleTTL: 24 * time.Hour,
	}
}

func testStore(t *testing.T) *cache.Store {
	t.Helper()
	return cache.New(filepath.Join(t.TempDir(), "prices.json"), logger.Nop())
}

func newOrchestrator(t *testing.T, reg Registry) *Orchestrator {
	t.Helper()
	return New(reg, testStore(t), testCacheConfig(), false, logger.Nop())
}

func TestGetPriceFallbackOrdering(t *testing.T) {
	failing := &fakePriceSource{name: "primary", err: marketdata.Transient("primary", errors.New("timeout"))}
	answering := &fakePriceSource{name: "secondary", price: 123.45}
	untouched := &fakePriceSource{name: "tertiary", price: 999.99}

	o := newOrchestrator(t, Registry{
		Prices: []marketdata.PriceSource{failing, answering, untouched},
	})

	quote, ok := o.GetPrice(context.Background(), "AAPL")
	require.True(t, ok)

	assert.Equal(t, 123.45, quote.Price)
	assert.Equal(t, "secondary", quote.Source)
	assert.False(t, quote.Cached)

	assert.Equal(t, 1, failing.calls)
	assert.Equal(t, 1, answering.calls)
	assert.Equal(t, 0, untouched.calls, "later providers must not be contacted after a success")
}

func TestGetPriceExhaustion(t *testing.T) {
	a := &fakePriceSource{name: "a", err: marketdata.Transient("a", errors.New("down"))}
	b := &fakePriceSource{name: "b", err: marketdata.ErrNoData}

	o := newOrchestrator(t, Registry{Prices: []marketdata.PriceSource{a, b}})

	quote, ok := o.GetPrice(context.Background(), "AAPL")
	assert.False(t, ok)
	assert.Equal(t, "none", quote.Source)
	assert.Zero(t, quote.Price)
}

func TestGetPriceFreshCacheSkipsProviders(t *testing.T) {
	src := &fakePriceSource{name: "yahoo", price: 200}
	store := testStore(t)
	store.Set("AAPL", 185.50)

	o := New(Registry{Prices: []marketdata.PriceSource{src}}, store, testCacheConfig(), false, logger.Nop())

	quote, ok := o.GetPrice(context.Background(), "AAPL")
	require.True(t, ok)

	assert.Equal(t, 185.50, quote.Price)
	assert.Equal(t, "cache", quote.Source)
	assert.True(t, quote.Cached)
	assert.Equal(t, 0, src.calls)
}

func TestGetPriceWritesThroughToCache(t *testing.T) {
	src := &fakePriceSource{name: "yahoo", price: 185.50}
	store := testStore(t)

	o := New(Registry{Prices: []marketdata.PriceSource{src}}, store, testCacheConfig(), false, logger.Nop())

	_, ok := o.GetPrice(context.Background(), "AAPL")
	require.True(t, ok)

	price, hit := store.Get("AAPL", time.Minute)
	require.True(t, hit)
	assert.Equal(t, 185.50, price)
}

func TestGetPriceServesStaleCacheAsLastResort(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prices.json")

	// An entry older than the fresh TTL but inside the stale window.
	stale := map[string]map[string]interface{}{
		"AAPL": {"price": 180.25, "ts": time.Now().Add(-2 * time.Hour).Unix()},
	}
	data, err := json.Marshal(stale)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	failing := &fakePriceSource{name: "yahoo", err: marketdata.Transient("yahoo", errors.New("down"))}
	store := cache.New(path, logger.Nop())

	o := New(Registry{Prices: []marketdata.PriceSource{failing}}, store, testCacheConfig(), false, logger.Nop())

	quote, ok := o.GetPrice(context.Background(), "AAPL")
	require.True(t, ok)

	assert.Equal(t, 180.25, quote.Price)
	assert.Equal(t, "stale-cache", quote.Source)
	assert.True(t, quote.Cached)
	assert.Equal(t, 1, failing.calls)
}

func TestGetPriceDemoModeSkipsCacheAndProviders(t *testing.T) {
	src := &fakePriceSource{name: "yahoo", price: 1}
	store := testStore(t)

	o := New(Registry{
		Demo:   demo.New(),
		Prices: []marketdata.PriceSource{src},
	}, store, testCacheConfig(), true, logger.Nop())

	quote, ok := o.GetPrice(context.Background(), "AAPL")
	require.True(t, ok)

	assert.Equal(t, "demo", quote.Source)
	assert.Greater(t, quote.Price, 0.0)
	assert.Equal(t, 0, src.calls)

	_, hit := store.Get("AAPL", 24*time.Hour)
	assert.False(t, hit, "demo mode must not touch the cache")
}

func TestGetExpirationsFirstNonEmptyWins(t *testing.T) {
	empty := &fakeChainSource{name: "a"}
	answering := &fakeChainSource{name: "b", dates: []string{"2025-10-17", "2025-09-19", "2025-09-26"}}
	untouched := &fakeChainSource{name: "c", dates: []string{"2099-01-01"}}

	o := newOrchestrator(t, Registry{
		Chains: []marketdata.OptionsChainSource{empty, answering, untouched},
	})

	dates, source := o.GetExpirations(context.Background(), "AAPL", 2)

	assert.Equal(t, "b", source)
	assert.Equal(t, []string{"2025-09-19", "2025-09-26"}, dates, "sorted ascending and truncated")
	assert.Equal(t, 0, untouched.calls)
}

func TestGetExpirationsAllEmpty(t *testing.T) {
	o := newOrchestrator(t, Registry{
		Chains: []marketdata.OptionsChainSource{
			&fakeChainSource{name: "a"},
			&fakeChainSource{name: "b", err: marketdata.Transient("b", errors.New("down"))},
		},
	})

	dates, source := o.GetExpirations(context.Background(), "AAPL", 5)
	assert.Empty(t, dates)
	assert.Empty(t, source)
}

func TestGetChainFallback(t *testing.T) {
	chain := &marketdata.Chain{
		Symbol:     "AAPL",
		Expiration: "2025-09-19",
		Calls:      []marketdata.Contract{{Strike: 185}},
		Puts:       []marketdata.Contract{{Strike: 185}},
	}

	failing := &fakeChainSource{name: "a", err: marketdata.Transient("a", errors.New("down"))}
	answering := &fakeChainSource{name: "b", chain: chain}

	o := newOrchestrator(t, Registry{
		Chains: []marketdata.OptionsChainSource{failing, answering},
	})

	got, source, err := o.GetChain(context.Background(), "AAPL", "2025-09-19")
	require.NoError(t, err)

	assert.Equal(t, "b", source)
	assert.Equal(t, chain, got)
}

func TestGetChainExhaustionIsHardError(t *testing.T) {
	o := newOrchestrator(t, Registry{
		Chains: []marketdata.OptionsChainSource{
			&fakeChainSource{name: "a", err: marketdata.ErrNoData},
			&fakeChainSource{name: "b", chain: &marketdata.Chain{}}, // empty chain does not count
		},
	})

	_, _, err := o.GetChain(context.Background(), "AAPL", "2025-09-19")
	require.Error(t, err)
	assert.ErrorIs(t, err, marketdata.ErrChainUnavailable)
}

func TestEarningsProvidersFiltersDisabled(t *testing.T) {
	enabled := &fakeEarningsSource{name: "yahoo", enabled: true}
	disabled := &fakeEarningsSource{name: "finnhub", enabled: false}
	alsoEnabled := &fakeEarningsSource{name: "whispers", enabled: true}

	o := newOrchestrator(t, Registry{
		Earnings: []earnings.Source{enabled, disabled, alsoEnabled},
	})

	sources := o.EarningsProviders()
	require.Len(t, sources, 2)
	assert.Equal(t, "yahoo", sources[0].Name())
	assert.Equal(t, "whispers", sources[1].Name())
}

func TestEarningsProvidersDemoFirst(t *testing.T) {
	external := &fakeEarningsSource{name: "yahoo", enabled: true}

	o := New(Registry{
		Demo:     demo.New(),
		Earnings: []earnings.Source{external},
	}, testStore(t), testCacheConfig(), true, logger.Nop())

	sources := o.EarningsProviders()
	require.NotEmpty(t, sources)
	assert.Equal(t, "demo", sources[0].Name())
}
