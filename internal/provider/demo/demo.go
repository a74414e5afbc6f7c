package demo

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"earnscope/internal/earnings"
	"earnscope/internal/marketdata"
	"earnscope/internal/quality"
)

// Provider is the synthetic data source used in demo mode. Every
// answer is computed deterministically from the symbol and the current
// date — no network, no credentials, no cache.
type Provider struct {
	// now is stubbed in tests.
	now func() time.Time
}

// New creates a demo provider.
func New() *Provider {
	return &Provider{now: time.Now}
}

func (p *Provider) Name() string  { return "demo" }
func (p *Provider) Enabled() bool { return true }

// knownPrices keeps demo output recognizable for common symbols.
var knownPrices = map[string]float64{
	"AAPL": 185.50,
	"MSFT": 415.25,
	"NVDA": 720.80,
	"TSLA": 242.10,
	"SPY":  512.30,
}

// GetPrice returns a deterministic price for any symbol.
func (p *Provider) GetPrice(ctx context.Context, symbol string) (float64, error) {
	return p.price(symbol), nil
}

func (p *Provider) price(symbol string) float64 {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if price, ok := knownPrices[symbol]; ok {
		return price
	}

	// Hash the symbol into a stable price between 20 and 520.
	var h uint32
	for _, r := range symbol {
		h = h*31 + uint32(r)
	}
	return 20 + float64(h%50000)/100
}

// GetExpirations returns the next max Fridays.
func (p *Provider) GetExpirations(ctx context.Context, symbol string, max int) ([]string, error) {
	if max <= 0 {
		return nil, nil
	}

	day := p.now().UTC()
	for day.Weekday() != time.Friday {
		day = day.AddDate(0, 0, 1)
	}

	expirations := make([]string, 0, max)
	for i := 0; i < max; i++ {
		expirations = append(expirations, day.Format("2006-01-02"))
		day = day.AddDate(0, 0, 7)
	}

	sort.Strings(expirations)
	return expirations, nil
}

// GetChain builds a synthetic but internally consistent chain: strikes
// bracket the demo spot and quotes are Black-Scholes prices under a
// mild volatility smile, so downstream validation sees sane data.
func (p *Provider) GetChain(ctx context.Context, symbol, expiration string) (*marketdata.Chain, error) {
	expiry, err := time.Parse("2006-01-02", expiration)
	if err != nil {
		return nil, fmt.Errorf("invalid expiration %q: %w", expiration, err)
	}

	spot := p.price(symbol)
	T := expiry.Sub(p.now().UTC()).Hours() / 24 / 365
	if T < 1.0/365 {
		T = 1.0 / 365
	}

	step := math.Max(math.Round(spot*0.025), 0.5)
	atm := math.Round(spot/step) * step

	chain := &marketdata.Chain{Symbol: strings.ToUpper(symbol), Expiration: expiration}
	for i := -4; i <= 4; i++ {
		strike := atm + float64(i)*step

		// Gentle smile around the money.
		moneyness := math.Abs(strike-spot) / spot
		iv := 0.30 + 0.4*moneyness*moneyness

		callMid := quality.CallPrice(spot, strike, T, quality.DefaultRiskFreeRate, iv)
		putMid := quality.PutPrice(spot, strike, T, quality.DefaultRiskFreeRate, iv)

		chain.Calls = append(chain.Calls, contract(strike, callMid, iv))
		chain.Puts = append(chain.Puts, contract(strike, putMid, iv))
	}

	return chain, nil
}

func contract(strike, mid, iv float64) marketdata.Contract {
	spread := math.Max(mid*0.02, 0.01)
	return marketdata.Contract{
		Strike:            strike,
		Bid:               math.Max(mid-spread, 0),
		Ask:               mid + spread,
		LastPrice:         mid,
		ImpliedVolatility: iv,
	}
}

// GetNextEarnings returns a confirmed after-close event one week out.
func (p *Provider) GetNextEarnings(ctx context.Context, symbol string) (*earnings.Event, error) {
	date := p.now().UTC().AddDate(0, 0, 7)
	return &earnings.Event{
		Symbol:    strings.ToUpper(symbol),
		Date:      time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC),
		Timing:    earnings.AfterClose,
		Confirmed: true,
		Source:    p.Name(),
	}, nil
}

// GetEarningsCalendar returns the single next event when it falls
// inside the window.
func (p *Provider) GetEarningsCalendar(ctx context.Context, symbol string, daysAhead int) ([]earnings.Event, error) {
	event, err := p.GetNextEarnings(ctx, symbol)
	if err != nil {
		return nil, err
	}
	if event.DaysUntil(p.now()) > daysAhead {
		return nil, nil
	}
	return []earnings.Event{*event}, nil
}
