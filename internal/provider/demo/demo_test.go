package demo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedProvider() *Provider {
	p := New()
	// Monday 2025-09-01.
	p.now = func() time.Time { return time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC) }
	return p
}

func TestPriceIsDeterministic(t *testing.T) {
	p := New()
	ctx := context.Background()

	first, err := p.GetPrice(ctx, "AAPL")
	require.NoError(t, err)
	assert.Equal(t, 185.50, first)

	again, err := p.GetPrice(ctx, "aapl")
	require.NoError(t, err)
	assert.Equal(t, first, again, "case-insensitive and stable")

	unknown, err := p.GetPrice(ctx, "ZZZZ")
	require.NoError(t, err)
	assert.Greater(t, unknown, 0.0)

	unknownAgain, _ := p.GetPrice(ctx, "ZZZZ")
	assert.Equal(t, unknown, unknownAgain)
}

func TestExpirationsAreUpcomingFridays(t *testing.T) {
	p := fixedProvider()

	expirations, err := p.GetExpirations(context.Background(), "AAPL", 3)
	require.NoError(t, err)
	require.Len(t, expirations, 3)
	assert.Equal(t, []string{"2025-09-05", "2025-09-12", "2025-09-19"}, expirations)
}

func TestChainIsConsistent(t *testing.T) {
	p := fixedProvider()

	chain, err := p.GetChain(context.Background(), "AAPL", "2025-09-19")
	require.NoError(t, err)
	require.NotEmpty(t, chain.Calls)
	require.Equal(t, len(chain.Calls), len(chain.Puts))

	spot, _ := p.GetPrice(context.Background(), "AAPL")
	atm := chain.ATMStrike(spot)
	assert.InDelta(t, spot, atm, spot*0.05)

	for _, c := range chain.Calls {
		assert.Greater(t, c.Ask, c.Bid, "strike %.2f", c.Strike)
		assert.GreaterOrEqual(t, c.ImpliedVolatility, 0.30)
		assert.Less(t, c.ImpliedVolatility, 0.50)
	}
}

func TestChainRejectsBadExpiration(t *testing.T) {
	p := fixedProvider()

	_, err := p.GetChain(context.Background(), "AAPL", "next friday")
	assert.Error(t, err)
}

func TestNextEarningsOneWeekOut(t *testing.T) {
	p := fixedProvider()

	event, err := p.GetNextEarnings(context.Background(), "aapl")
	require.NoError(t, err)
	assert.Equal(t, "AAPL", event.Symbol)
	assert.Equal(t, time.Date(2025, 9, 8, 0, 0, 0, 0, time.UTC), event.Date)
	assert.True(t, event.Confirmed)
	assert.True(t, event.IsAfterMarket())

	events, err := p.GetEarningsCalendar(context.Background(), "AAPL", 30)
	require.NoError(t, err)
	require.Len(t, events, 1)

	events, err = p.GetEarningsCalendar(context.Background(), "AAPL", 3)
	require.NoError(t, err)
	assert.Empty(t, events, "event outside the window")
}
