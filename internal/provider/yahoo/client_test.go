package yahoo

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"earnscope/internal/marketdata"
	"earnscope/pkg/config"
	"earnscope/pkg/logger"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(config.YahooConfig{BaseURL: server.URL}, logger.Nop(), 0)
}

func TestGetPrice(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v8/finance/chart/AAPL", r.URL.Path)
		w.Write([]byte(`{"chart":{"result":[{"meta":{"regularMarketPrice":185.5,"currency":"USD","symbol":"AAPL"}}]}}`))
	})

	price, err := client.GetPrice(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, 185.5, price)
}

func TestGetPriceNoData(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"chart":{"result":[],"error":{"code":"Not Found","description":"No data found"}}}`))
	})

	_, err := client.GetPrice(context.Background(), "NOPE")
	assert.ErrorIs(t, err, marketdata.ErrNoData)
}

func TestGetPriceServerFailureIsTransient(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := client.GetPrice(context.Background(), "AAPL")
	require.Error(t, err)

	var pe *marketdata.ProviderError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, marketdata.KindTransient, pe.Kind)
	assert.Equal(t, "yahoo", pe.Provider)
}

func TestGetExpirations(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v7/finance/options/AAPL", r.URL.Path)
		// 2025-09-19 and 2025-09-12, deliberately out of order.
		w.Write([]byte(`{"optionChain":{"result":[{"expirationDates":[1758240000,1757635200],"options":[]}]}}`))
	})

	expirations, err := client.GetExpirations(context.Background(), "AAPL", 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-09-12", "2025-09-19"}, expirations)
}

func TestGetExpirationsTruncates(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"optionChain":{"result":[{"expirationDates":[1757635200,1758240000,1758844800],"options":[]}]}}`))
	})

	expirations, err := client.GetExpirations(context.Background(), "AAPL", 2)
	require.NoError(t, err)
	assert.Len(t, expirations, 2)
}

func TestGetChain(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "1758240000", r.URL.Query().Get("date"))
		w.Write([]byte(`{"optionChain":{"result":[{"expirationDates":[1758240000],"options":[{
			"calls":[{"strike":185,"bid":5.1,"ask":5.3,"lastPrice":5.2,"impliedVolatility":0.31}],
			"puts":[{"strike":185,"bid":4.8,"ask":5.0,"lastPrice":4.9,"impliedVolatility":0.33}]
		}]}]}}`))
	})

	chain, err := client.GetChain(context.Background(), "AAPL", "2025-09-19")
	require.NoError(t, err)
	require.Len(t, chain.Calls, 1)
	require.Len(t, chain.Puts, 1)
	assert.Equal(t, 185.0, chain.Calls[0].Strike)
	assert.Equal(t, 0.31, chain.Calls[0].ImpliedVolatility)
	assert.InDelta(t, 5.2, chain.Calls[0].Mid(), 1e-9)
	assert.Equal(t, "AAPL", chain.Symbol)
	assert.Equal(t, "2025-09-19", chain.Expiration)
}

func TestGetChainEmptyIsNoData(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"optionChain":{"result":[{"expirationDates":[],"options":[{"calls":[],"puts":[]}]}]}}`))
	})

	_, err := client.GetChain(context.Background(), "AAPL", "2025-09-19")
	assert.ErrorIs(t, err, marketdata.ErrNoData)
}

func TestGetNextEarnings(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v10/finance/quoteSummary/AAPL", r.URL.Path)
		// 2025-09-10 21:00 UTC, after the NY close.
		w.Write([]byte(`{"quoteSummary":{"result":[{"calendarEvents":{"earnings":{
			"earningsDate":[{"raw":1757538000}],"isEarningsDateEstimate":false
		}}}]}}`))
	})

	event, err := client.GetNextEarnings(context.Background(), "AAPL")
	require.NoError(t, err)
	require.NotNil(t, event)
	assert.Equal(t, "AAPL", event.Symbol)
	assert.Equal(t, "2025-09-10", event.Date.Format("2006-01-02"))
	assert.True(t, event.IsAfterMarket())
	assert.True(t, event.Confirmed)
	assert.Equal(t, "yahoo", event.Source)
}

func TestGetNextEarningsNoneScheduled(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"quoteSummary":{"result":[{"calendarEvents":{"earnings":{"earningsDate":[]}}}]}}`))
	})

	event, err := client.GetNextEarnings(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Nil(t, event)
}
