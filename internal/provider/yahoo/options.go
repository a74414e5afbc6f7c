package yahoo

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"time"

	"earnscope/internal/marketdata"
)

// optionsResponse is the envelope of the v7 options API.
type optionsResponse struct {
	OptionChain struct {
		Result []struct {
			ExpirationDates []int64 `json:"expirationDates"`
			Options         []struct {
				Calls []optionRow `json:"calls"`
				Puts  []optionRow `json:"puts"`
			} `json:"options"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"optionChain"`
}

type optionRow struct {
	Strike            float64 `json:"strike"`
	Bid               float64 `json:"bid"`
	Ask               float64 `json:"ask"`
	LastPrice         float64 `json:"lastPrice"`
	ImpliedVolatility float64 `json:"impliedVolatility"`
}

// GetExpirations fetches up to max expiration dates, ascending.
func (c *Client) GetExpirations(ctx context.Context, symbol string, max int) ([]string, error) {
	resp, err := c.fetchOptions(ctx, symbol, "")
	if err != nil {
		return nil, err
	}

	if len(resp.OptionChain.Result) == 0 {
		return nil, nil
	}

	stamps := resp.OptionChain.Result[0].ExpirationDates
	expirations := make([]string, 0, len(stamps))
	for _, ts := range stamps {
		expirations = append(expirations, time.Unix(ts, 0).UTC().Format("2006-01-02"))
	}
	sort.Strings(expirations)

	if max > 0 && len(expirations) > max {
		expirations = expirations[:max]
	}
	return expirations, nil
}

// GetChain fetches the full chain for one expiration.
func (c *Client) GetChain(ctx context.Context, symbol, expiration string) (*marketdata.Chain, error) {
	resp, err := c.fetchOptions(ctx, symbol, expiration)
	if err != nil {
		return nil, err
	}

	return chainFromOptions(resp, symbol, expiration)
}

// fetchOptions hits the options endpoint, scoped to one expiration
// when given.
func (c *Client) fetchOptions(ctx context.Context, symbol, expiration string) (*optionsResponse, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, marketdata.Transient(c.Name(), err)
	}

	u := fmt.Sprintf("%s/v7/finance/options/%s", c.baseURL, url.PathEscape(symbol))
	if expiration != "" {
		expiry, err := time.Parse("2006-01-02", expiration)
		if err != nil {
			return nil, fmt.Errorf("invalid expiration %q: %w", expiration, err)
		}
		u = fmt.Sprintf("%s?date=%d", u, expiry.Unix())
	}

	var resp optionsResponse
	if err := c.httpClient.GetJSON(ctx, u, &resp); err != nil {
		return nil, marketdata.Transient(c.Name(), err)
	}

	return &resp, nil
}

// chainFromOptions converts a response into the internal chain shape.
// An empty or error response maps to ErrNoData so the fallback walk
// can move on.
func chainFromOptions(resp *optionsResponse, symbol, expiration string) (*marketdata.Chain, error) {
	if resp.OptionChain.Error != nil {
		return nil, fmt.Errorf("yahoo options error %s: %w", resp.OptionChain.Error.Code, marketdata.ErrNoData)
	}
	if len(resp.OptionChain.Result) == 0 || len(resp.OptionChain.Result[0].Options) == 0 {
		return nil, marketdata.ErrNoData
	}

	options := resp.OptionChain.Result[0].Options[0]
	if len(options.Calls) == 0 && len(options.Puts) == 0 {
		return nil, marketdata.ErrNoData
	}

	chain := &marketdata.Chain{Symbol: symbol, Expiration: expiration}
	for _, row := range options.Calls {
		chain.Calls = append(chain.Calls, contractFromRow(row))
	}
	for _, row := range options.Puts {
		chain.Puts = append(chain.Puts, contractFromRow(row))
	}

	return chain, nil
}

func contractFromRow(row optionRow) marketdata.Contract {
	return marketdata.Contract{
		Strike:            row.Strike,
		Bid:               row.Bid,
		Ask:               row.Ask,
		LastPrice:         row.LastPrice,
		ImpliedVolatility: row.ImpliedVolatility,
	}
}
