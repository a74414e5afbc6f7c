package yahoo

import (
	"context"
	"fmt"
	"net/url"

	"earnscope/internal/marketdata"
)

// chartResponse is the envelope of the v8 chart API.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				RegularMarketPrice float64 `json:"regularMarketPrice"`
				Currency           string  `json:"currency"`
				Symbol             string  `json:"symbol"`
			} `json:"meta"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// GetPrice fetches the current market price for symbol.
func (c *Client) GetPrice(ctx context.Context, symbol string) (float64, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return 0, marketdata.Transient(c.Name(), err)
	}

	u := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&range=1d", c.baseURL, url.PathEscape(symbol))

	var resp chartResponse
	if err := c.httpClient.GetJSON(ctx, u, &resp); err != nil {
		return 0, marketdata.Transient(c.Name(), err)
	}

	price, err := priceFromChart(&resp)
	if err != nil {
		return 0, err
	}

	c.logger.WithFields(map[string]interface{}{
		"symbol": symbol,
		"price":  price,
	}).Debug("Fetched price from Yahoo")

	return price, nil
}

// priceFromChart extracts the regular market price from a chart
// response. An empty result set maps to ErrNoData, not a failure.
func priceFromChart(resp *chartResponse) (float64, error) {
	if resp.Chart.Error != nil {
		return 0, fmt.Errorf("yahoo chart error %s: %s: %w",
			resp.Chart.Error.Code, resp.Chart.Error.Description, marketdata.ErrNoData)
	}
	if len(resp.Chart.Result) == 0 {
		return 0, marketdata.ErrNoData
	}

	price := resp.Chart.Result[0].Meta.RegularMarketPrice
	if price <= 0 {
		return 0, marketdata.ErrNoData
	}

	return price, nil
}
