package alphavantage

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"earnscope/internal/marketdata"
	"earnscope/internal/marketdata/throttle"
	"earnscope/pkg/config"
	"earnscope/pkg/httputil"
	"earnscope/pkg/logger"
)

// Client handles communication with the Alpha Vantage API, the
// tertiary price source. The free tier allows roughly five requests a
// minute, so this provider carries its own 12 second spacing instead
// of the generic default.
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	apiKey     string
	baseURL    string
	limiter    *throttle.Limiter
}

// NewClient creates a new Alpha Vantage client.
func NewClient(cfg config.AlphaVantageConfig, log *logger.Logger) *Client {
	return &Client{
		httpClient: httputil.New(log, 30*time.Second),
		logger:     log,
		apiKey:     cfg.APIKey,
		baseURL:    cfg.BaseURL,
		limiter:    throttle.New(cfg.MinInterval),
	}
}

// Name returns the source tag for this provider.
func (c *Client) Name() string { return "alphavantage" }

// Enabled reports whether an API key is configured.
func (c *Client) Enabled() bool { return c.apiKey != "" }

// globalQuoteResponse is the GLOBAL_QUOTE payload. Alpha Vantage keys
// fields with numbered labels and encodes numbers as strings.
type globalQuoteResponse struct {
	GlobalQuote struct {
		Symbol string `json:"01. symbol"`
		Price  string `json:"05. price"`
	} `json:"Global Quote"`
	Note string `json:"Note"` // set when the rate limit is exceeded
}

// GetPrice fetches the latest quote for symbol.
func (c *Client) GetPrice(ctx context.Context, symbol string) (float64, error) {
	if !c.Enabled() {
		return 0, marketdata.Unavailable(c.Name())
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return 0, marketdata.Transient(c.Name(), err)
	}

	u := fmt.Sprintf("%s/query?function=GLOBAL_QUOTE&symbol=%s&apikey=%s",
		c.baseURL, url.QueryEscape(symbol), url.QueryEscape(c.apiKey))

	var resp globalQuoteResponse
	if err := c.httpClient.GetJSON(ctx, u, &resp); err != nil {
		return 0, marketdata.Transient(c.Name(), err)
	}

	return priceFromQuote(&resp, c.Name())
}

// priceFromQuote extracts the price. A throttling note is a transient
// failure; an empty quote means the symbol is unknown.
func priceFromQuote(resp *globalQuoteResponse, provider string) (float64, error) {
	if resp.Note != "" {
		return 0, marketdata.Transient(provider, fmt.Errorf("rate limited: %s", resp.Note))
	}
	if resp.GlobalQuote.Price == "" {
		return 0, marketdata.ErrNoData
	}

	price, err := strconv.ParseFloat(resp.GlobalQuote.Price, 64)
	if err != nil {
		return 0, marketdata.Transient(provider, fmt.Errorf("parse price %q: %w", resp.GlobalQuote.Price, err))
	}
	if price <= 0 {
		return 0, marketdata.ErrNoData
	}

	return price, nil
}
