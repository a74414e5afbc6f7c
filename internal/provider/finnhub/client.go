package finnhub

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"earnscope/internal/earnings"
	"earnscope/internal/marketdata"
	"earnscope/internal/marketdata/throttle"
	"earnscope/pkg/config"
	"earnscope/pkg/httputil"
	"earnscope/pkg/logger"
)

// Client handles communication with the Finnhub API. It is the
// secondary source for spot prices and the preferred earnings source:
// unlike Yahoo, Finnhub labels announcements BMO/AMC explicitly.
// Requires an API key; without one the provider reports itself
// disabled and stays out of every candidate list.
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	apiKey     string
	baseURL    string
	limiter    *throttle.Limiter

	// now is stubbed in tests.
	now func() time.Time
}

// NewClient creates a new Finnhub client.
func NewClient(cfg config.FinnhubConfig, log *logger.Logger, minInterval time.Duration) *Client {
	return &Client{
		httpClient: httputil.New(log, 15*time.Second),
		logger:     log,
		apiKey:     cfg.APIKey,
		baseURL:    cfg.BaseURL,
		limiter:    throttle.New(minInterval),
		now:        time.Now,
	}
}

// Name returns the source tag for this provider.
func (c *Client) Name() string { return "finnhub" }

// Enabled reports whether an API key is configured.
func (c *Client) Enabled() bool { return c.apiKey != "" }

// quoteResponse is the /quote payload; c is the current price.
type quoteResponse struct {
	Current float64 `json:"c"`
}

// GetPrice fetches the current quote for symbol.
func (c *Client) GetPrice(ctx context.Context, symbol string) (float64, error) {
	if !c.Enabled() {
		return 0, marketdata.Unavailable(c.Name())
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return 0, marketdata.Transient(c.Name(), err)
	}

	u := fmt.Sprintf("%s/quote?symbol=%s&token=%s", c.baseURL, url.QueryEscape(symbol), url.QueryEscape(c.apiKey))

	var resp quoteResponse
	if err := c.httpClient.GetJSON(ctx, u, &resp); err != nil {
		return 0, marketdata.Transient(c.Name(), err)
	}

	// Finnhub answers unknown symbols with zeroes rather than an error.
	if resp.Current <= 0 {
		return 0, marketdata.ErrNoData
	}

	return resp.Current, nil
}

// earningsCalendarResponse is the /calendar/earnings payload.
type earningsCalendarResponse struct {
	EarningsCalendar []earningsRow `json:"earningsCalendar"`
}

type earningsRow struct {
	Date   string `json:"date"` // YYYY-MM-DD
	Hour   string `json:"hour"` // "bmo", "amc" or "dmh"
	Symbol string `json:"symbol"`
}

// GetNextEarnings returns the earliest upcoming announcement within
// the next quarter, or nil when none is scheduled.
func (c *Client) GetNextEarnings(ctx context.Context, symbol string) (*earnings.Event, error) {
	events, err := c.GetEarningsCalendar(ctx, symbol, 120)
	if err != nil || len(events) == 0 {
		return nil, err
	}
	return &events[0], nil
}

// GetEarningsCalendar fetches announcements within daysAhead days,
// earliest first.
func (c *Client) GetEarningsCalendar(ctx context.Context, symbol string, daysAhead int) ([]earnings.Event, error) {
	if !c.Enabled() {
		return nil, marketdata.Unavailable(c.Name())
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, marketdata.Transient(c.Name(), err)
	}

	from := c.now().UTC()
	to := from.AddDate(0, 0, daysAhead)
	u := fmt.Sprintf("%s/calendar/earnings?from=%s&to=%s&symbol=%s&token=%s",
		c.baseURL,
		from.Format("2006-01-02"),
		to.Format("2006-01-02"),
		url.QueryEscape(symbol),
		url.QueryEscape(c.apiKey),
	)

	var resp earningsCalendarResponse
	if err := c.httpClient.GetJSON(ctx, u, &resp); err != nil {
		return nil, marketdata.Transient(c.Name(), err)
	}

	events := make([]earnings.Event, 0, len(resp.EarningsCalendar))
	for _, row := range resp.EarningsCalendar {
		event, err := eventFromRow(row, symbol, c.Name())
		if err != nil {
			c.logger.WithError(err).WithField("symbol", symbol).Warn("Skipping malformed earnings row")
			continue
		}
		events = append(events, *event)
	}

	return events, nil
}

// eventFromRow converts one calendar row. Finnhub's "dmh" (during
// market hours) is folded into BMO: the conservative read for entry
// timing is the earlier session boundary.
func eventFromRow(row earningsRow, symbol, source string) (*earnings.Event, error) {
	date, err := time.Parse("2006-01-02", row.Date)
	if err != nil {
		return nil, fmt.Errorf("parse earnings date %q: %w", row.Date, err)
	}

	timing := earnings.AfterClose
	if row.Hour == "bmo" || row.Hour == "dmh" {
		timing = earnings.BeforeOpen
	}

	return &earnings.Event{
		Symbol:    symbol,
		Date:      date,
		Timing:    timing,
		Confirmed: row.Hour != "", // hour present once the date is set
		Source:    source,
	}, nil
}
