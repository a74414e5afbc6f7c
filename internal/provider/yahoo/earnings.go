package yahoo

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"earnscope/internal/earnings"
	"earnscope/internal/marketdata"
)

// quoteSummaryResponse is the envelope of the v10 quoteSummary API,
// trimmed to the calendarEvents module.
type quoteSummaryResponse struct {
	QuoteSummary struct {
		Result []struct {
			CalendarEvents struct {
				Earnings struct {
					EarningsDate           []epochValue `json:"earningsDate"`
					IsEarningsDateEstimate bool         `json:"isEarningsDateEstimate"`
				} `json:"earnings"`
			} `json:"calendarEvents"`
		} `json:"result"`
		Error *struct {
			Code string `json:"code"`
		} `json:"error"`
	} `json:"quoteSummary"`
}

type epochValue struct {
	Raw int64 `json:"raw"`
}

// GetNextEarnings fetches the next announced earnings date. Yahoo does
// not label announcements BMO/AMC, so timing is inferred from the
// announcement timestamp's market-local hour.
func (c *Client) GetNextEarnings(ctx context.Context, symbol string) (*earnings.Event, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, marketdata.Transient(c.Name(), err)
	}

	u := fmt.Sprintf("%s/v10/finance/quoteSummary/%s?modules=calendarEvents", c.baseURL, url.PathEscape(symbol))

	var resp quoteSummaryResponse
	if err := c.httpClient.GetJSON(ctx, u, &resp); err != nil {
		return nil, marketdata.Transient(c.Name(), err)
	}

	return eventFromQuoteSummary(&resp, symbol, c.Name())
}

// GetEarningsCalendar returns at most the single next event within
// daysAhead days; the quoteSummary module has no further horizon.
func (c *Client) GetEarningsCalendar(ctx context.Context, symbol string, daysAhead int) ([]earnings.Event, error) {
	event, err := c.GetNextEarnings(ctx, symbol)
	if err != nil || event == nil {
		return nil, err
	}
	if event.DaysUntil(time.Now()) > daysAhead {
		return nil, nil
	}
	return []earnings.Event{*event}, nil
}

// eventFromQuoteSummary converts a calendarEvents payload to an event.
// A symbol with no scheduled earnings yields (nil, nil).
func eventFromQuoteSummary(resp *quoteSummaryResponse, symbol, source string) (*earnings.Event, error) {
	if resp.QuoteSummary.Error != nil {
		return nil, fmt.Errorf("yahoo quoteSummary error %s: %w", resp.QuoteSummary.Error.Code, marketdata.ErrNoData)
	}
	if len(resp.QuoteSummary.Result) == 0 {
		return nil, nil
	}

	announced := resp.QuoteSummary.Result[0].CalendarEvents.Earnings
	if len(announced.EarningsDate) == 0 {
		return nil, nil
	}

	at := time.Unix(announced.EarningsDate[0].Raw, 0)

	timing := earnings.AfterClose
	if loc, err := time.LoadLocation(earnings.MarketTimezone); err == nil {
		if at.In(loc).Hour() < 12 {
			timing = earnings.BeforeOpen
		}
	}

	day := at.UTC()
	return &earnings.Event{
		Symbol:    symbol,
		Date:      time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC),
		Timing:    timing,
		Confirmed: !announced.IsEarningsDateEstimate,
		Source:    source,
	}, nil
}
