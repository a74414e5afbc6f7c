package whispers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"earnscope/internal/earnings"
	"earnscope/internal/marketdata"
	"earnscope/internal/marketdata/throttle"
	"earnscope/pkg/config"
	"earnscope/pkg/httputil"
	"earnscope/pkg/logger"
)

// Client scrapes earnings dates from the Earnings Whispers website.
// There is no API, so dates come out of the HTML of the per-symbol
// page. Scrape failures are soft: a page layout change shows up as
// ErrNoData and the calendar walks on to the next source.
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
	enabled    bool
	limiter    *throttle.Limiter
}

// NewClient creates a new Earnings Whispers client.
func NewClient(cfg config.WhispersConfig, log *logger.Logger, minInterval time.Duration) *Client {
	return &Client{
		httpClient: httputil.New(log, 30*time.Second),
		logger:     log,
		baseURL:    cfg.BaseURL,
		enabled:    cfg.Enabled,
		limiter:    throttle.New(minInterval),
	}
}

// Name returns the source tag for this provider.
func (c *Client) Name() string { return "whispers" }

// Enabled reports whether scraping is switched on in the configuration.
func (c *Client) Enabled() bool { return c.enabled }

// GetNextEarnings fetches and parses the per-symbol page.
func (c *Client) GetNextEarnings(ctx context.Context, symbol string) (*earnings.Event, error) {
	if !c.enabled {
		return nil, marketdata.Unavailable(c.Name())
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, marketdata.Transient(c.Name(), err)
	}

	u := fmt.Sprintf("%s/stocks/%s", c.baseURL, url.PathEscape(strings.ToLower(symbol)))

	resp, err := c.httpClient.Get(ctx, u)
	if err != nil {
		return nil, marketdata.Transient(c.Name(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, marketdata.ErrNoData
	}
	if resp.StatusCode != http.StatusOK {
		return nil, marketdata.Transient(c.Name(), fmt.Errorf("unexpected status code: %d", resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, marketdata.Transient(c.Name(), fmt.Errorf("read response body failed: %w", err))
	}

	event, err := parseEarningsPage(string(body), strings.ToUpper(symbol), c.Name())
	if err != nil {
		c.logger.WithFields(map[string]interface{}{
			"symbol": symbol,
			"error":  err.Error(),
		}).Debug("Earnings Whispers parse failed")
		return nil, marketdata.ErrNoData
	}

	return event, nil
}

// GetEarningsCalendar returns the next announcement when it falls
// within daysAhead days. The site only exposes one upcoming date per
// symbol, so the calendar is at most one event long.
func (c *Client) GetEarningsCalendar(ctx context.Context, symbol string, daysAhead int) ([]earnings.Event, error) {
	event, err := c.GetNextEarnings(ctx, symbol)
	if err != nil {
		return nil, err
	}

	days := event.DaysUntil(time.Now())
	if days < 0 || days > daysAhead {
		return nil, nil
	}

	return []earnings.Event{*event}, nil
}

var (
	dateRe    = regexp.MustCompile(`([A-Z][a-z]+ \d{1,2}, \d{4})`)
	clockRe   = regexp.MustCompile(`at (\d{1,2}):(\d{2}) (AM|PM)`)
	confirmRe = regexp.MustCompile(`(?i)\bconfirmed\b`)
)

// parseEarningsPage extracts the announcement from the symbol page.
// The date lives in #epsdate as text like
// "Tuesday, September 9, 2025 at 4:30 PM ET"; a report time before
// noon Eastern means a before-open announcement.
func parseEarningsPage(html, symbol, source string) (*earnings.Event, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse HTML failed: %w", err)
	}

	dateText := strings.TrimSpace(doc.Find("#epsdate").First().Text())
	if dateText == "" {
		return nil, fmt.Errorf("no earnings date on page")
	}

	m := dateRe.FindString(dateText)
	if m == "" {
		return nil, fmt.Errorf("unrecognized date text %q", dateText)
	}

	date, err := time.Parse("January 2, 2006", m)
	if err != nil {
		return nil, fmt.Errorf("parse date %q failed: %w", m, err)
	}

	return &earnings.Event{
		Symbol:    symbol,
		Date:      date,
		Timing:    timingFromText(dateText),
		Confirmed: confirmRe.MatchString(doc.Find("#epsdetails").Text()),
		Source:    source,
	}, nil
}

// timingFromText classifies the announcement time. A clock time before
// noon means before the open; phrases like "before the open" count too.
// Anything else defaults to after the close, the common case.
func timingFromText(text string) earnings.Timing {
	if m := clockRe.FindStringSubmatch(text); m != nil {
		hour, _ := strconv.Atoi(m[1])
		if m[3] == "PM" && hour != 12 {
			hour += 12
		}
		if m[3] == "AM" && hour == 12 {
			hour = 0
		}
		if hour < 12 {
			return earnings.BeforeOpen
		}
		return earnings.AfterClose
	}

	if strings.Contains(strings.ToLower(text), "before") {
		return earnings.BeforeOpen
	}
	return earnings.AfterClose
}
