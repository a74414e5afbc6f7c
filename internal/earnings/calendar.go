package earnings

import (
	"context"
	"fmt"
	"time"

	"earnscope/pkg/config"
	"earnscope/pkg/logger"
)

// MarketTimezone is the exchange's home timezone used for all
// open/close arithmetic.
const MarketTimezone = "America/New_York"

const (
	marketCloseHour = 16 // 16:00 market close
	marketOpenHour  = 9  // 09:30 market open
	marketOpenMin   = 30

	// Events further out than this are flagged: listed options for the
	// expiration cycle may not exist yet.
	maxPlausibleDaysOut = 60
)

// Calendar resolves the next earnings event across an ordered list of
// sources and turns it into trading windows in the user's timezone.
// Stateless apart from its fixed configuration.
type Calendar struct {
	sources     []Source
	market      *time.Location
	user        *time.Location
	entryBefore time.Duration
	exitAfter   time.Duration
	logger      *logger.Logger

	// now is stubbed in tests.
	now func() time.Time
}

// NewCalendar creates a calendar over the given sources. The user
// timezone comes from config when set, otherwise from the host's local
// zone, falling back to the market zone.
func NewCalendar(cfg *config.Config, log *logger.Logger, sources []Source) *Calendar {
	market, err := time.LoadLocation(MarketTimezone)
	if err != nil {
		// No tzdata on the host. Keep going with a fixed approximation
		// of Eastern time rather than failing startup.
		log.WithError(err).Warn("Failed to load market timezone, using fixed offset")
		market = time.FixedZone("ET", -5*60*60)
	}

	user := market
	if cfg.UserTimezone != "" {
		if loc, err := time.LoadLocation(cfg.UserTimezone); err == nil {
			user = loc
		} else {
			log.WithError(err).WithField("timezone", cfg.UserTimezone).Warn("Invalid user timezone, using market timezone")
		}
	} else if time.Local != nil {
		user = time.Local
	}

	return &Calendar{
		sources:     sources,
		market:      market,
		user:        user,
		entryBefore: cfg.EntryBeforeClose,
		exitAfter:   cfg.ExitAfterOpen,
		logger:      log,
		now:         time.Now,
	}
}

// NextEarnings walks the sources in order and returns the first
// non-nil event. A source failure is logged and skipped, never
// propagated. Returns nil when every source yields nothing.
func (c *Calendar) NextEarnings(ctx context.Context, symbol string) *Event {
	for _, src := range c.sources {
		event, err := src.GetNextEarnings(ctx, symbol)
		if err != nil {
			c.logger.WithError(err).WithFields(map[string]interface{}{
				"provider": src.Name(),
				"symbol":   symbol,
			}).Warn("Earnings source failed, trying next")
			continue
		}
		if event != nil {
			return event
		}
	}
	return nil
}

// EarningsCalendar walks the sources requesting a list of events
// within daysAhead days. No current source supplies a genuine
// multi-event calendar, so the result has at most one element.
func (c *Calendar) EarningsCalendar(ctx context.Context, symbol string, daysAhead int) []Event {
	for _, src := range c.sources {
		events, err := src.GetEarningsCalendar(ctx, symbol, daysAhead)
		if err != nil {
			c.logger.WithError(err).WithFields(map[string]interface{}{
				"provider": src.Name(),
				"symbol":   symbol,
			}).Warn("Earnings source failed, trying next")
			continue
		}
		if len(events) > 0 {
			return events
		}
	}
	return nil
}

// TradingWindowsFor derives the entry and exit windows from one event.
// Deterministic in the event's date and timing only: BMO trades enter
// the prior day and exit on the report date; AMC trades enter on the
// report date and exit the following day. Pure calendar arithmetic —
// weekends and holidays are not adjusted here, ValidateEvent warns
// about them instead.
func (c *Calendar) TradingWindowsFor(event *Event) *TradingWindows {
	year, month, day := event.Date.Date()

	entryOffset, exitOffset := 0, 1
	if event.IsBeforeMarket() {
		entryOffset, exitOffset = -1, 0
	}

	entryEnd := time.Date(year, month, day+entryOffset, marketCloseHour, 0, 0, 0, c.market)
	exitStart := time.Date(year, month, day+exitOffset, marketOpenHour, marketOpenMin, 0, 0, c.market)

	return &TradingWindows{
		EntryStart:     entryEnd.Add(-c.entryBefore).In(c.user),
		EntryEnd:       entryEnd.In(c.user),
		ExitStart:      exitStart.In(c.user),
		ExitEnd:        exitStart.Add(c.exitAfter).In(c.user),
		MarketTimezone: c.market.String(),
	}
}

// ValidateEvent returns human-readable warnings about an event's
// suitability. An empty list means fully valid.
func (c *Calendar) ValidateEvent(event *Event) []string {
	var warnings []string

	days := event.DaysUntil(c.now())
	if days < 0 {
		warnings = append(warnings, fmt.Sprintf("earnings date %s is in the past", event.Date.Format("2006-01-02")))
	}
	if days > maxPlausibleDaysOut {
		warnings = append(warnings, fmt.Sprintf("earnings is %d days out; options for the cycle may not be listed yet", days))
	}
	if !event.Confirmed {
		warnings = append(warnings, "earnings date is not confirmed by the provider")
	}

	windows := c.TradingWindowsFor(event)
	if wd := windows.EntryStart.In(c.market).Weekday(); wd == time.Saturday || wd == time.Sunday {
		warnings = append(warnings, fmt.Sprintf("entry window falls on a %s", wd))
	}
	if wd := windows.ExitStart.In(c.market).Weekday(); wd == time.Saturday || wd == time.Sunday {
		warnings = append(warnings, fmt.Sprintf("exit window falls on a %s", wd))
	}

	return warnings
}

// Opportunity bundles an earnings event with its derived windows and
// validation warnings.
type Opportunity struct {
	Event    *Event          `json:"event"`
	Windows  *TradingWindows `json:"windows"`
	Warnings []string        `json:"warnings,omitempty"`
}

// TradingOpportunity resolves the next event for symbol and derives
// windows and warnings. Returns nil when no event is found.
func (c *Calendar) TradingOpportunity(ctx context.Context, symbol string) *Opportunity {
	event := c.NextEarnings(ctx, symbol)
	if event == nil {
		return nil
	}

	return &Opportunity{
		Event:    event,
		Windows:  c.TradingWindowsFor(event),
		Warnings: c.ValidateEvent(event),
	}
}
