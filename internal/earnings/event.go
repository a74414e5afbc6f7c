package earnings

import (
	"context"
	"time"
)

// Timing says when on the report date the announcement happens.
type Timing string

const (
	// BeforeOpen (BMO) — reported before the market opens.
	BeforeOpen Timing = "bmo"

	// AfterClose (AMC) — reported after the market closes.
	AfterClose Timing = "amc"
)

// Event is one earnings announcement as reported by a provider.
// Created fresh per provider response and never mutated.
type Event struct {
	Symbol    string    `json:"symbol"`
	Date      time.Time `json:"date"`
	Timing    Timing    `json:"timing"`
	Confirmed bool      `json:"confirmed"`
	Source    string    `json:"source"`
}

// IsBeforeMarket reports whether the announcement is before the open.
func (e *Event) IsBeforeMarket() bool {
	return e.Timing == BeforeOpen
}

// IsAfterMarket reports whether the announcement is after the close.
func (e *Event) IsAfterMarket() bool {
	return e.Timing == AfterClose
}

// DaysUntil returns the calendar-day difference between the event date
// and now, both normalized to UTC dates. Negative means the event has
// already passed.
func (e *Event) DaysUntil(now time.Time) int {
	eventDay := toUTCDate(e.Date)
	today := toUTCDate(now)
	return int(eventDay.Sub(today).Hours() / 24)
}

func toUTCDate(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// Source supplies earnings announcements. Implementations report
// Enabled() false when required credentials are missing, which keeps
// them out of the candidate list entirely.
type Source interface {
	Name() string
	Enabled() bool

	// GetNextEarnings returns the next announcement for symbol, or
	// nil when the provider has nothing.
	GetNextEarnings(ctx context.Context, symbol string) (*Event, error)

	// GetEarningsCalendar returns announcements within daysAhead days.
	GetEarningsCalendar(ctx context.Context, symbol string, daysAhead int) ([]Event, error)
}
