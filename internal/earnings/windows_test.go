package earnings

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func marketLocation(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(MarketTimezone)
	require.NoError(t, err)
	return loc
}

func TestWindowsBeforeOpen(t *testing.T) {
	ny := marketLocation(t)
	cal := testCalendar(t)

	// Earnings Wednesday 2025-09-10 before the open: enter Tuesday
	// just before the close, exit Wednesday just after the open.
	event := eventOn(time.Date(2025, 9, 10, 0, 0, 0, 0, time.UTC), BeforeOpen)
	w := cal.TradingWindowsFor(event)

	assert.True(t, w.EntryStart.Equal(time.Date(2025, 9, 9, 15, 45, 0, 0, ny)), "entry start: %s", w.EntryStart)
	assert.True(t, w.EntryEnd.Equal(time.Date(2025, 9, 9, 16, 0, 0, 0, ny)), "entry end: %s", w.EntryEnd)
	assert.True(t, w.ExitStart.Equal(time.Date(2025, 9, 10, 9, 30, 0, 0, ny)), "exit start: %s", w.ExitStart)
	assert.True(t, w.ExitEnd.Equal(time.Date(2025, 9, 10, 9, 45, 0, 0, ny)), "exit end: %s", w.ExitEnd)
	assert.Equal(t, MarketTimezone, w.MarketTimezone)
}

func TestWindowsAfterClose(t *testing.T) {
	ny := marketLocation(t)
	cal := testCalendar(t)

	// Earnings Friday 2025-09-05 after the close: exit lands on
	// Saturday 2025-09-06 — deliberately not adjusted here.
	event := eventOn(time.Date(2025, 9, 5, 0, 0, 0, 0, time.UTC), AfterClose)
	w := cal.TradingWindowsFor(event)

	assert.True(t, w.EntryStart.Equal(time.Date(2025, 9, 5, 15, 45, 0, 0, ny)))
	assert.True(t, w.EntryEnd.Equal(time.Date(2025, 9, 5, 16, 0, 0, 0, ny)))
	assert.True(t, w.ExitStart.Equal(time.Date(2025, 9, 6, 9, 30, 0, 0, ny)))
	assert.True(t, w.ExitEnd.Equal(time.Date(2025, 9, 6, 9, 45, 0, 0, ny)))
	assert.Equal(t, time.Saturday, w.ExitStart.In(ny).Weekday())
}

func TestWindowsInvariants(t *testing.T) {
	cal := testCalendar(t)

	for _, timing := range []Timing{BeforeOpen, AfterClose} {
		w := cal.TradingWindowsFor(eventOn(time.Date(2025, 9, 10, 0, 0, 0, 0, time.UTC), timing))
		assert.True(t, w.EntryStart.Before(w.EntryEnd), "%s: entry start < entry end", timing)
		assert.True(t, w.ExitStart.Before(w.ExitEnd), "%s: exit start < exit end", timing)
		assert.True(t, w.EntryEnd.Before(w.ExitStart), "%s: entry closes before exit opens", timing)
	}
}

func TestWindowsConvertToUserTimezone(t *testing.T) {
	cfg := testCalendar(t) // market-tz calendar for the expected instants
	event := eventOn(time.Date(2025, 9, 10, 0, 0, 0, 0, time.UTC), BeforeOpen)
	expected := cfg.TradingWindowsFor(event)

	berlin := testCalendar(t)
	loc, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)
	berlin.user = loc

	w := berlin.TradingWindowsFor(event)
	assert.Equal(t, "Europe/Berlin", w.EntryStart.Location().String())
	assert.True(t, w.EntryStart.Equal(expected.EntryStart), "same instant regardless of display zone")
	assert.True(t, w.ExitEnd.Equal(expected.ExitEnd))
}

func TestWindowPointQueries(t *testing.T) {
	ny := marketLocation(t)
	cal := testCalendar(t)
	w := cal.TradingWindowsFor(eventOn(time.Date(2025, 9, 10, 0, 0, 0, 0, time.UTC), BeforeOpen))

	entryStart := time.Date(2025, 9, 9, 15, 45, 0, 0, ny)

	assert.True(t, w.IsInEntryWindow(entryStart), "bounds are inclusive")
	assert.True(t, w.IsInEntryWindow(time.Date(2025, 9, 9, 16, 0, 0, 0, ny)))
	assert.False(t, w.IsInEntryWindow(time.Date(2025, 9, 9, 16, 0, 1, 0, ny)))
	assert.False(t, w.IsInEntryWindow(time.Date(2025, 9, 9, 15, 44, 59, 0, ny)))

	assert.True(t, w.IsInExitWindow(time.Date(2025, 9, 10, 9, 30, 0, 0, ny)))
	assert.False(t, w.IsInExitWindow(time.Date(2025, 9, 10, 9, 46, 0, 0, ny)))

	d, ok := w.TimeToEntry(time.Date(2025, 9, 9, 15, 0, 0, 0, ny))
	require.True(t, ok)
	assert.Equal(t, 45*time.Minute, d)

	_, ok = w.TimeToEntry(entryStart)
	assert.False(t, ok, "window already open")

	d, ok = w.TimeToExit(time.Date(2025, 9, 10, 9, 0, 0, 0, ny))
	require.True(t, ok)
	assert.Equal(t, 30*time.Minute, d)

	_, ok = w.TimeToExit(time.Date(2025, 9, 10, 10, 0, 0, 0, ny))
	assert.False(t, ok, "window already passed")
}
