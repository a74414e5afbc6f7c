package earnings

import "time"

// TradingWindows are the exact entry and exit windows derived from one
// earnings event, expressed in the user's timezone. Invariants:
// EntryStart < EntryEnd, ExitStart < ExitEnd, and the entry window
// closes before the exit window opens.
type TradingWindows struct {
	EntryStart time.Time `json:"entry_start"`
	EntryEnd   time.Time `json:"entry_end"`
	ExitStart  time.Time `json:"exit_start"`
	ExitEnd    time.Time `json:"exit_end"`

	// MarketTimezone records the zone the underlying open/close
	// arithmetic was done in.
	MarketTimezone string `json:"market_timezone"`
}

// IsInEntryWindow reports whether now falls inside the entry window,
// bounds inclusive.
func (w *TradingWindows) IsInEntryWindow(now time.Time) bool {
	return !now.Before(w.EntryStart) && !now.After(w.EntryEnd)
}

// IsInExitWindow reports whether now falls inside the exit window,
// bounds inclusive.
func (w *TradingWindows) IsInExitWindow(now time.Time) bool {
	return !now.Before(w.ExitStart) && !now.After(w.ExitEnd)
}

// TimeToEntry returns the duration until the entry window opens, or
// false once it has opened or passed.
func (w *TradingWindows) TimeToEntry(now time.Time) (time.Duration, bool) {
	if !now.Before(w.EntryStart) {
		return 0, false
	}
	return w.EntryStart.Sub(now), true
}

// TimeToExit returns the duration until the exit window opens, or
// false once it has opened or passed.
func (w *TradingWindows) TimeToExit(now time.Time) (time.Duration, bool) {
	if !now.Before(w.ExitStart) {
		return 0, false
	}
	return w.ExitStart.Sub(now), true
}
