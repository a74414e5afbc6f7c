package report

import (
	"fmt"
	"strings"

	"earnscope/internal/earnings"
	"earnscope/internal/marketdata"
	"earnscope/internal/quality"
)

const timeLayout = "Mon 2006-01-02 15:04 MST"

// FormatQuote formats one resolved price for terminal output.
func FormatQuote(quote marketdata.Quote) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("%s  $%.2f", quote.Symbol, quote.Price))
	if quote.Cached {
		b.WriteString(fmt.Sprintf("  (source: %s, cached)", quote.Source))
	} else {
		b.WriteString(fmt.Sprintf("  (source: %s)", quote.Source))
	}

	return b.String()
}

// FormatOpportunity formats an earnings event with its trading windows.
func FormatOpportunity(opp *earnings.Opportunity) string {
	var b strings.Builder

	event := opp.Event
	timing := "after market close"
	if event.IsBeforeMarket() {
		timing = "before market open"
	}

	b.WriteString(fmt.Sprintf("%s earnings: %s (%s)\n", event.Symbol, event.Date.Format("2006-01-02"), timing))

	confirmed := "confirmed"
	if !event.Confirmed {
		confirmed = "estimated"
	}
	b.WriteString(fmt.Sprintf("  date %s by %s\n\n", confirmed, event.Source))

	w := opp.Windows
	b.WriteString(fmt.Sprintf("  Entry window: %s → %s\n", w.EntryStart.Format(timeLayout), w.EntryEnd.Format(timeLayout)))
	b.WriteString(fmt.Sprintf("  Exit window:  %s → %s\n", w.ExitStart.Format(timeLayout), w.ExitEnd.Format(timeLayout)))

	if len(opp.Warnings) > 0 {
		b.WriteString("\n  Warnings:\n")
		for _, warning := range opp.Warnings {
			b.WriteString(fmt.Sprintf("    ! %s\n", warning))
		}
	}

	return b.String()
}

// FormatChainSummary formats the ATM view of a validated chain.
func FormatChainSummary(symbol string, spot float64, summary *quality.ATMSummary) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("%s chain %s (spot $%.2f)\n", symbol, summary.Expiration, spot))
	b.WriteString(fmt.Sprintf("  ATM strike: %.2f\n", summary.Strike))

	iv := fmt.Sprintf("  ATM IV: %.1f%%", summary.ATMIV*100)
	if summary.IVEstimated {
		iv += " (estimated from option prices)"
	}
	b.WriteString(iv + "\n")

	b.WriteString(fmt.Sprintf("  Call mid: $%.2f  Put mid: $%.2f\n", summary.CallMid, summary.PutMid))

	if summary.ValidationNote != "" {
		b.WriteString(fmt.Sprintf("  Note: %s\n", summary.ValidationNote))
	}

	return b.String()
}

// FormatQualityReport formats a data quality report.
func FormatQualityReport(r quality.Report) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Data quality for %s at %s\n", r.Symbol, r.Timestamp.Format(timeLayout)))
	b.WriteString(fmt.Sprintf("  Issues found: %d\n", r.IssuesFound))
	b.WriteString(fmt.Sprintf("  Fallback IV estimation used: %v\n", r.FallbackUsed))

	for _, issue := range r.Issues {
		b.WriteString(fmt.Sprintf("  - %s\n", issue))
	}
	for _, rec := range r.Recommendations {
		b.WriteString(fmt.Sprintf("  > %s\n", rec))
	}
	if r.Recommendation != "" {
		b.WriteString(fmt.Sprintf("  Recommendation: %s\n", r.Recommendation))
	}

	return b.String()
}
