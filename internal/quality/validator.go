package quality

import (
	"fmt"
	"math"
	"time"

	"earnscope/pkg/logger"
)

// Severity grades a data quality issue.
type Severity string

const (
	SeverityWarning  Severity = "warning"
	SeverityError    Severity = "error"
	SeverityCritical Severity = "critical"
)

// Issue is one recorded data quality finding.
type Issue struct {
	Severity       Severity `json:"severity"`
	Issue          string   `json:"issue"`
	Recommendation string   `json:"recommendation"`
}

// ATMSummary is the per-expiration at-the-money snapshot handed in by
// downstream analysis for validation and, when needed, IV repair.
type ATMSummary struct {
	Expiration     string  `json:"expiration"`
	Strike         float64 `json:"strike"`
	ATMIV          float64 `json:"atm_iv"`
	CallMid        float64 `json:"call_mid"`
	PutMid         float64 `json:"put_mid"`
	IVEstimated    bool    `json:"iv_estimated"`
	ValidationNote string  `json:"validation_note,omitempty"`
}

// Validator detects corrupted implied-volatility readings and repairs
// them from observed option prices. It holds one validation session at
// a time: construct one per session and pass it explicitly rather than
// sharing an instance across concurrent work. The session resets at
// the start of every ValidateIVData call.
type Validator struct {
	logger       *logger.Logger
	issues       []Issue
	fallbackUsed bool
}

// NewValidator creates an empty validation session.
func NewValidator(log *logger.Logger) *Validator {
	return &Validator{logger: log}
}

// reset clears the session state.
func (v *Validator) reset() {
	v.issues = nil
	v.fallbackUsed = false
}

// record appends an issue to the current session.
func (v *Validator) record(sev Severity, issue, recommendation string) {
	v.issues = append(v.issues, Issue{Severity: sev, Issue: issue, Recommendation: recommendation})
}

// ValidateIVData classifies per-expiration ATM implied volatilities.
// Missing or non-finite readings are dropped; implausibly low readings
// are flagged as errors but kept as-is (repair happens at the summary
// level, not here); very high readings get a warning and are kept.
// Starts a fresh session. Never fails.
func (v *Validator) ValidateIVData(ivByExpiration map[string]float64, symbol string) map[string]float64 {
	v.reset()

	validated := make(map[string]float64, len(ivByExpiration))
	for exp, iv := range ivByExpiration {
		switch {
		case math.IsNaN(iv) || math.IsInf(iv, 0):
			v.record(SeverityWarning,
				fmt.Sprintf("%s %s: missing or non-finite IV", symbol, exp),
				"drop the expiration from analysis")

		case iv < MinPlausibleIV:
			v.record(SeverityError,
				fmt.Sprintf("%s %s: suspicious low IV %.4f", symbol, exp, iv),
				"estimate IV from option prices before trusting this reading")
			validated[exp] = iv

		case iv > MaxPlausibleIV:
			v.record(SeverityWarning,
				fmt.Sprintf("%s %s: very high IV %.4f", symbol, exp, iv),
				"verify against another data source")
			validated[exp] = iv

		default:
			validated[exp] = iv
		}
	}

	v.logger.WithFields(map[string]interface{}{
		"symbol": symbol,
		"input":  len(ivByExpiration),
		"kept":   len(validated),
		"issues": len(v.issues),
	}).Debug("Validated IV data")

	return validated
}

// ValidateAndEnhanceATMSummary repairs a suspicious ATM IV by solving
// for implied volatility from the call and put mid prices. Both sides
// are solved independently and whichever succeeded are averaged. When
// estimation is impossible the summary comes back numerically
// unchanged, carrying only a validation note.
func (v *Validator) ValidateAndEnhanceATMSummary(summary ATMSummary, currentPrice float64, daysToExpiration int) ATMSummary {
	if summary.ATMIV >= MinPlausibleIV {
		return summary
	}

	v.record(SeverityError,
		fmt.Sprintf("%s: suspicious low ATM IV %.4f", summary.Expiration, summary.ATMIV),
		"estimate IV from option prices")

	if summary.Strike <= 0 || summary.CallMid < minObservedPrice || summary.PutMid < minObservedPrice {
		summary.ValidationNote = "suspicious low IV; option prices unavailable for estimation"
		return summary
	}

	T := float64(daysToExpiration) / 365.0

	var estimates []float64
	if iv, ok := EstimateIVFromPrice(summary.CallMid, currentPrice, summary.Strike, T, DefaultRiskFreeRate, Call); ok {
		estimates = append(estimates, iv)
	}
	if iv, ok := EstimateIVFromPrice(summary.PutMid, currentPrice, summary.Strike, T, DefaultRiskFreeRate, Put); ok {
		estimates = append(estimates, iv)
	}

	if len(estimates) == 0 {
		summary.ValidationNote = "suspicious low IV; estimation from option prices failed"
		return summary
	}

	sum := 0.0
	for _, iv := range estimates {
		sum += iv
	}

	summary.ATMIV = sum / float64(len(estimates))
	summary.IVEstimated = true
	summary.ValidationNote = "IV estimated from option prices"
	v.fallbackUsed = true

	v.logger.WithFields(map[string]interface{}{
		"expiration": summary.Expiration,
		"estimated":  summary.ATMIV,
		"sides":      len(estimates),
	}).Info("Repaired suspicious IV from option prices")

	return summary
}

// Report summarizes the current validation session.
type Report struct {
	Symbol          string    `json:"symbol"`
	Timestamp       time.Time `json:"timestamp"`
	IssuesFound     int       `json:"issues_found"`
	FallbackUsed    bool      `json:"fallback_used"`
	Issues          []string  `json:"issues,omitempty"`
	Recommendations []string  `json:"recommendations,omitempty"`
	Recommendation  string    `json:"recommendation,omitempty"`
}

// GenerateReport builds a data quality report from the current
// session. Not persisted anywhere; callers render or discard it.
func (v *Validator) GenerateReport(symbol string) Report {
	report := Report{
		Symbol:       symbol,
		Timestamp:    time.Now(),
		IssuesFound:  len(v.issues),
		FallbackUsed: v.fallbackUsed,
	}

	var hasCritical, hasError bool
	for _, issue := range v.issues {
		report.Issues = append(report.Issues, issue.Issue)
		report.Recommendations = append(report.Recommendations, issue.Recommendation)
		switch issue.Severity {
		case SeverityCritical:
			hasCritical = true
		case SeverityError:
			hasError = true
		}
	}

	switch {
	case hasCritical:
		report.Recommendation = "critical data integrity problems detected; do not trade on this data"
	case hasError:
		report.Recommendation = "significant data quality issues found; review before trading"
	case v.fallbackUsed:
		report.Recommendation = "fallback IV estimates were used; verify against another source"
	}

	return report
}
