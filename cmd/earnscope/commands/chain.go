package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"earnscope/internal/marketdata"
	"earnscope/internal/quality"
	"earnscope/internal/report"
)

// chainCmd represents the chain command
var chainCmd = &cobra.Command{
	Use:   "chain <symbol>",
	Short: "Fetch and validate an option chain",
	Long: `Fetches the option chain for the nearest expiration (or the one
given with --expiration), picks the at-the-money strike and runs the
data quality validator over the implied volatility, repairing
suspicious readings from observed option prices.

Example:
  go run ./cmd/earnscope chain AAPL
  go run ./cmd/earnscope chain AAPL --expiration 2025-09-19`,
	Args: cobra.ExactArgs(1),
	RunE: runChain,
}

var chainExpiration string

func init() {
	rootCmd.AddCommand(chainCmd)

	chainCmd.Flags().StringVar(&chainExpiration, "expiration", "", "expiration date (YYYY-MM-DD), defaults to the nearest")
}

func runChain(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	symbol := args[0]

	quote, ok := a.orchestrator.GetPrice(ctx, symbol)
	if !ok {
		return fmt.Errorf("price for %s unavailable, cannot locate the ATM strike", symbol)
	}

	expiration := chainExpiration
	if expiration == "" {
		dates, _ := a.orchestrator.GetExpirations(ctx, symbol, 1)
		if len(dates) == 0 {
			return fmt.Errorf("no option expirations found for %s", symbol)
		}
		expiration = dates[0]
	}

	chain, source, err := a.orchestrator.GetChain(ctx, symbol, expiration)
	if err != nil {
		return err
	}

	a.log.WithFields(map[string]interface{}{
		"symbol":     symbol,
		"expiration": expiration,
		"source":     source,
	}).Debug("Chain resolved")

	summary := atmSummary(chain, quote.Price)

	validator := quality.NewValidator(a.log)
	validator.ValidateIVData(map[string]float64{expiration: summary.ATMIV}, symbol)
	summary = validator.ValidateAndEnhanceATMSummary(summary, quote.Price, daysTo(expiration))

	fmt.Print(report.FormatChainSummary(chain.Symbol, quote.Price, &summary))

	if qr := validator.GenerateReport(symbol); qr.IssuesFound > 0 || qr.FallbackUsed {
		fmt.Println()
		fmt.Print(report.FormatQualityReport(qr))
	}

	return nil
}

// atmSummary condenses a chain to its at-the-money row.
func atmSummary(chain *marketdata.Chain, spot float64) quality.ATMSummary {
	strike := chain.ATMStrike(spot)

	summary := quality.ATMSummary{
		Expiration: chain.Expiration,
		Strike:     strike,
	}

	var ivs []float64
	for _, c := range chain.Calls {
		if c.Strike == strike {
			summary.CallMid = c.Mid()
			ivs = append(ivs, c.ImpliedVolatility)
			break
		}
	}
	for _, p := range chain.Puts {
		if p.Strike == strike {
			summary.PutMid = p.Mid()
			ivs = append(ivs, p.ImpliedVolatility)
			break
		}
	}

	for _, iv := range ivs {
		summary.ATMIV += iv
	}
	if len(ivs) > 0 {
		summary.ATMIV /= float64(len(ivs))
	}

	return summary
}

// daysTo counts calendar days from today to a YYYY-MM-DD expiration.
func daysTo(expiration string) int {
	expiry, err := time.Parse("2006-01-02", expiration)
	if err != nil {
		return 0
	}

	days := int(time.Until(expiry).Hours() / 24)
	if days < 1 {
		days = 1
	}
	return days
}
