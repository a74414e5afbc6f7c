package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"earnscope/internal/report"
)

// priceCmd represents the price command
var priceCmd = &cobra.Command{
	Use:   "price <symbol>",
	Short: "Resolve the current price for a symbol",
	Long: `Resolves a spot price through the provider fallback chain:
demo mode, cache, then each configured provider in priority order,
with a stale cache read as the last resort.

Example:
  go run ./cmd/earnscope price AAPL`,
	Args: cobra.ExactArgs(1),
	RunE: runPrice,
}

func init() {
	rootCmd.AddCommand(priceCmd)
}

func runPrice(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	symbol := args[0]

	quote, ok := a.orchestrator.GetPrice(cmd.Context(), symbol)
	if !ok {
		return fmt.Errorf("price for %s unavailable from every provider and cache", symbol)
	}

	fmt.Println(report.FormatQuote(quote))
	return nil
}
