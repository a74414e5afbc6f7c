package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"earnscope/internal/report"
	"earnscope/internal/watchlist"
)

// scanCmd represents the scan command
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan the watchlist for upcoming earnings opportunities",
	Long: `Walks every watchlist symbol, resolves its price and next earnings
event and prints the derived trading windows.

Example:
  go run ./cmd/earnscope scan`,
	Args: cobra.NoArgs,
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	wl, err := watchlist.Load(a.cfg.WatchlistFile)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	found := 0

	for _, symbol := range wl.Symbols {
		opportunity := a.calendar.TradingOpportunity(ctx, symbol)
		if opportunity == nil {
			a.log.WithField("symbol", symbol).Debug("No upcoming earnings")
			continue
		}
		found++

		if quote, ok := a.orchestrator.GetPrice(ctx, symbol); ok {
			fmt.Println(report.FormatQuote(quote))
		}
		fmt.Print(report.FormatOpportunity(opportunity))
		fmt.Println()
	}

	fmt.Printf("%d of %d watchlist symbols have upcoming earnings\n", found, len(wl.Symbols))
	return nil
}
