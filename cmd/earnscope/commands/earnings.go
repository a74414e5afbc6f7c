package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"earnscope/internal/report"
)

// earningsCmd represents the earnings command
var earningsCmd = &cobra.Command{
	Use:   "earnings <symbol>",
	Short: "Show the next earnings event and its trading windows",
	Long: `Resolves the next earnings announcement for a symbol and derives
the entry and exit trading windows in your timezone, with warnings for
unconfirmed dates, weekend windows and far-out events.

Example:
  go run ./cmd/earnscope earnings NVDA`,
	Args: cobra.ExactArgs(1),
	RunE: runEarnings,
}

func init() {
	rootCmd.AddCommand(earningsCmd)
}

func runEarnings(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	symbol := args[0]

	opportunity := a.calendar.TradingOpportunity(cmd.Context(), symbol)
	if opportunity == nil {
		return fmt.Errorf("no upcoming earnings found for %s", symbol)
	}

	fmt.Print(report.FormatOpportunity(opportunity))
	return nil
}
