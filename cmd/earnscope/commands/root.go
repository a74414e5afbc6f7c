package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	demoMode bool
	verbose  bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "earnscope",
	Short: "Earnings-window market data toolkit",
	Long: `earnscope resolves market data across fallback providers and turns
earnings announcements into exact entry/exit trading windows.

Usage:
  go run ./cmd/earnscope [command]

Examples:
  go run ./cmd/earnscope price AAPL
  go run ./cmd/earnscope chain AAPL
  go run ./cmd/earnscope earnings NVDA
  go run ./cmd/earnscope scan
  go run ./cmd/earnscope api
  go run ./cmd/earnscope watch`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVar(&demoMode, "demo", false, "answer every query from the synthetic provider (no network)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
