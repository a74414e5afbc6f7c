package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"earnscope/internal/scheduler"
	"earnscope/internal/scheduler/jobs"
	"earnscope/internal/watchlist"
)

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Run the watchlist refresh scheduler",
	Long: `Runs the cron scheduler that periodically resolves prices for every
watchlist symbol, keeping the price cache warm. The schedule comes
from SCAN_SCHEDULE (cron expression with seconds field).

Example:
  go run ./cmd/earnscope watch`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	wl, err := watchlist.Load(a.cfg.WatchlistFile)
	if err != nil {
		return err
	}

	sched := scheduler.New(a.log)

	refresh := jobs.NewWatchlistRefresh(a.orchestrator, wl.Symbols, a.cfg.ScanSchedule, a.log)
	if err := sched.AddJob(refresh); err != nil {
		return err
	}

	// Warm the cache once at startup rather than waiting for the first
	// scheduled tick.
	if err := sched.RunJob(refresh.Name()); err != nil {
		return err
	}

	sched.Start()

	fmt.Printf("Refreshing %d watchlist symbols on schedule %q\n", len(wl.Symbols), a.cfg.ScanSchedule)
	fmt.Println("Press Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	sched.Stop()

	for name, stats := range sched.Stats() {
		a.log.WithFields(map[string]interface{}{
			"job":          name,
			"total_runs":   stats.TotalRuns,
			"success_rate": stats.SuccessRate,
		}).Info("Job summary")
	}

	return nil
}
