package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	strategyFile string
	verbose      bool
)

// rootCmd is the base command.
var rootCmd = &cobra.Command{
	Use:   "fundwatch",
	Short: "fundwatch - daily fund NAV tracking and buy-signal engine",
	Long: `fundwatch ingests the daily AMFI NAV report, maintains an append-only
history per tracked fund, derives 30/50/200-day trend windows, and emits
dip/crossover alerts with an opportunity score.

Usage:
  go run ./cmd/fundwatch [command]

Examples:
  go run ./cmd/fundwatch daily
  go run ./cmd/fundwatch repair
  go run ./cmd/fundwatch scheduler
  go run ./cmd/fundwatch api
  go run ./cmd/fundwatch status`,
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&strategyFile, "strategy", "", "strategy file (default from STRATEGY_FILE)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
