package commands

import (
	"context"

	"github.com/spf13/cobra"
)

// dailyCmd runs one daily cycle immediately.
var dailyCmd = &cobra.Command{
	Use:   "daily",
	Short: "Run the daily NAV cycle once",
	Long: `Resolves the latest complete valuation row, appends it to the series,
recomputes moving averages, evaluates signals, and sends the digest.

A date already present in the series is a no-op.

Example:
  go run ./cmd/fundwatch daily`,
	RunE: runDaily,
}

func init() {
	rootCmd.AddCommand(dailyCmd)
}

func runDaily(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	if err := a.pipeline.Run(context.Background()); err != nil {
		a.log.WithError(err).Error("Daily cycle failed")
		return err
	}
	return nil
}
